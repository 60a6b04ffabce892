package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// isTerminal reports whether stdin is attached to a terminal.
var isTerminal = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// runConfirm shows an interactive yes or no form.
var runConfirm = func(ctx context.Context, question string) (bool, error) {
	var answer bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Yes").
				Negative("No").
				Value(&answer),
		),
	).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return answer, err
}

// Prompter asks yes or no questions.
type Prompter struct {
	in  io.Reader
	out io.Writer
}

// New creates a Prompter reading answers from in when not on a terminal.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

// Confirm asks question and reports whether the answer was yes. Without a
// terminal a line is read from the input; anything but y or yes declines,
// as does an empty input.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	if isTerminal() {
		return runConfirm(ctx, question)
	}

	fmt.Fprintf(p.out, "%s (y/n): ", question)
	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
