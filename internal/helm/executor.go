package helm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/go-logr/logr"
)

// Executor runs install commands.
type Executor interface {
	Execute(ctx context.Context, cmds []Command) []Result
}

// lookPath is replaceable in tests.
var lookPath = exec.LookPath

// IsFound reports whether the helm binary is on PATH.
func IsFound() bool {
	_, err := lookPath("helm")
	return err == nil
}

// BinaryExecutor runs commands with the helm binary.
type BinaryExecutor struct {
	Binary string
	Log    logr.Logger
}

// Execute runs every command, continuing past failures.
func (e *BinaryExecutor) Execute(ctx context.Context, cmds []Command) []Result {
	binary := e.Binary
	if binary == "" {
		binary = "helm"
	}

	results := make([]Result, 0, len(cmds))
	for _, c := range cmds {
		var stdout, stderr bytes.Buffer
		cmd := exec.CommandContext(ctx, binary, c.Args()...)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		e.Log.V(1).Info("running helm", "command", c.String())
		err := cmd.Run()
		if err != nil && stderr.Len() == 0 {
			stderr.WriteString(err.Error())
		}
		results = append(results, Result{
			Command: c.String(),
			Stdout:  stdout.String(),
			Stderr:  stderr.String(),
			Success: err == nil,
		})
	}
	return results
}

// PrintExecutor prints the commands for manual execution instead of
// running them.
type PrintExecutor struct {
	Out io.Writer
}

// Execute writes "Manually run" followed by each command and marks every
// result as skipped.
func (e *PrintExecutor) Execute(_ context.Context, cmds []Command) []Result {
	results := make([]Result, 0, len(cmds))
	if len(cmds) > 0 {
		fmt.Fprintln(e.Out, "Manually run")
	}
	for _, c := range cmds {
		fmt.Fprintln(e.Out, c.String())
		results = append(results, Result{Command: c.String(), Skipped: true})
	}
	return results
}

// Mode selects how charts are installed.
type Mode string

// Install modes.
const (
	ModeBinary  Mode = "binary"
	ModeLibrary Mode = "library"
)

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeBinary, ModeLibrary:
		return Mode(s), nil
	case "":
		return ModeBinary, nil
	default:
		return "", fmt.Errorf("invalid helm mode %q, expected binary or library", s)
	}
}

// NewExecutor picks the executor for mode. In binary mode a missing helm
// binary degrades to printing the commands to out.
func NewExecutor(mode Mode, out io.Writer, log logr.Logger) Executor {
	switch mode {
	case ModeLibrary:
		return NewSDKExecutor(log)
	default:
		if !IsFound() {
			log.Info("helm is not detected, showing helm commands instead of executing them")
			return &PrintExecutor{Out: out}
		}
		return &BinaryExecutor{Log: log}
	}
}
