package output

import (
	"encoding/json"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"
)

// Printer writes results either as text or as indented JSON.
type Printer struct {
	out  io.Writer
	json bool
}

// New creates a Printer writing to out.
func New(out io.Writer, asJSON bool) *Printer {
	return &Printer{out: out, json: asJSON}
}

// JSON reports whether the printer emits JSON.
func (p *Printer) JSON() bool {
	return p.json
}

// Print writes v as JSON, or the result of text otherwise.
func (p *Printer) Print(v any, text func() string) error {
	if p.json {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		_, err = fmt.Fprintln(p.out, string(data))
		return err
	}
	s := text()
	if s == "" {
		return nil
	}
	_, err := fmt.Fprintln(p.out, s)
	return err
}

// Object writes a Kubernetes object as YAML, or as JSON in JSON mode.
func (p *Printer) Object(obj any) error {
	if p.json {
		return p.Print(obj, nil)
	}
	data, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to marshal object: %w", err)
	}
	_, err = p.out.Write(data)
	return err
}

// Message writes a plain line in text mode and nothing in JSON mode.
func (p *Printer) Message(format string, args ...any) {
	if !p.json {
		fmt.Fprintf(p.out, format+"\n", args...)
	}
}
