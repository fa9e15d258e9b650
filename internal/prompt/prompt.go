// Package prompt handles interactive confirmation and input solicitation.
//
// The Prompter interface is what the orchestrator and rollback depend on,
// so state-machine tests can script every answer.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the operator yes/no questions and solicits single values.
type Prompter interface {
	// Confirm asks a yes/no question; an empty answer yields def.
	Confirm(label string, def bool) (bool, error)

	// Input solicits one free-form value.
	Input(label string) (string, error)
}

// Terminal is a Prompter over an input/output stream pair.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a Prompter reading from in and writing to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Confirm implements Prompter. Unrecognized answers re-prompt.
func (t *Terminal) Confirm(label string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	for {
		fmt.Fprintf(t.out, "%s %s ", label, hint)
		line, err := t.in.ReadString('\n')
		if err != nil && line == "" {
			return false, fmt.Errorf("reading confirmation: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(t.out, "Please answer y or n.")
	}
}

// Input implements Prompter.
func (t *Terminal) Input(label string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", label)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
