package internal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// ErrAborted is returned when the user interrupts or declines a prompt
var ErrAborted = errors.New("aborted")

// Prompter asks the user for input
type Prompter interface {
	Confirm(label string) (bool, error)
	Password(label string) (string, error)
	Line(label string) (string, error)
}

// TerminalPrompter prompts on the process terminal
type TerminalPrompter struct {
	in     *bufio.Reader
	stderr io.Writer
}

func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{
		in:     bufio.NewReader(os.Stdin),
		stderr: os.Stderr,
	}
}

var promptTemplates = &promptui.PromptTemplates{
	Prompt:  "{{ . | bold }} ",
	Valid:   "{{ . | green }} ",
	Invalid: "{{ . | red }} ",
	Success: "{{ . | bold }} ",
}

// Confirm asks a yes/no question. Off a terminal it refuses, so destructive
// commands need --yes in scripts.
func (p *TerminalPrompter) Confirm(label string) (bool, error) {
	if !IsInteractive() {
		return false, fmt.Errorf("cannot confirm %q without a terminal (pass --yes)", label)
	}

	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	resp, err := prompt.Run()
	if err == promptui.ErrInterrupt {
		return false, ErrAborted
	}
	if err == promptui.ErrAbort {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return strings.EqualFold(resp, "y"), nil
}

// Password reads a secret without echo. When stdin is not a terminal the
// first line of stdin is used.
func (p *TerminalPrompter) Password(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := p.in.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprintf(p.stderr, "%s: ", label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(p.stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

// Line reads one line of input. io.EOF is returned at end of input.
func (p *TerminalPrompter) Line(label string) (string, error) {
	if !IsInteractive() {
		line, err := p.in.ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		return strings.TrimRight(line, "\r\n"), err
	}

	prompt := promptui.Prompt{
		Label:     label,
		Templates: promptTemplates,
	}
	line, err := prompt.Run()
	switch err {
	case nil:
		return line, nil
	case promptui.ErrEOF, promptui.ErrInterrupt:
		return "", io.EOF
	default:
		return "", err
	}
}
