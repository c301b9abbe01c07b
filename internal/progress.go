package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/tj/go-spin"
)

var (
	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

// Spinner is the neutral loading indicator shown while the console has
// nothing to mount yet or a request is in flight.
type Spinner struct {
	w      io.Writer
	msg    string
	tty    bool
	stopCh chan struct{}
	done   chan struct{}
	once   sync.Once
}

// StartSpinner prints msg to w and animates a spinner after it when w is a
// terminal. Off a terminal the message is only logged at debug level.
func StartSpinner(w io.Writer, msg string) *Spinner {
	s := &Spinner{
		w:      w,
		msg:    msg,
		tty:    isTerminal(w),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}

	if !s.tty {
		LogDebug("%s", msg)
		close(s.done)
		return s
	}

	frames := spin.New()
	fmt.Fprintf(w, "%s %s", progressStyle.Render(frames.Next()), msg)
	go func() {
		defer close(s.done)
		for {
			select {
			case <-s.stopCh:
				return
			case <-time.After(100 * time.Millisecond):
				fmt.Fprintf(w, "\r%s %s", progressStyle.Render(frames.Next()), msg)
			}
		}
	}()
	return s
}

// Stop halts the animation and leaves a final mark for the step.
// It is safe to call more than once.
func (s *Spinner) Stop(err error) {
	s.once.Do(func() {
		close(s.stopCh)
		<-s.done
		if !s.tty {
			return
		}
		mark := successStyle.Render("✓")
		if err != nil {
			mark = errorStyle.Render("✗")
		}
		fmt.Fprintf(s.w, "\r%s %s\n", mark, s.msg)
	})
}

// Clear halts the animation and erases the spinner line
func (s *Spinner) Clear() {
	s.once.Do(func() {
		close(s.stopCh)
		<-s.done
		if s.tty {
			fmt.Fprintf(s.w, "\r\033[K")
		}
	})
}

// ShowProgress runs fn behind a spinner on stderr
func ShowProgress(ctx context.Context, message string, fn func() error) error {
	s := StartSpinner(os.Stderr, message)

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		s.Stop(err)
		return err
	case <-ctx.Done():
		s.Stop(ctx.Err())
		return ctx.Err()
	}
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// IsInteractive reports whether both stdin and stdout are terminals
func IsInteractive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	if isTerminal(w) {
		fmt.Fprintf(w, "%s %s\n", successStyle.Render("✓"), message)
	} else {
		fmt.Fprintln(w, message)
	}
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	if isTerminal(w) {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render("✗"), message)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// PrintInfo prints an info message
func PrintInfo(w io.Writer, message string) {
	if isTerminal(w) {
		fmt.Fprintf(w, "%s %s\n", progressStyle.Render("ℹ"), message)
	} else {
		fmt.Fprintln(w, message)
	}
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	if isTerminal(w) {
		fmt.Fprintf(w, "%s %s\n", warningStyle.Render("⚠"), message)
	} else {
		fmt.Fprintf(w, "WARNING: %s\n", message)
	}
}
