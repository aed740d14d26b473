// Package iostreams provides access to process I/O streams with terminal
// detection and color support, following the GitHub CLI pattern for
// testable I/O.
package iostreams

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IOStreams holds the three standard streams plus cached terminal state.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	// TTY state caches: -1 = unchecked, 0 = false, 1 = true.
	isInputTTY  int
	isOutputTTY int
	isStderrTTY int

	// colorEnabled: -1 = auto-detect from TTY, 0 = off, 1 = on.
	colorEnabled int

	colorScheme *ColorScheme

	// Terminal width cache, 0 = unchecked.
	termWidth int
}

// System creates an IOStreams wired to the process streams.
func System() *IOStreams {
	ios := &IOStreams{
		In:           os.Stdin,
		Out:          os.Stdout,
		ErrOut:       os.Stderr,
		isInputTTY:   -1,
		isOutputTTY:  -1,
		isStderrTTY:  -1,
		colorEnabled: -1,
	}

	if os.Getenv("NO_COLOR") != "" {
		ios.colorEnabled = 0
	}

	return ios
}

// IsInputTTY reports whether stdin is a terminal.
func (s *IOStreams) IsInputTTY() bool {
	if s.isInputTTY == -1 {
		s.isInputTTY = boolToInt(fileIsTerminal(s.In))
	}
	return s.isInputTTY == 1
}

// IsOutputTTY reports whether stdout is a terminal.
func (s *IOStreams) IsOutputTTY() bool {
	if s.isOutputTTY == -1 {
		s.isOutputTTY = boolToInt(fileIsTerminal(s.Out))
	}
	return s.isOutputTTY == 1
}

// IsStderrTTY reports whether stderr is a terminal.
func (s *IOStreams) IsStderrTTY() bool {
	if s.isStderrTTY == -1 {
		s.isStderrTTY = boolToInt(fileIsTerminal(s.ErrOut))
	}
	return s.isStderrTTY == 1
}

// IsInteractive reports whether both stdin and stdout are terminals.
func (s *IOStreams) IsInteractive() bool {
	return s.IsInputTTY() && s.IsOutputTTY()
}

// ColorEnabled reports whether color output is active.
func (s *IOStreams) ColorEnabled() bool {
	if s.colorEnabled == -1 {
		s.colorEnabled = boolToInt(s.IsOutputTTY())
	}
	return s.colorEnabled == 1
}

// SetStdinTTY overrides stdin TTY detection, for tests.
func (s *IOStreams) SetStdinTTY(tty bool) { s.isInputTTY = boolToInt(tty) }

// SetStdoutTTY overrides stdout TTY detection, for tests.
func (s *IOStreams) SetStdoutTTY(tty bool) { s.isOutputTTY = boolToInt(tty) }

// SetStderrTTY overrides stderr TTY detection, for tests.
func (s *IOStreams) SetStderrTTY(tty bool) { s.isStderrTTY = boolToInt(tty) }

// SetColorEnabled forces color output on or off.
func (s *IOStreams) SetColorEnabled(enabled bool) {
	s.colorEnabled = boolToInt(enabled)
	s.colorScheme = nil
}

// ColorScheme returns the color scheme for the current color setting.
func (s *IOStreams) ColorScheme() *ColorScheme {
	if s.colorScheme == nil {
		s.colorScheme = NewColorScheme(s.ColorEnabled())
	}
	return s.colorScheme
}

// TerminalWidth returns the stdout terminal width, or 80 when stdout is not
// a terminal or the size cannot be determined.
func (s *IOStreams) TerminalWidth() int {
	if s.termWidth > 0 {
		return s.termWidth
	}
	s.termWidth = 80
	if f, ok := s.Out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			s.termWidth = w
		}
	}
	return s.termWidth
}

// SetTerminalWidth overrides the cached terminal width, for tests.
func (s *IOStreams) SetTerminalWidth(w int) { s.termWidth = w }

func fileIsTerminal(stream any) bool {
	if f, ok := stream.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
