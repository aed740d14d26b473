package iostreams

import "fmt"

// PrintSuccess prints a success message to stderr with a checkmark icon.
func (s *IOStreams) PrintSuccess(format string, args ...any) error {
	cs := s.ColorScheme()
	_, err := fmt.Fprintln(s.ErrOut, cs.SuccessIconWithColor(fmt.Sprintf(format, args...)))
	return err
}

// PrintWarning prints a warning message to stderr with an exclamation icon.
func (s *IOStreams) PrintWarning(format string, args ...any) error {
	cs := s.ColorScheme()
	_, err := fmt.Fprintln(s.ErrOut, cs.WarningIconWithColor(fmt.Sprintf(format, args...)))
	return err
}

// PrintFailure prints an error message to stderr with an X icon.
func (s *IOStreams) PrintFailure(format string, args ...any) error {
	cs := s.ColorScheme()
	_, err := fmt.Fprintln(s.ErrOut, cs.FailureIconWithColor(fmt.Sprintf(format, args...)))
	return err
}

// PrintEmpty prints an empty-state message to stderr, with optional hint
// lines below it.
func (s *IOStreams) PrintEmpty(noun string, hints ...string) error {
	cs := s.ColorScheme()
	if _, err := fmt.Fprintln(s.ErrOut, cs.Muted(fmt.Sprintf("No %s found.", noun))); err != nil {
		return err
	}
	for _, hint := range hints {
		if _, err := fmt.Fprintln(s.ErrOut, cs.Muted("  "+hint)); err != nil {
			return err
		}
	}
	return nil
}
