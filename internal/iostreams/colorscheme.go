package iostreams

import (
	"fmt"

	"github.com/muesli/termenv"
)

// ColorScheme provides terminal color formatting. When colors are disabled,
// all methods return the input string unmodified.
type ColorScheme struct {
	enabled bool
	profile termenv.Profile
}

// NewColorScheme creates a ColorScheme. When enabled is false all color
// methods are pass-throughs.
func NewColorScheme(enabled bool) *ColorScheme {
	profile := termenv.Ascii
	if enabled {
		profile = termenv.ColorProfile()
		if profile == termenv.Ascii {
			profile = termenv.ANSI
		}
	}
	return &ColorScheme{enabled: enabled, profile: profile}
}

// Enabled reports whether colors are active.
func (cs *ColorScheme) Enabled() bool {
	return cs.enabled
}

func (cs *ColorScheme) colorize(color, s string) string {
	if !cs.enabled {
		return s
	}
	return termenv.String(s).Foreground(cs.profile.Color(color)).String()
}

// Red returns the string in red (error color).
func (cs *ColorScheme) Red(s string) string { return cs.colorize("1", s) }

// Green returns the string in green (success color).
func (cs *ColorScheme) Green(s string) string { return cs.colorize("2", s) }

// Yellow returns the string in yellow (warning color).
func (cs *ColorScheme) Yellow(s string) string { return cs.colorize("3", s) }

// Blue returns the string in blue (accent color).
func (cs *ColorScheme) Blue(s string) string { return cs.colorize("4", s) }

// Muted returns the string in the muted gray used for hints.
func (cs *ColorScheme) Muted(s string) string { return cs.colorize("8", s) }

// Bold returns the string in bold.
func (cs *ColorScheme) Bold(s string) string {
	if !cs.enabled {
		return s
	}
	return termenv.String(s).Bold().String()
}

// SuccessIcon returns the success prefix for the current color mode.
func (cs *ColorScheme) SuccessIcon() string {
	if cs.enabled {
		return cs.Green("✓")
	}
	return "[ok]"
}

// WarningIcon returns the warning prefix for the current color mode.
func (cs *ColorScheme) WarningIcon() string {
	if cs.enabled {
		return cs.Yellow("!")
	}
	return "[warn]"
}

// FailureIcon returns the failure prefix for the current color mode.
func (cs *ColorScheme) FailureIcon() string {
	if cs.enabled {
		return cs.Red("✗")
	}
	return "[error]"
}

// InfoIcon returns the info prefix for the current color mode.
func (cs *ColorScheme) InfoIcon() string {
	if cs.enabled {
		return cs.Blue("ℹ")
	}
	return "[info]"
}

// SuccessIconWithColor formats msg behind the success icon.
func (cs *ColorScheme) SuccessIconWithColor(msg string) string {
	return fmt.Sprintf("%s %s", cs.SuccessIcon(), msg)
}

// WarningIconWithColor formats msg behind the warning icon.
func (cs *ColorScheme) WarningIconWithColor(msg string) string {
	return fmt.Sprintf("%s %s", cs.WarningIcon(), msg)
}

// FailureIconWithColor formats msg behind the failure icon.
func (cs *ColorScheme) FailureIconWithColor(msg string) string {
	return fmt.Sprintf("%s %s", cs.FailureIcon(), msg)
}

// InfoIconWithColor formats msg behind the info icon.
func (cs *ColorScheme) InfoIconWithColor(msg string) string {
	return fmt.Sprintf("%s %s", cs.InfoIcon(), msg)
}
