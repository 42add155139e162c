// Package detector selects the progress renderer for the current environment.
package detector

import (
	"os"

	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive renderer.
	ModeTUI
	// ModeLinear forces the linear CI renderer.
	ModeLinear
)

// DetectEnvironment returns the recommended output mode based on the environment.
// Progress is drawn on stderr, so that is the descriptor checked for a TTY.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModeLinear
	}
	return ModeTUI
}

// ValidateFlag reports whether userFlag is an accepted --output value.
func ValidateFlag(userFlag string) error {
	switch userFlag {
	case "", "auto", "tui", "linear", "ci":
		return nil
	default:
		return zerr.With(domain.ErrInvalidOutputMode, "output", userFlag)
	}
}

// ResolveMode applies the user override to the detected mode.
// userFlag should be one of: "auto", "tui", "linear", "ci", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "tui":
		return ModeTUI
	case "linear", "ci":
		return ModeLinear
	default:
		return autoDetected
	}
}
