// Package tui provides terminal output components for Ember.
//
// Styling uses Lip Gloss with AdaptiveColor throughout so output reads well
// on both light and dark terminals. Call CheckNoColor at command start to
// respect the NO_COLOR environment variable.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/emberflow/ember/internal/constants"
)

//nolint:gochecknoglobals // Package-level styling palette
var (
	// ColorPrimary is blue, used for headings and the current focus.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for completed work.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for neglected goals and advisories.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for failures.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}
)

// OutputStyles holds the styles used by TTYOutput.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Header  lipgloss.Style
	Muted   lipgloss.Style
}

// NewOutputStyles creates the default output styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().Foreground(ColorSuccess),
		Error:   lipgloss.NewStyle().Foreground(ColorError),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Info:    lipgloss.NewStyle(),
		Header:  lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// SliceSizeColors maps slice size labels to their display colors: warm-ups
// feel inviting, dives stand out.
func SliceSizeColors() map[constants.SliceSize]lipgloss.AdaptiveColor {
	return map[constants.SliceSize]lipgloss.AdaptiveColor{
		constants.SliceWarmUp: ColorSuccess,
		constants.SliceSettle: ColorPrimary,
		constants.SliceDive:   ColorWarning,
	}
}

// CheckNoColor disables styling when NO_COLOR is set or TERM=dumb.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport reports whether colored output is appropriate.
func HasColorSupport() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}
