package ui

import (
	"fmt"

	"github.com/groblegark/depgraph/internal/model"
)

// ANSI256 color codes. The tier colors echo the palette the DOT output
// uses for node backgrounds.
const (
	colorAccent = 74  // blue, issue keys
	colorMuted  = 245 // medium gray, field labels
	colorDone   = 114 // green, finished statuses
)

// tierColors256 approximates the graph palette for terminal output.
// TierUnknown is deliberately absent and renders unstyled.
var tierColors256 = map[model.Tier]int{
	model.TierBlocker:       203,
	model.TierCritical:      215,
	model.TierMajor:         221,
	model.TierMinor:         75,
	model.TierUnprioritized: 252,
}

var noColor bool

// RenderKey returns an issue key in the accent (blue) color.
func RenderKey(s string) string {
	if noColor {
		return s
	}
	return paint(colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return paint(colorMuted, s)
}

// RenderStatus colors finished statuses green and leaves the rest plain.
func RenderStatus(s string) string {
	if noColor {
		return s
	}
	if model.Status(s).Done() {
		return paint(colorDone, s)
	}
	return s
}

// RenderPriority colors raw priority text by its tier.
func RenderPriority(s string) string {
	if noColor {
		return s
	}
	code, ok := tierColors256[model.ClassifyPriority(s)]
	if !ok {
		return s
	}
	return paint(code, s)
}

func paint(code int, s string) string {
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
