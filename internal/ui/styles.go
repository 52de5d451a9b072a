package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vietdv277/asgroll/pkg/types"
)

// Box drawing characters
const (
	Horizontal = "─"
	StepMarker = "▸"
)

// Color palette
const (
	ColorBorder  = "240"
	ColorHeader  = "252"
	ColorName    = "81"
	ColorRunning = "82"
	ColorStopped = "196"
	ColorPending = "214"
	ColorMuted   = "240"
)

// Shared styles
var (
	BorderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBorder))
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorHeader))
	NameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorName))
	RunningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRunning))
	StoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorStopped))
	PendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPending))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted))
)

// RefreshStatusStyle picks a style for an instance refresh status
func RefreshStatusStyle(status string) lipgloss.Style {
	switch status {
	case types.RefreshStatusSuccessful:
		return RunningStyle
	case types.RefreshStatusFailed, types.RefreshStatusCancelled,
		types.RefreshStatusRollbackFailed, types.RefreshStatusRollbackSuccessful:
		return StoppedStyle
	default:
		return PendingStyle
	}
}

// padRight pads a string to the specified display width using runewidth
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return runewidth.Truncate(s, width, "...")
	}
	return s + strings.Repeat(" ", width-sw)
}

// rule returns a horizontal line as wide as s is on screen
func rule(s string) string {
	return strings.Repeat(Horizontal, runewidth.StringWidth(s))
}
