package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/models"
)

var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	OKStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	WarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	DangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// StatusStyle picks the style for an execution status.
func StatusStyle(s models.ExecutionStatus) lipgloss.Style {
	switch s {
	case models.StatusExecuted:
		return OKStyle
	case models.StatusSkippedCap, models.StatusSkippedIdempotent:
		return WarnStyle
	case models.StatusSkippedError:
		return DangerStyle
	default:
		return MutedStyle
	}
}

// RenderStatus renders s in its status style.
func RenderStatus(s models.ExecutionStatus) string {
	return StatusStyle(s).Render(string(s))
}

// RenderEnabled renders an intent's enablement.
func RenderEnabled(enabled bool) string {
	if enabled {
		return OKStyle.Render("enabled")
	}
	return MutedStyle.Render("disabled")
}
