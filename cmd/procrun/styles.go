// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Styles for procrun's own output. The child's output is never styled.
var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	SubtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	// KeyStyle renders config keys in `config show`.
	KeyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
)
