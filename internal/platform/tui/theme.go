package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme contains all configurable visual styles.
type Theme struct {
	// Menu styles
	Title          lipgloss.Style
	Subtitle       lipgloss.Style
	MenuItemNormal lipgloss.Style
	MenuItemActive lipgloss.Style
	Description    lipgloss.Style

	// HUD styles
	HUDLabel     lipgloss.Style
	HUDValue     lipgloss.Style
	HUDSeparator lipgloss.Style
	Controls     lipgloss.Style

	// Question styles
	Question lipgloss.Style
	Boss     lipgloss.Style
	Panel    lipgloss.Style

	// Feedback styles
	Correct lipgloss.Style
	Wrong   lipgloss.Style
	Shield  lipgloss.Style
	Star    lipgloss.Style
	Combo   lipgloss.Style
	Timer   lipgloss.Style
	Urgent  lipgloss.Style

	// Results styles
	Rating lipgloss.Style
	Muted  lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		Title:          lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		Subtitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		MenuItemNormal: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		MenuItemActive: lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
		Description:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),

		HUDLabel:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		HUDValue:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
		HUDSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Controls:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		Question: lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
		Boss:     lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true), // Hot pink
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 4),

		Correct: lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true), // Lime green
		Wrong:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Shield:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Star:    lipgloss.NewStyle().Foreground(lipgloss.Color("226")), // Bright yellow
		Combo:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		Timer:   lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
		Urgent:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

		Rating: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
