package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Counter       lipgloss.Style
	CounterBox    lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	StateIdle     lipgloss.Style
	StateRunning  lipgloss.Style
	StatePaused   lipgloss.Style
	StateComplete lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Counter: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220")),
		CounterBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(1, 4).
			Align(lipgloss.Center),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Help:          lipgloss.NewStyle().Faint(true).MarginTop(1),
		Main:          lipgloss.NewStyle().Padding(1, 2),
		StateIdle:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StateRunning:  lipgloss.NewStyle().Foreground(lipgloss.Color("51")),  // cyan
		StatePaused:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StateComplete: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("33")),  // blue
	}
}
