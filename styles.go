package main

import "github.com/charmbracelet/lipgloss"

// Layout constants
const (
	labelW      = 8  // minimum width of the outcome label column
	countW      = 7  // width of the count column
	maxBarRows  = 32 // outcomes shown before the panel truncates
	editorMinW  = 30 // narrowest the editor panel gets
	controlsH   = 4  // height of the bottom help bar
	shotsFactor = 2  // +/- multiply or divide the shot count
)

// Panel and text styles (Catppuccin Mocha palette).
var (
	editorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#cba6f7")).
			Padding(1)

	resultsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#89b4fa")).
			Padding(1)

	controlsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#a6e3a1")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#fab387"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f9e2af"))

	outcomeLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#89dceb"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94e2d5"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6c7086"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f38ba8"))

	menuBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#fab387")).
			Padding(0, 1)

	menuSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#fab387"))

	menuNormalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cdd6f4"))

	logStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f9e2af"))
)
