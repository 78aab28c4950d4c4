package main

import "github.com/charmbracelet/lipgloss"

var (
	kindStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	stepStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F87"))
	arrow      = mutedStyle.Render(" -> ")
)
