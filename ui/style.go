package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	compatibleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ecc71")).Bold(true)
	incompatibleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e74c3c")).Bold(true)
	addStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ecc71"))
	removeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e74c3c"))
	updateStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#f39c12"))
	keepStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f8c8d"))
	headingStyle      = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Verdict renders a compatibility verdict with color.
func Verdict(compatible bool) string {
	if compatible {
		return compatibleStyle.Render("COMPATIBLE")
	}
	return incompatibleStyle.Render("INCOMPATIBLE")
}

// Heading renders a section heading.
func Heading(text string) string {
	return headingStyle.Render(text)
}

// Action renders a plan action label in its kind's color.
func Action(kind, text string) string {
	switch kind {
	case "add":
		return addStyle.Render(text)
	case "remove":
		return removeStyle.Render(text)
	case "update":
		return updateStyle.Render(text)
	default:
		return keepStyle.Render(text)
	}
}
