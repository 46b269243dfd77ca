package cliui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/papercomputeco/nexus/pkg/graph"
)

// Shared text styles for command output.
var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	KeyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	ValueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	NameStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	IDStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	TypeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	PreviewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	processStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	semanticStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

	verifiedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	unverifiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	archivedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// EdgeKind renders an edge kind colored by its category.
func EdgeKind(kind string, cat graph.Category) string {
	switch cat {
	case graph.Process:
		return processStyle.Render(kind)
	case graph.Semantic:
		return semanticStyle.Render(kind)
	default:
		return DimStyle.Render(kind)
	}
}

// Status renders an insight status label.
func Status(status string) string {
	switch status {
	case "VERIFIED":
		return verifiedStyle.Render(status)
	case "UNVERIFIED":
		return unverifiedStyle.Render(status)
	case "ARCHIVED":
		return archivedStyle.Render(status)
	default:
		return DimStyle.Render(status)
	}
}
