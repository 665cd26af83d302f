package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("243")).
			Padding(0, 2)

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	addedLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	removedLineStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196"))

	contextLineStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250"))

	hunkHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	selectedMarkerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("226")).
				Bold(true)

	cursorLineStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236"))

	wordChangedOldStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("52")).
				Foreground(lipgloss.Color("230"))

	wordChangedNewStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("22")).
				Foreground(lipgloss.Color("230"))

	wsAddedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("22"))

	wsRemovedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("52"))

	oursStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("24")).
			Foreground(lipgloss.Color("230"))

	theirsStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("52")).
			Foreground(lipgloss.Color("230"))

	conflictMarkerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Bold(true)

	statusResolvedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Bold(true)

	statusUnresolvedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Bold(true)

	imgAddedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	imgRemovedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	imgChangedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("201"))
)
