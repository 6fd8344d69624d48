package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorAlert  = lipgloss.Color("#ef4444")
	colorNormal = lipgloss.Color("#00cc66")
	colorAccent = lipgloss.Color("#7c9cff")
	colorMuted  = lipgloss.Color("#6b7280")
	colorSystem = lipgloss.Color("#f59e0b")
)

type styles struct {
	header       lipgloss.Style
	user         lipgloss.Style
	assistant    lipgloss.Style
	system       lipgloss.Style
	body         lipgloss.Style
	pane         lipgloss.Style
	fieldHeading lipgloss.Style
	empty        lipgloss.Style
	item         lipgloss.Style
	alert        lipgloss.Style
	normal       lipgloss.Style
	notice       lipgloss.Style
	help         lipgloss.Style
	summary      lipgloss.Style
}

func newStyles(noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{
			header:       plain.Bold(true),
			user:         plain.Bold(true),
			assistant:    plain.Bold(true),
			system:       plain.Bold(true),
			body:         plain,
			pane:         plain.PaddingLeft(1),
			fieldHeading: plain.Underline(true),
			empty:        plain,
			item:         plain,
			alert:        plain.Bold(true).Reverse(true),
			normal:       plain,
			notice:       plain.Reverse(true),
			help:         plain,
			summary:      plain.Bold(true),
		}
	}

	return styles{
		header:       lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		user:         lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		assistant:    lipgloss.NewStyle().Bold(true).Foreground(colorNormal),
		system:       lipgloss.NewStyle().Bold(true).Foreground(colorSystem),
		body:         lipgloss.NewStyle(),
		pane:         lipgloss.NewStyle().PaddingLeft(1).BorderStyle(lipgloss.NormalBorder()).BorderLeft(true).BorderForeground(colorMuted),
		fieldHeading: lipgloss.NewStyle().Bold(true),
		empty:        lipgloss.NewStyle().Foreground(colorMuted),
		item:         lipgloss.NewStyle(),
		alert:        lipgloss.NewStyle().Bold(true).Foreground(colorAlert),
		normal:       lipgloss.NewStyle().Bold(true).Foreground(colorNormal),
		notice:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(colorAlert).Padding(0, 1),
		help:         lipgloss.NewStyle().Foreground(colorMuted),
		summary:      lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	}
}
