package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	colorGreen  = lipgloss.Color("2")
	colorYellow = lipgloss.Color("3")
	colorRed    = lipgloss.Color("1")
	colorGray   = lipgloss.Color("8")
	colorWhite  = lipgloss.Color("15")
	colorCyan   = lipgloss.Color("6")
)

// styles holds the lipgloss styles for every TUI element. Attribute-free
// styles render plain text, which is how color is disabled.
type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	cursor  lipgloss.Style
	dim     lipgloss.Style
	help    lipgloss.Style
	err     lipgloss.Style
	warn    lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	spinner lipgloss.Style

	// Row styles by process owner.
	rootProcess   lipgloss.Style
	systemProcess lipgloss.Style
	userProcess   lipgloss.Style
}

func newStyles(colored bool) styles {
	s := styles{
		title:         lipgloss.NewStyle(),
		header:        lipgloss.NewStyle(),
		cursor:        lipgloss.NewStyle(),
		dim:           lipgloss.NewStyle(),
		help:          lipgloss.NewStyle().PaddingTop(1),
		err:           lipgloss.NewStyle(),
		warn:          lipgloss.NewStyle(),
		label:         lipgloss.NewStyle().Width(12),
		value:         lipgloss.NewStyle(),
		spinner:       lipgloss.NewStyle(),
		rootProcess:   lipgloss.NewStyle(),
		systemProcess: lipgloss.NewStyle(),
		userProcess:   lipgloss.NewStyle(),
	}
	if !colored {
		return s
	}

	s.title = s.title.Bold(true).Foreground(colorCyan)
	s.header = s.header.Bold(true).Underline(true).Foreground(colorWhite)
	s.cursor = s.cursor.Bold(true).Foreground(colorCyan)
	s.dim = s.dim.Foreground(colorGray)
	s.help = s.help.Foreground(colorGray)
	s.err = s.err.Bold(true).Foreground(colorRed)
	s.warn = s.warn.Bold(true).Foreground(colorYellow)
	s.label = s.label.Bold(true).Foreground(colorCyan)
	s.value = s.value.Foreground(colorWhite)
	s.spinner = s.spinner.Foreground(colorCyan)
	s.rootProcess = s.rootProcess.Foreground(colorRed)
	s.systemProcess = s.systemProcess.Foreground(colorGray)
	s.userProcess = s.userProcess.Foreground(colorGreen)
	return s
}

// processStyle picks a row style from the process owner.
func (s styles) processStyle(user string) lipgloss.Style {
	switch user {
	case "root":
		return s.rootProcess
	case "daemon", "nobody", "www-data", "systemd-resolve", "systemd-network",
		"messagebus", "_postgres", "_mysql", "_www", "_mdnsresponder":
		return s.systemProcess
	default:
		return s.userProcess
	}
}
