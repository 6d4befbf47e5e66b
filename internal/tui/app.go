package tui

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"portlist/internal/command"
	"portlist/internal/config"
	"portlist/internal/port"
	"portlist/internal/process"
	"portlist/internal/render"
)

// viewState tracks which screen the TUI is currently showing.
type viewState int

const (
	viewTable viewState = iota
	viewInfo
)

// sortField defines what column to sort by.
type sortField int

const (
	sortByPort sortField = iota
	sortByPID
	sortByCommand
)

func (f sortField) String() string {
	switch f {
	case sortByPID:
		return "pid"
	case sortByCommand:
		return "command"
	default:
		return "port"
	}
}

// Messages for async operations.
type scanDoneMsg struct {
	ports []port.ListeningPort
	err   error
}

type tickMsg time.Time

// Model is the Bubbletea model for the live listener table.
type Model struct {
	scanner   *port.LsofScanner
	processes *process.PsScanner
	cfg       *config.Config
	allowed   map[string]struct{}
	styles    styles
	version   string

	ports   []port.ListeningPort
	scanErr error

	verbosity    render.Verbosity
	sortBy       sortField
	cursor       int
	scrollOffset int
	paused       bool
	scanning     bool
	spinner      spinner.Model

	width  int
	height int

	currentView viewState
}

// New creates the TUI model. Scans run through runner, refresh timing
// and coloring come from cfg, a non-nil allowed set restricts the table
// to those ports, and verbosity picks the starting column set.
func New(runner command.Runner, cfg *config.Config, allowed map[string]struct{}, verbosity render.Verbosity, version string) Model {
	st := newStyles(cfg.ColorEnabled)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = st.spinner

	return Model{
		scanner:     port.NewLsofScanner(runner),
		processes:   process.NewPsScanner(runner),
		cfg:         cfg,
		allowed:     allowed,
		styles:      st,
		version:     version,
		verbosity:   verbosity,
		scanning:    true,
		spinner:     sp,
		currentView: viewTable,
	}
}

// Init starts the spinner and kicks off the initial scan.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.doScan(), m.tickCmd())
}

func (m Model) tickCmd() tea.Cmd {
	interval := time.Duration(m.cfg.RefreshInterval) * time.Second
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// doScan lists listeners and joins each with its ps row, so the info
// view has process detail regardless of the current verbosity.
func (m Model) doScan() tea.Cmd {
	scanner := m.scanner
	processes := m.processes
	exclude := m.cfg.Exclude
	allowed := m.allowed

	return func() tea.Msg {
		ctx := context.Background()
		ports, err := scanner.ListeningPorts(ctx)
		if err != nil {
			return scanDoneMsg{err: err}
		}
		ports = port.ExcludeCommands(ports, exclude)
		if allowed != nil {
			ports = port.KeepAllowedPorts(ports, allowed)
		}
		if len(ports) > 0 {
			infos, err := processes.ProcessesInfo(ctx, port.PIDs(ports))
			if err != nil {
				return scanDoneMsg{err: err}
			}
			for i := range ports {
				ports[i].EnrichWithProcessInfo(infos)
			}
		}
		return scanDoneMsg{ports: ports}
	}
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.scanning {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tickMsg:
		if !m.paused && m.currentView == viewTable {
			return m, tea.Batch(m.doScan(), m.tickCmd())
		}
		return m, m.tickCmd()

	case scanDoneMsg:
		m.scanning = false
		m.scanErr = msg.err
		if msg.err == nil {
			m.ports = msg.ports
			m.sortPorts()
			if m.cursor >= len(m.ports) {
				m.cursor = max(0, len(m.ports)-1)
			}
			m.adjustScroll()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.currentView {
		case viewInfo:
			return m.updateInfo(msg)
		default:
			return m.updateTable(msg)
		}
	}

	return m, nil
}

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.ports)-1 {
			m.cursor++
			m.ensureCursorVisible()
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorVisible()
		}
	case "r":
		m.scanning = true
		return m, tea.Batch(m.doScan(), m.spinner.Tick)
	case "s":
		m.sortBy = (m.sortBy + 1) % 3
		m.sortPorts()
	case "v":
		m.verbosity = (m.verbosity + 1) % 3
	case "p":
		m.paused = !m.paused
	case "i", "enter":
		if m.selectedPort() != nil {
			m.currentView = viewInfo
		}
	}
	return m, nil
}

func (m Model) updateInfo(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace", "enter":
		m.currentView = viewTable
	}
	return m, nil
}

func (m Model) selectedPort() *port.ListeningPort {
	if m.cursor < 0 || m.cursor >= len(m.ports) {
		return nil
	}
	return &m.ports[m.cursor]
}

func (m *Model) sortPorts() {
	sort.SliceStable(m.ports, func(i, j int) bool {
		a, b := m.ports[i], m.ports[j]
		switch m.sortBy {
		case sortByPID:
			return numericLess(a.PID, b.PID)
		case sortByCommand:
			return strings.ToLower(a.Command) < strings.ToLower(b.Command)
		default:
			return numericLess(port.PortOf(a.Address), port.PortOf(b.Address))
		}
	})
}

// numericLess compares decimal strings by value, falling back to
// lexical order when either side is not a number (wildcard addresses).
func numericLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA != nil || errB != nil {
		return a < b
	}
	return na < nb
}

func (m *Model) ensureCursorVisible() {
	visible := m.visibleRows()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}
}

func (m *Model) adjustScroll() {
	m.ensureCursorVisible()
	maxOffset := max(0, len(m.ports)-m.visibleRows())
	if m.scrollOffset > maxOffset {
		m.scrollOffset = maxOffset
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

func (m Model) visibleRows() int {
	// Reserve lines for: title (1), column headers (1), scroll
	// indicator (1), status (1), help (2).
	const reserved = 6
	return max(1, m.height-reserved)
}

// View renders the TUI.
func (m Model) View() string {
	if m.currentView == viewInfo {
		return m.viewInfo()
	}
	return m.viewTable()
}

func (m Model) viewTable() string {
	var b strings.Builder

	title := m.styles.title.Render("portlist " + m.version)
	stats := m.styles.dim.Render(fmt.Sprintf("listening: %d", len(m.ports)))
	b.WriteString(title + "  " + stats)
	if m.paused {
		b.WriteString("  " + m.styles.warn.Render("[paused]"))
	}
	b.WriteString("\n")

	if m.scanning && len(m.ports) == 0 {
		b.WriteString("\n" + m.spinner.View() + " Scanning...\n")
		return b.String()
	}
	if m.scanErr != nil {
		b.WriteString(m.styles.err.Render(fmt.Sprintf("  scan failed: %v", m.scanErr)) + "\n")
	}
	if len(m.ports) == 0 {
		b.WriteString("\n  No listening ports found.\n")
		b.WriteString(m.helpLine())
		return b.String()
	}

	lines := strings.Split(render.ListeningPortTable(m.ports, m.verbosity), "\n")
	b.WriteString(m.styles.header.Render("  "+lines[0]) + "\n")

	rows := lines[1:]
	visible := m.visibleRows()
	end := min(m.scrollOffset+visible, len(rows))
	for i := m.scrollOffset; i < end; i++ {
		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.cursor.Render("> ")
		}
		line := rows[i]
		if m.width > 4 {
			line = truncate(line, m.width-2)
		}
		b.WriteString(cursor + m.styles.processStyle(m.ports[i].User).Render(line) + "\n")
	}
	if len(rows) > visible {
		b.WriteString(m.styles.dim.Render(fmt.Sprintf("  [%d-%d of %d]", m.scrollOffset+1, end, len(rows))) + "\n")
	}

	b.WriteString(m.styles.dim.Render(fmt.Sprintf("  sort: %s  detail: %s", m.sortBy, m.verbosity)))
	b.WriteString(m.helpLine())
	return b.String()
}

func (m Model) viewInfo() string {
	var b strings.Builder

	p := m.selectedPort()
	if p == nil {
		b.WriteString("  No listener selected.\n")
		b.WriteString(m.styles.help.Render("esc:back  q:quit") + "\n")
		return b.String()
	}

	b.WriteString(m.styles.title.Render(p.String()) + "\n\n")

	write := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(m.styles.label.Render(label) + m.styles.value.Render(value) + "\n")
	}
	write("Command", p.Command)
	write("PID", p.PID)
	write("User", p.User)
	write("Type", p.Kind)
	write("Node", p.Transport)
	write("Address", p.Address)

	if info := p.Process; info != nil {
		b.WriteString("\n")
		write("Cmdline", info.Command)
		write("CPU", info.CPUPercent+"%")
		write("Memory", info.MemPercent+"%")
		write("Started", info.Start)
		write("CPU time", info.Time)
	} else {
		b.WriteString("\n" + m.styles.dim.Render("  no matching ps row") + "\n")
	}

	b.WriteString(m.styles.help.Render("esc:back  q:quit") + "\n")
	return b.String()
}

func (m Model) helpLine() string {
	return m.styles.help.Render("j/k:move  enter:info  r:refresh  s:sort  v:detail  p:pause  q:quit") + "\n"
}

// truncate shortens a string to max length, appending "..." when cut.
func truncate(s string, maxLen int) string {
	if maxLen < 4 {
		maxLen = 4
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
