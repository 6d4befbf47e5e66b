package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"portlist/internal/port"
	"portlist/internal/process"
)

// columnSeparator sits between padded columns.
const columnSeparator = "  "

// Headers returns the column titles for the given verbosity. The
// trailing COMMAND column of the detail modes is the full process
// command line, distinct from the first column's short lsof name.
func Headers(v Verbosity) []string {
	base := []string{"COMMAND", "PID", "USER", "TYPE", "NODE", "HOST:PORT"}
	switch v {
	case Verbose:
		return append(base, "COMMAND")
	case VeryVerbose:
		return append(base, "%CPU", "%MEM", "START", "TIME", "COMMAND")
	default:
		return base
	}
}

// Alignments returns the per-column text positions: numeric columns
// right-aligned, text columns left.
func Alignments(v Verbosity) []lipgloss.Position {
	base := []lipgloss.Position{
		lipgloss.Left,  // COMMAND
		lipgloss.Right, // PID
		lipgloss.Left,  // USER
		lipgloss.Left,  // TYPE
		lipgloss.Left,  // NODE
		lipgloss.Right, // HOST:PORT
	}
	switch v {
	case Verbose:
		return append(base, lipgloss.Left)
	case VeryVerbose:
		return append(base, lipgloss.Right, lipgloss.Right, lipgloss.Left, lipgloss.Right, lipgloss.Left)
	default:
		return base
	}
}

// Rows flattens listener records into table cells for the given
// verbosity. Detail cells are blank when a record was not enriched.
func Rows(ports []port.ListeningPort, v Verbosity) [][]string {
	rows := make([][]string, 0, len(ports))
	for _, p := range ports {
		var info process.ProcessInfo
		if p.Process != nil {
			info = *p.Process
		}

		row := []string{p.Command, p.PID, p.User, p.Kind, p.Transport, p.Address}
		switch v {
		case Verbose:
			row = append(row, info.Command)
		case VeryVerbose:
			row = append(row, info.CPUPercent, info.MemPercent, info.Start, info.Time, info.Command)
		}
		rows = append(rows, row)
	}
	return rows
}

// Table formats rows into aligned columns separated by two spaces.
// Column width is the widest of the header and every cell in that
// column; the final column is written unpadded so lines never carry
// trailing spaces. With no rows the result is the header line alone.
// headers, aligns and every row must have equal lengths; a mismatch is
// a programming error and panics.
func Table(headers []string, aligns []lipgloss.Position, rows [][]string) string {
	if len(aligns) != len(headers) {
		panic("render: alignment count does not match header count")
	}
	for _, row := range rows {
		if len(row) != len(headers) {
			panic("render: row width does not match header count")
		}
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	styles := make([]lipgloss.Style, len(headers))
	for i := range headers {
		styles[i] = lipgloss.NewStyle().Width(widths[i]).Align(aligns[i])
	}

	var b strings.Builder
	writeLine := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString(columnSeparator)
			}
			if i == len(cells)-1 {
				b.WriteString(cell)
				continue
			}
			b.WriteString(styles[i].Render(cell))
		}
	}

	writeLine(headers)
	for _, row := range rows {
		b.WriteByte('\n')
		writeLine(row)
	}
	return b.String()
}

// ListeningPortTable renders ports as an aligned text table.
func ListeningPortTable(ports []port.ListeningPort, v Verbosity) string {
	return Table(Headers(v), Alignments(v), Rows(ports, v))
}
