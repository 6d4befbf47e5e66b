// Package tabular parses the whitespace-delimited, header-plus-detail
// output that system tools like lsof and ps print. Column order and
// presence are not guaranteed across tool versions, so detail fields
// are mapped positionally against the validated header rather than by
// fixed offsets.
package tabular

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Error kinds for output that does not have the expected tabular shape.
// Pipelines wrap them with the tool name; match with errors.Is.
var (
	// ErrMissingHeader means there was no output at all where a header
	// line was expected.
	ErrMissingHeader = errors.New("output is missing the header line")

	// ErrMissingColumns means the header line lacks one or more of the
	// required column names. A blank header line falls under this too.
	ErrMissingColumns = errors.New("header is missing expected columns")

	// ErrMalformedDetailLine means a detail line has fewer fields than
	// the header columns require.
	ErrMalformedDetailLine = errors.New("detail line has fewer fields than the header requires")
)

// Row is the ordered whitespace-delimited fields of one detail line.
type Row []string

// SplitLines splits raw tool output into lines. Empty output yields no
// lines, and a single trailing newline does not yield a final blank
// line, so "no output at all" stays distinguishable from "blank header
// line" downstream.
func SplitLines(output string) []string {
	if output == "" {
		return nil
	}
	output = strings.TrimSuffix(output, "\n")
	lines := strings.Split(output, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// ExtractHeaderColumns consumes the first line as column titles and
// returns them upper-cased, in their original order, extras included.
// Tokens listed in synonyms are rewritten to their canonical spelling
// before validation, which absorbs column renames across tool versions.
// Every name in required must be present, in any order.
func ExtractHeaderColumns(lines []string, required []string, synonyms map[string]string) ([]string, error) {
	if len(lines) == 0 {
		return nil, ErrMissingHeader
	}

	cols := strings.Fields(strings.ToUpper(lines[0]))
	for i, col := range cols {
		if canonical, ok := synonyms[col]; ok {
			cols[i] = canonical
		}
	}

	var missing []string
	for _, want := range required {
		if !slices.Contains(cols, want) {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return cols, nil
}

// DetailRows tokenizes the lines remaining after the header. A line
// that tokenizes to no fields carries no record and is dropped.
func DetailRows(lines []string) []Row {
	var rows []Row
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		rows = append(rows, fields)
	}
	return rows
}

// MarkedDetailRows keeps only lines containing a field equal to marker,
// compared case-insensitively. The marker has no header column of its
// own and would desynchronize positional mapping, so it is removed from
// the returned row. Lines without the marker are dropped entirely.
func MarkedDetailRows(lines []string, marker string) []Row {
	var rows []Row
	for _, line := range lines {
		fields := strings.Fields(line)
		for i, field := range fields {
			if strings.EqualFold(field, marker) {
				rows = append(rows, slices.Delete(fields, i, i+1))
				break
			}
		}
	}
	return rows
}

// ColumnIndex maps canonical column names to their header position. It
// is built once per invocation so each detail field is random-accessed
// by index instead of re-scanned per column.
type ColumnIndex map[string]int

// NewColumnIndex builds the name-to-position map from an extracted
// header. The first occurrence wins if a name repeats.
func NewColumnIndex(cols []string) ColumnIndex {
	ix := make(ColumnIndex, len(cols))
	for i, col := range cols {
		if _, ok := ix[col]; !ok {
			ix[col] = i
		}
	}
	return ix
}

// Has reports whether the header contained the named column.
func (ix ColumnIndex) Has(col string) bool {
	_, ok := ix[col]
	return ok
}

// Value returns the field at the named column's position. A column
// absent from the index yields the empty string without error: header
// validation upstream decides which columns must exist. A row with
// fewer fields than the position requires is malformed, since the
// tool's output no longer lines up with its own header.
func (ix ColumnIndex) Value(row Row, col string) (string, error) {
	pos, ok := ix[col]
	if !ok {
		return "", nil
	}
	if pos >= len(row) {
		return "", fmt.Errorf("%w: row has %d fields, %s is column %d", ErrMalformedDetailLine, len(row), col, pos+1)
	}
	return row[pos], nil
}

// Remainder returns all fields from the named column's position to the
// end of the row, joined with single spaces. The join point is the
// column's own header index, so unrecognized columns after it do not
// shift it. Runs of whitespace in the source line collapse to single
// spaces.
func (ix ColumnIndex) Remainder(row Row, col string) (string, error) {
	pos, ok := ix[col]
	if !ok {
		return "", nil
	}
	if pos > len(row) {
		return "", fmt.Errorf("%w: row has %d fields, %s starts at column %d", ErrMalformedDetailLine, len(row), col, pos+1)
	}
	return strings.Join(row[pos:], " "), nil
}
