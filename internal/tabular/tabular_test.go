package tabular

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []string
	}{
		{
			name:   "empty output yields no lines",
			output: "",
			want:   nil,
		},
		{
			name:   "trailing newline does not yield a blank line",
			output: "COMMAND PID\nssh 42\n",
			want:   []string{"COMMAND PID", "ssh 42"},
		},
		{
			name:   "single newline is one blank line",
			output: "\n",
			want:   []string{""},
		},
		{
			name:   "carriage returns are stripped",
			output: "COMMAND PID\r\nssh 42\r\n",
			want:   []string{"COMMAND PID", "ssh 42"},
		},
		{
			name:   "no trailing newline",
			output: "COMMAND PID\nssh 42",
			want:   []string{"COMMAND PID", "ssh 42"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLines(tt.output)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitLines(%q) = %v, want %v", tt.output, got, tt.want)
			}
		})
	}
}

func TestExtractHeaderColumns(t *testing.T) {
	required := []string{"COMMAND", "PID", "USER"}

	tests := []struct {
		name     string
		lines    []string
		synonyms map[string]string
		want     []string
		wantErr  error
	}{
		{
			name:  "columns in expected order",
			lines: []string{"COMMAND PID USER"},
			want:  []string{"COMMAND", "PID", "USER"},
		},
		{
			name:  "columns in any order",
			lines: []string{"USER COMMAND PID"},
			want:  []string{"USER", "COMMAND", "PID"},
		},
		{
			name:  "lowercase header is normalized",
			lines: []string{"command pid user"},
			want:  []string{"COMMAND", "PID", "USER"},
		},
		{
			name:  "extra columns are preserved in place",
			lines: []string{"COMMAND PID TTY USER FD"},
			want:  []string{"COMMAND", "PID", "TTY", "USER", "FD"},
		},
		{
			name:     "synonym is rewritten to its canonical name",
			lines:    []string{"COMMAND PID USERNAME"},
			synonyms: map[string]string{"USERNAME": "USER"},
			want:     []string{"COMMAND", "PID", "USER"},
		},
		{
			name:    "no lines at all",
			lines:   nil,
			wantErr: ErrMissingHeader,
		},
		{
			name:    "blank header line",
			lines:   []string{""},
			wantErr: ErrMissingColumns,
		},
		{
			name:    "whitespace-only header line",
			lines:   []string{"   "},
			wantErr: ErrMissingColumns,
		},
		{
			name:    "required column absent",
			lines:   []string{"COMMAND USER"},
			wantErr: ErrMissingColumns,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractHeaderColumns(tt.lines, required, tt.synonyms)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ExtractHeaderColumns() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractHeaderColumns() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractHeaderColumns() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractHeaderColumnsNamesMissing(t *testing.T) {
	_, err := ExtractHeaderColumns([]string{"COMMAND NODE"}, []string{"COMMAND", "PID", "USER"}, nil)
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("error = %v, want %v", err, ErrMissingColumns)
	}
	for _, name := range []string{"PID", "USER"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not name missing column %s", err, name)
		}
	}
}

func TestDetailRows(t *testing.T) {
	lines := []string{
		"ssh 42 root",
		"",
		"   ",
		"nginx 100 www-data",
	}

	got := DetailRows(lines)
	want := []Row{
		{"ssh", "42", "root"},
		{"nginx", "100", "www-data"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DetailRows() = %v, want %v", got, want)
	}
}

func TestMarkedDetailRows(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []Row
	}{
		{
			name:  "marker is removed from the row",
			lines: []string{"docker-pr 2673 root IPv4 TCP *:333 (LISTEN)"},
			want:  []Row{{"docker-pr", "2673", "root", "IPv4", "TCP", "*:333"}},
		},
		{
			name:  "marker match is case-insensitive",
			lines: []string{"a 1 (listen)", "b 2 (LiStEn)"},
			want:  []Row{{"a", "1"}, {"b", "2"}},
		},
		{
			name:  "lines without the marker are dropped",
			lines: []string{"ssh 42 root IPv4 TCP *:22 (LISTEN)", "curl 77 root IPv4 TCP 1.2.3.4:443->5.6.7.8:55 (ESTABLISHED)"},
			want:  []Row{{"ssh", "42", "root", "IPv4", "TCP", "*:22"}},
		},
		{
			name:  "marker in the middle of the row",
			lines: []string{"svc 9 (LISTEN) trailing"},
			want:  []Row{{"svc", "9", "trailing"}},
		},
		{
			name:  "blank lines are dropped",
			lines: []string{"", "ssh 42 (LISTEN)"},
			want:  []Row{{"ssh", "42"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarkedDetailRows(tt.lines, "(LISTEN)")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MarkedDetailRows() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColumnIndexValue(t *testing.T) {
	cols, err := ExtractHeaderColumns(
		[]string{"COMMAND PID USER TYPE NODE NAME"},
		[]string{"COMMAND", "PID", "USER", "TYPE", "NODE", "NAME"},
		nil,
	)
	if err != nil {
		t.Fatalf("ExtractHeaderColumns() unexpected error: %v", err)
	}
	ix := NewColumnIndex(cols)
	row := Row{"docker-pr", "2673", "root", "IPv4", "TCP", "*:333"}

	tests := []struct {
		col  string
		want string
	}{
		{"COMMAND", "docker-pr"},
		{"PID", "2673"},
		{"USER", "root"},
		{"TYPE", "IPv4"},
		{"NODE", "TCP"},
		{"NAME", "*:333"},
	}
	for _, tt := range tests {
		got, err := ix.Value(row, tt.col)
		if err != nil {
			t.Fatalf("Value(%s) unexpected error: %v", tt.col, err)
		}
		if got != tt.want {
			t.Errorf("Value(%s) = %q, want %q", tt.col, got, tt.want)
		}
	}
}

func TestColumnIndexValueShortRow(t *testing.T) {
	ix := NewColumnIndex([]string{"COMMAND", "PID", "USER"})
	row := Row{"ssh", "42"}

	if _, err := ix.Value(row, "USER"); !errors.Is(err, ErrMalformedDetailLine) {
		t.Errorf("Value(USER) error = %v, want %v", err, ErrMalformedDetailLine)
	}
	if got, err := ix.Value(row, "PID"); err != nil || got != "42" {
		t.Errorf("Value(PID) = %q, %v, want %q, nil", got, err, "42")
	}
}

func TestColumnIndexValueAbsentColumn(t *testing.T) {
	ix := NewColumnIndex([]string{"COMMAND", "PID"})

	got, err := ix.Value(Row{"ssh", "42"}, "USER")
	if err != nil {
		t.Fatalf("Value(USER) unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("Value(USER) = %q, want empty", got)
	}
}

func TestColumnIndexRemainder(t *testing.T) {
	cols, err := ExtractHeaderColumns(
		[]string{"USER PID %CPU %MEM START TIME COMMAND"},
		[]string{"USER", "PID", "%CPU", "%MEM", "START", "TIME", "COMMAND"},
		nil,
	)
	if err != nil {
		t.Fatalf("ExtractHeaderColumns() unexpected error: %v", err)
	}
	ix := NewColumnIndex(cols)

	tests := []struct {
		name string
		row  Row
		want string
	}{
		{
			name: "joins all fields from the column position",
			row:  Row{"root", "2673", "0.0", "0.0", "09:27", "0:02", "/usr/bin/docker-proxy", "-proto", "tcp"},
			want: "/usr/bin/docker-proxy -proto tcp",
		},
		{
			name: "single field",
			row:  Row{"root", "2673", "0.0", "0.0", "09:27", "0:02", "nginx"},
			want: "nginx",
		},
		{
			name: "position exactly at row end yields empty",
			row:  Row{"root", "2673", "0.0", "0.0", "09:27", "0:02"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ix.Remainder(tt.row, "COMMAND")
			if err != nil {
				t.Fatalf("Remainder() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Remainder() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColumnIndexRemainderShortRow(t *testing.T) {
	ix := NewColumnIndex([]string{"USER", "PID", "COMMAND"})

	if _, err := ix.Remainder(Row{"root"}, "COMMAND"); !errors.Is(err, ErrMalformedDetailLine) {
		t.Errorf("Remainder() error = %v, want %v", err, ErrMalformedDetailLine)
	}
}

func TestColumnIndexHas(t *testing.T) {
	ix := NewColumnIndex([]string{"COMMAND", "PID"})

	if !ix.Has("PID") {
		t.Error("Has(PID) = false, want true")
	}
	if ix.Has("USER") {
		t.Error("Has(USER) = true, want false")
	}
}

func TestNewColumnIndexFirstOccurrenceWins(t *testing.T) {
	ix := NewColumnIndex([]string{"PID", "COMMAND", "PID"})

	if got := ix["PID"]; got != 0 {
		t.Errorf("index of PID = %d, want 0", got)
	}
}
