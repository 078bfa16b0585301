package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/schulverzeichnis/gather/pkg/models"
)

func TestFilename(t *testing.T) {
	ts := time.Date(2024, 3, 15, 14, 30, 5, 0, time.UTC)
	got := Filename("berlin", ts)
	want := "berlin_schools_20240315_143005.csv"
	if got != want {
		t.Errorf("Filename = %q, want %q", got, want)
	}
}

func TestWriteRecords_AllFieldsQuoted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	records := []models.SchoolRecord{
		{Name: "Testschule", City: "Berlin", Principal: `Anna "Anni" Müller`},
	}
	if err := WriteRecords(records, path); err != nil {
		t.Fatalf("WriteRecords: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, `"`) || !strings.HasSuffix(line, `"`) {
			t.Errorf("line not fully quoted: %s", line)
		}
		// Every separator between fields must be a quoted boundary.
		if strings.Contains(line, `,`) && !strings.Contains(line, `","`) {
			t.Errorf("unquoted field boundary in line: %s", line)
		}
	}

	// The artifact must round-trip through a standard CSV reader.
	r := csv.NewReader(strings.NewReader(string(data)))
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("artifact is not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	header := rows[0]
	if len(header) != len(models.Columns()) {
		t.Errorf("header has %d columns, want %d", len(header), len(models.Columns()))
	}
	row := rows[1]
	if row[1] != "Testschule" {
		t.Errorf("name column = %q", row[1])
	}
	if row[11] != `Anna "Anni" Müller` {
		t.Errorf("principal column = %q", row[11])
	}
}

func TestWriteRecords_EmptyFieldsStayEmptyStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteRecords([]models.SchoolRecord{{Name: "Nur Name"}}, path); err != nil {
		t.Fatalf("WriteRecords: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	r := csv.NewReader(strings.NewReader(string(data)))
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for i, v := range rows[1] {
		if i == 1 {
			continue
		}
		if v != "" {
			t.Errorf("column %d should be empty, got %q", i, v)
		}
	}
}
