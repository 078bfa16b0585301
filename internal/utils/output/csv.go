// Package output serializes a run's collected records into its single
// tabular artifact.
package output

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schulverzeichnis/gather/pkg/models"
)

// Filename returns the artifact name for a run:
// <source>_schools_<YYYYMMDD_HHMMSS>.csv.
func Filename(source string, t time.Time) string {
	return fmt.Sprintf("%s_schools_%s.csv", source, t.Format("20060102_150405"))
}

// WriteRecords writes the full record set to path in discovery order.
// Every field value is quoted regardless of content, and the column
// set is the canonical superset schema. The file appears atomically:
// rows go to a temp file in the destination directory which is then
// renamed into place.
func WriteRecords(records []models.SchoolRecord, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".gather-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := writeRow(w, models.Columns()); err != nil {
		tmp.Close()
		return err
	}
	for _, rec := range records {
		if err := writeRow(w, rec.Row()); err != nil {
			tmp.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("finalize artifact: %w", err)
	}
	return nil
}

// writeRow emits one row with every field quoted (QUOTE_ALL). The
// standard encoding/csv writer quotes only when required, so quoting
// is done here.
func writeRow(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if err := w.WriteByte('"'); err != nil {
			return err
		}
		if _, err := w.WriteString(strings.ReplaceAll(f, `"`, `""`)); err != nil {
			return err
		}
		if err := w.WriteByte('"'); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}
