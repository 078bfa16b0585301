package runner

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/schulverzeichnis/gather/internal/enumerate"
	"github.com/schulverzeichnis/gather/internal/extract"
	"github.com/schulverzeichnis/gather/internal/fetch"
	"github.com/schulverzeichnis/gather/internal/ratelimit"
	"github.com/schulverzeichnis/gather/internal/retry"
	"github.com/schulverzeichnis/gather/internal/source"
	"github.com/schulverzeichnis/gather/pkg/models"
)

func testFetcher() *fetch.Client {
	cfg := retry.DefaultConfig()
	cfg.InitialBackoff = time.Millisecond
	return fetch.NewClient(&http.Client{Timeout: 5 * time.Second}, ratelimit.NewIntervalLimiter(0), cfg, "Test/1.0", nil)
}

// newDirectoryServer serves a small ID-keyed directory: a listing page
// linking n detail pages, each detail page carrying labeled spans.
func newDirectoryServer(t *testing.T, n int, broken map[string]bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/list", func(w http.ResponseWriter, r *http.Request) {
		var b strings.Builder
		b.WriteString("<html><body>")
		for i := 1; i <= n; i++ {
			fmt.Fprintf(&b, `<a href="detail?key=%d">Schule %d</a>`, i, i)
		}
		b.WriteString("</body></html>")
		w.Write([]byte(b.String()))
	})
	mux.HandleFunc("/detail", func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("key")
		if broken[key] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `<html><body>
			<span id="ctl_lblName">Testschule %s</span>
			<span id="ctl_lblLeitung">Musterfrau, Erika</span>
			<a id="ctl_HLinkMail" href="mailto:info%%40schule-%s.example">Mail</a>
		</body></html>`, key, key)
	})
	return httptest.NewServer(mux)
}

func newDirectorySource(serverURL string) *source.Config {
	return &source.Config{
		Name:  "test",
		Delay: time.Millisecond,
		Enumerator: func(int) enumerate.Enumerator {
			return &enumerate.IDList{
				ListingURL: serverURL + "/list",
				LinkMarker: "detail?key=",
				IDPattern:  regexp.MustCompile(`key=(\d+)`),
			}
		},
		DetailURL: serverURL + "/detail",
		DetailParams: func(id string) url.Values {
			return url.Values{"key": {id}}
		},
		ReorderPrincipal: true,
		StaticFields:     map[string]string{models.FieldCity: "Teststadt"},
		Rules: []extract.Rule{
			{Field: models.FieldName, IDContains: "lblName"},
			{Field: models.FieldPrincipal, IDContains: "lblLeitung"},
			{Field: models.FieldEmail, IDContains: "HLinkMail", ValueMode: extract.ModeMailAnchor},
		},
	}
}

func readArtifact(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open artifact: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	return rows
}

func TestRun_CollectsAndNormalizes(t *testing.T) {
	server := newDirectoryServer(t, 3, nil)
	defer server.Close()

	dir := t.TempDir()
	r := New(newDirectorySource(server.URL), testFetcher(), Options{OutDir: dir})
	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Interrupted {
		t.Error("run reported interrupted")
	}
	if len(result.Records) != 3 {
		t.Fatalf("records = %d, want 3", len(result.Records))
	}

	rec := result.Records[0]
	if rec.SourceID != "1" || rec.Name != "Testschule 1" {
		t.Errorf("record = (%q, %q)", rec.SourceID, rec.Name)
	}
	if rec.Email != "info@schule-1.example" {
		t.Errorf("email not decoded: %q", rec.Email)
	}
	if rec.Principal != "Erika Musterfrau" {
		t.Errorf("principal not reordered: %q", rec.Principal)
	}
	if rec.City != "Teststadt" {
		t.Errorf("static city not applied: %q", rec.City)
	}

	rows := readArtifact(t, result.Path)
	if len(rows) != 4 {
		t.Fatalf("artifact rows = %d, want header + 3", len(rows))
	}
	if rows[0][0] != "School ID" || rows[1][0] != "1" {
		t.Errorf("unexpected artifact header/first row: %v / %v", rows[0], rows[1])
	}
	if !strings.HasPrefix(filepath.Base(result.Path), "test_schools_") {
		t.Errorf("artifact name = %q", filepath.Base(result.Path))
	}
}

func TestRun_UnitFailureDropsOnlyThatUnit(t *testing.T) {
	server := newDirectoryServer(t, 3, map[string]bool{"2": true})
	defer server.Close()

	var failed int
	dir := t.TempDir()
	opts := Options{OutDir: dir, Sink: func(e Event) {
		if e.Type == EventUnitFailed {
			failed++
			var fe *fetch.FetchError
			if !errors.As(e.Err, &fe) {
				t.Errorf("failure event error = %v, want FetchError", e.Err)
			}
		}
	}}
	result, err := New(newDirectorySource(server.URL), testFetcher(), opts).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(result.Records))
	}
	if failed != 1 {
		t.Errorf("failure events = %d, want 1", failed)
	}
	if result.Records[0].SourceID != "1" || result.Records[1].SourceID != "3" {
		t.Errorf("surviving records = %q, %q", result.Records[0].SourceID, result.Records[1].SourceID)
	}
}

func TestRun_InterruptKeepsPartialResults(t *testing.T) {
	server := newDirectoryServer(t, 5, nil)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var collected, skipped int
	dir := t.TempDir()
	opts := Options{OutDir: dir, Sink: func(e Event) {
		switch e.Type {
		case EventUnitCollected:
			collected++
			if collected == 2 {
				cancel()
			}
		case EventUnitSkipped:
			skipped++
		}
	}}
	result, err := New(newDirectorySource(server.URL), testFetcher(), opts).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Interrupted {
		t.Error("run not marked interrupted")
	}
	if len(result.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(result.Records))
	}
	if skipped != 3 {
		t.Errorf("skipped events = %d, want 3", skipped)
	}

	rows := readArtifact(t, result.Path)
	if len(rows) != 3 {
		t.Errorf("artifact rows = %d, want header + 2", len(rows))
	}
}

func TestRun_LimitCapsUnits(t *testing.T) {
	server := newDirectoryServer(t, 5, nil)
	defer server.Close()

	dir := t.TempDir()
	result, err := New(newDirectorySource(server.URL), testFetcher(), Options{OutDir: dir, Limit: 2}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(result.Records))
	}
}

func TestRun_NoDataWritesNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>keine Treffer</body></html>"))
	}))
	defer server.Close()

	cfg := newDirectorySource(server.URL)
	dir := t.TempDir()
	result, err := New(cfg, testFetcher(), Options{OutDir: dir}).Run(context.Background())
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
	if result.Path != "" {
		t.Errorf("path = %q, want empty", result.Path)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("output dir not empty: %v", entries)
	}
}

func TestRun_EnumerationFailureEndsWithNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	var finalized int
	dir := t.TempDir()
	opts := Options{OutDir: dir, Sink: func(e Event) {
		if e.Type == EventRunFinalized {
			finalized++
		}
	}}
	result, err := New(newDirectorySource(server.URL), testFetcher(), opts).Run(context.Background())
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData when the listing fetch fails", err)
	}
	if result.Path != "" {
		t.Errorf("path = %q, want empty", result.Path)
	}
	if finalized != 1 {
		t.Errorf("finalize events = %d, want 1", finalized)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("output dir not empty: %v", entries)
	}
}
