package source

import (
	"reflect"
	"strings"
	"testing"

	"github.com/schulverzeichnis/gather/pkg/models"
)

func TestNames(t *testing.T) {
	want := []string{"berlin", "saarland", "saxony"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("bavaria"); err == nil {
		t.Fatal("expected error for unregistered source")
	}
}

func TestConfigsAreComplete(t *testing.T) {
	for _, name := range Names() {
		cfg, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if cfg.Name != name {
			t.Errorf("%s: Name = %q", name, cfg.Name)
		}
		if cfg.Enumerator == nil {
			t.Errorf("%s: no enumerator", name)
		}
		if len(cfg.Rules) == 0 {
			t.Errorf("%s: no extraction rules", name)
		}
		if cfg.Delay <= 0 {
			t.Errorf("%s: delay = %v", name, cfg.Delay)
		}
	}
}

func TestDetailParams(t *testing.T) {
	berlin, _ := Lookup("berlin")
	if got := berlin.DetailParams("12345").Get("IDSchulzweig"); got != "12345" {
		t.Errorf("berlin detail params: IDSchulzweig = %q", got)
	}

	saxony, _ := Lookup("saxony")
	params := saxony.DetailParams("777")
	if params.Get("institution_key") != "777" || params.Get("id") != "100" {
		t.Errorf("saxony detail params = %v", params)
	}

	saarland, _ := Lookup("saarland")
	if saarland.DetailParams != nil {
		t.Error("saarland should not resolve detail pages")
	}
}

func TestSaarlandPageURL(t *testing.T) {
	first := saarlandPageURL(1)
	if first != saarlandBaseURL+"?submit=search&sortOrder=schule_sort%20asc" {
		t.Errorf("page 1 URL = %q", first)
	}
	second := saarlandPageURL(2)
	if second == first {
		t.Error("page 2 URL must differ from page 1")
	}
	want := "gtp=%2526c5706df2-b646-40cc-8c62-b7a95b0cb40e_list%253D2"
	if !strings.Contains(second, want) {
		t.Errorf("page 2 URL %q missing %q", second, want)
	}
}

func TestBerlinStaticCity(t *testing.T) {
	berlin, _ := Lookup("berlin")
	if berlin.StaticFields[models.FieldCity] != "Berlin" {
		t.Errorf("berlin static city = %q", berlin.StaticFields[models.FieldCity])
	}
}
