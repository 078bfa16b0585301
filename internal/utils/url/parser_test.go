package urlutil

import (
	"net/url"
	"testing"
)

func TestValidateURL(t *testing.T) {
	valid := []string{
		"http://example.com",
		"https://example.com/path?a=b",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Errorf("expected %s valid, got error: %v", u, err)
		}
	}

	invalid := []string{"ftp://example.com", "//example.com", "http:///"}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Errorf("expected invalid for %s", u)
		}
	}
}

func TestBuildURL(t *testing.T) {
	base := "https://example.com/list"
	got := BuildURL(base, url.Values{"id": {"10"}, "representation": {"table"}})
	want := "https://example.com/list?id=10&representation=table"
	if got != want {
		t.Errorf("BuildURL = %q, want %q", got, want)
	}

	if got := BuildURL(base, nil); got != base {
		t.Errorf("BuildURL without params = %q, want base unchanged", got)
	}

	got = BuildURL("https://example.com/list?fixed=1", url.Values{"page": {"2"}})
	want = "https://example.com/list?fixed=1&page=2"
	if got != want {
		t.Errorf("BuildURL with existing query = %q, want %q", got, want)
	}
}
