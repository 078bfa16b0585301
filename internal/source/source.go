// Package source holds the static per-source configuration: where a
// directory's listings live, how units are enumerated and how fields
// are extracted and normalized.
package source

import (
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/schulverzeichnis/gather/internal/enumerate"
	"github.com/schulverzeichnis/gather/internal/extract"
)

// Config describes one directory source.
type Config struct {
	// Name identifies the source and prefixes the output artifact.
	Name string

	// Delay is the default pause between consecutive requests.
	Delay time.Duration

	// Enumerator builds the source's enumeration strategy. maxPages
	// caps page-numbered listings and is ignored by ID-list sources.
	Enumerator func(maxPages int) enumerate.Enumerator

	// DetailURL and DetailParams resolve an indirect unit's detail
	// page. Both are nil/empty for sources with direct units.
	DetailURL    string
	DetailParams func(id string) url.Values

	// Rules is the source's declarative field-extraction rule set.
	Rules []extract.Rule

	// ReorderPrincipal enables "Surname, Given" reordering for this
	// source's principal field.
	ReorderPrincipal bool

	// CleanListingName cleans the display name taken from the listing
	// page when the detail page carries no name of its own.
	CleanListingName bool

	// StaticFields are populated before extraction and kept unless a
	// rule finds a value.
	StaticFields map[string]string
}

var registry = map[string]*Config{}

func register(c *Config) {
	registry[c.Name] = c
}

// Lookup returns the configuration for a registered source.
func Lookup(name string) (*Config, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown source %q (available: %v)", name, Names())
	}
	return c, nil
}

// Names returns the registered source names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
