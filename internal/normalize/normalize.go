// Package normalize provides pure, total functions that turn raw
// extracted field values into canonical form. Every function returns
// its input (or a cleaned form of it) on non-matching data and never
// fails the unit being processed.
package normalize

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	controlRuns = regexp.MustCompile(`[\t\n\r]+`)

	// postalCityRe matches a leading 5-digit postal code, a city name
	// and an optional parenthesized district: "10115 Berlin (Mitte)".
	postalCityRe = regexp.MustCompile(`^(\d{5})\s+(.+?)(?:\s*\(([^)]+)\))?$`)
)

// titles are qualifier tokens that may prefix a surname and must be
// preserved as a prefix of the reordered name.
var titles = []string{"Prof. Dr.", "Prof.", "Dr."}

// DecodeEmail percent-decodes a raw email value, strips tab, newline
// and carriage-return runs, and trims surrounding whitespace.
// Undecodable input is cleaned as-is.
func DecodeEmail(raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		decoded = raw
	}
	decoded = controlRuns.ReplaceAllString(decoded, "")
	return strings.TrimSpace(decoded)
}

// ReorderPrincipal converts "Surname, Given" into "Given Surname".
// A title token on the surname ("Dr. Müller, Anna") is detached and
// kept as a prefix: "Dr. Anna Müller". Input without a separator is
// passed through unchanged.
func ReorderPrincipal(raw string) string {
	surname, given, found := strings.Cut(raw, ",")
	if !found {
		return raw
	}
	surname = strings.TrimSpace(surname)
	given = strings.TrimSpace(given)
	for _, title := range titles {
		if strings.Contains(surname, title) {
			rest := strings.TrimSpace(strings.Replace(surname, title, "", 1))
			return strings.TrimSpace(title + " " + given + " " + rest)
		}
	}
	return strings.TrimSpace(given + " " + surname)
}

// CleanName strips quote characters from a listing name and rewrites
// the ", Grundschule" suffix into its space-joined form.
func CleanName(raw string) string {
	name := strings.ReplaceAll(raw, `"`, "")
	if strings.HasSuffix(name, ", Grundschule") {
		name = strings.TrimSuffix(name, ", Grundschule") + " Grundschule"
	}
	return strings.TrimSpace(name)
}

// SplitPostalCity splits a compound "12345 City (District)" line.
// The district portion is optional. On non-matching input the raw
// string is returned in the city position and the other fields stay
// empty.
func SplitPostalCity(raw string) (postalCode, city, district string) {
	trimmed := strings.TrimSpace(raw)
	m := postalCityRe.FindStringSubmatch(trimmed)
	if m == nil {
		return "", trimmed, ""
	}
	return m[1], strings.TrimSpace(m[2]), m[3]
}

// Person is one principal entry: a name plus an optional role text.
type Person struct {
	Name string
	Role string
}

// FormatPrincipals renders principal entries as "Name (Role)" joined
// with a comma-space separator. Entries without a role render as the
// bare name; entries without a name are dropped.
func FormatPrincipals(people []Person) string {
	parts := make([]string, 0, len(people))
	for _, p := range people {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		role := strings.TrimSpace(p.Role)
		if role != "" {
			parts = append(parts, fmt.Sprintf("%s (%s)", name, role))
		} else {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ", ")
}
