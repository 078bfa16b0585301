package headers

import "strings"

// ParseHeaders converts repeated "Key: Value" flag values into a map.
// Entries without a colon are dropped.
func ParseHeaders(h []string) map[string]string {
	m := make(map[string]string, len(h))
	for _, hdr := range h {
		key, value, found := strings.Cut(hdr, ":")
		if !found {
			continue
		}
		m[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return m
}
