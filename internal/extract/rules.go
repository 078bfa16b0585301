// Package extract maps parsed documents or card fragments to raw field
// mappings via declarative, per-source rule sets. A rule locates an
// element with one of three locator kinds and reads it with a value
// mode; a missing element leaves the field at its empty default and
// never fails the unit.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Mode selects how a located element is turned into field values.
type Mode int

const (
	// ModeText reads the element's trimmed text (default).
	ModeText Mode = iota
	// ModeMailAnchor prefers a mailto: target over the anchor's
	// visible text. Decoding happens in the normalize step.
	ModeMailAnchor
	// ModeAnchorText reads the anchor's visible text.
	ModeAnchorText
	// ModeAnchorHref reads the anchor's href attribute.
	ModeAnchorHref
	// ModeRichText converts the element's inner HTML to markdown so
	// fields carrying markup keep their structure.
	ModeRichText
	// ModeAddressBlock walks the element's direct children, collecting
	// non-empty text segments and non-decorative link text; segments
	// map positionally to name (discarded), address and postal-city.
	ModeAddressBlock
	// ModePostalCity splits a compound "12345 City (District)" value
	// into postal_code, city and district.
	ModePostalCity
	// ModeLabelList walks dt/dd pairs and maps labels to fields.
	ModeLabelList
	// ModePersonList reads repeated person blocks into a single
	// "Name (Role), Name (Role)" principal value.
	ModePersonList
)

// Rule describes how to locate and read one or more canonical fields.
// Exactly one locator is set: IDContains (with optional IDExclude),
// Selector, or Heading.
type Rule struct {
	// Field is the canonical field the rule populates. Multi-field
	// modes (ModeAddressBlock, ModePostalCity, ModeLabelList) ignore it.
	Field string

	// ValueMode selects how the located element is read. The zero
	// value is ModeText.
	ValueMode Mode

	// IDContains locates the element whose id attribute contains this
	// substring. IDExclude additionally rejects ids carrying the given
	// suffix token, disambiguating value elements from decorative
	// label elements that share an id prefix.
	IDContains string
	IDExclude  string

	// Selector locates elements by CSS selector. Nth, when positive,
	// picks the nth match (1-based).
	Selector string
	Nth      int

	// Heading locates a heading element with this exact text and reads
	// a following sibling (or a descendant of one) matching Target.
	// HeadingSel restricts which elements count as headings.
	Heading    string
	HeadingSel string
	Target     string

	// Pattern, when set, applies a regex sub-extraction to the text
	// value; capture group 1 becomes the field value. A non-matching
	// value leaves the field at its default.
	Pattern *regexp.Regexp

	// Replace holds old/new pairs applied to the value, for repairing
	// site-specific text quirks.
	Replace []string

	// ExcludeText marks decorative links or text segments to skip in
	// ModeAddressBlock.
	ExcludeText string

	// Labels maps dt label text (without trailing colon) to canonical
	// fields in ModeLabelList.
	Labels map[string]string

	// PersonName and PersonRole select the name and role elements
	// inside each person block in ModePersonList.
	PersonName string
	PersonRole string
}

// locate resolves the rule's locator against the document or fragment.
// It returns nil when the rule matches nothing.
func (r Rule) locate(root *goquery.Selection) *goquery.Selection {
	switch {
	case r.IDContains != "":
		sel := root.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
			id, _ := s.Attr("id")
			if !strings.Contains(id, r.IDContains) {
				return false
			}
			return r.IDExclude == "" || !strings.Contains(id, r.IDExclude)
		})
		if sel.Length() == 0 {
			return nil
		}
		return sel

	case r.Heading != "":
		headingSel := r.HeadingSel
		if headingSel == "" {
			headingSel = "h1,h2,h3,h4,h5,h6"
		}
		heading := root.Find(headingSel).FilterFunction(func(_ int, s *goquery.Selection) bool {
			return strings.TrimSpace(s.Text()) == r.Heading
		}).First()
		if heading.Length() == 0 {
			return nil
		}
		if r.Target == "" {
			return heading.Next()
		}
		// Prefer a direct following sibling; fall back to a descendant
		// of the following siblings.
		target := heading.NextAllFiltered(r.Target)
		if target.Length() == 0 {
			target = heading.NextAll().Find(r.Target)
		}
		if target.Length() == 0 {
			return nil
		}
		return target

	case r.Selector != "":
		sel := root.Find(r.Selector)
		if sel.Length() == 0 {
			return nil
		}
		if r.Nth > 0 {
			sel = sel.Eq(r.Nth - 1)
			if sel.Length() == 0 {
				return nil
			}
		}
		return sel
	}
	return nil
}
