package extract

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/schulverzeichnis/gather/internal/normalize"
	"github.com/schulverzeichnis/gather/pkg/models"
)

var mdConverter = newMarkdownConverter()

func newMarkdownConverter() *md.Converter {
	c := md.NewConverter("", true, nil)
	c.Use(plugin.GitHubFlavored())
	return c
}

// Extract evaluates a rule set against a parsed document or fragment
// and returns the raw field mapping. Every canonical field key is
// present in the result; fields whose rules match nothing stay at the
// empty default.
func Extract(root *goquery.Selection, rules []Rule) map[string]string {
	fields := models.EmptyFields()
	for _, r := range rules {
		r.apply(root, fields)
	}
	return fields
}

func (r Rule) apply(root *goquery.Selection, fields map[string]string) {
	sel := r.locate(root)
	if sel == nil {
		return
	}

	switch r.ValueMode {
	case ModeText:
		r.set(fields, r.Field, strings.TrimSpace(sel.First().Text()))

	case ModeMailAnchor:
		anchor := anchorOf(sel)
		if anchor == nil {
			return
		}
		value := ""
		if href, ok := anchor.Attr("href"); ok && strings.Contains(href, "mailto:") {
			value = strings.TrimSpace(href[strings.Index(href, "mailto:")+len("mailto:"):])
		}
		if value == "" {
			value = strings.TrimSpace(anchor.Text())
		}
		r.set(fields, r.Field, value)

	case ModeAnchorText:
		if anchor := anchorOf(sel); anchor != nil {
			r.set(fields, r.Field, strings.TrimSpace(anchor.Text()))
		}

	case ModeAnchorHref:
		if anchor := anchorOf(sel); anchor != nil {
			href, _ := anchor.Attr("href")
			r.set(fields, r.Field, strings.TrimSpace(href))
		}

	case ModeRichText:
		r.set(fields, r.Field, richText(sel.First()))

	case ModeAddressBlock:
		r.applyAddressBlock(sel.First(), fields)

	case ModePostalCity:
		postal, city, district := normalize.SplitPostalCity(sel.First().Text())
		r.set(fields, models.FieldPostalCode, postal)
		r.set(fields, models.FieldCity, city)
		r.set(fields, models.FieldDistrict, district)

	case ModeLabelList:
		r.applyLabelList(sel.First(), fields)

	case ModePersonList:
		r.applyPersonList(sel, fields)
	}
}

// set applies the rule's pattern and replacement pairs, then stores a
// non-empty value. Empty values never overwrite an earlier result or a
// source default.
func (r Rule) set(fields map[string]string, field, value string) {
	if field == "" {
		return
	}
	if r.Pattern != nil {
		m := r.Pattern.FindStringSubmatch(value)
		if m == nil {
			return
		}
		value = m[1]
	}
	if len(r.Replace) > 0 {
		value = strings.NewReplacer(r.Replace...).Replace(value)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	fields[field] = value
}

// applyAddressBlock walks the element's direct children. Text nodes
// and non-decorative anchors contribute segments; <br> elements only
// delimit them. Segments map positionally: [0] repeats the school name
// and is discarded, [1] is the street address, [2] the postal-city line.
func (r Rule) applyAddressBlock(block *goquery.Selection, fields map[string]string) {
	var segments []string
	keep := func(text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		if r.ExcludeText != "" && strings.Contains(text, r.ExcludeText) {
			return
		}
		segments = append(segments, text)
	}

	block.Contents().Each(func(_ int, c *goquery.Selection) {
		node := c.Get(0)
		switch node.Type {
		case html.TextNode:
			keep(node.Data)
		case html.ElementNode:
			if node.Data == "a" {
				keep(c.Text())
			}
		}
	})

	if len(segments) < 3 {
		return
	}
	r.set(fields, models.FieldAddress, segments[1])
	postal, city, district := normalize.SplitPostalCity(segments[2])
	r.set(fields, models.FieldPostalCode, postal)
	r.set(fields, models.FieldCity, city)
	r.set(fields, models.FieldDistrict, district)
}

// applyLabelList maps dt labels to canonical fields and reads the
// paired dd. A mailto anchor inside the dd wins over its text; an
// external link's visible text wins over the surrounding text.
func (r Rule) applyLabelList(list *goquery.Selection, fields map[string]string) {
	dts := list.Find("dt")
	dds := list.Find("dd")
	dts.Each(func(i int, dt *goquery.Selection) {
		if i >= dds.Length() {
			return
		}
		label := strings.TrimSuffix(strings.TrimSpace(dt.Text()), ":")
		field, ok := r.Labels[label]
		if !ok {
			return
		}
		dd := dds.Eq(i)
		value := strings.TrimSpace(dd.Text())
		if mail := dd.Find(`a[href^="mailto:"]`).First(); mail.Length() > 0 {
			href, _ := mail.Attr("href")
			value = strings.TrimSpace(strings.TrimPrefix(href, "mailto:"))
		}
		// An external link's visible text overrides everything else,
		// including a mailto target in the same dd.
		if ext := dd.Find(`a[target="_blank"]`).First(); ext.Length() > 0 {
			value = strings.TrimSpace(ext.Text())
		}
		if value != "" {
			fields[field] = value
		}
	})
}

// applyPersonList reads each person block into "Name (Role)" form and
// joins the entries. The role element commonly repeats the name, which
// is stripped from the role text.
func (r Rule) applyPersonList(blocks *goquery.Selection, fields map[string]string) {
	var people []normalize.Person
	blocks.Each(func(_ int, block *goquery.Selection) {
		name := strings.TrimSpace(block.Find(r.PersonName).First().Text())
		role := strings.TrimSpace(block.Find(r.PersonRole).First().Text())
		if name != "" && role != "" {
			role = strings.TrimSpace(strings.Replace(role, name, "", 1))
		}
		if name == "" {
			return
		}
		people = append(people, normalize.Person{Name: name, Role: role})
	})
	if formatted := normalize.FormatPrincipals(people); formatted != "" {
		fields[r.Field] = formatted
	}
}

// anchorOf returns the first anchor in or at the located selection.
func anchorOf(sel *goquery.Selection) *goquery.Selection {
	first := sel.First()
	if first.Is("a") {
		return first
	}
	anchor := first.Find("a").First()
	if anchor.Length() == 0 {
		return nil
	}
	return anchor
}

// richText converts the element's inner HTML to markdown, falling back
// to plain text extraction when conversion fails.
func richText(sel *goquery.Selection) string {
	inner, err := sel.Html()
	if err != nil {
		return strings.TrimSpace(sel.Text())
	}
	converted, err := mdConverter.ConvertString(inner)
	if err != nil {
		return strings.TrimSpace(sel.Text())
	}
	return strings.TrimSpace(converted)
}
