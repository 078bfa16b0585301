package source

import (
	"net/url"
	"regexp"
	"time"

	"github.com/schulverzeichnis/gather/internal/enumerate"
	"github.com/schulverzeichnis/gather/internal/extract"
	"github.com/schulverzeichnis/gather/pkg/models"
)

// Saxony's school database serves both the listing and the detail page
// from one endpoint distinguished by the id parameter. Detail pages
// group fields under headings (Kontakt, Informationen, Schulleitung);
// the visitor address mixes text nodes with a decorative map link that
// must be skipped. The school name comes from the listing anchor and
// needs quote/suffix cleanup.
const saxonyBaseURL = "https://schuldatenbank.sachsen.de/index.php"

var (
	saxonyIDPattern    = regexp.MustCompile(`institution_key=(\d+)`)
	saxonyPhonePattern = regexp.MustCompile(`Telefon[^:]*:\s*(.+)`)
)

func saxonyListingParams() url.Values {
	return url.Values{
		"id":                      {"10"},
		"name":                    {""},
		"address":                 {""},
		"school_category_key":     {""},
		"educational_course":      {""},
		"advanced_course":         {""},
		"educational_concept_key": {""},
		"full-day_offer":          {""},
		"community_key":           {""},
		"owner_id":                {""},
		"inspectorate_key":        {""},
		"legal_status_key":        {""},
		"representation":          {"table"},
	}
}

func init() {
	register(&Config{
		Name:  "saxony",
		Delay: time.Second,
		Enumerator: func(int) enumerate.Enumerator {
			return &enumerate.IDList{
				ListingURL: saxonyBaseURL,
				Params:     saxonyListingParams(),
				LinkMarker: "institution_key=",
				IDPattern:  saxonyIDPattern,
			}
		},
		DetailURL: saxonyBaseURL,
		DetailParams: func(id string) url.Values {
			return url.Values{"id": {"100"}, "institution_key": {id}}
		},
		CleanListingName: true,
		Rules: []extract.Rule{
			{
				Heading:     "Kontakt",
				HeadingSel:  "h3",
				Target:      "p.contact-visitor span.contact-content",
				ValueMode:   extract.ModeAddressBlock,
				ExcludeText: "Zur Karte",
			},
			{
				Field:      models.FieldPhone,
				Heading:    "Kontakt",
				HeadingSel: "h3",
				Target:     "p.contact-phone",
				Pattern:    saxonyPhonePattern,
			},
			{
				Field:      models.FieldEmail,
				Heading:    "Kontakt",
				HeadingSel: "h3",
				Target:     "p.contact-mail a",
				ValueMode:  extract.ModeMailAnchor,
			},
			{
				Field:      models.FieldWebsite,
				Heading:    "Kontakt",
				HeadingSel: "h3",
				Target:     "p.contact-homepage a",
				ValueMode:  extract.ModeAnchorHref,
			},
			{
				Field:      models.FieldSchoolType,
				Heading:    "Schulart",
				HeadingSel: "h4",
				Target:     "p",
				Replace:    []string{"SchuleGrundschule", "Schule Grundschule"},
			},
			{
				Field:      models.FieldPrincipal,
				Heading:    "Schulleitung",
				HeadingSel: "h3",
				Target:     "div.box-person",
				ValueMode:  extract.ModePersonList,
				PersonName: "h4",
				PersonRole: "div.box-text",
			},
		},
	})
}
