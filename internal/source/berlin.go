package source

import (
	"net/url"
	"regexp"
	"time"

	"github.com/schulverzeichnis/gather/internal/enumerate"
	"github.com/schulverzeichnis/gather/internal/extract"
	"github.com/schulverzeichnis/gather/pkg/models"
)

// Berlin's directory is a single listing page whose anchors link to a
// per-school detail page keyed by IDSchulzweig. Detail pages are
// ASP.NET forms: fields live in span elements whose generated ids
// contain a known substring, with decorative label spans sharing the
// prefix plus a "Text" suffix.
const (
	berlinListingURL = "https://www.bildung.berlin.de/Schulverzeichnis/SchulListe.aspx"
	berlinDetailURL  = "https://www.bildung.berlin.de/Schulverzeichnis/Schulportrait.aspx"
)

var berlinIDPattern = regexp.MustCompile(`IDSchulzweig=\s*(\d+)`)

func init() {
	register(&Config{
		Name:  "berlin",
		Delay: time.Second,
		Enumerator: func(int) enumerate.Enumerator {
			return &enumerate.IDList{
				ListingURL: berlinListingURL,
				LinkMarker: "Schulportrait.aspx",
				IDPattern:  berlinIDPattern,
			}
		},
		DetailURL: berlinDetailURL,
		DetailParams: func(id string) url.Values {
			return url.Values{"IDSchulzweig": {id}}
		},
		ReorderPrincipal: true,
		StaticFields: map[string]string{
			models.FieldCity: "Berlin",
		},
		Rules: []extract.Rule{
			{Field: models.FieldName, IDContains: "lblSchulname"},
			{Field: models.FieldSchoolType, IDContains: "lblSchulart"},
			{Field: models.FieldAddress, IDContains: "lblStrasse"},
			{IDContains: "lblOrt", ValueMode: extract.ModePostalCity},
			{Field: models.FieldPhone, IDContains: "lblTelefon", IDExclude: "Text"},
			{Field: models.FieldFax, IDContains: "lblFax", IDExclude: "Text"},
			{Field: models.FieldEmail, IDContains: "HLinkEMail", ValueMode: extract.ModeMailAnchor},
			{Field: models.FieldWebsite, IDContains: "HLinkWeb", ValueMode: extract.ModeAnchorText},
			{Field: models.FieldPrincipal, IDContains: "lblLeitung", IDExclude: "Text"},
			{Field: models.FieldAdditionalInfo, IDContains: "lblZusatz", ValueMode: extract.ModeRichText},
		},
	})
}
