package source

import (
	"fmt"
	"time"

	"github.com/schulverzeichnis/gather/internal/enumerate"
	"github.com/schulverzeichnis/gather/internal/extract"
	"github.com/schulverzeichnis/gather/pkg/models"
)

// The Saarland school database renders complete result cards inline,
// so units are direct fragments and no detail page exists. Pagination
// uses an opaque gtp parameter whose value the site expects in
// double-encoded form, so page URLs are assembled as raw strings. The
// result list is 34 pages long; the count is not discoverable from the
// markup.
const (
	saarlandBaseURL   = "https://www.saarland.de/mbk/DE/portale/bildungsserver/schulen-und-bildungswege/schuldatenbank/_functions/Schulsuche_Formular"
	saarlandPageCount = 34
)

func saarlandPageURL(page int) string {
	if page == 1 {
		return saarlandBaseURL + "?submit=search&sortOrder=schule_sort%20asc"
	}
	return fmt.Sprintf(
		"%s?gtp=%%2526c5706df2-b646-40cc-8c62-b7a95b0cb40e_list%%253D%d&submit=search&sortOrder=schule_sort%%20asc",
		saarlandBaseURL, page,
	)
}

func init() {
	register(&Config{
		Name:  "saarland",
		Delay: time.Second,
		Enumerator: func(maxPages int) enumerate.Enumerator {
			return &enumerate.PagedCards{
				PageURL:      saarlandPageURL,
				CardSelector: ".c-teaser-card",
				PageCount:    saarlandPageCount,
				MaxPages:     maxPages,
			}
		},
		Rules: []extract.Rule{
			{Field: models.FieldName, Selector: ".c-searchresult-teaser__headline"},
			{Field: models.FieldSchoolType, Selector: ".c-badge", Nth: 1},
			{Field: models.FieldCity, Selector: ".c-badge", Nth: 2},
			{Field: models.FieldAddress, Selector: ".c-searchresult-teaser__text > p"},
			{
				Selector:  "dl",
				ValueMode: extract.ModeLabelList,
				Labels: map[string]string{
					"Homepage":     models.FieldWebsite,
					"E-Mail":       models.FieldEmail,
					"Telefon":      models.FieldPhone,
					"Telefax":      models.FieldFax,
					"Schulleitung": models.FieldPrincipal,
				},
			},
		},
	})
}
