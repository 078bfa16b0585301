// Package enumerate produces the ordered sequence of extraction units
// from one or more listing pages. Two variants share one contract: an
// ID list yields indirect units that need a follow-up detail fetch,
// and a paged card listing yields direct units that already carry
// their document fragment.
package enumerate

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/schulverzeichnis/gather/pkg/models"
)

// Fetcher is the page-fetching capability enumerators depend on.
type Fetcher interface {
	GetDocument(ctx context.Context, rawURL string, params url.Values) (*goquery.Document, error)
}

// Enumerator yields extraction units in document order. A limit of
// zero or less means unbounded.
type Enumerator interface {
	Enumerate(ctx context.Context, f Fetcher, limit int) ([]models.Unit, error)
}

// IDList enumerates indirect units from a single listing page by
// scanning anchors whose href carries the source's identifier marker.
type IDList struct {
	ListingURL string
	Params     url.Values

	// LinkMarker is the href substring identifying detail links.
	LinkMarker string
	// IDPattern extracts the source-local identifier from the href;
	// capture group 1 is the id. Anchors without a match are silently
	// skipped and not counted against the limit.
	IDPattern *regexp.Regexp
}

func (e *IDList) Enumerate(ctx context.Context, f Fetcher, limit int) ([]models.Unit, error) {
	doc, err := f.GetDocument(ctx, e.ListingURL, e.Params)
	if err != nil {
		return nil, err
	}

	var units []models.Unit
	skipped := 0
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if !strings.Contains(href, e.LinkMarker) {
			return true
		}
		m := e.IDPattern.FindStringSubmatch(href)
		if m == nil {
			skipped++
			return true
		}
		units = append(units, models.Unit{
			Kind: models.UnitIndirect,
			ID:   strings.TrimSpace(m[1]),
			Name: strings.TrimSpace(a.Text()),
		})
		return limit <= 0 || len(units) < limit
	})

	log.Debug().
		Int("units", len(units)).
		Int("skipped", skipped).
		Str("url", e.ListingURL).
		Msg("listing enumerated")

	return units, nil
}

// PagedCards enumerates direct units from a page-numbered listing.
// Each card fragment is self-contained; no detail fetch ever happens.
type PagedCards struct {
	// PageURL builds the listing URL for a 1-based page number.
	PageURL func(page int) string
	// CardSelector matches the repeating card fragment on each page.
	CardSelector string
	// PageCount is the source's fixed known page count.
	PageCount int
	// MaxPages, when positive, caps the number of pages visited.
	MaxPages int
}

func (e *PagedCards) Enumerate(ctx context.Context, f Fetcher, limit int) ([]models.Unit, error) {
	pages := e.PageCount
	if e.MaxPages > 0 && e.MaxPages < pages {
		pages = e.MaxPages
	}

	var units []models.Unit
	for page := 1; page <= pages; page++ {
		// Cooperative interruption between pages.
		if ctx.Err() != nil {
			break
		}

		doc, err := f.GetDocument(ctx, e.PageURL(page), nil)
		if err != nil {
			if page == 1 {
				// No listing at all: run-fatal.
				return nil, err
			}
			log.Warn().Err(err).Int("page", page).Msg("listing page failed, continuing")
			continue
		}

		before := len(units)
		doc.Find(e.CardSelector).EachWithBreak(func(_ int, card *goquery.Selection) bool {
			units = append(units, models.Unit{
				Kind:     models.UnitDirect,
				Fragment: card,
			})
			return limit <= 0 || len(units) < limit
		})

		log.Debug().
			Int("page", page).
			Int("pages", pages).
			Int("cards", len(units)-before).
			Msg("listing page enumerated")

		if limit > 0 && len(units) >= limit {
			break
		}
	}

	return units, nil
}
