package marketplace

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"fbcli/internal/config"
	"fbcli/internal/extract"
	"fbcli/internal/logging"
	"fbcli/internal/types"
)

const (
	unknownLocation = "Unknown Location"
	unknownItem     = "Unknown Item"
	unknownSeller   = "Unknown Seller"
	maxImages       = 5

	descriptionMinRunes = 50
	descriptionMaxRunes = 500
	descriptionMinWords = 5
)

// placement is what a title strategy reads off a search result card.
type placement struct {
	title    *string
	location string
}

// card is one search result anchor.
type card struct {
	extract.Anchor
	sel *goquery.Selection
}

// parser holds the site-dependent patterns.
type parser struct {
	site  config.SiteConfig
	price *regexp.Regexp
}

func newParser(site config.SiteConfig) *parser {
	symbol := site.CurrencySymbol
	if symbol == "" {
		symbol = "€"
	}
	return &parser{
		site:  site,
		price: regexp.MustCompile(`([\d\s\x{00A0}\x{202F}]+)[\s\x{00A0}\x{202F}]*` + regexp.QuoteMeta(symbol)),
	}
}

// parsePrice returns the first amount followed by the currency glyph, or 0.
func (p *parser) parsePrice(text string) int {
	m := p.price.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(extract.StripSpace(m[1]))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// splitPlacement parses "Title<sep>City, REGION". An empty title half is
// reported as nil.
func (p *parser) splitPlacement(label string) (placement, bool) {
	sep := p.site.LocationSeparator
	if sep == "" || !strings.Contains(label, sep) {
		return placement{}, false
	}
	parts := strings.Split(label, sep)
	location := extract.TrimSpace(parts[1])
	if location == "" {
		return placement{}, false
	}
	pl := placement{location: location}
	if title := extract.TrimSpace(parts[0]); title != "" {
		pl.title = types.StringPtr(title)
	}
	return pl, true
}

func (p *parser) titleStrategies() []extract.Strategy[card, placement] {
	return []extract.Strategy[card, placement]{
		{Name: "image-alt", Run: func(c card) (placement, bool) {
			alt, ok := c.sel.Find("img").First().Attr("alt")
			if !ok {
				return placement{}, false
			}
			return p.splitPlacement(alt)
		}},
		{Name: "aria-label", Run: func(c card) (placement, bool) {
			label, ok := extract.Attr(c.Node, "aria-label")
			if !ok {
				return placement{}, false
			}
			return p.splitPlacement(label)
		}},
		{Name: "text-pattern", Run: func(c card) (placement, bool) {
			m := trailingLocationPattern.FindStringSubmatchIndex(c.Text)
			if m == nil {
				return placement{}, false
			}
			pl := placement{location: extract.TrimSpace(c.Text[m[2]:m[3]])}
			before := extract.TrimSpace(c.Text[:m[2]])
			if loc := p.price.FindStringIndex(before); loc != nil && loc[0] == 0 {
				before = extract.TrimSpace(before[loc[1]:])
			}
			if before != "" {
				pl.title = types.StringPtr(before)
			}
			return pl, true
		}},
	}
}

// ParseSearchResults turns a search results document into listings. At most
// opts.EffectiveLimit() anchors are read, duplicates keep their first
// occurrence, and anchors without an item id are skipped.
func ParseSearchResults(doc *goquery.Document, opts types.SearchOptions, site config.SiteConfig, now time.Time) []types.Listing {
	p := newParser(site)
	log := logging.Get(logging.CategoryMarketplace)
	limit := opts.EffectiveLimit()

	anchors := doc.Find(listingAnchor)
	log.Debug("found %d listing links", anchors.Length())
	if anchors.Length() > limit {
		anchors = anchors.Slice(0, limit)
	}

	strategies := p.titleStrategies()
	listings := make([]types.Listing, 0, anchors.Length())
	seen := make(map[string]bool)

	anchors.Each(func(i int, sel *goquery.Selection) {
		a := extract.Anchors(sel)[0]
		m := itemIDPattern.FindStringSubmatch(a.Href)
		if m == nil {
			log.Debug("skipping anchor %d: no item id in %q", i, a.Href)
			return
		}
		id := m[1]
		if seen[id] {
			return
		}
		seen[id] = true

		c := card{Anchor: a, sel: sel}
		location := unknownLocation
		var title *string
		for _, s := range strategies {
			pl, ok := s.Run(c)
			if !ok {
				continue
			}
			location = pl.location
			if pl.title != nil {
				title = pl.title
				log.Debug("listing %s: title via %s", id, s.Name)
				break
			}
		}

		listings = append(listings, types.Listing{
			ID:       id,
			Title:    title,
			Price:    p.parsePrice(a.Text),
			Currency: site.Currency,
			Location: location,
			Images:   []string{},
			Seller:   types.Seller{ID: "", Name: "Unknown"},
			URL:      p.absolute(a.Href),
			PostedAt: now,
		})
	})

	if len(listings) > limit {
		listings = listings[:limit]
	}
	log.Info("extracted %d listings", len(listings))
	return listings
}

// absolute resolves href against the site and drops its query string.
func (p *parser) absolute(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		path, _, _ := strings.Cut(href, "?")
		return p.site.URL(path)
	}
	return p.site.URL(u.Path)
}

var detailScopes = []extract.Strategy[*goquery.Document, *goquery.Selection]{
	{Name: "main", Run: func(doc *goquery.Document) (*goquery.Selection, bool) {
		s := doc.Find(`[role="main"]`).First()
		return s, s.Length() > 0
	}},
	{Name: "body", Run: func(doc *goquery.Document) (*goquery.Selection, bool) {
		s := doc.Find("body").First()
		return s, s.Length() > 0
	}},
}

// ParseListingDetail extracts a listing from its detail page. Fields that
// cannot be found get their placeholder values.
func ParseListingDetail(doc *goquery.Document, id string, site config.SiteConfig, now time.Time) *types.Listing {
	p := newParser(site)

	scope, _, ok := extract.First(doc, detailScopes...)
	if !ok {
		scope = doc.Selection
	}

	title := extract.Text(scope.Find(detailTitleSelector).First())
	if title == "" {
		title = unknownItem
	}

	return &types.Listing{
		ID:          id,
		Title:       types.StringPtr(title),
		Price:       p.parsePrice(extract.Text(doc.Find("body"))),
		Currency:    site.Currency,
		Location:    p.detailLocation(scope),
		Description: p.description(scope),
		Images:      detailImages(scope),
		Seller:      p.seller(scope),
		URL:         site.URL("/marketplace/item/" + id),
		PostedAt:    now,
	}
}

// description is the first block of prose: 50 to 500 characters, more than
// five words, no heading and no price.
func (p *parser) description(scope *goquery.Selection) string {
	var found string
	scope.Find("div").EachWithBreak(func(_ int, div *goquery.Selection) bool {
		text := extract.GetText(div.Get(0))
		n := extract.RuneLen(text)
		if n <= descriptionMinRunes || n >= descriptionMaxRunes {
			return true
		}
		if div.Find("h1").Length() > 0 {
			return true
		}
		if sym := p.site.CurrencySymbol; sym != "" && strings.Contains(text, sym) {
			return true
		}
		if len(strings.Split(text, " ")) <= descriptionMinWords {
			return true
		}
		found = extract.TrimSpace(text)
		return false
	})
	return found
}

func (p *parser) detailLocation(scope *goquery.Selection) string {
	location := unknownLocation
	scope.Find(detailLocationLink).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		text := extract.Text(a)
		if detailLocationPattern.MatchString(text) {
			location = text
			return false
		}
		return true
	})
	return location
}

func detailImages(scope *goquery.Selection) []string {
	images := make([]string, 0, maxImages)
	scope.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, _ := img.Attr("src")
		if src != "" && strings.Contains(src, imageCDNHost) {
			images = append(images, src)
		}
		return len(images) < maxImages
	})
	return images
}

func (p *parser) seller(scope *goquery.Selection) types.Seller {
	seller := types.Seller{Name: unknownSeller}
	scope.Find(sellerProfileLink).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		name := extract.Text(a)
		if name == "" || p.isPlaceholder(name) {
			return true
		}
		seller.Name = name
		href, _ := a.Attr("href")
		if m := profileIDPattern.FindStringSubmatch(href); m != nil {
			seller.ID = m[1]
		}
		return false
	})
	return seller
}

func (p *parser) isPlaceholder(name string) bool {
	for _, ph := range p.site.SellerPlaceholders {
		if ph != "" && strings.Contains(name, ph) {
			return true
		}
	}
	return false
}
