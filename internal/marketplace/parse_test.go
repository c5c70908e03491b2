package marketplace

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbcli/internal/config"
	"fbcli/internal/types"
)

var captured = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

const searchFixture = `<html><body><div role="main">` +
	`<a href="/marketplace/item/101/?ref=search&amp;tracking=1"><img alt="Vélo de course dans Lyon, ARA" src="https://scontent.fbcdn.net/a.jpg"><span>150 €</span></a>` +
	`<a href="/marketplace/item/102/" aria-label="Canapé d'angle dans Paris, IDF"><img alt=" dans Paris, IDF"><span>1&#160;200&#160;€</span></a>` +
	`<a href="/marketplace/item/103/"><span>45 €</span><span>Lampe 12</span><span> Lyon, ARA</span></a>` +
	`<a href="/marketplace/item/104/"><img alt="Photo"><span>Gratuit</span></a>` +
	`<a href="https://www.facebook.com/marketplace/item/105/?ref=x"><img alt="Table dans Nantes, PDL"><span>80 €</span></a>` +
	`</div></body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseSearchResults(t *testing.T) {
	site := config.DefaultSiteConfig()
	got := ParseSearchResults(mustDoc(t, searchFixture), types.SearchOptions{Query: "x"}, site, captured)
	require.Len(t, got, 5)

	tests := []struct {
		id       string
		title    *string
		price    int
		location string
		url      string
	}{
		{"101", types.StringPtr("Vélo de course"), 150, "Lyon, ARA", "https://www.facebook.com/marketplace/item/101/"},
		{"102", types.StringPtr("Canapé d'angle"), 1200, "Paris, IDF", "https://www.facebook.com/marketplace/item/102/"},
		{"103", types.StringPtr("Lampe 12"), 45, "Lyon, ARA", "https://www.facebook.com/marketplace/item/103/"},
		{"104", nil, 0, "Unknown Location", "https://www.facebook.com/marketplace/item/104/"},
		{"105", types.StringPtr("Table"), 80, "Nantes, PDL", "https://www.facebook.com/marketplace/item/105/"},
	}
	for i, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			l := got[i]
			assert.Equal(t, tt.id, l.ID)
			assert.Equal(t, tt.title, l.Title)
			assert.Equal(t, tt.price, l.Price)
			assert.Equal(t, tt.location, l.Location)
			assert.Equal(t, tt.url, l.URL)
			assert.Equal(t, "EUR", l.Currency)
			assert.Equal(t, captured, l.PostedAt)
			assert.NotNil(t, l.Images)
			assert.Empty(t, l.Images)
			assert.Equal(t, types.Seller{ID: "", Name: "Unknown"}, l.Seller)
		})
	}
}

func TestParseSearchResults_Empty(t *testing.T) {
	got := ParseSearchResults(mustDoc(t, `<div role="main"><p>No results</p></div>`), types.SearchOptions{}, config.DefaultSiteConfig(), captured)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseSearchResults_Limit(t *testing.T) {
	got := ParseSearchResults(mustDoc(t, searchFixture), types.SearchOptions{Limit: 3}, config.DefaultSiteConfig(), captured)
	require.Len(t, got, 3)
	assert.Equal(t, "103", got[2].ID)
}

func TestParseSearchResults_Dedupe(t *testing.T) {
	html := `<div role="main">` +
		`<a href="/marketplace/item/7/"><img alt="First dans Lille, HDF"></a>` +
		`<a href="/marketplace/item/8/"><img alt="Other dans Lille, HDF"></a>` +
		`<a href="/marketplace/item/7/?again=1"><img alt="Second dans Lille, HDF"></a>` +
		`<a href="/marketplace/category/vehicles/">Véhicules</a>` +
		`</div>`
	got := ParseSearchResults(mustDoc(t, html), types.SearchOptions{}, config.DefaultSiteConfig(), captured)

	require.Len(t, got, 2)
	assert.Equal(t, "First", got[0].TitleOr(""))
	assert.Equal(t, "8", got[1].ID)

	ids := make(map[string]bool)
	for _, l := range got {
		assert.False(t, ids[l.ID], "duplicate id %s", l.ID)
		ids[l.ID] = true
		assert.GreaterOrEqual(t, l.Price, 0)
	}
}

func TestParser_Price(t *testing.T) {
	p := newParser(config.DefaultSiteConfig())
	tests := []struct {
		text string
		want int
	}{
		{"150 €", 150},
		{"1 200 €", 1200},
		{"1\u00a0200\u00a0€", 1200},
		{"1\u202f200\u202f€", 1200},
		{"2 500€Canapé", 2500},
		{"Gratuit", 0},
		{"€", 0},
		{"99999999999999999999999 €", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.parsePrice(tt.text), tt.text)
	}

	usd := config.DefaultSiteConfig()
	usd.CurrencySymbol = "$"
	assert.Equal(t, 40, newParser(usd).parsePrice("40 $ obo"))
}

const detailFixture = `<html><body>
<div role="banner"><h1>Facebook</h1></div>
<div role="main">
  <h1>Vélo de course Peugeot</h1>
  <span>350 €</span>
  <a href="/marketplace/">Marketplace</a>
  <a href="/marketplace/lyon/">Lyon, ARA</a>
  <div>Livraison possible pour 10 € de plus dans toute la France métropolitaine.</div>
  <div>Vélo en très bon état, révisé récemment, pneus neufs et freins réglés.</div>
  <img src="/static/logo.png">
  <img src="https://scontent.xx.fbcdn.net/1.jpg">
  <img src="https://scontent.xx.fbcdn.net/2.jpg">
  <img src="https://scontent.xx.fbcdn.net/3.jpg">
  <img src="https://scontent.xx.fbcdn.net/4.jpg">
  <img src="https://scontent.xx.fbcdn.net/5.jpg">
  <img src="https://scontent.xx.fbcdn.net/6.jpg">
  <img src="https://scontent.xx.fbcdn.net/7.jpg">
  <a href="/marketplace/profile/555/">Informations vendeur</a>
  <a href="/marketplace/profile/555/?ref=listing">Jean Dupont</a>
</div>
</body></html>`

func TestParseListingDetail(t *testing.T) {
	l := ParseListingDetail(mustDoc(t, detailFixture), "999", config.DefaultSiteConfig(), captured)
	require.NotNil(t, l)

	assert.Equal(t, "999", l.ID)
	assert.Equal(t, "Vélo de course Peugeot", l.TitleOr(""))
	assert.Equal(t, 350, l.Price)
	assert.Equal(t, "EUR", l.Currency)
	assert.Equal(t, "Lyon, ARA", l.Location)
	assert.Equal(t, "Vélo en très bon état, révisé récemment, pneus neufs et freins réglés.", l.Description)
	assert.Len(t, l.Images, 5)
	assert.Equal(t, "https://scontent.xx.fbcdn.net/1.jpg", l.Images[0])
	assert.Equal(t, types.Seller{ID: "555", Name: "Jean Dupont"}, l.Seller)
	assert.Equal(t, "https://www.facebook.com/marketplace/item/999", l.URL)
	assert.Equal(t, captured, l.PostedAt)
}

func TestParseListingDetail_Defaults(t *testing.T) {
	l := ParseListingDetail(mustDoc(t, `<div role="main"><p>Loading</p></div>`), "1", config.DefaultSiteConfig(), captured)

	assert.Equal(t, "Unknown Item", l.TitleOr(""))
	assert.Equal(t, 0, l.Price)
	assert.Equal(t, "Unknown Location", l.Location)
	assert.Equal(t, "", l.Description)
	assert.NotNil(t, l.Images)
	assert.Empty(t, l.Images)
	assert.Equal(t, types.Seller{Name: "Unknown Seller"}, l.Seller)
}

func TestParseListingDetail_BodyScope(t *testing.T) {
	l := ParseListingDetail(mustDoc(t, `<html><body><h1>Chaise</h1><p>20 €</p></body></html>`), "2", config.DefaultSiteConfig(), captured)

	assert.Equal(t, "Chaise", l.TitleOr(""))
	assert.Equal(t, 20, l.Price)
}

func TestNearestRadius(t *testing.T) {
	tests := []struct{ in, want int }{
		{1, 10},
		{10, 10},
		{17, 10},
		{18, 25},
		{30, 25},
		{75, 50},
		{80, 100},
		{175, 100},
		{200, 250},
		{1000, 250},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NearestRadius(tt.in), "radius %d", tt.in)
	}
}

func TestSearchURL(t *testing.T) {
	site := config.DefaultSiteConfig()

	assert.Equal(t, "https://www.facebook.com/marketplace/search/?query=v%C3%A9lo+route",
		SearchURL(site, types.SearchOptions{Query: "vélo route"}))
	assert.Equal(t, "https://www.facebook.com/marketplace/search/?query=a%26b&minPrice=10&maxPrice=500",
		SearchURL(site, types.SearchOptions{Query: "a&b", MinPrice: 10, MaxPrice: 500}))
}
