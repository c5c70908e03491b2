package config

import "strings"

// SiteConfig describes the target site and the locale its markup is rendered in.
type SiteConfig struct {
	BaseURL            string   `yaml:"base_url" json:"base_url"`
	Currency           string   `yaml:"currency" json:"currency"`                       // ISO code stored on listings
	CurrencySymbol     string   `yaml:"currency_symbol" json:"currency_symbol"`         // glyph that follows prices
	LocationSeparator  string   `yaml:"location_separator" json:"location_separator"`   // "Title <sep> City, REGION" in alt text
	SellerPlaceholders []string `yaml:"seller_placeholders" json:"seller_placeholders"` // profile link texts that are not names
}

// DefaultSiteConfig targets the French rendering of the site.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		BaseURL:           "https://www.facebook.com",
		Currency:          "EUR",
		CurrencySymbol:    "€",
		LocationSeparator: " dans ",
		SellerPlaceholders: []string{
			"Informations vendeur",
			"Seller information",
			"Seller details",
		},
	}
}

// URL joins path onto the site base URL.
func (s SiteConfig) URL(path string) string {
	base := strings.TrimRight(s.BaseURL, "/")
	if path == "" {
		return base + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
