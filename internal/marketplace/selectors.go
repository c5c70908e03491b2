package marketplace

import (
	"regexp"
	"strconv"
)

// Search results.
const (
	resultsReadySelector = `[role="main"] a[href*="/marketplace/item/"]`
	listingAnchor        = `a[href*="/marketplace/item/"]`
)

// Listing detail.
const (
	detailTitleSelector   = `h1`
	detailContentSelector = `[role="main"], div[role="dialog"]`
	detailLocationLink    = `a[href*="/marketplace/"]`
	sellerProfileLink     = `a[href*="/marketplace/profile/"]`
	imageCDNHost          = "fbcdn.net"
)

// Location filter dialog.
const (
	locationControlSelector = `[role="main"] [role="button"], [role="main"] div[tabindex="0"]`
	locationInputSelector   = `[role="dialog"] input[role="combobox"], [role="dialog"] input[type="text"], [role="dialog"] input[type="search"]`
	locationOptionSelector  = `[role="listbox"] [role="option"]`
	radiusControlSelector   = `[role="dialog"] [role="combobox"], [role="dialog"] [aria-haspopup="listbox"]`
	radiusOptionSelector    = `[role="option"]`
	dialogButtonSelector    = `[role="dialog"] [role="button"], [role="dialog"] button`
)

var (
	locationControlText = regexp.MustCompile(`(?i)(location|lieu|localisation)`)
	radiusControlText   = regexp.MustCompile(`(?i)(radius|rayon|km|mi\b)`)
	applyText           = regexp.MustCompile(`(?i)^\s*(apply|appliquer)\s*$`)
)

var (
	itemIDPattern    = regexp.MustCompile(`/marketplace/item/(\d+)`)
	profileIDPattern = regexp.MustCompile(`/marketplace/profile/(\d+)`)

	// "City, REGION" followed by a distance, a "K km" badge or the end of text.
	trailingLocationPattern = regexp.MustCompile(`([\p{L}\s\x{00A0}'-]+?,[\s\x{00A0}]*[A-Z]{2,3})(?:\d|[\s\x{00A0}]*K[\s\x{00A0}]*km|$)`)
	detailLocationPattern   = regexp.MustCompile(`[\p{L}\s\x{00A0}'-]+,[\s\x{00A0}]*[A-Z]{2,3}`)
)

func radiusOptionText(km int) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^\s*` + strconv.Itoa(km) + `\s*(km|kilom|mi)`)
}
