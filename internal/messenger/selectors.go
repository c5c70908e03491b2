package messenger

import "regexp"

const (
	threadLink          = `a[href*="/messages/t/"]`
	filterButtons       = `button, [role="button"]`
	selectedFilter      = `[aria-selected="true"], [aria-pressed="true"], [aria-current="page"]`
	threadReadySelector = `[role="main"], [data-testid="message_container"]`
	threadScrollTarget  = `[role="main"]`
	composerSelector    = `[contenteditable="true"], textarea, [role="textbox"]`
	sentAncestor        = `[data-testid*="sent"]`
	bubbleCell          = `div[role="gridcell"]`
	boldMarker          = `[style*="font-weight: 700"], [style*="font-weight:700"], [style*="font-weight: bold"]`
)

// Thread rows, most specific first.
var rowSelectors = []string{
	`a[href*="/messages/t/"][role="link"]`,
	`[role="grid"] a[href*="/messages/t/"]`,
	threadLink,
}

// Message bubbles, most specific first.
var bubbleSelectors = []string{
	`[data-testid="message_container"]`,
	`[role="main"] div[dir="auto"]`,
	`[data-testid="message_text"]`,
	`[data-testid="message_content"]`,
	`[data-pagelet="MessengerContent"] div[dir="auto"]`,
}

// Composer inputs accepted by Fill.
var composerInputs = []string{
	`[contenteditable="true"]`,
	`textarea[placeholder*="Message"]`,
	`[role="textbox"]`,
}

var (
	threadIDPattern   = regexp.MustCompile(`/messages/t/(\d+)`)
	marketplaceFilter = regexp.MustCompile(`(?i)marketplace`)
	unreadLabel       = regexp.MustCompile(`(?i)(unread|non lu)`)
)
