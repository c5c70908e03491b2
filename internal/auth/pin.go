package auth

import (
	"context"
	"regexp"
	"time"

	"fbcli/internal/browser"
	"fbcli/internal/config"
	"fbcli/internal/jitter"
	"fbcli/internal/logging"
)

// DefaultPinSettle is how long the messenger gets to raise its PIN dialog.
const DefaultPinSettle = 3 * time.Second

// Candidate PIN inputs, most specific first.
var pinInputSelectors = []string{
	`input[placeholder*="PIN" i]`,
	`input[name*="pin" i]`,
	`input[aria-label*="PIN" i]`,
	`input[type="tel"]`,
	`input[inputmode="numeric"]`,
	`[role="dialog"] input[type="password"]`,
	`[role="alertdialog"] input`,
}

var pinSubmitText = regexp.MustCompile(`(?i)^\s*(ok|submit|valider|continuer|continue)\s*$`)

// PinResolver clears a PIN prompt on the current page when one is shown.
type PinResolver interface {
	HandlePinChallenge(ctx context.Context) bool
}

// PinHandler types the configured messaging PIN into the encrypted-chat
// restore dialog.
type PinHandler struct {
	mgr    *browser.Manager
	cfg    *config.Config
	settle time.Duration
}

// NewPinHandler returns a handler for the PIN in cfg. Without one it only
// logs that a prompt may be pending.
func NewPinHandler(mgr *browser.Manager, cfg *config.Config) *PinHandler {
	return &PinHandler{mgr: mgr, cfg: cfg, settle: DefaultPinSettle}
}

// WithSettle overrides the wait before looking for the dialog.
func (h *PinHandler) WithSettle(d time.Duration) *PinHandler {
	h.settle = d
	return h
}

// HandlePinChallenge fills and submits the PIN if an input for it is on the
// page. It returns true once a PIN was entered; a submit that navigates away
// still counts. It returns false when no PIN is configured, no candidate
// input accepts it or ctx ends.
func (h *PinHandler) HandlePinChallenge(ctx context.Context) bool {
	log := logging.Get(logging.CategoryAuth)

	page, err := h.mgr.Page()
	if err != nil {
		log.Debug("no page for PIN check: %v", err)
		return false
	}
	if err := jitter.Sleep(ctx, h.settle); err != nil {
		return false
	}
	if !h.cfg.HasPIN() {
		log.Warn("PIN prompt may be shown but FACEBOOK_PIN is not set")
		return false
	}

	input, ok := h.fill(ctx, page)
	if !ok {
		log.Debug("no PIN input accepted the PIN on %s", page.URL())
		return false
	}
	log.Info("PIN entered into %s", input)
	if err := h.mgr.HumanDelay(ctx); err != nil {
		return false
	}

	how, err := browser.FirstSuccess(ctx, page,
		browser.Attempt{Name: "submit-button", Do: clickSelector(`button[type="submit"]`)},
		browser.Attempt{Name: "dialog-button-text", Do: func(ctx context.Context, p browser.Page) error {
			return p.ClickText(ctx, `[role="dialog"] button, [role="dialog"] [role="button"]`, pinSubmitText)
		}},
		browser.Attempt{Name: "dialog-button", Do: clickSelector(`[role="dialog"] button`)},
		// The filled input keeps focus.
		browser.Attempt{Name: "enter", Do: func(ctx context.Context, p browser.Page) error {
			return p.PressKey(ctx, browser.KeyEnter)
		}},
	)
	if err != nil {
		// The dialog often closes mid-submit.
		log.Debug("PIN submit reported %v", err)
	} else {
		log.Debug("PIN submitted via %s", how)
	}

	for i := 0; i < 3; i++ {
		if err := h.mgr.HumanDelay(ctx); err != nil {
			return false
		}
	}
	log.Info("PIN entered")
	return true
}

// fill tries every element of every candidate selector in order and stops at
// the first that accepts the PIN. Hidden or disabled decoys are skipped.
func (h *PinHandler) fill(ctx context.Context, page browser.Page) (string, bool) {
	log := logging.Get(logging.CategoryAuth)
	for _, sel := range pinInputSelectors {
		n, err := page.Count(ctx, sel)
		if err != nil {
			continue
		}
		for i := 0; i < n; i++ {
			if ctx.Err() != nil {
				return "", false
			}
			if err := page.FillNth(ctx, sel, i, h.cfg.Facebook.PIN); err != nil {
				log.Debug("PIN candidate %s #%d rejected: %v", sel, i, err)
				continue
			}
			return sel, true
		}
	}
	return "", false
}
