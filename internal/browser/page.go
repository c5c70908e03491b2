package browser

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"fbcli/internal/session"
	"fbcli/internal/types"
)

// Key names a keyboard key understood by Page.Press.
type Key string

const KeyEnter Key = "Enter"

// Page is the single browser tab the scrapers drive. Selector arguments are
// CSS selectors; actions target the first match unless stated otherwise.
// Methods that wait take an explicit timeout and fail with types.ErrTimeout.
type Page interface {
	// Navigate loads url and waits for the document, bounded by timeout.
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	// URL returns the current address, or "" if it cannot be read.
	URL() string
	// HTML returns a snapshot of the rendered document.
	HTML(ctx context.Context) (string, error)

	// Count returns the number of elements matching selector without waiting.
	Count(ctx context.Context, selector string) (int, error)
	// WaitFor waits until selector matches at least one element.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error
	// WaitURL polls the current address until match returns true.
	WaitURL(ctx context.Context, match func(url string) bool, timeout time.Duration) error

	Click(ctx context.Context, selector string) error
	// ClickText clicks the first element matching selector whose text or
	// aria-label matches pattern.
	ClickText(ctx context.Context, selector string, pattern *regexp.Regexp) error
	// Fill replaces the value of the first matching input or editable element.
	Fill(ctx context.Context, selector, value string) error
	// FillNth is Fill on the index-th match. Hidden elements are rejected.
	FillNth(ctx context.Context, selector string, index int, value string) error
	InputValue(ctx context.Context, selector string) (string, error)
	// Press focuses the first matching element and presses key.
	Press(ctx context.Context, selector string, key Key) error
	// PressKey presses key on whatever has focus.
	PressKey(ctx context.Context, key Key) error

	// Scroll scrolls the viewport vertically by dy pixels.
	Scroll(ctx context.Context, dy int) error
	// ScrollTop scrolls the first element matching selector (or the body) to its top.
	ScrollTop(ctx context.Context, selector string) error

	Cookies(ctx context.Context) ([]session.Cookie, error)
	SetCookies(ctx context.Context, cookies []session.Cookie) error

	Close() error
}

// ErrNoElement is returned by actions whose selector matched nothing.
var ErrNoElement = errors.New("no element matches selector")

func noElement(selector string) error {
	return fmt.Errorf("%w: %s", ErrNoElement, selector)
}

// Attempt is one named way of performing a page action.
type Attempt struct {
	Name string
	Do   func(ctx context.Context, page Page) error
}

// FirstSuccess runs attempts in order and stops at the first that returns
// nil. It returns the winning attempt's name, or the last error when all
// attempts fail.
func FirstSuccess(ctx context.Context, page Page, attempts ...Attempt) (string, error) {
	var lastErr error
	for _, a := range attempts {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		err := a.Do(ctx, page)
		if err == nil {
			return a.Name, nil
		}
		lastErr = fmt.Errorf("%s: %w", a.Name, err)
	}
	if lastErr == nil {
		lastErr = errors.New("no attempts")
	}
	return "", lastErr
}

// PollURL checks page.URL every interval until match succeeds, timeout
// elapses, or ctx ends.
func PollURL(ctx context.Context, page Page, match func(string) bool, timeout, interval time.Duration) error {
	if match(page.URL()) {
		return nil
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("%w: url still %s after %v", types.ErrTimeout, page.URL(), timeout)
		case <-ticker.C:
			if match(page.URL()) {
				return nil
			}
		}
	}
}

// IsTimeout reports whether err is a bounded wait expiring.
func IsTimeout(err error) bool {
	return errors.Is(err, types.ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}
