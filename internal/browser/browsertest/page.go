// Package browsertest provides an in-memory browser.Page backed by fixture
// HTML, for exercising scrapers without Chrome.
package browsertest

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"fbcli/internal/browser"
	"fbcli/internal/extract"
	"fbcli/internal/session"
	"fbcli/internal/types"
)

const blank = "<html><head></head><body></body></html>"

// Hook mutates the page in response to an action, e.g. a login submit
// redirecting to the home page. Hooks run without the page lock held and may
// call Load.
type Hook func(p *Page)

// Page is a fake browser.Page. Navigation loads the routed fixture for the
// URL; element lookups run against that document with goquery.
type Page struct {
	mu          sync.Mutex
	routes      map[string]string
	navErrs     map[string]error
	fillErrs    map[string]error
	waitErrs    map[string]error
	clickHooks  map[string]Hook
	pressHooks  map[string]Hook
	values      map[string]string
	url         string
	doc         *goquery.Document
	cookies     []session.Cookie
	actions     []string
	navigations []string
	closed      bool
}

// New returns an empty page at about:blank.
func New() *Page {
	p := &Page{
		routes:     make(map[string]string),
		navErrs:    make(map[string]error),
		fillErrs:   make(map[string]error),
		waitErrs:   make(map[string]error),
		clickHooks: make(map[string]Hook),
		pressHooks: make(map[string]Hook),
		values:     make(map[string]string),
		url:        "about:blank",
	}
	p.doc = mustParse(blank)
	return p
}

func mustParse(html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		panic(fmt.Sprintf("browsertest: parse fixture: %v", err))
	}
	return doc
}

// Launcher returns a browser.Launcher that always yields p.
func Launcher(p *Page) browser.Launcher {
	return func(ctx context.Context, cfg browser.Config) (browser.Page, error) {
		p.mu.Lock()
		p.closed = false
		p.mu.Unlock()
		return p, nil
	}
}

// Route serves html for url. A route without a query string also answers
// requests for the same address with any query.
func (p *Page) Route(addr, html string) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.routes[addr] = html
	return p
}

// FailNavigate makes navigation to addr return err after loading its route.
func (p *Page) FailNavigate(addr string, err error) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navErrs[addr] = err
	return p
}

// FailFill makes Fill on every match of selector return err.
func (p *Page) FailFill(selector string, err error) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fillErrs[selector] = err
	return p
}

// FailWait makes WaitFor on selector return err.
func (p *Page) FailWait(selector string, err error) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waitErrs[selector] = err
	return p
}

// FailFillNth makes FillNth on the index-th match of selector return err.
func (p *Page) FailFillNth(selector string, index int, err error) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fillErrs[fillKey(selector, index)] = err
	return p
}

func fillKey(selector string, index int) string {
	if index == 0 {
		return selector
	}
	return fmt.Sprintf("%s #%d", selector, index)
}

// OnClick runs hook after a successful Click or ClickText on selector.
func (p *Page) OnClick(selector string, hook Hook) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clickHooks[selector] = hook
	return p
}

// OnPress runs hook after Press on selector; "" matches PressKey.
func (p *Page) OnPress(selector string, hook Hook) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pressHooks[selector] = hook
	return p
}

// Load replaces the current document and address without recording a navigation.
func (p *Page) Load(addr, html string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.load(addr, html)
}

func (p *Page) load(addr, html string) {
	p.url = addr
	p.doc = mustParse(html)
}

// Actions returns the recorded interactions in order.
func (p *Page) Actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.actions...)
}

// Navigations returns the URLs passed to Navigate.
func (p *Page) Navigations() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.navigations...)
}

// Value returns what was last filled into the first match of selector.
func (p *Page) Value(selector string) string {
	return p.ValueNth(selector, 0)
}

// ValueNth returns what was last filled into the index-th match of selector.
func (p *Page) ValueNth(selector string, index int) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values[fillKey(selector, index)]
}

// Closed reports whether Close was called since the last launch.
func (p *Page) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Page) record(format string, args ...interface{}) {
	p.actions = append(p.actions, fmt.Sprintf(format, args...))
}

func (p *Page) lookupRoute(raw string) (string, bool) {
	if html, ok := p.routes[raw]; ok {
		return html, true
	}
	if u, err := url.Parse(raw); err == nil && u.RawQuery != "" {
		u.RawQuery = ""
		if html, ok := p.routes[u.String()]; ok {
			return html, true
		}
	}
	return "", false
}

func (p *Page) Navigate(ctx context.Context, addr string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.navigations = append(p.navigations, addr)
	p.record("navigate %s", addr)
	html, ok := p.lookupRoute(addr)
	if !ok {
		html = blank
	}
	p.load(addr, html)
	return p.navErrs[addr]
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Html()
}

func (p *Page) Count(ctx context.Context, selector string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Find(selector).Length(), nil
}

// WaitFor never blocks: the fixture either matches now or times out.
func (p *Page) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.waitErrs[selector]; err != nil {
		return err
	}
	if p.doc.Find(selector).Length() > 0 {
		return nil
	}
	return fmt.Errorf("%w: wait for %s", types.ErrTimeout, selector)
}

func (p *Page) WaitURL(ctx context.Context, match func(string) bool, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if match(p.url) {
		return nil
	}
	return fmt.Errorf("%w: url still %s", types.ErrTimeout, p.url)
}

// run calls hook, if any, once the caller has released the lock.
func (p *Page) run(hook Hook) {
	if hook != nil {
		hook(p)
	}
}

func (p *Page) Click(ctx context.Context, selector string) error {
	p.mu.Lock()
	if p.doc.Find(selector).Length() == 0 {
		p.mu.Unlock()
		return fmt.Errorf("%w: %s", browser.ErrNoElement, selector)
	}
	p.record("click %s", selector)
	hook := p.clickHooks[selector]
	p.mu.Unlock()

	p.run(hook)
	return nil
}

func (p *Page) ClickText(ctx context.Context, selector string, pattern *regexp.Regexp) error {
	p.mu.Lock()
	found := false
	p.doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label, _ := s.Attr("aria-label")
		if pattern.MatchString(extract.Text(s)) || pattern.MatchString(label) {
			found = true
			return false
		}
		return true
	})
	if !found {
		p.mu.Unlock()
		return fmt.Errorf("%w: %s matching %s", browser.ErrNoElement, selector, pattern)
	}
	p.record("click %s %s", selector, pattern)
	hook := p.clickHooks[selector]
	p.mu.Unlock()

	p.run(hook)
	return nil
}

func (p *Page) Fill(ctx context.Context, selector, value string) error {
	return p.FillNth(ctx, selector, 0, value)
}

func (p *Page) FillNth(ctx context.Context, selector string, index int, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := fillKey(selector, index)
	if err := p.fillErrs[selector]; err != nil {
		return err
	}
	if err := p.fillErrs[key]; err != nil {
		return err
	}
	if index >= p.doc.Find(selector).Length() {
		return fmt.Errorf("%w: %s", browser.ErrNoElement, key)
	}
	p.values[key] = value
	p.record("fill %s", key)
	return nil
}

func (p *Page) InputValue(ctx context.Context, selector string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sel := p.doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", fmt.Errorf("%w: %s", browser.ErrNoElement, selector)
	}
	if v, ok := p.values[selector]; ok {
		return v, nil
	}
	v, _ := sel.Attr("value")
	return v, nil
}

func (p *Page) Press(ctx context.Context, selector string, key browser.Key) error {
	p.mu.Lock()
	if p.doc.Find(selector).Length() == 0 {
		p.mu.Unlock()
		return fmt.Errorf("%w: %s", browser.ErrNoElement, selector)
	}
	p.record("press %s %s", selector, key)
	hook := p.pressHooks[selector]
	p.mu.Unlock()

	p.run(hook)
	return nil
}

func (p *Page) PressKey(ctx context.Context, key browser.Key) error {
	p.mu.Lock()
	p.record("key %s", key)
	hook := p.pressHooks[""]
	p.mu.Unlock()

	p.run(hook)
	return nil
}

func (p *Page) Scroll(ctx context.Context, dy int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("scroll")
	return nil
}

func (p *Page) ScrollTop(ctx context.Context, selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("scrolltop %s", selector)
	return nil
}

func (p *Page) Cookies(ctx context.Context) ([]session.Cookie, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]session.Cookie(nil), p.cookies...), nil
}

func (p *Page) SetCookies(ctx context.Context, cookies []session.Cookie) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cookies = append([]session.Cookie(nil), cookies...)
	return nil
}

func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

var _ browser.Page = (*Page)(nil)
