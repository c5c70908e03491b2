package browser

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"fbcli/internal/logging"
	"fbcli/internal/session"
	"fbcli/internal/types"
)

// actionTimeout bounds the visibility/stability wait rod performs before an
// element interaction.
const actionTimeout = 5 * time.Second

// urlPollInterval is how often WaitURL samples the address bar.
const urlPollInterval = 250 * time.Millisecond

var rodKeys = map[Key]input.Key{
	KeyEnter: input.Enter,
}

// rodPage drives a single Chrome tab over CDP.
type rodPage struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

// LaunchRod starts Chrome, connects to it and opens one tab sized and
// identified per cfg. It is the default Launcher.
func LaunchRod(ctx context.Context, cfg Config) (Page, error) {
	l := launcher.New().Headless(cfg.Headless)
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}
	for _, rawFlag := range cfg.Flags {
		flagStr := strings.TrimLeft(rawFlag, "-")
		name, val, hasVal := strings.Cut(flagStr, "=")
		if hasVal {
			l = l.Set(flags.Flag(name), val)
		} else {
			l = l.Set(flags.Flag(name))
		}
	}

	controlURL, err := l.Context(ctx).Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	// The browser is not bound to ctx so Close can still flush cookies after
	// the command context is cancelled.
	b := rod.New().ControlURL(controlURL)
	if cfg.SlowMotion > 0 {
		b = b.SlowMotion(cfg.SlowMotion)
	}
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		l.Kill()
		return nil, fmt.Errorf("create page: %w", err)
	}

	log := logging.Get(logging.CategoryBrowser)
	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.ViewportWidth,
		Height:            cfg.ViewportHeight,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		log.Warn("failed to set viewport: %v", err)
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: cfg.UserAgent}); err != nil {
		log.Warn("failed to set user agent: %v", err)
	}

	return &rodPage{launcher: l, browser: b, page: page}, nil
}

func (p *rodPage) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	pg := p.page.Context(ctx).Timeout(timeout)
	if err := pg.Navigate(url); err != nil {
		return wrapTimeout(err, "navigate %s", url)
	}
	if err := pg.WaitLoad(); err != nil {
		return wrapTimeout(err, "load %s", url)
	}
	return nil
}

func (p *rodPage) URL() string {
	info, err := p.page.Info()
	if err != nil || info == nil {
		return ""
	}
	return info.URL
}

func (p *rodPage) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}

func (p *rodPage) Count(ctx context.Context, selector string) (int, error) {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

func (p *rodPage) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if _, err := p.page.Context(ctx).Timeout(timeout).Element(selector); err != nil {
		return wrapTimeout(err, "wait for %s", selector)
	}
	return nil
}

func (p *rodPage) WaitURL(ctx context.Context, match func(string) bool, timeout time.Duration) error {
	return PollURL(ctx, p, match, timeout, urlPollInterval)
}

func (p *rodPage) first(ctx context.Context, selector string) (*rod.Element, error) {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, noElement(selector)
	}
	return els[0].Timeout(actionTimeout), nil
}

func (p *rodPage) Click(ctx context.Context, selector string) error {
	el, err := p.first(ctx, selector)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (p *rodPage) ClickText(ctx context.Context, selector string, pattern *regexp.Regexp) error {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return err
	}
	for _, el := range els {
		text, _ := el.Text()
		label := ""
		if v, err := el.Attribute("aria-label"); err == nil && v != nil {
			label = *v
		}
		if pattern.MatchString(text) || pattern.MatchString(label) {
			return el.Timeout(actionTimeout).Click(proto.InputMouseButtonLeft, 1)
		}
	}
	return noElement(fmt.Sprintf("%s matching %s", selector, pattern))
}

func (p *rodPage) Fill(ctx context.Context, selector, value string) error {
	return p.FillNth(ctx, selector, 0, value)
}

func (p *rodPage) FillNth(ctx context.Context, selector string, index int, value string) error {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return err
	}
	if index >= len(els) {
		return noElement(fmt.Sprintf("%s #%d", selector, index))
	}
	el := els[index].Timeout(actionTimeout)
	if visible, err := el.Visible(); err == nil && !visible {
		return fmt.Errorf("%s #%d is hidden", selector, index)
	}
	// Inputs select their value; editable divs ignore this and are empty anyway.
	_ = el.SelectAllText()
	return el.Input(value)
}

func (p *rodPage) InputValue(ctx context.Context, selector string) (string, error) {
	el, err := p.first(ctx, selector)
	if err != nil {
		return "", err
	}
	v, err := el.Property("value")
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func (p *rodPage) Press(ctx context.Context, selector string, key Key) error {
	el, err := p.first(ctx, selector)
	if err != nil {
		return err
	}
	if err := el.Focus(); err != nil {
		return err
	}
	return p.PressKey(ctx, key)
}

func (p *rodPage) PressKey(ctx context.Context, key Key) error {
	k, ok := rodKeys[key]
	if !ok {
		return fmt.Errorf("unsupported key %q", key)
	}
	return p.page.Context(ctx).Keyboard.Type(k)
}

func (p *rodPage) Scroll(ctx context.Context, dy int) error {
	return p.page.Context(ctx).Mouse.Scroll(0, float64(dy), 1)
}

func (p *rodPage) ScrollTop(ctx context.Context, selector string) error {
	_, err := p.page.Context(ctx).Eval(`(sel) => {
		const container = document.querySelector(sel) || document.body;
		container.scrollTop = 0;
	}`, selector)
	return err
}

func (p *rodPage) Cookies(ctx context.Context) ([]session.Cookie, error) {
	raw, err := p.browser.Context(ctx).GetCookies()
	if err != nil {
		return nil, fmt.Errorf("get cookies: %w", err)
	}
	cookies := make([]session.Cookie, 0, len(raw))
	for _, c := range raw {
		cookies = append(cookies, session.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  float64(c.Expires),
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		})
	}
	return cookies, nil
}

func (p *rodPage) SetCookies(ctx context.Context, cookies []session.Cookie) error {
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		param := &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: proto.NetworkCookieSameSite(c.SameSite),
		}
		// Session cookies carry a non-positive expiry and must omit it.
		if c.Expires > 0 {
			param.Expires = proto.TimeSinceEpoch(c.Expires)
		}
		params = append(params, param)
	}
	if err := p.browser.Context(ctx).SetCookies(params); err != nil {
		return fmt.Errorf("set cookies: %w", err)
	}
	return nil
}

func (p *rodPage) Close() error {
	err := p.browser.Close()
	p.launcher.Cleanup()
	return err
}

func wrapTimeout(err error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", types.ErrTimeout, msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
