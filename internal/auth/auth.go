// Package auth keeps the browser session logged in and clears the messenger
// PIN challenge.
package auth

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"fbcli/internal/browser"
	"fbcli/internal/config"
	"fbcli/internal/logging"
	"fbcli/internal/types"
)

// State is the login state of a Machine.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Landmarks only rendered for a logged-in member.
var landmarkSelectors = []string{
	`[role="navigation"]`,
	`[role="feed"]`,
}

var (
	emailSelectors    = []string{`#email`, `input[name="email"]`}
	passwordSelectors = []string{`#pass`, `input[name="pass"]`, `input[type="password"]`}
)

// URL fragments of the security checkpoint flows.
var challengeMarkers = []string{"checkpoint", "two_factor", "two_step_verification", "security"}

// Machine is the login state machine. It is not safe for concurrent use.
type Machine struct {
	mgr   *browser.Manager
	cfg   *config.Config
	host  string
	state State
}

// New returns an unauthenticated machine driving mgr.
func New(mgr *browser.Manager, cfg *config.Config) *Machine {
	host := ""
	if u, err := url.Parse(cfg.Site.BaseURL); err == nil {
		host = strings.TrimPrefix(u.Hostname(), "www.")
	}
	return &Machine{mgr: mgr, cfg: cfg, host: host}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// IsAuthenticated reports whether the last check or login succeeded.
func (m *Machine) IsAuthenticated() bool {
	return m.state == Authenticated
}

// EnsureLoggedIn makes sure the page holds a logged-in session, reusing
// restored cookies when they are still valid and logging in otherwise.
// Credentials are validated before any navigation.
func (m *Machine) EnsureLoggedIn(ctx context.Context) error {
	if m.state == Authenticated {
		return nil
	}
	if err := m.cfg.ValidateCredentials(); err != nil {
		return err
	}

	page, err := m.mgr.Launch(ctx)
	if err != nil {
		return err
	}

	log := logging.Get(logging.CategoryAuth)
	if err := page.Navigate(ctx, m.cfg.Site.URL("/"), m.cfg.GetNavigationTimeout()); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("home page did not settle, checking session anyway: %v", err)
	}
	if err := m.mgr.HumanDelay(ctx); err != nil {
		return err
	}

	if m.hasSession(ctx, page) {
		log.Info("session restored from cookies")
		m.state = Authenticated
		return nil
	}
	return m.login(ctx, page)
}

func (m *Machine) login(ctx context.Context, page browser.Page) error {
	log := logging.Get(logging.CategoryAuth)
	log.Info("logging in")

	if err := page.Navigate(ctx, m.cfg.Site.URL("/login"), m.cfg.GetNavigationTimeout()); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("login page did not settle: %v", err)
	}
	if err := m.mgr.HumanDelay(ctx); err != nil {
		return err
	}

	emailSel := firstPresent(ctx, page, emailSelectors)
	passSel := firstPresent(ctx, page, passwordSelectors)
	if emailSel == "" || passSel == "" {
		if m.hasSession(ctx, page) {
			log.Info("login form absent but session is active")
			return m.succeed(ctx)
		}
		return fmt.Errorf("%w at %s", types.ErrLoginFormNotFound, page.URL())
	}

	if err := page.Fill(ctx, emailSel, m.cfg.Facebook.Email); err != nil {
		return fmt.Errorf("%w: fill email: %v", types.ErrLoginFormNotFound, err)
	}
	if err := m.mgr.HumanDelay(ctx); err != nil {
		return err
	}
	if err := page.Fill(ctx, passSel, m.cfg.Facebook.Password); err != nil {
		return fmt.Errorf("%w: fill password: %v", types.ErrLoginFormNotFound, err)
	}
	if err := m.mgr.HumanDelay(ctx); err != nil {
		return err
	}

	how, err := browser.FirstSuccess(ctx, page,
		browser.Attempt{Name: "login-button", Do: clickSelector(`button[name="login"]`)},
		browser.Attempt{Name: "submit-button", Do: clickSelector(`button[type="submit"]`)},
		browser.Attempt{Name: "enter", Do: func(ctx context.Context, p browser.Page) error {
			return p.Press(ctx, passSel, browser.KeyEnter)
		}},
	)
	if err != nil {
		return fmt.Errorf("%w: submit: %v", types.ErrLoginFormNotFound, err)
	}
	log.Debug("submitted login form via %s", how)

	waitErr := page.WaitURL(ctx, m.leftLogin, m.cfg.GetLoginTimeout())
	if waitErr != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	if current := page.URL(); isChallengeURL(current) {
		return fmt.Errorf("%w: 2FA or security check at %s; log in once with --headed", types.ErrChallengeRequired, current)
	}
	if waitErr != nil && !m.hasSession(ctx, page) {
		return fmt.Errorf("%w: check your credentials", types.ErrLoginFailed)
	}
	return m.succeed(ctx)
}

func (m *Machine) succeed(ctx context.Context) error {
	if err := m.mgr.HumanDelay(ctx); err != nil {
		return err
	}
	m.mgr.SaveCookies(ctx)
	m.state = Authenticated
	logging.Get(logging.CategoryAuth).Info("login successful")
	return nil
}

// Logout visits the logout endpoint. Errors are ignored; the machine always
// ends unauthenticated.
func (m *Machine) Logout(ctx context.Context) {
	defer func() { m.state = Unauthenticated }()

	page, err := m.mgr.Page()
	if err != nil {
		return
	}
	if err := page.Navigate(ctx, m.cfg.Site.URL("/logout.php"), m.cfg.GetNavigationTimeout()); err != nil {
		logging.AuthDebug("logout navigation: %v", err)
	}
	_ = m.mgr.HumanDelay(ctx)
}

// hasSession reports whether the current page is a logged-in site page.
func (m *Machine) hasSession(ctx context.Context, page browser.Page) bool {
	if !m.onSite(page.URL()) || isLoginURL(page.URL()) {
		return false
	}
	return firstPresent(ctx, page, landmarkSelectors) != ""
}

func (m *Machine) onSite(raw string) bool {
	return m.host == "" || strings.Contains(raw, m.host)
}

func (m *Machine) leftLogin(raw string) bool {
	return m.onSite(raw) && !isLoginURL(raw)
}

func isLoginURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.Contains(raw, "login")
	}
	return strings.Contains(u.Path, "login")
}

func isChallengeURL(raw string) bool {
	for _, marker := range challengeMarkers {
		if strings.Contains(raw, marker) {
			return true
		}
	}
	return false
}

// firstPresent returns the first selector matching at least one element.
func firstPresent(ctx context.Context, page browser.Page, selectors []string) string {
	for _, sel := range selectors {
		if n, err := page.Count(ctx, sel); err == nil && n > 0 {
			return sel
		}
	}
	return ""
}

func clickSelector(selector string) func(context.Context, browser.Page) error {
	return func(ctx context.Context, p browser.Page) error {
		return p.Click(ctx, selector)
	}
}
