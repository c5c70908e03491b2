// Package browser owns the single Chrome tab fbcli drives: launching it,
// restoring and persisting cookies, and pacing interactions.
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fbcli/internal/jitter"
	"fbcli/internal/logging"
	"fbcli/internal/session"
	"fbcli/internal/types"
)

// slowLaunch is the launch time above which a warning is logged.
const slowLaunch = 20 * time.Second

// Launcher opens a browser and returns its only page.
type Launcher func(ctx context.Context, cfg Config) (Page, error)

// Manager owns the browser lifecycle. At most one page is active per Manager.
// Callers serialise page operations; the mutex only guards the handles.
type Manager struct {
	cfg      Config
	store    *session.Store
	launcher Launcher
	delays   jitter.Range

	mu       sync.Mutex
	page     Page
	headless bool
}

// Option customises a Manager.
type Option func(*Manager)

// WithLauncher replaces the rod launcher, typically with a fixture page.
func WithLauncher(l Launcher) Option {
	return func(m *Manager) { m.launcher = l }
}

// WithDelays sets the human pacing range.
func WithDelays(r jitter.Range) Option {
	return func(m *Manager) { m.delays = r }
}

// NewManager creates a manager that persists cookies to store.
func NewManager(cfg Config, store *session.Store, opts ...Option) *Manager {
	m := &Manager{
		cfg:      cfg,
		store:    store,
		launcher: LaunchRod,
		delays:   jitter.DefaultRange,
		headless: cfg.Headless,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Config returns the browser configuration.
func (m *Manager) Config() Config {
	return m.cfg
}

// SetHeadless changes the mode used by the next Launch. A running browser
// is not affected.
func (m *Manager) SetHeadless(headless bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.headless = headless
}

// Headless reports the mode the next Launch will use.
func (m *Manager) Headless() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.headless
}

// Launch starts the browser if needed and restores persisted cookies.
// Calling it again while a page is active returns that page.
func (m *Manager) Launch(ctx context.Context) (Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.page != nil {
		return m.page, nil
	}

	log := logging.Get(logging.CategoryBrowser)
	cfg := m.cfg
	cfg.Headless = m.headless

	log.Info("launching browser (headless=%v)", cfg.Headless)
	timer := logging.StartTimer(logging.CategoryBrowser, "launch")
	page, err := m.launcher(ctx, cfg)
	timer.StopWithThreshold(slowLaunch)
	if err != nil {
		return nil, err
	}

	m.restoreCookiesLocked(ctx, page)
	m.page = page
	return page, nil
}

func (m *Manager) restoreCookiesLocked(ctx context.Context, page Page) {
	if m.store == nil {
		return
	}
	log := logging.Get(logging.CategorySession)

	cookies, err := m.store.Load()
	if err != nil {
		log.Warn("could not load cookies, starting fresh: %v", err)
		return
	}
	if len(cookies) == 0 {
		log.Debug("no saved session at %s", m.store.Path())
		return
	}
	if err := page.SetCookies(ctx, cookies); err != nil {
		log.Warn("could not restore cookies: %v", err)
		return
	}
	log.Info("restored %d cookies", len(cookies))
}

// Page returns the active page.
func (m *Manager) Page() (Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.page == nil {
		return nil, fmt.Errorf("%w: call Launch first", types.ErrNotInitialized)
	}
	return m.page, nil
}

// SaveCookies persists the page's cookies. Failures are logged, never returned.
func (m *Manager) SaveCookies(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCookiesLocked(ctx)
}

func (m *Manager) saveCookiesLocked(ctx context.Context) {
	if m.page == nil || m.store == nil {
		return
	}
	log := logging.Get(logging.CategorySession)

	cookies, err := m.page.Cookies(ctx)
	if err != nil {
		log.Warn("could not read cookies: %v", err)
		return
	}
	if err := m.store.Save(cookies); err != nil {
		log.Warn("could not save cookies: %v", err)
		return
	}
	log.Debug("saved %d cookies to %s", len(cookies), m.store.Path())
}

// Close saves cookies, closes the browser and clears the handles so the next
// Launch starts fresh. Closing an unlaunched manager is a no-op.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.page == nil {
		return nil
	}
	m.saveCookiesLocked(ctx)

	err := m.page.Close()
	m.page = nil
	if err != nil {
		return fmt.Errorf("close browser: %w", err)
	}
	logging.Get(logging.CategoryBrowser).Debug("browser closed")
	return nil
}

// HumanDelay pauses for a random duration in the configured range, or for
// fixed[0] when given.
func (m *Manager) HumanDelay(ctx context.Context, fixed ...time.Duration) error {
	return jitter.Sleep(ctx, jitter.Pick(m.delays, fixed...))
}

// HumanScroll scrolls the page by a random amount and then pauses.
func (m *Manager) HumanScroll(ctx context.Context) error {
	page, err := m.Page()
	if err != nil {
		return err
	}
	if err := page.Scroll(ctx, jitter.ScrollAmount()); err != nil {
		logging.BrowserDebug("scroll failed: %v", err)
	}
	return m.HumanDelay(ctx)
}
