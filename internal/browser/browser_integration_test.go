//go:build integration

package browser_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fbcli/internal/browser"
	"fbcli/internal/config"
	"fbcli/internal/session"
)

func TestManager_Navigation_Integration(t *testing.T) {
	// 1. Setup local server
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintln(w, `<html><body><div role="main"><h1>Hello World</h1></div></body></html>`)
	}))
	defer ts.Close()

	// 2. Setup Manager
	cfg := browser.FromAppConfig(config.DefaultConfig())
	cfg.Headless = true
	cfg.NavigationTimeout = 10 * time.Second

	store := session.NewStore(filepath.Join(t.TempDir(), "cookies.json"))
	m := browser.NewManager(cfg, store)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Ensure shutdown to clean up browser process
	defer func() {
		if err := m.Close(context.Background()); err != nil {
			t.Logf("Close error: %v", err)
		}
	}()

	page, err := m.Launch(ctx)
	require.NoError(t, err, "Failed to launch browser")

	// 3. Navigate and read back
	require.NoError(t, page.Navigate(ctx, ts.URL, cfg.NavigationTimeout))
	require.NoError(t, page.WaitFor(ctx, "h1", 5*time.Second))
	require.True(t, strings.HasPrefix(page.URL(), ts.URL))

	html, err := page.HTML(ctx)
	require.NoError(t, err)
	require.Contains(t, html, "Hello World")

	n, err := page.Count(ctx, `[role="main"] h1`)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	err = page.WaitFor(ctx, "#never", 500*time.Millisecond)
	require.True(t, browser.IsTimeout(err), "expected timeout, got %v", err)
}

func TestManager_Interaction_Integration(t *testing.T) {
	// 1. Setup local server with interactive elements
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		http.SetCookie(w, &http.Cookie{Name: "fixture", Value: "1", Path: "/"})
		fmt.Fprintln(w, `
			<html>
			<body>
				<button id="btn1" onclick="document.title='clicked'">Click Me</button>
				<div role="button" aria-label="Marketplace filter">Filter</div>
				<input id="inp1" type="text" value="old" />
			</body>
			</html>
		`)
	}))
	defer ts.Close()

	cfg := browser.FromAppConfig(config.DefaultConfig())
	cfg.Headless = true
	cfg.NavigationTimeout = 10 * time.Second

	path := filepath.Join(t.TempDir(), "cookies.json")
	m := browser.NewManager(cfg, session.NewStore(path))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	page, err := m.Launch(ctx)
	require.NoError(t, err, "Failed to launch browser")
	require.NoError(t, page.Navigate(ctx, ts.URL, cfg.NavigationTimeout))

	// 2. Perform Interaction
	require.NoError(t, page.Click(ctx, "#btn1"))
	require.NoError(t, page.ClickText(ctx, `[role="button"]`, regexp.MustCompile(`(?i)marketplace`)))
	require.NoError(t, page.Fill(ctx, "#inp1", "hello"))

	v, err := page.InputValue(ctx, "#inp1")
	require.NoError(t, err)
	require.Equal(t, "hello", v)

	require.NoError(t, page.Press(ctx, "#inp1", browser.KeyEnter))
	require.NoError(t, page.Scroll(ctx, 300))
	require.NoError(t, page.ScrollTop(ctx, `[role="main"]`))

	// 3. Cookies survive a restart
	require.NoError(t, m.Close(context.Background()))

	m2 := browser.NewManager(cfg, session.NewStore(path))
	defer func() { _ = m2.Close(context.Background()) }()
	page2, err := m2.Launch(ctx)
	require.NoError(t, err)

	cookies, err := page2.Cookies(ctx)
	require.NoError(t, err)
	found := false
	for _, c := range cookies {
		if c.Name == "fixture" && c.Value == "1" {
			found = true
		}
	}
	require.True(t, found, "restored cookies: %+v", cookies)
}
