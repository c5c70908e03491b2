package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbcli/internal/auth"
	"fbcli/internal/browser/browsertest"
	"fbcli/internal/config"
)

const threadURL = "https://www.facebook.com/messages/t/123"

func launched(t *testing.T, html string) *fixture {
	t.Helper()
	f := newFixture(t)
	f.page.Route(threadURL, html)
	page, err := f.mgr.Launch(context.Background())
	require.NoError(t, err)
	require.NoError(t, page.Navigate(context.Background(), threadURL, 0))
	return f
}

// pinHandler configures pin on f and returns a handler that does not wait
// for the dialog.
func pinHandler(f *fixture, pin string) *auth.PinHandler {
	f.cfg.Facebook.PIN = pin
	return auth.NewPinHandler(f.mgr, f.cfg).WithSettle(0)
}

func TestPin_NotConfigured(t *testing.T) {
	f := launched(t, `<div role="dialog"><input type="tel"><button type="submit">OK</button></div>`)

	ok := pinHandler(f, "").HandlePinChallenge(context.Background())

	assert.False(t, ok)
	assert.Equal(t, "", f.page.Value(`input[type="tel"]`))
}

func TestPin_FillAndSubmit(t *testing.T) {
	f := launched(t, `<div role="dialog"><input type="tel"><button type="submit">OK</button></div>`)

	ok := pinHandler(f, "123456").HandlePinChallenge(context.Background())

	require.True(t, ok)
	assert.Equal(t, "123456", f.page.Value(`input[type="tel"]`))
	assert.Contains(t, f.page.Actions(), `click button[type="submit"]`)
}

func TestPin_DialogButtonByText(t *testing.T) {
	f := launched(t, `<div role="dialog">
		<input inputmode="numeric">
		<button>Annuler</button><button>Valider</button>
	</div>`)

	ok := pinHandler(f, "0000").HandlePinChallenge(context.Background())

	require.True(t, ok)
	assert.Equal(t, "0000", f.page.Value(`input[inputmode="numeric"]`))
	actions := f.page.Actions()
	require.NotEmpty(t, actions)
	assert.Contains(t, actions[len(actions)-1], `[role="dialog"] button`)
}

func TestPin_EnterFallback(t *testing.T) {
	f := launched(t, `<div><input type="tel"></div>`)
	submitted := false
	f.page.OnPress("", func(*browsertest.Page) { submitted = true })

	ok := pinHandler(f, "4242").HandlePinChallenge(context.Background())

	assert.True(t, ok)
	assert.True(t, submitted)
}

func TestPin_NoInput(t *testing.T) {
	f := launched(t, `<div role="main"><p>Chats</p></div>`)

	ok := pinHandler(f, "4242").HandlePinChallenge(context.Background())

	assert.False(t, ok)
	for _, a := range f.page.Actions() {
		assert.NotContains(t, a, "fill")
	}
}

func TestPin_NotLaunched(t *testing.T) {
	f := newFixture(t)

	ok := pinHandler(f, "4242").HandlePinChallenge(context.Background())
	assert.False(t, ok)
}

func TestPin_Cancelled(t *testing.T) {
	f := launched(t, `<div role="dialog"><input type="tel"></div>`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.cfg.Facebook.PIN = "4242"
	ok := auth.NewPinHandler(f.mgr, f.cfg).HandlePinChallenge(ctx)
	assert.False(t, ok)
}

func TestPin_ImplementsResolver(t *testing.T) {
	var _ auth.PinResolver = auth.NewPinHandler(nil, config.DefaultConfig())
}

func TestPin_SkipsUnfillableDecoy(t *testing.T) {
	f := launched(t, `<input type="tel" style="display:none">
		<div role="dialog">
			<input type="password">
			<button type="submit">OK</button>
		</div>`)
	f.page.FailFill(`input[type="tel"]`, errors.New("element is hidden"))

	ok := pinHandler(f, "123456").HandlePinChallenge(context.Background())

	require.True(t, ok)
	assert.Equal(t, "", f.page.Value(`input[type="tel"]`))
	assert.Equal(t, "123456", f.page.Value(`[role="dialog"] input[type="password"]`))
	assert.Contains(t, f.page.Actions(), `click button[type="submit"]`)
}

func TestPin_TriesEveryMatch(t *testing.T) {
	f := launched(t, `<div role="dialog">
		<input type="tel" disabled>
		<input type="tel">
		<button type="submit">OK</button>
	</div>`)
	f.page.FailFillNth(`input[type="tel"]`, 0, errors.New("element is disabled"))

	ok := pinHandler(f, "0000").HandlePinChallenge(context.Background())

	require.True(t, ok)
	assert.Equal(t, "", f.page.ValueNth(`input[type="tel"]`, 0))
	assert.Equal(t, "0000", f.page.ValueNth(`input[type="tel"]`, 1))
}

func TestPin_AllCandidatesRejected(t *testing.T) {
	f := launched(t, `<div role="dialog"><input type="tel"><button type="submit">OK</button></div>`)
	f.page.FailFill(`input[type="tel"]`, errors.New("element is hidden"))

	ok := pinHandler(f, "0000").HandlePinChallenge(context.Background())

	assert.False(t, ok)
	assert.NotContains(t, f.page.Actions(), `click button[type="submit"]`)
}
