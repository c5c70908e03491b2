package types

import "errors"

// Error kinds. Callers match them with errors.Is; producers wrap them with
// fmt.Errorf("...: %w", kind) to add context.
var (
	// ErrConfiguration means required credentials or settings are missing.
	ErrConfiguration = errors.New("configuration error")
	// ErrChallengeRequired means login hit a security checkpoint that needs a human.
	ErrChallengeRequired = errors.New("security challenge required")
	// ErrLoginFailed means credentials were submitted but no session resulted.
	ErrLoginFailed = errors.New("login failed")
	// ErrLoginFormNotFound means the login page did not expose the expected fields.
	ErrLoginFormNotFound = errors.New("login form not found")
	// ErrExtraction marks a malformed record; it is logged and the record skipped.
	ErrExtraction = errors.New("extraction failure")
	// ErrNotFound means the requested content never materialised.
	ErrNotFound = errors.New("not found")
	// ErrNotInitialized means a page was requested before the browser was launched.
	ErrNotInitialized = errors.New("browser not initialized")
	// ErrTimeout means a bounded wait expired.
	ErrTimeout = errors.New("timeout")
	// ErrInvalidInput means a caller argument was rejected before any page work.
	ErrInvalidInput = errors.New("invalid input")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrConfiguration, "ConfigurationError"},
	{ErrChallengeRequired, "ChallengeRequired"},
	{ErrLoginFailed, "LoginFailed"},
	{ErrLoginFormNotFound, "LoginFormNotFound"},
	{ErrExtraction, "ExtractionFailure"},
	{ErrNotFound, "NotFound"},
	{ErrNotInitialized, "NotInitialized"},
	{ErrTimeout, "Timeout"},
	{ErrInvalidInput, "InvalidInput"},
}

// KindOf returns the taxonomy name of err, or "Error" when it matches none.
func KindOf(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Error"
}
