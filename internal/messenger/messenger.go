// Package messenger lists inbox threads, reads a thread and sends messages.
package messenger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"fbcli/internal/auth"
	"fbcli/internal/browser"
	"fbcli/internal/config"
	"fbcli/internal/extract"
	"fbcli/internal/logging"
	"fbcli/internal/types"
)

const (
	settleDelays = 3
	scrollCycles = 3
)

// Authenticator makes sure the browser holds a logged-in session.
type Authenticator interface {
	EnsureLoggedIn(ctx context.Context) error
}

// Service runs messenger flows on the manager's page.
type Service struct {
	mgr  *browser.Manager
	auth Authenticator
	pin  auth.PinResolver
	cfg  *config.Config
	now  func() time.Time
}

// New returns a messenger service. pin is consulted after every thread
// navigation.
func New(mgr *browser.Manager, authn Authenticator, pin auth.PinResolver, cfg *config.Config) *Service {
	return &Service{mgr: mgr, auth: authn, pin: pin, cfg: cfg, now: time.Now}
}

// WithClock sets the capture time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ListConversations returns up to opts.Limit inbox threads (default 20),
// preferring the marketplace folder when it can be selected: first through
// the inbox filter button, then through the filter URL.
func (s *Service) ListConversations(ctx context.Context, opts types.MessageOptions) ([]types.Conversation, error) {
	defer logging.StartTimer(logging.CategoryMessenger, "list_conversations").Stop()
	log := logging.Get(logging.CategoryMessenger)

	page, err := s.open(ctx, s.cfg.Site.URL("/messages/"))
	if err != nil {
		return nil, err
	}
	log.Info("fetching conversations")

	if err := s.settle(ctx); err != nil {
		return nil, err
	}

	how, err := browser.FirstSuccess(ctx, page,
		browser.Attempt{Name: "filter-button", Do: s.filterByButton},
		browser.Attempt{Name: "url-param", Do: s.filterByURL},
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("marketplace filter not applied, listing all threads: %v", err)
	} else {
		log.Debug("marketplace filter applied via %s", how)
	}

	doc, err := browser.Document(ctx, page)
	if err != nil {
		return nil, err
	}
	return ParseConversations(doc, opts.LimitOr(types.DefaultConversationLimit), s.now()), nil
}

func (s *Service) filterByButton(ctx context.Context, page browser.Page) error {
	if err := page.ClickText(ctx, filterButtons, marketplaceFilter); err != nil {
		return err
	}
	return s.settle(ctx)
}

// filterByURL loads the filtered inbox and keeps it only when the page shows
// the marketplace folder as selected. Inboxes that ignore the parameter are
// left for the caller as the plain inbox.
func (s *Service) filterByURL(ctx context.Context, page browser.Page) error {
	if err := page.Navigate(ctx, s.cfg.Site.URL("/messages/?filter=marketplace"), s.cfg.GetNavigationTimeout()); err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	if err := s.mgr.HumanDelay(ctx); err != nil {
		return err
	}

	err := page.WaitFor(ctx, selectedFilter, s.cfg.GetResultsTimeout())
	if err == nil {
		err = marketplaceSelected(ctx, page)
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_ = page.Navigate(ctx, s.cfg.Site.URL("/messages/"), s.cfg.GetNavigationTimeout())
		if derr := s.mgr.HumanDelay(ctx); derr != nil {
			return derr
		}
		return err
	}
	return nil
}

func marketplaceSelected(ctx context.Context, page browser.Page) error {
	doc, err := browser.Document(ctx, page)
	if err != nil {
		return err
	}
	found := false
	doc.Find(selectedFilter).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		label, _ := sel.Attr("aria-label")
		found = marketplaceFilter.MatchString(label) || marketplaceFilter.MatchString(extract.Text(sel))
		return !found
	})
	if !found {
		return fmt.Errorf("%w: marketplace folder not selected", types.ErrNotFound)
	}
	return nil
}

// ReadConversation returns up to opts.Limit of the most recent messages of
// thread id (default 50). A thread that never renders yields an empty slice.
func (s *Service) ReadConversation(ctx context.Context, id string, opts types.MessageOptions) ([]types.Message, error) {
	defer logging.StartTimer(logging.CategoryMessenger, "read_conversation").Stop()
	log := logging.Get(logging.CategoryMessenger)

	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: conversation id is required", types.ErrInvalidInput)
	}
	log.Info("reading conversation %s", id)

	page, err := s.open(ctx, s.cfg.Site.URL("/messages/t/"+id))
	if err != nil {
		return nil, err
	}

	if err := page.WaitFor(ctx, threadReadySelector, s.cfg.GetResultsTimeout()); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !browser.IsTimeout(err) {
			return nil, fmt.Errorf("wait for thread: %w", err)
		}
		log.Warn("could not load messages for %s", id)
		return []types.Message{}, nil
	}

	for i := 0; i < scrollCycles; i++ {
		if err := page.ScrollTop(ctx, threadScrollTarget); err != nil {
			log.Debug("scroll to top: %v", err)
		}
		if err := s.mgr.HumanDelay(ctx); err != nil {
			return nil, err
		}
	}

	doc, err := browser.Document(ctx, page)
	if err != nil {
		return nil, err
	}
	return ParseMessages(doc, id, opts.LimitOr(types.DefaultMessageLimit), s.now()), nil
}

// SendMessage types text into the thread with userID and presses Enter.
// Delivery is not confirmed. It fails with types.ErrNotFound when no
// composer appears.
func (s *Service) SendMessage(ctx context.Context, userID, text string) error {
	defer logging.StartTimer(logging.CategoryMessenger, "send_message").Stop()
	log := logging.Get(logging.CategoryMessenger)

	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", types.ErrInvalidInput)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: message text is empty", types.ErrInvalidInput)
	}
	log.Info("sending message to %s", userID)

	page, err := s.open(ctx, s.cfg.Site.URL("/messages/t/"+userID))
	if err != nil {
		return err
	}

	if err := page.WaitFor(ctx, composerSelector, s.cfg.GetResultsTimeout()); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: message input for %s", types.ErrNotFound, userID)
	}

	attempts := make([]browser.Attempt, 0, len(composerInputs))
	for _, sel := range composerInputs {
		attempts = append(attempts, browser.Attempt{Name: sel, Do: func(ctx context.Context, p browser.Page) error {
			return p.Fill(ctx, sel, text)
		}})
	}
	how, err := browser.FirstSuccess(ctx, page, attempts...)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: message input for %s: %v", types.ErrNotFound, userID, err)
	}
	log.Debug("message typed into %s", how)

	if err := s.mgr.HumanDelay(ctx); err != nil {
		return err
	}
	if err := page.PressKey(ctx, browser.KeyEnter); err != nil {
		return fmt.Errorf("press enter: %w", err)
	}
	if err := s.mgr.HumanDelay(ctx); err != nil {
		return err
	}
	s.mgr.SaveCookies(ctx)
	log.Info("message sent")
	return nil
}

// open logs in, navigates to target and clears a PIN prompt if one shows.
func (s *Service) open(ctx context.Context, target string) (browser.Page, error) {
	if err := s.auth.EnsureLoggedIn(ctx); err != nil {
		return nil, err
	}
	page, err := s.mgr.Page()
	if err != nil {
		return nil, err
	}

	if err := page.Navigate(ctx, target, s.cfg.GetNavigationTimeout()); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logging.Get(logging.CategoryMessenger).Warn("navigation to %s incomplete, continuing: %v", target, err)
	}
	if err := s.mgr.HumanDelay(ctx); err != nil {
		return nil, err
	}

	if s.pin != nil && !s.pin.HandlePinChallenge(ctx) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logging.Get(logging.CategoryMessenger).Debug("no PIN entered, messages may be hidden")
	}
	return page, nil
}

func (s *Service) settle(ctx context.Context) error {
	for i := 0; i < settleDelays; i++ {
		if err := s.mgr.HumanDelay(ctx); err != nil {
			return err
		}
	}
	return nil
}
