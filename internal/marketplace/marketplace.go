// Package marketplace searches marketplace listings and reads listing
// detail pages.
package marketplace

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fbcli/internal/browser"
	"fbcli/internal/config"
	"fbcli/internal/logging"
	"fbcli/internal/types"
)

const (
	scrollCycles  = 3
	detailRetries = 3
)

// Authenticator makes sure the browser holds a logged-in session.
type Authenticator interface {
	EnsureLoggedIn(ctx context.Context) error
}

// Service runs marketplace flows on the manager's page.
type Service struct {
	mgr  *browser.Manager
	auth Authenticator
	cfg  *config.Config
	now  func() time.Time
}

// New returns a marketplace service.
func New(mgr *browser.Manager, auth Authenticator, cfg *config.Config) *Service {
	return &Service{mgr: mgr, auth: auth, cfg: cfg, now: time.Now}
}

// WithClock sets the capture time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SearchURL builds the search address for opts.
func SearchURL(site config.SiteConfig, opts types.SearchOptions) string {
	var b strings.Builder
	b.WriteString(site.URL("/marketplace/search/"))
	b.WriteString("?query=")
	b.WriteString(url.QueryEscape(opts.Query))
	if opts.MinPrice > 0 {
		b.WriteString("&minPrice=" + strconv.Itoa(opts.MinPrice))
	}
	if opts.MaxPrice > 0 {
		b.WriteString("&maxPrice=" + strconv.Itoa(opts.MaxPrice))
	}
	return b.String()
}

// Search returns up to opts.EffectiveLimit() listings for opts.Query. A page
// that shows no results within the results timeout yields an empty slice.
func (s *Service) Search(ctx context.Context, opts types.SearchOptions) ([]types.Listing, error) {
	defer logging.StartTimer(logging.CategoryMarketplace, "search").Stop()
	log := logging.Get(logging.CategoryMarketplace)

	if err := s.auth.EnsureLoggedIn(ctx); err != nil {
		return nil, err
	}
	page, err := s.mgr.Page()
	if err != nil {
		return nil, err
	}

	target := SearchURL(s.cfg.Site, opts)
	log.Info("searching marketplace for %q", opts.Query)
	if opts.Category != "" {
		log.Debug("category %q is not supported by the search page, ignoring", opts.Category)
	}
	if err := s.navigate(ctx, page, target); err != nil {
		return nil, err
	}

	if err := page.WaitFor(ctx, resultsReadySelector, s.cfg.GetResultsTimeout()); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !browser.IsTimeout(err) {
			return nil, fmt.Errorf("wait for results: %w", err)
		}
		log.Warn("no listings found or page took too long to load")
		return []types.Listing{}, nil
	}

	if opts.Location != "" {
		if err := s.applyLocation(ctx, page, opts.Location, opts.Radius); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn("location filter not applied: %v", err)
		}
	}

	for i := 0; i < scrollCycles; i++ {
		if err := s.mgr.HumanScroll(ctx); err != nil {
			return nil, err
		}
	}

	doc, err := browser.Document(ctx, page)
	if err != nil {
		return nil, err
	}
	return ParseSearchResults(doc, opts, s.cfg.Site, s.now()), nil
}

// GetListing reads a listing detail page. It fails with types.ErrNotFound
// when the page never shows listing content.
func (s *Service) GetListing(ctx context.Context, id string) (*types.Listing, error) {
	defer logging.StartTimer(logging.CategoryMarketplace, "get_listing").Stop()
	log := logging.Get(logging.CategoryMarketplace)

	if err := s.auth.EnsureLoggedIn(ctx); err != nil {
		return nil, err
	}
	page, err := s.mgr.Page()
	if err != nil {
		return nil, err
	}

	log.Info("fetching listing %s", id)
	if err := s.navigate(ctx, page, s.cfg.Site.URL("/marketplace/item/"+id)); err != nil {
		return nil, err
	}

	found := false
	for i := 0; i < detailRetries && !found; i++ {
		found = present(ctx, page, detailTitleSelector) || present(ctx, page, detailContentSelector)
		if !found {
			if err := s.mgr.HumanDelay(ctx); err != nil {
				return nil, err
			}
		}
	}
	if !found {
		log.Warn("listing %s content not found", id)
		return nil, fmt.Errorf("%w: listing %s", types.ErrNotFound, id)
	}

	doc, err := browser.Document(ctx, page)
	if err != nil {
		return nil, err
	}
	return ParseListingDetail(doc, id, s.cfg.Site, s.now()), nil
}

// navigate loads target and paces. A navigation that times out is logged and
// the flow continues on whatever loaded.
func (s *Service) navigate(ctx context.Context, page browser.Page, target string) error {
	if err := page.Navigate(ctx, target, s.cfg.GetNavigationTimeout()); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.Get(logging.CategoryMarketplace).Warn("navigation to %s incomplete, continuing: %v", target, err)
	}
	return s.mgr.HumanDelay(ctx)
}

// applyLocation drives the location dialog: pick the first suggestion for
// location, optionally a radius bucket, then apply.
func (s *Service) applyLocation(ctx context.Context, page browser.Page, location string, radius int) error {
	log := logging.Get(logging.CategoryMarketplace)

	if err := page.ClickText(ctx, locationControlSelector, locationControlText); err != nil {
		return fmt.Errorf("open location dialog: %w", err)
	}
	if err := page.WaitFor(ctx, locationInputSelector, s.cfg.GetResultsTimeout()); err != nil {
		return fmt.Errorf("location input: %w", err)
	}
	if err := s.mgr.HumanDelay(ctx); err != nil {
		return err
	}

	if err := s.typeLocation(ctx, page, location); err != nil {
		return err
	}
	if err := page.WaitFor(ctx, locationOptionSelector, s.cfg.GetResultsTimeout()); err != nil {
		return fmt.Errorf("location suggestions: %w", err)
	}
	if err := page.Click(ctx, locationOptionSelector); err != nil {
		return fmt.Errorf("pick location: %w", err)
	}
	if err := s.mgr.HumanDelay(ctx); err != nil {
		return err
	}

	if radius > 0 {
		bucket := NearestRadius(radius)
		if err := s.pickRadius(ctx, page, bucket); err != nil {
			log.Warn("radius %d km not selected: %v", bucket, err)
		} else {
			log.Debug("radius set to %d km", bucket)
		}
	}

	if err := page.ClickText(ctx, dialogButtonSelector, applyText); err != nil {
		return fmt.Errorf("apply location: %w", err)
	}
	if err := s.mgr.HumanDelay(ctx); err != nil {
		return err
	}
	if err := page.WaitFor(ctx, resultsReadySelector, s.cfg.GetResultsTimeout()); err != nil {
		return fmt.Errorf("results after location change: %w", err)
	}
	log.Info("location set to %q", location)
	return nil
}

// typeLocation fills the location input, retrying once when the field does
// not reflect what was typed.
func (s *Service) typeLocation(ctx context.Context, page browser.Page, location string) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if err := page.Fill(ctx, locationInputSelector, location); err != nil {
			lastErr = err
			continue
		}
		got, err := page.InputValue(ctx, locationInputSelector)
		if err == nil && strings.EqualFold(strings.TrimSpace(got), strings.TrimSpace(location)) {
			return s.mgr.HumanDelay(ctx)
		}
		lastErr = fmt.Errorf("input holds %q", got)
		if err := s.mgr.HumanDelay(ctx); err != nil {
			return err
		}
	}
	return fmt.Errorf("type location: %w", lastErr)
}

func (s *Service) pickRadius(ctx context.Context, page browser.Page, km int) error {
	if err := page.ClickText(ctx, radiusControlSelector, radiusControlText); err != nil {
		return err
	}
	if err := s.mgr.HumanDelay(ctx); err != nil {
		return err
	}
	return page.ClickText(ctx, radiusOptionSelector, radiusOptionText(km))
}

func present(ctx context.Context, page browser.Page, selector string) bool {
	n, err := page.Count(ctx, selector)
	return err == nil && n > 0
}
