package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fbcli/internal/logging"
	"fbcli/internal/render"
	"fbcli/internal/types"
)

// =============================================================================
// MARKETPLACE COMMANDS
// =============================================================================

var (
	searchQuery    string
	searchLocation string
	searchRadius   int
	searchMinPrice int
	searchMaxPrice int
	searchCategory string
	searchLimit    int

	listingID string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search Facebook Marketplace listings",
	Example: `  fbcli search -q "velo" -l "Lyon, ARA" -r 25 --max-price 300
  fbcli search -q bike --limit 5 --format markdown`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

var listingCmd = &cobra.Command{
	Use:   "listing",
	Short: "Get detailed information about a specific listing",
	Args:  cobra.NoArgs,
	RunE:  runListing,
}

func registerMarketplaceCommands() {
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "Search query (required)")
	searchCmd.Flags().StringVarP(&searchLocation, "location", "l", "", `Location (e.g. "San Francisco, CA")`)
	searchCmd.Flags().IntVarP(&searchRadius, "radius", "r", 0, "Search radius in km, rounded to 10, 25, 50, 100 or 250")
	searchCmd.Flags().IntVar(&searchMinPrice, "min-price", 0, "Minimum price")
	searchCmd.Flags().IntVar(&searchMaxPrice, "max-price", 0, "Maximum price")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "Category filter")
	searchCmd.Flags().IntVar(&searchLimit, "limit", types.DefaultSearchLimit, "Maximum results")
	_ = searchCmd.MarkFlagRequired("query")

	listingCmd.Flags().StringVar(&listingID, "id", "", "Listing ID (required)")
	_ = listingCmd.MarkFlagRequired("id")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(listingCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchQuery == "" {
		return fmt.Errorf("%w: --query must not be empty", types.ErrInvalidInput)
	}
	opts := types.SearchOptions{
		Query:    searchQuery,
		Location: searchLocation,
		Radius:   searchRadius,
		MinPrice: searchMinPrice,
		MaxPrice: searchMaxPrice,
		Category: searchCategory,
		Limit:    searchLimit,
	}

	return withApp(func(ctx context.Context, a *app) error {
		log := logging.Get(logging.CategoryCLI)
		log.Info("search %q (location %q, limit %d)", opts.Query, opts.Location, opts.EffectiveLimit())

		listings, err := a.marketplace.Search(ctx, opts)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		return render.Listings(cmd.OutOrStdout(), format, listings)
	})
}

func runListing(cmd *cobra.Command, args []string) error {
	if listingID == "" {
		return fmt.Errorf("%w: --id must not be empty", types.ErrInvalidInput)
	}

	return withApp(func(ctx context.Context, a *app) error {
		listing, err := a.marketplace.GetListing(ctx, listingID)
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("listing not found: %w", err)
		}
		if err != nil {
			return fmt.Errorf("failed to fetch listing: %w", err)
		}
		return render.Listing(cmd.OutOrStdout(), format, listing)
	})
}
