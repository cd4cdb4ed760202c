package views

import (
	"context"

	"github.com/rs/zerolog"

	"showbill/internal/models"
)

// PublicFeedFetcher is the one-shot read of the shared public feed.
type PublicFeedFetcher interface {
	PublicFeed(ctx context.Context) ([]models.Event, error)
}

// Headcounts returns, for each listing id present in the visible set, how
// many distinct other users share a public event with that listing id. The
// viewer's own events never count. A feed failure yields an empty map.
func Headcounts(ctx context.Context, feed PublicFeedFetcher, selfUID string, visible []models.Event, log zerolog.Logger) map[string]int {
	wanted := make(map[string]struct{})
	for _, ev := range visible {
		if ev.ListingID != nil && *ev.ListingID != "" {
			wanted[*ev.ListingID] = struct{}{}
		}
	}

	counts := make(map[string]int)
	if len(wanted) == 0 {
		return counts
	}

	shared, err := feed.PublicFeed(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("headcount feed fetch failed")
		return counts
	}

	seen := make(map[string]map[string]struct{}) // listing id -> owner set
	for _, ev := range shared {
		if ev.ListingID == nil || ev.OwnerID == "" || ev.OwnerID == selfUID {
			continue
		}
		id := *ev.ListingID
		if _, ok := wanted[id]; !ok {
			continue
		}
		if seen[id] == nil {
			seen[id] = make(map[string]struct{})
		}
		seen[id][ev.OwnerID] = struct{}{}
	}

	for id, owners := range seen {
		counts[id] = len(owners)
	}
	return counts
}
