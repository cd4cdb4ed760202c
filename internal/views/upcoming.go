// Package views holds the read-side projections derived from the local
// store's live stream and the one-shot cloud/listing fetches. Nothing here
// mutates underlying data.
package views

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"showbill/internal/models"
	"showbill/internal/store"
)

// DefaultUpcomingLimit caps the upcoming-events projection.
const DefaultUpcomingLimit = 10

// UpcomingOf filters events to those dated today or later, sorted by date
// ascending and truncated to limit. Events with unparseable dates are
// excluded since they cannot be ordered.
func UpcomingOf(events []models.Event, today time.Time, limit int) []models.Event {
	// ISO dates order lexically, so the whole comparison stays in string space.
	cutoff := today.Format(models.DateLayout)

	var upcoming []models.Event
	for _, ev := range events {
		if _, err := ev.StartsAt(); err != nil {
			continue
		}
		if ev.Date >= cutoff {
			upcoming = append(upcoming, ev)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Date < upcoming[j].Date
	})

	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}

// Upcoming maintains the upcoming-events projection over the store's live
// stream, recomputing whenever the source emits.
type Upcoming struct {
	limit   int
	now     func() time.Time
	sub     *store.Subscription
	log     zerolog.Logger
	updates chan []models.Event

	mu      sync.RWMutex
	current []models.Event
}

// NewUpcoming subscribes to the store and starts tracking. The projection is
// torn down when ctx is done or Close is called.
func NewUpcoming(ctx context.Context, st *store.Store, log zerolog.Logger) (*Upcoming, error) {
	sub, err := st.WatchEvents(ctx)
	if err != nil {
		return nil, err
	}

	u := &Upcoming{
		limit:   DefaultUpcomingLimit,
		now:     time.Now,
		sub:     sub,
		log:     log,
		updates: make(chan []models.Event, 1),
	}

	go u.run()
	return u, nil
}

func (u *Upcoming) run() {
	defer close(u.updates)
	for snapshot := range u.sub.C {
		projection := UpcomingOf(snapshot, u.now(), u.limit)

		u.mu.Lock()
		u.current = projection
		u.mu.Unlock()

		select {
		case u.updates <- projection:
		default:
			select {
			case <-u.updates:
			default:
			}
			select {
			case u.updates <- projection:
			default:
			}
		}
	}
}

// Snapshot returns the current projection.
func (u *Upcoming) Snapshot() []models.Event {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.current
}

// Updates delivers recomputed projections, newest-wins buffering.
func (u *Upcoming) Updates() <-chan []models.Event {
	return u.updates
}

// Close cancels the underlying subscription.
func (u *Upcoming) Close() {
	u.sub.Cancel()
}
