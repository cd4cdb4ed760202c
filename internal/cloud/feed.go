package cloud

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"showbill/internal/models"
)

// PublicFeed returns all events with the visibility flag set, across all users.
func (s *Store) PublicFeed(ctx context.Context) ([]models.Event, error) {
	cur, err := s.events.Find(ctx, bson.M{"public": true})
	if err != nil {
		return nil, fmt.Errorf("fetch public feed: %w", err)
	}
	return decodeEvents(ctx, cur)
}

// FeedSubscription delivers public-feed snapshots. Like the local store's
// watch channel it holds at most one pending snapshot.
type FeedSubscription struct {
	C <-chan []models.Event

	ch     chan []models.Event
	cancel context.CancelFunc
	once   sync.Once
}

// Cancel stops the subscription and closes the channel.
func (sub *FeedSubscription) Cancel() {
	sub.once.Do(func() {
		sub.cancel()
	})
}

// WatchPublicFeed emits the current public feed, then a fresh snapshot every
// time the change stream reports a write to the events collection. A stream
// failure ends the subscription quietly; the last delivered snapshot stands.
func (s *Store) WatchPublicFeed(ctx context.Context) (*FeedSubscription, error) {
	snapshot, err := s.PublicFeed(ctx)
	if err != nil {
		return nil, err
	}

	streamCtx, cancel := context.WithCancel(ctx)

	stream, err := s.events.Watch(streamCtx, bson.A{},
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watch events: %w", err)
	}

	ch := make(chan []models.Event, 1)
	sub := &FeedSubscription{C: ch, ch: ch, cancel: cancel}
	ch <- snapshot

	go func() {
		defer close(ch)
		defer stream.Close(context.Background())

		for stream.Next(streamCtx) {
			snapshot, err := s.PublicFeed(streamCtx)
			if err != nil {
				s.log.Warn().Err(err).Msg("public feed refresh failed")
				continue
			}
			select {
			case ch <- snapshot:
			default:
				select {
				case <-ch:
				default:
				}
				select {
				case ch <- snapshot:
				default:
				}
			}
		}
		if err := stream.Err(); err != nil && streamCtx.Err() == nil {
			s.log.Warn().Err(err).Msg("public feed stream ended")
		}
	}()

	return sub, nil
}
