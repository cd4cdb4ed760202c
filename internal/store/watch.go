package store

import (
	"context"
	"sync"

	"showbill/internal/models"
)

// Subscription delivers full event snapshots. The channel holds at most one
// pending snapshot; a consumer that falls behind sees the newest state, not
// every intermediate one.
type Subscription struct {
	C <-chan []models.Event

	ch   chan []models.Event
	once sync.Once
	w    *watcher
}

// Cancel detaches the subscription. Safe to call more than once.
func (sub *Subscription) Cancel() {
	sub.once.Do(func() {
		sub.w.remove(sub)
		close(sub.ch)
	})
}

// watcher owns the subscriber set and fans snapshots out to all of them.
type watcher struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func newWatcher() *watcher {
	return &watcher{subs: make(map[*Subscription]struct{})}
}

func (w *watcher) add(sub *Subscription) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.subs[sub] = struct{}{}
}

func (w *watcher) remove(sub *Subscription) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.subs, sub)
}

func (w *watcher) active() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.subs) > 0
}

func (w *watcher) broadcast(snapshot []models.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for sub := range w.subs {
		select {
		case sub.ch <- snapshot:
		default:
			// Replace the stale pending snapshot with the current one.
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- snapshot:
			default:
			}
		}
	}
}

// WatchEvents subscribes to the live event sequence. The current snapshot is
// delivered immediately, then a fresh one after every event mutation. The
// subscription is cancelled when ctx is done or Cancel is called.
func (s *Store) WatchEvents(ctx context.Context) (*Subscription, error) {
	snapshot, err := s.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	ch := make(chan []models.Event, 1)
	sub := &Subscription{C: ch, ch: ch, w: s.watcher}
	ch <- snapshot
	s.watcher.add(sub)

	go func() {
		<-ctx.Done()
		sub.Cancel()
	}()

	return sub, nil
}

// notifyEvents re-reads the table and pushes the snapshot to subscribers.
// Called after every event mutation; cheap when nobody is listening.
func (s *Store) notifyEvents(ctx context.Context) {
	if !s.watcher.active() {
		return
	}

	snapshot, err := s.ListEvents(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("event watch refresh failed")
		return
	}
	s.watcher.broadcast(snapshot)
}
