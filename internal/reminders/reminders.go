// Package reminders schedules one-time show reminders, tagged by event id.
package reminders

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"showbill/internal/models"
)

// DefaultLead is how long before the show the reminder fires.
const DefaultLead = 2 * time.Hour

// ErrAlreadyStarted indicates the event is inside the lead window or past.
var ErrAlreadyStarted = errors.New("event starts too soon to remind")

// Reminder is what the notify callback receives when a timer fires.
type Reminder struct {
	EventID string
	Title   string
	Venue   string
	At      time.Time
}

// NotifyFunc delivers a due reminder to the platform notification facility.
type NotifyFunc func(Reminder)

// Scheduler owns the pending reminder timers. Scheduling an event id that is
// already pending replaces its timer.
type Scheduler struct {
	notify NotifyFunc
	lead   time.Duration
	now    func() time.Time
	log    zerolog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewScheduler creates a scheduler delivering through notify.
func NewScheduler(notify NotifyFunc, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		notify: notify,
		lead:   DefaultLead,
		now:    time.Now,
		log:    log,
		timers: make(map[string]*time.Timer),
	}
}

// Schedule arms a reminder for the event, lead time before its start.
func (s *Scheduler) Schedule(ev models.Event) error {
	start, err := eventStart(ev)
	if err != nil {
		return err
	}

	fireAt := start.Add(-s.lead)
	delay := fireAt.Sub(s.now())
	if delay <= 0 {
		return ErrAlreadyStarted
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.timers[ev.ID]; ok {
		old.Stop()
	}

	reminder := Reminder{EventID: ev.ID, Title: ev.Title, Venue: ev.Venue, At: fireAt}
	s.timers[ev.ID] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, ev.ID)
		s.mu.Unlock()
		s.notify(reminder)
	})

	s.log.Debug().Str("event_id", ev.ID).Time("fire_at", fireAt).Msg("reminder scheduled")
	return nil
}

// Cancel drops the pending reminder for the event id, if any.
func (s *Scheduler) Cancel(eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[eventID]; ok {
		t.Stop()
		delete(s.timers, eventID)
	}
}

// Stop cancels every pending reminder.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// eventStart combines the date with a best-effort parse of the free-text
// time field. An unusable time falls back to start of day.
func eventStart(ev models.Event) (time.Time, error) {
	day, err := ev.StartsAt()
	if err != nil {
		return time.Time{}, fmt.Errorf("event date: %w", err)
	}

	for _, layout := range []string{"15:04", "3:04 PM", "3:04PM", "3 PM"} {
		if t, err := time.Parse(layout, strings.TrimSpace(ev.Time)); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(),
				t.Hour(), t.Minute(), 0, 0, time.Local), nil
		}
	}

	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local), nil
}
