// Package syncer fans single logical writes out to the local cache and, when
// a user is signed in, the cloud store. The two writes are not transactional:
// the local write lands first and a remote failure is logged and swallowed,
// leaving the local copy ahead until the next push of the same id. There is
// no retry queue and no reconciliation.
package syncer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"showbill/internal/models"
)

var (
	// ErrTitleRequired indicates a blank event title.
	ErrTitleRequired = errors.New("title is required")
	// ErrInvalidDate indicates the date is not a valid YYYY-MM-DD value.
	ErrInvalidDate = errors.New("date must be a valid YYYY-MM-DD value")
	// ErrNegativePrice indicates a price below zero.
	ErrNegativePrice = errors.New("price must not be negative")
	// ErrLikerRequired indicates a like toggle without a user id.
	ErrLikerRequired = errors.New("liker uid is required")
)

// LocalStore is the on-device cache the coordinator writes through to.
type LocalStore interface {
	InsertEvent(ctx context.Context, ev models.Event) error
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context) ([]models.Event, error)
	InsertExperience(ctx context.Context, exp models.Experience) (models.Experience, error)
	DeleteExperience(ctx context.Context, id int64) error
}

// CloudStore is the remote per-user document store.
type CloudStore interface {
	UploadEvent(ctx context.Context, uid string, ev models.Event) error
	DeleteEvent(ctx context.Context, uid, eventID string) error
	FetchEvents(ctx context.Context, uid string) ([]models.Event, error)
	UpdateEventLikes(ctx context.Context, ownerUID, eventID string, likedBy []string) error
	UploadExperience(ctx context.Context, uid string, exp models.Experience) error
	DeleteExperience(ctx context.Context, uid string, id int64) error
}

// Identity reports the currently signed-in user, if any.
type Identity interface {
	CurrentUID() (string, bool)
}

// Syncer coordinates dual writes across the two stores.
type Syncer struct {
	local    LocalStore
	cloud    CloudStore
	identity Identity
	log      zerolog.Logger
}

// New wires a coordinator from explicit store handles.
func New(local LocalStore, cloud CloudStore, identity Identity, log zerolog.Logger) *Syncer {
	return &Syncer{
		local:    local,
		cloud:    cloud,
		identity: identity,
		log:      log,
	}
}

func validateEvent(ev models.Event) error {
	if strings.TrimSpace(ev.Title) == "" {
		return ErrTitleRequired
	}
	if _, err := time.Parse(models.DateLayout, ev.Date); err != nil {
		return ErrInvalidDate
	}
	if ev.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// AddEvent validates and stores a new event. The id is assigned here when the
// caller did not source one externally; owner identity is stamped from the
// active session.
func (s *Syncer) AddEvent(ctx context.Context, ev models.Event) (models.Event, error) {
	if err := validateEvent(ev); err != nil {
		return models.Event{}, err
	}

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}

	uid, ok := s.identity.CurrentUID()
	if ok && ev.OwnerID == "" {
		ev.OwnerID = uid
	}

	if err := s.local.InsertEvent(ctx, ev); err != nil {
		return models.Event{}, err
	}

	if ok {
		if err := s.cloud.UploadEvent(ctx, uid, ev); err != nil {
			s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("cloud upload failed, local copy kept")
		}
	}

	return ev, nil
}

// DeleteEvent removes the event from both stores.
func (s *Syncer) DeleteEvent(ctx context.Context, ev models.Event) error {
	if err := s.local.DeleteEvent(ctx, ev.ID); err != nil {
		return err
	}

	if uid, ok := s.identity.CurrentUID(); ok {
		if err := s.cloud.DeleteEvent(ctx, uid, ev.ID); err != nil {
			s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("cloud delete failed")
		}
	}

	return nil
}

// SyncFromCloud pulls all remote events for the current user into the local
// cache, replacing by id. Local-only records are never removed; this is a
// pull/merge, not a mirror. Without a session it does nothing.
func (s *Syncer) SyncFromCloud(ctx context.Context) error {
	uid, ok := s.identity.CurrentUID()
	if !ok {
		return nil
	}

	events, err := s.cloud.FetchEvents(ctx, uid)
	if err != nil {
		s.log.Warn().Err(err).Msg("cloud fetch failed, keeping local state")
		return nil
	}

	for _, ev := range events {
		if err := s.local.InsertEvent(ctx, ev); err != nil {
			return err
		}
	}

	s.log.Debug().Int("count", len(events)).Msg("pulled events from cloud")
	return nil
}

// ToggleLike flips likerUID's membership in the event's liked-by set and
// persists the result. On the caller's own event both stores are updated; on
// another user's event only that owner's cloud document is touched.
func (s *Syncer) ToggleLike(ctx context.Context, ev models.Event, likerUID string) (models.Event, error) {
	if likerUID == "" {
		return models.Event{}, ErrLikerRequired
	}

	if ev.LikedByContains(likerUID) {
		kept := make([]string, 0, len(ev.LikedBy))
		for _, id := range ev.LikedBy {
			if id != likerUID {
				kept = append(kept, id)
			}
		}
		ev.LikedBy = kept
	} else {
		ev.LikedBy = append(ev.LikedBy, likerUID)
	}

	uid, _ := s.identity.CurrentUID()
	if ev.OwnerID != "" && ev.OwnerID != uid {
		if err := s.cloud.UpdateEventLikes(ctx, ev.OwnerID, ev.ID, ev.LikedBy); err != nil {
			s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("remote like update failed")
		}
		return ev, nil
	}

	if err := s.local.InsertEvent(ctx, ev); err != nil {
		return models.Event{}, err
	}
	if uid != "" {
		if err := s.cloud.UploadEvent(ctx, uid, ev); err != nil {
			s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("cloud upload failed, local copy kept")
		}
	}

	return ev, nil
}

// SetVisibility changes the event's public flag in both stores.
func (s *Syncer) SetVisibility(ctx context.Context, ev models.Event, public bool) (models.Event, error) {
	ev.Public = public

	if err := s.local.InsertEvent(ctx, ev); err != nil {
		return models.Event{}, err
	}

	if uid, ok := s.identity.CurrentUID(); ok {
		if err := s.cloud.UploadEvent(ctx, uid, ev); err != nil {
			s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("cloud upload failed, local copy kept")
		}
	}

	return ev, nil
}

// AddExperience stores the annotation locally and opportunistically uploads
// it under the current user.
func (s *Syncer) AddExperience(ctx context.Context, exp models.Experience) (models.Experience, error) {
	stored, err := s.local.InsertExperience(ctx, exp)
	if err != nil {
		return models.Experience{}, err
	}

	if uid, ok := s.identity.CurrentUID(); ok {
		if err := s.cloud.UploadExperience(ctx, uid, stored); err != nil {
			s.log.Warn().Err(err).Int64("experience_id", stored.ID).Msg("cloud upload failed")
		}
	}

	return stored, nil
}

// DeleteExperience removes the annotation from both stores.
func (s *Syncer) DeleteExperience(ctx context.Context, exp models.Experience) error {
	if err := s.local.DeleteExperience(ctx, exp.ID); err != nil {
		return err
	}

	if uid, ok := s.identity.CurrentUID(); ok {
		if err := s.cloud.DeleteExperience(ctx, uid, exp.ID); err != nil {
			s.log.Warn().Err(err).Int64("experience_id", exp.ID).Msg("cloud delete failed")
		}
	}

	return nil
}
