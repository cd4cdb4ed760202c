package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"showbill/internal/models"
)

// InsertEvent writes the event, replacing any existing row with the same id.
func (s *Store) InsertEvent(ctx context.Context, ev models.Event) error {
	userImages, err := marshalList(ev.UserImages)
	if err != nil {
		return fmt.Errorf("encode user images: %w", err)
	}
	sharedImages, err := marshalList(ev.SharedImages)
	if err != nil {
		return fmt.Errorf("encode shared images: %w", err)
	}
	likedBy, err := marshalList(ev.LikedBy)
	if err != nil {
		return fmt.Errorf("encode liked by: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO events (id, title, venue, date, time, seat, price,
			image_url, user_images, shared_images, notes, listing_id, public,
			liked_by, owner_id, owner_name, owner_avatar)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ev.ID, ev.Title, ev.Venue, ev.Date, ev.Time, ev.Seat, ev.Price,
		ev.ImageURL, userImages, sharedImages, ev.Notes, ev.ListingID, ev.Public,
		likedBy, ev.OwnerID, ev.OwnerName, ev.OwnerAvatar)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	s.notifyEvents(ctx)
	return nil
}

// DeleteEvent removes the event by id. Deleting an absent id is a no-op.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM events
		WHERE id = ?
	`, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	s.notifyEvents(ctx)
	return nil
}

// ListEvents returns all cached events ordered by date ascending.
func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, venue, date, time, seat, price,
			image_url, user_images, shared_images, notes, listing_id, public,
			liked_by, owner_id, owner_name, owner_avatar
		FROM events
		ORDER BY date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

func scanEvent(rows *sql.Rows) (models.Event, error) {
	var (
		ev           models.Event
		userImages   string
		sharedImages string
		likedBy      string
	)
	err := rows.Scan(
		&ev.ID, &ev.Title, &ev.Venue, &ev.Date, &ev.Time, &ev.Seat, &ev.Price,
		&ev.ImageURL, &userImages, &sharedImages, &ev.Notes, &ev.ListingID, &ev.Public,
		&likedBy, &ev.OwnerID, &ev.OwnerName, &ev.OwnerAvatar,
	)
	if err != nil {
		return models.Event{}, fmt.Errorf("scan event: %w", err)
	}

	if ev.UserImages, err = unmarshalList(userImages); err != nil {
		return models.Event{}, fmt.Errorf("decode user images: %w", err)
	}
	if ev.SharedImages, err = unmarshalList(sharedImages); err != nil {
		return models.Event{}, fmt.Errorf("decode shared images: %w", err)
	}
	if ev.LikedBy, err = unmarshalList(likedBy); err != nil {
		return models.Event{}, fmt.Errorf("decode liked by: %w", err)
	}

	return ev, nil
}

func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalList(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list, nil
}
