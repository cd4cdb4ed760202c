package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"showbill/internal/logging"
	"showbill/internal/models"
)

var eventColumns = []string{
	"id", "title", "venue", "date", "time", "seat", "price",
	"image_url", "user_images", "shared_images", "notes", "listing_id", "public",
	"liked_by", "owner_id", "owner_name", "owner_avatar",
}

const insertEventSQL = `
		INSERT OR REPLACE INTO events (id, title, venue, date, time, seat, price,
			image_url, user_images, shared_images, notes, listing_id, public,
			liked_by, owner_id, owner_name, owner_avatar)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

const selectEventsSQL = `
		SELECT id, title, venue, date, time, seat, price,
			image_url, user_images, shared_images, notes, listing_id, public,
			liked_by, owner_id, owner_name, owner_avatar
		FROM events
		ORDER BY date ASC
	`

func TestInsertEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db, logging.Nop())

	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs("e1", "Hamilton", "Victoria Palace", "2026-12-01", "19:30", "Stalls B12", 79.0,
			nil, `["img-a"]`, `[]`, "birthday trip", nil, false,
			`[]`, "u1", "Ada", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ev := models.Event{
		ID:         "e1",
		Title:      "Hamilton",
		Venue:      "Victoria Palace",
		Date:       "2026-12-01",
		Time:       "19:30",
		Seat:       "Stalls B12",
		Price:      79.0,
		UserImages: []string{"img-a"},
		Notes:      "birthday trip",
		OwnerID:    "u1",
		OwnerName:  "Ada",
	}
	if err := s.InsertEvent(context.Background(), ev); err != nil {
		t.Fatalf("InsertEvent error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteEventAbsentIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db, logging.Nop())

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM events
		WHERE id = ?
	`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteEvent(context.Background(), "missing"); err != nil {
		t.Fatalf("DeleteEvent error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListEventsDecodesLists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db, logging.Nop())

	rows := sqlmock.NewRows(eventColumns).
		AddRow("e1", "Hamilton", "Victoria Palace", "2026-12-01", "19:30", "B12", 79.0,
			nil, `["img-a","img-b"]`, `[]`, "", nil, true,
			`["u2","u3"]`, "u1", "Ada", nil).
		AddRow("e2", "Wicked", "Apollo", "2027-01-15", "", "", 45.5,
			nil, `[]`, `[]`, "", nil, false,
			`[]`, "u1", "Ada", nil)

	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL)).WillReturnRows(rows)

	events, err := s.ListEvents(context.Background())
	if err != nil {
		t.Fatalf("ListEvents error: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].ID != "e1" || events[1].ID != "e2" {
		t.Fatalf("unexpected order: %q, %q", events[0].ID, events[1].ID)
	}
	if len(events[0].UserImages) != 2 || events[0].UserImages[1] != "img-b" {
		t.Fatalf("user images not decoded: %v", events[0].UserImages)
	}
	if !events[0].LikedByContains("u3") {
		t.Fatalf("liked_by not decoded: %v", events[0].LikedBy)
	}
	if events[1].LikedBy != nil {
		t.Fatalf("expected empty liked_by to decode as nil, got %v", events[1].LikedBy)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWatchEventsEmitsOnMutation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db, logging.Nop())

	// Initial snapshot: empty.
	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL)).
		WillReturnRows(sqlmock.NewRows(eventColumns))

	// Insert, then the refresh the watcher triggers.
	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL)).
		WillReturnRows(sqlmock.NewRows(eventColumns).
			AddRow("e1", "Hamilton", "V", "2026-12-01", "", "", 79.0,
				nil, `[]`, `[]`, "", nil, false, `[]`, "u1", "", nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := s.WatchEvents(ctx)
	if err != nil {
		t.Fatalf("WatchEvents error: %v", err)
	}
	defer sub.Cancel()

	first := <-sub.C
	if len(first) != 0 {
		t.Fatalf("expected empty initial snapshot, got %d events", len(first))
	}

	if err := s.InsertEvent(ctx, models.Event{ID: "e1", Title: "Hamilton", Date: "2026-12-01", Price: 79.0, OwnerID: "u1"}); err != nil {
		t.Fatalf("InsertEvent error: %v", err)
	}

	select {
	case second := <-sub.C:
		if len(second) != 1 || second[0].ID != "e1" {
			t.Fatalf("unexpected snapshot after insert: %+v", second)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot emitted after insert")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
