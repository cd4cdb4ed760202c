package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"showbill/internal/logging"
	"showbill/internal/models"
)

func TestInsertExperienceAssignsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db, logging.Nop())

	note := "front row!"
	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO experiences (title, event_id, note, photo)
		VALUES (?, ?, ?, ?)
	`)).
		WithArgs("Stage door", "e1", "front row!", nil).
		WillReturnResult(sqlmock.NewResult(7, 1))

	exp, err := s.InsertExperience(context.Background(), models.Experience{
		Title:   "Stage door",
		EventID: "e1",
		Note:    &note,
	})
	if err != nil {
		t.Fatalf("InsertExperience error: %v", err)
	}

	if exp.ID != 7 {
		t.Fatalf("expected assigned id 7, got %d", exp.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListExperiences(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db, logging.Nop())

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, title, event_id, note, photo
		FROM experiences
		ORDER BY id DESC
	`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "event_id", "note", "photo"}).
			AddRow(int64(2), "Interval drinks", "e1", nil, nil).
			AddRow(int64(1), "Stage door", "e1", "front row!", nil))

	experiences, err := s.ListExperiences(context.Background())
	if err != nil {
		t.Fatalf("ListExperiences error: %v", err)
	}

	if len(experiences) != 2 {
		t.Fatalf("expected 2 experiences, got %d", len(experiences))
	}
	if experiences[0].ID != 2 || experiences[1].ID != 1 {
		t.Fatalf("unexpected order: %d, %d", experiences[0].ID, experiences[1].ID)
	}
	if experiences[1].Note == nil || *experiences[1].Note != "front row!" {
		t.Fatalf("note not decoded: %v", experiences[1].Note)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
