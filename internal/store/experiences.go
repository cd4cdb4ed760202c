package store

import (
	"context"
	"fmt"

	"showbill/internal/models"
)

// InsertExperience stores the annotation and returns it with the assigned id.
func (s *Store) InsertExperience(ctx context.Context, exp models.Experience) (models.Experience, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO experiences (title, event_id, note, photo)
		VALUES (?, ?, ?, ?)
	`, exp.Title, exp.EventID, exp.Note, exp.Photo)
	if err != nil {
		return models.Experience{}, fmt.Errorf("insert experience: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Experience{}, fmt.Errorf("experience id: %w", err)
	}
	exp.ID = id

	return exp, nil
}

// DeleteExperience removes the annotation by id. Absent ids are a no-op.
func (s *Store) DeleteExperience(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM experiences
		WHERE id = ?
	`, id); err != nil {
		return fmt.Errorf("delete experience: %w", err)
	}
	return nil
}

// ListExperiences returns all annotations, newest first.
func (s *Store) ListExperiences(ctx context.Context) ([]models.Experience, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, event_id, note, photo
		FROM experiences
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("select experiences: %w", err)
	}
	defer rows.Close()

	var experiences []models.Experience
	for rows.Next() {
		var exp models.Experience
		if err := rows.Scan(&exp.ID, &exp.Title, &exp.EventID, &exp.Note, &exp.Photo); err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		experiences = append(experiences, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate experiences: %w", err)
	}

	return experiences, nil
}
