package cloud

import (
	"context"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"showbill/internal/models"
)

// UploadExperience writes or overwrites the annotation document for uid.
func (s *Store) UploadExperience(ctx context.Context, uid string, exp models.Experience) error {
	if uid == "" {
		return nil
	}

	doc := experienceDoc{
		DocID:      docID(uid, strconv.FormatInt(exp.ID, 10)),
		UID:        uid,
		Experience: exp,
	}
	_, err := s.experiences.ReplaceOne(ctx,
		bson.M{"_id": doc.DocID},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upload experience %d: %w", exp.ID, err)
	}
	return nil
}

// DeleteExperience removes the annotation document for uid.
func (s *Store) DeleteExperience(ctx context.Context, uid string, id int64) error {
	if uid == "" {
		return nil
	}

	key := docID(uid, strconv.FormatInt(id, 10))
	if _, err := s.experiences.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("delete experience %d: %w", id, err)
	}
	return nil
}

// FetchExperiences returns all annotation documents owned by uid.
func (s *Store) FetchExperiences(ctx context.Context, uid string) ([]models.Experience, error) {
	if uid == "" {
		return nil, nil
	}

	cur, err := s.experiences.Find(ctx, bson.M{"uid": uid})
	if err != nil {
		return nil, fmt.Errorf("fetch experiences: %w", err)
	}
	defer cur.Close(ctx)

	var experiences []models.Experience
	for cur.Next(ctx) {
		var doc experienceDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode experience: %w", err)
		}
		experiences = append(experiences, doc.Experience)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate experiences: %w", err)
	}

	return experiences, nil
}
