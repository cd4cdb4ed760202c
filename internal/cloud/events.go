package cloud

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"showbill/internal/models"
)

// UploadEvent writes or overwrites the event document for uid.
func (s *Store) UploadEvent(ctx context.Context, uid string, ev models.Event) error {
	if uid == "" {
		return nil
	}

	doc := eventDoc{DocID: docID(uid, ev.ID), UID: uid, Event: ev}
	_, err := s.events.ReplaceOne(ctx,
		bson.M{"_id": doc.DocID},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upload event %s: %w", ev.ID, err)
	}
	return nil
}

// DeleteEvent removes the event document for uid. Absent documents are a no-op.
func (s *Store) DeleteEvent(ctx context.Context, uid, eventID string) error {
	if uid == "" {
		return nil
	}

	if _, err := s.events.DeleteOne(ctx, bson.M{"_id": docID(uid, eventID)}); err != nil {
		return fmt.Errorf("delete event %s: %w", eventID, err)
	}
	return nil
}

// FetchEvents returns all event documents owned by uid.
func (s *Store) FetchEvents(ctx context.Context, uid string) ([]models.Event, error) {
	if uid == "" {
		return nil, nil
	}

	cur, err := s.events.Find(ctx, bson.M{"uid": uid})
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	return decodeEvents(ctx, cur)
}

// UpdateEventLikes overwrites the liked-by set of one event document. Used
// when liking an event owned by another user, where a full upload would
// clobber fields the liker does not control.
func (s *Store) UpdateEventLikes(ctx context.Context, ownerUID, eventID string, likedBy []string) error {
	if ownerUID == "" {
		return nil
	}
	if likedBy == nil {
		likedBy = []string{}
	}

	_, err := s.events.UpdateOne(ctx,
		bson.M{"_id": docID(ownerUID, eventID)},
		bson.M{"$set": bson.M{"liked_by": likedBy}})
	if err != nil {
		return fmt.Errorf("update likes for %s: %w", eventID, err)
	}
	return nil
}
