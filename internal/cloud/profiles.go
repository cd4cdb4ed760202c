package cloud

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"showbill/internal/models"
)

// ErrProfileNotFound indicates no profile document exists for the uid.
var ErrProfileNotFound = errors.New("profile not found")

type profileDoc struct {
	DocID              string `bson:"_id"`
	models.UserProfile `bson:",inline"`
}

// SaveProfile writes or overwrites the caller's own profile document.
func (s *Store) SaveProfile(ctx context.Context, profile models.UserProfile) error {
	if profile.UID == "" {
		return nil
	}

	doc := profileDoc{DocID: profile.UID, UserProfile: profile}
	_, err := s.profiles.ReplaceOne(ctx,
		bson.M{"_id": doc.DocID},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// FetchProfile reads any user's profile document by uid.
func (s *Store) FetchProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	if uid == "" {
		return nil, nil
	}

	var doc profileDoc
	err := s.profiles.FindOne(ctx, bson.M{"_id": uid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	return &doc.UserProfile, nil
}
