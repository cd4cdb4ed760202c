// Package cloud is the remote per-user document store. Every method takes the
// owning identity explicitly; with an empty uid the write/read degrades to a
// silent no-op so unauthenticated sessions never touch the network.
package cloud

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"showbill/internal/models"
)

const databaseName = "showbill"

// Store wraps the remote document collections.
type Store struct {
	events      *mongo.Collection
	experiences *mongo.Collection
	profiles    *mongo.Collection
	log         zerolog.Logger
}

// New sets up a Store using the provided client handle.
func New(client *mongo.Client, log zerolog.Logger) *Store {
	db := client.Database(databaseName)
	return &Store{
		events:      db.Collection("events"),
		experiences: db.Collection("experiences"),
		profiles:    db.Collection("profiles"),
		log:         log,
	}
}

// docID builds the document key, mirroring a users/{uid}/... path scheme.
func docID(uid, id string) string {
	return fmt.Sprintf("%s/%s", uid, id)
}

type eventDoc struct {
	DocID        string `bson:"_id"`
	UID          string `bson:"uid"`
	models.Event `bson:",inline"`
}

type experienceDoc struct {
	DocID             string `bson:"_id"`
	UID               string `bson:"uid"`
	models.Experience `bson:",inline"`
}

func decodeEvents(ctx context.Context, cur *mongo.Cursor) ([]models.Event, error) {
	defer cur.Close(ctx)

	var events []models.Event
	for cur.Next(ctx) {
		var doc eventDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		events = append(events, doc.Event)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}
