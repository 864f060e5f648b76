package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aou-community/aubot/internal/domain"
)

// LastSeenRepository implements inactivity.Repository.
type LastSeenRepository struct {
	coll *mongo.Collection
}

func createLastSeenIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "discord_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create last_seen indexes: %w", err)
	}
	return nil
}

// Touch records fresh activity and clears any pending notice.
func (r *LastSeenRepository) Touch(ctx context.Context, discordID string, at time.Time) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"discord_id": discordID},
		bson.M{"$set": bson.M{"last_seen": at, "notified": false}},
		options.Update().SetUpsert(true),
	)
	return err
}

// Seed creates a record only when none exists, so backfills never move a
// fresher timestamp backwards.
func (r *LastSeenRepository) Seed(ctx context.Context, discordID string, at time.Time) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"discord_id": discordID},
		bson.M{"$setOnInsert": bson.M{"last_seen": at, "notified": false}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *LastSeenRepository) InactiveSince(ctx context.Context, before time.Time, onlyUnnotified bool) ([]domain.LastSeen, error) {
	filter := bson.M{"last_seen": bson.M{"$lte": before}}
	if onlyUnnotified {
		filter["notified"] = false
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	var records []domain.LastSeen
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *LastSeenRepository) MarkNotified(ctx context.Context, discordIDs []string) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"discord_id": bson.M{"$in": discordIDs}},
		bson.M{"$set": bson.M{"notified": true}},
	)
	return err
}

func (r *LastSeenRepository) Delete(ctx context.Context, discordID string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"discord_id": discordID})
	return err
}
