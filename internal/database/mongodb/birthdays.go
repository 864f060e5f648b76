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

// BirthdayRepository implements birthday.Repository.
type BirthdayRepository struct {
	coll *mongo.Collection
}

func createBirthdayIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "discord_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create birthday indexes: %w", err)
	}
	return nil
}

func (r *BirthdayRepository) Upsert(ctx context.Context, rec domain.BirthdayRecord) error {
	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"discord_id": rec.DiscordID},
		rec,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *BirthdayRepository) Due(ctx context.Context, now time.Time) ([]domain.BirthdayRecord, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"next_date": bson.M{"$lte": now}})
	if err != nil {
		return nil, err
	}

	var due []domain.BirthdayRecord
	if err := cursor.All(ctx, &due); err != nil {
		return nil, err
	}
	return due, nil
}

func (r *BirthdayRepository) Advance(ctx context.Context, discordID string, to time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"discord_id": discordID},
		bson.M{"$set": bson.M{"next_date": to}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrBirthdayNotFound
	}
	return nil
}

func (r *BirthdayRepository) Delete(ctx context.Context, discordID string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"discord_id": discordID})
	return err
}
