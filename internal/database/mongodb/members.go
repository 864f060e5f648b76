package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aou-community/aubot/internal/domain"
)

// MemberRepository implements registry.Repository.
type MemberRepository struct {
	coll *mongo.Collection
}

func createMemberIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "twitch_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Sparse so unlinked records don't collide on a missing field.
			Keys:    bson.D{{Key: "discord_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create member indexes: %w", err)
	}
	return nil
}

func (r *MemberRepository) Insert(ctx context.Context, m *domain.Member) error {
	_, err := r.coll.InsertOne(ctx, m)
	if mongo.IsDuplicateKeyError(err) {
		// Lost a registration race; the conflict check passed before the
		// other write landed.
		return fmt.Errorf("%w: concurrent registration", domain.ErrAccountClaimed)
	}
	return err
}

func (r *MemberRepository) findOne(ctx context.Context, filter bson.M) (*domain.Member, error) {
	var m domain.Member
	err := r.coll.FindOne(ctx, filter).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) FindByTwitchID(ctx context.Context, id int64) (*domain.Member, error) {
	return r.findOne(ctx, bson.M{"twitch_id": id})
}

func (r *MemberRepository) FindByDiscordID(ctx context.Context, id string) (*domain.Member, error) {
	return r.findOne(ctx, bson.M{"discord_id": id})
}

func (r *MemberRepository) FindByTwitchLogin(ctx context.Context, login string) (*domain.Member, error) {
	return r.findOne(ctx, bson.M{"twitch_login": login})
}

func (r *MemberRepository) updateOne(ctx context.Context, filter, update bson.M) error {
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) AttachDiscord(ctx context.Context, twitchID int64, discordID, discordName string) error {
	return r.updateOne(ctx,
		bson.M{"twitch_id": twitchID},
		bson.M{"$set": bson.M{"discord_id": discordID, "discord_name": discordName}},
	)
}

func (r *MemberRepository) OverwriteTwitch(ctx context.Context, discordID string, twitchID int64, twitchLogin string) error {
	// Points always reset when the twitch identity changes hands.
	return r.updateOne(ctx,
		bson.M{"discord_id": discordID},
		bson.M{"$set": bson.M{
			"twitch_id":    twitchID,
			"twitch_login": twitchLogin,
			"points":       int64(0),
		}},
	)
}

func (r *MemberRepository) SetDiscordIdentity(ctx context.Context, discordID, newID, newName string) error {
	return r.updateOne(ctx,
		bson.M{"discord_id": discordID},
		bson.M{"$set": bson.M{"discord_id": newID, "discord_name": newName}},
	)
}

func (r *MemberRepository) Delete(ctx context.Context, discordID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"discord_id": discordID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) SetAdmin(ctx context.Context, discordID string, isAdmin bool) error {
	return r.updateOne(ctx,
		bson.M{"discord_id": discordID},
		bson.M{"$set": bson.M{"is_admin": isAdmin}},
	)
}

// SyncAdminFlags makes is_admin equal current role membership on every linked
// record: true for ids in adminIDs, false for everyone else.
func (r *MemberRepository) SyncAdminFlags(ctx context.Context, adminIDs []string) error {
	if adminIDs == nil {
		adminIDs = []string{}
	}

	_, err := r.coll.UpdateMany(ctx,
		bson.M{"discord_id": bson.M{"$in": adminIDs}},
		bson.M{"$set": bson.M{"is_admin": true}},
	)
	if err != nil {
		return err
	}

	_, err = r.coll.UpdateMany(ctx,
		bson.M{"discord_id": bson.M{"$exists": true, "$nin": adminIDs}},
		bson.M{"$set": bson.M{"is_admin": false}},
	)
	return err
}

func (r *MemberRepository) SetDisplayName(ctx context.Context, discordID, name string) error {
	return r.updateOne(ctx,
		bson.M{"discord_id": discordID},
		bson.M{"$set": bson.M{"discord_name": name}},
	)
}

func (r *MemberRepository) SetStream(ctx context.Context, discordID string, stream *domain.StreamInfo) error {
	update := bson.M{"$unset": bson.M{"stream": ""}}
	if stream != nil {
		update = bson.M{"$set": bson.M{"stream": stream}}
	}
	return r.updateOne(ctx, bson.M{"discord_id": discordID}, update)
}

func (r *MemberRepository) Top(ctx context.Context, limit int) ([]domain.Member, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "points", Value: -1}, {Key: "twitch_id", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	var members []domain.Member
	if err := cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *MemberRepository) All(ctx context.Context) ([]domain.Member, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "points", Value: -1}, {Key: "twitch_id", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	var members []domain.Member
	if err := cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}
