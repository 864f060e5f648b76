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

// RoleInfoRepository implements roleinfo.Repository.
type RoleInfoRepository struct {
	coll *mongo.Collection
}

func createRoleInfoIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "role_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create role_info indexes: %w", err)
	}
	return nil
}

// Upsert refreshes name and color. The description is only written when the
// role is first seen so manual descriptions survive role edits.
func (r *RoleInfoRepository) Upsert(ctx context.Context, role domain.RoleInfo) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"role_id": role.RoleID},
		bson.M{
			"$set":         bson.M{"name": role.Name, "color": role.Color},
			"$setOnInsert": bson.M{"description": domain.DefaultRoleDescription},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *RoleInfoRepository) SetDescription(ctx context.Context, roleID, description string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"role_id": roleID},
		bson.M{"$set": bson.M{"description": description}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

func (r *RoleInfoRepository) Delete(ctx context.Context, roleID string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"role_id": roleID})
	return err
}

func (r *RoleInfoRepository) Get(ctx context.Context, roleID string) (*domain.RoleInfo, error) {
	var role domain.RoleInfo
	err := r.coll.FindOne(ctx, bson.M{"role_id": roleID}).Decode(&role)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrRoleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleInfoRepository) All(ctx context.Context) ([]domain.RoleInfo, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var roles []domain.RoleInfo
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}
