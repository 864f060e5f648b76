// Package mongodb implements the service repositories on top of MongoDB.
// The store is the sole arbiter of consistency: every read re-queries it and
// concurrent writes resolve last-write-wins.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// Collection names
const (
	collMembers   = "members"
	collRoleInfo  = "role_info"
	collBirthdays = "birthdays"
	collLastSeen  = "last_seen"
)

// Store wraps the Mongo client and hands out repositories.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB, verifies the connection and creates indexes.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.createIndexes(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) createIndexes(ctx context.Context) error {
	if err := createMemberIndexes(ctx, s.db.Collection(collMembers)); err != nil {
		return err
	}
	if err := createRoleInfoIndexes(ctx, s.db.Collection(collRoleInfo)); err != nil {
		return err
	}
	if err := createBirthdayIndexes(ctx, s.db.Collection(collBirthdays)); err != nil {
		return err
	}
	return createLastSeenIndexes(ctx, s.db.Collection(collLastSeen))
}

// Members returns the member repository.
func (s *Store) Members() *MemberRepository {
	return &MemberRepository{coll: s.db.Collection(collMembers)}
}

// Roles returns the role info repository.
func (s *Store) Roles() *RoleInfoRepository {
	return &RoleInfoRepository{coll: s.db.Collection(collRoleInfo)}
}

// Birthdays returns the birthday repository.
func (s *Store) Birthdays() *BirthdayRepository {
	return &BirthdayRepository{coll: s.db.Collection(collBirthdays)}
}

// LastSeen returns the last-seen repository.
func (s *Store) LastSeen() *LastSeenRepository {
	return &LastSeenRepository{coll: s.db.Collection(collLastSeen)}
}

// Ping checks the connection, used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
