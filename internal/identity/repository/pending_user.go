package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	identityerrors "rentwheels/internal/identity/errors"
	"rentwheels/pkg/config"
	"rentwheels/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	PendingCollectionName = "pending_users"
)

// PendingUserRepository stages registrations awaiting email verification.
// A TTL index on expires_at removes abandoned records, but lookups still
// filter on the expiry because the TTL monitor only runs periodically.
type PendingUserRepository interface {
	Create(ctx context.Context, pending *model.PendingUser) error
	FindByEmail(ctx context.Context, email string) (*model.PendingUser, error)
	FindByToken(ctx context.Context, token string) (*model.PendingUser, error)
	DeleteByEmail(ctx context.Context, email string) error
	Delete(ctx context.Context, id string) error
}

type mongoPendingUserRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoPendingUserRepository(cfg *config.Config) PendingUserRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPendingUserRepository{
		cfg:        cfg,
		collection: db.Collection(PendingCollectionName),
	}
}

func (r *mongoPendingUserRepository) Create(ctx context.Context, pending *model.PendingUser) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	pending.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, pending)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return identityerrors.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create pending user: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		pending.ID = oid.Hex()
	}
	return nil
}

func (r *mongoPendingUserRepository) FindByEmail(ctx context.Context, email string) (*model.PendingUser, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var pending model.PendingUser
	err := r.collection.FindOne(ctx, bson.M{
		"email":      email,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&pending)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, identityerrors.ErrPendingNotFound
		}
		return nil, fmt.Errorf("failed to find pending user by email: %w", err)
	}

	return &pending, nil
}

func (r *mongoPendingUserRepository) FindByToken(ctx context.Context, token string) (*model.PendingUser, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var pending model.PendingUser
	err := r.collection.FindOne(ctx, bson.M{
		"verification_token": token,
		"expires_at":         bson.M{"$gt": time.Now().UTC()},
	}).Decode(&pending)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, identityerrors.ErrPendingNotFound
		}
		return nil, fmt.Errorf("failed to find pending user by token: %w", err)
	}

	return &pending, nil
}

func (r *mongoPendingUserRepository) DeleteByEmail(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return fmt.Errorf("failed to delete pending user by email: %w", err)
	}
	return nil
}

func (r *mongoPendingUserRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", identityerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete pending user: %w", err)
	}
	if result.DeletedCount == 0 {
		return identityerrors.ErrPendingNotFound
	}
	return nil
}
