package user

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wgparish/buy-it-for-life-tracker/app/common"
)

const defaultWaitingTimeoutMongo = 5 * time.Second

type Repository struct {
	usersCollection *mongo.Collection
}

func NewRepository(usersCollection *mongo.Collection) *Repository {
	return &Repository{
		usersCollection: usersCollection,
	}
}

// GetOrCreate upserts a user record keyed by the Auth0 subject and bumps
// last_login on every call.
func (r *Repository) GetOrCreate(ctx context.Context, auth0UserID, email, name, picture string) (*DBModel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	now := time.Now().UTC()

	filter := bson.M{"auth0_id": auth0UserID}
	update := bson.M{
		"$set": bson.M{
			"email":      email,
			"name":       name,
			"picture":    picture,
			"last_login": now,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"auth0_id":   auth0UserID,
			"items":      []string{},
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var model DBModel

	err := r.usersCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&model)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't upsert user")
	}

	return &model, nil
}

func (r *Repository) GetByAuth0ID(ctx context.Context, auth0UserID string) (*DBModel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	var model DBModel

	err := r.usersCollection.FindOne(ctx, bson.M{"auth0_id": auth0UserID}).Decode(&model)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.NewNotFoundError("User not found")
		}

		return nil, errors.Wrap(err, "couldn't find user by auth0 id")
	}

	return &model, nil
}

// ItemIDsOfUser returns an empty slice for unknown users so that callers can
// render an empty list instead of failing.
func (r *Repository) ItemIDsOfUser(ctx context.Context, auth0UserID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	var model DBModel

	err := r.usersCollection.FindOne(ctx, bson.M{"auth0_id": auth0UserID}).Decode(&model)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []string{}, nil
		}

		return nil, errors.Wrap(err, "couldn't find user by auth0 id")
	}

	return model.Items, nil
}

func (r *Repository) AddItem(ctx context.Context, auth0UserID, itemID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	update := bson.M{
		"$addToSet": bson.M{"items": itemID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}

	_, err := r.usersCollection.UpdateOne(ctx, bson.M{"auth0_id": auth0UserID}, update)
	if err != nil {
		return errors.Wrap(err, "couldn't add item to user")
	}

	return nil
}

func (r *Repository) RemoveItem(ctx context.Context, auth0UserID, itemID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	update := bson.M{
		"$pull": bson.M{"items": itemID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	_, err := r.usersCollection.UpdateOne(ctx, bson.M{"auth0_id": auth0UserID}, update)
	if err != nil {
		return errors.Wrap(err, "couldn't remove item from user")
	}

	return nil
}

// UsersByAuth0IDs resolves email addresses for notification delivery.
func (r *Repository) UsersByAuth0IDs(ctx context.Context, auth0UserIDs []string) ([]DBModel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	cursor, err := r.usersCollection.Find(ctx, bson.M{"auth0_id": bson.M{"$in": auth0UserIDs}})
	if err != nil {
		return nil, errors.Wrap(err, "couldn't find users by auth0 ids")
	}

	var models []DBModel

	if err := cursor.All(ctx, &models); err != nil {
		return nil, errors.Wrap(err, "couldn't decode users")
	}

	return models, nil
}
