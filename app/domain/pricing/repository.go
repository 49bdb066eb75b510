package pricing

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultWaitingTimeoutMongo = 5 * time.Second

type Repository struct {
	priceUpdatesCollection *mongo.Collection
}

func NewRepository(priceUpdatesCollection *mongo.Collection) *Repository {
	return &Repository{
		priceUpdatesCollection: priceUpdatesCollection,
	}
}

func (r *Repository) Insert(ctx context.Context, model *PriceUpdate) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	model.CreatedAt = time.Now().UTC()

	result, err := r.priceUpdatesCollection.InsertOne(ctx, model)
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "couldn't insert price update")
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("unexpected type of inserted id")
	}

	model.ID = insertedID

	return insertedID, nil
}

func (r *Repository) RecordNotification(ctx context.Context, priceUpdateID primitive.ObjectID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	update := bson.M{
		"$inc":  bson.M{"notifications_sent": 1},
		"$push": bson.M{"users_notified": UserNotified{UserID: userID, SentAt: time.Now().UTC()}},
	}

	_, err := r.priceUpdatesCollection.UpdateOne(ctx, bson.M{"_id": priceUpdateID}, update)
	if err != nil {
		return errors.Wrap(err, "couldn't record sent notification")
	}

	return nil
}

func (r *Repository) RecentByItem(ctx context.Context, itemID string, limit int) ([]PriceUpdate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.priceUpdatesCollection.Find(ctx, bson.M{"item_id": itemID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't find price updates by item")
	}

	var models []PriceUpdate

	if err := cursor.All(ctx, &models); err != nil {
		return nil, errors.Wrap(err, "couldn't decode price updates")
	}

	return models, nil
}
