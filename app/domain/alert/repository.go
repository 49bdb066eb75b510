package alert

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wgparish/buy-it-for-life-tracker/app/common"
)

const defaultWaitingTimeoutMongo = 5 * time.Second

type Repository struct {
	alertsCollection *mongo.Collection
}

func NewRepository(alertsCollection *mongo.Collection) *Repository {
	return &Repository{
		alertsCollection: alertsCollection,
	}
}

func (r *Repository) Insert(ctx context.Context, model *DBModel) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	now := time.Now().UTC()
	model.CreatedAt = now
	model.UpdatedAt = now

	result, err := r.alertsCollection.InsertOne(ctx, model)
	if err != nil {
		return "", errors.Wrap(err, "couldn't insert alert")
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("unexpected type of inserted id")
	}

	model.ID = insertedID

	return insertedID.Hex(), nil
}

// GetByUserAndItem returns nil without an error when no subscription exists.
func (r *Repository) GetByUserAndItem(ctx context.Context, userID, itemID string) (*DBModel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	var model DBModel

	err := r.alertsCollection.FindOne(ctx, bson.M{"user_id": userID, "item_id": itemID}).Decode(&model)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "couldn't find alert by user and item")
	}

	return &model, nil
}

func (r *Repository) FindByUser(ctx context.Context, userID string) ([]DBModel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	cursor, err := r.alertsCollection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, errors.Wrap(err, "couldn't find alerts by user")
	}

	var models []DBModel

	if err := cursor.All(ctx, &models); err != nil {
		return nil, errors.Wrap(err, "couldn't decode alerts")
	}

	return models, nil
}

func (r *Repository) FindActiveByItem(ctx context.Context, itemID string) ([]DBModel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	cursor, err := r.alertsCollection.Find(ctx, bson.M{"item_id": itemID, "is_active": true})
	if err != nil {
		return nil, errors.Wrap(err, "couldn't find active alerts by item")
	}

	var models []DBModel

	if err := cursor.All(ctx, &models); err != nil {
		return nil, errors.Wrap(err, "couldn't decode alerts")
	}

	return models, nil
}

// Update is scoped to the owning user so that alerts of other users stay
// unreachable even with a known alert id.
func (r *Repository) Update(ctx context.Context, alertID, userID string, dto *UpdateDTO) (*DBModel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(alertID)
	if err != nil {
		return nil, common.NewNotFoundError("Alert not found")
	}

	fields := bson.M{"updated_at": time.Now().UTC()}

	if dto.PriceThreshold != nil {
		fields["price_threshold"] = *dto.PriceThreshold
	}

	if dto.PriceDropPercentage != nil {
		fields["price_drop_percentage"] = *dto.PriceDropPercentage
	}

	if dto.IsActive != nil {
		fields["is_active"] = *dto.IsActive
	}

	if dto.NotificationChannels != nil {
		fields["notification_channels"] = dto.NotificationChannels
	}

	filter := bson.M{"_id": objectID, "user_id": userID}

	result := r.alertsCollection.FindOneAndUpdate(
		ctx,
		filter,
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var model DBModel

	if err := result.Decode(&model); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.NewNotFoundError("Alert not found")
		}

		return nil, errors.Wrap(err, "couldn't update alert")
	}

	return &model, nil
}

func (r *Repository) Delete(ctx context.Context, userID, itemID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	_, err := r.alertsCollection.DeleteOne(ctx, bson.M{"user_id": userID, "item_id": itemID})
	if err != nil {
		return errors.Wrap(err, "couldn't delete alert")
	}

	return nil
}

func (r *Repository) MarkTriggered(ctx context.Context, alertID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"last_triggered": time.Now().UTC(),
		"updated_at":     time.Now().UTC(),
	}}

	_, err := r.alertsCollection.UpdateOne(ctx, bson.M{"_id": alertID}, update)
	if err != nil {
		return errors.Wrap(err, "couldn't mark alert as triggered")
	}

	return nil
}
