package affiliate

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

type PopularItem struct {
	ItemID string `bson:"_id" json:"item_id"`

	Clicks      int     `bson:"clicks" json:"clicks"`
	Conversions int     `bson:"conversions" json:"conversions"`
	Revenue     float64 `bson:"revenue" json:"revenue"`
}

type Repository struct {
	clicksCollection *mongo.Collection
}

func NewRepository(clicksCollection *mongo.Collection) *Repository {
	return &Repository{
		clicksCollection: clicksCollection,
	}
}

func (r *Repository) Insert(ctx context.Context, click *Click) error {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	if _, err := r.clicksCollection.InsertOne(ctx, click); err != nil {
		return errors.Wrap(err, "couldn't insert affiliate click")
	}

	return nil
}

func (r *Repository) UpdateConversion(ctx context.Context, trackingID string, revenue *float64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	fields := bson.M{
		"converted":            true,
		"conversion_timestamp": time.Now().UTC(),
	}

	if revenue != nil {
		fields["revenue"] = *revenue
	}

	result, err := r.clicksCollection.UpdateOne(ctx, bson.M{"tracking_id": trackingID}, bson.M{"$set": fields})
	if err != nil {
		return errors.Wrap(err, "couldn't update conversion")
	}

	if result.MatchedCount == 0 {
		return common.NewNotFoundError("Click not found")
	}

	return nil
}

func (r *Repository) FindInPeriod(ctx context.Context, periodStart, periodEnd time.Time) ([]Click, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	filter := bson.M{"timestamp": bson.M{"$gte": periodStart, "$lte": periodEnd}}

	cursor, err := r.clicksCollection.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't find clicks in period")
	}

	var clicks []Click

	if err := cursor.All(ctx, &clicks); err != nil {
		return nil, errors.Wrap(err, "couldn't decode clicks")
	}

	return clicks, nil
}

// PopularItems aggregates click counts per item since the given time.
func (r *Repository) PopularItems(ctx context.Context, since time.Time, limit int) ([]PopularItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"timestamp": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":    "$item_id",
			"clicks": bson.M{"$sum": 1},
			"conversions": bson.M{"$sum": bson.M{
				"$cond": bson.A{"$converted", 1, 0},
			}},
			"revenue": bson.M{"$sum": bson.M{"$ifNull": bson.A{"$revenue", 0}}},
		}}},
		{{Key: "$sort", Value: bson.M{"clicks": -1}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.clicksCollection.Aggregate(ctx, pipeline, options.Aggregate())
	if err != nil {
		return nil, errors.Wrap(err, "couldn't aggregate popular items")
	}

	var popularItems []PopularItem

	if err := cursor.All(ctx, &popularItems); err != nil {
		return nil, errors.Wrap(err, "couldn't decode popular items")
	}

	return popularItems, nil
}
