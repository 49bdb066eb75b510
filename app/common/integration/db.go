package integration

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wgparish/buy-it-for-life-tracker/app/common/config"
)

const (
	NameOfItemsCollection           = "items"
	NameOfUsersCollection           = "users"
	NameOfAlertsCollection          = "alerts"
	NameOfPriceUpdatesCollection    = "price_updates"
	NameOfAffiliateClicksCollection = "affiliate_clicks"
)

func NewMongoConnection(ctx context.Context, dbConfig config.DatabaseConfig) (*mongo.Client, error) {
	mongoClientOptions := options.Client().
		SetConnectTimeout(20 * time.Second).
		ApplyURI(dbConfig.URI)

	mongoClient, err := mongo.Connect(ctx, mongoClientOptions)
	if err != nil {
		return nil, err
	}

	if err = mongoClient.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "error occurred while pinging Mongo DB")
	}

	return mongoClient, nil
}
