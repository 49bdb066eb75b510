package item

import (
	"context"
	"regexp"
	"sort"
	"strings"
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
	itemsCollection *mongo.Collection
}

func NewRepository(itemsCollection *mongo.Collection) *Repository {
	return &Repository{
		itemsCollection: itemsCollection,
	}
}

func (r *Repository) Insert(ctx context.Context, model *DBModel) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	now := time.Now().UTC()
	model.CreatedAt = now
	model.UpdatedAt = now

	result, err := r.itemsCollection.InsertOne(ctx, model)
	if err != nil {
		return "", errors.Wrap(err, "error occurred while inserting new item into storage")
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("unexpected type of inserted item id")
	}

	model.ID = insertedID

	return insertedID.Hex(), nil
}

// sortDirectionFor treats any value other than "desc" as ascending.
func sortDirectionFor(sortOrder string) int {
	if strings.EqualFold(sortOrder, "desc") {
		return -1
	}

	return 1
}

func (r *Repository) List(ctx context.Context, dto *ListItemsDTO) ([]*DBModel, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	filter := bson.M{}

	if dto.Search != "" {
		searchRegex := primitive.Regex{Pattern: regexp.QuoteMeta(dto.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": searchRegex}},
			bson.M{"description": bson.M{"$regex": searchRegex}},
		}
	}

	if dto.Category != "" {
		filter["category"] = dto.Category
	}

	sortDirection := sortDirectionFor(dto.SortOrder)

	skip := int64((dto.Page - 1) * dto.Limit)

	findOptions := options.Find().
		SetSort(bson.D{{Key: dto.SortBy, Value: sortDirection}}).
		SetSkip(skip).
		SetLimit(int64(dto.Limit))

	cursor, err := r.itemsCollection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, errors.Wrap(err, "error occurred while listing items")
	}

	var models []*DBModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, 0, errors.Wrap(err, "error occurred while decoding items")
	}

	total, err := r.itemsCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "error occurred while counting items")
	}

	return models, total, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*DBModel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.NewNotFoundError("Item not found")
	}

	var model DBModel

	err = r.itemsCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&model)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.NewNotFoundError("Item not found")
		}

		return nil, errors.Wrap(err, "error occurred while reading item from storage")
	}

	return &model, nil
}

func (r *Repository) GetByRedditID(ctx context.Context, redditID string) (*DBModel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	var model DBModel

	err := r.itemsCollection.FindOne(ctx, bson.M{"reddit_id": redditID}).Decode(&model)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "error occurred while reading item by reddit id")
	}

	return &model, nil
}

func (r *Repository) FindByIDs(ctx context.Context, ids []string) ([]*DBModel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	objectIDs := make([]primitive.ObjectID, 0, len(ids))

	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}

		objectIDs = append(objectIDs, objectID)
	}

	cursor, err := r.itemsCollection.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, errors.Wrap(err, "error occurred while reading items by ids")
	}

	var models []*DBModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, errors.Wrap(err, "error occurred while decoding items")
	}

	return models, nil
}

func (r *Repository) FindOnSale(ctx context.Context) ([]*DBModel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	cursor, err := r.itemsCollection.Find(ctx, bson.M{"is_on_sale": true})
	if err != nil {
		return nil, errors.Wrap(err, "error occurred while reading items on sale")
	}

	var models []*DBModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, errors.Wrap(err, "error occurred while decoding items")
	}

	return models, nil
}

// FindWithRetailerLinks returns the items the price sweep has to visit.
func (r *Repository) FindWithRetailerLinks(ctx context.Context) ([]*DBModel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	filter := bson.M{"retailer_links.0": bson.M{"$exists": true}}

	cursor, err := r.itemsCollection.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "error occurred while reading items with retailer links")
	}

	var models []*DBModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, errors.Wrap(err, "error occurred while decoding items")
	}

	return models, nil
}

func (r *Repository) DistinctCategories(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	rawCategories, err := r.itemsCollection.Distinct(ctx, "category", bson.M{"category": bson.M{"$ne": ""}})
	if err != nil {
		return nil, errors.Wrap(err, "error occurred while reading distinct categories")
	}

	categories := make([]string, 0, len(rawCategories))

	for _, rawCategory := range rawCategories {
		if category, ok := rawCategory.(string); ok {
			categories = append(categories, category)
		}
	}

	sort.Strings(categories)

	return categories, nil
}

func (r *Repository) UpdateRedditStats(ctx context.Context, id string, score, comments int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "reddit_score", Value: score},
			{Key: "reddit_comments", Value: comments},
			{Key: "updated_at", Value: time.Now()},
		}},
	}

	if _, err := r.itemsCollection.UpdateByID(ctx, mustObjectID(id), update); err != nil {
		return errors.Wrap(err, "error occurred while updating reddit stats of item")
	}

	return nil
}

// Replace persists the whole document; the price sweep and the affiliate
// link backfill both mutate nested arrays.
func (r *Repository) Replace(ctx context.Context, model *DBModel) error {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	model.UpdatedAt = time.Now()

	if _, err := r.itemsCollection.ReplaceOne(ctx, bson.M{"_id": model.ID}, model); err != nil {
		return errors.Wrap(err, "error occurred while replacing item in storage")
	}

	return nil
}

func (r *Repository) AddSubscriber(ctx context.Context, itemID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	update := bson.M{"$addToSet": bson.M{"subscribers": userID}}

	if _, err := r.itemsCollection.UpdateByID(ctx, mustObjectID(itemID), update); err != nil {
		return errors.Wrap(err, "error occurred while adding subscriber to item")
	}

	return nil
}

func (r *Repository) RemoveSubscriber(ctx context.Context, itemID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultWaitingTimeoutMongo)
	defer cancel()

	update := bson.M{"$pull": bson.M{"subscribers": userID}}

	if _, err := r.itemsCollection.UpdateByID(ctx, mustObjectID(itemID), update); err != nil {
		return errors.Wrap(err, "error occurred while removing subscriber from item")
	}

	return nil
}

func mustObjectID(id string) primitive.ObjectID {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID
	}

	return objectID
}
