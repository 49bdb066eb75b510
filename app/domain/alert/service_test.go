package alert

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wgparish/buy-it-for-life-tracker/app/common"
	"github.com/wgparish/buy-it-for-life-tracker/app/common/rest/auth"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/item"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/user"
)

type fakeAlertStore struct {
	existing []*DBModel
	inserted []*DBModel
}

func (f *fakeAlertStore) Insert(_ context.Context, model *DBModel) (string, error) {
	model.ID = primitive.NewObjectID()
	f.inserted = append(f.inserted, model)

	return model.ID.Hex(), nil
}

func (f *fakeAlertStore) GetByUserAndItem(_ context.Context, userID, itemID string) (*DBModel, error) {
	for _, model := range f.existing {
		if model.UserID == userID && model.ItemID == itemID {
			return model, nil
		}
	}

	return nil, nil
}

func (f *fakeAlertStore) FindByUser(_ context.Context, userID string) ([]DBModel, error) {
	var models []DBModel

	for _, model := range f.existing {
		if model.UserID == userID {
			models = append(models, *model)
		}
	}

	return models, nil
}

func (f *fakeAlertStore) Update(_ context.Context, _, _ string, _ *UpdateDTO) (*DBModel, error) {
	return nil, common.NewNotFoundError("Alert not found")
}

func (f *fakeAlertStore) Delete(_ context.Context, userID, itemID string) error {
	for i, model := range f.existing {
		if model.UserID == userID && model.ItemID == itemID {
			f.existing = append(f.existing[:i], f.existing[i+1:]...)
			return nil
		}
	}

	return nil
}

type fakeItemSubscriptions struct {
	items       map[string]*item.DBModel
	subscribers map[string][]string
}

func (f *fakeItemSubscriptions) GetByID(_ context.Context, id string) (*item.DBModel, error) {
	itemModel, ok := f.items[id]
	if !ok {
		return nil, common.NewNotFoundError("Item not found")
	}

	return itemModel, nil
}

func (f *fakeItemSubscriptions) FindByIDs(_ context.Context, ids []string) ([]*item.DBModel, error) {
	models := make([]*item.DBModel, 0, len(ids))

	for _, id := range ids {
		if itemModel, ok := f.items[id]; ok {
			models = append(models, itemModel)
		}
	}

	return models, nil
}

func (f *fakeItemSubscriptions) AddSubscriber(_ context.Context, itemID, userID string) error {
	f.subscribers[itemID] = append(f.subscribers[itemID], userID)
	return nil
}

func (f *fakeItemSubscriptions) RemoveSubscriber(_ context.Context, itemID, userID string) error {
	remaining := f.subscribers[itemID][:0]

	for _, subscriber := range f.subscribers[itemID] {
		if subscriber != userID {
			remaining = append(remaining, subscriber)
		}
	}

	f.subscribers[itemID] = remaining

	return nil
}

type fakeUserAccounts struct {
	upserted    []user.DBModel
	itemsByUser map[string][]string
}

func (f *fakeUserAccounts) GetOrCreate(_ context.Context, auth0UserID, email, name, picture string) (*user.DBModel, error) {
	model := user.DBModel{
		Auth0ID: auth0UserID,
		Email:   email,
		Name:    name,
		Picture: picture,
	}

	f.upserted = append(f.upserted, model)

	return &model, nil
}

func (f *fakeUserAccounts) AddItem(_ context.Context, auth0UserID, itemID string) error {
	f.itemsByUser[auth0UserID] = append(f.itemsByUser[auth0UserID], itemID)
	return nil
}

func (f *fakeUserAccounts) RemoveItem(_ context.Context, auth0UserID, itemID string) error {
	remaining := f.itemsByUser[auth0UserID][:0]

	for _, id := range f.itemsByUser[auth0UserID] {
		if id != itemID {
			remaining = append(remaining, id)
		}
	}

	f.itemsByUser[auth0UserID] = remaining

	return nil
}

func claimsForSubscriber() *auth.Claims {
	return &auth.Claims{
		Email:   "buyer@mail.com",
		Name:    "Buyer",
		Picture: "https://cdn.auth0.com/avatars/bu.png",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "auth0|subscriber",
		},
	}
}

func newTestService(itemID string) (*Service, *fakeAlertStore, *fakeItemSubscriptions, *fakeUserAccounts) {
	alertStore := &fakeAlertStore{}

	items := &fakeItemSubscriptions{
		items:       map[string]*item.DBModel{},
		subscribers: map[string][]string{},
	}

	if itemID != "" {
		objectID, _ := primitive.ObjectIDFromHex(itemID)
		items.items[itemID] = &item.DBModel{ID: objectID, Title: "Cast iron skillet"}
	}

	users := &fakeUserAccounts{itemsByUser: map[string][]string{}}

	return NewService(alertStore, items, users), alertStore, items, users
}

func TestSubscribeCreatesUserRecord(t *testing.T) {
	t.Parallel()

	itemID := primitive.NewObjectID().Hex()
	service, alertStore, items, users := newTestService(itemID)

	claims := claimsForSubscriber()

	model, err := service.Subscribe(context.Background(), claims, &SubscribeDTO{ItemID: itemID})
	require.NoError(t, err)

	// The subscriber may never have called the profile endpoint, so the user
	// record is created from the token claims during subscribe.
	require.Len(t, users.upserted, 1)
	assert.Equal(t, "auth0|subscriber", users.upserted[0].Auth0ID)
	assert.Equal(t, "buyer@mail.com", users.upserted[0].Email)
	assert.Equal(t, "Buyer", users.upserted[0].Name)

	require.Len(t, alertStore.inserted, 1)
	assert.Equal(t, "auth0|subscriber", model.UserID)
	assert.Equal(t, itemID, model.ItemID)
	assert.True(t, model.IsActive)
	assert.Equal(t, []string{"email"}, model.NotificationChannels)

	assert.Equal(t, []string{"auth0|subscriber"}, items.subscribers[itemID])
	assert.Equal(t, []string{itemID}, users.itemsByUser["auth0|subscriber"])
}

func TestSubscribeToUnknownItem(t *testing.T) {
	t.Parallel()

	service, alertStore, _, _ := newTestService("")

	_, err := service.Subscribe(context.Background(), claimsForSubscriber(), &SubscribeDTO{
		ItemID: primitive.NewObjectID().Hex(),
	})

	var notFoundError *common.NotFoundError
	require.ErrorAs(t, err, &notFoundError)
	assert.Empty(t, alertStore.inserted)
}

func TestSubscribeTwiceToSameItem(t *testing.T) {
	t.Parallel()

	itemID := primitive.NewObjectID().Hex()
	service, alertStore, _, _ := newTestService(itemID)

	claims := claimsForSubscriber()

	_, err := service.Subscribe(context.Background(), claims, &SubscribeDTO{ItemID: itemID})
	require.NoError(t, err)

	alertStore.existing = alertStore.inserted

	_, err = service.Subscribe(context.Background(), claims, &SubscribeDTO{ItemID: itemID})

	var clientSideError *common.ClientSideError
	require.ErrorAs(t, err, &clientSideError)
	assert.Len(t, alertStore.inserted, 1)
}

func TestUnsubscribeWithoutSubscription(t *testing.T) {
	t.Parallel()

	service, _, _, _ := newTestService("")

	err := service.Unsubscribe(context.Background(), "auth0|subscriber", primitive.NewObjectID().Hex())

	var notFoundError *common.NotFoundError
	require.ErrorAs(t, err, &notFoundError)
}
