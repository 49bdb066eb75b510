package alert

import (
	"context"

	"github.com/wgparish/buy-it-for-life-tracker/app/common"
	"github.com/wgparish/buy-it-for-life-tracker/app/common/rest/auth"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/item"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/user"
)

var defaultNotificationChannels = []string{"email"}

type alertStore interface {
	Insert(ctx context.Context, model *DBModel) (string, error)
	GetByUserAndItem(ctx context.Context, userID, itemID string) (*DBModel, error)
	FindByUser(ctx context.Context, userID string) ([]DBModel, error)
	Update(ctx context.Context, alertID, userID string, dto *UpdateDTO) (*DBModel, error)
	Delete(ctx context.Context, userID, itemID string) error
}

type itemSubscriptions interface {
	GetByID(ctx context.Context, id string) (*item.DBModel, error)
	FindByIDs(ctx context.Context, ids []string) ([]*item.DBModel, error)
	AddSubscriber(ctx context.Context, itemID, userID string) error
	RemoveSubscriber(ctx context.Context, itemID, userID string) error
}

type userAccounts interface {
	GetOrCreate(ctx context.Context, auth0UserID, email, name, picture string) (*user.DBModel, error)
	AddItem(ctx context.Context, auth0UserID, itemID string) error
	RemoveItem(ctx context.Context, auth0UserID, itemID string) error
}

type Service struct {
	repository        alertStore
	itemSubscriptions itemSubscriptions
	userAccounts      userAccounts
}

func NewService(
	repository alertStore,
	itemSubscriptions itemSubscriptions,
	userAccounts userAccounts,
) *Service {
	return &Service{
		repository:        repository,
		itemSubscriptions: itemSubscriptions,
		userAccounts:      userAccounts,
	}
}

// Subscribe creates a price alert and registers the subscription on both the
// item and the user documents. The user record is upserted from the token
// claims so that subscribing works even before the first profile sync.
func (s *Service) Subscribe(ctx context.Context, claims *auth.Claims, dto *SubscribeDTO) (*DBModel, error) {
	userID := claims.UserID()

	if _, err := s.userAccounts.GetOrCreate(ctx, userID, claims.Email, claims.Name, claims.Picture); err != nil {
		return nil, err
	}

	if _, err := s.itemSubscriptions.GetByID(ctx, dto.ItemID); err != nil {
		return nil, err
	}

	existingAlert, err := s.repository.GetByUserAndItem(ctx, userID, dto.ItemID)
	if err != nil {
		return nil, err
	}

	if existingAlert != nil {
		return nil, common.NewClientSideError("Already subscribed to this item")
	}

	notificationChannels := dto.NotificationChannels
	if len(notificationChannels) == 0 {
		notificationChannels = defaultNotificationChannels
	}

	model := &DBModel{
		UserID:               userID,
		ItemID:               dto.ItemID,
		PriceThreshold:       dto.PriceThreshold,
		PriceDropPercentage:  dto.PriceDropPercentage,
		IsActive:             true,
		NotificationChannels: notificationChannels,
	}

	if _, err := s.repository.Insert(ctx, model); err != nil {
		return nil, err
	}

	if err := s.itemSubscriptions.AddSubscriber(ctx, dto.ItemID, userID); err != nil {
		return nil, err
	}

	if err := s.userAccounts.AddItem(ctx, userID, dto.ItemID); err != nil {
		return nil, err
	}

	return model, nil
}

func (s *Service) Unsubscribe(ctx context.Context, userID, itemID string) error {
	existingAlert, err := s.repository.GetByUserAndItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	if existingAlert == nil {
		return common.NewNotFoundError("Subscription not found")
	}

	if err := s.repository.Delete(ctx, userID, itemID); err != nil {
		return err
	}

	if err := s.itemSubscriptions.RemoveSubscriber(ctx, itemID, userID); err != nil {
		return err
	}

	return s.userAccounts.RemoveItem(ctx, userID, itemID)
}

func (s *Service) UserAlerts(ctx context.Context, userID string, includeItems bool) ([]WithItem, error) {
	alerts, err := s.repository.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]WithItem, 0, len(alerts))

	if !includeItems {
		for _, alertModel := range alerts {
			result = append(result, WithItem{DBModel: alertModel})
		}

		return result, nil
	}

	itemIDs := make([]string, 0, len(alerts))
	for _, alertModel := range alerts {
		itemIDs = append(itemIDs, alertModel.ItemID)
	}

	items, err := s.itemSubscriptions.FindByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	itemsByID := make(map[string]*item.DBModel, len(items))
	for _, itemModel := range items {
		itemsByID[itemModel.ID.Hex()] = itemModel
	}

	for _, alertModel := range alerts {
		result = append(result, WithItem{
			DBModel: alertModel,
			Item:    itemsByID[alertModel.ItemID],
		})
	}

	return result, nil
}

func (s *Service) UpdateAlert(ctx context.Context, alertID, userID string, dto *UpdateDTO) (*DBModel, error) {
	return s.repository.Update(ctx, alertID, userID, dto)
}

// CheckSubscription reports whether the user watches the item, returning the
// alert when one exists.
func (s *Service) CheckSubscription(ctx context.Context, userID, itemID string) (*DBModel, error) {
	return s.repository.GetByUserAndItem(ctx, userID, itemID)
}
