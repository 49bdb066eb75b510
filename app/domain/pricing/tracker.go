package pricing

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wgparish/buy-it-for-life-tracker/app/common/integration"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/alert"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/item"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/user"
)

type priceSource interface {
	FetchPrice(ctx context.Context, retailer, productURL string) (*float64, error)
}

type emailManager interface {
	SendPriceAlert(ctx context.Context, emailOfReceiver string, alert integration.PriceAlertEmail) error
}

type SweepResult struct {
	ItemsChecked int `json:"items_checked"`
	LinksChecked int `json:"links_checked"`
	PriceDrops   int `json:"price_drops"`
}

type Service struct {
	repository      *Repository
	itemRepository  *item.Repository
	alertRepository *alert.Repository
	userRepository  *user.Repository
	inMemoryStorage *InMemoryStorage
	priceSource     priceSource
	emailManager    emailManager
}

func NewService(
	repository *Repository,
	itemRepository *item.Repository,
	alertRepository *alert.Repository,
	userRepository *user.Repository,
	inMemoryStorage *InMemoryStorage,
	priceSource priceSource,
	emailManager emailManager,
) *Service {
	return &Service{
		repository:      repository,
		itemRepository:  itemRepository,
		alertRepository: alertRepository,
		userRepository:  userRepository,
		inMemoryStorage: inMemoryStorage,
		priceSource:     priceSource,
		emailManager:    emailManager,
	}
}

// RecentUpdates lists the latest recorded price drops for an item, newest
// first.
func (s *Service) RecentUpdates(ctx context.Context, itemID string, limit int) ([]PriceUpdate, error) {
	return s.repository.RecentByItem(ctx, itemID, limit)
}

// CheckAllPrices sweeps every item that carries retailer links. A failing
// item never aborts the sweep.
func (s *Service) CheckAllPrices(ctx context.Context) (*SweepResult, error) {
	items, err := s.itemRepository.FindWithRetailerLinks(ctx)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{}

	for _, model := range items {
		linksChecked, priceDrops, err := s.checkItem(ctx, model)
		if err != nil {
			log.Warn().
				Err(err).
				Str("item_id", model.ID.Hex()).
				Msg("price check failed for item")

			continue
		}

		result.ItemsChecked++
		result.LinksChecked += linksChecked
		result.PriceDrops += priceDrops
	}

	log.Info().
		Int("items_checked", result.ItemsChecked).
		Int("links_checked", result.LinksChecked).
		Int("price_drops", result.PriceDrops).
		Msg("finished price sweep")

	return result, nil
}

// CheckPriceForLink runs a single price check against one retailer link of an
// item and persists the outcome. It reports whether a price drop was found.
func (s *Service) CheckPriceForLink(ctx context.Context, itemID string, link item.RetailerLink) (bool, error) {
	model, err := s.itemRepository.GetByID(ctx, itemID)
	if err != nil {
		return false, err
	}

	linkIndex := -1

	for i := range model.RetailerLinks {
		if model.RetailerLinks[i].Name == link.Name && model.RetailerLinks[i].URL == link.URL {
			linkIndex = i

			break
		}
	}

	if linkIndex == -1 {
		return false, nil
	}

	dropped, err := s.refreshLink(ctx, model, linkIndex)
	if err != nil {
		return false, err
	}

	recomputeItemPricing(model)

	if err := s.itemRepository.Replace(ctx, model); err != nil {
		return false, err
	}

	return dropped, nil
}

func (s *Service) checkItem(ctx context.Context, model *item.DBModel) (linksChecked, priceDrops int, err error) {
	for i := range model.RetailerLinks {
		dropped, err := s.refreshLink(ctx, model, i)
		if err != nil {
			log.Debug().
				Err(err).
				Str("item_id", model.ID.Hex()).
				Str("retailer", model.RetailerLinks[i].Name).
				Msg("couldn't fetch price")

			continue
		}

		linksChecked++

		if dropped {
			priceDrops++
		}
	}

	recomputeItemPricing(model)

	if err := s.itemRepository.Replace(ctx, model); err != nil {
		return 0, 0, err
	}

	return linksChecked, priceDrops, nil
}

func (s *Service) refreshLink(ctx context.Context, model *item.DBModel, linkIndex int) (bool, error) {
	link := &model.RetailerLinks[linkIndex]

	newPrice, err := s.priceSource.FetchPrice(ctx, link.Name, link.URL)
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	link.LastChecked = &now

	if newPrice == nil {
		return false, nil
	}

	oldPrice := link.CurrentPrice
	link.CurrentPrice = newPrice

	if oldPrice == nil {
		model.PriceHistory = append(model.PriceHistory, item.PriceHistoryEntry{Price: *newPrice, Date: now})

		return false, nil
	}

	if *newPrice >= *oldPrice {
		link.PriceDropped = false

		return false, nil
	}

	percentageChange := (*oldPrice - *newPrice) / *oldPrice * 100
	link.PriceDropped = true

	model.PriceHistory = append(model.PriceHistory, item.PriceHistoryEntry{Price: *newPrice, Date: now})

	priceUpdate := &PriceUpdate{
		ItemID:           model.ID.Hex(),
		Retailer:         link.Name,
		OldPrice:         *oldPrice,
		NewPrice:         *newPrice,
		PercentageChange: percentageChange,
		UsersNotified:    []UserNotified{},
	}

	if _, err := s.repository.Insert(ctx, priceUpdate); err != nil {
		return false, err
	}

	s.notifySubscribers(ctx, model, link.Name, priceUpdate)

	return true, nil
}

// notifySubscribers delivers alert emails for one detected drop. Delivery
// problems are logged, never propagated: a broken mailbox must not fail the
// sweep.
func (s *Service) notifySubscribers(ctx context.Context, model *item.DBModel, retailer string, priceUpdate *PriceUpdate) {
	alerts, err := s.alertRepository.FindActiveByItem(ctx, model.ID.Hex())
	if err != nil {
		log.Warn().Err(err).Str("item_id", model.ID.Hex()).Msg("couldn't load alerts for item")

		return
	}

	triggeredAlerts := make([]alert.DBModel, 0, len(alerts))
	userIDs := make([]string, 0, len(alerts))

	for _, alertModel := range alerts {
		if !shouldTriggerAlert(&alertModel, priceUpdate.NewPrice, priceUpdate.PercentageChange) {
			continue
		}

		recentlyNotified, err := s.inMemoryStorage.WasRecentlyNotified(ctx, alertModel.UserID, priceUpdate.ItemID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", alertModel.UserID).Msg("couldn't check sent alert marker")
		}

		if recentlyNotified {
			continue
		}

		triggeredAlerts = append(triggeredAlerts, alertModel)
		userIDs = append(userIDs, alertModel.UserID)
	}

	if len(triggeredAlerts) == 0 {
		return
	}

	users, err := s.userRepository.UsersByAuth0IDs(ctx, userIDs)
	if err != nil {
		log.Warn().Err(err).Str("item_id", model.ID.Hex()).Msg("couldn't resolve subscriber emails")

		return
	}

	emailsByUserID := make(map[string]string, len(users))
	for _, userModel := range users {
		emailsByUserID[userModel.Auth0ID] = userModel.Email
	}

	alertEmail := integration.PriceAlertEmail{
		ItemID:           priceUpdate.ItemID,
		ItemTitle:        model.Title,
		Retailer:         retailer,
		OldPrice:         priceUpdate.OldPrice,
		NewPrice:         priceUpdate.NewPrice,
		PercentageChange: priceUpdate.PercentageChange,
	}

	for _, alertModel := range triggeredAlerts {
		emailOfReceiver := emailsByUserID[alertModel.UserID]
		if emailOfReceiver == "" {
			continue
		}

		if err := s.emailManager.SendPriceAlert(ctx, emailOfReceiver, alertEmail); err != nil {
			log.Warn().
				Err(err).
				Str("user_id", alertModel.UserID).
				Str("item_id", priceUpdate.ItemID).
				Msg("couldn't send price alert email")

			continue
		}

		if err := s.inMemoryStorage.MarkNotified(ctx, alertModel.UserID, priceUpdate.ItemID); err != nil {
			log.Warn().Err(err).Str("user_id", alertModel.UserID).Msg("couldn't store sent alert marker")
		}

		if err := s.repository.RecordNotification(ctx, priceUpdate.ID, alertModel.UserID); err != nil {
			log.Warn().Err(err).Str("user_id", alertModel.UserID).Msg("couldn't record sent notification")
		}

		if err := s.alertRepository.MarkTriggered(ctx, alertModel.ID); err != nil {
			log.Warn().Err(err).Str("alert_id", alertModel.ID.Hex()).Msg("couldn't mark alert as triggered")
		}
	}
}

// shouldTriggerAlert applies the subscription criteria to a detected drop.
// An alert without criteria fires on every drop.
func shouldTriggerAlert(alertModel *alert.DBModel, newPrice, percentageChange float64) bool {
	if alertModel.PriceThreshold == nil && alertModel.PriceDropPercentage == nil {
		return true
	}

	if alertModel.PriceThreshold != nil && newPrice <= *alertModel.PriceThreshold {
		return true
	}

	if alertModel.PriceDropPercentage != nil && percentageChange >= *alertModel.PriceDropPercentage {
		return true
	}

	return false
}

// recomputeItemPricing derives the item level price from its retailer links:
// the cheapest known link price wins, and the item is on sale while any link
// reports a drop.
func recomputeItemPricing(model *item.DBModel) {
	var cheapestPrice *float64

	onSale := false

	for i := range model.RetailerLinks {
		link := &model.RetailerLinks[i]

		if link.PriceDropped {
			onSale = true
		}

		if link.CurrentPrice == nil {
			continue
		}

		if cheapestPrice == nil || *link.CurrentPrice < *cheapestPrice {
			cheapestPrice = link.CurrentPrice
		}
	}

	model.CurrentPrice = cheapestPrice
	model.IsOnSale = onSale
}
