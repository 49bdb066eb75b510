package depcontainer

import (
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wgparish/buy-it-for-life-tracker/app/common/config"
	"github.com/wgparish/buy-it-for-life-tracker/app/common/integration"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/affiliate"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/alert"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/item"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/pricing"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/user"
)

// DepContainer wires repositories, integrations and services together once,
// at startup.
type DepContainer struct {
	ItemService      *item.Service
	UserService      *user.Service
	AlertService     *alert.Service
	PricingService   *pricing.Service
	AffiliateService *affiliate.Service
}

func NewDepContainer(
	globalConfig config.Config,
	mongoClient *mongo.Client,
	redisClient *redis.Client,
) (*DepContainer, error) {
	database := mongoClient.Database(globalConfig.Database.DatabaseName)

	itemRepository := item.NewRepository(database.Collection(integration.NameOfItemsCollection))
	userRepository := user.NewRepository(database.Collection(integration.NameOfUsersCollection))
	alertRepository := alert.NewRepository(database.Collection(integration.NameOfAlertsCollection))
	pricingRepository := pricing.NewRepository(database.Collection(integration.NameOfPriceUpdatesCollection))
	affiliateRepository := affiliate.NewRepository(database.Collection(integration.NameOfAffiliateClicksCollection))

	redditClient, err := integration.NewRedditClient(globalConfig.Reddit)
	if err != nil {
		return nil, err
	}

	emailManager := integration.NewEmailManager(globalConfig)
	linkGenerator := affiliate.NewLinkGenerator(globalConfig.Affiliate)

	pricingService := pricing.NewService(
		pricingRepository,
		itemRepository,
		alertRepository,
		userRepository,
		pricing.NewInMemoryStorage(redisClient),
		pricing.NewScraper(),
		emailManager,
	)

	itemService := item.NewService(
		itemRepository,
		item.NewInMemoryStorage(redisClient),
		redditClient,
		pricingService,
		linkGenerator,
		userRepository,
	)

	return &DepContainer{
		ItemService:      itemService,
		UserService:      user.NewService(userRepository),
		AlertService:     alert.NewService(alertRepository, itemRepository, userRepository),
		PricingService:   pricingService,
		AffiliateService: affiliate.NewService(affiliateRepository, itemRepository, linkGenerator),
	}, nil
}
