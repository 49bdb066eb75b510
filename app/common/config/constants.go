package config

const (
	MongoDBURI   = "MONGODB_URI"
	DatabaseName = "DATABASE_NAME"

	Port        = "PORT"
	FrontendURL = "FRONTEND_URL"

	Auth0Domain       = "AUTH0_DOMAIN"
	Auth0APIAudience  = "AUTH0_API_AUDIENCE"
	Auth0ClientID     = "AUTH0_CLIENT_ID"
	Auth0ClientSecret = "AUTH0_CLIENT_SECRET" //nolint:gosec

	RedditClientID     = "REDDIT_CLIENT_ID"
	RedditClientSecret = "REDDIT_CLIENT_SECRET" //nolint:gosec
	RedditUserAgent    = "REDDIT_USER_AGENT"
	RedditUsername     = "REDDIT_USERNAME"
	RedditPassword     = "REDDIT_PASSWORD" //nolint:gosec

	EmailHost     = "EMAIL_HOST"
	EmailPort     = "EMAIL_PORT"
	EmailUsername = "EMAIL_USERNAME"
	EmailPassword = "EMAIL_PASSWORD" //nolint:gosec
	EmailFrom     = "EMAIL_FROM"
	EmailFromName = "EMAIL_FROM_NAME"

	LogLevel = "LOG_LEVEL"

	RedisHost     = "REDIS_HOST"
	RedisPort     = "REDIS_PORT"
	RedisPassword = "REDIS_PASSWORD" //nolint:gosec

	AmazonAssociateID  = "AMAZON_ASSOCIATE_ID"
	WalmartAffiliateID = "WALMART_AFFILIATE_ID"
	TargetAffiliateID  = "TARGET_AFFILIATE_ID"
	BestBuyAffiliateID = "BEST_BUY_AFFILIATE_ID"
	EbayAffiliateID    = "EBAY_AFFILIATE_ID"
)
