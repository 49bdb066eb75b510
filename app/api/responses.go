package api

import (
	"time"

	"github.com/wgparish/buy-it-for-life-tracker/app/domain/alert"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/item"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/pricing"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/user"
)

type itemResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	RedditID         string     `json:"reddit_id"`
	RedditURL        string     `json:"reddit_url"`
	RedditScore      int        `json:"reddit_score"`
	RedditComments   int        `json:"reddit_comments"`
	RedditPostedDate *time.Time `json:"reddit_posted_date,omitempty"`

	Category string `json:"category"`
	ImageURL string `json:"image_url,omitempty"`

	CurrentPrice  *float64                 `json:"current_price"`
	Currency      string                   `json:"currency"`
	PriceHistory  []item.PriceHistoryEntry `json:"price_history"`
	RetailerLinks []item.RetailerLink      `json:"retailer_links"`

	SubscribersCount int  `json:"subscribers_count"`
	IsOnSale         bool `json:"is_on_sale"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toItemResponse(model *item.DBModel) itemResponse {
	priceHistory := model.PriceHistory
	if priceHistory == nil {
		priceHistory = []item.PriceHistoryEntry{}
	}

	retailerLinks := model.RetailerLinks
	if retailerLinks == nil {
		retailerLinks = []item.RetailerLink{}
	}

	return itemResponse{
		ID:               model.ID.Hex(),
		Title:            model.Title,
		Description:      model.Description,
		RedditID:         model.RedditID,
		RedditURL:        model.RedditURL,
		RedditScore:      model.RedditScore,
		RedditComments:   model.RedditComments,
		RedditPostedDate: model.RedditPostedDate,
		Category:         model.Category,
		ImageURL:         model.ImageURL,
		CurrentPrice:     model.CurrentPrice,
		Currency:         model.Currency,
		PriceHistory:     priceHistory,
		RetailerLinks:    retailerLinks,
		SubscribersCount: len(model.Subscribers),
		IsOnSale:         model.IsOnSale,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func toItemResponses(models []*item.DBModel) []itemResponse {
	responses := make([]itemResponse, 0, len(models))

	for _, model := range models {
		responses = append(responses, toItemResponse(model))
	}

	return responses
}

type priceUpdateResponse struct {
	ID               string    `json:"id"`
	Retailer         string    `json:"retailer"`
	OldPrice         float64   `json:"old_price"`
	NewPrice         float64   `json:"new_price"`
	PercentageChange float64   `json:"percentage_change"`
	CreatedAt        time.Time `json:"created_at"`
}

func toPriceUpdateResponses(models []pricing.PriceUpdate) []priceUpdateResponse {
	responses := make([]priceUpdateResponse, 0, len(models))

	for _, model := range models {
		responses = append(responses, priceUpdateResponse{
			ID:               model.ID.Hex(),
			Retailer:         model.Retailer,
			OldPrice:         model.OldPrice,
			NewPrice:         model.NewPrice,
			PercentageChange: model.PercentageChange,
			CreatedAt:        model.CreatedAt,
		})
	}

	return responses
}

type itemDetailResponse struct {
	itemResponse
	RecentPriceUpdates []priceUpdateResponse `json:"recent_price_updates"`
}

type itemsListResponse struct {
	Items       []itemResponse `json:"items"`
	TotalItems  int64          `json:"total_items"`
	TotalPages  int            `json:"total_pages"`
	CurrentPage int            `json:"current_page"`
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

type redditRefreshResponse struct {
	NewItems     int `json:"new_items"`
	UpdatedItems int `json:"updated_items"`
}

type alertResponse struct {
	ID                   string        `json:"id"`
	UserID               string        `json:"user_id"`
	ItemID               string        `json:"item_id"`
	PriceThreshold       *float64      `json:"price_threshold,omitempty"`
	PriceDropPercentage  *float64      `json:"price_drop_percentage,omitempty"`
	IsActive             bool          `json:"is_active"`
	LastTriggered        *time.Time    `json:"last_triggered,omitempty"`
	NotificationChannels []string      `json:"notification_channels"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
	Item                 *itemResponse `json:"item,omitempty"`
}

func toAlertResponse(model *alert.DBModel) alertResponse {
	return alertResponse{
		ID:                   model.ID.Hex(),
		UserID:               model.UserID,
		ItemID:               model.ItemID,
		PriceThreshold:       model.PriceThreshold,
		PriceDropPercentage:  model.PriceDropPercentage,
		IsActive:             model.IsActive,
		LastTriggered:        model.LastTriggered,
		NotificationChannels: model.NotificationChannels,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	}
}

func toAlertWithItemResponse(model *alert.WithItem) alertResponse {
	response := toAlertResponse(&model.DBModel)

	if model.Item != nil {
		itemBody := toItemResponse(model.Item)
		response.Item = &itemBody
	}

	return response
}

type checkSubscriptionResponse struct {
	IsSubscribed bool           `json:"is_subscribed"`
	Alert        *alertResponse `json:"alert,omitempty"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type welcomeResponse struct {
	Message string `json:"message"`
}

type profileResponse struct {
	User          *user.DBModel `json:"user"`
	Scopes        []string      `json:"scopes"`
	EmailVerified bool          `json:"email_verified"`
}
