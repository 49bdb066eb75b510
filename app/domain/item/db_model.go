package item

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PriceHistoryEntry struct {
	Price float64   `bson:"price" json:"price"`
	Date  time.Time `bson:"date" json:"date"`
}

type RetailerLink struct {
	Name string `bson:"name" json:"name"`
	URL  string `bson:"url" json:"url"`

	CurrentPrice *float64   `bson:"current_price" json:"current_price"`
	PriceDropped bool       `bson:"price_dropped" json:"price_dropped"`
	LastChecked  *time.Time `bson:"last_checked" json:"last_checked"`

	AffiliateEnabled bool   `bson:"affiliate_enabled" json:"-"`
	AffiliateURL     string `bson:"affiliate_url" json:"-"`
	AffiliateProgram string `bson:"affiliate_program" json:"-"`
}

type DBModel struct {
	ID primitive.ObjectID `bson:"_id,omitempty"`

	Title       string `bson:"title"`
	Description string `bson:"description"`

	RedditID         string     `bson:"reddit_id"`
	RedditURL        string     `bson:"reddit_url"`
	RedditScore      int        `bson:"reddit_score"`
	RedditComments   int        `bson:"reddit_comments"`
	RedditPostedDate *time.Time `bson:"reddit_posted_date"`

	Category string `bson:"category"`
	ImageURL string `bson:"image_url"`

	CurrentPrice  *float64            `bson:"current_price"`
	Currency      string              `bson:"currency"`
	PriceHistory  []PriceHistoryEntry `bson:"price_history"`
	RetailerLinks []RetailerLink      `bson:"retailer_links"`

	Subscribers []string `bson:"subscribers"`
	IsOnSale    bool     `bson:"is_on_sale"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}
