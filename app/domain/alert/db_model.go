package alert

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wgparish/buy-it-for-life-tracker/app/domain/item"
)

type DBModel struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID               string             `bson:"user_id" json:"user_id"`
	ItemID               string             `bson:"item_id" json:"item_id"`
	PriceThreshold       *float64           `bson:"price_threshold,omitempty" json:"price_threshold,omitempty"`
	PriceDropPercentage  *float64           `bson:"price_drop_percentage,omitempty" json:"price_drop_percentage,omitempty"`
	IsActive             bool               `bson:"is_active" json:"is_active"`
	LastTriggered        *time.Time         `bson:"last_triggered,omitempty" json:"last_triggered,omitempty"`
	NotificationChannels []string           `bson:"notification_channels" json:"notification_channels"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at" json:"updated_at"`
}

// WithItem pairs an alert with the item it watches for listing endpoints.
type WithItem struct {
	DBModel
	Item *item.DBModel `json:"item,omitempty"`
}
