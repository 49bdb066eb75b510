package pricing

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserNotified struct {
	UserID string    `bson:"user_id" json:"user_id"`
	SentAt time.Time `bson:"sent_at" json:"sent_at"`
}

// PriceUpdate records a detected price drop and who was notified about it.
type PriceUpdate struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ItemID            string             `bson:"item_id" json:"item_id"`
	Retailer          string             `bson:"retailer" json:"retailer"`
	OldPrice          float64            `bson:"old_price" json:"old_price"`
	NewPrice          float64            `bson:"new_price" json:"new_price"`
	PercentageChange  float64            `bson:"percentage_change" json:"percentage_change"`
	NotificationsSent int                `bson:"notifications_sent" json:"notifications_sent"`
	UsersNotified     []UserNotified     `bson:"users_notified" json:"users_notified"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
}
