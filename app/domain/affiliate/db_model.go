package affiliate

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Click is one tracked pass through the affiliate redirect.
type Click struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrackingID       string             `bson:"tracking_id" json:"tracking_id"`
	UserID           string             `bson:"user_id,omitempty" json:"user_id,omitempty"`
	ItemID           string             `bson:"item_id" json:"item_id"`
	Retailer         string             `bson:"retailer" json:"retailer"`
	AffiliateProgram string             `bson:"affiliate_program" json:"affiliate_program"`
	Timestamp        time.Time          `bson:"timestamp" json:"timestamp"`
	Referrer         string             `bson:"referrer,omitempty" json:"referrer,omitempty"`
	UserAgent        string             `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	IPAddress        string             `bson:"ip_address,omitempty" json:"-"`

	Converted           bool       `bson:"converted" json:"converted"`
	Revenue             *float64   `bson:"revenue,omitempty" json:"revenue,omitempty"`
	ConversionTimestamp *time.Time `bson:"conversion_timestamp,omitempty" json:"conversion_timestamp,omitempty"`
}
