package rest

type SubscribeRequest struct {
	ItemID               string   `json:"item_id" validate:"required,objectid"`
	PriceThreshold       *float64 `json:"price_threshold,omitempty" validate:"omitempty,gt=0"`
	PriceDropPercentage  *float64 `json:"price_drop_percentage,omitempty" validate:"omitempty,gt=0,lte=100"`
	NotificationChannels []string `json:"notification_channels,omitempty" validate:"omitempty,dive,oneof=email"`
}

type UpdateAlertRequest struct {
	PriceThreshold       *float64 `json:"price_threshold,omitempty" validate:"omitempty,gt=0"`
	PriceDropPercentage  *float64 `json:"price_drop_percentage,omitempty" validate:"omitempty,gt=0,lte=100"`
	IsActive             *bool    `json:"is_active,omitempty"`
	NotificationChannels []string `json:"notification_channels,omitempty" validate:"omitempty,dive,oneof=email"`
}

type ConversionRequest struct {
	Revenue *float64 `json:"revenue,omitempty" validate:"omitempty,gte=0"`
}
