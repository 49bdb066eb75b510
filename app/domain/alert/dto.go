package alert

type SubscribeDTO struct {
	ItemID               string
	PriceThreshold       *float64
	PriceDropPercentage  *float64
	NotificationChannels []string
}

type UpdateDTO struct {
	PriceThreshold       *float64
	PriceDropPercentage  *float64
	IsActive             *bool
	NotificationChannels []string
}
