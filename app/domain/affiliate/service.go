package affiliate

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wgparish/buy-it-for-life-tracker/app/common"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/item"
)

const (
	defaultStatsPeriodDays  = 30
	defaultPopularItemsDays = 30
)

// ClickContext carries the request metadata recorded with a tracked click.
type ClickContext struct {
	UserID    string
	Referrer  string
	UserAgent string
	IPAddress string
}

type RetailerStats struct {
	Clicks         int     `json:"clicks"`
	Conversions    int     `json:"conversions"`
	Revenue        float64 `json:"revenue"`
	ConversionRate float64 `json:"conversion_rate"`
}

type Stats struct {
	PeriodStart      time.Time                `json:"period_start"`
	PeriodEnd        time.Time                `json:"period_end"`
	TotalClicks      int                      `json:"total_clicks"`
	TotalConversions int                      `json:"total_conversions"`
	TotalRevenue     float64                  `json:"total_revenue"`
	ConversionRate   float64                  `json:"conversion_rate"`
	ByRetailer       map[string]RetailerStats `json:"by_retailer"`
}

type PopularItemDetails struct {
	PopularItem

	Title    string `json:"title"`
	Category string `json:"category"`
	ImageURL string `json:"image_url"`
}

type Service struct {
	repository     *Repository
	itemRepository *item.Repository
	linkGenerator  *LinkGenerator
}

func NewService(
	repository *Repository,
	itemRepository *item.Repository,
	linkGenerator *LinkGenerator,
) *Service {
	return &Service{
		repository:     repository,
		itemRepository: itemRepository,
		linkGenerator:  linkGenerator,
	}
}

// ResolveRedirect picks the retailer link to send the visitor to, makes sure
// it carries an affiliate tag and records the click. When no retailer is
// requested the cheapest priced link wins.
func (s *Service) ResolveRedirect(
	ctx context.Context,
	itemID, retailer string,
	clickContext ClickContext,
) (redirectURL, trackingID string, err error) {
	model, err := s.itemRepository.GetByID(ctx, itemID)
	if err != nil {
		return "", "", err
	}

	linkIndex := pickRetailerLink(model.RetailerLinks, retailer)
	if linkIndex == -1 {
		return "", "", common.NewNotFoundError("No retailer link found for this item")
	}

	link := &model.RetailerLinks[linkIndex]

	redirectURL = link.AffiliateURL

	if redirectURL == "" && link.AffiliateEnabled {
		affiliateURL, program, ok := s.linkGenerator.Generate(link.URL, link.Name)
		if ok {
			link.AffiliateURL = affiliateURL
			link.AffiliateProgram = program
			redirectURL = affiliateURL

			if err := s.itemRepository.Replace(ctx, model); err != nil {
				log.Warn().Err(err).Str("item_id", itemID).Msg("couldn't persist generated affiliate url")
			}
		}
	}

	if redirectURL == "" {
		redirectURL = link.URL
	}

	trackingID = uuid.NewString()

	click := &Click{
		TrackingID:       trackingID,
		UserID:           clickContext.UserID,
		ItemID:           itemID,
		Retailer:         link.Name,
		AffiliateProgram: link.AffiliateProgram,
		Timestamp:        time.Now().UTC(),
		Referrer:         clickContext.Referrer,
		UserAgent:        clickContext.UserAgent,
		IPAddress:        clickContext.IPAddress,
	}

	// A lost click record must not break the redirect itself.
	if err := s.repository.Insert(ctx, click); err != nil {
		log.Warn().Err(err).Str("item_id", itemID).Msg("couldn't record affiliate click")
	}

	return redirectURL, trackingID, nil
}

func pickRetailerLink(links []item.RetailerLink, retailer string) int {
	if len(links) == 0 {
		return -1
	}

	if retailer != "" {
		for i := range links {
			if strings.EqualFold(links[i].Name, retailer) {
				return i
			}
		}

		return -1
	}

	cheapestIndex := -1

	for i := range links {
		if links[i].CurrentPrice == nil {
			continue
		}

		if cheapestIndex == -1 || *links[i].CurrentPrice < *links[cheapestIndex].CurrentPrice {
			cheapestIndex = i
		}
	}

	if cheapestIndex != -1 {
		return cheapestIndex
	}

	return 0
}

func (s *Service) GetStats(ctx context.Context, periodStart, periodEnd *time.Time) (*Stats, error) {
	end := time.Now().UTC()
	if periodEnd != nil {
		// Inclusive up to the end of the requested day.
		end = periodEnd.Truncate(24 * time.Hour).Add(24*time.Hour - time.Nanosecond)
	}

	start := end.AddDate(0, 0, -defaultStatsPeriodDays)
	if periodStart != nil {
		start = *periodStart
	}

	clicks, err := s.repository.FindInPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return buildStats(clicks, start, end), nil
}

func buildStats(clicks []Click, periodStart, periodEnd time.Time) *Stats {
	stats := &Stats{
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		ByRetailer:  map[string]RetailerStats{},
	}

	for _, click := range clicks {
		stats.TotalClicks++

		retailerStats := stats.ByRetailer[click.Retailer]
		retailerStats.Clicks++

		if click.Converted {
			stats.TotalConversions++
			retailerStats.Conversions++

			if click.Revenue != nil {
				stats.TotalRevenue += *click.Revenue
				retailerStats.Revenue += *click.Revenue
			}
		}

		stats.ByRetailer[click.Retailer] = retailerStats
	}

	if stats.TotalClicks > 0 {
		stats.ConversionRate = float64(stats.TotalConversions) / float64(stats.TotalClicks) * 100
	}

	for retailer, retailerStats := range stats.ByRetailer {
		if retailerStats.Clicks > 0 {
			retailerStats.ConversionRate = float64(retailerStats.Conversions) / float64(retailerStats.Clicks) * 100
		}

		stats.ByRetailer[retailer] = retailerStats
	}

	return stats
}

func (s *Service) PopularItems(ctx context.Context, days, limit int) ([]PopularItemDetails, error) {
	if days <= 0 {
		days = defaultPopularItemsDays
	}

	since := time.Now().UTC().AddDate(0, 0, -days)

	popularItems, err := s.repository.PopularItems(ctx, since, limit)
	if err != nil {
		return nil, err
	}

	if len(popularItems) == 0 {
		return []PopularItemDetails{}, nil
	}

	itemIDs := make([]string, 0, len(popularItems))
	for _, popularItem := range popularItems {
		itemIDs = append(itemIDs, popularItem.ItemID)
	}

	items, err := s.itemRepository.FindByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	itemsByID := make(map[string]*item.DBModel, len(items))
	for _, itemModel := range items {
		itemsByID[itemModel.ID.Hex()] = itemModel
	}

	result := make([]PopularItemDetails, 0, len(popularItems))

	for _, popularItem := range popularItems {
		details := PopularItemDetails{PopularItem: popularItem}

		if itemModel := itemsByID[popularItem.ItemID]; itemModel != nil {
			details.Title = itemModel.Title
			details.Category = itemModel.Category
			details.ImageURL = itemModel.ImageURL
		}

		result = append(result, details)
	}

	return result, nil
}

func (s *Service) RecordConversion(ctx context.Context, trackingID string, revenue *float64) error {
	return s.repository.UpdateConversion(ctx, trackingID, revenue)
}
