package item

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vartanbeno/go-reddit/v2/reddit"
)

const redditFetchLimit = 100

var allowedSortFields = map[string]struct{}{
	"reddit_score":  {},
	"created_at":    {},
	"updated_at":    {},
	"current_price": {},
	"title":         {},
}

const (
	defaultSortField = "reddit_score"
	defaultSortOrder = "desc"
)

type redditFeed interface {
	TopPostsOfMonth(ctx context.Context, subreddit string, limit int) ([]*reddit.Post, error)
}

type priceChecker interface {
	CheckPriceForLink(ctx context.Context, itemID string, link RetailerLink) (bool, error)
}

type affiliateLinker interface {
	Generate(rawURL, retailer string) (affiliateURL, program string, ok bool)
}

type userItemsProvider interface {
	ItemIDsOfUser(ctx context.Context, auth0UserID string) ([]string, error)
}

type Service struct {
	repository      *Repository
	inMemoryStorage *InMemoryStorage
	redditFeed      redditFeed
	priceChecker    priceChecker
	affiliateLinker affiliateLinker
	userItems       userItemsProvider
}

func NewService(
	repository *Repository,
	inMemoryStorage *InMemoryStorage,
	redditFeed redditFeed,
	priceChecker priceChecker,
	affiliateLinker affiliateLinker,
	userItems userItemsProvider,
) *Service {
	return &Service{
		repository:      repository,
		inMemoryStorage: inMemoryStorage,
		redditFeed:      redditFeed,
		priceChecker:    priceChecker,
		affiliateLinker: affiliateLinker,
		userItems:       userItems,
	}
}

func (s *Service) ListItems(ctx context.Context, dto *ListItemsDTO) (*ListItemsResult, error) {
	if _, ok := allowedSortFields[dto.SortBy]; !ok {
		dto.SortBy = defaultSortField
	}

	if dto.SortOrder == "" {
		dto.SortOrder = defaultSortOrder
	}

	items, totalItems, err := s.repository.List(ctx, dto)
	if err != nil {
		return nil, err
	}

	totalPages := int((totalItems + int64(dto.Limit) - 1) / int64(dto.Limit))

	return &ListItemsResult{
		Items:       items,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		CurrentPage: dto.Page,
	}, nil
}

func (s *Service) GetItem(ctx context.Context, itemID string) (*DBModel, error) {
	return s.repository.GetByID(ctx, itemID)
}

func (s *Service) ItemsOnSale(ctx context.Context) ([]*DBModel, error) {
	return s.repository.FindOnSale(ctx)
}

func (s *Service) UserItems(ctx context.Context, auth0UserID string) ([]*DBModel, error) {
	itemIDs, err := s.userItems.ItemIDsOfUser(ctx, auth0UserID)
	if err != nil {
		return nil, err
	}

	if len(itemIDs) == 0 {
		return []*DBModel{}, nil
	}

	return s.repository.FindByIDs(ctx, itemIDs)
}

func (s *Service) GetCategories(ctx context.Context) ([]string, error) {
	cachedCategories, err := s.inMemoryStorage.ReadCachedCategories(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("couldn't read categories from cache")
	}

	if cachedCategories != nil {
		return cachedCategories, nil
	}

	categories, err := s.repository.DistinctCategories(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.inMemoryStorage.StoreCachedCategories(ctx, categories); err != nil {
		log.Warn().Err(err).Msg("couldn't store categories in cache")
	}

	return categories, nil
}

// RefreshFromReddit ingests the top posts of the month from r/buyitforlife.
// Posts already known are only refreshed with their current score and comment
// count; new posts become items, and every retailer link found in a new post
// gets an initial price check.
func (s *Service) RefreshFromReddit(ctx context.Context) (*RefreshResult, error) {
	posts, err := s.redditFeed.TopPostsOfMonth(ctx, trackedSubreddit, redditFetchLimit)
	if err != nil {
		return nil, err
	}

	result := &RefreshResult{}

	for _, post := range posts {
		if shouldSkipPost(post.Title, post.IsSelfPost) {
			continue
		}

		existingItem, err := s.repository.GetByRedditID(ctx, post.ID)
		if err != nil {
			return nil, err
		}

		if existingItem != nil {
			err = s.repository.UpdateRedditStats(ctx, existingItem.ID.Hex(), post.Score, post.NumberOfComments)
			if err != nil {
				return nil, err
			}

			result.UpdatedItems++

			continue
		}

		if err := s.ingestPost(ctx, post); err != nil {
			return nil, err
		}

		result.NewItems++
	}

	if err := s.inMemoryStorage.InvalidateCachedCategories(ctx); err != nil {
		log.Warn().Err(err).Msg("couldn't invalidate cached categories")
	}

	log.Info().
		Int("new_items", result.NewItems).
		Int("updated_items", result.UpdatedItems).
		Msg("finished reddit ingest")

	return result, nil
}

func (s *Service) ingestPost(ctx context.Context, post *reddit.Post) error {
	title := cleanupTitle(post.Title)
	if title == "" {
		title = strings.TrimSpace(post.Title)
	}

	retailerLinks := extractRetailerLinks(fmt.Sprintf("%s %s", post.Body, post.URL))

	var postedDate *time.Time
	if post.Created != nil {
		postedDate = &post.Created.Time
	}

	for i := range retailerLinks {
		affiliateURL, program, ok := s.affiliateLinker.Generate(retailerLinks[i].URL, retailerLinks[i].Name)
		if !ok {
			retailerLinks[i].AffiliateEnabled = false

			continue
		}

		retailerLinks[i].AffiliateURL = affiliateURL
		retailerLinks[i].AffiliateProgram = program
	}

	model := &DBModel{
		Title:            title,
		Description:      post.Body,
		RedditID:         post.ID,
		RedditURL:        "https://reddit.com" + post.Permalink,
		RedditScore:      post.Score,
		RedditComments:   post.NumberOfComments,
		RedditPostedDate: postedDate,
		Category:         determineCategory(title),
		ImageURL:         imageURLFromPost(post.URL),
		Currency:         "USD",
		RetailerLinks:    retailerLinks,
		Subscribers:      []string{},
	}

	itemID, err := s.repository.Insert(ctx, model)
	if err != nil {
		return err
	}

	for _, link := range retailerLinks {
		if _, err := s.priceChecker.CheckPriceForLink(ctx, itemID, link); err != nil {
			log.Warn().
				Err(err).
				Str("item_id", itemID).
				Str("retailer", link.Name).
				Msg("initial price check failed")
		}
	}

	return nil
}
