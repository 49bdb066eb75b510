package pricing

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

const (
	scrapeTimeout = 10 * time.Second

	// Retailers block obvious bot user agents outright.
	scrapeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var retailerPriceSelectors = map[string][]string{
	"Amazon": {
		"span.a-offscreen",
		"#priceblock_ourprice",
		"#priceblock_dealprice",
		"#priceblock_saleprice",
		".a-price .a-offscreen",
	},
	"Walmart": {
		`[itemprop="price"]`,
		".price-characteristic",
	},
	"Target": {
		`[data-test="product-price"]`,
	},
	"Best Buy": {
		".priceView-customer-price > span",
	},
}

var genericPriceSelectors = []string{
	`[class*="price"]`,
	`[id*="price"]`,
}

var priceRegex = regexp.MustCompile(`\$\s*(\d+(?:,\d+)*\.?\d*)`)

type Scraper struct {
	httpClient *http.Client
}

func NewScraper() *Scraper {
	return &Scraper{
		httpClient: &http.Client{Timeout: scrapeTimeout},
	}
}

// FetchPrice loads the product page and extracts the current price. It
// returns nil without an error when the page renders but carries no
// recognizable price.
func (s *Scraper) FetchPrice(ctx context.Context, retailer, productURL string) (*float64, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, productURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't build price request")
	}

	request.Header.Set("User-Agent", scrapeUserAgent)
	request.Header.Set("Accept-Language", "en-US,en;q=0.9")

	response, err := s.httpClient.Do(request)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't fetch product page")
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status code: %d", response.StatusCode)
	}

	document, err := goquery.NewDocumentFromReader(response.Body)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't parse product page")
	}

	return extractPrice(retailer, document), nil
}

func extractPrice(retailer string, document *goquery.Document) *float64 {
	for _, selector := range retailerPriceSelectors[retailer] {
		if price := priceFromSelection(document.Find(selector).First()); price != nil {
			return price
		}
	}

	for _, selector := range genericPriceSelectors {
		var price *float64

		document.Find(selector).EachWithBreak(func(_ int, selection *goquery.Selection) bool {
			price = priceFromText(selection.Text())

			return price == nil
		})

		if price != nil {
			return price
		}
	}

	return nil
}

func priceFromSelection(selection *goquery.Selection) *float64 {
	if selection.Length() == 0 {
		return nil
	}

	// Walmart carries the raw value in the content attribute.
	if content, exists := selection.Attr("content"); exists {
		if price := parsePrice(content); price != nil {
			return price
		}
	}

	return parsePrice(selection.Text())
}

func priceFromText(text string) *float64 {
	match := priceRegex.FindStringSubmatch(text)
	if match == nil {
		return nil
	}

	return parsePrice(match[1])
}

// parsePrice reads "$1,299.99" style strings; anything that does not survive
// stripping down to digits and a decimal point yields nil.
func parsePrice(text string) *float64 {
	var builder strings.Builder

	for _, character := range strings.TrimSpace(text) {
		if (character >= '0' && character <= '9') || character == '.' {
			builder.WriteRune(character)
		}
	}

	cleaned := builder.String()
	if cleaned == "" {
		return nil
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || price <= 0 {
		return nil
	}

	return &price
}
