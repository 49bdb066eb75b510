package item

import (
	"net/url"
	"regexp"
	"strings"
)

const trackedSubreddit = "buyitforlife"

var (
	requestTagRegex = regexp.MustCompile(`(?i)\[request\]`)
	reviewTagRegex  = regexp.MustCompile(`(?i)\[review\]`)
	ageTagRegex     = regexp.MustCompile(`(?i)^\[\d+\s+(?:year|month|week|day)s?\]`)
	biflRequestTag  = regexp.MustCompile(`(?i)^\[BIFL Request\]:`)
	biflTagRegex    = regexp.MustCompile(`(?i)^\[BIFL\]:`)
	bracketsRegex   = regexp.MustCompile(`\[.*?\]`)
	spacesRegex     = regexp.MustCompile(`\s+`)

	urlRegex = regexp.MustCompile(`https?://[^\s)"]+`)

	trailingPunctuationRegex = regexp.MustCompile(`[.,;:"']$`)
)

// cleanupTitle strips the tagging conventions of r/BuyItForLife post titles.
func cleanupTitle(title string) string {
	title = requestTagRegex.ReplaceAllString(title, "")
	title = reviewTagRegex.ReplaceAllString(title, "")
	title = ageTagRegex.ReplaceAllString(title, "")
	title = biflRequestTag.ReplaceAllString(title, "")
	title = biflTagRegex.ReplaceAllString(title, "")
	title = bracketsRegex.ReplaceAllString(title, "")

	return strings.TrimSpace(spacesRegex.ReplaceAllString(title, " "))
}

type categoryKeywords struct {
	name     string
	keywords []string
}

// Ordered so that categorization stays deterministic when keywords overlap
// (e.g. "knife" appears under both Kitchen and Tools).
var categoriesByKeywords = []categoryKeywords{
	{"Kitchen", []string{"kitchen", "cookware", "knife", "pan", "pot", "blender", "mixer", "food"}},
	{"Clothing", []string{"clothing", "jacket", "shirt", "pant", "jeans", "coat", "sweater", "hoodie"}},
	{"Footwear", []string{"shoe", "boot", "footwear", "sneaker", "sandal"}},
	{"Bags", []string{"bag", "backpack", "luggage", "suitcase", "purse", "wallet"}},
	{"Electronics", []string{"electronic", "headphone", "speaker", "computer", "laptop", "phone", "camera"}},
	{"Tools", []string{"tool", "drill", "hammer", "screwdriver", "wrench", "multitool"}},
	{"Furniture", []string{"furniture", "chair", "desk", "table", "sofa", "couch", "bed"}},
	{"Outdoors", []string{"outdoor", "camping", "hiking", "tent", "sleeping", "thermos"}},
}

const defaultCategory = "Other"

func determineCategory(title string) string {
	titleLower := strings.ToLower(title)

	for _, category := range categoriesByKeywords {
		for _, keyword := range category.keywords {
			if strings.Contains(titleLower, keyword) {
				return category.name
			}
		}
	}

	return defaultCategory
}

type retailerDomain struct {
	name   string
	domain string
}

var knownRetailerDomains = []retailerDomain{
	{"Amazon", "amazon.com"},
	{"Amazon", "amzn.to"},
	{"eBay", "ebay.com"},
	{"Walmart", "walmart.com"},
	{"Target", "target.com"},
	{"Home Depot", "homedepot.com"},
	{"Best Buy", "bestbuy.com"},
	{"REI", "rei.com"},
	{"Etsy", "etsy.com"},
	{"Wayfair", "wayfair.com"},
}

// extractRetailerLinks scans post content for URLs of known retailers.
// Affiliate URLs are attached later, when the ingest runs the links through
// the affiliate link generator.
func extractRetailerLinks(content string) []RetailerLink {
	rawURLs := urlRegex.FindAllString(content, -1)

	var links []RetailerLink

	for _, rawURL := range rawURLs {
		rawURL = trailingPunctuationRegex.ReplaceAllString(rawURL, "")

		parsedURL, err := url.Parse(rawURL)
		if err != nil {
			continue
		}

		domain := strings.ToLower(parsedURL.Host)
		domain = strings.TrimPrefix(domain, "www.")

		for _, retailer := range knownRetailerDomains {
			if strings.Contains(domain, retailer.domain) {
				links = append(links, RetailerLink{
					Name:             retailer.name,
					URL:              rawURL,
					AffiliateEnabled: true,
				})

				break
			}
		}
	}

	return links
}

// shouldSkipPost drops posts that are not product recommendations: requests
// for recommendations and self posts that review nothing.
func shouldSkipPost(title string, isSelfPost bool) bool {
	titleLower := strings.ToLower(title)

	if strings.Contains(titleLower, "[request]") {
		return true
	}

	if isSelfPost &&
		!strings.Contains(titleLower, "review") &&
		!strings.Contains(titleLower, "recommendation") {
		return true
	}

	return false
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

func imageURLFromPost(postURL string) string {
	parsedURL, err := url.Parse(postURL)
	if err != nil {
		return ""
	}

	if parsedURL.Host == "i.redd.it" || parsedURL.Host == "i.imgur.com" {
		return postURL
	}

	pathLower := strings.ToLower(parsedURL.Path)

	for _, extension := range imageExtensions {
		if strings.HasSuffix(pathLower, extension) {
			return postURL
		}
	}

	return ""
}
