package affiliate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/wgparish/buy-it-for-life-tracker/app/common/config"
)

// Affiliate program identifiers stored alongside generated links.
const (
	ProgramAmazonAssociates = "amazon_associates"
	ProgramWalmart          = "walmart_affiliate"
	ProgramTarget           = "target_partners"
	ProgramBestBuy          = "bestbuy_affiliate"
	ProgramEbay             = "ebay_partner_network"
	ProgramImpactRadius     = "impact_radius"
	ProgramAvantLink        = "avantlink"
	ProgramAwin             = "awin"
	ProgramCJ               = "cj_affiliate"
)

var (
	amazonDpRegex        = regexp.MustCompile(`/dp/([A-Z0-9]{10})`)
	amazonGpProductRegex = regexp.MustCompile(`/gp/product/([A-Z0-9]{10})`)
)

// LinkGenerator turns plain retailer product URLs into affiliate tagged ones.
type LinkGenerator struct {
	affiliateConfig config.AffiliateConfig
}

func NewLinkGenerator(affiliateConfig config.AffiliateConfig) *LinkGenerator {
	return &LinkGenerator{affiliateConfig: affiliateConfig}
}

// Generate builds the affiliate URL for a retailer product page. The third
// return value is false when the retailer has no supported program.
func (g *LinkGenerator) Generate(rawURL, retailer string) (affiliateURL, program string, ok bool) {
	switch retailer {
	case "Amazon":
		return g.amazonURL(rawURL), ProgramAmazonAssociates, true
	case "Walmart":
		return addQueryParam(rawURL, "wmlspartner", g.affiliateConfig.WalmartAffiliateID), ProgramWalmart, true
	case "Target":
		return addQueryParam(rawURL, "afid", g.affiliateConfig.TargetAffiliateID), ProgramTarget, true
	case "Best Buy":
		return addQueryParam(rawURL, "irclickid", g.affiliateConfig.BestBuyAffiliateID), ProgramBestBuy, true
	case "eBay":
		return addQueryParam(rawURL, "mkrid", g.affiliateConfig.EbayAffiliateID), ProgramEbay, true
	case "Home Depot":
		return addQueryParam(rawURL, "ir-affiliate", "true"), ProgramImpactRadius, true
	case "REI":
		return addQueryParam(rawURL, "avad", "tracking"), ProgramAvantLink, true
	case "Etsy":
		return addQueryParam(rawURL, "awc", "tracking"), ProgramAwin, true
	case "Wayfair":
		return addQueryParam(rawURL, "refid", "cj"), ProgramCJ, true
	default:
		return "", "", false
	}
}

// amazonURL rebuilds links around the ASIN when one is present, which drops
// the noisy search and referral parameters Amazon links usually carry.
func (g *LinkGenerator) amazonURL(rawURL string) string {
	asin := extractASIN(rawURL)
	if asin != "" {
		return fmt.Sprintf("https://www.amazon.com/dp/%s?tag=%s", asin, g.affiliateConfig.AmazonAssociateID)
	}

	return addQueryParam(rawURL, "tag", g.affiliateConfig.AmazonAssociateID)
}

func extractASIN(rawURL string) string {
	if match := amazonDpRegex.FindStringSubmatch(rawURL); match != nil {
		return match[1]
	}

	if match := amazonGpProductRegex.FindStringSubmatch(rawURL); match != nil {
		return match[1]
	}

	return ""
}

func addQueryParam(rawURL, key, value string) string {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		separator := "?"
		if strings.Contains(rawURL, "?") {
			separator = "&"
		}

		return rawURL + separator + key + "=" + url.QueryEscape(value)
	}

	query := parsedURL.Query()
	query.Set(key, value)
	parsedURL.RawQuery = query.Encode()

	return parsedURL.String()
}
