package affiliate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wgparish/buy-it-for-life-tracker/app/common/config"
)

func newTestLinkGenerator() *LinkGenerator {
	return NewLinkGenerator(config.AffiliateConfig{
		AmazonAssociateID:  "bifl-20",
		WalmartAffiliateID: "wm123",
		TargetAffiliateID:  "tg456",
		BestBuyAffiliateID: "bb789",
		EbayAffiliateID:    "eb000",
	})
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	generator := newTestLinkGenerator()

	t.Run("amazon dp link rebuilds around the asin", func(t *testing.T) {
		t.Parallel()

		affiliateURL, program, ok := generator.Generate(
			"https://www.amazon.com/Stanley-Classic-Thermos/dp/B00FLYWNYQ/ref=sr_1_1?keywords=thermos",
			"Amazon",
		)

		require.True(t, ok)
		assert.Equal(t, "https://www.amazon.com/dp/B00FLYWNYQ?tag=bifl-20", affiliateURL)
		assert.Equal(t, ProgramAmazonAssociates, program)
	})

	t.Run("amazon gp product link", func(t *testing.T) {
		t.Parallel()

		affiliateURL, _, ok := generator.Generate(
			"https://www.amazon.com/gp/product/B00FLYWNYQ",
			"Amazon",
		)

		require.True(t, ok)
		assert.Equal(t, "https://www.amazon.com/dp/B00FLYWNYQ?tag=bifl-20", affiliateURL)
	})

	t.Run("amazon link without asin gets a tag parameter", func(t *testing.T) {
		t.Parallel()

		affiliateURL, _, ok := generator.Generate("https://www.amazon.com/s?k=thermos", "Amazon")

		require.True(t, ok)
		assert.Contains(t, affiliateURL, "tag=bifl-20")
		assert.Contains(t, affiliateURL, "k=thermos")
	})

	t.Run("walmart", func(t *testing.T) {
		t.Parallel()

		affiliateURL, program, ok := generator.Generate("https://www.walmart.com/ip/12345", "Walmart")

		require.True(t, ok)
		assert.Contains(t, affiliateURL, "wmlspartner=wm123")
		assert.Equal(t, ProgramWalmart, program)
	})

	t.Run("ebay", func(t *testing.T) {
		t.Parallel()

		affiliateURL, program, ok := generator.Generate("https://www.ebay.com/itm/9876", "eBay")

		require.True(t, ok)
		assert.Contains(t, affiliateURL, "mkrid=eb000")
		assert.Equal(t, ProgramEbay, program)
	})

	t.Run("unsupported retailer", func(t *testing.T) {
		t.Parallel()

		_, _, ok := generator.Generate("https://www.ikea.com/p/123", "IKEA")
		assert.False(t, ok)
	})
}

func TestExtractASIN(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "B00FLYWNYQ", extractASIN("https://www.amazon.com/dp/B00FLYWNYQ"))
	assert.Equal(t, "B01KQRZF7A", extractASIN("https://www.amazon.com/gp/product/B01KQRZF7A?th=1"))
	assert.Empty(t, extractASIN("https://www.amazon.com/s?k=socks"))
	assert.Empty(t, extractASIN("https://www.amazon.com/dp/short"))
}
