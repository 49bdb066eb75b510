package affiliate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wgparish/buy-it-for-life-tracker/app/domain/item"
)

func TestPickRetailerLink(t *testing.T) {
	t.Parallel()

	links := []item.RetailerLink{
		{Name: "Amazon", CurrentPrice: floatPointer(34.99)},
		{Name: "REI", CurrentPrice: floatPointer(29.95)},
		{Name: "eBay"},
	}

	t.Run("named retailer wins regardless of price", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 0, pickRetailerLink(links, "amazon"))
	})

	t.Run("unknown retailer finds nothing", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, -1, pickRetailerLink(links, "Walmart"))
	})

	t.Run("no retailer picks the cheapest priced link", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 1, pickRetailerLink(links, ""))
	})

	t.Run("no priced links falls back to the first", func(t *testing.T) {
		t.Parallel()

		unpriced := []item.RetailerLink{{Name: "Etsy"}, {Name: "Wayfair"}}
		assert.Equal(t, 0, pickRetailerLink(unpriced, ""))
	})

	t.Run("no links at all", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, -1, pickRetailerLink(nil, ""))
	})
}

func TestBuildStats(t *testing.T) {
	t.Parallel()

	periodStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)

	clicks := []Click{
		{Retailer: "Amazon"},
		{Retailer: "Amazon", Converted: true, Revenue: floatPointer(4.2)},
		{Retailer: "Amazon"},
		{Retailer: "REI", Converted: true, Revenue: floatPointer(1.8)},
	}

	stats := buildStats(clicks, periodStart, periodEnd)

	assert.Equal(t, 4, stats.TotalClicks)
	assert.Equal(t, 2, stats.TotalConversions)
	assert.InDelta(t, 6.0, stats.TotalRevenue, 0.001)
	assert.InDelta(t, 50.0, stats.ConversionRate, 0.001)

	require.Contains(t, stats.ByRetailer, "Amazon")
	amazonStats := stats.ByRetailer["Amazon"]
	assert.Equal(t, 3, amazonStats.Clicks)
	assert.Equal(t, 1, amazonStats.Conversions)
	assert.InDelta(t, 4.2, amazonStats.Revenue, 0.001)
	assert.InDelta(t, 33.333, amazonStats.ConversionRate, 0.01)

	require.Contains(t, stats.ByRetailer, "REI")
	assert.InDelta(t, 100.0, stats.ByRetailer["REI"].ConversionRate, 0.001)
}

func TestBuildStatsEmptyPeriod(t *testing.T) {
	t.Parallel()

	stats := buildStats(nil, time.Now(), time.Now())

	assert.Zero(t, stats.TotalClicks)
	assert.Zero(t, stats.ConversionRate)
	assert.Empty(t, stats.ByRetailer)
}

func floatPointer(value float64) *float64 {
	return &value
}
