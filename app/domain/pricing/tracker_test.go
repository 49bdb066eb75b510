package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wgparish/buy-it-for-life-tracker/app/domain/alert"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/item"
)

func TestShouldTriggerAlert(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name                string
		priceThreshold      *float64
		priceDropPercentage *float64
		newPrice            float64
		percentageChange    float64
		expectedToTrigger   bool
	}{
		{
			name:              "no criteria fires on every drop",
			newPrice:          99.99,
			percentageChange:  1.0,
			expectedToTrigger: true,
		},
		{
			name:              "price below threshold",
			priceThreshold:    floatPointer(50),
			newPrice:          49.99,
			percentageChange:  5,
			expectedToTrigger: true,
		},
		{
			name:              "price above threshold",
			priceThreshold:    floatPointer(50),
			newPrice:          55,
			percentageChange:  5,
			expectedToTrigger: false,
		},
		{
			name:                "drop reaches percentage",
			priceDropPercentage: floatPointer(10),
			newPrice:            90,
			percentageChange:    10,
			expectedToTrigger:   true,
		},
		{
			name:                "drop below percentage",
			priceDropPercentage: floatPointer(10),
			newPrice:            95,
			percentageChange:    5,
			expectedToTrigger:   false,
		},
		{
			name:                "either criterion suffices",
			priceThreshold:      floatPointer(10),
			priceDropPercentage: floatPointer(20),
			newPrice:            80,
			percentageChange:    25,
			expectedToTrigger:   true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			alertModel := &alert.DBModel{
				PriceThreshold:      testCase.priceThreshold,
				PriceDropPercentage: testCase.priceDropPercentage,
			}

			triggered := shouldTriggerAlert(alertModel, testCase.newPrice, testCase.percentageChange)
			assert.Equal(t, testCase.expectedToTrigger, triggered)
		})
	}
}

func TestRecomputeItemPricing(t *testing.T) {
	t.Parallel()

	t.Run("cheapest link price wins", func(t *testing.T) {
		t.Parallel()

		model := &item.DBModel{
			RetailerLinks: []item.RetailerLink{
				{Name: "Amazon", CurrentPrice: floatPointer(34.99)},
				{Name: "REI", CurrentPrice: floatPointer(29.95)},
				{Name: "eBay"},
			},
		}

		recomputeItemPricing(model)

		assert.NotNil(t, model.CurrentPrice)
		assert.InDelta(t, 29.95, *model.CurrentPrice, 0.001)
		assert.False(t, model.IsOnSale)
	})

	t.Run("any dropped link marks the item on sale", func(t *testing.T) {
		t.Parallel()

		model := &item.DBModel{
			RetailerLinks: []item.RetailerLink{
				{Name: "Amazon", CurrentPrice: floatPointer(24.99), PriceDropped: true},
				{Name: "Walmart", CurrentPrice: floatPointer(27.50)},
			},
		}

		recomputeItemPricing(model)

		assert.True(t, model.IsOnSale)
	})

	t.Run("no priced links clears the item price", func(t *testing.T) {
		t.Parallel()

		model := &item.DBModel{
			CurrentPrice:  floatPointer(19.99),
			RetailerLinks: []item.RetailerLink{{Name: "Amazon"}},
		}

		recomputeItemPricing(model)

		assert.Nil(t, model.CurrentPrice)
		assert.False(t, model.IsOnSale)
	})
}
