package pricing

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func documentFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()

	document, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	return document
}

func TestParsePrice(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		text          string
		expectedPrice *float64
	}{
		{"$24.99", floatPointer(24.99)},
		{" $1,299.99 ", floatPointer(1299.99)},
		{"USD 45", floatPointer(45)},
		{"free", nil},
		{"", nil},
		{"$0", nil},
	}

	for _, testCase := range testCases {
		testCase := testCase

		t.Run(testCase.text, func(t *testing.T) {
			t.Parallel()

			price := parsePrice(testCase.text)

			if testCase.expectedPrice == nil {
				assert.Nil(t, price)

				return
			}

			require.NotNil(t, price)
			assert.InDelta(t, *testCase.expectedPrice, *price, 0.001)
		})
	}
}

func TestExtractPrice(t *testing.T) {
	t.Parallel()

	t.Run("amazon offscreen price", func(t *testing.T) {
		t.Parallel()

		document := documentFromHTML(t, `
			<html><body>
				<span class="a-offscreen">$34.99</span>
			</body></html>`)

		price := extractPrice("Amazon", document)
		require.NotNil(t, price)
		assert.InDelta(t, 34.99, *price, 0.001)
	})

	t.Run("walmart content attribute", func(t *testing.T) {
		t.Parallel()

		document := documentFromHTML(t, `
			<html><body>
				<span itemprop="price" content="89.00">$89</span>
			</body></html>`)

		price := extractPrice("Walmart", document)
		require.NotNil(t, price)
		assert.InDelta(t, 89.0, *price, 0.001)
	})

	t.Run("falls back to generic price containers", func(t *testing.T) {
		t.Parallel()

		document := documentFromHTML(t, `
			<html><body>
				<div class="product-price">Now only $12.50!</div>
			</body></html>`)

		price := extractPrice("REI", document)
		require.NotNil(t, price)
		assert.InDelta(t, 12.5, *price, 0.001)
	})

	t.Run("no price on the page", func(t *testing.T) {
		t.Parallel()

		document := documentFromHTML(t, `<html><body><p>Out of stock</p></body></html>`)

		assert.Nil(t, extractPrice("Amazon", document))
	})
}

func floatPointer(value float64) *float64 {
	return &value
}
