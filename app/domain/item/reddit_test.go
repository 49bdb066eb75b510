package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupTitle(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		title         string
		expectedTitle string
	}{
		{
			name:          "plain title stays untouched",
			title:         "Stanley Classic Thermos",
			expectedTitle: "Stanley Classic Thermos",
		},
		{
			name:          "age tag is removed",
			title:         "[25 years] My grandfather's cast iron skillet",
			expectedTitle: "My grandfather's cast iron skillet",
		},
		{
			name:          "bifl prefix is removed",
			title:         "[BIFL]: Darn Tough socks",
			expectedTitle: "Darn Tough socks",
		},
		{
			name:          "review tag is removed",
			title:         "[Review] Red Wing Iron Rangers after 5 years",
			expectedTitle: "Red Wing Iron Rangers after 5 years",
		},
		{
			name:          "remaining brackets are stripped",
			title:         "Le Creuset dutch oven [still going strong]",
			expectedTitle: "Le Creuset dutch oven",
		},
		{
			name:          "whitespace collapses",
			title:         "[10 years]   Zippo   lighter",
			expectedTitle: "Zippo lighter",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expectedTitle, cleanupTitle(testCase.title))
		})
	}
}

func TestDetermineCategory(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		title            string
		expectedCategory string
	}{
		{"Chef's knife that lasted 30 years", "Kitchen"},
		{"My favorite wool sweater", "Clothing"},
		{"Redback boots after a decade", "Footwear"},
		{"Osprey backpack still going", "Bags"},
		{"Sennheiser headphones from 2005", "Electronics"},
		{"Estwing hammer", "Tools"},
		{"Solid oak desk", "Furniture"},
		{"Four season tent recommendation", "Outdoors"},
		{"Fountain pen collection", "Other"},
	}

	for _, testCase := range testCases {
		testCase := testCase

		t.Run(testCase.title, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expectedCategory, determineCategory(testCase.title))
		})
	}
}

func TestExtractRetailerLinks(t *testing.T) {
	t.Parallel()

	t.Run("finds known retailers and strips trailing punctuation", func(t *testing.T) {
		t.Parallel()

		content := "Bought it here: https://www.amazon.com/dp/B00FLYWNYQ. " +
			"Also available at https://www.rei.com/product/895846/stanley-classic-thermos"

		links := extractRetailerLinks(content)
		require.Len(t, links, 2)

		assert.Equal(t, "Amazon", links[0].Name)
		assert.Equal(t, "https://www.amazon.com/dp/B00FLYWNYQ", links[0].URL)
		assert.True(t, links[0].AffiliateEnabled)

		assert.Equal(t, "REI", links[1].Name)
	})

	t.Run("recognizes amazon short links", func(t *testing.T) {
		t.Parallel()

		links := extractRetailerLinks("check https://amzn.to/3xYz12A")
		require.Len(t, links, 1)
		assert.Equal(t, "Amazon", links[0].Name)
	})

	t.Run("ignores unknown domains", func(t *testing.T) {
		t.Parallel()

		links := extractRetailerLinks("source: https://example.com/some-blog-post")
		assert.Empty(t, links)
	})

	t.Run("handles content without urls", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, extractRetailerLinks("no links in here"))
	})
}

func TestShouldSkipPost(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		title      string
		isSelfPost bool
		skip       bool
	}{
		{
			name:  "request posts are skipped",
			title: "[Request] Looking for a durable umbrella",
			skip:  true,
		},
		{
			name:       "self post without review keywords is skipped",
			title:      "My thoughts on durability",
			isSelfPost: true,
			skip:       true,
		},
		{
			name:       "self post reviews pass",
			title:      "Review: 10 years with my Filson bag",
			isSelfPost: true,
			skip:       false,
		},
		{
			name:  "link posts pass",
			title: "Cast iron skillet from 1950",
			skip:  false,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.skip, shouldSkipPost(testCase.title, testCase.isSelfPost))
		})
	}
}

func TestImageURLFromPost(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://i.redd.it/abc123.jpg", imageURLFromPost("https://i.redd.it/abc123.jpg"))
	assert.Equal(t, "https://example.com/photo.png", imageURLFromPost("https://example.com/photo.png"))
	assert.Empty(t, imageURLFromPost("https://www.reddit.com/r/BuyItForLife/comments/abc"))
}
