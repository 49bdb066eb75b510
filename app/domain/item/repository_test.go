package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortDirectionFor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name              string
		sortOrder         string
		expectedDirection int
	}{
		{
			name:              "desc sorts descending",
			sortOrder:         "desc",
			expectedDirection: -1,
		},
		{
			name:              "desc is matched case-insensitively",
			sortOrder:         "DESC",
			expectedDirection: -1,
		},
		{
			name:              "asc sorts ascending",
			sortOrder:         "asc",
			expectedDirection: 1,
		},
		{
			name:              "uppercase asc sorts ascending",
			sortOrder:         "ASC",
			expectedDirection: 1,
		},
		{
			name:              "unknown value sorts ascending",
			sortOrder:         "sideways",
			expectedDirection: 1,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expectedDirection, sortDirectionFor(testCase.sortOrder))
		})
	}
}
