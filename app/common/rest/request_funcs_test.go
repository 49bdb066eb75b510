package rest

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_GetPaginationParams(t *testing.T) {
	testCases := []struct {
		name string

		url string

		expectedPage  int
		expectedLimit int
		shouldGetErr  bool
	}{
		{
			name: "defaults when no params provided",

			url:           "http://testing/api/items",
			expectedPage:  1,
			expectedLimit: 20,
		},
		{
			name: "explicit page and limit",

			url:           "http://testing/api/items?page=3&limit=50",
			expectedPage:  3,
			expectedLimit: 50,
		},
		{
			name: "zero page is rejected",

			url:          "http://testing/api/items?page=0",
			shouldGetErr: true,
		},
		{
			name: "negative page is rejected",

			url:          "http://testing/api/items?page=-2",
			shouldGetErr: true,
		},
		{
			name: "limit above the cap is rejected",

			url:          "http://testing/api/items?limit=101",
			shouldGetErr: true,
		},
		{
			name: "non numeric limit is rejected",

			url:          "http://testing/api/items?limit=abc",
			shouldGetErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.url, nil)

			params, err := GetPaginationParams(req)

			if tc.shouldGetErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.expectedPage, params.Page)
			assert.Equal(t, tc.expectedLimit, params.Limit)
		})
	}
}

func Test_GetBoolFromURL(t *testing.T) {
	testCases := []struct {
		name string

		url string

		expectedValue bool
		shouldGetErr  bool
	}{
		{
			name: "absent param defaults to false",

			url:           "http://testing/api/alerts/my-alerts",
			expectedValue: false,
		},
		{
			name: "true value",

			url:           "http://testing/api/alerts/my-alerts?include_items=true",
			expectedValue: true,
		},
		{
			name: "false value",

			url:           "http://testing/api/alerts/my-alerts?include_items=false",
			expectedValue: false,
		},
		{
			name: "garbage value is rejected",

			url:          "http://testing/api/alerts/my-alerts?include_items=maybe",
			shouldGetErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.url, nil)

			value, err := GetBoolFromURL(req, "include_items")

			if tc.shouldGetErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.expectedValue, value)
		})
	}
}
