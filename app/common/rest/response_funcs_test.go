package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/wgparish/buy-it-for-life-tracker/app/common"
)

func Test_WriteErrorResponse(t *testing.T) {
	testCases := []struct {
		name               string
		err                error
		expectedStatusCode int
		expectedBody       string
	}{
		{
			name:               "client side error",
			err:                common.NewClientSideError("Already subscribed to this item"),
			expectedStatusCode: http.StatusUnprocessableEntity,
			expectedBody:       `{"title":"Already subscribed to this item"}`,
		},
		{
			name:               "validation error",
			err:                common.NewValidationError("Validation error", []string{"page must be a positive integer"}),
			expectedStatusCode: http.StatusUnprocessableEntity,
			expectedBody:       `{"title":"Validation error","errors":["page must be a positive integer"]}`,
		},
		{
			name:               "not found",
			err:                common.NewNotFoundError("Item not found"),
			expectedStatusCode: http.StatusNotFound,
			expectedBody:       `{"title":"Item not found"}`,
		},
		{
			name:               "unauthorized",
			err:                common.NewUnauthorizedError("Token not provided or malformed"),
			expectedStatusCode: http.StatusUnauthorized,
			expectedBody:       `{"title":"Token not provided or malformed"}`,
		},
		{
			name:               "forbidden",
			err:                common.NewForbiddenError("Missing required scope: read:admin"),
			expectedStatusCode: http.StatusForbidden,
			expectedBody:       `{"title":"Missing required scope: read:admin"}`,
		},
		{
			name:               "too many requests",
			err:                common.NewTooManyRequestsError("Too many requests; try again later"),
			expectedStatusCode: http.StatusTooManyRequests,
			expectedBody:       `{"title":"Too many requests; try again later"}`,
		},
		{
			name:               "unexpected errors are hidden behind a server side error",
			err:                errors.New("mongo: connection refused"),
			expectedStatusCode: http.StatusInternalServerError,
			expectedBody:       `{"title":"something went wrong on our side"}`,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			WriteErrorResponse(context.Background(), testCase.err, recorder, nil)

			assert.Equal(t, testCase.expectedStatusCode, recorder.Code)
			assert.JSONEq(t, testCase.expectedBody, recorder.Body.String())
		})
	}
}

func Test_WriteErrorResponseWithMeta(t *testing.T) {
	recorder := httptest.NewRecorder()

	WriteErrorResponse(
		context.Background(),
		common.NewTooManyRequestsError("Too many requests; try again later"),
		recorder,
		map[string]interface{}{"retry_after_seconds": 1},
	)

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.JSONEq(
		t,
		`{"title":"Too many requests; try again later","meta":{"retry_after_seconds":1}}`,
		recorder.Body.String(),
	)
}
