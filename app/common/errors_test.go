package common

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientSideErrorMarshaling(t *testing.T) {
	const errTitle = "some error"
	expectedJSON := fmt.Sprintf(`{"title":%q}`, errTitle)

	err := NewClientSideError(errTitle)
	actual, err := json.Marshal(err)

	assert.NoError(t, err)
	assert.Equal(t, expectedJSON, string(actual))
}

func TestValidationErrorMarshaling(t *testing.T) {
	err := NewValidationError(
		"validation error",
		[]string{"some error", "some other error"},
	)

	expectedJSON := `{"title":"validation error","errors":["some error","some other error"]}`

	actual, err := json.Marshal(err)

	assert.NoError(t, err)
	assert.Equal(t, expectedJSON, string(actual))
}

func TestNotFoundErrorMarshaling(t *testing.T) {
	const errTitle = "Item not found"
	expectedJSON := fmt.Sprintf(`{"title":%q}`, errTitle)

	err := NewNotFoundError(errTitle)
	actual, err := json.Marshal(err)

	assert.NoError(t, err)
	assert.Equal(t, expectedJSON, string(actual))
}

func TestUnauthorizedErrorMarshaling(t *testing.T) {
	const errTitle = "Not authenticated"
	expectedJSON := fmt.Sprintf(`{"title":%q}`, errTitle)

	err := NewUnauthorizedError(errTitle)
	actual, err := json.Marshal(err)

	assert.NoError(t, err)
	assert.Equal(t, expectedJSON, string(actual))
}

func TestForbiddenErrorMarshaling(t *testing.T) {
	const errTitle = "Missing required scope: read:items"
	expectedJSON := fmt.Sprintf(`{"title":%q}`, errTitle)

	err := NewForbiddenError(errTitle)
	actual, err := json.Marshal(err)

	assert.NoError(t, err)
	assert.Equal(t, expectedJSON, string(actual))
}
