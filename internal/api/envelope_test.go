package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/storekeeperapp/storekeeper-server/internal/errors"
)

func TestEnvelopeTransformer_Success(t *testing.T) {
	data := map[string]string{"id": "store-123", "name": "Corner Shop"}

	result, err := EnvelopeTransformer(nil, "200", data)
	require.NoError(t, err)

	envelope, ok := result.(APIEnvelope)
	require.True(t, ok)

	assert.Equal(t, EnvelopeVersion, envelope.Version)
	assert.True(t, envelope.Success)
	assert.Equal(t, data, envelope.Data)
	assert.Empty(t, envelope.Error)
}

func TestEnvelopeTransformer_SuccessStatuses(t *testing.T) {
	for _, status := range []string{"200", "201", "202", "204"} {
		result, err := EnvelopeTransformer(nil, status, map[string]string{})
		require.NoError(t, err)

		envelope, ok := result.(APIEnvelope)
		require.True(t, ok)
		assert.True(t, envelope.Success, "status %s should be a success", status)
	}
}

func TestEnvelopeTransformer_PlainError(t *testing.T) {
	apiErr := &APIError{status: http.StatusNotFound, Message: "store not found"}

	result, err := EnvelopeTransformer(nil, "404", apiErr)
	require.NoError(t, err)

	envelope, ok := result.(APIEnvelope)
	require.True(t, ok)

	assert.False(t, envelope.Success)
	assert.Equal(t, "store not found", envelope.Error)
	assert.Nil(t, envelope.Data)
}

func TestEnvelopeTransformer_CodedError(t *testing.T) {
	apiErr := &APIError{
		status:  http.StatusConflict,
		Code:    string(domainerrors.CodeAlreadyExists),
		Message: "a store with that name already exists",
	}

	result, err := EnvelopeTransformer(nil, "409", apiErr)
	require.NoError(t, err)

	envelope, ok := result.(APIErrorEnvelope)
	require.True(t, ok)

	assert.Equal(t, EnvelopeVersion, envelope.Version)
	assert.False(t, envelope.Success)
	assert.Equal(t, "ALREADY_EXISTS", envelope.Code)
	assert.Equal(t, "a store with that name already exists", envelope.Message)
}

func TestEnvelopeTransformer_ErrorWithDetails(t *testing.T) {
	apiErr := &APIError{
		status:  http.StatusBadRequest,
		Code:    string(domainerrors.CodeValidation),
		Message: "validation failed",
		Details: map[string]string{"name": "is required"},
	}

	result, err := EnvelopeTransformer(nil, "400", apiErr)
	require.NoError(t, err)

	envelope, ok := result.(APIErrorEnvelope)
	require.True(t, ok)

	raw, err := json.Marshal(envelope)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	details, ok := decoded["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "is required", details["name"])
}

func TestRegisterErrorHandler_DomainError(t *testing.T) {
	RegisterErrorHandler()

	statusErr := huma.NewError(http.StatusInternalServerError, "wrapped",
		domainerrors.Conflict("tag is still linked to items"))

	apiErr, ok := statusErr.(*APIError)
	require.True(t, ok)

	assert.Equal(t, http.StatusConflict, apiErr.GetStatus())
	assert.Equal(t, "CONFLICT", apiErr.Code)
	assert.Equal(t, "tag is still linked to items", apiErr.Message)
}

func TestRegisterErrorHandler_PlainStatus(t *testing.T) {
	RegisterErrorHandler()

	statusErr := huma.NewError(http.StatusUnprocessableEntity, "request body is invalid")

	apiErr, ok := statusErr.(*APIError)
	require.True(t, ok)

	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.GetStatus())
	assert.Equal(t, "VALIDATION", apiErr.Code)
}
