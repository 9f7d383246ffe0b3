package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gigvault/escrowd/pkg/errors"
	"github.com/gigvault/escrowd/pkg/logger"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// --- WriteJSON ---

func TestWriteJSON_SetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, Response{Data: "hello"})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWriteJSON_ErrorPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusBadRequest, Response{
		Error: &ErrorResponse{Code: "INVALID", Message: "bad input"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID", resp.Error.Code)
	assert.Equal(t, "bad input", resp.Error.Message)
}

// --- WriteError ---

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	appErr := apperrors.NotFound("service", int64(7))
	WriteError(rec, req, appErr, testLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestWriteError_SentinelNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	WriteError(rec, req, apperrors.ErrNotFound, testLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestWriteError_SentinelInvalidState(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test", nil)

	WriteError(rec, req, apperrors.ErrInvalidState, testLogger())

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "INVALID_STATE", resp.Error.Code)
}

func TestWriteError_SentinelInvalidInput(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test", nil)

	WriteError(rec, req, apperrors.ErrInvalidInput, testLogger())

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestWriteError_SentinelForbidden(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test", nil)

	WriteError(rec, req, apperrors.ErrForbidden, testLogger())

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var resp Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
}

func TestWriteError_UnknownError_Returns500(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	WriteError(rec, req, fmt.Errorf("something unexpected"), testLogger())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
}

// --- WriteValidationError ---

func TestWriteValidationError_NonValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteValidationError(rec, fmt.Errorf("not a validation error"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

// --- Response struct ---

func TestResponse_NilError_OmitsErrorField(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, Response{Data: "ok"})

	var raw map[string]json.RawMessage
	err := json.NewDecoder(rec.Body).Decode(&raw)
	require.NoError(t, err)
	_, hasError := raw["error"]
	assert.False(t, hasError, "error field should be omitted when nil")
}

// --- PaginatedResponse ---

func TestNewPaginatedResponse_ComputesTotalPages(t *testing.T) {
	resp := NewPaginatedResponse([]string{"a", "b"}, 25, 1, 10)
	assert.Equal(t, 3, resp.TotalPages)
	assert.True(t, resp.HasNext)
	assert.Equal(t, 2, len(resp.Data))
}

func TestNewPaginatedResponse_LastPage(t *testing.T) {
	resp := NewPaginatedResponse([]string{"x"}, 21, 3, 10)
	assert.Equal(t, 3, resp.TotalPages)
	assert.False(t, resp.HasNext)
}

func TestNewPaginatedResponse_NilDataBecomesEmptySlice(t *testing.T) {
	resp := NewPaginatedResponse[string](nil, 0, 1, 20)
	assert.NotNil(t, resp.Data)
	assert.Equal(t, 0, len(resp.Data))
	assert.Equal(t, 0, resp.TotalPages)
	assert.False(t, resp.HasNext)
}

// --- ParseID ---

func TestParseID_Valid(t *testing.T) {
	rec := httptest.NewRecorder()
	id, ok := ParseID(rec, "42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, http.StatusOK, rec.Code) // no response written
}

func TestParseID_Zero(t *testing.T) {
	rec := httptest.NewRecorder()
	id, ok := ParseID(rec, "0")
	assert.True(t, ok)
	assert.Equal(t, int64(0), id)
}

func TestParseID_Negative_Returns400(t *testing.T) {
	rec := httptest.NewRecorder()
	_, ok := ParseID(rec, "-1")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
}

func TestParseID_NonNumeric_Returns400(t *testing.T) {
	rec := httptest.NewRecorder()
	_, ok := ParseID(rec, "abc")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "abc")
}

func TestParseID_EmptyString_Returns400(t *testing.T) {
	rec := httptest.NewRecorder()
	_, ok := ParseID(rec, "")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- WriteError RequestID (correlation_id in error responses) ---

func TestWriteError_IncludesRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx := logger.WithCorrelationID(context.Background(), "corr-123")
	req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)

	WriteError(rec, req, apperrors.ErrNotFound, testLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "corr-123", resp.Error.RequestID)
}

func TestWriteError_NoCorrelationID_OmitsRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	WriteError(rec, req, apperrors.ErrNotFound, testLogger())

	var raw map[string]json.RawMessage
	err := json.NewDecoder(rec.Body).Decode(&raw)
	require.NoError(t, err)

	var errObj map[string]json.RawMessage
	err = json.Unmarshal(raw["error"], &errObj)
	require.NoError(t, err)
	_, hasRequestID := errObj["request_id"]
	assert.False(t, hasRequestID, "request_id should be omitted when correlation_id is not in context")
}
