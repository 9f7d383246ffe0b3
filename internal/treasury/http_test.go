package treasury

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gigvault/escrowd/pkg/errors"
	"github.com/gigvault/escrowd/pkg/httpclient"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient() *httpclient.Client {
	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	cfg.Timeout = 2 * time.Second
	return httpclient.New(cfg)
}

func TestHTTPTreasury_Transfer_Success(t *testing.T) {
	var received TransferInput
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/transfers", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(TransferResult{TransferID: "tx-1", Status: "completed"})
	}))
	defer srv.Close()

	tr := NewHTTPTreasury(newTestClient(), srv.URL, newTestLogger())
	result, err := tr.Transfer(context.Background(), TransferInput{
		ServiceID: 3,
		Recipient: "freelancer-1",
		Amount:    5000,
		Kind:      KindPayout,
		Reference: "evt-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "tx-1", result.TransferID)
	assert.Equal(t, "completed", result.Status)
	assert.Equal(t, int64(3), received.ServiceID)
	assert.Equal(t, KindPayout, received.Kind)
	assert.Equal(t, "evt-1", received.Reference)
}

func TestHTTPTreasury_Transfer_DownstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"INSUFFICIENT_RESERVE","message":"reserve account empty"}}`))
	}))
	defer srv.Close()

	tr := NewHTTPTreasury(newTestClient(), srv.URL, newTestLogger())
	result, err := tr.Transfer(context.Background(), TransferInput{ServiceID: 3, Amount: 5000, Kind: KindRefund})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserve account empty")
}

func TestHTTPTreasury_Transfer_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	tr := NewHTTPTreasury(newTestClient(), srv.URL, newTestLogger())
	result, err := tr.Transfer(context.Background(), TransferInput{ServiceID: 3, Amount: 5000, Kind: KindPayout})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode transfer response")
}

func TestHTTPTreasury_Transfer_NotFoundMapsToAppError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"unknown recipient"}}`))
	}))
	defer srv.Close()

	tr := NewHTTPTreasury(newTestClient(), srv.URL, newTestLogger())
	_, err := tr.Transfer(context.Background(), TransferInput{ServiceID: 3, Amount: 5000, Kind: KindPayout})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
