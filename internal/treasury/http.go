package treasury

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gigvault/escrowd/pkg/httpclient"
)

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// HTTPTreasury calls a remote treasury service over HTTP.
type HTTPTreasury struct {
	client  HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewHTTPTreasury creates a treasury client against the given base URL.
func NewHTTPTreasury(client HTTPDoer, baseURL string, logger *slog.Logger) *HTTPTreasury {
	return &HTTPTreasury{
		client:  client,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Transfer posts the fund movement to the treasury service.
func (t *HTTPTreasury) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal transfer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/api/v1/transfers", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create transfer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call treasury service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, httpclient.ParseResponseError(resp, "treasury")
	}

	var result TransferResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode transfer response: %w", err)
	}

	t.logger.InfoContext(ctx, "treasury transfer executed",
		slog.Int64("service_id", input.ServiceID),
		slog.String("kind", input.Kind),
		slog.Int64("amount", input.Amount),
		slog.String("transfer_id", result.TransferID),
	)

	return &result, nil
}
