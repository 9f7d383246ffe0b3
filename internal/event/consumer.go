package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gigvault/escrowd/internal/treasury"
	pkgkafka "github.com/gigvault/escrowd/pkg/kafka"
)

// PayoutConsumer executes external fund transfers for settled and refunded
// services. It runs strictly after the ledger has committed the terminal
// state; a transfer failure is retried by the Kafka consumer and never rolls
// the ledger back.
type PayoutConsumer struct {
	treasury treasury.Treasury
	logger   *slog.Logger
}

// NewPayoutConsumer creates a new payout consumer.
func NewPayoutConsumer(t treasury.Treasury, logger *slog.Logger) *PayoutConsumer {
	return &PayoutConsumer{
		treasury: t,
		logger:   logger,
	}
}

// HandlePaymentReleased processes payment.released events by paying the
// freelancer.
func (c *PayoutConsumer) HandlePaymentReleased(ctx context.Context, event *pkgkafka.Event) error {
	var data PaymentReleasedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("unmarshal payment.released data: %w", err)
	}

	return c.transfer(ctx, event.EventID, treasury.TransferInput{
		ServiceID: data.ServiceID,
		Recipient: data.FreelancerID,
		Amount:    data.Amount,
		Kind:      treasury.KindPayout,
		Reference: event.EventID,
	})
}

// HandleClientRefunded processes client.refunded events by returning the
// funds to the client.
func (c *PayoutConsumer) HandleClientRefunded(ctx context.Context, event *pkgkafka.Event) error {
	var data ClientRefundedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("unmarshal client.refunded data: %w", err)
	}

	return c.transfer(ctx, event.EventID, treasury.TransferInput{
		ServiceID: data.ServiceID,
		Recipient: data.ClientID,
		Amount:    data.Amount,
		Kind:      treasury.KindRefund,
		Reference: event.EventID,
	})
}

func (c *PayoutConsumer) transfer(ctx context.Context, eventID string, input treasury.TransferInput) error {
	c.logger.InfoContext(ctx, "executing fund transfer",
		slog.Int64("service_id", input.ServiceID),
		slog.String("kind", input.Kind),
		slog.Int64("amount", input.Amount),
		slog.String("event_id", eventID),
	)

	result, err := c.treasury.Transfer(ctx, input)
	if err != nil {
		return fmt.Errorf("transfer funds for service %d: %w", input.ServiceID, err)
	}

	c.logger.InfoContext(ctx, "fund transfer completed",
		slog.Int64("service_id", input.ServiceID),
		slog.String("transfer_id", result.TransferID),
		slog.String("status", result.Status),
	)

	return nil
}
