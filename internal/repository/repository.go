package repository

import (
	"context"

	"github.com/gigvault/escrowd/internal/domain"
)

// ServiceFilter narrows List results. Zero values mean no filtering.
type ServiceFilter struct {
	FreelancerID string
	ClientID     string
	Status       string
	Page         int
	PerPage      int
}

// ServiceRepository defines the interface for service ledger persistence.
type ServiceRepository interface {
	// Create inserts a new service offering and returns it with its
	// assigned sequential id.
	Create(ctx context.Context, svc *domain.Service) (*domain.Service, error)

	// GetByID retrieves a service by its identifier.
	GetByID(ctx context.Context, id int64) (*domain.Service, error)

	// List returns services matching the filter plus the total match count.
	List(ctx context.Context, filter ServiceFilter) ([]domain.Service, int, error)

	// Count returns the total number of services ever created.
	Count(ctx context.Context) (int64, error)

	// Hire transitions an offered service to hired, sets the client and
	// credits the escrow account, all in one transaction.
	Hire(ctx context.Context, id int64, clientID string, amount int64) error

	// Settle transitions a hired service to settled and drains its escrow
	// toward the freelancer. It returns the released amount.
	Settle(ctx context.Context, id int64, freelancerID string) (int64, error)

	// Refund transitions a hired service to refunded and drains its escrow
	// back to the client. It returns the refunded amount.
	Refund(ctx context.Context, id int64, clientID string) (int64, error)

	// Rate records the client rating for a settled, unrated service.
	Rate(ctx context.Context, id int64, rating int) error

	// EscrowBalance returns the funds currently held for a service.
	// Services that were never hired report a zero balance.
	EscrowBalance(ctx context.Context, id int64) (int64, error)

	// TotalHeld returns the sum of all escrow balances.
	TotalHeld(ctx context.Context) (int64, error)

	// RatingSummary aggregates the ratings received by a freelancer.
	RatingSummary(ctx context.Context, freelancerID string) (*domain.RatingSummary, error)
}

// RatingCache is a read-through cache for rating summaries. Get returns
// ErrNotFound on a miss.
type RatingCache interface {
	Get(ctx context.Context, freelancerID string) (*domain.RatingSummary, error)
	Set(ctx context.Context, summary *domain.RatingSummary) error
	Invalidate(ctx context.Context, freelancerID string) error
}
