package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gigvault/escrowd/internal/domain"
	"github.com/gigvault/escrowd/internal/event"
	"github.com/gigvault/escrowd/internal/repository"
	apperrors "github.com/gigvault/escrowd/pkg/errors"
	"github.com/gigvault/escrowd/pkg/slug"
)

// MarketplaceService implements the business logic for the service ledger.
// A single mutex serializes every state-changing operation, so concurrent
// hires, releases and refunds observe each other's committed state and the
// repository guards only catch races from outside this process.
type MarketplaceService struct {
	repo     repository.ServiceRepository
	cache    repository.RatingCache
	producer *event.Producer
	logger   *slog.Logger

	mu sync.Mutex
}

// NewMarketplaceService creates a new marketplace service.
func NewMarketplaceService(
	repo repository.ServiceRepository,
	cache repository.RatingCache,
	producer *event.Producer,
	logger *slog.Logger,
) *MarketplaceService {
	return &MarketplaceService{
		repo:     repo,
		cache:    cache,
		producer: producer,
		logger:   logger,
	}
}

// OfferInput holds the parameters for offering a new service.
type OfferInput struct {
	FreelancerID string
	Title        string
	Description  string
	Price        int64
	DurationDays int
}

// Offer registers a new service offering. The delivery deadline is the offer
// time plus the stated duration.
func (s *MarketplaceService) Offer(ctx context.Context, input *OfferInput) (*domain.Service, error) {
	if input.FreelancerID == "" {
		return nil, apperrors.Unauthorized("caller identity is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.InvalidInput("description is required")
	}
	if input.Price <= 0 {
		return nil, apperrors.InvalidInput("price must be positive")
	}
	if input.DurationDays <= 0 {
		return nil, apperrors.InvalidInput("duration must be at least one day")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	svc := &domain.Service{
		FreelancerID: input.FreelancerID,
		Title:        input.Title,
		Slug:         slug.Generate(input.Title),
		Description:  input.Description,
		Price:        input.Price,
		Status:       domain.StatusOffered,
		Deadline:     now.AddDate(0, 0, input.DurationDays),
	}

	created, err := s.repo.Create(ctx, svc)
	if err != nil {
		return nil, fmt.Errorf("offer service: %w", err)
	}

	if err := s.producer.PublishServiceOffered(ctx, created); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish service.offered event",
			slog.Int64("service_id", created.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "service offered",
		slog.Int64("service_id", created.ID),
		slog.String("freelancer_id", created.FreelancerID),
		slog.Int64("price", created.Price),
	)

	return created, nil
}

// Get retrieves a service by its ID.
func (s *MarketplaceService) Get(ctx context.Context, id int64) (*domain.Service, error) {
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get service by id: %w", err)
	}
	return svc, nil
}

// List returns services matching the filter plus the total match count.
func (s *MarketplaceService) List(ctx context.Context, filter repository.ServiceFilter) ([]domain.Service, int, error) {
	if filter.Status != "" && !domain.IsValidStatus(filter.Status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("invalid status %q, must be one of: %s", filter.Status, strings.Join(domain.ValidStatuses(), ", ")))
	}

	services, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list services: %w", err)
	}
	return services, total, nil
}

// Count returns the total number of services ever offered.
func (s *MarketplaceService) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count services: %w", err)
	}
	return count, nil
}

// Hire places the caller as the client of an offered service and deposits
// the payment into escrow. The amount must equal the service price exactly.
func (s *MarketplaceService) Hire(ctx context.Context, id int64, callerID string, amount int64) (*domain.Service, error) {
	if callerID == "" {
		return nil, apperrors.Unauthorized("caller identity is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get service by id: %w", err)
	}

	if callerID == svc.FreelancerID {
		return nil, apperrors.InvalidInput("freelancers cannot hire their own service")
	}
	if !svc.CanTransitionTo(domain.StatusHired) {
		return nil, apperrors.InvalidState("service is not open for hiring")
	}
	if svc.DeadlineReached(time.Now().UTC()) {
		return nil, apperrors.InvalidState("service offer has expired")
	}
	if amount != svc.Price {
		return nil, apperrors.PaymentMismatch(svc.Price, amount)
	}

	if err := s.repo.Hire(ctx, id, callerID, amount); err != nil {
		return nil, fmt.Errorf("hire service: %w", err)
	}

	svc.Status = domain.StatusHired
	svc.ClientID = &callerID

	if err := s.producer.PublishServiceHired(ctx, svc, amount); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish service.hired event",
			slog.Int64("service_id", svc.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "service hired",
		slog.Int64("service_id", svc.ID),
		slog.String("client_id", callerID),
		slog.Int64("amount", amount),
	)

	return svc, nil
}

// ReleasePayment settles a hired service and hands the escrowed funds to the
// freelancer. Only the hiring client may release. The ledger commits the
// settled state first; the actual transfer runs off the published event.
func (s *MarketplaceService) ReleasePayment(ctx context.Context, id int64, callerID string) (*domain.Service, error) {
	if callerID == "" {
		return nil, apperrors.Unauthorized("caller identity is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get service by id: %w", err)
	}

	if svc.ClientID == nil || *svc.ClientID != callerID {
		return nil, apperrors.Unauthorized("only the hiring client can release payment")
	}
	if !svc.CanTransitionTo(domain.StatusSettled) {
		if svc.Status == domain.StatusSettled {
			return nil, apperrors.InvalidState("payment already released")
		}
		return nil, apperrors.InvalidState("payment was refunded to the client")
	}

	amount, err := s.repo.Settle(ctx, id, svc.FreelancerID)
	if err != nil {
		return nil, fmt.Errorf("settle service: %w", err)
	}

	svc.Status = domain.StatusSettled

	if err := s.producer.PublishPaymentReleased(ctx, svc, amount); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish payment.released event",
			slog.Int64("service_id", svc.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "payment released",
		slog.Int64("service_id", svc.ID),
		slog.String("freelancer_id", svc.FreelancerID),
		slog.Int64("amount", amount),
	)

	return svc, nil
}

// RefundClient returns the escrowed funds to the client of a hired service
// whose deadline has passed without a release.
func (s *MarketplaceService) RefundClient(ctx context.Context, id int64, callerID string) (*domain.Service, error) {
	if callerID == "" {
		return nil, apperrors.Unauthorized("caller identity is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get service by id: %w", err)
	}

	if svc.ClientID == nil || *svc.ClientID != callerID {
		return nil, apperrors.Unauthorized("only the hiring client can request a refund")
	}
	if !svc.DeadlineReached(time.Now().UTC()) {
		return nil, apperrors.DeadlineNotReached("refunds are only available once the service deadline has passed")
	}
	if !svc.CanTransitionTo(domain.StatusRefunded) {
		// Settled and refunded services hold nothing in escrow.
		return nil, apperrors.NoFunds(id)
	}

	amount, err := s.repo.Refund(ctx, id, callerID)
	if err != nil {
		return nil, fmt.Errorf("refund service: %w", err)
	}

	svc.Status = domain.StatusRefunded

	if err := s.producer.PublishClientRefunded(ctx, svc, amount); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish client.refunded event",
			slog.Int64("service_id", svc.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "client refunded",
		slog.Int64("service_id", svc.ID),
		slog.String("client_id", callerID),
		slog.Int64("amount", amount),
	)

	return svc, nil
}

// Rate records the client's rating for a settled service. A service can be
// rated exactly once.
func (s *MarketplaceService) Rate(ctx context.Context, id int64, callerID string, rating int) (*domain.Service, error) {
	if callerID == "" {
		return nil, apperrors.Unauthorized("caller identity is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get service by id: %w", err)
	}

	if svc.ClientID == nil || *svc.ClientID != callerID {
		return nil, apperrors.Unauthorized("only the hiring client can rate the service")
	}
	if svc.Status != domain.StatusSettled {
		return nil, apperrors.InvalidState("only settled services can be rated")
	}
	if !domain.IsValidRating(rating) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	if svc.IsRated() {
		return nil, apperrors.InvalidState("service already rated")
	}

	if err := s.repo.Rate(ctx, id, rating); err != nil {
		return nil, fmt.Errorf("rate service: %w", err)
	}

	svc.Rating = rating

	if err := s.cache.Invalidate(ctx, svc.FreelancerID); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate rating cache",
			slog.String("freelancer_id", svc.FreelancerID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishServiceRated(ctx, svc); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish service.rated event",
			slog.Int64("service_id", svc.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "service rated",
		slog.Int64("service_id", svc.ID),
		slog.Int("rating", rating),
	)

	return svc, nil
}

// RatingSummary returns a freelancer's aggregated ratings, reading through
// the cache.
func (s *MarketplaceService) RatingSummary(ctx context.Context, freelancerID string) (*domain.RatingSummary, error) {
	if freelancerID == "" {
		return nil, apperrors.InvalidInput("freelancer id is required")
	}

	if cached, err := s.cache.Get(ctx, freelancerID); err == nil {
		return cached, nil
	}

	summary, err := s.repo.RatingSummary(ctx, freelancerID)
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}

	if err := s.cache.Set(ctx, summary); err != nil {
		s.logger.WarnContext(ctx, "failed to cache rating summary",
			slog.String("freelancer_id", freelancerID),
			slog.String("error", err.Error()),
		)
	}

	return summary, nil
}

// EscrowBalance returns the funds currently held for a service.
func (s *MarketplaceService) EscrowBalance(ctx context.Context, id int64) (int64, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return 0, fmt.Errorf("get service by id: %w", err)
	}

	balance, err := s.repo.EscrowBalance(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("get escrow balance: %w", err)
	}
	return balance, nil
}

// TotalHeld returns the sum of every escrow balance. The app refreshes the
// held-funds gauge from it.
func (s *MarketplaceService) TotalHeld(ctx context.Context) (int64, error) {
	total, err := s.repo.TotalHeld(ctx)
	if err != nil {
		return 0, fmt.Errorf("sum escrow balances: %w", err)
	}
	return total, nil
}
