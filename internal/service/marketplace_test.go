package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gigvault/escrowd/internal/domain"
	"github.com/gigvault/escrowd/internal/event"
	"github.com/gigvault/escrowd/internal/repository"
	apperrors "github.com/gigvault/escrowd/pkg/errors"
	pkgkafka "github.com/gigvault/escrowd/pkg/kafka"
)

// --- Mock Repository ---

type mockServiceRepo struct {
	mock.Mock
}

func (m *mockServiceRepo) Create(ctx context.Context, svc *domain.Service) (*domain.Service, error) {
	args := m.Called(ctx, svc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

func (m *mockServiceRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

func (m *mockServiceRepo) List(ctx context.Context, filter repository.ServiceFilter) ([]domain.Service, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Service), args.Int(1), args.Error(2)
}

func (m *mockServiceRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockServiceRepo) Hire(ctx context.Context, id int64, clientID string, amount int64) error {
	args := m.Called(ctx, id, clientID, amount)
	return args.Error(0)
}

func (m *mockServiceRepo) Settle(ctx context.Context, id int64, freelancerID string) (int64, error) {
	args := m.Called(ctx, id, freelancerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockServiceRepo) Refund(ctx context.Context, id int64, clientID string) (int64, error) {
	args := m.Called(ctx, id, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockServiceRepo) Rate(ctx context.Context, id int64, rating int) error {
	args := m.Called(ctx, id, rating)
	return args.Error(0)
}

func (m *mockServiceRepo) EscrowBalance(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockServiceRepo) TotalHeld(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockServiceRepo) RatingSummary(ctx context.Context, freelancerID string) (*domain.RatingSummary, error) {
	args := m.Called(ctx, freelancerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingSummary), args.Error(1)
}

// --- Mock Rating Cache ---

type mockRatingCache struct {
	mock.Mock
}

func (m *mockRatingCache) Get(ctx context.Context, freelancerID string) (*domain.RatingSummary, error) {
	args := m.Called(ctx, freelancerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingSummary), args.Error(1)
}

func (m *mockRatingCache) Set(ctx context.Context, summary *domain.RatingSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *mockRatingCache) Invalidate(ctx context.Context, freelancerID string) error {
	args := m.Called(ctx, freelancerID)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(repo *mockServiceRepo, cache *mockRatingCache) *MarketplaceService {
	logger := newTestLogger()
	// Create a Kafka producer that will fail silently in tests (no real broker).
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	producer := event.NewProducer(kafkaProducer, logger)
	return NewMarketplaceService(repo, cache, producer, logger)
}

func strPtr(s string) *string {
	return &s
}

func offeredService() *domain.Service {
	return &domain.Service{
		ID:           3,
		FreelancerID: "freelancer-1",
		Title:        "Logo Design",
		Slug:         "logo-design",
		Description:  "A custom logo",
		Price:        5000,
		Status:       domain.StatusOffered,
		Deadline:     time.Now().UTC().Add(7 * 24 * time.Hour),
	}
}

func hiredService() *domain.Service {
	svc := offeredService()
	svc.Status = domain.StatusHired
	svc.ClientID = strPtr("client-1")
	return svc
}

func settledService() *domain.Service {
	svc := hiredService()
	svc.Status = domain.StatusSettled
	return svc
}

func validOffer() *OfferInput {
	return &OfferInput{
		FreelancerID: "freelancer-1",
		Title:        "Logo Design",
		Description:  "A custom logo",
		Price:        5000,
		DurationDays: 7,
	}
}

// ============================================================================
// Offer
// ============================================================================

func TestOffer_Success(t *testing.T) {
	repo := new(mockServiceRepo)
	cache := new(mockRatingCache)
	svc := newTestService(repo, cache)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Service) bool {
		return s.FreelancerID == "freelancer-1" &&
			s.Title == "Logo Design" &&
			s.Slug == "logo-design" &&
			s.Price == 5000 &&
			s.Status == domain.StatusOffered &&
			s.Deadline.After(time.Now().UTC().Add(6*24*time.Hour))
	})).Return(offeredService(), nil)

	created, err := svc.Offer(context.Background(), validOffer())
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, domain.StatusOffered, created.Status)
	repo.AssertExpectations(t)
}

func TestOffer_MissingCaller(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	input := validOffer()
	input.FreelancerID = ""
	created, err := svc.Offer(context.Background(), input)
	assert.Nil(t, created)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	repo.AssertNotCalled(t, "Create")
}

func TestOffer_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*OfferInput)
	}{
		{"empty title", func(in *OfferInput) { in.Title = "  " }},
		{"empty description", func(in *OfferInput) { in.Description = "" }},
		{"zero price", func(in *OfferInput) { in.Price = 0 }},
		{"negative price", func(in *OfferInput) { in.Price = -100 }},
		{"zero duration", func(in *OfferInput) { in.DurationDays = 0 }},
		{"negative duration", func(in *OfferInput) { in.DurationDays = -7 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockServiceRepo)
			svc := newTestService(repo, new(mockRatingCache))

			input := validOffer()
			tt.mutate(input)
			created, err := svc.Offer(context.Background(), input)
			assert.Nil(t, created)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			repo.AssertNotCalled(t, "Create")
		})
	}
}

// ============================================================================
// Get / List / Count
// ============================================================================

func TestGet_Success(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	repo.On("GetByID", mock.Anything, int64(3)).Return(offeredService(), nil)

	result, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.ID)
}

func TestGet_NotFound(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, apperrors.NotFound("service", 99))

	result, err := svc.Get(context.Background(), 99)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestList_Success(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	filter := repository.ServiceFilter{Status: domain.StatusOffered, Page: 1, PerPage: 20}
	repo.On("List", mock.Anything, filter).Return([]domain.Service{*offeredService()}, 1, nil)

	services, total, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, services, 1)
	assert.Equal(t, 1, total)
}

func TestList_InvalidStatusFilter(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	_, _, err := svc.List(context.Background(), repository.ServiceFilter{Status: "bogus"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "List")
}

func TestCount_Success(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	repo.On("Count", mock.Anything).Return(int64(42), nil)

	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
}

// ============================================================================
// Hire
// ============================================================================

func TestHire_Success(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	repo.On("GetByID", mock.Anything, int64(3)).Return(offeredService(), nil)
	repo.On("Hire", mock.Anything, int64(3), "client-1", int64(5000)).Return(nil)

	result, err := svc.Hire(context.Background(), 3, "client-1", 5000)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusHired, result.Status)
	require.NotNil(t, result.ClientID)
	assert.Equal(t, "client-1", *result.ClientID)
	repo.AssertExpectations(t)
}

func TestHire_MissingCaller(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	result, err := svc.Hire(context.Background(), 3, "", 5000)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	repo.AssertNotCalled(t, "GetByID")
}

func TestHire_NotFound(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, apperrors.NotFound("service", 99))

	result, err := svc.Hire(context.Background(), 99, "client-1", 5000)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestHire_SelfHire(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	repo.On("GetByID", mock.Anything, int64(3)).Return(offeredService(), nil)

	result, err := svc.Hire(context.Background(), 3, "freelancer-1", 5000)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Hire")
}

func TestHire_AlreadyHired(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	repo.On("GetByID", mock.Anything, int64(3)).Return(hiredService(), nil)

	result, err := svc.Hire(context.Background(), 3, "client-2", 5000)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	repo.AssertNotCalled(t, "Hire")
}

func TestHire_ExpiredOffer(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	expired := offeredService()
	expired.Deadline = time.Now().UTC().Add(-time.Hour)
	repo.On("GetByID", mock.Anything, int64(3)).Return(expired, nil)

	result, err := svc.Hire(context.Background(), 3, "client-1", 5000)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	repo.AssertNotCalled(t, "Hire")
}

func TestHire_PaymentMismatch(t *testing.T) {
	for _, amount := range []int64{4999, 5001, 0, -5000} {
		repo := new(mockServiceRepo)
		svc := newTestService(repo, new(mockRatingCache))

		repo.On("GetByID", mock.Anything, int64(3)).Return(offeredService(), nil)

		result, err := svc.Hire(context.Background(), 3, "client-1", amount)
		assert.Nil(t, result)
		require.ErrorIs(t, err, apperrors.ErrPaymentMismatch, "amount %d", amount)
		assert.Contains(t, err.Error(), "payment must match service price")
		repo.AssertNotCalled(t, "Hire")
	}
}

// ============================================================================
// ReleasePayment
// ============================================================================

func TestReleasePayment_Success(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	repo.On("GetByID", mock.Anything, int64(3)).Return(hiredService(), nil)
	repo.On("Settle", mock.Anything, int64(3), "freelancer-1").Return(int64(5000), nil)

	result, err := svc.ReleasePayment(context.Background(), 3, "client-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSettled, result.Status)
	repo.AssertExpectations(t)
}

func TestReleasePayment_NotClient(t *testing.T) {
	for _, caller := range []string{"freelancer-1", "someone-else"} {
		repo := new(mockServiceRepo)
		svc := newTestService(repo, new(mockRatingCache))

		repo.On("GetByID", mock.Anything, int64(3)).Return(hiredService(), nil)

		result, err := svc.ReleasePayment(context.Background(), 3, caller)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized, "caller %s", caller)
		repo.AssertNotCalled(t, "Settle")
	}
}

func TestReleasePayment_NeverHired(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	repo.On("GetByID", mock.Anything, int64(3)).Return(offeredService(), nil)

	result, err := svc.ReleasePayment(context.Background(), 3, "client-1")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestReleasePayment_Replay(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	repo.On("GetByID", mock.Anything, int64(3)).Return(settledService(), nil)

	result, err := svc.ReleasePayment(context.Background(), 3, "client-1")
	assert.Nil(t, result)
	require.ErrorIs(t, err, apperrors.ErrInvalidState)
	assert.Contains(t, err.Error(), "payment already released")
	repo.AssertNotCalled(t, "Settle")
}

func TestReleasePayment_AfterRefund(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	refunded := hiredService()
	refunded.Status = domain.StatusRefunded
	repo.On("GetByID", mock.Anything, int64(3)).Return(refunded, nil)

	result, err := svc.ReleasePayment(context.Background(), 3, "client-1")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

// ============================================================================
// RefundClient
// ============================================================================

func expiredHiredService() *domain.Service {
	svc := hiredService()
	svc.Deadline = time.Now().UTC().Add(-time.Hour)
	return svc
}

func TestRefundClient_Success(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	repo.On("GetByID", mock.Anything, int64(3)).Return(expiredHiredService(), nil)
	repo.On("Refund", mock.Anything, int64(3), "client-1").Return(int64(5000), nil)

	result, err := svc.RefundClient(context.Background(), 3, "client-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, result.Status)
	repo.AssertExpectations(t)
}

func TestRefundClient_NotClient(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	repo.On("GetByID", mock.Anything, int64(3)).Return(expiredHiredService(), nil)

	result, err := svc.RefundClient(context.Background(), 3, "freelancer-1")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	repo.AssertNotCalled(t, "Refund")
}

func TestRefundClient_DeadlineNotReached(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	repo.On("GetByID", mock.Anything, int64(3)).Return(hiredService(), nil)

	result, err := svc.RefundClient(context.Background(), 3, "client-1")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrDeadlineNotReached)
	repo.AssertNotCalled(t, "Refund")
}

func TestRefundClient_AlreadySettled(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	settled := settledService()
	settled.Deadline = time.Now().UTC().Add(-time.Hour)
	repo.On("GetByID", mock.Anything, int64(3)).Return(settled, nil)

	result, err := svc.RefundClient(context.Background(), 3, "client-1")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNoFunds)
	repo.AssertNotCalled(t, "Refund")
}

func TestRefundClient_Replay(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	refunded := expiredHiredService()
	refunded.Status = domain.StatusRefunded
	repo.On("GetByID", mock.Anything, int64(3)).Return(refunded, nil)

	result, err := svc.RefundClient(context.Background(), 3, "client-1")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNoFunds)
}

// ============================================================================
// Rate
// ============================================================================

func TestRate_Success(t *testing.T) {
	repo := new(mockServiceRepo)
	cache := new(mockRatingCache)
	svc := newTestService(repo, cache)

	repo.On("GetByID", mock.Anything, int64(3)).Return(settledService(), nil)
	repo.On("Rate", mock.Anything, int64(3), 5).Return(nil)
	cache.On("Invalidate", mock.Anything, "freelancer-1").Return(nil)

	result, err := svc.Rate(context.Background(), 3, "client-1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Rating)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestRate_NotClient(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	repo.On("GetByID", mock.Anything, int64(3)).Return(settledService(), nil)

	result, err := svc.Rate(context.Background(), 3, "freelancer-1", 5)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	repo.AssertNotCalled(t, "Rate")
}

func TestRate_NotSettled(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	repo.On("GetByID", mock.Anything, int64(3)).Return(hiredService(), nil)

	result, err := svc.Rate(context.Background(), 3, "client-1", 5)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	repo.AssertNotCalled(t, "Rate")
}

func TestRate_OutOfRange(t *testing.T) {
	for _, rating := range []int{0, 6, -1, 100} {
		repo := new(mockServiceRepo)
		svc := newTestService(repo, new(mockRatingCache))

		repo.On("GetByID", mock.Anything, int64(3)).Return(settledService(), nil)

		result, err := svc.Rate(context.Background(), 3, "client-1", rating)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "rating %d", rating)
		repo.AssertNotCalled(t, "Rate")
	}
}

func TestRate_AlreadyRated(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	rated := settledService()
	rated.Rating = 4
	repo.On("GetByID", mock.Anything, int64(3)).Return(rated, nil)

	result, err := svc.Rate(context.Background(), 3, "client-1", 5)
	assert.Nil(t, result)
	require.ErrorIs(t, err, apperrors.ErrInvalidState)
	assert.Contains(t, err.Error(), "already rated")
	repo.AssertNotCalled(t, "Rate")
}

func TestRate_CacheInvalidationFailureDoesNotFail(t *testing.T) {
	repo := new(mockServiceRepo)
	cache := new(mockRatingCache)
	svc := newTestService(repo, cache)

	repo.On("GetByID", mock.Anything, int64(3)).Return(settledService(), nil)
	repo.On("Rate", mock.Anything, int64(3), 4).Return(nil)
	cache.On("Invalidate", mock.Anything, "freelancer-1").Return(errors.New("redis down"))

	result, err := svc.Rate(context.Background(), 3, "client-1", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Rating)
}

// ============================================================================
// RatingSummary
// ============================================================================

func TestRatingSummary_CacheHit(t *testing.T) {
	repo := new(mockServiceRepo)
	cache := new(mockRatingCache)
	svc := newTestService(repo, cache)

	cached := &domain.RatingSummary{FreelancerID: "freelancer-1", Count: 2, Average: 4}
	cache.On("Get", mock.Anything, "freelancer-1").Return(cached, nil)

	summary, err := svc.RatingSummary(context.Background(), "freelancer-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Count)
	assert.Equal(t, 4, summary.Average)
	repo.AssertNotCalled(t, "RatingSummary")
}

func TestRatingSummary_CacheMiss(t *testing.T) {
	repo := new(mockServiceRepo)
	cache := new(mockRatingCache)
	svc := newTestService(repo, cache)

	fresh := &domain.RatingSummary{FreelancerID: "freelancer-1", Sum: 9, Count: 2, Average: 5}
	cache.On("Get", mock.Anything, "freelancer-1").Return(nil, apperrors.NotFound("rating summary", "freelancer-1"))
	repo.On("RatingSummary", mock.Anything, "freelancer-1").Return(fresh, nil)
	cache.On("Set", mock.Anything, fresh).Return(nil)

	summary, err := svc.RatingSummary(context.Background(), "freelancer-1")
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Average)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestRatingSummary_UnratedFreelancer(t *testing.T) {
	repo := new(mockServiceRepo)
	cache := new(mockRatingCache)
	svc := newTestService(repo, cache)

	empty := &domain.RatingSummary{FreelancerID: "freelancer-x"}
	cache.On("Get", mock.Anything, "freelancer-x").Return(nil, apperrors.NotFound("rating summary", "freelancer-x"))
	repo.On("RatingSummary", mock.Anything, "freelancer-x").Return(empty, nil)
	cache.On("Set", mock.Anything, empty).Return(nil)

	summary, err := svc.RatingSummary(context.Background(), "freelancer-x")
	require.NoError(t, err)
	assert.Zero(t, summary.Count)
	assert.Zero(t, summary.Average)
}

func TestRatingSummary_MissingID(t *testing.T) {
	svc := newTestService(new(mockServiceRepo), new(mockRatingCache))

	summary, err := svc.RatingSummary(context.Background(), "")
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

// ============================================================================
// Escrow views
// ============================================================================

func TestEscrowBalance_Success(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	repo.On("GetByID", mock.Anything, int64(3)).Return(hiredService(), nil)
	repo.On("EscrowBalance", mock.Anything, int64(3)).Return(int64(5000), nil)

	balance, err := svc.EscrowBalance(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), balance)
}

func TestEscrowBalance_NotFound(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, apperrors.NotFound("service", 99))

	_, err := svc.EscrowBalance(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertNotCalled(t, "EscrowBalance")
}

func TestTotalHeld(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := newTestService(repo, new(mockRatingCache))

	repo.On("TotalHeld", mock.Anything).Return(int64(12500), nil)

	total, err := svc.TotalHeld(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12500), total)
}
