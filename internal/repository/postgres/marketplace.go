package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gigvault/escrowd/internal/domain"
	"github.com/gigvault/escrowd/internal/repository"
	"github.com/gigvault/escrowd/pkg/database"
	apperrors "github.com/gigvault/escrowd/pkg/errors"
)

// MarketplaceRepository implements ServiceRepository using PostgreSQL.
type MarketplaceRepository struct {
	pool database.DBTX
}

// NewMarketplaceRepository creates a new PostgreSQL-backed marketplace repository.
func NewMarketplaceRepository(pool database.DBTX) *MarketplaceRepository {
	return &MarketplaceRepository{pool: pool}
}

const serviceColumns = `id, freelancer_id, client_id, title, slug, description, price, status, rating, deadline, created_at, updated_at`

func scanService(row pgx.Row) (*domain.Service, error) {
	var s domain.Service
	err := row.Scan(
		&s.ID,
		&s.FreelancerID,
		&s.ClientID,
		&s.Title,
		&s.Slug,
		&s.Description,
		&s.Price,
		&s.Status,
		&s.Rating,
		&s.Deadline,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new service offering and returns it with its assigned id.
func (r *MarketplaceRepository) Create(ctx context.Context, svc *domain.Service) (*domain.Service, error) {
	query := `
		INSERT INTO services (freelancer_id, title, slug, description, price, status, deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + serviceColumns

	result, err := scanService(r.pool.QueryRow(ctx, query,
		svc.FreelancerID,
		svc.Title,
		svc.Slug,
		svc.Description,
		svc.Price,
		svc.Status,
		svc.Deadline,
	))
	if err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	return result, nil
}

// GetByID retrieves a service by its identifier.
func (r *MarketplaceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	query := `
		SELECT ` + serviceColumns + `
		FROM services
		WHERE id = $1`

	result, err := scanService(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("service", id)
		}
		return nil, fmt.Errorf("get service by id: %w", err)
	}

	return result, nil
}

// List returns services matching the filter plus the total match count.
func (r *MarketplaceRepository) List(ctx context.Context, filter repository.ServiceFilter) ([]domain.Service, int, error) {
	page := filter.Page
	perPage := filter.PerPage
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	var (
		conditions []string
		args       []interface{}
	)
	addCondition := func(column, value string) {
		args = append(args, value)
		conditions = append(conditions, column+" = $"+strconv.Itoa(len(args)))
	}
	if filter.FreelancerID != "" {
		addCondition("freelancer_id", filter.FreelancerID)
	}
	if filter.ClientID != "" {
		addCondition("client_id", filter.ClientID)
	}
	if filter.Status != "" {
		addCondition("status", filter.Status)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM services
		%s
		ORDER BY id ASC
		LIMIT $%d OFFSET $%d`,
		serviceColumns, where, len(args)+1, len(args)+2)
	args = append(args, perPage, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var (
		services   []domain.Service
		totalCount int
	)

	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(
			&s.ID,
			&s.FreelancerID,
			&s.ClientID,
			&s.Title,
			&s.Slug,
			&s.Description,
			&s.Price,
			&s.Status,
			&s.Rating,
			&s.Deadline,
			&s.CreatedAt,
			&s.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan service row: %w", err)
		}
		services = append(services, s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate service rows: %w", err)
	}

	if services == nil {
		services = []domain.Service{}
	}

	return services, totalCount, nil
}

// Count returns the total number of services ever created. Services are
// never deleted, so the row count equals the number ever offered.
func (r *MarketplaceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM services`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count services: %w", err)
	}
	return count, nil
}

// Hire transitions an offered service to hired, sets the client and credits
// the escrow account. The status guard in the UPDATE turns a lost race into
// an invalid-state error instead of a double credit.
func (r *MarketplaceRepository) Hire(ctx context.Context, id int64, clientID string, amount int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx, `
		UPDATE services
		SET status = $1, client_id = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4`,
		domain.StatusHired, clientID, id, domain.StatusOffered)
	if err != nil {
		return fmt.Errorf("hire service: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.InvalidState("service is not open for hiring")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO escrow_accounts (service_id, balance, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (service_id) DO UPDATE SET
			balance = escrow_accounts.balance + EXCLUDED.balance,
			updated_at = NOW()`,
		id, amount)
	if err != nil {
		return fmt.Errorf("credit escrow: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO escrow_movements (id, service_id, amount, direction, recipient)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.NewString(), id, amount, domain.MovementCredit, "")
	if err != nil {
		return fmt.Errorf("insert escrow movement: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Settle transitions a hired service to settled and drains its escrow toward
// the freelancer. It returns the released amount.
func (r *MarketplaceRepository) Settle(ctx context.Context, id int64, freelancerID string) (int64, error) {
	return r.drain(ctx, id, domain.StatusSettled, domain.MovementRelease, freelancerID)
}

// Refund transitions a hired service to refunded and drains its escrow back
// to the client. It returns the refunded amount.
func (r *MarketplaceRepository) Refund(ctx context.Context, id int64, clientID string) (int64, error) {
	return r.drain(ctx, id, domain.StatusRefunded, domain.MovementRefund, clientID)
}

// drain moves a hired service to a terminal status and zeroes its escrow in
// one transaction, recording the movement toward the recipient.
func (r *MarketplaceRepository) drain(ctx context.Context, id int64, target, direction, recipient string) (int64, error) {
	if !domain.IsValidMovementDirection(direction) {
		return 0, fmt.Errorf("invalid escrow movement direction %q", direction)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx, `
		UPDATE services
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`,
		target, id, domain.StatusHired)
	if err != nil {
		return 0, fmt.Errorf("update service status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return 0, apperrors.InvalidState("service has no payment to move")
	}

	var balance int64
	err = tx.QueryRow(ctx, `
		SELECT balance FROM escrow_accounts
		WHERE service_id = $1
		FOR UPDATE`, id).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NoFunds(id)
		}
		return 0, fmt.Errorf("lock escrow account: %w", err)
	}
	if balance <= 0 {
		return 0, apperrors.NoFunds(id)
	}

	_, err = tx.Exec(ctx, `
		UPDATE escrow_accounts
		SET balance = 0, updated_at = NOW()
		WHERE service_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("drain escrow: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO escrow_movements (id, service_id, amount, direction, recipient)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.NewString(), id, balance, direction, recipient)
	if err != nil {
		return 0, fmt.Errorf("insert escrow movement: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return balance, nil
}

// Rate records the client rating for a settled, unrated service. The guard
// rejects replays that slipped past the service layer.
func (r *MarketplaceRepository) Rate(ctx context.Context, id int64, rating int) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE services
		SET rating = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3 AND rating = 0`,
		rating, id, domain.StatusSettled)
	if err != nil {
		return fmt.Errorf("rate service: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.InvalidState("service cannot be rated")
	}
	return nil
}

// EscrowBalance returns the funds currently held for a service. Services
// that were never hired have no account row and report zero.
func (r *MarketplaceRepository) EscrowBalance(ctx context.Context, id int64) (int64, error) {
	var balance int64
	err := r.pool.QueryRow(ctx, `
		SELECT balance FROM escrow_accounts
		WHERE service_id = $1`, id).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get escrow balance: %w", err)
	}
	return balance, nil
}

// TotalHeld returns the sum of all escrow balances.
func (r *MarketplaceRepository) TotalHeld(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(balance), 0) FROM escrow_accounts`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum escrow balances: %w", err)
	}
	return total, nil
}

// RatingSummary aggregates the ratings received by a freelancer. The sum and
// count stay exact integers; the average is derived afterward.
func (r *MarketplaceRepository) RatingSummary(ctx context.Context, freelancerID string) (*domain.RatingSummary, error) {
	summary := domain.RatingSummary{FreelancerID: freelancerID}
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(rating), 0), count(*)
		FROM services
		WHERE freelancer_id = $1 AND rating > 0`, freelancerID).Scan(&summary.Sum, &summary.Count)
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}
	summary.Average = summary.ComputeAverage()
	return &summary, nil
}
