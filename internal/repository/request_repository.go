package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// RequestFilter captures service-request search parameters.
type RequestFilter struct {
	CustomerID     *string
	ProfessionalID *string
	ServiceID      *string
	Statuses       []domain.RequestStatus
	Limit          int
	Offset         int
}

// RequestRepository encapsulates service-request persistence.
type RequestRepository interface {
	Create(ctx context.Context, request *domain.ServiceRequest) error
	Update(ctx context.Context, request *domain.ServiceRequest) error
	GetByID(ctx context.Context, id string) (*domain.ServiceRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]domain.ServiceRequest, error)
	ExistsOpen(ctx context.Context, customerID, serviceID string) (bool, error)
	CountOpenByService(ctx context.Context, serviceID string) (int, error)
}

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository instantiates the repository.
func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestRepository{pool: pool}
}

const requestColumns = `id, customer_id, service_id, professional_id, status, rating, remarks,
        requested_at, closed_at, created_at, updated_at`

func (r *requestRepository) Create(ctx context.Context, request *domain.ServiceRequest) error {
	const query = `
        INSERT INTO service_requests (customer_id, service_id, professional_id, status, requested_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		request.CustomerID,
		request.ServiceID,
		request.ProfessionalID,
		request.Status,
		request.RequestedAt,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
}

func (r *requestRepository) Update(ctx context.Context, request *domain.ServiceRequest) error {
	const query = `
        UPDATE service_requests
        SET professional_id=$1, status=$2, rating=$3, remarks=$4, closed_at=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		request.ProfessionalID,
		request.Status,
		request.Rating,
		request.Remarks,
		request.ClosedAt,
		request.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.ServiceRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM service_requests WHERE id=$1`, requestColumns)

	var request domain.ServiceRequest
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&request.ID,
		&request.CustomerID,
		&request.ServiceID,
		&request.ProfessionalID,
		&request.Status,
		&request.Rating,
		&request.Remarks,
		&request.RequestedAt,
		&request.ClosedAt,
		&request.CreatedAt,
		&request.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) List(ctx context.Context, filter RequestFilter) ([]domain.ServiceRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM service_requests`, requestColumns)
	args := []any{}
	clauses := []string{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.ProfessionalID != nil {
		args = append(args, *filter.ProfessionalID)
		clauses = append(clauses, fmt.Sprintf("professional_id=$%d", len(args)))
	}
	if filter.ServiceID != nil {
		args = append(args, *filter.ServiceID)
		clauses = append(clauses, fmt.Sprintf("service_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" ORDER BY requested_at DESC LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ServiceRequest
	for rows.Next() {
		var request domain.ServiceRequest
		if err := rows.Scan(
			&request.ID,
			&request.CustomerID,
			&request.ServiceID,
			&request.ProfessionalID,
			&request.Status,
			&request.Rating,
			&request.Remarks,
			&request.RequestedAt,
			&request.ClosedAt,
			&request.CreatedAt,
			&request.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, request)
	}
	return result, rows.Err()
}

// ExistsOpen reports whether the customer already holds a non-terminal
// request for the service.
func (r *requestRepository) ExistsOpen(ctx context.Context, customerID, serviceID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM service_requests
            WHERE customer_id=$1 AND service_id=$2 AND status IN ($3, $4)
        )`

	var exists bool
	err := r.pool.QueryRow(ctx, query, customerID, serviceID,
		domain.RequestStatusRequested, domain.RequestStatusAccepted).Scan(&exists)
	return exists, err
}

// CountOpenByService counts non-terminal requests referencing the service.
func (r *requestRepository) CountOpenByService(ctx context.Context, serviceID string) (int, error) {
	const query = `
        SELECT COUNT(*) FROM service_requests
        WHERE service_id=$1 AND status IN ($2, $3)`

	var count int
	err := r.pool.QueryRow(ctx, query, serviceID,
		domain.RequestStatusRequested, domain.RequestStatusAccepted).Scan(&count)
	return count, err
}
