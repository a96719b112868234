package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// ProfessionalFilter defines query params for professional listing.
type ProfessionalFilter struct {
	ServiceType *string
	Approval    *domain.ApprovalStatus
	UserStatus  *domain.UserStatus
	Limit       int
	Offset      int
}

// ProfessionalRepository handles persistence for professional profiles.
type ProfessionalRepository interface {
	Create(ctx context.Context, prof *domain.Professional) error
	Update(ctx context.Context, prof *domain.Professional) error
	GetByID(ctx context.Context, id string) (*domain.Professional, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Professional, error)
	List(ctx context.Context, filter ProfessionalFilter) ([]domain.Professional, error)
}

type professionalRepository struct {
	pool *pgxpool.Pool
}

// NewProfessionalRepository instantiates the repository.
func NewProfessionalRepository(pool *pgxpool.Pool) ProfessionalRepository {
	return &professionalRepository{pool: pool}
}

const professionalColumns = `p.id, p.user_id, p.name, p.description, p.service_type,
        p.experience_years, p.address, p.postal_code, p.approval, p.created_at, p.updated_at`

func (r *professionalRepository) Create(ctx context.Context, prof *domain.Professional) error {
	const query = `
        INSERT INTO professionals (user_id, name, description, service_type, experience_years, address, postal_code, approval)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		prof.UserID,
		prof.Name,
		prof.Description,
		prof.ServiceType,
		prof.ExperienceYears,
		prof.Address,
		prof.PostalCode,
		prof.Approval,
	).Scan(&prof.ID, &prof.CreatedAt, &prof.UpdatedAt)
}

func (r *professionalRepository) Update(ctx context.Context, prof *domain.Professional) error {
	const query = `
        UPDATE professionals
        SET name=$1, description=$2, service_type=$3, experience_years=$4, address=$5, postal_code=$6, approval=$7, updated_at=NOW()
        WHERE id=$8`

	cmd, err := r.pool.Exec(ctx, query,
		prof.Name,
		prof.Description,
		prof.ServiceType,
		prof.ExperienceYears,
		prof.Address,
		prof.PostalCode,
		prof.Approval,
		prof.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *professionalRepository) GetByID(ctx context.Context, id string) (*domain.Professional, error) {
	query := fmt.Sprintf(`SELECT %s FROM professionals p WHERE p.id=$1`, professionalColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *professionalRepository) GetByUserID(ctx context.Context, userID string) (*domain.Professional, error) {
	query := fmt.Sprintf(`SELECT %s FROM professionals p WHERE p.user_id=$1`, professionalColumns)
	return r.fetchSingle(ctx, query, userID)
}

func (r *professionalRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Professional, error) {
	var prof domain.Professional
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&prof.ID,
		&prof.UserID,
		&prof.Name,
		&prof.Description,
		&prof.ServiceType,
		&prof.ExperienceYears,
		&prof.Address,
		&prof.PostalCode,
		&prof.Approval,
		&prof.CreatedAt,
		&prof.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &prof, nil
}

func (r *professionalRepository) List(ctx context.Context, filter ProfessionalFilter) ([]domain.Professional, error) {
	query := fmt.Sprintf(`SELECT %s FROM professionals p`, professionalColumns)
	args := []any{}
	clauses := []string{}

	if filter.UserStatus != nil {
		query += " JOIN users u ON u.id = p.user_id"
		args = append(args, *filter.UserStatus)
		clauses = append(clauses, fmt.Sprintf("u.status=$%d", len(args)))
	}
	if filter.ServiceType != nil {
		args = append(args, *filter.ServiceType)
		clauses = append(clauses, fmt.Sprintf("p.service_type=$%d", len(args)))
	}
	if filter.Approval != nil {
		args = append(args, *filter.Approval)
		clauses = append(clauses, fmt.Sprintf("p.approval=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" ORDER BY p.created_at ASC LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Professional
	for rows.Next() {
		var prof domain.Professional
		if err := rows.Scan(
			&prof.ID,
			&prof.UserID,
			&prof.Name,
			&prof.Description,
			&prof.ServiceType,
			&prof.ExperienceYears,
			&prof.Address,
			&prof.PostalCode,
			&prof.Approval,
			&prof.CreatedAt,
			&prof.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, prof)
	}
	return result, rows.Err()
}
