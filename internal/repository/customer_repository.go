package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// CustomerRepository handles persistence for customer profiles.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByUserID(ctx context.Context, userID string) (*domain.Customer, error)
}

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository instantiates the repository.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	const query = `
        INSERT INTO customers (user_id, full_name, address, postal_code)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		customer.UserID,
		customer.FullName,
		customer.Address,
		customer.PostalCode,
	).Scan(&customer.ID, &customer.CreatedAt)
}

func (r *customerRepository) GetByUserID(ctx context.Context, userID string) (*domain.Customer, error) {
	const query = `
        SELECT id, user_id, full_name, address, postal_code, created_at
        FROM customers WHERE user_id=$1`

	var customer domain.Customer
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&customer.ID,
		&customer.UserID,
		&customer.FullName,
		&customer.Address,
		&customer.PostalCode,
		&customer.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &customer, nil
}
