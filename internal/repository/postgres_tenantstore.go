package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mediaportal/backend/pkg/models"
)

// PostgresTenantStore is a PostgreSQL implementation of the TenantStore interface.
type PostgresTenantStore struct {
	db *pgxpool.Pool
}

// NewPostgresTenantStore creates a new PostgresTenantStore.
func NewPostgresTenantStore(db *pgxpool.Pool) *PostgresTenantStore {
	return &PostgresTenantStore{db: db}
}

// GetTenantByDomain looks a tenant up by its email domain.
func (s *PostgresTenantStore) GetTenantByDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.db.QueryRow(ctx, "SELECT id, name, domain, created_at, updated_at FROM tenants WHERE domain = $1", domain).
		Scan(&tenant.ID, &tenant.Name, &tenant.Domain, &tenant.CreatedAt, &tenant.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// CreateTenant provisions a new tenant.
func (s *PostgresTenantStore) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	if tenant.ID == "" {
		tenant.ID = uuid.New().String()
	}
	now := time.Now()
	tenant.CreatedAt = now
	tenant.UpdatedAt = now
	_, err := s.db.Exec(ctx, "INSERT INTO tenants (id, name, domain, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)",
		tenant.ID, tenant.Name, tenant.Domain, tenant.CreatedAt, tenant.UpdatedAt)
	return err
}
