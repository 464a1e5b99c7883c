package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/servana/servana-backend/internal/domain"
)

// ProviderRepository implements domain.ProviderRepository using PostgreSQL
type ProviderRepository struct {
	pool *pgxpool.Pool
}

// NewProviderRepository creates a new ProviderRepository
func NewProviderRepository(pool *pgxpool.Pool) *ProviderRepository {
	return &ProviderRepository{pool: pool}
}

// GetByAuthID retrieves a provider by its auth identity
func (r *ProviderRepository) GetByAuthID(authID string) (*domain.Provider, error) {
	ctx := context.Background()

	var (
		provider  domain.Provider
		id        pgtype.UUID
		createdAt pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, auth_id, name, created_at
		FROM providers
		WHERE auth_id = $1`, authID).Scan(&id, &provider.AuthID, &provider.Name, &createdAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrProviderNotFound
		}
		return nil, err
	}
	provider.ID = uuid.UUID(id.Bytes)
	provider.CreatedAt = createdAt.Time
	return &provider, nil
}
