package domain

import (
	"time"

	"github.com/google/uuid"
)

// Provider is the marketplace account that owns service records and goals.
// Only the slice needed by the earnings core lives here; the rest of the
// provider profile belongs to the marketplace CRUD services.
type Provider struct {
	ID        uuid.UUID `json:"id"`
	AuthID    string    `json:"authId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProviderRepository resolves authenticated identities to providers.
type ProviderRepository interface {
	GetByAuthID(authID string) (*Provider, error)
}
