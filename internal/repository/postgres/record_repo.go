package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/servana/servana-backend/internal/domain"
)

// ServiceRecordRepository implements domain.ServiceRecordRepository using PostgreSQL
type ServiceRecordRepository struct {
	pool *pgxpool.Pool
}

// NewServiceRecordRepository creates a new ServiceRecordRepository
func NewServiceRecordRepository(pool *pgxpool.Pool) *ServiceRecordRepository {
	return &ServiceRecordRepository{pool: pool}
}

// GetByFilter retrieves completed service records matching the filter,
// ordered by date then category. An empty category set matches everything.
func (r *ServiceRecordRepository) GetByFilter(filter *domain.RecordFilter) ([]*domain.ServiceRecord, error) {
	ctx := context.Background()

	query := `
		SELECT id, provider_id, amount, category, completed_date
		FROM completed_service_records
		WHERE provider_id = $1
		  AND completed_date >= $2
		  AND completed_date <= $3`
	args := []interface{}{
		filter.ProviderID,
		pgtype.Date{Time: filter.StartDate, Valid: true},
		pgtype.Date{Time: filter.EndDate, Valid: true},
	}
	if len(filter.Categories) > 0 {
		query += ` AND category = ANY($4)`
		args = append(args, filter.Categories)
	}
	query += ` ORDER BY completed_date, category, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.ServiceRecord
	for rows.Next() {
		var (
			record        domain.ServiceRecord
			providerID    pgtype.UUID
			amount        pgtype.Numeric
			completedDate pgtype.Date
		)
		if err := rows.Scan(&record.ID, &providerID, &amount, &record.Category, &completedDate); err != nil {
			return nil, err
		}
		record.ProviderID = uuid.UUID(providerID.Bytes)
		record.Amount = pgNumericToDecimal(amount)
		record.CompletedDate = completedDate.Time
		records = append(records, &record)
	}
	return records, rows.Err()
}

// GetCategories returns the distinct categories in the provider's history,
// alphabetical so the order is stable across calls.
func (r *ServiceRecordRepository) GetCategories(providerID uuid.UUID) ([]string, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT category
		FROM completed_service_records
		WHERE provider_id = $1
		ORDER BY category`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}
