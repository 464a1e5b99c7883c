package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/servana/servana-backend/internal/domain"
)

// GoalRepository implements domain.GoalRepository using PostgreSQL
type GoalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(pool *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{pool: pool}
}

const goalColumns = `id, provider_id, goal_type, target_amount, start_date, end_date, is_active, created_at, updated_at`

// Replace deactivates any active goal of the same (provider, type) and
// inserts the new goal within a single transaction, so the one-active-goal
// invariant holds at every observable instant.
func (r *GoalRepository) Replace(goal *domain.Goal) (*domain.Goal, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE provider_goals
		SET is_active = FALSE, updated_at = NOW()
		WHERE provider_id = $1 AND goal_type = $2 AND is_active`,
		goal.ProviderID, string(goal.Type))
	if err != nil {
		return nil, err
	}

	var startDate, endDate pgtype.Date
	if goal.StartDate != nil {
		startDate = pgtype.Date{Time: *goal.StartDate, Valid: true}
	}
	if goal.EndDate != nil {
		endDate = pgtype.Date{Time: *goal.EndDate, Valid: true}
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO provider_goals (id, provider_id, goal_type, target_amount, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING `+goalColumns,
		goal.ID, goal.ProviderID, string(goal.Type), amount, startDate, endDate)

	created, err := scanGoal(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a goal by ID within a provider's ownership
func (r *GoalRepository) GetByID(providerID, goalID uuid.UUID) (*domain.Goal, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+goalColumns+`
		FROM provider_goals
		WHERE id = $1 AND provider_id = $2`, goalID, providerID)

	goal, err := scanGoal(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

// GetActive retrieves the provider's active goals, oldest first
func (r *GoalRepository) GetActive(providerID uuid.UUID) ([]*domain.Goal, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+goalColumns+`
		FROM provider_goals
		WHERE provider_id = $1 AND is_active
		ORDER BY created_at`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*domain.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// Delete removes a goal within a provider's ownership
func (r *GoalRepository) Delete(providerID, goalID uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM provider_goals
		WHERE id = $1 AND provider_id = $2`, goalID, providerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

// DeactivateExpired deactivates every active goal whose end date is before
// the given day and returns how many were affected
func (r *GoalRepository) DeactivateExpired(before time.Time) (int64, error) {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		UPDATE provider_goals
		SET is_active = FALSE, updated_at = NOW()
		WHERE is_active AND end_date IS NOT NULL AND end_date < $1`,
		pgtype.Date{Time: before, Valid: true})
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanGoal(row pgx.Row) (*domain.Goal, error) {
	var (
		goal         domain.Goal
		id           pgtype.UUID
		providerID   pgtype.UUID
		goalType     string
		targetAmount pgtype.Numeric
		startDate    pgtype.Date
		endDate      pgtype.Date
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)
	err := row.Scan(&id, &providerID, &goalType, &targetAmount, &startDate, &endDate, &goal.IsActive, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	goal.ID = uuid.UUID(id.Bytes)
	goal.ProviderID = uuid.UUID(providerID.Bytes)
	goal.Type = domain.GoalType(goalType)
	goal.TargetAmount = pgNumericToDecimal(targetAmount)
	if startDate.Valid {
		goal.StartDate = &startDate.Time
	}
	if endDate.Valid {
		goal.EndDate = &endDate.Time
	}
	goal.CreatedAt = createdAt.Time
	goal.UpdatedAt = updatedAt.Time
	return &goal, nil
}
