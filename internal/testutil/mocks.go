package testutil

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/servana/servana-backend/internal/domain"
)

// MockServiceRecordRepository is an in-memory implementation of
// domain.ServiceRecordRepository
type MockServiceRecordRepository struct {
	Records       []*domain.ServiceRecord
	NextID        int64
	GetByFilterFn func(filter *domain.RecordFilter) ([]*domain.ServiceRecord, error)
}

// NewMockServiceRecordRepository creates a new MockServiceRecordRepository
func NewMockServiceRecordRepository() *MockServiceRecordRepository {
	return &MockServiceRecordRepository{NextID: 1}
}

// AddRecord adds a record to the mock repository (helper for tests)
func (m *MockServiceRecordRepository) AddRecord(record *domain.ServiceRecord) {
	if record.ID == 0 {
		record.ID = m.NextID
		m.NextID++
	}
	m.Records = append(m.Records, record)
}

// GetByFilter returns records matching the filter, ordered by date then category
func (m *MockServiceRecordRepository) GetByFilter(filter *domain.RecordFilter) ([]*domain.ServiceRecord, error) {
	if m.GetByFilterFn != nil {
		return m.GetByFilterFn(filter)
	}
	var result []*domain.ServiceRecord
	for _, r := range m.Records {
		if filter.Matches(r) {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CompletedDate.Equal(result[j].CompletedDate) {
			return result[i].CompletedDate.Before(result[j].CompletedDate)
		}
		return result[i].Category < result[j].Category
	})
	return result, nil
}

// GetCategories returns the provider's distinct categories in alphabetical order
func (m *MockServiceRecordRepository) GetCategories(providerID uuid.UUID) ([]string, error) {
	seen := make(map[string]bool)
	var categories []string
	for _, r := range m.Records {
		if r.ProviderID == providerID && !seen[r.Category] {
			seen[r.Category] = true
			categories = append(categories, r.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// MockGoalRepository is an in-memory implementation of domain.GoalRepository
type MockGoalRepository struct {
	Goals     map[uuid.UUID]*domain.Goal
	ReplaceFn func(goal *domain.Goal) (*domain.Goal, error)
}

// NewMockGoalRepository creates a new MockGoalRepository
func NewMockGoalRepository() *MockGoalRepository {
	return &MockGoalRepository{Goals: make(map[uuid.UUID]*domain.Goal)}
}

// AddGoal adds a goal to the mock repository (helper for tests)
func (m *MockGoalRepository) AddGoal(goal *domain.Goal) {
	m.Goals[goal.ID] = goal
}

// Replace deactivates any active goal of the same provider and type, then
// stores the new goal
func (m *MockGoalRepository) Replace(goal *domain.Goal) (*domain.Goal, error) {
	if m.ReplaceFn != nil {
		return m.ReplaceFn(goal)
	}
	for _, existing := range m.Goals {
		if existing.ProviderID == goal.ProviderID && existing.Type == goal.Type && existing.IsActive {
			existing.IsActive = false
			existing.UpdatedAt = time.Now()
		}
	}
	goal.CreatedAt = time.Now()
	goal.UpdatedAt = goal.CreatedAt
	m.Goals[goal.ID] = goal
	return goal, nil
}

// GetByID retrieves a goal by ID, enforcing provider ownership
func (m *MockGoalRepository) GetByID(providerID, goalID uuid.UUID) (*domain.Goal, error) {
	goal, ok := m.Goals[goalID]
	if !ok || goal.ProviderID != providerID {
		return nil, domain.ErrGoalNotFound
	}
	return goal, nil
}

// GetActive returns the provider's active goals
func (m *MockGoalRepository) GetActive(providerID uuid.UUID) ([]*domain.Goal, error) {
	var goals []*domain.Goal
	for _, goal := range m.Goals {
		if goal.ProviderID == providerID && goal.IsActive {
			goals = append(goals, goal)
		}
	}
	sort.Slice(goals, func(i, j int) bool {
		return goals[i].CreatedAt.Before(goals[j].CreatedAt)
	})
	return goals, nil
}

// Delete removes a goal, enforcing provider ownership
func (m *MockGoalRepository) Delete(providerID, goalID uuid.UUID) error {
	goal, ok := m.Goals[goalID]
	if !ok || goal.ProviderID != providerID {
		return domain.ErrGoalNotFound
	}
	delete(m.Goals, goalID)
	return nil
}

// DeactivateExpired deactivates active goals whose end date is before the
// given day
func (m *MockGoalRepository) DeactivateExpired(before time.Time) (int64, error) {
	var count int64
	for _, goal := range m.Goals {
		if goal.IsActive && goal.EndDate != nil && goal.EndDate.Before(before) {
			goal.IsActive = false
			count++
		}
	}
	return count, nil
}

// MockProviderRepository is an in-memory implementation of
// domain.ProviderRepository
type MockProviderRepository struct {
	Providers map[string]*domain.Provider
}

// NewMockProviderRepository creates a new MockProviderRepository
func NewMockProviderRepository() *MockProviderRepository {
	return &MockProviderRepository{Providers: make(map[string]*domain.Provider)}
}

// AddProvider adds a provider to the mock repository (helper for tests)
func (m *MockProviderRepository) AddProvider(provider *domain.Provider) {
	m.Providers[provider.AuthID] = provider
}

// GetByAuthID retrieves a provider by its auth identity
func (m *MockProviderRepository) GetByAuthID(authID string) (*domain.Provider, error) {
	if p, ok := m.Providers[authID]; ok {
		return p, nil
	}
	return nil, domain.ErrProviderNotFound
}
