package mocks

import (
	"context"
	"sync"

	"github.com/V4T54L/journalview/internal/domain"
)

// MockEntryCache is a mock implementation of domain.EntryCache for testing.
type MockEntryCache struct {
	mu      sync.Mutex
	Records map[uint64]*domain.FullRecord
	Gets    int
	Sets    int
	GetErr  error
	SetErr  error
}

func (m *MockEntryCache) Get(ctx context.Context, timestamp uint64) (*domain.FullRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	rec, ok := m.Records[timestamp]
	return rec, ok, nil
}

func (m *MockEntryCache) Set(ctx context.Context, timestamp uint64, record *domain.FullRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	if m.Records == nil {
		m.Records = make(map[uint64]*domain.FullRecord)
	}
	m.Records[timestamp] = record
	return nil
}

// MockUnitLister is a mock implementation of domain.UnitLister for testing.
type MockUnitLister struct {
	Units []domain.Unit
	Err   error
}

func (m *MockUnitLister) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]domain.Unit, len(m.Units))
	copy(out, m.Units)
	return out, nil
}

// MockBootLister is a mock implementation of domain.BootLister for testing.
type MockBootLister struct {
	Boots []domain.Boot
	Err   error
}

func (m *MockBootLister) ListBoots(ctx context.Context) ([]domain.Boot, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Boots, nil
}

// MockAPIKeyRepository is a mock implementation of domain.APIKeyRepository for testing.
type MockAPIKeyRepository struct {
	ValidKeys map[string]bool
	Err       error
}

func (m *MockAPIKeyRepository) IsValid(ctx context.Context, key string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	return m.ValidKeys[key], nil
}

// MockQueryAuditRepository is a mock implementation of domain.QueryAuditRepository for testing.
type MockQueryAuditRepository struct {
	mu      sync.Mutex
	Entries []domain.QueryAuditEntry
	Err     error
}

func (m *MockQueryAuditRepository) Record(ctx context.Context, entry domain.QueryAuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Entries = append(m.Entries, entry)
	return nil
}

// Recorded returns a copy of the recorded entries.
func (m *MockQueryAuditRepository) Recorded() []domain.QueryAuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.QueryAuditEntry, len(m.Entries))
	copy(out, m.Entries)
	return out
}
