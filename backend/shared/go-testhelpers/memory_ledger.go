package testhelpers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Jepierre88/coins-control/backend/shared/go-models"
	"github.com/Jepierre88/coins-control/backend/shared/go-repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
)

// MemoryLedger is an in-memory PasscodeRegistrationRepository with the same
// optimistic-locking semantics as the Postgres one.
type MemoryLedger struct {
	mu   sync.Mutex
	rows map[uuid.UUID]models.PasscodeRegistration
	Now  func() time.Time

	// CreateErr, when set, is returned by Create.
	CreateErr error
}

var _ repositories.PasscodeRegistrationRepository = (*MemoryLedger)(nil)

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{rows: make(map[uuid.UUID]models.PasscodeRegistration), Now: time.Now}
}

func (m *MemoryLedger) Create(ctx context.Context, p *models.PasscodeRegistration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = models.PasscodeRegistrationPending
	}
	now := m.Now()
	p.CreatedAt, p.UpdatedAt, p.RowVersion = now, now, 1
	m.rows[p.ID] = *p
	return nil
}

func (m *MemoryLedger) GetByID(ctx context.Context, id uuid.UUID) (*models.PasscodeRegistration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (m *MemoryLedger) ListReconcilable(ctx context.Context, staleBefore time.Time, limit int) ([]*models.PasscodeRegistration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.PasscodeRegistration
	for _, row := range m.rows {
		stale := row.UpdatedAt.Before(staleBefore)
		switch {
		case row.Status == models.PasscodeRegistrationOrphaned,
			row.Status == models.PasscodeRegistrationPending && stale,
			row.Status == models.PasscodeRegistrationRegistered && stale:
			cp := row
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryLedger) CountByStatus(ctx context.Context) (map[models.PasscodeRegistrationStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[models.PasscodeRegistrationStatus]int)
	for _, row := range m.rows {
		out[row.Status]++
	}
	return out, nil
}

func (m *MemoryLedger) UpdateIfVersion(ctx context.Context, p *models.PasscodeRegistration, expected int64) (pgconn.CommandTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[p.ID]
	if !ok || row.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	row.Status = p.Status
	row.VendorPwdID = p.VendorPwdID
	row.SchedulingID = p.SchedulingID
	row.Attempts = p.Attempts
	row.LastError = p.LastError
	row.UpdatedAt = m.Now()
	row.RowVersion = expected + 1
	m.rows[p.ID] = row
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (m *MemoryLedger) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.PasscodeRegistration) error) error {
	return repositories.WithRetry(ctx, 3, id.String(),
		func(ctx context.Context, raw string) (*models.PasscodeRegistration, error) {
			return m.GetByID(ctx, uuid.MustParse(raw))
		},
		m.UpdateIfVersion,
		mutate,
	)
}

// All returns every row ordered by creation time.
func (m *MemoryLedger) All() []models.PasscodeRegistration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.PasscodeRegistration, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Backdate moves a row's UpdatedAt into the past so it looks stale.
func (m *MemoryLedger) Backdate(id uuid.UUID, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := m.rows[id]
	row.UpdatedAt = row.UpdatedAt.Add(-d)
	m.rows[id] = row
}
