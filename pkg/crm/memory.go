package crm

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	cloverErrors "github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/models"
)

// MemoryStore is an in-memory Store used by tests and local development. It
// evaluates the same query language the remote store does.
type MemoryStore struct {
	mu       sync.RWMutex
	members  map[string]*models.Member
	debtors  map[string]*models.Debtor
	children map[string][]string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		members:  make(map[string]*models.Member),
		debtors:  make(map[string]*models.Debtor),
		children: make(map[string][]string),
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.members[id]
	if !ok {
		return nil, cloverErrors.NewNotFound("member", id)
	}
	return m.Clone(), nil
}

func (s *MemoryStore) Find(_ context.Context, q Query) ([]*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Map iteration order is randomized; sort by id for deterministic
	// store order.
	ids := make([]string, 0, len(s.members))
	for id := range s.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []*models.Member
	for _, id := range ids {
		m := s.members[id]
		if !inScope(m, q.Groups) {
			continue
		}
		if matchesQuery(m, q) {
			out = append(out, m.Clone())
		}
	}
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, m *models.Member) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := m.Clone()
	if saved.ID == "" {
		saved.ID = uuid.New().String()
	}
	s.members[saved.ID] = saved
	return saved.Clone(), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[id]; !ok {
		return cloverErrors.NewNotFound("member", id)
	}
	delete(s.members, id)
	return nil
}

func (s *MemoryStore) GetDebtor(_ context.Context, id string) (*models.Debtor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.debtors[id]
	if !ok {
		return nil, cloverErrors.NewNotFound("debtor", id)
	}
	copied := *d
	return &copied, nil
}

func (s *MemoryStore) PutDebtor(_ context.Context, d *models.Debtor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.debtors[d.ID]; ok && !existing.Writable {
		return cloverErrors.NewDebtorNotWritable(d.ID)
	}
	copied := *d
	s.debtors[d.ID] = &copied
	return nil
}

func (s *MemoryStore) GroupSubtree(_ context.Context, id string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.children[id]; !ok {
		return nil, cloverErrors.NewNotFound("group", id)
	}

	// Breadth-first walk, root first.
	out := []string{id}
	for i := 0; i < len(out); i++ {
		out = append(out, s.children[out[i]]...)
	}
	return out, nil
}

// SeedGroup registers a group and its direct children for subtree lookups.
func (s *MemoryStore) SeedGroup(id string, childIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.children[id] = append(s.children[id], childIDs...)
	for _, child := range childIDs {
		if _, ok := s.children[child]; !ok {
			s.children[child] = nil
		}
	}
}

// SeedDebtor inserts a debtor directly, bypassing writability checks.
func (s *MemoryStore) SeedDebtor(d *models.Debtor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *d
	s.debtors[d.ID] = &copied
}

func matchesQuery(m *models.Member, q Query) bool {
	for _, group := range q.Any {
		if matchesAll(m, group) {
			return true
		}
	}
	return false
}

func matchesAll(m *models.Member, conds []Condition) bool {
	for _, c := range conds {
		f, ok := m.Field(c.Field)
		if !ok {
			return false
		}
		if !c.Matches(f.Value()) {
			return false
		}
	}
	return len(conds) > 0
}

func inScope(m *models.Member, groups []string) bool {
	if len(groups) == 0 {
		return true
	}
	for _, g := range groups {
		if m.HasGroup(g) {
			return true
		}
	}
	return false
}
