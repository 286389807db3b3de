package handlers

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"battery-savings/internal/api/models"
)

// StoredResult is a ledger kept for later retrieval.
type StoredResult struct {
	ID        string
	Strategy  string
	Ledger    []models.LedgerRow
	CreatedAt time.Time
}

// ResultStore keeps the most recent ledgers in memory. Once full, the
// oldest entry is evicted.
type ResultStore struct {
	mu    sync.Mutex
	max   int
	order []string
	byID  map[string]StoredResult
}

func NewResultStore(max int) *ResultStore {
	if max <= 0 {
		max = 100
	}
	return &ResultStore{max: max, byID: make(map[string]StoredResult)}
}

// Put stores the ledger and returns its id.
func (s *ResultStore) Put(strategy string, ledger []models.LedgerRow) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.order) >= s.max {
		delete(s.byID, s.order[0])
		s.order = s.order[1:]
	}
	s.byID[id] = StoredResult{ID: id, Strategy: strategy, Ledger: ledger, CreatedAt: time.Now().UTC()}
	s.order = append(s.order, id)
	return id
}

func (s *ResultStore) Get(id string) (StoredResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	return r, ok
}

func (s *ResultStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
