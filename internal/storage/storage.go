package storage

import (
	"sync"

	"github.com/Anwitht21/book-extraction/internal/models"
)

// ResultStore keeps processed books in memory, keyed by result ID.
type ResultStore struct {
	results map[string]*models.ProcessedResult
	mu      sync.RWMutex
}

func New() *ResultStore {
	return &ResultStore{
		results: make(map[string]*models.ProcessedResult),
	}
}

func (s *ResultStore) Get(id string) (*models.ProcessedResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, exists := s.results[id]
	return result, exists
}

func (s *ResultStore) Set(id string, result *models.ProcessedResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[id] = result
}

func (s *ResultStore) GetAll() map[string]*models.ProcessedResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*models.ProcessedResult, len(s.results))
	for k, v := range s.results {
		out[k] = v
	}
	return out
}

func (s *ResultStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.results, id)
}
