// Package dashboard holds ingested datasets and answers the read queries the
// presentation layer needs.
package dashboard

import (
	"errors"
	"sync"
	"time"

	"github.com/salesrace/pitwall/internal/modules/pipeline"
)

// LatestID addresses the dataset most recently published by the feed.
const LatestID = "latest"

// ErrDatasetNotFound is returned for unknown dataset ids.
var ErrDatasetNotFound = errors.New("dataset not found")

// Summary is the listing view of a stored dataset
type Summary struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	IngestedAt  time.Time `json:"ingested_at"`
	RecordCount int       `json:"record_count"`
	Latest      bool      `json:"latest"`
}

// Store keeps ingestion results by id. When full, the oldest result is
// evicted, except the one currently published as latest.
type Store struct {
	mu       sync.RWMutex
	capacity int
	order    []string
	items    map[string]*pipeline.Result
	latest   string
}

// NewStore creates a store holding at most capacity results.
func NewStore(capacity int) *Store {
	if capacity < 1 {
		capacity = 1
	}
	return &Store{
		capacity: capacity,
		items:    make(map[string]*pipeline.Result),
	}
}

// Add stores a result.
func (s *Store) Add(r *pipeline.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(r)
}

// Publish stores a result and makes it the latest.
func (s *Store) Publish(r *pipeline.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = r.ID
	s.add(r)
}

func (s *Store) add(r *pipeline.Result) {
	if _, exists := s.items[r.ID]; !exists {
		s.order = append(s.order, r.ID)
	}
	s.items[r.ID] = r

	for len(s.order) > s.capacity {
		victim := -1
		for i, id := range s.order {
			if id != s.latest {
				victim = i
				break
			}
		}
		if victim < 0 {
			return
		}
		delete(s.items, s.order[victim])
		s.order = append(s.order[:victim], s.order[victim+1:]...)
	}
}

// Get returns the result for id; LatestID resolves to the published result.
func (s *Store) Get(id string) (*pipeline.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id == LatestID {
		id = s.latest
	}
	r, ok := s.items[id]
	if !ok {
		return nil, ErrDatasetNotFound
	}
	return r, nil
}

// Delete removes a result. Deleting the latest result unpublishes it.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == LatestID {
		id = s.latest
	}
	if _, ok := s.items[id]; !ok {
		return ErrDatasetNotFound
	}

	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.latest == id {
		s.latest = ""
	}
	return nil
}

// List returns summaries, newest first.
func (s *Store) List() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		r := s.items[s.order[i]]
		out = append(out, Summary{
			ID:          r.ID,
			Source:      r.Source,
			IngestedAt:  r.IngestedAt,
			RecordCount: r.Company.RecordCount,
			Latest:      r.ID == s.latest,
		})
	}
	return out
}

// Len returns the number of stored results.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
