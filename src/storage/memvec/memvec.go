package memvec

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// Object is one stored vector with its properties.
type Object struct {
	ID         string
	Vector     []float32
	Properties map[string]interface{}
}

// Match is one nearest-neighbor result. Distance is cosine distance
// (1 - cosine similarity).
type Match struct {
	ID         string
	Distance   float64
	Properties map[string]interface{}
}

// Store is an in-memory vector store with exact nearest-neighbor search.
// Writes append; reads scan. Queries return matches in non-decreasing
// distance order, breaking ties by insertion order.
type Store struct {
	mu      sync.RWMutex
	objects []Object
}

func NewStore() *Store {
	return &Store{}
}

// Add appends objects to the store. All vectors must share the dimension of
// the first stored vector.
func (s *Store) Add(objects []Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, obj := range objects {
		if len(s.objects) > 0 && len(obj.Vector) != len(s.objects[0].Vector) {
			return fmt.Errorf("vector dimension mismatch: got %d, store holds %d",
				len(obj.Vector), len(s.objects[0].Vector))
		}
		s.objects = append(s.objects, obj)
	}

	return nil
}

// Len returns the number of stored objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Query returns the min(k, Len) nearest objects to the given vector.
func (s *Store) Query(vector []float32, k int) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	type scored struct {
		index int
		match Match
	}

	results := make([]scored, 0, len(s.objects))
	for i, obj := range s.objects {
		results = append(results, scored{
			index: i,
			match: Match{
				ID:         obj.ID,
				Distance:   1 - cosine(vector, obj.Vector),
				Properties: obj.Properties,
			},
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		if results[a].match.Distance != results[b].match.Distance {
			return results[a].match.Distance < results[b].match.Distance
		}
		return results[a].index < results[b].index
	})

	if k > len(results) {
		k = len(results)
	}

	matches := make([]Match, k)
	for i := 0; i < k; i++ {
		matches[i] = results[i].match
	}

	return matches, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
