package runtime

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/samber/lo"
)

const defaultSeenCapacity = 10_000

// SeenSet remembers the ids of dispatched messages.
// It is bounded: past capacity the least recently touched id is forgotten.
type SeenSet struct {
	cache *lru.Cache[string, struct{}]
}

func NewSeenSet(capacity int) *SeenSet {
	if capacity <= 0 {
		capacity = defaultSeenCapacity
	}
	return &SeenSet{cache: lo.Must(lru.New[string, struct{}](capacity))}
}

// Contains also marks id as recently touched.
func (s *SeenSet) Contains(id string) bool {
	_, ok := s.cache.Get(id)
	return ok
}

// Add records id and reports whether it was not already present.
func (s *SeenSet) Add(id string) bool {
	present, _ := s.cache.ContainsOrAdd(id, struct{}{})
	if present {
		s.cache.Get(id)
	}
	return !present
}

func (s *SeenSet) Len() int {
	return s.cache.Len()
}
