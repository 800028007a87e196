package summary

import (
	"sort"
	"sync"
)

type ItemCount struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// Summary counts how often each item was ordered during the session. Counts
// only grow; nothing decrements them when a table is freed.
type Summary struct {
	mu     sync.Mutex
	counts map[string]int
	seen   []string
}

func New() *Summary {
	return &Summary{counts: make(map[string]int)}
}

func (s *Summary) Record(item string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.counts[item]; !ok {
		s.seen = append(s.seen, item)
	}
	s.counts[item]++
}

func (s *Summary) Count(item string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[item]
}

// TopN returns up to n items by descending count. Equal counts keep the order
// in which the items were first ordered.
func (s *Summary) TopN(n int) []ItemCount {
	if n <= 0 {
		return []ItemCount{}
	}

	s.mu.Lock()
	all := make([]ItemCount, 0, len(s.seen))
	for _, item := range s.seen {
		all = append(all, ItemCount{Item: item, Count: s.counts[item]})
	}
	s.mu.Unlock()

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Count > all[j].Count
	})

	if len(all) > n {
		all = all[:n]
	}
	return all
}
