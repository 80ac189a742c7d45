package table

import (
	"sort"

	"limitbook/level"
	"limitbook/side"
	"limitbook/vocab"
)

// sortedEntry pairs a price with its Level in SortedSliceLevelStore's
// backing slice.
type sortedEntry struct {
	price vocab.Price
	lvl   level.Level
}

// SortedSliceLevelStore is the S4 ("linear v3") strategy: a single
// contiguous, always-sorted slice of (price, Level) pairs, located by
// binary search. Grounded on original_source's linear/orders_table.hpp
// family, which stores levels in a flat std::vector kept sorted by the
// side's price ordering and locates a price via a binary-search-based
// lower_bound — the "linear" in the name refers to the underlying storage
// layout (contiguous, cache-friendly scan for the top few levels), not to
// O(n) lookup.
//
// Insertion and retirement are O(n) (a slice shift), which the original
// accepts as the trade for a branch-predictor-friendly, allocation-light
// top-of-book: the hot path (top_price, top_level, first_order) never
// touches a pointer chase. Appropriate when level churn away from the top
// is low relative to top-of-book reads.
type SortedSliceLevelStore[P side.Polarity] struct {
	entries  []sortedEntry
	newLevel func(vocab.Price) level.Level
}

// NewSortedSliceLevelStore builds an empty SortedSliceLevelStore.
func NewSortedSliceLevelStore[P side.Polarity](newLevel func(vocab.Price) level.Level) *SortedSliceLevelStore[P] {
	return &SortedSliceLevelStore[P]{newLevel: newLevel}
}

// find returns the index of price in s.entries (in sort order, best price
// first) and whether it was found — the insertion point if not.
func (s *SortedSliceLevelStore[P]) find(price vocab.Price) (int, bool) {
	var p P
	i := sort.Search(len(s.entries), func(i int) bool {
		return !p.Less(s.entries[i].price, price)
	})
	if i < len(s.entries) && s.entries[i].price == price {
		return i, true
	}
	return i, false
}

func (s *SortedSliceLevelStore[P]) LevelAt(price vocab.Price) (level.Level, LevelKey) {
	i, found := s.find(price)
	if found {
		return s.entries[i].lvl, i
	}

	lvl := s.newLevel(price)
	s.entries = append(s.entries, sortedEntry{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = sortedEntry{price: price, lvl: lvl}
	return lvl, i
}

func (s *SortedSliceLevelStore[P]) TopPrice() (vocab.Price, bool) {
	if len(s.entries) == 0 {
		return 0, false
	}
	return s.entries[0].price, true
}

func (s *SortedSliceLevelStore[P]) TopLevel() level.Level {
	if len(s.entries) == 0 {
		panic("table: TopLevel on empty SortedSliceLevelStore")
	}
	return s.entries[0].lvl
}

// RetireLevel removes the level at the index key returned by the most
// recent LevelAt call for its price.
//
// Precondition: key MUST still refer to the same price — it is only valid
// until the next LevelAt/RetireLevel call shifts the slice, mirroring the
// same iterator-stability caveat original_source documents for its
// std::vector-backed linear orders tables.
func (s *SortedSliceLevelStore[P]) RetireLevel(key LevelKey) {
	i := key.(int)
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
}

func (s *SortedSliceLevelStore[P]) Empty() bool { return len(s.entries) == 0 }

func (s *SortedSliceLevelStore[P]) Levels(visit func(level.Level) bool) {
	for _, e := range s.entries {
		if !visit(e.lvl) {
			return
		}
	}
}
