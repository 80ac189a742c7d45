package table

import (
	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"

	"limitbook/level"
	"limitbook/side"
	"limitbook/vocab"
)

// MapLevelStore is the S1 ("map-based") LevelStore strategy: prices are
// kept in an ordered map, and the top price is always the leftmost entry
// under the side's comparator.
//
// Grounded on original_source's map/orders_table.hpp
// (generic_orders_table_t<..., Map_Container_Traits>), which is itself
// generic over std::map vs absl::btree_map as interchangeable ordered-map
// backends. gods/v2's redblacktree plays that role here — it is the
// teacher's own dependency (orderbook/price_tree_sharded.go uses the exact
// same package for its bucket index), so S1 reuses it rather than
// introducing a second ordered-map package when one is already in the
// teacher's go.mod.
type MapLevelStore[P side.Polarity] struct {
	levels   *rbt.Tree[vocab.Price, level.Level]
	newLevel func(vocab.Price) level.Level
}

// NewMapLevelStore builds an empty MapLevelStore. newLevel constructs the
// Level strategy (level.NewLinkedList, level.NewSOA, ...) used for every
// price this store creates.
func NewMapLevelStore[P side.Polarity](newLevel func(vocab.Price) level.Level) *MapLevelStore[P] {
	var p P
	cmp := func(a, b vocab.Price) int {
		switch {
		case a == b:
			return 0
		case p.Less(a, b):
			return -1
		default:
			return 1
		}
	}
	return &MapLevelStore[P]{
		levels:   rbt.NewWith[vocab.Price, level.Level](cmp),
		newLevel: newLevel,
	}
}

func (s *MapLevelStore[P]) LevelAt(price vocab.Price) (level.Level, LevelKey) {
	lvl, found := s.levels.Get(price)
	if !found {
		lvl = s.newLevel(price)
		s.levels.Put(price, lvl)
	}
	return lvl, price
}

func (s *MapLevelStore[P]) TopPrice() (vocab.Price, bool) {
	node := s.levels.Left()
	if node == nil {
		return 0, false
	}
	return node.Key, true
}

func (s *MapLevelStore[P]) TopLevel() level.Level {
	node := s.levels.Left()
	if node == nil {
		panic("table: TopLevel on empty MapLevelStore")
	}
	return node.Value
}

func (s *MapLevelStore[P]) RetireLevel(key LevelKey) {
	s.levels.Remove(key.(vocab.Price))
}

func (s *MapLevelStore[P]) Empty() bool { return s.levels.Empty() }

func (s *MapLevelStore[P]) Levels(visit func(level.Level) bool) {
	it := s.levels.Iterator()
	for it.Next() {
		if !visit(it.Value()) {
			return
		}
	}
}
