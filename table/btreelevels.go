package table

import (
	"github.com/tidwall/btree"

	"limitbook/level"
	"limitbook/side"
	"limitbook/vocab"
)

// btreeEntry is the value type stored in the tidwall/btree tree: price plus
// the Level at that price. The tree orders purely by price; lvl rides
// along as payload.
type btreeEntry struct {
	price vocab.Price
	lvl   level.Level
}

// BTreeLevelStore is a second S1-shaped LevelStore strategy, backed by
// github.com/tidwall/btree instead of gods/v2's redblacktree — grounded on
// saiputravu-Exchange's internal/engine/orderbook.go, which keeps its own
// bids/asks as a btree.BTreeG[*PriceLevel] with a side-aware "less"
// comparator (greatest-first for bids, least-first for asks). Having two
// independently-sourced ordered-map strategies behind the same LevelStore
// interface is the concrete proof that the map-based family (S1) is
// swappable at the container level, not just swappable as a whole
// strategy — mirroring original_source's std_map_container_traits_t vs
// absl_map_container_traits_t split.
type BTreeLevelStore[P side.Polarity] struct {
	tree     *btree.BTreeG[btreeEntry]
	newLevel func(vocab.Price) level.Level
}

// NewBTreeLevelStore builds an empty BTreeLevelStore.
func NewBTreeLevelStore[P side.Polarity](newLevel func(vocab.Price) level.Level) *BTreeLevelStore[P] {
	var p P
	less := func(a, b btreeEntry) bool { return p.Less(a.price, b.price) }
	return &BTreeLevelStore[P]{
		tree:     btree.NewBTreeG(less),
		newLevel: newLevel,
	}
}

func (s *BTreeLevelStore[P]) LevelAt(price vocab.Price) (level.Level, LevelKey) {
	if entry, found := s.tree.Get(btreeEntry{price: price}); found {
		return entry.lvl, price
	}
	lvl := s.newLevel(price)
	s.tree.Set(btreeEntry{price: price, lvl: lvl})
	return lvl, price
}

func (s *BTreeLevelStore[P]) TopPrice() (vocab.Price, bool) {
	entry, ok := s.tree.Min()
	if !ok {
		return 0, false
	}
	return entry.price, true
}

func (s *BTreeLevelStore[P]) TopLevel() level.Level {
	entry, ok := s.tree.Min()
	if !ok {
		panic("table: TopLevel on empty BTreeLevelStore")
	}
	return entry.lvl
}

func (s *BTreeLevelStore[P]) RetireLevel(key LevelKey) {
	s.tree.Delete(btreeEntry{price: key.(vocab.Price)})
}

func (s *BTreeLevelStore[P]) Empty() bool { return s.tree.Len() == 0 }

func (s *BTreeLevelStore[P]) Levels(visit func(level.Level) bool) {
	s.tree.Scan(func(entry btreeEntry) bool {
		return visit(entry.lvl)
	})
}
