package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"limitbook/level"
	"limitbook/side"
	"limitbook/table"
	"limitbook/vocab"
)

func newBuyStore() table.LevelStore {
	return table.NewMapLevelStore[side.Buy](func(p vocab.Price) level.Level { return level.NewLinkedList(p) })
}

func newSellStore() table.LevelStore {
	return table.NewMapLevelStore[side.Sell](func(p vocab.Price) level.Level { return level.NewLinkedList(p) })
}

// newHotColdSellStore backs the sell side with the hot/cold strategy so
// side.Sell.MaxValue/MinValue are exercised through a full book, not just a
// bare table.
func newHotColdSellStore(t *testing.T) table.LevelStore {
	t.Helper()
	s, err := table.NewHotColdLevelStore[side.Sell](8, func(p vocab.Price) level.Level { return level.NewLinkedList(p) })
	require.NoError(t, err)
	return s
}

func newTestBook(t *testing.T) *Book {
	t.Helper()
	return New(newBuyStore(), newSellStore(), &StdBsnCounter{})
}

// TestScenarioA_MinimalBBO is spec.md §8 Scenario A: a single resting buy
// and a single resting sell fully determine the BBO.
func TestScenarioA_MinimalBBO(t *testing.T) {
	b := newTestBook(t)
	b.AddOrder(vocab.Buy, vocab.Order{Id: 1, Qty: 10, Price: 99})
	b.AddOrder(vocab.Sell, vocab.Order{Id: 2, Qty: 10, Price: 101})

	bbo := b.BBO()
	require.NotNil(t, bbo.Bid)
	require.NotNil(t, bbo.Offer)
	assert.EqualValues(t, 99, *bbo.Bid)
	assert.EqualValues(t, 101, *bbo.Offer)
	assert.Equal(t, "99/101", bbo.String())
}

// TestScenarioB_PartialThenFullFill is spec.md §8 Scenario B: executing less
// than the resting qty leaves the order resting; executing the remainder
// removes it and the side goes empty.
func TestScenarioB_PartialThenFullFill(t *testing.T) {
	b := newTestBook(t)
	b.AddOrder(vocab.Buy, vocab.Order{Id: 1, Qty: 10, Price: 100})

	b.ExecuteOrder(1, 4)
	top, _ := b.Buy().TopPriceQty()
	assert.EqualValues(t, 6, top)
	assert.False(t, b.Empty())

	b.ExecuteOrder(1, 6)
	assert.True(t, b.Empty())
}

// TestScenarioC_SamePriceModifyLosesTimePriority is spec.md §8 Scenario C:
// modifying an order without changing its price re-queues it at the tail of
// its level, behind orders that arrived after the original but before the
// modify.
func TestScenarioC_SamePriceModifyLosesTimePriority(t *testing.T) {
	b := newTestBook(t)
	b.AddOrder(vocab.Buy, vocab.Order{Id: 1, Qty: 10, Price: 100})
	b.AddOrder(vocab.Buy, vocab.Order{Id: 2, Qty: 10, Price: 100})
	require.Equal(t, vocab.OrderId(1), b.Buy().FirstOrder().Id)

	b.ModifyOrder(vocab.Order{Id: 1, Qty: 10, Price: 100})

	assert.Equal(t, vocab.OrderId(2), b.Buy().FirstOrder().Id)
}

// TestScenarioD_CrossLevelModify is spec.md §8 Scenario D: modifying an
// order to a new price moves it to that level and it lands at the tail
// there, as a fresh arrival.
func TestScenarioD_CrossLevelModify(t *testing.T) {
	b := newTestBook(t)
	b.AddOrder(vocab.Sell, vocab.Order{Id: 1, Qty: 10, Price: 100})
	b.AddOrder(vocab.Sell, vocab.Order{Id: 2, Qty: 10, Price: 95})

	b.ModifyOrder(vocab.Order{Id: 1, Qty: 10, Price: 90})

	offer, ok := b.Sell().TopPrice()
	require.True(t, ok)
	assert.EqualValues(t, 90, offer)
	assert.Equal(t, vocab.OrderId(1), b.Sell().FirstOrder().Id)
}

// TestScenarioE_EmptyAndRefill is spec.md §8 Scenario E: deleting a side's
// only order empties it, and a later add on that side is a clean refill, not
// a revival of stale state.
func TestScenarioE_EmptyAndRefill(t *testing.T) {
	b := newTestBook(t)
	b.AddOrder(vocab.Buy, vocab.Order{Id: 1, Qty: 10, Price: 100})
	b.DeleteOrder(1)
	assert.True(t, b.Buy().Empty())

	b.AddOrder(vocab.Buy, vocab.Order{Id: 2, Qty: 5, Price: 100})
	top, ok := b.Buy().TopPrice()
	require.True(t, ok)
	assert.EqualValues(t, 100, top)
}

// TestBsnAdvancesOncePerAcceptedEvent is invariant I7: every accepted
// mutating call advances the book sequence number by exactly one.
func TestBsnAdvancesOncePerAcceptedEvent(t *testing.T) {
	b := newTestBook(t)
	assert.EqualValues(t, 0, b.Bsn())

	b.AddOrder(vocab.Buy, vocab.Order{Id: 1, Qty: 10, Price: 100})
	assert.EqualValues(t, 1, b.Bsn())

	b.ReduceOrder(1, 3)
	assert.EqualValues(t, 2, b.Bsn())

	b.DeleteOrder(1)
	assert.EqualValues(t, 3, b.Bsn())
}

// TestVoidBsnCounterStaysZero confirms the no-op counting strategy never
// advances, matching original_source's void_bsn_counter_t.
func TestVoidBsnCounterStaysZero(t *testing.T) {
	b := New(newBuyStore(), newSellStore(), VoidBsnCounter{})
	b.AddOrder(vocab.Buy, vocab.Order{Id: 1, Qty: 10, Price: 100})
	b.DeleteOrder(1)
	assert.EqualValues(t, 0, b.Bsn())
}

// TestDeleteOrderUnknownIdPanics exercises the by-id preconditions: an
// unknown order id is a programming error on the caller's part, not a
// recoverable book-level condition.
func TestDeleteOrderUnknownIdPanics(t *testing.T) {
	b := newTestBook(t)
	assert.Panics(t, func() {
		b.DeleteOrder(999)
	})
}

// TestHotColdSellSide_TopPriceAdvances drives a hot/cold-backed sell side
// through a run of improving (decreasing) prices entirely via Book, so a
// regression in side.Sell's sentinel polarity shows up in a full book path,
// not only in table's own unit tests.
func TestHotColdSellSide_TopPriceAdvances(t *testing.T) {
	b := New(newBuyStore(), newHotColdSellStore(t), &StdBsnCounter{})

	const n = 20
	for i := vocab.OrderId(1); i <= n; i++ {
		price := vocab.Price(1000 - int64(i))
		b.AddOrder(vocab.Sell, vocab.Order{Id: i, Qty: 1, Price: price})
		offer, ok := b.Sell().TopPrice()
		require.True(t, ok)
		assert.EqualValues(t, price, offer)
	}
}

// TestOrderSideNeverChanges is invariant I8: an id always resolves back to
// the side it was added on, independent of reduce/modify traffic in
// between.
func TestOrderSideNeverChanges(t *testing.T) {
	b := newTestBook(t)
	b.AddOrder(vocab.Sell, vocab.Order{Id: 1, Qty: 10, Price: 100})
	b.ModifyOrder(vocab.Order{Id: 1, Qty: 8, Price: 105})
	b.ReduceOrder(1, 2)

	assert.True(t, b.Buy().Empty())
	assert.False(t, b.Sell().Empty())
}
