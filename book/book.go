// Package book implements the top-level limit order book: the pair of
// per-side orders tables sharing one order-reference index, plus the book
// sequence number every accepted mutating event advances.
//
// Grounded on original_source's book.hpp (book_t), which aggregates exactly
// this: a bsn_counter, shared impl_data (order_refs_index + price level
// storage), and one orders table per side, and routes id-only calls
// through the shared index to learn which side's table actually owns the
// order before delegating to it.
package book

import (
	"fmt"

	"limitbook/orderref"
	"limitbook/side"
	"limitbook/table"
	"limitbook/vocab"
)

// BsnCounter is the book sequence number strategy. A Book holds one behind
// this interface so a caller that does not need BSN tracking (e.g. a
// throwaway book built only to replay a scenario for a test) can pass
// VoidBsnCounter and pay nothing for it, exactly as original_source's
// void_bsn_counter_t and std_bsn_counter_t are both valid instantiations of
// Book_Traits_Concept's bsn_counter_t.
type BsnCounter interface {
	inc()
	value() vocab.Bsn
}

// StdBsnCounter is a real, monotonically incrementing book sequence number.
// It must be passed to New as *StdBsnCounter (inc mutates it in place).
type StdBsnCounter struct{ bsn vocab.Bsn }

func (c *StdBsnCounter) inc()             { c.bsn++ }
func (c *StdBsnCounter) value() vocab.Bsn { return c.bsn }

// VoidBsnCounter always reports zero and costs nothing to increment, for
// callers that do not need sequencing.
type VoidBsnCounter struct{}

func (VoidBsnCounter) inc()             {}
func (VoidBsnCounter) value() vocab.Bsn { return 0 }

// BBO is the best bid and offer: the top of each side, if present.
type BBO struct {
	Bid   *vocab.Price
	Offer *vocab.Price
}

// String renders BBO as "bid/offer", using "-" for an absent side. This is
// the one formatting method this package carries — see SPEC_FULL.md for why a
// full book-state formatter (the original's fmt::formatter<book_t>
// depth-ladder) is out of scope.
func (b BBO) String() string {
	bid, offer := "-", "-"
	if b.Bid != nil {
		bid = fmt.Sprintf("%d", *b.Bid)
	}
	if b.Offer != nil {
		offer = fmt.Sprintf("%d", *b.Offer)
	}
	return bid + "/" + offer
}

// Book is a single instrument's limit order book: one buy table, one sell
// table, a shared order-reference index, and a BSN counter. A Book has no
// internal concurrency (spec.md §5) — every call here must come from a
// single owning goroutine.
type Book struct {
	index *orderref.Index
	buy   *table.OrdersTable[side.Buy]
	sell  *table.OrdersTable[side.Sell]
	bsn   BsnCounter
}

// New builds an empty Book over the given per-side LevelStore strategies
// and BSN counting strategy. buyStore and sellStore may be different
// strategies (e.g. hot/cold on the buy side, map-based on the sell side) —
// nothing in Book or table assumes symmetry. Pass &StdBsnCounter{} for real
// sequencing or VoidBsnCounter{} to skip it.
func New(buyStore, sellStore table.LevelStore, bsn BsnCounter) *Book {
	index := orderref.NewIndex()
	return &Book{
		index: index,
		buy:   table.New[side.Buy](buyStore, index),
		sell:  table.New[side.Sell](sellStore, index),
		bsn:   bsn,
	}
}

// Bsn returns the current book sequence number.
func (b *Book) Bsn() vocab.Bsn { return b.bsn.value() }

// Empty reports whether both sides hold no resting orders.
func (b *Book) Empty() bool { return b.buy.Empty() && b.sell.Empty() }

// Buy returns the buy-side orders table.
func (b *Book) Buy() *table.OrdersTable[side.Buy] { return b.buy }

// Sell returns the sell-side orders table.
func (b *Book) Sell() *table.OrdersTable[side.Sell] { return b.sell }

// BBO returns the current best bid and offer.
func (b *Book) BBO() BBO {
	var out BBO
	if p, ok := b.buy.TopPrice(); ok {
		out.Bid = &p
	}
	if p, ok := b.sell.TopPrice(); ok {
		out.Offer = &p
	}
	return out
}

// AddOrder adds a brand-new order on the given side and advances the BSN.
//
// Preconditions: order.Qty > 0; order.Id MUST NOT already exist on either
// side (ids are unique across the whole book, not just within one side).
func (b *Book) AddOrder(s vocab.Side, order vocab.Order) {
	if s == vocab.Buy {
		b.buy.AddOrder(order)
	} else {
		b.sell.AddOrder(order)
	}
	b.bsn.inc()
}

// DeleteOrder removes the order identified by id, resolving which side it
// rests on through the shared index.
//
// Precondition: id MUST exist.
func (b *Book) DeleteOrder(id vocab.OrderId) {
	h, entry := b.mustFind(id)
	if entry.Side == vocab.Buy {
		b.buy.DeleteByHandle(h)
	} else {
		b.sell.DeleteByHandle(h)
	}
	b.bsn.inc()
}

// ExecuteOrder fills execQty of the order identified by id.
//
// Preconditions: execQty > 0; id MUST exist and MUST be at the top of its
// side's book (spec.md §9's intentionally preserved strict precondition).
func (b *Book) ExecuteOrder(id vocab.OrderId, execQty vocab.OrderQty) {
	h, entry := b.mustFind(id)
	if entry.Side == vocab.Buy {
		b.buy.ExecuteByHandle(h, execQty)
	} else {
		b.sell.ExecuteByHandle(h, execQty)
	}
	b.bsn.inc()
}

// ReduceOrder lowers the resting quantity of the order identified by id by
// canceledQty.
//
// Preconditions: canceledQty > 0; id MUST exist; its remaining qty after
// the reduction MUST be strictly positive.
func (b *Book) ReduceOrder(id vocab.OrderId, canceledQty vocab.OrderQty) {
	h, entry := b.mustFind(id)
	if entry.Side == vocab.Buy {
		b.buy.ReduceByHandle(h, canceledQty)
	} else {
		b.sell.ReduceByHandle(h, canceledQty)
	}
	b.bsn.inc()
}

// ModifyOrder replaces the qty and/or price of the order identified by
// modified.Id. The order's side never changes (I8) — only the table the id
// already resolves to is touched.
//
// Precondition: modified.Qty > 0; modified.Id MUST already exist.
func (b *Book) ModifyOrder(modified vocab.Order) {
	h, entry := b.mustFind(modified.Id)
	if entry.Side == vocab.Buy {
		b.buy.ModifyByHandle(h, modified)
	} else {
		b.sell.ModifyByHandle(h, modified)
	}
	b.bsn.inc()
}

func (b *Book) mustFind(id vocab.OrderId) (orderref.Handle, orderref.Entry) {
	h, ok := b.index.Find(id)
	if !ok {
		panic(fmt.Sprintf("book: unknown order id %d", id))
	}
	return h, *b.index.Access(h)
}
