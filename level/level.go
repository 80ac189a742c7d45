// Package level implements the price-level contract: the storage of every
// resting order at a single price, in arrival order.
//
// Grounded on the teacher's orderbook.PriceLevel_ (orderbook/price_tree.go)
// and original_source's std_price_level_t (price_level.hpp), generalized
// behind a Level interface so the orders table can swap storage strategies
// without caring which one is in use.
package level

import "limitbook/vocab"

// Ref is a transient handle to an order's position within a Level. It is
// only ever valid for the Level that produced it and must never be held
// across an event boundary (it may be invalidated by any later mutation to
// the same level) — mirroring original_source's reference_t discipline.
type Ref interface {
	// Price is the price of the level this ref was issued by.
	Price() vocab.Price
}

// Level is the storage contract for all orders resting at one price,
// in strict arrival (time-priority) order. Every method that mutates
// state returns or consumes a Ref rather than an OrderId, so the caller
// (the orders table) pays for a lookup once per event, not once per level
// operation.
type Level interface {
	// AddOrder appends order to the tail of this level and returns a Ref
	// to its position.
	//
	// Precondition: order.Price equals this level's Price.
	AddOrder(order vocab.Order) Ref

	// DeleteOrder removes the order identified by ref.
	//
	// Precondition: ref was produced by this level and has not been
	// invalidated by an intervening mutation.
	DeleteOrder(ref Ref)

	// ReduceQty lowers the resting quantity of the order identified by ref
	// by qty and returns a (possibly different) Ref to the same order.
	//
	// Precondition: the order's current quantity is strictly greater than
	// qty (reducing to exactly zero is a delete, never a reduce).
	ReduceQty(ref Ref, qty vocab.OrderQty) Ref

	// OrderAt returns the order currently identified by ref.
	OrderAt(ref Ref) vocab.Order

	// Price is the price this level represents.
	Price() vocab.Price

	// Count is the number of orders currently resting on this level.
	Count() int

	// TotalQty is the sum of the resting quantity of every order on this
	// level.
	TotalQty() vocab.OrderQty

	// Empty reports whether this level has no resting orders. A Level
	// present in an orders table is never left observable in an empty
	// state (I4) — callers retire it as soon as Empty becomes true.
	Empty() bool

	// FirstOrder returns the order at the front of time priority.
	//
	// Precondition: the level is not Empty.
	FirstOrder() vocab.Order

	// OrdersRange calls visit for every resting order from the front of
	// time priority to the back, stopping early if visit returns false.
	OrdersRange(visit func(vocab.Order) bool)

	// OrdersRangeReverse is OrdersRange from the back of time priority to
	// the front.
	OrdersRangeReverse(visit func(vocab.Order) bool)
}
