// Package vocab defines the strong-typed vocabulary shared by every layer of
// the book: order ids, quantities, prices, the book sequence number, and the
// order aggregate itself.
package vocab

import "fmt"

// OrderId uniquely identifies a live order across both sides of a book.
type OrderId uint64

// OrderQty is the resting quantity of an order. Live orders always carry a
// quantity greater than zero (I2); zeroing is expressed as a delete, never as
// a qty of zero.
type OrderQty uint32

// Price is a signed price unit. The orders table never works with raw prices
// except through the side-polarized arithmetic in the side package: doing
// int64 comparisons directly outside of that package is almost always the
// wrong side's comparison.
type Price int64

// Side identifies which side of the book an order rests on.
type Side uint8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "sell"
	}
	return "buy"
}

// Bsn is the book sequence number: a monotonic counter incremented once per
// accepted mutating event (I7).
type Bsn uint64

// Order is the trading order aggregate: identity, quantity and price. It
// carries no side — an order's side lives in the order-reference index entry,
// not on the order itself, because side is established once at add_order and
// never changes (I8).
type Order struct {
	Id    OrderId
	Qty   OrderQty
	Price Price
}

func (o Order) String() string {
	return fmt.Sprintf("[%d@%d #%d]", o.Qty, o.Price, o.Id)
}
