// Package side provides the side-polarized price arithmetic that lets every
// higher layer (price level, orders table, book) be written once and
// specialized for Buy and Sell via a Go generic type parameter instead of
// duplicated per side.
//
// "Forward" always means toward the opposite side; "closer to the top" means
// better for this side. Buy's top is the highest price; Sell's top is the
// lowest. All comparisons and directional moves across the rest of this
// module go through a Polarity implementation — nothing outside this package
// compares vocab.Price values directly.
package side

import "limitbook/vocab"

// Polarity is implemented by the two zero-size marker types Buy and Sell.
// Because the methods take no receiver state, OrdersTable[P Polarity] is
// specialized at compile time and the comparisons inline exactly as if the
// side had been hand-written twice.
type Polarity interface {
	// Side reports which vocab.Side this polarity represents.
	Side() vocab.Side

	// Less reports whether a is strictly closer to the top than b.
	Less(a, b vocab.Price) bool
	// LessOrEqual is the non-strict form of Less.
	LessOrEqual(a, b vocab.Price) bool
	// Min returns whichever of a, b is closer to the top.
	Min(a, b vocab.Price) vocab.Price
	// Distance returns a signed distance between a and b such that a
	// strictly closer to the top than b yields a positive value.
	Distance(a, b vocab.Price) vocab.Price
	// SafeDistance is Distance computed in unsigned 64-bit arithmetic to
	// avoid signed overflow near the int64 extremes. Precondition:
	// LessOrEqual(a, b) must hold.
	SafeDistance(a, b vocab.Price) uint64
	// AdvanceForward moves price toward the opposite side by delta.
	AdvanceForward(price, delta vocab.Price) vocab.Price
	// AdvanceBackward moves price away from the opposite side by delta.
	AdvanceBackward(price, delta vocab.Price) vocab.Price
	// MaxValue is the best-possible (top-most) price sentinel for this side.
	MaxValue() vocab.Price
	// MinValue is the worst-possible (bottom-most) price sentinel for this
	// side — the opposite extreme from MaxValue.
	MinValue() vocab.Price
}

// Buy is the Polarity for the buy side: higher prices are better.
type Buy struct{}

func (Buy) Side() vocab.Side { return vocab.Buy }

func (Buy) Less(a, b vocab.Price) bool           { return a > b }
func (Buy) LessOrEqual(a, b vocab.Price) bool    { return a >= b }
func (Buy) Min(a, b vocab.Price) vocab.Price {
	if a > b {
		return a
	}
	return b
}
func (Buy) Distance(a, b vocab.Price) vocab.Price { return a - b }
func (Buy) SafeDistance(a, b vocab.Price) uint64 {
	return uint64(a) - uint64(b)
}
func (Buy) AdvanceForward(price, delta vocab.Price) vocab.Price  { return price + delta }
func (Buy) AdvanceBackward(price, delta vocab.Price) vocab.Price { return price - delta }

// MaxValue is the extreme best (highest) buy price; an order resting there
// is always the top of the buy side.
func (Buy) MaxValue() vocab.Price { return vocab.Price(maxInt64) }

// MinValue is the extreme worst (lowest) buy price; an order resting there
// always sits at the tail of the buy side.
func (Buy) MinValue() vocab.Price { return vocab.Price(minInt64) }

// Sell is the Polarity for the sell side: lower prices are better.
type Sell struct{}

func (Sell) Side() vocab.Side { return vocab.Sell }

func (Sell) Less(a, b vocab.Price) bool        { return a < b }
func (Sell) LessOrEqual(a, b vocab.Price) bool { return a <= b }
func (Sell) Min(a, b vocab.Price) vocab.Price {
	if a < b {
		return a
	}
	return b
}
func (Sell) Distance(a, b vocab.Price) vocab.Price { return b - a }
func (Sell) SafeDistance(a, b vocab.Price) uint64 {
	return uint64(b) - uint64(a)
}
func (Sell) AdvanceForward(price, delta vocab.Price) vocab.Price  { return price - delta }
func (Sell) AdvanceBackward(price, delta vocab.Price) vocab.Price { return price + delta }

// MaxValue is the extreme best (lowest) sell price; an order resting there
// is always the top of the sell side.
func (Sell) MaxValue() vocab.Price { return vocab.Price(minInt64) }

// MinValue is the extreme worst (highest) sell price; an order resting there
// always sits at the tail of the sell side.
func (Sell) MinValue() vocab.Price { return vocab.Price(maxInt64) }

const (
	maxInt64 = int64(1<<63 - 1)
	minInt64 = -maxInt64 - 1
)

// Less reports whether a sits strictly closer to b's side's top than b.
// A package-level comparator, built from a zero-value Polarity, suitable for
// map.OrderedMap-shaped containers that want a two-argument bool func.
func Less[P Polarity](a, b vocab.Price) bool {
	var p P
	return p.Less(a, b)
}
