// Package table implements the orders table: the add/delete/execute/
// reduce/modify algorithm for a single trade side, generic over both the
// side's price polarity and the price-level storage strategy behind it.
//
// Grounded on original_source's orders_table_crtp_base_t
// (orders_table_crtp_base.hpp), which is the canonical statement of this
// algorithm: the CRTP base holds the by-id public entry points and the
// by-iterator "semi-private" routines a Book uses once it has already
// resolved an id to a location; concrete orders tables (map/, linear/,
// mixed/lru/, mixed/hot_cold/) supply only level_at/top_level/retire_level.
// OrdersTable here plays the CRTP base's role directly — Go interfaces
// replace the CRTP derived-type indirection, and the side is a type
// parameter instead of a non-type template parameter.
package table

import (
	"fmt"

	"limitbook/level"
	"limitbook/orderref"
	"limitbook/side"
	"limitbook/vocab"
)

// LevelKey identifies a level's location within a LevelStore well enough
// for RetireLevel to remove it without a second lookup — the Go analogue
// of the std::map::iterator original_source keeps around for the same
// purpose in orders_table_crtp_base_t::delete_order/modify_order.
type LevelKey any

// LevelStore is the price-indexed container of Levels for one trade side:
// the piece that actually varies across the S1/S4/S6 strategies in
// SPEC_FULL.md. Every strategy keeps its levels ordered so TopLevel/
// TopPrice always resolve to the best price for the side it was built for.
type LevelStore interface {
	// LevelAt returns the Level at price, creating an empty one if none
	// exists yet, along with a LevelKey that RetireLevel can use to remove
	// it later.
	LevelAt(price vocab.Price) (level.Level, LevelKey)

	// TopPrice returns the best (top) price currently holding a level, and
	// true, or the zero price and false if the store is empty.
	TopPrice() (vocab.Price, bool)

	// TopLevel returns the Level at the best (top) price.
	//
	// Precondition: the store is not Empty.
	TopLevel() level.Level

	// RetireLevel removes the now-empty level identified by key.
	RetireLevel(key LevelKey)

	// Empty reports whether the store holds no level with a resting order
	// (I4: an observable level is never left empty).
	Empty() bool

	// Levels calls visit for every currently present level, from the top
	// price outward, stopping early if visit returns false.
	Levels(visit func(level.Level) bool)
}

// OrdersTable is the order book for a single trade side: every resting
// order, organized into price levels by a LevelStore, indexed by id through
// a shared orderref.Index.
type OrdersTable[P side.Polarity] struct {
	store LevelStore
	index *orderref.Index
}

// New builds an OrdersTable over store, sharing index with the opposite
// side's table (exactly one order-reference index per Book, per spec.md
// §3).
func New[P side.Polarity](store LevelStore, index *orderref.Index) *OrdersTable[P] {
	return &OrdersTable[P]{store: store, index: index}
}

func (t *OrdersTable[P]) side() P { var p P; return p }

// Empty reports whether this side currently holds no resting orders.
func (t *OrdersTable[P]) Empty() bool { return t.store.Empty() }

// TopPrice returns this side's best price, and true, or false if Empty.
func (t *OrdersTable[P]) TopPrice() (vocab.Price, bool) { return t.store.TopPrice() }

// TopPriceQty returns the total resting quantity at TopPrice, and true, or
// false if Empty.
func (t *OrdersTable[P]) TopPriceQty() (vocab.OrderQty, bool) {
	if t.store.Empty() {
		return 0, false
	}
	return t.store.TopLevel().TotalQty(), true
}

// FirstOrder returns the order that would be matched first on this side:
// the front of time priority at the top price.
//
// Precondition: the table is not Empty.
func (t *OrdersTable[P]) FirstOrder() vocab.Order {
	if t.store.Empty() {
		panic("table: FirstOrder on empty table")
	}
	return t.store.TopLevel().FirstOrder()
}

// Levels calls visit for every price level currently present, from the top
// price outward, stopping early if visit returns false.
func (t *OrdersTable[P]) Levels(visit func(level.Level) bool) {
	t.store.Levels(visit)
}

// AddOrder inserts a brand-new order and returns a Handle to its index
// entry.
//
// Preconditions: order.Qty > 0; order.Id MUST NOT already be present.
func (t *OrdersTable[P]) AddOrder(order vocab.Order) orderref.Handle {
	if order.Qty == 0 {
		panic("table: AddOrder requires qty > 0")
	}
	if _, exists := t.index.Find(order.Id); exists {
		panic(fmt.Sprintf("table: AddOrder: id %d already present", order.Id))
	}

	lvl, _ := t.store.LevelAt(order.Price)
	ref := lvl.AddOrder(order)
	return t.index.Insert(order.Id, orderref.Entry{Side: t.side().Side(), Order: order, Ref: ref})
}

// DeleteOrder removes the order identified by id.
//
// Precondition: id MUST exist in this table.
func (t *OrdersTable[P]) DeleteOrder(id vocab.OrderId) {
	h := t.mustFind(id)
	t.DeleteByHandle(h)
}

// DeleteByHandle is the by-handle form of DeleteOrder, used by Book once it
// has already resolved an id to a Handle via the shared index.
func (t *OrdersTable[P]) DeleteByHandle(h orderref.Handle) {
	entry := t.index.Access(h)
	lvl, key := t.store.LevelAt(entry.Order.Price)
	lvl.DeleteOrder(entry.Ref)

	if lvl.Empty() {
		t.store.RetireLevel(key)
	}
	t.index.Erase(h)
}

// ExecuteOrder fills execQty of the order identified by id.
//
// Preconditions: execQty > 0; id MUST exist and MUST be the first order at
// the table's current top price (spec.md §9's intentionally strict
// top-of-book precondition, preserved from
// orders_table_crtp_base_t::execute_order).
func (t *OrdersTable[P]) ExecuteOrder(id vocab.OrderId, execQty vocab.OrderQty) {
	h := t.mustFind(id)
	t.ExecuteByHandle(h, execQty)
}

// ExecuteByHandle is the by-handle form of ExecuteOrder.
func (t *OrdersTable[P]) ExecuteByHandle(h orderref.Handle, execQty vocab.OrderQty) {
	if execQty == 0 {
		panic("table: ExecuteOrder requires execQty > 0")
	}
	if t.store.Empty() {
		panic("table: ExecuteOrder on empty table")
	}

	entry := t.index.Access(h)
	top, _ := t.store.TopPrice()
	if entry.Order.Price != top {
		panic("table: ExecuteOrder requires the order to be at the top of book")
	}
	if entry.Order.Qty < execQty {
		panic("table: ExecuteOrder: execQty exceeds resting qty")
	}

	if entry.Order.Qty == execQty {
		t.DeleteByHandle(h)
		return
	}

	newRef := t.store.TopLevel().ReduceQty(entry.Ref, execQty)
	entry.Ref = newRef
	entry.Order.Qty -= execQty
}

// ReduceOrder lowers the resting quantity of the order identified by id by
// canceledQty, without fully removing it.
//
// Preconditions: id MUST exist; its current qty MUST be strictly greater
// than canceledQty (reducing to exactly zero is a delete, never a reduce).
func (t *OrdersTable[P]) ReduceOrder(id vocab.OrderId, canceledQty vocab.OrderQty) {
	h := t.mustFind(id)
	t.ReduceByHandle(h, canceledQty)
}

// ReduceByHandle is the by-handle form of ReduceOrder.
func (t *OrdersTable[P]) ReduceByHandle(h orderref.Handle, canceledQty vocab.OrderQty) {
	if canceledQty == 0 {
		panic("table: ReduceOrder requires canceledQty > 0")
	}
	entry := t.index.Access(h)
	if entry.Order.Qty <= canceledQty {
		panic("table: ReduceOrder requires remaining qty > 0")
	}

	lvl, _ := t.store.LevelAt(entry.Order.Price)
	newRef := lvl.ReduceQty(entry.Ref, canceledQty)
	entry.Ref = newRef
	entry.Order.Qty -= canceledQty
}

// ModifyOrder replaces the qty and/or price of the order identified by
// modified.Id.
//
// Same-price modifies re-queue at the tail of that level's time priority —
// this is spec.md §9's intentionally preserved loses-time-priority
// behavior, matching orders_table_crtp_base_t::modify_order's same-price
// branch (delete then re-add to the same level).
//
// Precondition: modified.Qty > 0; modified.Id MUST already exist.
func (t *OrdersTable[P]) ModifyOrder(modified vocab.Order) {
	h := t.mustFind(modified.Id)
	t.ModifyByHandle(h, modified)
}

// ModifyByHandle is the by-handle form of ModifyOrder.
func (t *OrdersTable[P]) ModifyByHandle(h orderref.Handle, modified vocab.Order) {
	if modified.Qty == 0 {
		panic("table: ModifyOrder requires qty > 0")
	}
	entry := t.index.Access(h)
	if entry.Order.Id != modified.Id {
		panic("table: ModifyOrder: handle/id mismatch")
	}

	oldOrder := entry.Order

	if oldOrder.Price == modified.Price {
		lvl, _ := t.store.LevelAt(oldOrder.Price)
		lvl.DeleteOrder(entry.Ref)
		entry.Ref = lvl.AddOrder(modified)
		entry.Order = modified
		return
	}

	// Fetch the new level before the old one: for array-backed level
	// stores, creating a new level can trigger storage reallocation, which
	// would invalidate an old-level pointer fetched first. Fetching new,
	// then old, then mutating, keeps the old level's pointer valid for the
	// delete that follows it. Mirrors the ordering
	// orders_table_crtp_base_t::modify_order documents for exactly this
	// reason.
	newLvl, _ := t.store.LevelAt(modified.Price)
	oldLvl, oldKey := t.store.LevelAt(oldOrder.Price)

	oldLvl.DeleteOrder(entry.Ref)
	entry.Ref = newLvl.AddOrder(modified)
	entry.Order = modified

	if oldLvl.Empty() {
		t.store.RetireLevel(oldKey)
	}
}

func (t *OrdersTable[P]) mustFind(id vocab.OrderId) orderref.Handle {
	h, ok := t.index.Find(id)
	if !ok {
		panic(fmt.Sprintf("table: unknown order id %d", id))
	}
	return h
}
