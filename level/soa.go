package level

import "limitbook/vocab"

// SOA is a second Level strategy: a structure-of-arrays store with an
// intrusive free list, grounded on original_source's soa_price_level.hpp.
// Orders live in a flat slice; arrival order is maintained by next/prev
// index links instead of list.Element pointers, and deleted slots are
// recycled from a free list instead of shrinking the slice — the same
// trade (no allocator traffic per add/delete, in exchange for an index
// indirection on every access) the C++ SOA variant makes over the
// list-based one.
type SOA struct {
	price vocab.Price

	orders []vocab.Order
	next   []int32 // -1 terminates
	prev   []int32 // -1 terminates

	head, tail int32 // -1 if empty
	free       int32 // head of the free list, -1 if none
	count      int
	ordersQty  vocab.OrderQty
}

// soaRef is the Ref for SOA: a price plus the slot index.
type soaRef struct {
	price vocab.Price
	slot  int32
}

func (r soaRef) Price() vocab.Price { return r.price }

const soaNone = int32(-1)

// NewSOA creates an empty level at the given price.
func NewSOA(price vocab.Price) *SOA {
	return &SOA{
		price: price,
		head:  soaNone,
		tail:  soaNone,
		free:  soaNone,
	}
}

func (l *SOA) allocSlot() int32 {
	if l.free != soaNone {
		slot := l.free
		l.free = l.next[slot]
		return slot
	}
	l.orders = append(l.orders, vocab.Order{})
	l.next = append(l.next, soaNone)
	l.prev = append(l.prev, soaNone)
	return int32(len(l.orders) - 1)
}

func (l *SOA) freeSlot(slot int32) {
	l.next[slot] = l.free
	l.free = slot
}

func (l *SOA) AddOrder(order vocab.Order) Ref {
	if order.Price != l.price {
		panic("level: AddOrder price mismatch")
	}
	slot := l.allocSlot()
	l.orders[slot] = order
	l.prev[slot] = l.tail
	l.next[slot] = soaNone

	if l.tail == soaNone {
		l.head = slot
	} else {
		l.next[l.tail] = slot
	}
	l.tail = slot

	l.count++
	l.ordersQty += order.Qty
	return soaRef{price: l.price, slot: slot}
}

func (l *SOA) unlink(slot int32) {
	p, n := l.prev[slot], l.next[slot]
	if p != soaNone {
		l.next[p] = n
	} else {
		l.head = n
	}
	if n != soaNone {
		l.prev[n] = p
	} else {
		l.tail = p
	}
}

func (l *SOA) DeleteOrder(ref Ref) {
	r := ref.(soaRef)
	if r.price != l.price {
		panic("level: DeleteOrder price mismatch")
	}
	order := l.orders[r.slot]
	if l.ordersQty < order.Qty {
		panic("level: orders qty underflow on delete")
	}
	l.ordersQty -= order.Qty
	l.count--
	l.unlink(r.slot)
	l.freeSlot(r.slot)
}

func (l *SOA) ReduceQty(ref Ref, qty vocab.OrderQty) Ref {
	r := ref.(soaRef)
	if r.price != l.price {
		panic("level: ReduceQty price mismatch")
	}
	if l.orders[r.slot].Qty <= qty {
		panic("level: ReduceQty requires qty strictly greater than reduction")
	}
	l.orders[r.slot].Qty -= qty
	l.ordersQty -= qty
	return r
}

func (l *SOA) OrderAt(ref Ref) vocab.Order {
	r := ref.(soaRef)
	if r.price != l.price {
		panic("level: OrderAt price mismatch")
	}
	return l.orders[r.slot]
}

func (l *SOA) Price() vocab.Price { return l.price }

func (l *SOA) Count() int { return l.count }

func (l *SOA) TotalQty() vocab.OrderQty { return l.ordersQty }

func (l *SOA) Empty() bool { return l.count == 0 }

func (l *SOA) FirstOrder() vocab.Order {
	if l.head == soaNone {
		panic("level: FirstOrder on empty level")
	}
	return l.orders[l.head]
}

func (l *SOA) OrdersRange(visit func(vocab.Order) bool) {
	for slot := l.head; slot != soaNone; slot = l.next[slot] {
		if !visit(l.orders[slot]) {
			return
		}
	}
}

func (l *SOA) OrdersRangeReverse(visit func(vocab.Order) bool) {
	for slot := l.tail; slot != soaNone; slot = l.prev[slot] {
		if !visit(l.orders[slot]) {
			return
		}
	}
}
