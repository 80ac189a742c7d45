package level

import (
	"container/list"

	"limitbook/vocab"
)

// listRef is the Ref implementation for LinkedList: a price plus the
// *list.Element holding the order. Grounded on original_source's
// list_based_price_level_order_reference_t, which pairs a price with a
// std::list iterator for the same reason — an O(1) erase/splice handle.
type listRef struct {
	price vocab.Price
	elem  *list.Element
}

func (r listRef) Price() vocab.Price { return r.price }

// LinkedList is the default Level strategy: a doubly-linked list of orders
// in arrival order, backed by container/list.
//
// Grounded on the teacher's orderbook.PriceLevel_ (orderbook/price_tree.go),
// which stores Orders *list.List per price level, and on original_source's
// std_price_level_t (price_level.hpp), which is the same idea templated
// over a list container trait. container/list gives the same O(1)
// add-at-tail / delete-by-handle / splice-free-nothing semantics the C++
// side gets from plf::list or std::list.
type LinkedList struct {
	price     vocab.Price
	orders    *list.List
	ordersQty vocab.OrderQty
}

// NewLinkedList creates an empty level at the given price.
func NewLinkedList(price vocab.Price) *LinkedList {
	return &LinkedList{
		price:  price,
		orders: list.New(),
	}
}

func (l *LinkedList) AddOrder(order vocab.Order) Ref {
	if order.Price != l.price {
		panic("level: AddOrder price mismatch")
	}
	l.ordersQty += order.Qty
	elem := l.orders.PushBack(order)
	return listRef{price: l.price, elem: elem}
}

func (l *LinkedList) DeleteOrder(ref Ref) {
	r := ref.(listRef)
	if r.price != l.price {
		panic("level: DeleteOrder price mismatch")
	}
	order := r.elem.Value.(vocab.Order)
	if l.ordersQty < order.Qty {
		panic("level: orders qty underflow on delete")
	}
	l.ordersQty -= order.Qty
	l.orders.Remove(r.elem)
}

func (l *LinkedList) ReduceQty(ref Ref, qty vocab.OrderQty) Ref {
	r := ref.(listRef)
	if r.price != l.price {
		panic("level: ReduceQty price mismatch")
	}
	order := r.elem.Value.(vocab.Order)
	if order.Qty <= qty {
		panic("level: ReduceQty requires qty strictly greater than reduction")
	}
	order.Qty -= qty
	r.elem.Value = order
	l.ordersQty -= qty
	return r
}

func (l *LinkedList) OrderAt(ref Ref) vocab.Order {
	r := ref.(listRef)
	if r.price != l.price {
		panic("level: OrderAt price mismatch")
	}
	return r.elem.Value.(vocab.Order)
}

func (l *LinkedList) Price() vocab.Price { return l.price }

func (l *LinkedList) Count() int { return l.orders.Len() }

func (l *LinkedList) TotalQty() vocab.OrderQty { return l.ordersQty }

func (l *LinkedList) Empty() bool { return l.orders.Len() == 0 }

func (l *LinkedList) FirstOrder() vocab.Order {
	if l.orders.Len() == 0 {
		panic("level: FirstOrder on empty level")
	}
	return l.orders.Front().Value.(vocab.Order)
}

func (l *LinkedList) OrdersRange(visit func(vocab.Order) bool) {
	for e := l.orders.Front(); e != nil; e = e.Next() {
		if !visit(e.Value.(vocab.Order)) {
			return
		}
	}
}

func (l *LinkedList) OrdersRangeReverse(visit func(vocab.Order) bool) {
	for e := l.orders.Back(); e != nil; e = e.Prev() {
		if !visit(e.Value.(vocab.Order)) {
			return
		}
	}
}
