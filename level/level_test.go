package level

import (
	"testing"

	"limitbook/vocab"
)

// levelCtors lets the contract tests below run once per Level strategy.
var levelCtors = map[string]func(vocab.Price) Level{
	"LinkedList": func(p vocab.Price) Level { return NewLinkedList(p) },
	"SOA":        func(p vocab.Price) Level { return NewSOA(p) },
}

func TestLevel_AddFirstOrderOrdering(t *testing.T) {
	for name, newLevel := range levelCtors {
		t.Run(name, func(t *testing.T) {
			lvl := newLevel(100)
			if !lvl.Empty() {
				t.Fatal("new level should be empty")
			}

			lvl.AddOrder(vocab.Order{Id: 1, Qty: 10, Price: 100})
			lvl.AddOrder(vocab.Order{Id: 2, Qty: 20, Price: 100})

			if lvl.Count() != 2 {
				t.Errorf("expected count 2, got %d", lvl.Count())
			}
			if lvl.TotalQty() != 30 {
				t.Errorf("expected total qty 30, got %d", lvl.TotalQty())
			}
			if got := lvl.FirstOrder(); got.Id != 1 {
				t.Errorf("expected first order id 1, got %d", got.Id)
			}
		})
	}
}

func TestLevel_DeleteOrder(t *testing.T) {
	for name, newLevel := range levelCtors {
		t.Run(name, func(t *testing.T) {
			lvl := newLevel(100)
			ref1 := lvl.AddOrder(vocab.Order{Id: 1, Qty: 10, Price: 100})
			lvl.AddOrder(vocab.Order{Id: 2, Qty: 20, Price: 100})

			lvl.DeleteOrder(ref1)

			if lvl.Count() != 1 {
				t.Errorf("expected count 1, got %d", lvl.Count())
			}
			if lvl.TotalQty() != 20 {
				t.Errorf("expected total qty 20, got %d", lvl.TotalQty())
			}
			if got := lvl.FirstOrder(); got.Id != 2 {
				t.Errorf("expected remaining order id 2, got %d", got.Id)
			}
		})
	}
}

func TestLevel_ReduceQty(t *testing.T) {
	for name, newLevel := range levelCtors {
		t.Run(name, func(t *testing.T) {
			lvl := newLevel(100)
			ref := lvl.AddOrder(vocab.Order{Id: 1, Qty: 10, Price: 100})

			ref = lvl.ReduceQty(ref, 4)

			if got := lvl.OrderAt(ref); got.Qty != 6 {
				t.Errorf("expected remaining qty 6, got %d", got.Qty)
			}
			if lvl.TotalQty() != 6 {
				t.Errorf("expected level total qty 6, got %d", lvl.TotalQty())
			}
		})
	}
}

func TestLevel_ReduceQtyToZeroPanics(t *testing.T) {
	for name, newLevel := range levelCtors {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic reducing qty to exactly zero")
				}
			}()
			lvl := newLevel(100)
			ref := lvl.AddOrder(vocab.Order{Id: 1, Qty: 10, Price: 100})
			lvl.ReduceQty(ref, 10)
		})
	}
}

func TestLevel_OrdersRangeOrder(t *testing.T) {
	for name, newLevel := range levelCtors {
		t.Run(name, func(t *testing.T) {
			lvl := newLevel(100)
			lvl.AddOrder(vocab.Order{Id: 1, Qty: 1, Price: 100})
			lvl.AddOrder(vocab.Order{Id: 2, Qty: 1, Price: 100})
			lvl.AddOrder(vocab.Order{Id: 3, Qty: 1, Price: 100})

			var forward []vocab.OrderId
			lvl.OrdersRange(func(o vocab.Order) bool {
				forward = append(forward, o.Id)
				return true
			})
			want := []vocab.OrderId{1, 2, 3}
			if !sliceEq(forward, want) {
				t.Errorf("forward order = %v, want %v", forward, want)
			}

			var backward []vocab.OrderId
			lvl.OrdersRangeReverse(func(o vocab.Order) bool {
				backward = append(backward, o.Id)
				return true
			})
			wantRev := []vocab.OrderId{3, 2, 1}
			if !sliceEq(backward, wantRev) {
				t.Errorf("reverse order = %v, want %v", backward, wantRev)
			}
		})
	}
}

func TestLevel_OrdersRangeEarlyStop(t *testing.T) {
	for name, newLevel := range levelCtors {
		t.Run(name, func(t *testing.T) {
			lvl := newLevel(100)
			lvl.AddOrder(vocab.Order{Id: 1, Qty: 1, Price: 100})
			lvl.AddOrder(vocab.Order{Id: 2, Qty: 1, Price: 100})

			var visited int
			lvl.OrdersRange(func(vocab.Order) bool {
				visited++
				return false
			})
			if visited != 1 {
				t.Errorf("expected early stop after 1 visit, got %d", visited)
			}
		})
	}
}

// reuse-after-delete: a strategy with slot recycling (SOA) must not confuse
// a freed slot with a live one.
func TestLevel_AddDeleteAddReuse(t *testing.T) {
	for name, newLevel := range levelCtors {
		t.Run(name, func(t *testing.T) {
			lvl := newLevel(100)
			ref1 := lvl.AddOrder(vocab.Order{Id: 1, Qty: 1, Price: 100})
			lvl.DeleteOrder(ref1)
			ref2 := lvl.AddOrder(vocab.Order{Id: 2, Qty: 5, Price: 100})

			if lvl.Count() != 1 {
				t.Errorf("expected count 1, got %d", lvl.Count())
			}
			if got := lvl.OrderAt(ref2); got.Id != 2 || got.Qty != 5 {
				t.Errorf("unexpected order at ref2: %+v", got)
			}
		})
	}
}

func sliceEq(a, b []vocab.OrderId) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
