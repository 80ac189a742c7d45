package orderref

import (
	"testing"

	"limitbook/vocab"
)

func TestIndex_InsertFindAccess(t *testing.T) {
	idx := NewIndex()

	h := idx.Insert(42, Entry{Side: vocab.Buy, Order: vocab.Order{Id: 42, Qty: 5, Price: 100}})

	got, ok := idx.Find(42)
	if !ok {
		t.Fatal("expected key 42 to be found")
	}
	if got != h {
		t.Errorf("Find returned handle %v, want %v", got, h)
	}
	if entry := idx.Access(got); entry.Order.Qty != 5 {
		t.Errorf("expected qty 5, got %d", entry.Order.Qty)
	}
}

func TestIndex_FindMissing(t *testing.T) {
	idx := NewIndex()
	idx.Insert(1, Entry{Order: vocab.Order{Id: 1}})

	if _, ok := idx.Find(999); ok {
		t.Error("expected key 999 to be absent")
	}
}

func TestIndex_Erase(t *testing.T) {
	idx := NewIndex()
	h := idx.Insert(7, Entry{Order: vocab.Order{Id: 7}})
	idx.Erase(h)

	if _, ok := idx.Find(7); ok {
		t.Error("expected key 7 to be gone after erase")
	}
	if idx.Len() != 0 {
		t.Errorf("expected len 0, got %d", idx.Len())
	}
}

func TestIndex_InsertDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic inserting a duplicate key")
		}
	}()
	idx := NewIndex()
	idx.Insert(1, Entry{Order: vocab.Order{Id: 1}})
	idx.Insert(1, Entry{Order: vocab.Order{Id: 1}})
}

func TestIndex_GrowsAndKeepsAllEntries(t *testing.T) {
	idx := NewIndex()
	const n = 1000
	for i := vocab.OrderId(1); i <= n; i++ {
		idx.Insert(i, Entry{Order: vocab.Order{Id: i, Qty: vocab.OrderQty(i)}})
	}
	if idx.Len() != n {
		t.Fatalf("expected len %d, got %d", n, idx.Len())
	}
	for i := vocab.OrderId(1); i <= n; i++ {
		h, ok := idx.Find(i)
		if !ok {
			t.Fatalf("expected key %d to be found after growth", i)
		}
		if entry := idx.Access(h); entry.Order.Id != i {
			t.Fatalf("key %d resolved to wrong entry %+v", i, entry)
		}
	}
}

func TestIndex_EraseThenReinsertSameKey(t *testing.T) {
	idx := NewIndex()
	h1 := idx.Insert(5, Entry{Order: vocab.Order{Id: 5, Qty: 1}})
	idx.Erase(h1)

	h2 := idx.Insert(5, Entry{Order: vocab.Order{Id: 5, Qty: 2}})
	got, ok := idx.Find(5)
	if !ok || got != h2 {
		t.Fatalf("expected reinsertion of key 5 to be found at new handle")
	}
	if idx.Access(got).Order.Qty != 2 {
		t.Errorf("expected qty 2 after reinsert, got %d", idx.Access(got).Order.Qty)
	}
}

func TestIndex_EraseAroundTombstoneDoesNotBreakProbing(t *testing.T) {
	idx := NewIndex()
	var handles []Handle
	for i := vocab.OrderId(1); i <= 10; i++ {
		handles = append(handles, idx.Insert(i, Entry{Order: vocab.Order{Id: i}}))
	}
	// Erase every other entry, leaving tombstones interleaved with live
	// entries, then confirm the survivors are still reachable by probing
	// through the tombstones.
	for i := 0; i < len(handles); i += 2 {
		idx.Erase(handles[i])
	}
	for i := vocab.OrderId(2); i <= 10; i += 2 {
		if _, ok := idx.Find(i); !ok {
			t.Errorf("expected surviving key %d to still be found", i)
		}
	}
}
