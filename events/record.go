// Package events decodes the book's binary event record (spec.md §6) and
// applies it to a book.Book. It is the one place outside the core that
// still speaks the wire format; reading a whole events file or driving one
// from a CLI is out of scope, same as the benchmark harnesses the teacher
// built those around.
package events

import (
	"encoding/binary"
	"fmt"

	"limitbook/book"
	"limitbook/vocab"
)

// OpCode identifies which book operation a Record carries.
type OpCode uint8

const (
	OpAdd OpCode = iota
	OpExecute
	OpReduce
	OpModify
	OpDelete
)

func (op OpCode) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpExecute:
		return "execute"
	case OpReduce:
		return "reduce"
	case OpModify:
		return "modify"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("op(%d)", uint8(op))
	}
}

// RecordSize is the fixed, packed, little-endian size of one event record on
// the wire. A file of such records is a bare concatenation with no framing;
// its length must be a multiple of RecordSize.
const RecordSize = 32

// Record is a decoded event, ready to Apply to a book.Book. Side is only
// meaningful for OpAdd/OpModify — execute/reduce/delete resolve side through
// the book's order-reference index, same as the wire format.
type Record struct {
	BookId uint32
	Op     OpCode
	Side   vocab.Side
	Id     vocab.OrderId
	Qty    vocab.OrderQty
	Price  vocab.Price
}

// DecodeRecord parses one RecordSize-byte wire record.
//
// Layout (all little-endian): book_id u32 @0, op_code u8 @4, side u8 @5,
// 2 bytes padding @6, then a 24-byte payload @8 whose shape depends on
// op_code:
//   - add/modify:       id u64 @8,  qty u32 @16, pad u32 @20, price i64 @24
//   - execute/reduce:    id u64 @8,  qty u32 @16
//   - delete:            id u64 @8
func DecodeRecord(buf []byte) (Record, error) {
	if len(buf) != RecordSize {
		return Record{}, fmt.Errorf("events: record must be %d bytes, got %d", RecordSize, len(buf))
	}

	op := OpCode(buf[4])
	rec := Record{
		BookId: binary.LittleEndian.Uint32(buf[0:4]),
		Op:     op,
	}

	payload := buf[8:32]
	switch op {
	case OpAdd, OpModify:
		rec.Id = vocab.OrderId(binary.LittleEndian.Uint64(payload[0:8]))
		rec.Qty = vocab.OrderQty(binary.LittleEndian.Uint32(payload[8:12]))
		rec.Price = vocab.Price(int64(binary.LittleEndian.Uint64(payload[16:24])))
		if buf[5] == 0 {
			rec.Side = vocab.Sell
		} else {
			rec.Side = vocab.Buy
		}
	case OpExecute, OpReduce:
		rec.Id = vocab.OrderId(binary.LittleEndian.Uint64(payload[0:8]))
		rec.Qty = vocab.OrderQty(binary.LittleEndian.Uint32(payload[8:12]))
	case OpDelete:
		rec.Id = vocab.OrderId(binary.LittleEndian.Uint64(payload[0:8]))
	default:
		return Record{}, fmt.Errorf("events: unknown op_code %d", op)
	}

	return rec, nil
}

// EncodeRecord renders rec back to its RecordSize-byte wire form — the
// inverse of DecodeRecord, used by tests and by anything upstream of this
// package that assembles a record in memory before handing it off.
func EncodeRecord(rec Record) [RecordSize]byte {
	var buf [RecordSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], rec.BookId)
	buf[4] = byte(rec.Op)

	payload := buf[8:32]
	switch rec.Op {
	case OpAdd, OpModify:
		if rec.Side == vocab.Buy {
			buf[5] = 1
		}
		binary.LittleEndian.PutUint64(payload[0:8], uint64(rec.Id))
		binary.LittleEndian.PutUint32(payload[8:12], uint32(rec.Qty))
		binary.LittleEndian.PutUint64(payload[16:24], uint64(int64(rec.Price)))
	case OpExecute, OpReduce:
		binary.LittleEndian.PutUint64(payload[0:8], uint64(rec.Id))
		binary.LittleEndian.PutUint32(payload[8:12], uint32(rec.Qty))
	case OpDelete:
		binary.LittleEndian.PutUint64(payload[0:8], uint64(rec.Id))
	}
	return buf
}

// Apply dispatches rec to the corresponding operation on b.
//
// Precondition: rec.Op MUST be one of the five known op codes (DecodeRecord
// already rejects anything else); b's own operations enforce every
// per-operation precondition from spec.md §4 (unique id on add, existing id
// elsewhere, positive qty), panicking on violation exactly as a directly
// called Book method would.
func (rec Record) Apply(b *book.Book) {
	switch rec.Op {
	case OpAdd:
		b.AddOrder(rec.Side, vocab.Order{Id: rec.Id, Qty: rec.Qty, Price: rec.Price})
	case OpExecute:
		b.ExecuteOrder(rec.Id, rec.Qty)
	case OpReduce:
		b.ReduceOrder(rec.Id, rec.Qty)
	case OpModify:
		b.ModifyOrder(vocab.Order{Id: rec.Id, Qty: rec.Qty, Price: rec.Price})
	case OpDelete:
		b.DeleteOrder(rec.Id)
	default:
		panic(fmt.Sprintf("events: Record.Apply: unknown op_code %d", rec.Op))
	}
}
