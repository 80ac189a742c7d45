// Package runner hosts exactly one book.Book on a dedicated, OS-thread-
// pinned goroutine, feeding it events.Record values off a ring buffer.
//
// Grounded on the teacher's matching.MatchingEngine ("Each MatchingEngine
// handles ONLY ONE symbol... runs in a dedicated goroutine with
// runtime.LockOSThread()"), deliberately stopping short of the teacher's
// ExchangeEngine layer on top: that type maps many symbols to many engines
// under one shared routing table, which is exactly the "multi-instrument
// routing" spec.md's Non-goals rule out. Hosting N instruments with this
// package means constructing N independent BookRunners with no router
// between them.
package runner

import (
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"limitbook/book"
	"limitbook/config"
	"limitbook/events"
	"limitbook/level"
	"limitbook/side"
	"limitbook/table"
	"limitbook/vocab"
)

// BookRunner owns one book.Book and a dedicated goroutine that applies
// events.Record values to it in submission order. There is no locking
// around the Book itself — spec.md §5's single-owner model holds because
// only this goroutine ever touches it.
type BookRunner struct {
	id     string
	bookID uint32
	book   *book.Book
	ring   *ringBuffer
	done   chan struct{}
}

// stopOp is a poison-pill op code Stop publishes through the same ring
// buffer as ordinary events, never decoded off the wire (events.DecodeRecord
// rejects it) and never reaching Record.Apply. A select-on-a-stop-channel
// cannot interrupt a goroutine already blocked inside the ring's semaphore
// wait, so shutdown has to travel through the same queue as everything
// else the consumer is waiting on.
const stopOp events.OpCode = 255

// New builds a BookRunner from cfg, constructing the LevelStore strategy
// each side's config.Strategy names.
func New(cfg config.RunnerConfig) (*BookRunner, error) {
	buyStore, err := newLevelStore[side.Buy](cfg.BuyStrategy, cfg.HotLevels)
	if err != nil {
		return nil, fmt.Errorf("runner: buy side: %w", err)
	}
	sellStore, err := newLevelStore[side.Sell](cfg.SellStrategy, cfg.HotLevels)
	if err != nil {
		return nil, fmt.Errorf("runner: sell side: %w", err)
	}

	return &BookRunner{
		id:     uuid.New().String(),
		bookID: cfg.BookId,
		book:   book.New(buyStore, sellStore, &book.StdBsnCounter{}),
		ring:   newRingBuffer(cfg.RingBufferCapacity),
		done:   make(chan struct{}),
	}, nil
}

// newLevelStore builds the table.LevelStore strategy cfg names, backing
// every level with level.LinkedList — the default per-level strategy
// (level.SOA is the other interchangeable option, exercised directly by
// level's own tests rather than wired through config, since spec.md's
// per-level and per-side strategy choices are independent axes and picking
// one of each here keeps runner's construction surface simple).
func newLevelStore[P side.Polarity](strategy config.Strategy, hotLevels int) (table.LevelStore, error) {
	newLevel := func(p vocab.Price) level.Level { return level.NewLinkedList(p) }

	switch strategy {
	case config.StrategyMap:
		return table.NewMapLevelStore[P](newLevel), nil
	case config.StrategyBTree:
		return table.NewBTreeLevelStore[P](newLevel), nil
	case config.StrategySortedSlice:
		return table.NewSortedSliceLevelStore[P](newLevel), nil
	case config.StrategyHotCold:
		return table.NewHotColdLevelStore[P](hotLevels, newLevel)
	default:
		return nil, fmt.Errorf("runner: unknown level-store strategy %q", strategy)
	}
}

// Book returns the hosted book. The runner's goroutine applies events to it
// without any locking, so a read from another goroutine is not synchronized
// with event processing; once Stop has returned, every submitted event has
// been applied and the goroutine no longer touches the book.
func (r *BookRunner) Book() *book.Book { return r.book }

// ID is this runner instance's correlation id, for log aggregation across
// many hosted books.
func (r *BookRunner) ID() string { return r.id }

// Start launches the runner's dedicated, OS-thread-pinned goroutine. It
// returns immediately; the goroutine runs until Stop is called.
func (r *BookRunner) Start() {
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(r.done)

		log.Info().Str("runner_id", r.id).Uint32("book_id", r.bookID).Msg("book runner starting")

		consumer := r.ring.newConsumer()
		for {
			rec := consumer.consume()
			if rec.Op == stopOp {
				log.Info().Str("runner_id", r.id).Msg("book runner stopping")
				return
			}
			rec.Apply(r.book)
		}
	}()
}

// Submit enqueues rec for processing, blocking if the ring buffer is
// momentarily full. Safe to call from any single producer goroutine; it is
// not safe for multiple goroutines to call Submit concurrently on the same
// BookRunner, same as original_source's single-producer assumption for one
// book's event stream.
func (r *BookRunner) Submit(rec events.Record) {
	r.ring.publish(rec)
}

// Stop enqueues a shutdown marker behind every record already submitted and
// waits for the runner's goroutine to process up to it and exit — every
// record submitted before Stop is guaranteed to be applied first.
func (r *BookRunner) Stop() {
	r.ring.publish(events.Record{Op: stopOp})
	<-r.done
}
