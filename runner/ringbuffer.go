package runner

import (
	"sync/atomic"
	_ "unsafe" // for go:linkname

	"limitbook/events"
)

//go:linkname semacquire sync.runtime_Semacquire
func semacquire(s *uint32)

//go:linkname semrelease sync.runtime_Semrelease
func semrelease(s *uint32, handoff bool, skipframes int)

// batchSize bounds how many records a consumer pulls from the ring in one
// fill, after the first blocking acquire guarantees the ring isn't empty.
const batchSize = 128

// ringBuffer is a fixed-capacity, power-of-two circular buffer of
// events.Record, handed off between exactly one producer goroutine and one
// consumer goroutine via a pure semaphore protocol (no CAS): every slot
// transitions producer -> consumer through an empty-slots/full-slots
// semaphore pair.
//
// Grounded on the teacher's
// matching/disruptor_semaphore_batch_safe.go (RingBufferSemaphoreBatchSafe),
// genericized from *domain.Order to events.Record and carrying the same
// consumer-side local batch cache, which one fill tops up with every record
// already published (up to batchSize).
type ringBuffer struct {
	buffer     []events.Record
	mask       int64
	writeSeq   atomic.Int64
	readSeq    atomic.Int64
	emptySlots uint32
	fullSlots  uint32
}

func newRingBuffer(capacity int) *ringBuffer {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		panic("runner: ring buffer capacity must be a positive power of two")
	}

	rb := &ringBuffer{
		buffer: make([]events.Record, capacity),
		mask:   int64(capacity - 1),
	}
	for i := 0; i < capacity; i++ {
		semrelease(&rb.emptySlots, false, 0)
	}
	return rb
}

// publish hands rec to the consumer, blocking if the ring is momentarily
// full. Safe to call from exactly one producer goroutine at a time.
func (rb *ringBuffer) publish(rec events.Record) {
	semacquire(&rb.emptySlots)

	seq := rb.writeSeq.Add(1) - 1
	rb.buffer[seq&rb.mask] = rec

	semrelease(&rb.fullSlots, false, 0)
}

// consumer is the single reader side of a ringBuffer, holding a local batch
// cache: fill moves a run of already-published records into it in one pass
// (each record still goes through the full-slots/empty-slots semaphore
// pair), and consume then serves them from the cache.
type consumer struct {
	rb         *ringBuffer
	localCache [batchSize]events.Record
	cacheStart int
	cacheEnd   int
}

func (rb *ringBuffer) newConsumer() *consumer {
	return &consumer{rb: rb}
}

// consume blocks until at least one record is available, then returns it.
func (c *consumer) consume() events.Record {
	if c.cacheStart < c.cacheEnd {
		rec := c.localCache[c.cacheStart]
		c.cacheStart++
		return rec
	}

	c.fill()

	rec := c.localCache[c.cacheStart]
	c.cacheStart++
	return rec
}

func (c *consumer) fill() {
	rb := c.rb

	semacquire(&rb.fullSlots)
	seq := rb.readSeq.Add(1) - 1
	c.localCache[0] = rb.buffer[seq&rb.mask]
	semrelease(&rb.emptySlots, false, 0)
	acquired := 1

	available := int(rb.writeSeq.Load() - rb.readSeq.Load())
	if available > batchSize-1 {
		available = batchSize - 1
	}
	for i := 0; i < available; i++ {
		semacquire(&rb.fullSlots)
		seq := rb.readSeq.Add(1) - 1
		c.localCache[acquired] = rb.buffer[seq&rb.mask]
		semrelease(&rb.emptySlots, false, 0)
		acquired++
	}

	c.cacheStart = 0
	c.cacheEnd = acquired
}
