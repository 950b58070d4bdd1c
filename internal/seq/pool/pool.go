package pool

import (
	"math/bits"
	"sync"
	"sync/atomic"
)

// Bucket sizing. Arrays are pooled in power-of-two lengths between
// MinArrayLen and MaxArrayLen; larger requests are allocated directly and
// dropped on return.
const (
	MinArrayLen = 16
	MaxArrayLen = 1 << 24

	minShift   = 4
	numBuckets = 24 - minShift + 1
)

// Stats is a snapshot of pool activity.
type Stats struct {
	// Rented counts arrays handed out by Rent.
	Rented int64
	// Returned counts arrays accepted back by Return.
	Returned int64
	// Allocated counts Rent calls that had to allocate a fresh array.
	Allocated int64
	// Dropped counts Return calls whose array was not retained.
	Dropped int64
}

// Outstanding returns the number of rented arrays not yet returned.
func (s Stats) Outstanding() int64 {
	return s.Rented - (s.Returned + s.Dropped)
}

// ArrayPool recycles arrays of T in power-of-two buckets.
// It uses one sync.Pool per bucket, so it is safe for concurrent use.
//
// Rent and Return satisfy seq.Allocator, which lets a builder borrow its
// backing array from the pool instead of the heap.
type ArrayPool[T any] struct {
	buckets [numBuckets]sync.Pool

	rented    atomic.Int64
	returned  atomic.Int64
	allocated atomic.Int64
	dropped   atomic.Int64
}

// New creates an empty pool.
func New[T any]() *ArrayPool[T] {
	return &ArrayPool[T]{}
}

// Shared pools for the element types used by the text layer.
var (
	Runes = New[rune]()
	Bytes = New[byte]()
)

// Rent returns an array with len >= minLen. Pooled arrays are always
// zeroed. The caller owns the array until it is handed to Return.
func (p *ArrayPool[T]) Rent(minLen int) []T {
	p.rented.Add(1)

	size := BucketSize(minLen)
	if size > MaxArrayLen {
		p.allocated.Add(1)
		return make([]T, minLen)
	}

	idx := bucketIndex(size)
	if v := p.buckets[idx].Get(); v != nil {
		return *(v.(*[]T))
	}

	p.allocated.Add(1)
	return make([]T, size)
}

// Return hands an array back to the pool. The array must not be read or
// written after Return. Arrays that did not come from a bucket (oversize or
// odd lengths) are dropped and left to the garbage collector.
func (p *ArrayPool[T]) Return(buf []T) {
	if buf == nil {
		return
	}
	n := cap(buf)
	if n < MinArrayLen || n > MaxArrayLen || n&(n-1) != 0 {
		p.dropped.Add(1)
		return
	}

	// Clear references to allow GC of element data
	buf = buf[:n]
	clear(buf)

	p.returned.Add(1)
	p.buckets[bucketIndex(n)].Put(&buf)
}

// Stats returns a snapshot of the pool counters.
func (p *ArrayPool[T]) Stats() Stats {
	return Stats{
		Rented:    p.rented.Load(),
		Returned:  p.returned.Load(),
		Allocated: p.allocated.Load(),
		Dropped:   p.dropped.Load(),
	}
}

// BucketSize returns the array length Rent hands out for a request of n
// elements: the next power of two, never below MinArrayLen. Requests above
// MaxArrayLen are not rounded.
func BucketSize(n int) int {
	if n <= MinArrayLen {
		return MinArrayLen
	}
	if n > MaxArrayLen {
		return n
	}
	return 1 << bits.Len(uint(n-1))
}

func bucketIndex(size int) int {
	return bits.Len(uint(size)) - 1 - minShift
}
