package seq

// Allocator supplies backing arrays to a Builder.
//
// Rent must return an array with len >= minLen. Return receives every array
// previously obtained from Rent exactly once; the builder never touches the
// array again afterwards.
type Allocator[T any] interface {
	Rent(minLen int) []T
	Return(buf []T)
}

// HeapAllocator allocates owned arrays with make and leaves returned arrays
// to the garbage collector.
type HeapAllocator[T any] struct{}

// Rent allocates an array of exactly minLen elements.
func (HeapAllocator[T]) Rent(minLen int) []T {
	return make([]T, minLen)
}

// Return is a no-op.
func (HeapAllocator[T]) Return([]T) {}

// store is the contiguous backing array of a Builder.
type store[T any] struct {
	buf   []T
	alloc Allocator[T]
}

func (s *store[T]) capacity() int {
	return len(s.buf)
}

func (s *store[T]) allocator() Allocator[T] {
	if s.alloc == nil {
		return HeapAllocator[T]{}
	}
	return s.alloc
}

// rent obtains an array of at least minLen elements, clipped to limit.
// Allocators may round up; the clipped array keeps its full capacity, so
// Return still sees the length it handed out.
func (s *store[T]) rent(minLen, limit int) []T {
	buf := s.allocator().Rent(minLen)
	if len(buf) > limit {
		buf = buf[:limit]
	}
	return buf
}

// reallocate moves the live content buf[head:tail] into a fresh array of at
// least newCap elements and at most limit. place receives the capacity
// actually obtained and returns the new head. The old array is returned to
// the allocator once the copy is done.
func (s *store[T]) reallocate(newCap, limit, head, tail int, place func(capacity int) int) int {
	next := s.rent(newCap, limit)
	newHead := place(len(next))
	if s.buf != nil {
		copy(next[newHead:], s.buf[head:tail])
		old := s.buf
		s.buf = nil
		s.allocator().Return(old)
	}
	s.buf = next
	return newHead
}

// move shifts buf[head:tail] to start at newHead inside the same array and
// zeroes the slots the content vacated.
func (s *store[T]) move(head, tail, newHead int) {
	if newHead == head {
		return
	}
	n := tail - head
	copy(s.buf[newHead:newHead+n], s.buf[head:tail])
	if newHead > head {
		clear(s.buf[head:min(tail, newHead)])
	} else {
		clear(s.buf[max(head, newHead+n):tail])
	}
}

// release returns the array to the allocator and forgets it.
func (s *store[T]) release() {
	if s.buf == nil {
		return
	}
	old := s.buf
	s.buf = nil
	s.allocator().Return(old)
}
