package seq

import (
	"fmt"
	"math/bits"
)

// minGrowth is the smallest absolute capacity increase of a reallocation.
const minGrowth = 16

// GrowthKind identifies the action the growth policy took.
type GrowthKind uint8

const (
	// GrowShift moved content within the existing array.
	GrowShift GrowthKind = iota + 1
	// GrowRecenter balanced slack on both sides within the existing array.
	GrowRecenter
	// GrowReallocate moved content into a larger array.
	GrowReallocate
)

// String returns the string representation of the growth kind.
func (k GrowthKind) String() string {
	switch k {
	case GrowShift:
		return "shift"
	case GrowRecenter:
		return "recenter"
	case GrowReallocate:
		return "reallocate"
	default:
		return "unknown"
	}
}

// GrowthEvent describes one growth decision.
type GrowthEvent struct {
	Kind   GrowthKind
	OldCap int
	NewCap int
	// Len is the content length at the time of the decision.
	Len int
	// Need is the number of free slots the triggering operation asked for.
	Need int
}

// nextGrowthSize returns the capacity to reallocate to when n more slots are
// needed: the next power of two at or above capacity+n, growing by at least
// minGrowth, clamped to limit. Callers check that the content fits in limit.
func nextGrowthSize(capacity, n, limit int) int {
	target := capacity + max(n, minGrowth)
	if target <= 0 || target >= limit {
		return limit
	}
	size := 1 << bits.Len(uint(target-1))
	if size > limit {
		return limit
	}
	return size
}

// checkRoom fails with ErrCapacityExceeded if n more elements cannot fit
// within the builder's maximum capacity.
func (b *Builder[T]) checkRoom(op string, n int) error {
	length := b.Len()
	if n > b.limit()-length {
		return fmt.Errorf("%s: %d elements with length %d exceeds max capacity %d: %w",
			op, n, length, b.limit(), ErrCapacityExceeded)
	}
	return nil
}

// ensureAppendSpace guarantees tail+n <= capacity.
func (b *Builder[T]) ensureAppendSpace(op string, n int) error {
	c := b.store.capacity()
	if n <= 0 || b.tail+n <= c {
		return nil
	}
	if err := b.checkRoom(op, n); err != nil {
		return err
	}

	length := b.Len()
	free := c - length

	// Content drifted right (queue-like use): reclaim the head-side slack
	// instead of growing. The shift costs less than the slack it recovers.
	if free >= n && b.head > length {
		b.moveTo((free - n) / 2)
		b.emit(GrowShift, c, n)
		return nil
	}

	b.grow(nextGrowthSize(c, n, b.limit()), n, func(capacity int) int {
		if length == 0 {
			return (capacity - n) / 2
		}
		return min(b.head, capacity-length-n)
	})
	return nil
}

// ensurePrependSpace guarantees head >= n.
func (b *Builder[T]) ensurePrependSpace(op string, n int) error {
	if n <= 0 || b.head >= n {
		return nil
	}
	if err := b.checkRoom(op, n); err != nil {
		return err
	}

	c := b.store.capacity()
	length := b.Len()
	free := c - length

	// Shift right in place only when enough slack remains afterwards that
	// the next shift is at least length/2 prepends away.
	if free >= n && free-n >= length/2 {
		b.moveTo(n + (free-n)/2)
		b.emit(GrowShift, c, n)
		return nil
	}

	b.grow(nextGrowthSize(c, n, b.limit()), n, func(capacity int) int {
		return n + (capacity-length-n)/2
	})
	return nil
}

// ensureUniformSpace guarantees at least n free slots on the side an
// interior insert is going to shift: the head side when left is true,
// otherwise the tail side.
func (b *Builder[T]) ensureUniformSpace(op string, n int, left bool) error {
	if n <= 0 {
		return nil
	}
	c := b.store.capacity()
	if (left && b.head >= n) || (!left && c-b.tail >= n) {
		return nil
	}
	if err := b.checkRoom(op, n); err != nil {
		return err
	}

	length := b.Len()
	free := c - length

	if free >= 2*n {
		b.moveTo(free / 2)
		b.emit(GrowRecenter, c, n)
		return nil
	}
	if free >= n {
		// Not enough to balance; hand the needed side exactly its share.
		if left {
			b.moveTo(n + (free-n)/2)
		} else {
			b.moveTo((free - n) / 2)
		}
		b.emit(GrowShift, c, n)
		return nil
	}

	b.grow(nextGrowthSize(c, max(n, length+2*n-c), b.limit()), n, func(capacity int) int {
		slack := capacity - length
		head := slack / 2
		if left && head < n {
			head = n
		}
		if !left && slack-head < n {
			head = slack - n
		}
		return head
	})
	return nil
}

// moveTo shifts the content to start at newHead within the current array.
func (b *Builder[T]) moveTo(newHead int) {
	length := b.Len()
	b.store.move(b.head, b.tail, newHead)
	b.head = newHead
	b.tail = newHead + length
}

// grow places the content at the head chosen by place inside an array of
// newCap elements. When the capacity limit leaves no larger array to move
// to, the content is shifted within the current one instead.
func (b *Builder[T]) grow(newCap, need int, place func(capacity int) int) {
	c := b.store.capacity()
	if newCap <= c {
		b.moveTo(place(c))
		b.emit(GrowShift, c, need)
		return
	}
	length := b.Len()
	b.head = b.store.reallocate(newCap, b.limit(), b.head, b.tail, place)
	b.tail = b.head + length
	b.emit(GrowReallocate, c, need)
}

func (b *Builder[T]) emit(kind GrowthKind, oldCap, need int) {
	if b.hook == nil {
		return
	}
	b.hook(GrowthEvent{
		Kind:   kind,
		OldCap: oldCap,
		NewCap: b.store.capacity(),
		Len:    b.Len(),
		Need:   need,
	})
}
