package seq

import "slices"

// Builder is a growable double-ended sequence backed by one contiguous
// array. Content lives in buf[head:tail]; the free slots on either side let
// both Append and Prepend run in amortized constant time, and interior
// inserts and removes shift whichever side of the edit point is shorter.
//
// A Builder is not safe for concurrent use. The zero value is an empty
// builder that allocates on its first write.
type Builder[T comparable] struct {
	store store[T]

	// Region: content is store.buf[head:tail].
	head int
	tail int

	version uint64
	maxCap  int
	hook    func(GrowthEvent)
}

// New creates an empty builder backed by heap-allocated arrays.
func New[T comparable](opts ...Option) *Builder[T] {
	return NewWithAllocator[T](nil, opts...)
}

// NewWithAllocator creates an empty builder that obtains its arrays from
// alloc. A nil alloc means heap allocation.
func NewWithAllocator[T comparable](alloc Allocator[T], opts ...Option) *Builder[T] {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	b := &Builder[T]{
		store:  store[T]{alloc: alloc},
		maxCap: s.maxCapacity,
		hook:   s.hook,
	}

	if c := min(s.capacity, s.maxCapacity); c > 0 {
		b.store.buf = b.store.rent(c, s.maxCapacity)
		b.recenter()
	}
	return b
}

// From creates a builder holding a copy of values.
func From[T comparable](values []T, opts ...Option) (*Builder[T], error) {
	b := New[T](opts...)
	if err := b.Append(values...); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

// Len returns the number of elements.
func (b *Builder[T]) Len() int {
	return b.tail - b.head
}

// Cap returns the length of the backing array.
func (b *Builder[T]) Cap() int {
	return b.store.capacity()
}

// IsEmpty returns true if the builder holds no elements.
func (b *Builder[T]) IsEmpty() bool {
	return b.tail == b.head
}

// Slack returns the free slots before and after the content.
func (b *Builder[T]) Slack() (left, right int) {
	return b.head, b.store.capacity() - b.tail
}

func (b *Builder[T]) limit() int {
	if b.maxCap <= 0 {
		return MaxCapacity
	}
	return b.maxCap
}

// touch invalidates outstanding views.
func (b *Builder[T]) touch() {
	b.version++
}

// recenter places an empty region at the middle of the array.
func (b *Builder[T]) recenter() {
	mid := b.store.capacity() / 2
	b.head = mid
	b.tail = mid
}

// afterShrink re-centers once the content is gone so both ends get slack.
func (b *Builder[T]) afterShrink() {
	if b.head == b.tail {
		b.recenter()
	}
}

// Append adds values at the end, in order.
// values must not alias the builder's own content.
func (b *Builder[T]) Append(values ...T) error {
	n := len(values)
	if n == 0 {
		return nil
	}
	if err := b.ensureAppendSpace("append", n); err != nil {
		return err
	}
	copy(b.store.buf[b.tail:], values)
	b.tail += n
	b.touch()
	return nil
}

// AppendRepeat adds n copies of v at the end.
func (b *Builder[T]) AppendRepeat(v T, n int) error {
	if n < 0 {
		return outOfRange("append", b.Len(), n, b.Len())
	}
	if n == 0 {
		return nil
	}
	if err := b.ensureAppendSpace("append", n); err != nil {
		return err
	}
	fill(b.store.buf[b.tail:b.tail+n], v)
	b.tail += n
	b.touch()
	return nil
}

// Prepend adds values at the front. The values keep their order: after
// Prepend(x, y) the content starts with x, y.
// values must not alias the builder's own content.
func (b *Builder[T]) Prepend(values ...T) error {
	n := len(values)
	if n == 0 {
		return nil
	}
	if err := b.ensurePrependSpace("prepend", n); err != nil {
		return err
	}
	b.head -= n
	copy(b.store.buf[b.head:], values)
	b.touch()
	return nil
}

// PrependRepeat adds n copies of v at the front.
func (b *Builder[T]) PrependRepeat(v T, n int) error {
	if n < 0 {
		return outOfRange("prepend", 0, n, b.Len())
	}
	if n == 0 {
		return nil
	}
	if err := b.ensurePrependSpace("prepend", n); err != nil {
		return err
	}
	b.head -= n
	fill(b.store.buf[b.head:b.head+n], v)
	b.touch()
	return nil
}

// Insert places values before the element at index. index may equal Len.
// values must not alias the builder's own content.
func (b *Builder[T]) Insert(index int, values ...T) error {
	if index < 0 || index > b.Len() {
		return outOfRange("insert", index, 0, b.Len())
	}
	n := len(values)
	switch {
	case n == 0:
		return nil
	case index == b.Len():
		return b.Append(values...)
	case index == 0:
		return b.Prepend(values...)
	}

	p, err := b.openGap("insert", index, n)
	if err != nil {
		return err
	}
	copy(b.store.buf[p:p+n], values)
	b.touch()
	return nil
}

// InsertRepeat places count copies of v before the element at index.
func (b *Builder[T]) InsertRepeat(index int, v T, count int) error {
	if index < 0 || index > b.Len() || count < 0 {
		return outOfRange("insert", index, count, b.Len())
	}
	switch {
	case count == 0:
		return nil
	case index == b.Len():
		return b.AppendRepeat(v, count)
	case index == 0:
		return b.PrependRepeat(v, count)
	}

	p, err := b.openGap("insert", index, count)
	if err != nil {
		return err
	}
	fill(b.store.buf[p:p+count], v)
	b.touch()
	return nil
}

// openGap makes room for n elements before logical index by shifting the
// shorter side of the content outward. It returns the physical start of
// the gap; the gap holds stale values the caller must overwrite.
func (b *Builder[T]) openGap(op string, index, n int) (int, error) {
	left := index <= b.Len()-index
	if err := b.ensureUniformSpace(op, n, left); err != nil {
		return 0, err
	}

	buf := b.store.buf
	p := b.head + index
	if left {
		copy(buf[b.head-n:], buf[b.head:p])
		b.head -= n
		return p - n, nil
	}
	copy(buf[p+n:], buf[p:b.tail])
	b.tail += n
	return p, nil
}

// Remove deletes count elements starting at logical index start.
// The shorter side of the content moves to close the gap, and the vacated
// slots are zeroed so they do not pin garbage.
func (b *Builder[T]) Remove(start, count int) error {
	length := b.Len()
	if start < 0 || count < 0 || start > length || count > length-start {
		return outOfRange("remove", start, count, length)
	}
	if count == 0 {
		return nil
	}

	buf := b.store.buf
	p := b.head + start
	if start <= length-start-count {
		copy(buf[b.head+count:p+count], buf[b.head:p])
		clear(buf[b.head : b.head+count])
		b.head += count
	} else {
		copy(buf[p:], buf[p+count:b.tail])
		clear(buf[b.tail-count : b.tail])
		b.tail -= count
	}
	b.afterShrink()
	b.touch()
	return nil
}

// At returns the element at index.
func (b *Builder[T]) At(index int) (T, error) {
	if index < 0 || index >= b.Len() {
		var zero T
		return zero, outOfRange("at", index, 0, b.Len())
	}
	return b.store.buf[b.head+index], nil
}

// Set overwrites the element at index.
func (b *Builder[T]) Set(index int, v T) error {
	if index < 0 || index >= b.Len() {
		return outOfRange("set", index, 0, b.Len())
	}
	b.store.buf[b.head+index] = v
	b.touch()
	return nil
}

// SetRange overwrites len(values) elements starting at index.
func (b *Builder[T]) SetRange(index int, values ...T) error {
	if index < 0 || index > b.Len() || len(values) > b.Len()-index {
		return outOfRange("set", index, len(values), b.Len())
	}
	if len(values) == 0 {
		return nil
	}
	copy(b.store.buf[b.head+index:], values)
	b.touch()
	return nil
}

// First returns the first element, or false if the builder is empty.
func (b *Builder[T]) First() (T, bool) {
	if b.IsEmpty() {
		var zero T
		return zero, false
	}
	return b.store.buf[b.head], true
}

// Last returns the last element, or false if the builder is empty.
func (b *Builder[T]) Last() (T, bool) {
	if b.IsEmpty() {
		var zero T
		return zero, false
	}
	return b.store.buf[b.tail-1], true
}

// PopFront removes and returns the first element.
func (b *Builder[T]) PopFront() (T, bool) {
	v, ok := b.First()
	if ok {
		var zero T
		b.store.buf[b.head] = zero
		b.head++
		b.afterShrink()
		b.touch()
	}
	return v, ok
}

// PopBack removes and returns the last element.
func (b *Builder[T]) PopBack() (T, bool) {
	v, ok := b.Last()
	if ok {
		var zero T
		b.tail--
		b.store.buf[b.tail] = zero
		b.afterShrink()
		b.touch()
	}
	return v, ok
}

// Grow guarantees room for n more elements at the end without another
// allocation.
func (b *Builder[T]) Grow(n int) error {
	if n < 0 {
		return outOfRange("grow", b.Len(), n, b.Len())
	}
	if err := b.ensureAppendSpace("grow", n); err != nil {
		return err
	}
	b.touch()
	return nil
}

// Truncate keeps the first n elements.
func (b *Builder[T]) Truncate(n int) error {
	if n < 0 || n > b.Len() {
		return outOfRange("truncate", n, 0, b.Len())
	}
	if n == b.Len() {
		return nil
	}
	clear(b.store.buf[b.head+n : b.tail])
	b.tail = b.head + n
	b.afterShrink()
	b.touch()
	return nil
}

// Clear discards all content but keeps the backing array.
func (b *Builder[T]) Clear() {
	clear(b.store.buf[b.head:b.tail])
	b.recenter()
	b.touch()
}

// Release discards all content and returns the backing array to its
// allocator. The builder stays usable and allocates again on the next write.
func (b *Builder[T]) Release() {
	if b.store.buf != nil {
		clear(b.store.buf[b.head:b.tail])
	}
	b.store.release()
	b.head = 0
	b.tail = 0
	b.touch()
}

// Index returns the logical index of the first occurrence of v, or -1.
func (b *Builder[T]) Index(v T) int {
	return slices.Index(b.store.buf[b.head:b.tail], v)
}

// Contains reports whether v is present.
func (b *Builder[T]) Contains(v T) bool {
	return b.Index(v) >= 0
}

// HasPrefix reports whether the content starts with prefix.
func (b *Builder[T]) HasPrefix(prefix []T) bool {
	return len(prefix) <= b.Len() && slices.Equal(b.store.buf[b.head:b.head+len(prefix)], prefix)
}

// HasSuffix reports whether the content ends with suffix.
func (b *Builder[T]) HasSuffix(suffix []T) bool {
	return len(suffix) <= b.Len() && slices.Equal(b.store.buf[b.tail-len(suffix):b.tail], suffix)
}

// Equal reports whether the content equals values element by element.
func (b *Builder[T]) Equal(values []T) bool {
	return slices.Equal(b.store.buf[b.head:b.tail], values)
}

func fill[T any](dst []T, v T) {
	for i := range dst {
		dst[i] = v
	}
}
