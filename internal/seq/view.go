package seq

import (
	"iter"
	"slices"
)

// AsSlice returns the content without copying. The slice aliases the
// backing array and is only valid until the next mutating call; its
// capacity is clipped so appending to it cannot overwrite builder slack.
func (b *Builder[T]) AsSlice() []T {
	return b.store.buf[b.head:b.tail:b.tail]
}

// ToSlice returns an owned copy of the content.
func (b *Builder[T]) ToSlice() []T {
	return slices.Clone(b.store.buf[b.head:b.tail])
}

// CopyRange returns an owned copy of count elements starting at start.
func (b *Builder[T]) CopyRange(start, count int) ([]T, error) {
	length := b.Len()
	if start < 0 || count < 0 || start > length || count > length-start {
		return nil, outOfRange("copy", start, count, length)
	}
	p := b.head + start
	return slices.Clone(b.store.buf[p : p+count]), nil
}

// All yields the logical index and value of each element, front to back.
// Mutating the builder during iteration is undefined.
func (b *Builder[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := b.head; i < b.tail; i++ {
			if !yield(i-b.head, b.store.buf[i]) {
				return
			}
		}
	}
}

// Backward yields the logical index and value of each element, back to
// front.
func (b *Builder[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := b.tail - 1; i >= b.head; i-- {
			if !yield(i-b.head, b.store.buf[i]) {
				return
			}
		}
	}
}

// View is a read-only window onto a builder's content that detects
// mutation. Every accessor fails with ErrStaleView once the builder has been
// modified after the view was taken.
type View[T comparable] struct {
	b       *Builder[T]
	data    []T
	version uint64
}

// View returns a checked view of the current content.
func (b *Builder[T]) View() View[T] {
	return View[T]{b: b, data: b.AsSlice(), version: b.version}
}

// Valid reports whether the builder is unchanged since the view was taken.
func (v View[T]) Valid() bool {
	return v.b != nil && v.b.version == v.version
}

// Len returns the number of elements in the view.
func (v View[T]) Len() (int, error) {
	if !v.Valid() {
		return 0, ErrStaleView
	}
	return len(v.data), nil
}

// At returns the element at index.
func (v View[T]) At(index int) (T, error) {
	var zero T
	if !v.Valid() {
		return zero, ErrStaleView
	}
	if index < 0 || index >= len(v.data) {
		return zero, outOfRange("view at", index, 0, len(v.data))
	}
	return v.data[index], nil
}

// Slice returns the viewed elements without copying.
func (v View[T]) Slice() ([]T, error) {
	if !v.Valid() {
		return nil, ErrStaleView
	}
	return v.data, nil
}
