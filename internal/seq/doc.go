// Package seq provides a growable, double-ended sequence buffer.
//
// A Builder keeps its elements in one contiguous array between a head and a
// tail cursor, with free slots on both sides. Appends consume the slack
// after the tail and prepends the slack before the head, so both run in
// amortized constant time. Inserts and removes in the middle move whichever
// side of the edit point holds fewer elements.
//
// # Growth
//
// When an operation needs more room than the relevant side has, the growth
// policy picks one of three actions:
//
//   - shift: move the content inside the existing array
//   - recenter: rebalance the slack on both sides inside the existing array
//   - reallocate: copy the content into a larger array (next power of two,
//     at least 16 elements more) and return the old one to its allocator
//
// WithGrowthHook reports each decision as a GrowthEvent.
//
// # Allocation
//
// Arrays come from an Allocator. New uses the heap; NewWithAllocator takes
// any allocator, such as a pool.ArrayPool. Every rented array is returned
// exactly once: on reallocation and on Release.
//
// # Basic Usage
//
//	b := seq.New[rune]()
//	b.Append('a', 'b')      // "ab"
//	b.Insert(1, 'x')        // "axb"
//	b.Remove(1, 1)          // "ab"
//	b.PadLeft(5, '0')       // "000ab"
//	b.Wrap('(', ')')        // "(000ab)"
//	b.Unwrap('(', ')')      // "000ab"
//
// # Views
//
// AsSlice and View expose the content without copying. Both alias the
// backing array and are invalidated by the next mutation; a View detects
// this and reports ErrStaleView. ToSlice and CopyRange return owned copies.
//
// # Errors
//
//   - ErrIndexOutOfRange: index or count outside the content (as *RangeError)
//   - ErrInvalidArgument: nil callback or empty required sequence
//   - ErrCapacityExceeded: growth beyond the maximum capacity
//   - ErrStaleView: a View used after a mutation
//
// A failed operation leaves the builder unchanged.
package seq
