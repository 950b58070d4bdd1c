// Package pool provides recycling of backing arrays for sequence builders.
//
// An ArrayPool keeps one sync.Pool per power-of-two array length. Rent
// rounds the request up to its bucket and reuses a previously returned array
// when one is available; Return clears the array and files it back under its
// bucket. Arrays longer than MaxArrayLen bypass the pool entirely.
//
// Basic usage:
//
//	p := pool.New[rune]()
//	buf := p.Rent(100) // len(buf) == 128
//	// ... use buf ...
//	p.Return(buf)      // buf must not be touched after this
//
// A builder created with seq.NewWithAllocator(p) rents its array from p and
// returns it on every reallocation and on Release.
package pool
