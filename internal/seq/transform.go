package seq

import "slices"

// Rand is the random source used by Shuffle. *math/rand/v2.Rand satisfies it.
type Rand interface {
	// IntN returns a uniform value in [0, n).
	IntN(n int) int
}

// NormalizeAdjacent collapses runs of equal neighbours to a single element.
// When allow is non-empty only runs of the listed values are collapsed.
// It returns the number of elements removed.
func (b *Builder[T]) NormalizeAdjacent(allow ...T) int {
	var allowed func(T) bool
	if len(allow) > 0 {
		allowed = func(v T) bool { return slices.Contains(allow, v) }
	}
	n, _ := b.NormalizeAdjacentFunc(func(x, y T) bool { return x == y }, allowed)
	return n
}

// NormalizeAdjacentFunc is NormalizeAdjacent with a custom equality. A nil
// allow collapses every run.
func (b *Builder[T]) NormalizeAdjacentFunc(eq func(x, y T) bool, allow func(T) bool) (int, error) {
	if eq == nil {
		return 0, invalidArg("normalize adjacent", "nil comparer")
	}
	if b.Len() < 2 {
		return 0, nil
	}

	buf := b.store.buf
	w := b.head + 1
	for r := b.head + 1; r < b.tail; r++ {
		v := buf[r]
		if eq(buf[w-1], v) && (allow == nil || allow(v)) {
			continue
		}
		buf[w] = v
		w++
	}
	return b.compactTo(w), nil
}

// NormalizeAll trims elements matching pred from both ends and replaces each
// interior run of matching elements with a single value.
//
//	b: "  a \t b  "  NormalizeAll(' ', unicode.IsSpace)  ->  "a b"
func (b *Builder[T]) NormalizeAll(value T, pred func(T) bool) error {
	if pred == nil {
		return invalidArg("normalize all", "nil predicate")
	}

	buf := b.store.buf
	w := b.head
	pending := false
	for r := b.head; r < b.tail; r++ {
		v := buf[r]
		if pred(v) {
			// Leading runs are dropped; interior runs leave one marker.
			pending = w > b.head
			continue
		}
		if pending {
			buf[w] = value
			w++
			pending = false
		}
		buf[w] = v
		w++
	}
	b.compactTo(w)
	b.touch()
	return nil
}

// RemoveAll deletes every element matching pred, keeping the order of the
// rest. It returns the number of elements removed.
func (b *Builder[T]) RemoveAll(pred func(T) bool) (int, error) {
	if pred == nil {
		return 0, invalidArg("remove all", "nil predicate")
	}

	buf := b.store.buf
	w := b.head
	for r := b.head; r < b.tail; r++ {
		if pred(buf[r]) {
			continue
		}
		buf[w] = buf[r]
		w++
	}
	return b.compactTo(w), nil
}

// compactTo ends the content at physical index w after a left-to-right
// compaction, zeroing the abandoned tail. It returns how many elements were
// dropped.
func (b *Builder[T]) compactTo(w int) int {
	removed := b.tail - w
	if removed == 0 {
		return 0
	}
	clear(b.store.buf[w:b.tail])
	b.tail = w
	b.afterShrink()
	b.touch()
	return removed
}

// ReplaceAll overwrites every element matching pred with repl and returns
// how many were replaced.
func (b *Builder[T]) ReplaceAll(pred func(T) bool, repl T) (int, error) {
	if pred == nil {
		return 0, invalidArg("replace all", "nil predicate")
	}
	buf := b.store.buf
	count := 0
	for i := b.head; i < b.tail; i++ {
		if pred(buf[i]) {
			buf[i] = repl
			count++
		}
	}
	if count > 0 {
		b.touch()
	}
	return count, nil
}

// Replace overwrites every occurrence of old with repl.
func (b *Builder[T]) Replace(old, repl T) int {
	n, _ := b.ReplaceAll(func(v T) bool { return v == old }, repl)
	return n
}

// ReplaceFunc rewrites every element through sel.
func (b *Builder[T]) ReplaceFunc(sel func(T) T) error {
	if sel == nil {
		return invalidArg("replace", "nil selector")
	}
	buf := b.store.buf
	for i := b.head; i < b.tail; i++ {
		buf[i] = sel(buf[i])
	}
	b.touch()
	return nil
}

// TrimStart removes leading elements matching pred.
func (b *Builder[T]) TrimStart(pred func(T) bool) (int, error) {
	if pred == nil {
		return 0, invalidArg("trim", "nil predicate")
	}
	n := 0
	for b.head+n < b.tail && pred(b.store.buf[b.head+n]) {
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return n, b.Remove(0, n)
}

// TrimEnd removes trailing elements matching pred.
func (b *Builder[T]) TrimEnd(pred func(T) bool) (int, error) {
	if pred == nil {
		return 0, invalidArg("trim", "nil predicate")
	}
	n := 0
	for b.tail-n > b.head && pred(b.store.buf[b.tail-n-1]) {
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return n, b.Truncate(b.Len() - n)
}

// Trim removes leading and trailing elements matching pred.
func (b *Builder[T]) Trim(pred func(T) bool) (int, error) {
	end, err := b.TrimEnd(pred)
	if err != nil {
		return 0, err
	}
	start, err := b.TrimStart(pred)
	return start + end, err
}

// PadLeft prepends pad until the content is width elements long.
// It never shrinks the content.
func (b *Builder[T]) PadLeft(width int, pad T) error {
	if n := width - b.Len(); n > 0 {
		return b.PrependRepeat(pad, n)
	}
	return nil
}

// PadRight appends pad until the content is width elements long.
func (b *Builder[T]) PadRight(width int, pad T) error {
	if n := width - b.Len(); n > 0 {
		return b.AppendRepeat(pad, n)
	}
	return nil
}

// PadLeftSeq prepends the pattern, repeated and cut to fit, until the
// content is width elements long.
func (b *Builder[T]) PadLeftSeq(width int, pattern []T) error {
	if len(pattern) == 0 {
		return invalidArg("pad left", "empty pattern")
	}
	n := width - b.Len()
	if n <= 0 {
		return nil
	}
	if err := b.ensurePrependSpace("pad left", n); err != nil {
		return err
	}
	b.head -= n
	cycle(b.store.buf[b.head:b.head+n], pattern)
	b.touch()
	return nil
}

// PadRightSeq appends the pattern, repeated and cut to fit, until the
// content is width elements long.
func (b *Builder[T]) PadRightSeq(width int, pattern []T) error {
	if len(pattern) == 0 {
		return invalidArg("pad right", "empty pattern")
	}
	n := width - b.Len()
	if n <= 0 {
		return nil
	}
	if err := b.ensureAppendSpace("pad right", n); err != nil {
		return err
	}
	cycle(b.store.buf[b.tail:b.tail+n], pattern)
	b.tail += n
	b.touch()
	return nil
}

// PadEven pads both ends up to width. An odd remainder goes to the left
// when leftBias is set, otherwise to the right.
func (b *Builder[T]) PadEven(width int, left, right T, leftBias bool) error {
	total := width - b.Len()
	if total <= 0 {
		return nil
	}
	if err := b.checkRoom("pad even", total); err != nil {
		return err
	}

	l, r := total/2, total/2
	if total%2 == 1 {
		if leftBias {
			l++
		} else {
			r++
		}
	}
	if err := b.PrependRepeat(left, l); err != nil {
		return err
	}
	return b.AppendRepeat(right, r)
}

// Wrap surrounds the content with left and right.
func (b *Builder[T]) Wrap(left, right T) error {
	if err := b.checkRoom("wrap", 2); err != nil {
		return err
	}
	if err := b.Prepend(left); err != nil {
		return err
	}
	return b.Append(right)
}

// WrapSeq surrounds the content with the left and right sequences.
func (b *Builder[T]) WrapSeq(left, right []T) error {
	if err := b.checkRoom("wrap", len(left)+len(right)); err != nil {
		return err
	}
	if err := b.Prepend(left...); err != nil {
		return err
	}
	return b.Append(right...)
}

// Unwrap removes the first and last elements if they equal left and right.
// It reports whether anything was removed.
func (b *Builder[T]) Unwrap(left, right T) bool {
	if b.Len() < 2 || b.store.buf[b.head] != left || b.store.buf[b.tail-1] != right {
		return false
	}
	var zero T
	b.store.buf[b.head] = zero
	b.store.buf[b.tail-1] = zero
	b.head++
	b.tail--
	b.afterShrink()
	b.touch()
	return true
}

// UnwrapSeq removes the left and right sequences if the content starts and
// ends with them without the two overlapping.
func (b *Builder[T]) UnwrapSeq(left, right []T) bool {
	if len(left)+len(right) > b.Len() || !b.HasPrefix(left) || !b.HasSuffix(right) {
		return false
	}
	clear(b.store.buf[b.head : b.head+len(left)])
	clear(b.store.buf[b.tail-len(right) : b.tail])
	b.head += len(left)
	b.tail -= len(right)
	b.afterShrink()
	b.touch()
	return true
}

// Reverse reverses the whole content in place.
func (b *Builder[T]) Reverse() {
	slices.Reverse(b.store.buf[b.head:b.tail])
	b.touch()
}

// ReverseRange reverses the elements in [start, end).
func (b *Builder[T]) ReverseRange(start, end int) error {
	if start < 0 || end < start || end > b.Len() {
		return outOfRange("reverse", start, end-start, b.Len())
	}
	buf := b.store.buf
	for i, j := b.head+start, b.head+end-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	b.touch()
	return nil
}

// Swap exchanges the elements at logical positions i and j.
func (b *Builder[T]) Swap(i, j int) error {
	length := b.Len()
	if i < 0 || i >= length {
		return outOfRange("swap", i, 0, length)
	}
	if j < 0 || j >= length {
		return outOfRange("swap", j, 0, length)
	}
	buf := b.store.buf
	buf[b.head+i], buf[b.head+j] = buf[b.head+j], buf[b.head+i]
	b.touch()
	return nil
}

// Shuffle permutes the content uniformly with a Fisher-Yates pass drawing
// from rng.
func (b *Builder[T]) Shuffle(rng Rand) error {
	if rng == nil {
		return invalidArg("shuffle", "nil random source")
	}
	buf := b.store.buf[b.head:b.tail]
	for i := len(buf) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		buf[i], buf[j] = buf[j], buf[i]
	}
	b.touch()
	return nil
}

// cycle fills dst with pattern repeated from its first element.
func cycle[T any](dst, pattern []T) {
	for i := 0; i < len(dst); i += len(pattern) {
		copy(dst[i:], pattern)
	}
}
