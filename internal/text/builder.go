package text

import (
	"unicode"

	"golang.org/x/text/language"

	"github.com/dshills/gapseq/internal/seq"
	"github.com/dshills/gapseq/internal/seq/pool"
)

// Builder is a rune sequence builder with string I/O.
// It embeds *seq.Builder[rune], so every sequence operation is available
// directly; positions are rune offsets.
//
// A Builder must be created with New or FromString.
type Builder struct {
	*seq.Builder[rune]

	lang language.Tag
}

// Option configures a Builder.
type Option func(*options)

type options struct {
	pool    *pool.ArrayPool[rune]
	lang    language.Tag
	seqOpts []seq.Option
}

// WithPool rents backing arrays from p instead of the heap.
// Call Release when done so the array goes back to the pool.
func WithPool(p *pool.ArrayPool[rune]) Option {
	return func(o *options) {
		o.pool = p
	}
}

// WithLanguage sets the language used for case mapping.
// The default is language.Und.
func WithLanguage(tag language.Tag) Option {
	return func(o *options) {
		o.lang = tag
	}
}

// WithSeqOptions passes options through to the underlying sequence builder.
func WithSeqOptions(opts ...seq.Option) Option {
	return func(o *options) {
		o.seqOpts = append(o.seqOpts, opts...)
	}
}

// New creates an empty Builder.
func New(opts ...Option) *Builder {
	o := options{lang: language.Und}
	for _, opt := range opts {
		opt(&o)
	}

	var sb *seq.Builder[rune]
	if o.pool != nil {
		sb = seq.NewWithAllocator[rune](o.pool, o.seqOpts...)
	} else {
		sb = seq.New[rune](o.seqOpts...)
	}
	return &Builder{Builder: sb, lang: o.lang}
}

// FromString creates a Builder holding the runes of s.
func FromString(s string, opts ...Option) (*Builder, error) {
	b := New(opts...)
	if err := b.AppendString(s); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

// String returns the content as a string.
func (b *Builder) String() string {
	return string(b.AsSlice())
}

// Substring returns count runes starting at rune offset start.
func (b *Builder) Substring(start, count int) (string, error) {
	if start < 0 || count < 0 || start > b.Len() || count > b.Len()-start {
		return "", &seq.RangeError{Op: "substring", Index: start, Count: count, Len: b.Len()}
	}
	return string(b.AsSlice()[start : start+count]), nil
}

// AppendString appends the runes of s.
func (b *Builder) AppendString(s string) error {
	return b.Append([]rune(s)...)
}

// PrependString prepends the runes of s.
func (b *Builder) PrependString(s string) error {
	return b.Prepend([]rune(s)...)
}

// InsertString inserts the runes of s before rune offset index.
func (b *Builder) InsertString(index int, s string) error {
	return b.Insert(index, []rune(s)...)
}

// SetString replaces the whole content with s. The new runes are written
// over the old ones, so the builder never needs room for more than the
// larger of the two. On failure the content is unchanged.
func (b *Builder) SetString(s string) error {
	return b.setRunes([]rune(s))
}

func (b *Builder) setRunes(rs []rune) error {
	old := b.Len()
	if len(rs) > old {
		if err := b.Grow(len(rs) - old); err != nil {
			return err
		}
	}

	n := min(old, len(rs))
	if err := b.SetRange(0, rs[:n]...); err != nil {
		return err
	}
	if len(rs) < old {
		return b.Truncate(len(rs))
	}
	return b.Append(rs[n:]...)
}

// PadLeftString pads the front with pattern, repeated and cut to fit, until
// the content is width runes long.
func (b *Builder) PadLeftString(width int, pattern string) error {
	return b.PadLeftSeq(width, []rune(pattern))
}

// PadRightString pads the end with pattern until the content is width runes
// long.
func (b *Builder) PadRightString(width int, pattern string) error {
	return b.PadRightSeq(width, []rune(pattern))
}

// WrapString surrounds the content with left and right.
func (b *Builder) WrapString(left, right string) error {
	return b.WrapSeq([]rune(left), []rune(right))
}

// UnwrapString strips left and right if the content starts and ends with
// them.
func (b *Builder) UnwrapString(left, right string) bool {
	return b.UnwrapSeq([]rune(left), []rune(right))
}

// CollapseSpace trims white space from both ends and turns every interior
// run of white space into a single space.
func (b *Builder) CollapseSpace() error {
	return b.NormalizeAll(' ', unicode.IsSpace)
}

// TrimSpace removes leading and trailing white space.
func (b *Builder) TrimSpace() int {
	n, _ := b.Trim(unicode.IsSpace)
	return n
}

// RemoveChars deletes every rune that appears in set.
func (b *Builder) RemoveChars(set string) int {
	if set == "" {
		return 0
	}
	n, _ := b.RemoveAll(func(r rune) bool {
		for _, c := range set {
			if c == r {
				return true
			}
		}
		return false
	})
	return n
}

// ReplaceString replaces every occurrence of the rune sequence old with
// repl, scanning left to right without overlap. It returns the number of
// replacements. The result is built first and swapped in at once, so a
// failure leaves the content unchanged.
func (b *Builder) ReplaceString(old, repl string) (int, error) {
	if old == "" {
		return 0, ErrEmptyPattern
	}
	pat := []rune(old)
	rep := []rune(repl)
	src := b.AsSlice()

	var out []rune
	count := 0
	last := 0
	for i := 0; i+len(pat) <= len(src); {
		if !hasAt(src, i, pat) {
			i++
			continue
		}
		if out == nil {
			out = make([]rune, 0, len(src))
		}
		out = append(out, src[last:i]...)
		out = append(out, rep...)
		count++
		i += len(pat)
		last = i
	}
	if count == 0 {
		return 0, nil
	}
	out = append(out, src[last:]...)

	if err := b.setRunes(out); err != nil {
		return 0, err
	}
	return count, nil
}

func hasAt(s []rune, i int, pat []rune) bool {
	for j, r := range pat {
		if s[i+j] != r {
			return false
		}
	}
	return true
}
