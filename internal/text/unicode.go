package text

import (
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/dshills/gapseq/internal/seq"
)

// ParseForm maps a form name (NFC, NFD, NFKC, NFKD; case-insensitive) to
// its normalization form.
func ParseForm(name string) (norm.Form, error) {
	switch strings.ToUpper(name) {
	case "NFC":
		return norm.NFC, nil
	case "NFD":
		return norm.NFD, nil
	case "NFKC":
		return norm.NFKC, nil
	case "NFKD":
		return norm.NFKD, nil
	default:
		return 0, ErrInvalidForm
	}
}

// Normalize rewrites the content into the given Unicode normalization form.
func (b *Builder) Normalize(form norm.Form) error {
	s := b.String()
	if form.IsNormalString(s) {
		return nil
	}
	return b.SetString(form.String(s))
}

// ToUpper maps the content to upper case using the builder's language.
func (b *Builder) ToUpper() error {
	return b.mapCase(cases.Upper(b.lang))
}

// ToLower maps the content to lower case using the builder's language.
func (b *Builder) ToLower() error {
	return b.mapCase(cases.Lower(b.lang))
}

// ToTitle maps the content to title case using the builder's language.
func (b *Builder) ToTitle() error {
	return b.mapCase(cases.Title(b.lang))
}

func (b *Builder) mapCase(c cases.Caser) error {
	s := b.String()
	out := c.String(s)
	if out == s {
		return nil
	}
	return b.SetString(out)
}

// GraphemeCount returns the number of user-perceived characters.
func (b *Builder) GraphemeCount() int {
	return uniseg.GraphemeClusterCount(b.String())
}

// Width returns the monospace display width of the content.
func (b *Builder) Width() int {
	return uniseg.StringWidth(b.String())
}

// Graphemes yields the grapheme clusters of the content in order.
// The builder must not be mutated during iteration.
func (b *Builder) Graphemes() iter.Seq[string] {
	return func(yield func(string) bool) {
		g := uniseg.NewGraphemes(b.String())
		for g.Next() {
			if !yield(g.Str()) {
				return
			}
		}
	}
}

// ReverseGraphemes reverses the order of grapheme clusters, keeping each
// cluster's runes in order so combining marks stay on their base.
func (b *Builder) ReverseGraphemes() error {
	s := b.String()
	if uniseg.GraphemeClusterCount(s) == len(b.AsSlice()) {
		b.Reverse()
		return nil
	}
	return b.SetString(uniseg.ReverseString(s))
}

// TruncateGraphemes keeps at most n grapheme clusters. It returns the number
// of runes removed.
func (b *Builder) TruncateGraphemes(n int) (int, error) {
	if n < 0 {
		return 0, &seq.RangeError{Op: "truncate graphemes", Index: n, Len: b.GraphemeCount()}
	}

	rest := b.String()
	keep := 0
	state := -1
	var cluster string
	for i := 0; i < n && rest != ""; i++ {
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		keep += utf8.RuneCountInString(cluster)
	}

	removed := b.Len() - keep
	if removed == 0 {
		return 0, nil
	}
	return removed, b.Truncate(keep)
}
