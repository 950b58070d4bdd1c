// Package text specializes the sequence builder for runes.
//
// A Builder embeds *seq.Builder[rune] and adds string conversion, the
// standard io writer and reader interfaces, and Unicode-aware helpers:
// grapheme clusters and display width come from github.com/rivo/uniseg,
// normalization and case mapping from golang.org/x/text.
//
// Offsets are rune offsets. Grapheme-aware operations (GraphemeCount,
// ReverseGraphemes, TruncateGraphemes) count user-perceived characters
// instead.
//
//	b, _ := text.FromString("  hello   world ")
//	b.CollapseSpace()            // "hello world"
//	b.PadLeftString(13, "*")     // "**hello world"
//	fmt.Fprintf(b, "!")          // "**hello world!"
//	b.ToUpper()                  // "**HELLO WORLD!"
//
// Builders created WithPool rent their arrays from a pool.ArrayPool; call
// Release when finished to hand the array back.
package text
