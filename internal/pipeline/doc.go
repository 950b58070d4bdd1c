// Package pipeline applies named transformation steps to a text builder.
//
// Steps come from the [[pipeline.steps]] tables of the configuration. Each
// is compiled once by New, which checks the fields its operation needs, and
// then applied in order by Run:
//
//	p, err := pipeline.New([]config.Step{
//		{Op: "collapse_space"},
//		{Op: "pad_even", Width: 20, Left: "*", Bias: "left"},
//	})
//	err = p.Run(ctx, b)
//
// Operations:
//
//	append, prepend       text
//	insert                index, text
//	remove                index, count
//	pad_left, pad_right   width, pad (default " ")
//	pad_even              width, left, right, bias
//	wrap, unwrap          left, right
//	swap                  index, other
//	dedupe                chars (optional allow-list)
//	trim                  chars (default white space)
//	remove_chars          chars
//	replace               old, new
//	normalize             form (default NFC)
//	truncate_graphemes    count
//	reverse, reverse_graphemes, shuffle, collapse_space, upper, lower, title
//
// Shuffle draws from a PCG source seeded with pipeline.seed, so a fixed seed
// gives a reproducible permutation.
package pipeline
