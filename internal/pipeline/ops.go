package pipeline

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dshills/gapseq/internal/config"
	"github.com/dshills/gapseq/internal/text"
)

// Op applies one compiled step to a builder.
type Op func(b *text.Builder, env *Env) error

// compiler checks the fields of a step and returns the operation it names.
type compiler func(s config.Step) (Op, error)

// registry maps operation names to their compilers.
var registry = map[string]compiler{
	"append":             compileAppend,
	"prepend":            compilePrepend,
	"insert":             compileInsert,
	"remove":             compileRemove,
	"pad_left":           compilePadLeft,
	"pad_right":          compilePadRight,
	"pad_even":           compilePadEven,
	"wrap":               compileWrap,
	"unwrap":             compileUnwrap,
	"reverse":            simple(func(b *text.Builder) error { b.Reverse(); return nil }),
	"reverse_graphemes":  simple((*text.Builder).ReverseGraphemes),
	"swap":               compileSwap,
	"shuffle":            compileShuffle,
	"dedupe":             compileDedupe,
	"collapse_space":     simple((*text.Builder).CollapseSpace),
	"trim":               compileTrim,
	"remove_chars":       compileRemoveChars,
	"replace":            compileReplace,
	"upper":              simple((*text.Builder).ToUpper),
	"lower":              simple((*text.Builder).ToLower),
	"title":              simple((*text.Builder).ToTitle),
	"normalize":          compileNormalize,
	"truncate_graphemes": compileTruncate,
}

// Ops returns the names of all operations, sorted.
func Ops() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Has reports whether name is a known operation.
func Has(name string) bool {
	_, ok := registry[name]
	return ok
}

// Compile turns one configured step into an operation.
func Compile(s config.Step) (Op, error) {
	c, ok := registry[s.Op]
	if !ok {
		return nil, ErrUnknownOp
	}
	return c(s)
}

// simple adapts a method that takes no arguments.
func simple(fn func(b *text.Builder) error) compiler {
	return func(config.Step) (Op, error) {
		return func(b *text.Builder, _ *Env) error {
			return fn(b)
		}, nil
	}
}

func compileAppend(s config.Step) (Op, error) {
	if s.Text == "" {
		return nil, missing("text")
	}
	return func(b *text.Builder, _ *Env) error {
		return b.AppendString(s.Text)
	}, nil
}

func compilePrepend(s config.Step) (Op, error) {
	if s.Text == "" {
		return nil, missing("text")
	}
	return func(b *text.Builder, _ *Env) error {
		return b.PrependString(s.Text)
	}, nil
}

func compileInsert(s config.Step) (Op, error) {
	if s.Text == "" {
		return nil, missing("text")
	}
	return func(b *text.Builder, _ *Env) error {
		return b.InsertString(s.Index, s.Text)
	}, nil
}

func compileRemove(s config.Step) (Op, error) {
	if s.Count == 0 {
		return nil, missing("count")
	}
	return func(b *text.Builder, _ *Env) error {
		return b.Remove(s.Index, s.Count)
	}, nil
}

// padPattern defaults to a single space.
func padPattern(p string) string {
	if p == "" {
		return " "
	}
	return p
}

func compilePadLeft(s config.Step) (Op, error) {
	if s.Width == 0 {
		return nil, missing("width")
	}
	pattern := padPattern(s.Pad)
	return func(b *text.Builder, _ *Env) error {
		return b.PadLeftString(s.Width, pattern)
	}, nil
}

func compilePadRight(s config.Step) (Op, error) {
	if s.Width == 0 {
		return nil, missing("width")
	}
	pattern := padPattern(s.Pad)
	return func(b *text.Builder, _ *Env) error {
		return b.PadRightString(s.Width, pattern)
	}, nil
}

// singleRune returns the only rune of s, or def when s is empty.
func singleRune(field, s string, def rune) (rune, error) {
	if s == "" {
		return def, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) {
		return 0, invalid(field, "want a single character, got %q", s)
	}
	return r, nil
}

func compilePadEven(s config.Step) (Op, error) {
	if s.Width == 0 {
		return nil, missing("width")
	}
	left, err := singleRune("left", s.Left, ' ')
	if err != nil {
		return nil, err
	}
	right, err := singleRune("right", s.Right, left)
	if err != nil {
		return nil, err
	}
	leftBias := s.Bias == "left"
	return func(b *text.Builder, _ *Env) error {
		return b.PadEven(s.Width, left, right, leftBias)
	}, nil
}

func compileWrap(s config.Step) (Op, error) {
	if s.Left == "" && s.Right == "" {
		return nil, missing("left or right")
	}
	return func(b *text.Builder, _ *Env) error {
		return b.WrapString(s.Left, s.Right)
	}, nil
}

func compileUnwrap(s config.Step) (Op, error) {
	if s.Left == "" && s.Right == "" {
		return nil, missing("left or right")
	}
	return func(b *text.Builder, env *Env) error {
		if !b.UnwrapString(s.Left, s.Right) {
			env.Logger.Debug("content not wrapped in %q %q", s.Left, s.Right)
		}
		return nil
	}, nil
}

func compileSwap(s config.Step) (Op, error) {
	return func(b *text.Builder, _ *Env) error {
		return b.Swap(s.Index, s.Other)
	}, nil
}

func compileShuffle(config.Step) (Op, error) {
	return func(b *text.Builder, env *Env) error {
		return b.Shuffle(env.Rand)
	}, nil
}

// compileDedupe collapses runs of equal runes. Chars, when set, limits the
// collapse to the listed runes.
func compileDedupe(s config.Step) (Op, error) {
	allow := []rune(s.Chars)
	return func(b *text.Builder, _ *Env) error {
		b.NormalizeAdjacent(allow...)
		return nil
	}, nil
}

// compileTrim trims white space, or the runes in Chars when set.
func compileTrim(s config.Step) (Op, error) {
	if s.Chars == "" {
		return func(b *text.Builder, _ *Env) error {
			b.TrimSpace()
			return nil
		}, nil
	}
	set := s.Chars
	return func(b *text.Builder, _ *Env) error {
		_, err := b.Trim(func(r rune) bool { return strings.ContainsRune(set, r) })
		return err
	}, nil
}

func compileRemoveChars(s config.Step) (Op, error) {
	if s.Chars == "" {
		return nil, missing("chars")
	}
	return func(b *text.Builder, _ *Env) error {
		b.RemoveChars(s.Chars)
		return nil
	}, nil
}

func compileReplace(s config.Step) (Op, error) {
	if s.Old == "" {
		return nil, missing("old")
	}
	return func(b *text.Builder, _ *Env) error {
		_, err := b.ReplaceString(s.Old, s.New)
		return err
	}, nil
}

func compileNormalize(s config.Step) (Op, error) {
	name := s.Form
	if name == "" {
		name = "NFC"
	}
	form, err := text.ParseForm(name)
	if err != nil {
		return nil, invalid("form", "%q", s.Form)
	}
	return func(b *text.Builder, _ *Env) error {
		return b.Normalize(form)
	}, nil
}

func compileTruncate(s config.Step) (Op, error) {
	return func(b *text.Builder, _ *Env) error {
		_, err := b.TruncateGraphemes(s.Count)
		return err
	}, nil
}
