package script

import (
	"errors"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/gapseq/internal/seq"
	"github.com/dshills/gapseq/internal/text"
)

const bufferType = "gapseq.buffer"

var errBusy = errors.New("buffer cannot be modified from a callback")

// buffer is the Go side of a buf userdata.
type buffer struct {
	b    *text.Builder
	st   *State
	rng  seq.Rand
	busy bool
}

var bufferMethods = map[string]lua.LGFunction{
	"len":        bufLen,
	"text":       bufText,
	"sub":        bufSub,
	"append":     bufAppend,
	"prepend":    bufPrepend,
	"insert":     bufInsert,
	"remove":     bufRemove,
	"pad_left":   bufPadLeft,
	"pad_right":  bufPadRight,
	"pad_even":   bufPadEven,
	"wrap":       bufWrap,
	"unwrap":     bufUnwrap,
	"reverse":    bufReverse,
	"swap":       bufSwap,
	"shuffle":    bufShuffle,
	"dedupe":     bufDedupe,
	"collapse":   bufCollapse,
	"remove_if":  bufRemoveIf,
	"replace_if": bufReplaceIf,
	"map":        bufMap,
	"clear":      bufClear,
}

// BindBuffer exposes b to scripts as the global name. rng backs
// buf:shuffle(); a nil rng makes shuffle raise an error.
func (s *State) BindBuffer(name string, b *text.Builder, rng seq.Rand) {
	s.mu.Lock()
	defer s.mu.Unlock()

	L := s.L
	mt := L.NewTypeMetatable(bufferType)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), bufferMethods))
	L.SetField(mt, "__len", L.NewFunction(bufLen))
	L.SetField(mt, "__tostring", L.NewFunction(bufText))

	ud := L.NewUserData()
	ud.Value = &buffer{b: b, st: s, rng: rng}
	L.SetMetatable(ud, mt)
	L.SetGlobal(name, ud)
}

func checkBuffer(L *lua.LState) *buffer {
	ud := L.CheckUserData(1)
	if v, ok := ud.Value.(*buffer); ok {
		return v
	}
	L.ArgError(1, "buffer expected")
	return nil
}

// mutable returns the buffer of a method that modifies content.
func mutable(L *lua.LState, op string) *buffer {
	buf := checkBuffer(L)
	if buf.busy {
		buf.st.raise(L, op, errBusy)
	}
	return buf
}

// done pushes the receiver so mutating calls chain: buf:trim():wrap("[", "]").
func done(L *lua.LState, err error, op string, buf *buffer) int {
	if err != nil {
		buf.st.raise(L, op, err)
	}
	L.Push(L.Get(1))
	return 1
}

func checkRune(L *lua.LState, n int, def rune) rune {
	s := L.OptString(n, "")
	if s == "" {
		return def
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) {
		L.ArgError(n, "single character expected")
	}
	return r
}

func bufLen(L *lua.LState) int {
	L.Push(lua.LNumber(checkBuffer(L).b.Len()))
	return 1
}

func bufText(L *lua.LState) int {
	L.Push(lua.LString(checkBuffer(L).b.String()))
	return 1
}

// sub(start [, count]) returns count runes from offset start, or the rest.
func bufSub(L *lua.LState) int {
	buf := checkBuffer(L)
	start := L.CheckInt(2)
	count := L.OptInt(3, buf.b.Len()-start)
	s, err := buf.b.Substring(start, count)
	if err != nil {
		buf.st.raise(L, "sub", err)
	}
	L.Push(lua.LString(s))
	return 1
}

func bufAppend(L *lua.LState) int {
	buf := mutable(L, "append")
	return done(L, buf.b.AppendString(L.CheckString(2)), "append", buf)
}

func bufPrepend(L *lua.LState) int {
	buf := mutable(L, "prepend")
	return done(L, buf.b.PrependString(L.CheckString(2)), "prepend", buf)
}

func bufInsert(L *lua.LState) int {
	buf := mutable(L, "insert")
	return done(L, buf.b.InsertString(L.CheckInt(2), L.CheckString(3)), "insert", buf)
}

// remove(start [, count]) removes count runes, one by default.
func bufRemove(L *lua.LState) int {
	buf := mutable(L, "remove")
	return done(L, buf.b.Remove(L.CheckInt(2), L.OptInt(3, 1)), "remove", buf)
}

func bufPadLeft(L *lua.LState) int {
	buf := mutable(L, "pad_left")
	return done(L, buf.b.PadLeftString(L.CheckInt(2), L.OptString(3, " ")), "pad_left", buf)
}

func bufPadRight(L *lua.LState) int {
	buf := mutable(L, "pad_right")
	return done(L, buf.b.PadRightString(L.CheckInt(2), L.OptString(3, " ")), "pad_right", buf)
}

// pad_even(width [, left [, right [, left_bias]]])
func bufPadEven(L *lua.LState) int {
	buf := mutable(L, "pad_even")
	width := L.CheckInt(2)
	left := checkRune(L, 3, ' ')
	right := checkRune(L, 4, left)
	leftBias := L.OptBool(5, false)
	return done(L, buf.b.PadEven(width, left, right, leftBias), "pad_even", buf)
}

// wrap(left [, right]) uses left on both sides when right is omitted.
func bufWrap(L *lua.LState) int {
	buf := mutable(L, "wrap")
	left := L.CheckString(2)
	return done(L, buf.b.WrapString(left, L.OptString(3, left)), "wrap", buf)
}

func bufUnwrap(L *lua.LState) int {
	buf := mutable(L, "unwrap")
	left := L.CheckString(2)
	L.Push(lua.LBool(buf.b.UnwrapString(left, L.OptString(3, left))))
	return 1
}

func bufReverse(L *lua.LState) int {
	buf := mutable(L, "reverse")
	buf.b.Reverse()
	return done(L, nil, "reverse", buf)
}

func bufSwap(L *lua.LState) int {
	buf := mutable(L, "swap")
	return done(L, buf.b.Swap(L.CheckInt(2), L.CheckInt(3)), "swap", buf)
}

func bufShuffle(L *lua.LState) int {
	buf := mutable(L, "shuffle")
	return done(L, buf.b.Shuffle(buf.rng), "shuffle", buf)
}

// dedupe([chars]) collapses runs of equal runes, only those in chars when
// given, and returns the number removed.
func bufDedupe(L *lua.LState) int {
	buf := mutable(L, "dedupe")
	n := buf.b.NormalizeAdjacent([]rune(L.OptString(2, ""))...)
	L.Push(lua.LNumber(n))
	return 1
}

func bufCollapse(L *lua.LState) int {
	buf := mutable(L, "collapse")
	return done(L, buf.b.CollapseSpace(), "collapse", buf)
}

// eachDistinct calls fn once per distinct rune of the content, passing the
// rune as a one-character string, and hands each result to visit. The
// content cannot change while fn runs.
func (buf *buffer) eachDistinct(L *lua.LState, op string, fn *lua.LFunction, visit func(r rune, ret lua.LValue)) {
	seen := make(map[rune]bool)
	buf.busy = true
	buf.st.cause = nil
	defer func() { buf.busy = false }()

	for _, r := range buf.b.AsSlice() {
		if seen[r] {
			continue
		}
		seen[r] = true
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LString(string(r))); err != nil {
			buf.busy = false
			if buf.st.cause != nil {
				err = buf.st.cause
			}
			buf.st.raise(L, op, err)
		}
		ret := L.Get(-1)
		L.Pop(1)
		visit(r, ret)
	}
}

// remove_if(fn) removes every rune for which fn returns a true value and
// returns the number removed.
func bufRemoveIf(L *lua.LState) int {
	buf := mutable(L, "remove_if")
	fn := L.CheckFunction(2)

	drop := make(map[rune]bool)
	buf.eachDistinct(L, "remove_if", fn, func(r rune, ret lua.LValue) {
		drop[r] = lua.LVAsBool(ret)
	})

	n, err := buf.b.RemoveAll(func(r rune) bool { return drop[r] })
	if err != nil {
		buf.st.raise(L, "remove_if", err)
	}
	L.Push(lua.LNumber(n))
	return 1
}

// replace_if(fn, repl) replaces every rune for which fn returns a true
// value with repl and returns the number replaced.
func bufReplaceIf(L *lua.LState) int {
	buf := mutable(L, "replace_if")
	fn := L.CheckFunction(2)
	repl := checkRune(L, 3, 0)
	if repl == 0 {
		L.ArgError(3, "replacement character expected")
	}

	match := make(map[rune]bool)
	buf.eachDistinct(L, "replace_if", fn, func(r rune, ret lua.LValue) {
		match[r] = lua.LVAsBool(ret)
	})

	n, err := buf.b.ReplaceAll(func(r rune) bool { return match[r] }, repl)
	if err != nil {
		buf.st.raise(L, "replace_if", err)
	}
	L.Push(lua.LNumber(n))
	return 1
}

// map(fn) replaces each rune with the single character fn returns. A nil
// or false result keeps the rune.
func bufMap(L *lua.LState) int {
	buf := mutable(L, "map")
	fn := L.CheckFunction(2)

	mapping := make(map[rune]rune)
	var bad lua.LValue
	buf.eachDistinct(L, "map", fn, func(r rune, ret lua.LValue) {
		if !lua.LVAsBool(ret) {
			return
		}
		s, ok := ret.(lua.LString)
		m, size := utf8.DecodeRuneInString(string(s))
		if !ok || size == 0 || size != len(s) {
			if bad == nil {
				bad = ret
			}
			return
		}
		mapping[r] = m
	})
	if bad != nil {
		L.RaiseError("map: callback must return a single character, got %s", bad.String())
	}

	err := buf.b.ReplaceFunc(func(r rune) rune {
		if m, ok := mapping[r]; ok {
			return m
		}
		return r
	})
	return done(L, err, "map", buf)
}

func bufClear(L *lua.LState) int {
	buf := mutable(L, "clear")
	buf.b.Clear()
	return done(L, nil, "clear", buf)
}
