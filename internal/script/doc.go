// Package script runs Lua transformation scripts against a text builder.
//
// Scripts run in a sandboxed gopher-lua state with only the base, table,
// string and math libraries. The functions that load outside code (dofile,
// loadfile, load, loadstring, require) are removed, and print writes to the
// runner's output instead of stdout.
//
// The text being transformed is the global buf. Offsets are 0-based rune
// positions, the same as the Go API. Methods that change the content return
// buf, so calls chain:
//
//	buf:collapse():wrap("[", "]")
//	if buf:len() > 40 then buf:remove(40, buf:len() - 40) end
//	buf:map(function(c) if c == "-" then return "_" end end)
//
// Methods:
//
//	len()                           rune count, also #buf
//	text()                          content as a string, also tostring(buf)
//	sub(start [, count])            substring
//	append(s), prepend(s)
//	insert(i, s)
//	remove(i [, count])             count defaults to 1
//	pad_left(w [, pattern])         pattern defaults to " "
//	pad_right(w [, pattern])
//	pad_even(w [, left [, right [, left_bias]]])
//	wrap(left [, right])            right defaults to left
//	unwrap(left [, right])          returns true when stripped
//	reverse(), swap(i, j), shuffle()
//	dedupe([chars])                 returns the number removed
//	collapse()                      trims and collapses white space
//	remove_if(fn)                   returns the number removed
//	replace_if(fn, c)               returns the number replaced
//	map(fn)                         fn returns one character, or nil to keep
//	clear()
//
// The callbacks of remove_if, replace_if and map receive each distinct
// character once, as a one-character string, and must not modify buf.
//
// A Go error raised by a method, such as an out-of-range offset, is kept as
// the cause of the resulting *ScriptError, so errors.Is matches the builder
// sentinels.
package script
