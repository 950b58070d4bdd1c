package text

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/iotest"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/dshills/gapseq/internal/seq"
	"github.com/dshills/gapseq/internal/seq/pool"
)

func mustFrom(t *testing.T, s string, opts ...Option) *Builder {
	t.Helper()
	b, err := FromString(s, opts...)
	if err != nil {
		t.Fatalf("FromString(%q) failed: %v", s, err)
	}
	return b
}

func TestFromString(t *testing.T) {
	tests := []string{"", "hello", "日本語", "emoji 🎉 test", "line\r\nbreak"}

	for _, s := range tests {
		b := mustFrom(t, s)
		if b.String() != s {
			t.Errorf("expected %q, got %q", s, b.String())
		}
		if b.Len() != len([]rune(s)) {
			t.Errorf("expected %d runes, got %d", len([]rune(s)), b.Len())
		}
	}
}

func TestStringEdits(t *testing.T) {
	b := mustFrom(t, "world")

	if err := b.PrependString("hello "); err != nil {
		t.Fatal(err)
	}
	if err := b.AppendString("!"); err != nil {
		t.Fatal(err)
	}
	if err := b.InsertString(5, ","); err != nil {
		t.Fatal(err)
	}
	if b.String() != "hello, world!" {
		t.Errorf("expected 'hello, world!', got %q", b.String())
	}

	sub, err := b.Substring(7, 5)
	if err != nil || sub != "world" {
		t.Errorf("Substring = %q, %v", sub, err)
	}
	if _, err := b.Substring(10, 10); !errors.Is(err, seq.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}

	if err := b.SetString("reset"); err != nil {
		t.Fatal(err)
	}
	if b.String() != "reset" {
		t.Errorf("expected 'reset', got %q", b.String())
	}
}

func TestPadAndWrapStrings(t *testing.T) {
	b := mustFrom(t, "42")

	if err := b.PadLeftString(6, "0"); err != nil {
		t.Fatal(err)
	}
	if err := b.PadRightString(9, "ab"); err != nil {
		t.Fatal(err)
	}
	if b.String() != "000042aba" {
		t.Errorf("expected '000042aba', got %q", b.String())
	}

	if err := b.WrapString("«", "»"); err != nil {
		t.Fatal(err)
	}
	if b.String() != "«000042aba»" {
		t.Errorf("expected wrapped text, got %q", b.String())
	}
	if !b.UnwrapString("«", "»") {
		t.Error("expected unwrap to succeed")
	}
	if b.UnwrapString("[", "]") {
		t.Error("expected unwrap to fail")
	}

	if err := b.PadLeftString(20, ""); !errors.Is(err, seq.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestWhitespace(t *testing.T) {
	b := mustFrom(t, " \t hello \n\n  world  ")
	if err := b.CollapseSpace(); err != nil {
		t.Fatal(err)
	}
	if b.String() != "hello world" {
		t.Errorf("expected 'hello world', got %q", b.String())
	}

	b = mustFrom(t, "  padded\t")
	if n := b.TrimSpace(); n != 3 {
		t.Errorf("expected 3 trimmed, got %d", n)
	}
	if b.String() != "padded" {
		t.Errorf("expected 'padded', got %q", b.String())
	}
}

func TestRemoveChars(t *testing.T) {
	b := mustFrom(t, "h.e,l!lo")

	if n := b.RemoveChars(".,!"); n != 3 {
		t.Errorf("expected 3 removed, got %d", n)
	}
	if b.String() != "hello" {
		t.Errorf("expected 'hello', got %q", b.String())
	}
	if n := b.RemoveChars(""); n != 0 {
		t.Errorf("expected nothing removed, got %d", n)
	}
}

func TestReplaceString(t *testing.T) {
	tests := []struct {
		input, old, repl string
		want             string
		count            int
	}{
		{"a-b-c", "-", "--", "a--b--c", 2},
		{"aaaa", "aa", "b", "bb", 2},
		{"hello", "l", "", "heo", 2},
		{"hello", "xyz", "q", "hello", 0},
		{"abab", "ab", "ba", "baba", 2},
		{"日本語", "本", "ほん", "日ほん語", 1},
	}

	for _, tt := range tests {
		b := mustFrom(t, tt.input)
		n, err := b.ReplaceString(tt.old, tt.repl)
		if err != nil {
			t.Fatalf("ReplaceString failed: %v", err)
		}
		if b.String() != tt.want || n != tt.count {
			t.Errorf("ReplaceString(%q, %q, %q) = %q, %d; want %q, %d",
				tt.input, tt.old, tt.repl, b.String(), n, tt.want, tt.count)
		}
	}

	b := mustFrom(t, "x")
	if _, err := b.ReplaceString("", "y"); !errors.Is(err, ErrEmptyPattern) {
		t.Errorf("expected ErrEmptyPattern, got %v", err)
	}
}

func TestReplaceStringCapacityExceeded(t *testing.T) {
	b := mustFrom(t, "aaaa", WithSeqOptions(seq.WithMaxCapacity(6)))

	n, err := b.ReplaceString("a", "bc")
	if !errors.Is(err, seq.ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 replacements reported, got %d", n)
	}
	if got := b.String(); got != "aaaa" {
		t.Errorf("failed replace changed content to %q", got)
	}

	// Shrinking replacements fit even at the limit
	b = mustFrom(t, "abcabc", WithSeqOptions(seq.WithMaxCapacity(6)))
	if n, err := b.ReplaceString("bc", "x"); err != nil || n != 2 || b.String() != "axax" {
		t.Errorf("ReplaceString = %q, %d, %v; want axax, 2, nil", b.String(), n, err)
	}
}

func TestSetStringNearMaxCapacity(t *testing.T) {
	opts := WithSeqOptions(seq.WithMaxCapacity(64))

	b := mustFrom(t, strings.Repeat("x", 35), opts)
	if err := b.ToUpper(); err != nil {
		t.Fatalf("ToUpper failed: %v", err)
	}
	if got := b.String(); got != strings.Repeat("X", 35) {
		t.Errorf("ToUpper = %q", got)
	}

	// Upper-casing ß doubles the length: 30 -> 60 fits, 40 -> 80 does not
	b = mustFrom(t, strings.Repeat("ß", 30), opts)
	if err := b.ToUpper(); err != nil {
		t.Fatalf("ToUpper failed: %v", err)
	}
	if got := b.String(); got != strings.Repeat("SS", 30) {
		t.Errorf("ToUpper = %q", got)
	}

	b = mustFrom(t, strings.Repeat("ß", 40), opts)
	if err := b.ToUpper(); !errors.Is(err, seq.ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	if got := b.String(); got != strings.Repeat("ß", 40) {
		t.Errorf("failed ToUpper changed content to %q", got)
	}

	b = mustFrom(t, strings.Repeat("y", 60), opts)
	if err := b.SetString("short"); err != nil || b.String() != "short" {
		t.Errorf("SetString = %q, %v; want short", b.String(), err)
	}
}

func TestNormalize(t *testing.T) {
	b := mustFrom(t, "e\u0301")

	if err := b.Normalize(norm.NFC); err != nil {
		t.Fatal(err)
	}
	if b.String() != "\u00e9" || b.Len() != 1 {
		t.Errorf("expected composed e-acute, got %q (%d runes)", b.String(), b.Len())
	}

	if err := b.Normalize(norm.NFD); err != nil {
		t.Fatal(err)
	}
	if b.String() != "e\u0301" || b.Len() != 2 {
		t.Errorf("expected decomposed e-acute, got %q", b.String())
	}
}

func TestParseForm(t *testing.T) {
	tests := []struct {
		name string
		want norm.Form
	}{
		{"NFC", norm.NFC},
		{"nfd", norm.NFD},
		{"NFKC", norm.NFKC},
		{"Nfkd", norm.NFKD},
	}
	for _, tt := range tests {
		got, err := ParseForm(tt.name)
		if err != nil || got != tt.want {
			t.Errorf("ParseForm(%q) = %v, %v", tt.name, got, err)
		}
	}
	if _, err := ParseForm("NFX"); !errors.Is(err, ErrInvalidForm) {
		t.Errorf("expected ErrInvalidForm, got %v", err)
	}
}

func TestCaseMapping(t *testing.T) {
	b := mustFrom(t, "hello world")

	if err := b.ToTitle(); err != nil {
		t.Fatal(err)
	}
	if b.String() != "Hello World" {
		t.Errorf("expected 'Hello World', got %q", b.String())
	}
	if err := b.ToUpper(); err != nil {
		t.Fatal(err)
	}
	if b.String() != "HELLO WORLD" {
		t.Errorf("expected 'HELLO WORLD', got %q", b.String())
	}
	if err := b.ToLower(); err != nil {
		t.Fatal(err)
	}
	if b.String() != "hello world" {
		t.Errorf("expected 'hello world', got %q", b.String())
	}

	// Upper-casing can change the rune count
	b = mustFrom(t, "straße")
	if err := b.ToUpper(); err != nil {
		t.Fatal(err)
	}
	if b.String() != "STRASSE" {
		t.Errorf("expected 'STRASSE', got %q", b.String())
	}
}

func TestCaseMappingLanguage(t *testing.T) {
	b := mustFrom(t, "istanbul", WithLanguage(language.Turkish))

	if err := b.ToUpper(); err != nil {
		t.Fatal(err)
	}
	if b.String() != "\u0130STANBUL" {
		t.Errorf("expected Turkish dotted capital I, got %q", b.String())
	}
}

func TestGraphemes(t *testing.T) {
	tests := []struct {
		input    string
		clusters int
		reversed string
		width    int
	}{
		{"abc", 3, "cba", 3},
		{"ae\u0301", 2, "e\u0301a", 2},
		{"🇩🇪x", 2, "x🇩🇪", 3},
		{"日本", 2, "本日", 4},
		{"", 0, "", 0},
	}

	for _, tt := range tests {
		b := mustFrom(t, tt.input)
		if got := b.GraphemeCount(); got != tt.clusters {
			t.Errorf("GraphemeCount(%q) = %d, want %d", tt.input, got, tt.clusters)
		}
		if got := b.Width(); got != tt.width {
			t.Errorf("Width(%q) = %d, want %d", tt.input, got, tt.width)
		}

		var clusters []string
		for g := range b.Graphemes() {
			clusters = append(clusters, g)
		}
		if strings.Join(clusters, "") != tt.input || len(clusters) != tt.clusters {
			t.Errorf("Graphemes(%q) yielded %q", tt.input, clusters)
		}

		if err := b.ReverseGraphemes(); err != nil {
			t.Fatal(err)
		}
		if b.String() != tt.reversed {
			t.Errorf("ReverseGraphemes(%q) = %q, want %q", tt.input, b.String(), tt.reversed)
		}
	}
}

func TestTruncateGraphemes(t *testing.T) {
	tests := []struct {
		input   string
		n       int
		want    string
		removed int
	}{
		{"e\u0301bc", 2, "e\u0301b", 1},
		{"e\u0301bc", 1, "e\u0301", 2},
		{"abc", 5, "abc", 0},
		{"abc", 0, "", 3},
		{"🇩🇪🇫🇷", 1, "🇩🇪", 2},
	}

	for _, tt := range tests {
		b := mustFrom(t, tt.input)
		removed, err := b.TruncateGraphemes(tt.n)
		if err != nil {
			t.Fatalf("TruncateGraphemes failed: %v", err)
		}
		if b.String() != tt.want || removed != tt.removed {
			t.Errorf("TruncateGraphemes(%q, %d) = %q, %d; want %q, %d",
				tt.input, tt.n, b.String(), removed, tt.want, tt.removed)
		}
	}

	b := mustFrom(t, "abc")
	if _, err := b.TruncateGraphemes(-1); !errors.Is(err, seq.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestWriters(t *testing.T) {
	b := New()

	fmt.Fprintf(b, "%s=%d", "n", 42)
	b.WriteByte(' ')
	b.WriteRune('λ')
	b.WriteString(" ok")

	if b.String() != "n=42 λ ok" {
		t.Errorf("expected 'n=42 λ ok', got %q", b.String())
	}

	if n, _ := b.WriteRune('本'); n != 3 {
		t.Errorf("expected 3 bytes for rune, got %d", n)
	}

	err := b.WriteByte(0xe6)
	if !errors.Is(err, ErrNonASCII) || !errors.Is(err, seq.ErrInvalidArgument) {
		t.Errorf("expected ErrNonASCII, got %v", err)
	}
}

func TestWriteSplitRune(t *testing.T) {
	b := New()
	b.Write([]byte{0xe6})
	b.Write([]byte{0x97, 0xa5})

	for _, r := range b.AsSlice() {
		if r != '\uFFFD' {
			t.Errorf("expected replacement runes, got %q", b.String())
		}
	}
}

func TestWriteTo(t *testing.T) {
	s := strings.Repeat("日本語 text ", 1000)
	b := mustFrom(t, s)

	var out bytes.Buffer
	n, err := b.WriteTo(&out)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if n != int64(len(s)) || out.String() != s {
		t.Errorf("WriteTo wrote %d bytes, content match %v", n, out.String() == s)
	}
}

func TestWriteToError(t *testing.T) {
	b := mustFrom(t, "data")
	want := errors.New("sink closed")

	if _, err := b.WriteTo(errWriter{want}); !errors.Is(err, want) {
		t.Errorf("expected sink error, got %v", err)
	}
}

type errWriter struct{ err error }

func (w errWriter) Write([]byte) (int, error) { return 0, w.err }

func TestReadFrom(t *testing.T) {
	s := strings.Repeat("日本語 🎉 ", 2000)
	b := mustFrom(t, ">")

	n, err := b.ReadFrom(iotest.OneByteReader(strings.NewReader(s)))
	if err != nil {
		t.Fatalf("ReadFrom failed: %v", err)
	}
	if n != int64(len(s)) {
		t.Errorf("expected %d bytes read, got %d", len(s), n)
	}
	if b.String() != ">"+s {
		t.Error("ReadFrom content mismatch")
	}
}

func TestReadFromError(t *testing.T) {
	want := errors.New("read failed")
	b := New()

	r := iotest.DataErrReader(strings.NewReader("abc"))
	if _, err := b.ReadFrom(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.String() != "abc" {
		t.Errorf("expected 'abc', got %q", b.String())
	}

	if _, err := b.ReadFrom(iotest.ErrReader(want)); !errors.Is(err, want) {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestPooledBuilder(t *testing.T) {
	p := pool.New[rune]()
	b := New(WithPool(p), WithSeqOptions(seq.WithCapacity(32)))

	b.WriteString(strings.Repeat("x", 100))
	if got := p.Stats().Outstanding(); got != 1 {
		t.Errorf("expected 1 outstanding array, got %d", got)
	}

	b.Release()
	if got := p.Stats().Outstanding(); got != 0 {
		t.Errorf("expected 0 outstanding arrays after release, got %d", got)
	}
	if !b.IsEmpty() {
		t.Error("released builder should be empty")
	}

	b.WriteString("again")
	if b.String() != "again" {
		t.Errorf("expected reuse after release, got %q", b.String())
	}
	b.Release()
}
