package seq

import (
	"testing"

	"github.com/dshills/gapseq/internal/seq/pool"
)

func BenchmarkAppend(b *testing.B) {
	for i := 0; i < b.N; i++ {
		s := New[rune]()
		for j := 0; j < 1000; j++ {
			s.Append('a')
		}
	}
}

func BenchmarkPrepend(b *testing.B) {
	for i := 0; i < b.N; i++ {
		s := New[rune]()
		for j := 0; j < 1000; j++ {
			s.Prepend('a')
		}
	}
}

func BenchmarkAlternatingEnds(b *testing.B) {
	for i := 0; i < b.N; i++ {
		s := New[rune]()
		for j := 0; j < 500; j++ {
			s.Prepend('<')
			s.Append('>')
		}
	}
}

func BenchmarkInsertMiddle(b *testing.B) {
	for i := 0; i < b.N; i++ {
		s := New[rune]()
		for j := 0; j < 1000; j++ {
			s.Insert(s.Len()/2, 'x')
		}
	}
}

func BenchmarkPooledAppend(b *testing.B) {
	p := pool.New[rune]()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := NewWithAllocator[rune](p)
		for j := 0; j < 1000; j++ {
			s.Append('a')
		}
		s.Release()
	}
}

func BenchmarkNormalizeAll(b *testing.B) {
	input := []rune("  lorem   ipsum \t dolor  sit \n amet  ")
	isSpace := func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s, _ := From(input)
		_ = s.NormalizeAll(' ', isSpace)
	}
}
