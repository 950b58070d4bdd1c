package seq

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dshills/gapseq/internal/seq/pool"
)

// applyOp runs one edit, chosen by code, against both the builder and a
// plain slice model. arg supplies positions and values.
func applyOp(b *Builder[int], model []int, code, arg int) []int {
	n := len(model)
	pos := 0
	if n > 0 {
		pos = arg % (n + 1)
	}
	switch code {
	case 0:
		b.Append(arg, arg+1)
		return append(model, arg, arg+1)
	case 1:
		b.Prepend(arg, arg+1)
		return append([]int{arg, arg + 1}, model...)
	case 2:
		b.Insert(pos, arg)
		return slices.Insert(model, pos, arg)
	case 3:
		b.InsertRepeat(pos, arg, arg%20)
		return slices.Insert(model, pos, slices.Repeat([]int{arg}, arg%20)...)
	case 4:
		if n == 0 {
			return model
		}
		start := arg % n
		count := (arg / 7) % (n - start + 1)
		b.Remove(start, count)
		return slices.Delete(model, start, start+count)
	case 5:
		b.PopFront()
		if n == 0 {
			return model
		}
		return model[1:]
	case 6:
		b.PopBack()
		if n == 0 {
			return model
		}
		return model[:n-1]
	case 7:
		b.PrependRepeat(arg, arg%40)
		return append(slices.Repeat([]int{arg}, arg%40), model...)
	default:
		b.Reverse()
		slices.Reverse(model)
		return model
	}
}

func TestBuilderMatchesSliceModel(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("random edits match a slice model", prop.ForAll(
		func(codes []int, args []int) bool {
			b := New[int]()
			var model []int
			for i, code := range codes {
				arg := 0
				if len(args) > 0 {
					arg = args[i%len(args)]
				}
				model = applyOp(b, model, code, arg)
				if !b.Equal(model) || checkRegion(b) != nil {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 8)),
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.Property("pooled builder matches heap builder", prop.ForAll(
		func(codes []int, args []int) bool {
			heap := New[int]()
			pooled := NewWithAllocator[int](pool.New[int]())
			defer pooled.Release()

			var m1, m2 []int
			for i, code := range codes {
				arg := 0
				if len(args) > 0 {
					arg = args[i%len(args)]
				}
				m1 = applyOp(heap, m1, code, arg)
				m2 = applyOp(pooled, m2, code, arg)
			}
			return slices.Equal(heap.AsSlice(), pooled.AsSlice()) && checkRegion(pooled) == nil
		},
		gen.SliceOf(gen.IntRange(0, 8)),
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}

func TestEditProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("insert then remove restores content", prop.ForAll(
		func(content []int, values []int, at int) bool {
			b, err := From(content)
			if err != nil {
				return false
			}
			pos := at % (len(content) + 1)
			if err := b.Insert(pos, values...); err != nil {
				return false
			}
			if err := b.Remove(pos, len(values)); err != nil {
				return false
			}
			return b.Equal(content) && checkRegion(b) == nil
		},
		gen.SliceOf(gen.Int()),
		gen.SliceOf(gen.Int()),
		gen.IntRange(0, 1<<20),
	))

	properties.Property("padding reaches exactly max(len, width)", prop.ForAll(
		func(content []int, width int, leftBias bool) bool {
			want := max(len(content), width)
			for _, pad := range []func(b *Builder[int]) error{
				func(b *Builder[int]) error { return b.PadLeft(width, -1) },
				func(b *Builder[int]) error { return b.PadRight(width, -1) },
				func(b *Builder[int]) error { return b.PadEven(width, -1, -2, leftBias) },
				func(b *Builder[int]) error { return b.PadLeftSeq(width, []int{-1, -2, -3}) },
			} {
				b, _ := From(content)
				if err := pad(b); err != nil || b.Len() != want {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 9)),
		gen.IntRange(-10, 300),
		gen.Bool(),
	))

	properties.Property("normalize adjacent leaves no equal neighbours", prop.ForAll(
		func(content []int) bool {
			b, _ := From(content)
			removed := b.NormalizeAdjacent()
			got := b.AsSlice()
			for i := 1; i < len(got); i++ {
				if got[i] == got[i-1] {
					return false
				}
			}
			return removed == len(content)-len(got) && slices.Equal(got, slices.Compact(slices.Clone(content)))
		},
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	properties.Property("wrap then unwrap restores content", prop.ForAll(
		func(content []int) bool {
			b, _ := From(content)
			if err := b.Wrap(-1, -2); err != nil {
				return false
			}
			return b.Unwrap(-1, -2) && b.Equal(content)
		},
		gen.SliceOf(gen.Int()),
	))

	properties.Property("reverse twice is identity", prop.ForAll(
		func(content []int) bool {
			b, _ := From(content)
			b.Reverse()
			b.Reverse()
			return b.Equal(content)
		},
		gen.SliceOf(gen.Int()),
	))

	properties.TestingRun(t)
}
