package seq

import (
	"errors"
	"slices"
	"testing"
)

func TestViewStaleAfterMutation(t *testing.T) {
	b := runes(t, "abc")
	v := b.View()

	if n, err := v.Len(); err != nil || n != 3 {
		t.Fatalf("Len = %d, %v", n, err)
	}
	if r, err := v.At(1); err != nil || r != 'b' {
		t.Fatalf("At(1) = %q, %v", r, err)
	}

	b.Append('d')

	if v.Valid() {
		t.Error("view should be stale after append")
	}
	if _, err := v.Len(); !errors.Is(err, ErrStaleView) {
		t.Errorf("expected ErrStaleView from Len, got %v", err)
	}
	if _, err := v.At(0); !errors.Is(err, ErrStaleView) {
		t.Errorf("expected ErrStaleView from At, got %v", err)
	}
	if _, err := v.Slice(); !errors.Is(err, ErrStaleView) {
		t.Errorf("expected ErrStaleView from Slice, got %v", err)
	}

	fresh := b.View()
	s, err := fresh.Slice()
	if err != nil || string(s) != "abcd" {
		t.Errorf("fresh view = %q, %v", string(s), err)
	}
}

func TestViewSurvivesReads(t *testing.T) {
	b := runes(t, "abc")
	v := b.View()

	_ = b.Len()
	_, _ = b.At(0)
	_ = b.Contains('c')
	_ = b.ToSlice()

	if !v.Valid() {
		t.Error("reads must not invalidate a view")
	}
}

func TestViewSurvivesFailedMutation(t *testing.T) {
	b := runes(t, "abc")
	v := b.View()

	// A rejected operation leaves the builder and its views untouched
	if err := b.Remove(2, 5); err == nil {
		t.Fatal("expected range error")
	}
	if !v.Valid() {
		t.Error("failed remove should not invalidate a view")
	}
}

func TestViewAtOutOfRange(t *testing.T) {
	b := runes(t, "ab")
	v := b.View()

	var rerr *RangeError
	if _, err := v.At(2); !errors.As(err, &rerr) {
		t.Errorf("expected *RangeError, got %v", err)
	}
	if _, err := v.At(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestZeroView(t *testing.T) {
	var v View[int]
	if v.Valid() {
		t.Error("zero view should not be valid")
	}
	if _, err := v.Len(); !errors.Is(err, ErrStaleView) {
		t.Errorf("expected ErrStaleView, got %v", err)
	}
}

func TestAsSliceClipped(t *testing.T) {
	b := runes(t, "abc")
	s := b.AsSlice()

	if cap(s) != len(s) {
		t.Errorf("expected clipped slice, got len %d cap %d", len(s), cap(s))
	}
	_ = append(s, 'x')
	mustRegion(t, b)
}

func TestToSliceOwned(t *testing.T) {
	b := runes(t, "abc")
	s := b.ToSlice()
	s[0] = 'z'

	if text(b) != "abc" {
		t.Errorf("ToSlice must copy, builder now %q", text(b))
	}
}

func TestCopyRange(t *testing.T) {
	b := runes(t, "abcdef")

	tests := []struct {
		start, count int
		want         string
		wantErr      bool
	}{
		{0, 6, "abcdef", false},
		{2, 3, "cde", false},
		{6, 0, "", false},
		{5, 2, "", true},
		{-1, 1, "", true},
		{0, -1, "", true},
	}

	for _, tt := range tests {
		got, err := b.CopyRange(tt.start, tt.count)
		if tt.wantErr {
			if !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("CopyRange(%d, %d): expected ErrIndexOutOfRange, got %v", tt.start, tt.count, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("CopyRange(%d, %d) failed: %v", tt.start, tt.count, err)
			continue
		}
		if string(got) != tt.want {
			t.Errorf("CopyRange(%d, %d) = %q, want %q", tt.start, tt.count, string(got), tt.want)
		}
	}
}

func TestIterators(t *testing.T) {
	b, _ := From([]int{10, 20, 30})

	var idx, vals []int
	for i, v := range b.All() {
		idx = append(idx, i)
		vals = append(vals, v)
	}
	if !slices.Equal(idx, []int{0, 1, 2}) || !slices.Equal(vals, []int{10, 20, 30}) {
		t.Errorf("All yielded %v %v", idx, vals)
	}

	idx, vals = nil, nil
	for i, v := range b.Backward() {
		idx = append(idx, i)
		vals = append(vals, v)
	}
	if !slices.Equal(idx, []int{2, 1, 0}) || !slices.Equal(vals, []int{30, 20, 10}) {
		t.Errorf("Backward yielded %v %v", idx, vals)
	}

	count := 0
	for range b.All() {
		count++
		break
	}
	if count != 1 {
		t.Errorf("expected early stop after 1, got %d", count)
	}
}
