package seq

import "math"

// Default configuration values.
const (
	DefaultCapacity = 16
	MaxCapacity     = math.MaxInt32
)

// Option configures a Builder during creation.
type Option func(*settings)

type settings struct {
	capacity    int
	maxCapacity int
	hook        func(GrowthEvent)
}

func defaultSettings() settings {
	return settings{
		capacity:    DefaultCapacity,
		maxCapacity: MaxCapacity,
	}
}

// WithCapacity sets the initial capacity. Zero defers allocation until the
// first write.
func WithCapacity(n int) Option {
	return func(s *settings) {
		if n >= 0 {
			s.capacity = n
		}
	}
}

// WithMaxCapacity caps how large the backing array may grow, including
// arrays a pooling allocator rounds up. Growth past the cap fails with
// ErrCapacityExceeded.
func WithMaxCapacity(n int) Option {
	return func(s *settings) {
		if n > 0 && n <= MaxCapacity {
			s.maxCapacity = n
		}
	}
}

// WithGrowthHook registers a callback invoked for every shift, re-center or
// reallocation the growth policy performs.
func WithGrowthHook(fn func(GrowthEvent)) Option {
	return func(s *settings) {
		s.hook = fn
	}
}
