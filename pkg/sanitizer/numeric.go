package sanitizer

import (
	"math"
	"strconv"
)

// Numeric represents the numeric types the validators accept.
type Numeric interface {
	~int64 | ~float64
}

// Bounds is an inclusive range. The zero value is unbounded.
type Bounds[T Numeric] struct {
	Min, Max T
	set      bool
}

// Range returns inclusive bounds [min, max]. Arguments are swapped when
// given in the wrong order.
func Range[T Numeric](min, max T) Bounds[T] {
	if min > max {
		min, max = max, min
	}
	return Bounds[T]{Min: min, Max: max, set: true}
}

// Contains reports whether v lies within b. Unbounded ranges contain every value.
func (b Bounds[T]) Contains(v T) bool {
	if !b.set {
		return true
	}
	return v >= b.Min && v <= b.Max
}

// ValidateInt revalidates v as a decimal integer by formatting and parsing it
// again, then checks it against b. The second result is false on failure.
func ValidateInt(v int64, b Bounds[int64]) (int64, bool) {
	n, err := strconv.ParseInt(strconv.FormatInt(v, 10), 10, 64)
	if err != nil || n != v {
		return 0, false
	}
	if !b.Contains(n) {
		return 0, false
	}
	return n, true
}

// ValidateFloat revalidates v as a finite float. NaN and infinities fail,
// as do values outside b.
func ValidateFloat(v float64, b Bounds[float64]) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	f, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', -1, 64), 64)
	if err != nil {
		return 0, false
	}
	if !b.Contains(f) {
		return 0, false
	}
	return f, true
}
