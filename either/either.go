// Package either provides a generic two-armed sum type used by reducers
// that must fold both original elements and partial results through the
// same operator (see reduce.Fold and reduce.GroupBy).
package either

// Either holds exactly one of a Left or a Right value.
//
// Adapted from npillmayer/fp/either's EitherSum[L,R] idea: same tagged
// two-field representation, but exposed through plain accessors instead
// of that package's experimental Match()-switch trick.
type Either[L, R any] struct {
	right   bool
	leftV   L
	rightV  R
}

// Left wraps a left value.
func Left[L, R any](v L) Either[L, R] {
	return Either[L, R]{leftV: v}
}

// Right wraps a right value.
func Right[L, R any](v R) Either[L, R] {
	return Either[L, R]{right: true, rightV: v}
}

// IsLeft reports whether the value is the Left arm.
func (e Either[L, R]) IsLeft() bool { return !e.right }

// IsRight reports whether the value is the Right arm.
func (e Either[L, R]) IsRight() bool { return e.right }

// Left returns the left value and true, or the zero value and false.
func (e Either[L, R]) Left() (L, bool) {
	if e.right {
		var zero L
		return zero, false
	}
	return e.leftV, true
}

// Right returns the right value and true, or the zero value and false.
func (e Either[L, R]) Right() (R, bool) {
	if !e.right {
		var zero R
		return zero, false
	}
	return e.rightV, true
}

// Fold applies onLeft or onRight depending on which arm is populated,
// collapsing both into a single result type B.
func Fold[L, R, B any](e Either[L, R], onLeft func(L) B, onRight func(R) B) B {
	if e.right {
		return onRight(e.rightV)
	}
	return onLeft(e.leftV)
}
