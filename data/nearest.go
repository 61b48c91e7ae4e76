package data

import (
	"sort"

	"gonum.org/v1/gonum/floats/scalar"
)

// FindNearestIndex returns the index of the point in points nearest to t.
// points must be sorted in increasing order. If tol is non-negative and
// the nearest point is farther than tol from t, ok is false. A negative
// tol disables the tolerance check.
func FindNearestIndex(points []float64, t float64, tol float64) (int, bool) {
	n := len(points)
	if n == 0 {
		return 0, false
	}
	i := sort.SearchFloat64s(points, t)
	// i is the first index with points[i] >= t; the nearest point is
	// either i or i-1.
	best := i
	if i == n {
		best = n - 1
	} else if i > 0 && t-points[i-1] < points[i]-t {
		best = i - 1
	}
	if tol >= 0 && !scalar.EqualWithinAbs(points[best], t, tol) {
		return 0, false
	}
	return best, true
}

// FindNearestIntervalIndex returns the index of the interval containing t.
// intervals must be sorted and non-overlapping. A point within tol of an
// interval counts as contained. When t lies on the boundary between two
// intervals, preferLeft selects which one is returned. ok is false when
// no interval contains t.
func FindNearestIntervalIndex(intervals [][2]float64, t float64, tol float64, preferLeft bool) (int, bool) {
	n := len(intervals)
	if n == 0 {
		return 0, false
	}
	if tol < 0 {
		tol = 0
	}
	// First interval whose right endpoint is at or beyond t. When t sits
	// on a shared boundary this is the interval on the left.
	i := sort.Search(n, func(k int) bool { return intervals[k][1] >= t-tol })

	contains := func(k int) bool {
		return k >= 0 && k < n && t >= intervals[k][0]-tol && t <= intervals[k][1]+tol
	}

	left, right := contains(i), contains(i+1)
	switch {
	case left && right:
		if preferLeft {
			return i, true
		}
		return i + 1, true
	case left:
		return i, true
	case right:
		return i + 1, true
	}
	return 0, false
}
