// Package mhe augments a dynamic model with the components needed for
// moving horizon estimation: measurement variables and errors tied to the
// model state at sample points, and disturbance terms spliced into the
// model equations, one per constraint and sample interval.
package mhe

import (
	"fmt"
	"sort"
)

// CurrSamplePoint returns the smallest sample point at or after t.
// samplePoints must be sorted in increasing order. A time point beyond
// the last sample point is an error: clamping it to the final interval
// would silently mis-assign its disturbance.
func CurrSamplePoint(t float64, samplePoints []float64) (float64, error) {
	i := sort.SearchFloat64s(samplePoints, t)
	if i == len(samplePoints) {
		return 0, fmt.Errorf(
			"time point %v is beyond the last sample point %v",
			t, samplePoints[len(samplePoints)-1],
		)
	}
	return samplePoints[i], nil
}
