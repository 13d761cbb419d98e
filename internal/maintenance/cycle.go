package maintenance

import (
	"math"

	"github.com/ukydev/asset-maintenance/internal/models"
)

// Cycle is the repeating operating-value span an asset moves through. Its
// length equals the largest interval value defined for the asset's model, so
// every interval comes due exactly once per cycle. Cycles are derived on every
// evaluation and never stored.
type Cycle struct {
	Length float64
	Number int // 1-indexed
	Start  float64
	End    float64
}

// ResolveCycle locates currentValue inside its cycle. The second return value
// is false when the inputs are degenerate (no intervals, non-positive cycle
// length, non-finite counter); callers must then produce an empty worklist
// rather than evaluate anything.
func ResolveCycle(currentValue float64, intervals []models.ServiceInterval) (Cycle, bool) {
	if len(intervals) == 0 {
		return Cycle{}, false
	}
	if math.IsNaN(currentValue) || math.IsInf(currentValue, 0) {
		return Cycle{}, false
	}

	length := intervals[0].IntervalValue
	for _, iv := range intervals[1:] {
		if iv.IntervalValue > length {
			length = iv.IntervalValue
		}
	}
	if length <= 0 {
		return Cycle{}, false
	}

	number := int(math.Floor(currentValue/length)) + 1
	return Cycle{
		Length: length,
		Number: number,
		Start:  float64(number-1) * length,
		End:    float64(number) * length,
	}, true
}
