package obis

import "math"

// Faculty attendance policy. A student is dropped from a lesson once the
// theory skip percentage crosses 30% or the practice percentage crosses
// 20%; one missed lesson costs 6.25 percentage points.
const (
	TheorySkipsThreshold    = 30
	PracticeSkipsThreshold  = 20
	SkipPercentagePerLesson = 6.25
)

// SkipBudget is the number of additional full lessons the student can still
// miss per axis before crossing the policy threshold. An axis is nil when
// the portal reported no percentage for it (unknown, not zero).
type SkipBudget struct {
	Theory   *int
	Practice *int
}

// ComputeSkipBudget derives the remaining skip budget from an attendance
// record. Pure function of its input.
func ComputeSkipBudget(rec AttendanceRecord) SkipBudget {
	return SkipBudget{
		Theory:   remainingSkips(TheorySkipsThreshold, rec.TheorySkipsPercentage),
		Practice: remainingSkips(PracticeSkipsThreshold, rec.PracticeSkipsPercentage),
	}
}

func remainingSkips(threshold float64, percentage *float64) *int {
	if percentage == nil {
		return nil
	}
	diff := threshold - *percentage
	var remaining int
	// When the student is exactly one lesson away from the threshold, the
	// floored quotient is at the mercy of floating-point error; pin it to 0.
	if diff == SkipPercentagePerLesson {
		remaining = 0
	} else {
		remaining = int(math.Floor(diff / SkipPercentagePerLesson))
	}
	return &remaining
}
