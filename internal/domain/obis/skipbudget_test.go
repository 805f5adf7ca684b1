package obis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestComputeSkipBudget(t *testing.T) {
	tests := []struct {
		name     string
		theory   *float64
		practice *float64
		wantT    *int
		wantP    *int
	}{
		{
			name:     "fresh lesson has full budget",
			theory:   floatPtr(0),
			practice: floatPtr(0),
			wantT:    intPtr(4), // floor(30 / 6.25)
			wantP:    intPtr(3), // floor(20 / 6.25)
		},
		{
			name:     "theory exactly one lesson from threshold pins to zero",
			theory:   floatPtr(23.75),
			practice: floatPtr(0),
			wantT:    intPtr(0),
			wantP:    intPtr(3),
		},
		{
			name:     "practice exactly one lesson from threshold pins to zero",
			theory:   floatPtr(0),
			practice: floatPtr(13.75),
			wantT:    intPtr(4),
			wantP:    intPtr(0),
		},
		{
			name:     "absent percentages give absent budgets",
			theory:   nil,
			practice: nil,
			wantT:    nil,
			wantP:    nil,
		},
		{
			name:     "over threshold goes negative",
			theory:   floatPtr(35),
			practice: floatPtr(25),
			wantT:    intPtr(-1),
			wantP:    intPtr(-1),
		},
		{
			name:     "mid-range values floor down",
			theory:   floatPtr(16.25),
			practice: floatPtr(6.25),
			wantT:    intPtr(2),
			wantP:    intPtr(2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget := ComputeSkipBudget(AttendanceRecord{
				LessonCode:              "BIL-101",
				TheorySkipsPercentage:   tt.theory,
				PracticeSkipsPercentage: tt.practice,
			})
			assertIntPtr(t, tt.wantT, budget.Theory)
			assertIntPtr(t, tt.wantP, budget.Practice)
		})
	}
}

func intPtr(v int) *int { return &v }

func assertIntPtr(t *testing.T, want, got *int) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got)
		return
	}
	require.NotNil(t, got)
	assert.Equal(t, *want, *got)
}
