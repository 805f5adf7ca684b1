package monitor

import (
	"context"
	"fmt"

	"github.com/yoklama/backend/internal/domain/obis"
)

// diffAttendance compares a fetched attendance snapshot against the last
// stored record per lesson. It reads the store but never writes it, so the
// same snapshot diffed twice yields the same changes. Output order follows
// the fetched list.
func (s *Service) diffAttendance(ctx context.Context, userID int64, fetched []obis.AttendanceRecord) ([]obis.AttendanceChange, error) {
	var changes []obis.AttendanceChange
	for _, rec := range fetched {
		previous, err := s.attendance.FindLast(ctx, userID, rec.LessonCode)
		if err != nil {
			return nil, fmt.Errorf("load last attendance for lesson %s: %w", rec.LessonCode, err)
		}
		if previous == nil {
			changes = append(changes, obis.AttendanceChange{Current: rec})
			continue
		}
		if !obis.AttendanceEqual(*previous, rec) {
			changes = append(changes, obis.AttendanceChange{Previous: previous, Current: rec})
		}
	}
	return changes, nil
}

// diffGrades does the same for a flattened grade snapshot, keyed by
// (lesson, exam).
func (s *Service) diffGrades(ctx context.Context, userID int64, fetched []obis.GradeRecord) ([]obis.GradeChange, error) {
	var changes []obis.GradeChange
	for _, rec := range fetched {
		previous, err := s.grades.FindLast(ctx, userID, rec.LessonCode, rec.ExamName)
		if err != nil {
			return nil, fmt.Errorf("load last grade for lesson %s exam %s: %w", rec.LessonCode, rec.ExamName, err)
		}
		if previous == nil {
			changes = append(changes, obis.GradeChange{Current: rec})
			continue
		}
		if !obis.GradeEqual(*previous, rec) {
			changes = append(changes, obis.GradeChange{Previous: previous, Current: rec})
		}
	}
	return changes, nil
}

// flattenGrades turns the per-lesson page grouping into one record per exam,
// stamped with the user ID, preserving page order.
func flattenGrades(userID int64, lessons []obis.LessonExams) []obis.GradeRecord {
	var records []obis.GradeRecord
	for _, lesson := range lessons {
		for _, exam := range lesson.Exams {
			records = append(records, obis.GradeRecord{
				UserID:     userID,
				LessonCode: lesson.LessonCode,
				LessonName: lesson.LessonName,
				ExamName:   exam.Name,
				Score:      exam.Score,
			})
		}
	}
	return records
}
