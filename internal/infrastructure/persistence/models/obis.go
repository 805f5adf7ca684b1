package models

import "time"

// Lesson is the directory of lessons seen on the portal, keyed by the
// portal's lesson code. Rows are inserted on first sight and never updated,
// so the stored name reflects the first observation.
type Lesson struct {
	Code      string    `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
}

// TableName returns the table name for the Lesson model
func (Lesson) TableName() string {
	return "lessons"
}

// LessonAttendance is one observed attendance snapshot row. The history is
// append-only; the newest row per (user, lesson) is the current state.
type LessonAttendance struct {
	ID                      int64   `gorm:"primaryKey;autoIncrement"`
	LessonCode              string  `gorm:"not null;index:idx_lessons_attendance_user_lesson,priority:2"`
	UserID                  int64   `gorm:"not null;index:idx_lessons_attendance_user_lesson,priority:1"`
	TheorySkipsPercentage   *float64
	PracticeSkipsPercentage *float64
	CreatedAt               time.Time `gorm:"not null;autoCreateTime"`
}

// TableName returns the table name for the LessonAttendance model
func (LessonAttendance) TableName() string {
	return "lessons_attendance"
}

// LessonGrade is one observed grade snapshot row, append-only like
// LessonAttendance but keyed by (user, lesson, exam).
type LessonGrade struct {
	ID         int64   `gorm:"primaryKey;autoIncrement"`
	LessonCode string  `gorm:"not null;index:idx_lesson_grades_user_lesson_exam,priority:2"`
	UserID     int64   `gorm:"not null;index:idx_lesson_grades_user_lesson_exam,priority:1"`
	ExamName   string  `gorm:"not null;index:idx_lesson_grades_user_lesson_exam,priority:3"`
	Score      *string
	CreatedAt  time.Time `gorm:"not null;autoCreateTime"`
}

// TableName returns the table name for the LessonGrade model
func (LessonGrade) TableName() string {
	return "lesson_grades"
}
