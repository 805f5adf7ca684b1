package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yoklama/backend/internal/domain/obis"
	"github.com/yoklama/backend/internal/infrastructure/persistence/models"
)

// GormAttendanceRepository implements obis.AttendanceHistoryRepository using GORM
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewGormAttendanceRepository creates a new GormAttendanceRepository
func NewGormAttendanceRepository(db *gorm.DB) *GormAttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

type attendanceRow struct {
	LessonCode              string
	LessonName              string
	TheorySkipsPercentage   *float64
	PracticeSkipsPercentage *float64
}

// FindLast returns the most recent stored observation for the (user, lesson)
// pair, joined with the lesson directory for the display name. Returns
// (nil, nil) when no observation exists.
func (r *GormAttendanceRepository) FindLast(ctx context.Context, userID int64, lessonCode string) (*obis.AttendanceRecord, error) {
	var row attendanceRow
	err := r.db.WithContext(ctx).
		Table("lessons_attendance").
		Select("lessons_attendance.lesson_code, lessons.name AS lesson_name, "+
			"lessons_attendance.theory_skips_percentage, lessons_attendance.practice_skips_percentage").
		Joins("JOIN lessons ON lessons.code = lessons_attendance.lesson_code").
		Where("lessons_attendance.user_id = ? AND lessons_attendance.lesson_code = ?", userID, lessonCode).
		Order("lessons_attendance.created_at DESC, lessons_attendance.id DESC").
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &obis.AttendanceRecord{
		UserID:                  userID,
		LessonCode:              row.LessonCode,
		LessonName:              row.LessonName,
		TheorySkipsPercentage:   row.TheorySkipsPercentage,
		PracticeSkipsPercentage: row.PracticeSkipsPercentage,
	}, nil
}

// Append stores a new observation. The lesson directory row is inserted
// when missing; an existing row keeps its original name.
func (r *GormAttendanceRepository) Append(ctx context.Context, rec obis.AttendanceRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Lesson{Code: rec.LessonCode, Name: rec.LessonName}).Error; err != nil {
			return err
		}
		return tx.Create(&models.LessonAttendance{
			LessonCode:              rec.LessonCode,
			UserID:                  rec.UserID,
			TheorySkipsPercentage:   rec.TheorySkipsPercentage,
			PracticeSkipsPercentage: rec.PracticeSkipsPercentage,
		}).Error
	})
}
