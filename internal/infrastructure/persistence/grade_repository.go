package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yoklama/backend/internal/domain/obis"
	"github.com/yoklama/backend/internal/infrastructure/persistence/models"
)

// GormGradeRepository implements obis.GradeHistoryRepository using GORM
type GormGradeRepository struct {
	db *gorm.DB
}

// NewGormGradeRepository creates a new GormGradeRepository
func NewGormGradeRepository(db *gorm.DB) *GormGradeRepository {
	return &GormGradeRepository{db: db}
}

type gradeRow struct {
	LessonCode string
	LessonName string
	ExamName   string
	Score      *string
}

// FindLast returns the most recent stored observation for the
// (user, lesson, exam) triple, or (nil, nil) when none exists.
func (r *GormGradeRepository) FindLast(ctx context.Context, userID int64, lessonCode, examName string) (*obis.GradeRecord, error) {
	var row gradeRow
	err := r.db.WithContext(ctx).
		Table("lesson_grades").
		Select("lesson_grades.lesson_code, lessons.name AS lesson_name, "+
			"lesson_grades.exam_name, lesson_grades.score").
		Joins("JOIN lessons ON lessons.code = lesson_grades.lesson_code").
		Where("lesson_grades.user_id = ? AND lesson_grades.lesson_code = ? AND lesson_grades.exam_name = ?",
			userID, lessonCode, examName).
		Order("lesson_grades.created_at DESC, lesson_grades.id DESC").
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &obis.GradeRecord{
		UserID:     userID,
		LessonCode: row.LessonCode,
		LessonName: row.LessonName,
		ExamName:   row.ExamName,
		Score:      row.Score,
	}, nil
}

// Append stores a new observation, inserting the lesson directory row when
// missing.
func (r *GormGradeRepository) Append(ctx context.Context, rec obis.GradeRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Lesson{Code: rec.LessonCode, Name: rec.LessonName}).Error; err != nil {
			return err
		}
		return tx.Create(&models.LessonGrade{
			LessonCode: rec.LessonCode,
			UserID:     rec.UserID,
			ExamName:   rec.ExamName,
			Score:      rec.Score,
		}).Error
	})
}
