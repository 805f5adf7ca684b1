package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yoklama/backend/internal/domain/user"
	"github.com/yoklama/backend/internal/infrastructure/persistence/models"
)

// GormUserRepository implements user.Repository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by its chat ID
func (r *GormUserRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	var model models.User
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindWithCredentials returns every user currently holding portal credentials
func (r *GormUserRepository) FindWithCredentials(ctx context.Context) ([]user.User, error) {
	var rows []models.User
	if err := r.db.WithContext(ctx).
		Where("student_number IS NOT NULL AND encrypted_password IS NOT NULL").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]user.User, 0, len(rows))
	for i := range rows {
		users = append(users, *rows[i].ToDomain())
	}
	return users, nil
}

// AllIDs returns the IDs of every registered user
func (r *GormUserRepository) AllIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Create registers a user, keeping the existing row when already present
func (r *GormUserRepository) Create(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.User{ID: id}).Error
}

// SaveCredentials upserts the credential pair, registering the user when necessary
func (r *GormUserRepository) SaveCredentials(ctx context.Context, id int64, studentNumber, encryptedPassword string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"student_number", "encrypted_password"}),
		}).
		Create(&models.User{
			ID:                id,
			StudentNumber:     &studentNumber,
			EncryptedPassword: &encryptedPassword,
		}).Error
}

// InvalidateCredentials clears the stored credential pair
func (r *GormUserRepository) InvalidateCredentials(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"student_number":     nil,
			"encrypted_password": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}

// AcceptTerms marks the terms of use as accepted
func (r *GormUserRepository) AcceptTerms(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("has_accepted_terms", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}
