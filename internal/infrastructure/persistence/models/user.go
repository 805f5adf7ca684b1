package models

import (
	"time"

	"github.com/yoklama/backend/internal/domain/user"
)

// User maps the users table. The primary key is the messaging-channel chat
// ID, assigned externally, never generated here. Credential columns are
// nullable: both are set together and cleared together.
type User struct {
	ID                int64 `gorm:"primaryKey;autoIncrement:false"`
	StudentNumber     *string
	EncryptedPassword *string
	HasAcceptedTerms  bool      `gorm:"not null;default:false"`
	CreatedAt         time.Time `gorm:"not null;autoCreateTime"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain user
func (m *User) ToDomain() *user.User {
	return &user.User{
		ID:                m.ID,
		StudentNumber:     m.StudentNumber,
		EncryptedPassword: m.EncryptedPassword,
		HasAcceptedTerms:  m.HasAcceptedTerms,
		CreatedAt:         m.CreatedAt,
	}
}
