// Package account manages user registration, portal credentials and terms
// acceptance.
package account

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yoklama/backend/internal/domain/user"
)

// Cryptor encrypts portal passwords before they reach storage.
type Cryptor interface {
	Encrypt(plaintext string) (string, error)
}

// Service handles account-related operations.
type Service struct {
	users   user.Repository
	cryptor Cryptor
	logger  *zap.Logger
}

// NewService creates an account Service.
func NewService(users user.Repository, cryptor Cryptor, logger *zap.Logger) *Service {
	return &Service{users: users, cryptor: cryptor, logger: logger}
}

// Register creates the user if not already present.
func (s *Service) Register(ctx context.Context, id int64) error {
	if err := s.users.Create(ctx, id); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// SaveCredentials encrypts the password and stores the credential pair,
// registering the user when necessary. The plaintext password is never
// persisted or logged.
func (s *Service) SaveCredentials(ctx context.Context, id int64, studentNumber, password string) error {
	encrypted, err := s.cryptor.Encrypt(password)
	if err != nil {
		return fmt.Errorf("encrypt password: %w", err)
	}
	if err := s.users.SaveCredentials(ctx, id, studentNumber, encrypted); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	s.logger.Info("credentials saved", zap.Int64("user_id", id))
	return nil
}

// RemoveCredentials clears the stored credentials; the user drops out of the
// monitoring cycles until new ones are saved.
func (s *Service) RemoveCredentials(ctx context.Context, id int64) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.users.InvalidateCredentials(ctx, id); err != nil {
		return fmt.Errorf("invalidate credentials: %w", err)
	}
	s.logger.Info("credentials removed", zap.Int64("user_id", id))
	return nil
}

// AcceptTerms records the user's acceptance of the terms of use.
func (s *Service) AcceptTerms(ctx context.Context, id int64) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.users.AcceptTerms(ctx, id); err != nil {
		return fmt.Errorf("accept terms: %w", err)
	}
	return nil
}
