package user

import "context"

// Repository is the durable store of registered users.
type Repository interface {
	// FindByID returns the user or ErrNotFound.
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindWithCredentials returns every user currently holding portal
	// credentials, the population eligible for monitoring cycles.
	FindWithCredentials(ctx context.Context) ([]User, error)

	// AllIDs returns the IDs of every registered user.
	AllIDs(ctx context.Context) ([]int64, error)

	// Create registers a user if not already present.
	Create(ctx context.Context, id int64) error

	// SaveCredentials stores the student number and encrypted password,
	// registering the user when necessary.
	SaveCredentials(ctx context.Context, id int64, studentNumber, encryptedPassword string) error

	// InvalidateCredentials clears the stored credentials so the user is
	// skipped until they re-enter them.
	InvalidateCredentials(ctx context.Context, id int64) error

	// AcceptTerms marks the terms of use as accepted.
	AcceptTerms(ctx context.Context, id int64) error
}
