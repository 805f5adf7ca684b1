package user

import "errors"

var (
	// ErrNotFound indicates no user with the given ID is registered.
	ErrNotFound = errors.New("user: not found")

	// ErrNoCredentials indicates the user holds no portal credentials.
	ErrNoCredentials = errors.New("user: no credentials stored")

	// ErrTermsNotAccepted indicates the user has not accepted the terms of
	// use, which gates the interactive views.
	ErrTermsNotAccepted = errors.New("user: terms not accepted")
)
