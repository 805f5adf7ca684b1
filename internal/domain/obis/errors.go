package obis

import "errors"

var (
	// ErrAuthenticationFailed indicates the portal rejected the student's
	// credentials. Non-retryable within a cycle; triggers credential
	// invalidation for the user.
	ErrAuthenticationFailed = errors.New("obis: authentication failed")

	// ErrLoginPageMalformed indicates the login page did not carry the
	// expected CSRF token input.
	ErrLoginPageMalformed = errors.New("obis: login page missing csrf token")

	// ErrPortalUnavailable indicates the portal could not be reached or
	// answered with a server error.
	ErrPortalUnavailable = errors.New("obis: portal request failed")
)
