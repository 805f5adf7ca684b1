// Package user holds the registered-student entity and its repository
// contract. Users are identified by the numeric ID of their messaging-channel
// account; credentials are stored encrypted and may be absent.
package user

import "time"

// User is a registered student.
type User struct {
	ID                int64
	StudentNumber     *string
	EncryptedPassword *string
	HasAcceptedTerms  bool
	CreatedAt         time.Time
}

// HasCredentials reports whether the user currently holds portal
// credentials and is therefore eligible for monitoring cycles.
func (u *User) HasCredentials() bool {
	return u.StudentNumber != nil && u.EncryptedPassword != nil
}
