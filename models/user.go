package models

import "github.com/google/uuid"

// User is the identity the auth provider reports for the current session.
// It is read-only to the web layer and discarded on logout.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}
