package domain

import "time"

// User is a pseudonymous identity. The email is the lookup key for login but
// is never serialized to clients; the pseudonym is the only identity-bearing
// value that crosses the API boundary.
type User struct {
	UserID    string    `json:"id" dynamodbav:"user_id"`
	Email     string    `json:"-" dynamodbav:"email"`
	Pseudonym string    `json:"pseudonym" dynamodbav:"pseudonym"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}
