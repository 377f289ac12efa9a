package domain

import "time"

// RefreshToken is a durable record of an issued refresh credential.
// PK: token (the exact signed bearer string). Records are never deleted in
// normal operation, only retained for audit. Revoked moves monotonically
// false→true and never back; a record past ExpiresAt or with Revoked set is
// permanently inert.
type RefreshToken struct {
	Token     string    `json:"-" dynamodbav:"token"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	ExpiresAt int64     `json:"expires_at" dynamodbav:"expires_at"` // Unix seconds
	Revoked   bool      `json:"revoked" dynamodbav:"revoked"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}

// Usable reports whether the record can still be exchanged for access tokens.
func (r *RefreshToken) Usable(now time.Time) bool {
	return !r.Revoked && r.ExpiresAt > now.Unix()
}
