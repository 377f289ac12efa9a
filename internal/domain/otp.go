package domain

// OTPCode is a one-time login code. PK: email. The partition key itself
// guarantees at most one record per address, which is what makes conditional
// writes a sufficient guard against concurrent issuance.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type OTPCode struct {
	Email     string `json:"email" dynamodbav:"email"`
	Code      string `json:"-" dynamodbav:"code"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
