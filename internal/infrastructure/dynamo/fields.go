package dynamo

// DynamoDB attribute names used in expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEmail     = "email"
	fieldCode      = "code"
	fieldToken     = "token"
	fieldExpiresAt = "expires_at"
	fieldRevoked   = "revoked"
	fieldUserID    = "user_id"
	fieldPseudonym = "pseudonym"
)
