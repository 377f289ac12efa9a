package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a ULID string for use as an opaque identity id.
// ULIDs sort lexicographically by creation time and make safe DynamoDB keys,
// and unlike the email they carry nothing a client could correlate.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
