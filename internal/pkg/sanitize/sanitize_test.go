package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail_LowercasesAndTrims(t *testing.T) {
	assert.Equal(t, "a@x.com", Email("  A@X.COM  "))
}

func TestEmail_StripsUnsafeCharacters(t *testing.T) {
	assert.Equal(t, "ascriptx@y.com", Email("a<script>x@y.com"))
	assert.Equal(t, "ax@y.com", Email("a!#$x@y.com"))
	assert.Equal(t, "a+tag@y.com", Email("a+tag@y.com"))
}

func TestEmail_RejectsNonAddresses(t *testing.T) {
	assert.Empty(t, Email("not-an-email"))
	assert.Empty(t, Email(""))
	assert.Empty(t, Email("   "))
}
