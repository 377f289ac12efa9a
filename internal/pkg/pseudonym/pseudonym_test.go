package pseudonym

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_MatchesPattern(t *testing.T) {
	p, err := New(DefaultPrefix)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^mood_[0-9a-f]{8}$`), p)
}

func TestNew_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		p, err := New(DefaultPrefix)
		require.NoError(t, err)
		seen[p] = true
	}
	assert.Greater(t, len(seen), 1)
}
