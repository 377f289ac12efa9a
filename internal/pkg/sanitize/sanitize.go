package sanitize

import "strings"

// Email normalizes an email address for use as a storage key: lowercase,
// trimmed, with everything outside the safe allow-set ([a-z0-9_.@+-])
// stripped. Returns the empty string for input that cannot be an address.
func Email(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	var b strings.Builder
	b.Grow(len(email))
	for _, r := range email {
		switch {
		case r >= 'a' && r <= 'z',
			r >= '0' && r <= '9',
			r == '_', r == '.', r == '@', r == '+', r == '-':
			b.WriteRune(r)
		}
	}
	out := b.String()
	if !strings.Contains(out, "@") {
		return ""
	}
	return out
}
