package domain

import "regexp"

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{0,64}$`)

// ValidSessionID reports whether id can name a session. Session IDs become storage
// keys, so only letters, digits, '-' and '_' are accepted. The empty ID is the
// unnamed default session.
func ValidSessionID(id string) bool {
	return sessionIDPattern.MatchString(id)
}
