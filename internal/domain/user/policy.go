package user

import "strings"

// Username policy: 3-20 characters from a restricted charset. The earlier
// tracker had a length-only variant; the restricted one is the policy here.
const (
	usernameMin = 3
	usernameMax = 20

	passwordMin = 6
)

func ValidateUsername(name string) bool {
	if len(name) < usernameMin || len(name) > usernameMax {
		return false
	}

	for i := 0; i < len(name); i++ {
		c := name[i]

		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '.' || c == '-':
		default:
			return false
		}
	}

	return true
}

func ValidatePassword(pw string) bool {
	return len(pw) >= passwordMin
}

// CredentialsProblem returns a human-readable rejection reason, or "" when
// the pair passes policy. The strings go to callers verbatim.
func CredentialsProblem(username, password string) string {
	username = strings.TrimSpace(username)

	if !ValidateUsername(username) {
		if len(username) < usernameMin || len(username) > usernameMax {
			return "Username must be 3-20 characters"
		}
		return "Username may only contain letters, digits, '_', '.' and '-'"
	}

	if !ValidatePassword(password) {
		return "Password must be at least 6 characters"
	}

	return ""
}
