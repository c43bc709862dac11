package security

import "golang.org/x/crypto/bcrypt"

// HashPassword errors only on internal bcrypt failure, never on the
// password's content.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), 10)
	return string(b), err
}

// CheckPassword returns false on mismatch, it does not error.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
