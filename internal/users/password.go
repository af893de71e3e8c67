package users

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/storefront-api/internal/apperr"
)

// bcrypt が扱える最大長
const maxPasswordBytes = 72

// HashPassword は平文パスワードを bcrypt でハッシュ化します。
func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", apperr.Validation("Password must be at most 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperr.Validation("Password must be at most 72 bytes").Wrap(err)
		}
		return "", err
	}
	return string(hash), nil
}

// ComparePassword はハッシュと平文が一致するかを返します。
func ComparePassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
