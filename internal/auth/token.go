// Package auth はトークン発行、クッキーによるセッション配布、認証 API を提供します。
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yourusername/storefront-api/internal/apperr"
)

// NotAuthorizedMessage は認証が必要なルートで検証に失敗した場合のメッセージです。
const NotAuthorizedMessage = "Not authorized to access this route"

// Claims はトークンに含めるクレームです。ユーザーIDのみを独自クレームとして持ちます。
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Issuer はサーバー側の秘密鍵で HS256 トークンを署名・検証します。
type Issuer struct {
	secret []byte
	expire time.Duration
	now    func() time.Time
}

// NewIssuer は Issuer を作成します。
func NewIssuer(secret []byte, expire time.Duration) *Issuer {
	return &Issuer{
		secret: secret,
		expire: expire,
		now:    time.Now,
	}
}

// Sign はユーザーIDを含む期限付きトークンを発行します。
func (i *Issuer) Sign(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("userID is required")
	}
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expire)),
		},
	})
	return token.SignedString(i.secret)
}

// Verify は署名と有効期限のみでトークンの正当性を判定します。
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil {
		return nil, apperr.Unauthorized(NotAuthorizedMessage).Wrap(err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, apperr.Unauthorized(NotAuthorizedMessage)
	}
	return claims, nil
}
