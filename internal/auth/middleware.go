package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/storefront-api/internal/apperr"
)

// ContextUserKey は、ハンドラー間でログイン済みユーザーIDを共有するためのキーです。
const ContextUserKey = "auth.user"

const contextClaimsKey = "auth.claims"

// Authenticator はリクエストに含まれるトークンを検証します。
type Authenticator struct {
	issuer  *Issuer
	revoker Revoker
}

// NewAuthenticator は Authenticator を作成します。revoker が nil の場合は失効確認を行いません。
func NewAuthenticator(issuer *Issuer, revoker Revoker) *Authenticator {
	if revoker == nil {
		revoker = NoopRevoker{}
	}
	return &Authenticator{issuer: issuer, revoker: revoker}
}

// Protect はトークン必須のルート用ミドルウェアを返します。
// Authorization: Bearer ヘッダーを優先し、なければ token クッキーを使います。
func (a *Authenticator) Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := a.authenticate(c)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(ContextUserKey, claims.UserID)
		c.Set(contextClaimsKey, claims)
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context) (*Claims, error) {
	raw := tokenFromRequest(c)
	if raw == "" {
		return nil, apperr.Unauthorized(NotAuthorizedMessage)
	}
	claims, err := a.issuer.Verify(raw)
	if err != nil {
		return nil, err
	}
	revoked, err := a.revoker.IsRevoked(c.Request.Context(), claims.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if revoked {
		return nil, apperr.Unauthorized(NotAuthorizedMessage)
	}
	return claims, nil
}

// UserID はミドルウェアが設定したユーザーIDを返します。
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextUserKey)
	return id, id != ""
}

func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != loggedOutValue {
		return cookie
	}
	return ""
}
