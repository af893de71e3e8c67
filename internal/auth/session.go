package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/storefront-api/internal/config"
	"github.com/yourusername/storefront-api/internal/users"
)

const (
	// CookieName はセッショントークンを載せるクッキー名です。
	CookieName = "token"

	// ログアウト時にクッキーへ書き込む値と有効期間
	loggedOutValue    = "none"
	loggedOutLifetime = 10 * time.Second
)

// TokenResponse はトークン発行時のレスポンスです。パスワードは決して含めません。
type TokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// SessionWriter はトークンを発行し、クッキーと JSON の両方でクライアントへ渡します。
type SessionWriter struct {
	issuer   *Issuer
	lifetime time.Duration
	secure   bool
	now      func() time.Time
}

// NewSessionWriter は設定に従った SessionWriter を作成します。
// 本番環境では Secure 属性を付与します。
func NewSessionWriter(issuer *Issuer, cfg *config.Config) *SessionWriter {
	return &SessionWriter{
		issuer:   issuer,
		lifetime: cfg.CookieLifetime(),
		secure:   cfg.IsProduction(),
		now:      time.Now,
	}
}

// SendToken はトークンを発行し、クッキーを設定したうえで {success, token} を返します。
func (w *SessionWriter) SendToken(c *gin.Context, user *users.User, status int) error {
	token, err := w.issuer.Sign(user.ID)
	if err != nil {
		return err
	}

	http.SetCookie(c.Writer, w.cookie(token, w.now().Add(w.lifetime)))
	c.JSON(status, TokenResponse{Success: true, Token: token})
	return nil
}

// Clear はクッキーを "none" で上書きし、10秒後に失効させます。
func (w *SessionWriter) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, w.cookie(loggedOutValue, w.now().Add(loggedOutLifetime)))
}

func (w *SessionWriter) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   w.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
