package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/storefront-api/internal/apperr"
	"github.com/yourusername/storefront-api/internal/users"
)

// InvalidCredentialsMessage はユーザー不在とパスワード不一致の両方で返す共通メッセージです。
const InvalidCredentialsMessage = "Invalid credentials"

// LoginRecorder はログイン成功を記録する仕組みが実装します。
type LoginRecorder interface {
	RecordLogin(ctx context.Context, userID string, at time.Time) error
}

// HandlerOptions は認証ハンドラーの任意設定です。
type HandlerOptions struct {
	Revoker Revoker
	Logins  LoginRecorder
	Logger  *slog.Logger
}

// Handler は /api/v1/auth 配下のハンドラーをまとめた構造体です。
type Handler struct {
	store    users.Store
	issuer   *Issuer
	sessions *SessionWriter
	authn    *Authenticator
	revoker  Revoker
	logins   LoginRecorder
	logger   *slog.Logger
}

// NewHandler は Handler を作成します。
func NewHandler(store users.Store, issuer *Issuer, sessions *SessionWriter, opts HandlerOptions) *Handler {
	revoker := opts.Revoker
	if revoker == nil {
		revoker = NoopRevoker{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:    store,
		issuer:   issuer,
		sessions: sessions,
		authn:    NewAuthenticator(issuer, revoker),
		revoker:  revoker,
		logins:   opts.Logins,
		logger:   logger,
	}
}

// Authenticator は保護ルート用の Authenticator を返します。
func (h *Handler) Authenticator() *Authenticator {
	return h.authn
}

// Register はルートグループに認証 API を登録します。
func (h *Handler) Register(group *gin.RouterGroup) {
	group.POST("/register", h.RegisterUser)
	group.POST("/login", h.Login)
	group.GET("/me", h.authn.Protect(), h.GetMe)
	// 認証状態に関わらずクッキーを消せるよう Protect は付けない
	group.GET("/logout", h.Logout)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterUser は POST /api/v1/auth/register のハンドラーです。
// 必須項目やメールアドレス重複の検証はストアが行います。
func (h *Handler) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperr.BadRequest("Invalid request body").Wrap(err))
		return
	}

	user, err := h.store.Create(c.Request.Context(), users.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.sessions.SendToken(c, user, http.StatusOK); err != nil {
		_ = c.Error(apperr.Internal(err))
	}
}

// Login は POST /api/v1/auth/login のハンドラーです。
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperr.BadRequest("Please provide an email and password").Wrap(err))
		return
	}
	// 空白だけのメールアドレスも未入力として扱う
	req.Email = users.NormalizeEmail(req.Email)
	if req.Email == "" {
		_ = c.Error(apperr.BadRequest("Please provide an email and password"))
		return
	}

	creds, err := h.store.FindCredentialsByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			_ = c.Error(apperr.Unauthorized(InvalidCredentialsMessage))
			return
		}
		_ = c.Error(err)
		return
	}
	if !creds.Matches(req.Password) {
		_ = c.Error(apperr.Unauthorized(InvalidCredentialsMessage))
		return
	}

	if err := h.sessions.SendToken(c, &creds.User, http.StatusOK); err != nil {
		_ = c.Error(apperr.Internal(err))
		return
	}
	h.recordLogin(c.Request.Context(), creds.User.ID)
}

// GetMe は GET /api/v1/auth/me のハンドラーです。
func (h *Handler) GetMe(c *gin.Context) {
	id, ok := UserID(c)
	if !ok {
		_ = c.Error(apperr.Unauthorized(NotAuthorizedMessage))
		return
	}

	user, err := h.store.FindByID(c.Request.Context(), id)
	if err != nil {
		// 認証後に削除されたユーザー
		if apperr.IsKind(err, apperr.KindNotFound) {
			_ = c.Error(apperr.NotFound("User not found").Wrap(err))
			return
		}
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

// Logout は GET /api/v1/auth/logout のハンドラーです。
// 失効リストが設定されていれば、提示されたトークンを有効期限まで失効させます。
func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Clear(c)

	if raw := tokenFromRequest(c); raw != "" {
		if claims, err := h.issuer.Verify(raw); err == nil && claims.ExpiresAt != nil {
			// 失効リストの障害でもログアウト自体は成功させる
			if err := h.revoker.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
				h.logger.WarnContext(c.Request.Context(), "failed to revoke token", "user_id", claims.UserID, "error", err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{},
	})
}

func (h *Handler) recordLogin(ctx context.Context, userID string) {
	if h.logins == nil {
		return
	}
	// 記録の失敗はログインの成否に影響させない
	if err := h.logins.RecordLogin(ctx, userID, time.Now().UTC()); err != nil {
		h.logger.WarnContext(ctx, "failed to record login", "user_id", userID, "error", err)
	}
}
