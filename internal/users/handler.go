package users

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/storefront-api/internal/apperr"
)

// Handler は /api/v1/auth/users 配下のユーザー管理 API です。
type Handler struct {
	store Store
}

// NewHandler は Handler を作成します。
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Register はルートグループにハンドラーを登録します。認証ミドルウェアは呼び出し側で付与します。
func (h *Handler) Register(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

// List は GET /api/v1/auth/users のハンドラーです。
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(list),
		"data":    list,
	})
}

// Get は GET /api/v1/auth/users/:id のハンドラーです。
func (h *Handler) Get(c *gin.Context) {
	user, err := h.store.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// Create は POST /api/v1/auth/users のハンドラーです。
func (h *Handler) Create(c *gin.Context) {
	var in NewUser
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperr.BadRequest("Invalid request body").Wrap(err))
		return
	}
	user, err := h.store.Create(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": user})
}

// Update は PUT /api/v1/auth/users/:id のハンドラーです。パスワードは変更できません。
func (h *Handler) Update(c *gin.Context) {
	var in UpdateUser
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperr.BadRequest("Invalid request body").Wrap(err))
		return
	}
	user, err := h.store.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// Delete は DELETE /api/v1/auth/users/:id のハンドラーです。
func (h *Handler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
}
