package products

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/storefront-api/internal/apperr"
)

// Handler は /api/v1/products 配下の商品 API です。
type Handler struct {
	store Store
}

// NewHandler は Handler を作成します。
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Register はルートを登録します。参照系は公開、更新系は protect を通します。
// userID は protect が設定したログイン中ユーザーIDを取り出す関数です。
func (h *Handler) Register(group *gin.RouterGroup, protect gin.HandlerFunc, userID func(*gin.Context) (string, bool)) {
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.POST("", protect, h.create(userID))
	group.PUT("/:id", protect, h.Update)
	group.DELETE("/:id", protect, h.Delete)
}

// List は GET /api/v1/products のハンドラーです。
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

// Get は GET /api/v1/products/:id のハンドラーです。
func (h *Handler) Get(c *gin.Context) {
	p, err := h.store.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

// create は POST /api/v1/products のハンドラーを返します。作成者はログイン中のユーザーです。
func (h *Handler) create(userID func(*gin.Context) (string, bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := userID(c)
		if !ok {
			_ = c.Error(apperr.Unauthorized("Not authorized to access this route"))
			return
		}
		var in Input
		if err := c.ShouldBindJSON(&in); err != nil {
			_ = c.Error(apperr.BadRequest("Invalid request body").Wrap(err))
			return
		}
		p, err := h.store.Create(c.Request.Context(), owner, in)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": p})
	}
}

// Update は PUT /api/v1/products/:id のハンドラーです。
func (h *Handler) Update(c *gin.Context) {
	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		_ = c.Error(apperr.BadRequest("Invalid request body").Wrap(err))
		return
	}
	p, err := h.store.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

// Delete は DELETE /api/v1/products/:id のハンドラーです。
func (h *Handler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
}
