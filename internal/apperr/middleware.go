package apperr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope はエラーレスポンスの JSON 形状です。
type Envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Middleware はハンドラーが c.Error で送出したエラーを統一形式のレスポンスに変換します。
// ハンドラー側でレスポンスを書き込み済みの場合は何もしません。
func Middleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		Respond(c, logger, c.Errors.Last().Err)
	}
}

// Recovery は panic を 500 の統一形式レスポンスに変換するミドルウェアです。
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		Respond(c, logger, Internal(fmt.Errorf("panic: %v", recovered)))
	})
}

// Respond は err の種別に応じたステータスとメッセージを書き込みます。
func Respond(c *gin.Context, logger *slog.Logger, err error) {
	status, message := translate(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"error", err,
		)
	}
	c.AbortWithStatusJSON(status, Envelope{Success: false, Error: message})
}

func translate(err error) (int, string) {
	if appErr, ok := As(err); ok {
		status := appErr.Status()
		if status >= http.StatusInternalServerError {
			return status, InternalMessage
		}
		return status, appErr.Message
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusRequestTimeout, "Request canceled"
	}
	return http.StatusInternalServerError, InternalMessage
}
