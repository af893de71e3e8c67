// Package apperr はハンドラーが送出するエラーの種別と HTTP ステータスへの変換を提供します。
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind はエラーの種別を表します。
type Kind string

const (
	KindBadRequest   Kind = "BAD_REQUEST"
	KindValidation   Kind = "VALIDATION_ERROR"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindNotFound     Kind = "NOT_FOUND"
	KindInternal     Kind = "INTERNAL_ERROR"
)

// statusByKind は種別ごとの HTTP ステータス対応表です。
var statusByKind = map[Kind]int{
	KindBadRequest:   http.StatusBadRequest,
	KindValidation:   http.StatusBadRequest,
	KindUnauthorized: http.StatusUnauthorized,
	KindNotFound:     http.StatusNotFound,
	KindInternal:     http.StatusInternalServerError,
}

// InternalMessage は内部エラー時にクライアントへ返す固定メッセージです。
const InternalMessage = "Server Error"

// Error はクライアントに返すメッセージと種別を持つエラーです。
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status は種別に対応する HTTP ステータスを返します。
func (e *Error) Status() int {
	return StatusOf(e.Kind)
}

// StatusOf は種別に対応する HTTP ステータスを返します。未知の種別は 500 です。
func StatusOf(kind Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Internal は原因エラーを包んだ内部エラーを返します。原因はクライアントに公開されません。
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: InternalMessage, Err: err}
}

// Wrap は既存の Error に原因エラーを付与したコピーを返します。
func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

// As は err から *Error を取り出します。
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind は err が指定した種別の Error かどうかを返します。
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}
