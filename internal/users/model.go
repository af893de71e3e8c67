// Package users はユーザーの永続化とパスワード照合、ユーザー管理 API を提供します。
package users

import (
	"context"
	"time"
)

// User はレスポンスに載せてよい公開用のユーザー表現です。パスワードは含みません。
type User struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// Credentials は認証用の表現です。保存済みハッシュを含むためシリアライズしないこと。
type Credentials struct {
	User         User
	PasswordHash string
}

// Matches は平文パスワードが保存済みハッシュと一致するかを返します。
func (c *Credentials) Matches(password string) bool {
	if c == nil {
		return false
	}
	return ComparePassword(c.PasswordHash, password)
}

// NewUser はユーザー作成時の入力です。
type NewUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUser はユーザー更新時の入力です。nil のフィールドは変更しません。
type UpdateUser struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// Store はユーザーコレクションへのアクセスを抽象化します。
// 見つからない場合は apperr の NotFound、制約違反は Validation を返します。
type Store interface {
	// Create は入力を検証し、パスワードをハッシュ化してから保存します。
	Create(ctx context.Context, in NewUser) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	// FindCredentialsByEmail は通常は隠されるパスワードハッシュを含めて取得します。
	FindCredentialsByEmail(ctx context.Context, email string) (*Credentials, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id string, in UpdateUser) (*User, error)
	Delete(ctx context.Context, id string) error
	RecordLogin(ctx context.Context, id string, at time.Time) error
}
