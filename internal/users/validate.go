package users

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/storefront-api/internal/apperr"
)

// profile は検証用の入力表現です。タグとメッセージの対応は fieldMessages にあります。
type profile struct {
	Name     string `validate:"required,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

var fieldMessages = map[string]string{
	"Name.required":     "Please add a name",
	"Name.max":          "Name can not be more than 50 characters",
	"Email.required":    "Please add an email",
	"Email.email":       "Please add a valid email",
	"Password.required": "Please add a password",
	"Password.min":      "Password must be at least 6 characters",
}

// NormalizeEmail はメールアドレスの前後空白を除き小文字化します。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateNew は作成時の入力を検証し、違反をまとめて1つのエラーで返します。
func validateNew(in NewUser) error {
	return check(validate.Struct(profile{
		Name:     strings.TrimSpace(in.Name),
		Email:    NormalizeEmail(in.Email),
		Password: in.Password,
	}))
}

// validateUpdate は指定されたフィールドだけを検証します。
func validateUpdate(in UpdateUser) error {
	var p profile
	var fields []string
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
		fields = append(fields, "Name")
	}
	if in.Email != nil {
		p.Email = NormalizeEmail(*in.Email)
		fields = append(fields, "Email")
	}
	if len(fields) == 0 {
		return nil
	}
	return check(validate.StructPartial(p, fields...))
}

func check(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Internal(err)
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := fieldMessages[fe.StructField()+"."+fe.Tag()]
		if !ok {
			msg = "Invalid value for " + strings.ToLower(fe.StructField())
		}
		problems = append(problems, msg)
	}
	return apperr.Validation(strings.Join(problems, ", "))
}
