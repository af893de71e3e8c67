// Package products は商品の永続化と商品 API を提供します。
package products

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/storefront-api/internal/apperr"
)

// Product は商品を表します。
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	User        string    `json:"user"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Input は作成時の入力です。
type Input struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Patch は更新時の入力です。nil のフィールドは変更しません。
type Patch struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
}

// Store は商品コレクションへのアクセスを抽象化します。
type Store interface {
	Create(ctx context.Context, userID string, in Input) (*Product, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, id string, p Patch) (*Product, error)
	Delete(ctx context.Context, id string) error
}

// draft は検証用の入力表現です。
type draft struct {
	Name  string  `validate:"required,max=100"`
	Price float64 `validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

var fieldMessages = map[string]string{
	"Name.required": "Please add a name",
	"Name.max":      "Name can not be more than 100 characters",
	"Price.gte":     "Price can not be negative",
}

func validateInput(in Input) error {
	return check(validate.Struct(draft{Name: strings.TrimSpace(in.Name), Price: in.Price}))
}

// validatePatch は指定されたフィールドだけを検証します。
func validatePatch(p Patch) error {
	var d draft
	var fields []string
	if p.Name != nil {
		d.Name = strings.TrimSpace(*p.Name)
		fields = append(fields, "Name")
	}
	if p.Price != nil {
		d.Price = *p.Price
		fields = append(fields, "Price")
	}
	if len(fields) == 0 {
		return nil
	}
	return check(validate.StructPartial(d, fields...))
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
