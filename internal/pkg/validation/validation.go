// Package validation проверка пользовательского ввода мастеров бота
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// solana base58 адрес, 32-44 символа без 0, O, I, l
var solanaAddressRe = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

const (
	PasswordMinLen = 8
	BioMaxLen      = 500
	SubjectMaxLen  = 120
	MessageMaxLen  = 2000
)

// Validator обёртка над validator/v10 с правилом solana
type Validator struct {
	v *validator.Validate
}

// New паникует, если правило не регистрируется
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := register(v, "solana", func(fl validator.FieldLevel) bool {
		return solanaAddressRe.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return &Validator{v: v}
}

func register(v *validator.Validate, tag string, fn validator.Func) error {
	if err := v.RegisterValidation(tag, fn); err != nil {
		return fmt.Errorf("register %q validation: %w", tag, err)
	}
	return nil
}

// SellerProfile данные онбординга продавца
type SellerProfile struct {
	Email         string `validate:"required,email,max=254"`
	SolanaAddress string `validate:"required,solana"`
}

// Struct проверка структуры по тегам, первая ошибка в виде ValidationError
func (x *Validator) Struct(s interface{}) error {
	err := x.v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return domain.NewValidationError(strings.ToLower(fe.Field()), fe.Tag())
	}
	return err
}

func (x *Validator) Email(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := x.v.Var(email, "required,email,max=254"); err != nil {
		return "", domain.NewValidationError("email", "invalid email")
	}
	return email, nil
}

func (x *Validator) SolanaAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if err := x.v.Var(address, "required,solana"); err != nil {
		return "", domain.NewValidationError("solana_address", "invalid solana address")
	}
	return address, nil
}

// Title длина считается в символах, не в байтах
func (x *Validator) Title(title string) (string, error) {
	title = strings.TrimSpace(title)
	n := utf8.RuneCountInString(title)
	if n < domain.ProductTitleMinLen || n > domain.ProductTitleMaxLen {
		return "", domain.NewValidationError("title", "length out of range")
	}
	return title, nil
}

func (x *Validator) Description(description string) (string, error) {
	description = strings.TrimSpace(description)
	n := utf8.RuneCountInString(description)
	if n == 0 || n > domain.ProductDescriptionMaxLen {
		return "", domain.NewValidationError("description", "length out of range")
	}
	return description, nil
}

// Price "49.99" или "49,99", от MinProductPrice до MaxProductPrice, не больше двух знаков после точки
func (x *Validator) Price(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	raw = strings.Replace(raw, ",", ".", 1)
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domain.NewValidationError("price", "not a number")
	}
	if price.LessThan(domain.MinProductPrice) || price.GreaterThan(domain.MaxProductPrice) {
		return decimal.Zero, domain.NewValidationError("price", "out of range")
	}
	if !price.Equal(price.Round(2)) {
		return decimal.Zero, domain.NewValidationError("price", "too many decimals")
	}
	return price, nil
}

func (x *Validator) Password(password string) error {
	if err := x.v.Var(password, "required,min=8,max=72"); err != nil {
		return domain.NewValidationError("password", "must be 8 to 72 characters")
	}
	return nil
}

// Text свободный текст (био, тема, сообщение) с ограничением длины
func (x *Validator) Text(field, text string, max int) (string, error) {
	text = strings.TrimSpace(text)
	n := utf8.RuneCountInString(text)
	if n == 0 || n > max {
		return "", domain.NewValidationError(field, "length out of range")
	}
	return text, nil
}

// RecoveryCode шесть цифр
func (x *Validator) RecoveryCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if err := x.v.Var(code, "required,len=6,numeric"); err != nil {
		return "", domain.NewValidationError("code", "must be 6 digits")
	}
	return code, nil
}
