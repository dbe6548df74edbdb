package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrAccessDenied      = errors.New("access denied")
	ErrValidation        = errors.New("validation failed")
	ErrAlreadyProcessed  = errors.New("already processed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPaymentGateway    = errors.New("payment gateway unavailable")
	ErrMissingPaymentID  = errors.New("order has no gateway payment id")
	ErrUserSuspended     = errors.New("user is suspended")
	ErrAdminLocked       = errors.New("product is locked by admin")
	ErrEscrowNotElapsed  = errors.New("escrow window not elapsed")
)

// BusinessError ошибка бизнес-логики, которая уже залогирована в UseCase
type BusinessError struct {
	Err error
}

func (e *BusinessError) Error() string {
	return e.Err.Error()
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func WrapBusinessError(err error) error {
	if err == nil {
		return nil
	}
	return &BusinessError{Err: err}
}

func IsBusinessError(err error) bool {
	var businessErr *BusinessError
	return errors.As(err, &businessErr)
}

// ValidationError ошибка ввода пользователя, текст уходит в ответ как есть
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
