package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound возвращается, если запись не найдена в области владельца.
	ErrNotFound = errors.New("record not found")
	// ErrTenantMismatch возвращается, если связанные записи принадлежат разным владельцам.
	ErrTenantMismatch = errors.New("tenant mismatch")
	// ErrInvalidQuantity возвращается при неположительном количестве.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidAmount возвращается при отрицательной или некорректной денежной сумме.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrDuplicate возвращается при нарушении уникальности.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInUse возвращается при удалении записи, на которую есть ссылки.
	ErrInUse = errors.New("record is in use")
	// ErrInvalidStatus возвращается при неизвестном статусе заказа.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidTransition возвращается при недопустимом переходе статуса заказа.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrValidation возвращается при прочих ошибках валидации полей.
	ErrValidation = errors.New("validation failed")
	// ErrInactive возвращается при ссылке на неактивную точку или продукт.
	ErrInactive = errors.New("record is inactive")
)

// FieldError привязывает ошибку к полю формы.
type FieldError struct {
	Field string
	Err   error
}

// NewFieldError создаёт ошибку поля.
func NewFieldError(field string, err error) *FieldError {
	return &FieldError{Field: field, Err: err}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
