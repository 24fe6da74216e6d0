package usecase

import (
	"errors"
	"fmt"
)

// 失敗の種類。業務ルール起因かインフラ起因かを呼び出し側が
// 区別できるように、HTTPステータスではなくタグで持つ
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindPermissionDenied
	KindConflict
	KindInsufficientStock
	KindEmptyCart
	KindUnauthorized
	KindUnexpected
)

type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%d: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, message string) error {
	return &AppError{Kind: kind, Message: message}
}

func NewValidationError(message string) error   { return newError(KindValidation, message) }
func NewNotFoundError(message string) error     { return newError(KindNotFound, message) }
func NewPermissionDenied(message string) error  { return newError(KindPermissionDenied, message) }
func NewConflictError(message string) error     { return newError(KindConflict, message) }
func NewInsufficientStock(message string) error { return newError(KindInsufficientStock, message) }
func NewEmptyCartError(message string) error    { return newError(KindEmptyCart, message) }
func NewUnauthorizedError(message string) error { return newError(KindUnauthorized, message) }
func NewUnexpectedError(message string) error   { return newError(KindUnexpected, message) }

func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}
