package session

import (
	"errors"
	"fmt"
)

// ValidationError — локальное нарушение предусловий операции: некорректное
// количество либо попытка изменить завершённый заказ. До хранилища такая
// операция не доходит, состояние сессии не меняется.
type ValidationError struct {
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// RemoteError — хранилище отклонило вызов или вызов не удалось выполнить.
// Сообщение сервера, если оно есть, сохраняется внутри обёрнутой ошибки.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// PartialCommitError — заказ при коммите был создан, но часть позиций
// записать не удалось. Заказ существует с префиксом позиций; откат не
// выполняется, вызывающая сторона направляет пользователя дозаполнить заказ.
type PartialCommitError struct {
	// OrderID созданного заказа.
	OrderID string
	// OrderNumber созданного заказа для сообщений пользователю.
	OrderNumber string
	// FailedProduct — название товара, на котором остановился коммит.
	FailedProduct string
	Err           error
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("order %s created, but adding %q failed: %v", e.OrderNumber, e.FailedProduct, e.Err)
}

func (e *PartialCommitError) Unwrap() error {
	return e.Err
}

// IsValidation сообщает, является ли ошибка локальным нарушением предусловий.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsRemote сообщает, вызвана ли ошибка отказом хранилища.
func IsRemote(err error) bool {
	var r *RemoteError
	return errors.As(err, &r)
}

func validationErr(reason error) error {
	return &ValidationError{Reason: reason}
}

func remoteErr(op string, err error) error {
	return &RemoteError{Op: op, Err: err}
}
