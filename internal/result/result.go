package result

import "net/http"

type ErrorType int

const (
	BadRequest  ErrorType = http.StatusBadRequest
	NotFound    ErrorType = http.StatusNotFound
	ServerError ErrorType = http.StatusInternalServerError
)

// Error — типизированная ошибка бизнес-слоя. Тип напрямую маппится на HTTP статус.
type Error struct {
	Type    ErrorType
	Message string
}

func NewError(t ErrorType, message string) *Error {
	return &Error{Type: t, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Status() int {
	return int(e.Type)
}

// Void для результатов без значения.
type Void struct{}

// Result — исход операции: либо значение, либо одна ошибка. Исключений нет,
// каждый вызывающий обязан явно проверить IsSuccess.
type Result[T any] struct {
	value T
	err   *Error
}

func Success[T any](value T) Result[T] {
	return Result[T]{value: value}
}

func Failure[T any](err *Error) Result[T] {
	return Result[T]{err: err}
}

// Ok — успех без значения.
func Ok() Result[Void] {
	return Result[Void]{}
}

// Fail — неуспех без значения.
func Fail(err *Error) Result[Void] {
	return Result[Void]{err: err}
}

func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

func (r Result[T]) Value() T {
	return r.value
}

func (r Result[T]) Err() *Error {
	return r.err
}
