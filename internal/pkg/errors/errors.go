package errors

import (
	"fmt"
)

type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`

	cause error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap возвращает исходную ошибку (ошибка БД, провайдера и т.д.)
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is сравнивает ошибки по коду, чтобы копии из WithDetails/WithCause
// совпадали с исходными переменными пакета
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails возвращает копию ошибки с деталями.
// Переменные пакета (ErrRouteNotFound и т.д.) не изменяются.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithCause возвращает копию ошибки с исходной причиной
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.cause = cause
	return &cp
}

// WithStatus возвращает копию ошибки с другим HTTP статусом
func (e *AppError) WithStatus(statusCode int) *AppError {
	cp := *e
	cp.StatusCode = statusCode
	return &cp
}
