// Package apperrors содержит типизированные ошибки приложения,
// которые пересекают границу API в виде единого конверта.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError несёт HTTP-статус и сообщение, безопасное для клиента.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidation — некорректный ввод, 400.
func NewValidation(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message}
}

// NewNotFound — отсутствующая сущность, 404.
func NewNotFound(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message}
}

// NewConflict — конфликт данных (дубликат имени категории), 409.
func NewConflict(message string) *AppError {
	return &AppError{Status: http.StatusConflict, Message: message}
}

// NewInternal — неожиданная ошибка, 500. Оригинальная причина
// сохраняется для логов, наружу уходит общее сообщение.
func NewInternal(err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: "internal server error", Err: err}
}

// Handle приводит произвольную ошибку к паре статус/сообщение для конверта.
func Handle(err error) (int, string) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status, appErr.Message
	}
	return http.StatusInternalServerError, "internal server error"
}

// IsNotFound сообщает, является ли ошибка 404-й.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Status == http.StatusNotFound
}
