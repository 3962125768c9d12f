package serverutils

import "github.com/gofiber/fiber/v2"

// AppError carries a stable machine code next to the HTTP status so clients
// can branch on Code instead of parsing messages.
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewBadRequest(code, message string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Code: code, Message: message}
}

func NewNotFound(code, message string) *AppError {
	return &AppError{Status: fiber.StatusNotFound, Code: code, Message: message}
}

func NewConflict(code, message string) *AppError {
	return &AppError{Status: fiber.StatusConflict, Code: code, Message: message}
}

func NewUnprocessable(code, message string) *AppError {
	return &AppError{Status: fiber.StatusUnprocessableEntity, Code: code, Message: message}
}

func NewInternal(code, message string) *AppError {
	return &AppError{Status: fiber.StatusInternalServerError, Code: code, Message: message}
}
