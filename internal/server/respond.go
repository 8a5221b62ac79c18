package server

import (
	"errors"
	"log/slog"

	"reso/internal/middleware"
	"reso/internal/models"

	"github.com/gofiber/fiber/v2"
)

// envelope is the body of every API response.
type envelope struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    any        `json:"data"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Code       string `json:"code"`
}

func respondOK(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(envelope{Success: true, Message: message, Data: data})
}

func respondCreated(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(envelope{Success: true, Message: message, Data: data})
}

func respondStatus(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(envelope{
		Message: message,
		Error:   &errorBody{StatusCode: status, Code: code},
	})
}

// statusFor maps an AppError code to its HTTP status.
func statusFor(code string) int {
	switch code {
	case models.CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case models.CodeForbidden:
		return fiber.StatusForbidden
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeConflict:
		return fiber.StatusConflict
	case models.CodeServiceUnavailable:
		return fiber.StatusServiceUnavailable
	case models.CodeValidation:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError translates err into the error envelope. Errors that are not
// an AppError become INTERNAL_ERROR and never leak their text.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		appErr = models.NewInternalError(err)
	}
	status := statusFor(appErr.Code)

	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			slog.String("code", appErr.Code),
			slog.String("error", err.Error()),
		)
	}
	return respondStatus(c, status, appErr.Code, appErr.Message)
}

// errorHandler is the Fiber ErrorHandler: unmatched routes, body limits and
// anything a handler returns instead of writing.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := models.CodeInternal
		switch {
		case fe.Code == fiber.StatusNotFound:
			code = models.CodeNotFound
		case fe.Code == fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fe.Code < fiber.StatusInternalServerError:
			code = models.CodeValidation
		}
		return respondStatus(c, fe.Code, code, fe.Message)
	}
	return respondError(c, err)
}
