package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorBody is the failure payload of every endpoint. Detail carries the raw
// reason text.
type ErrorBody struct {
	Code   int    `json:"code"`
	Detail string `json:"detail"`
}

func ErrorResponse(code int, detail string) ErrorBody {
	return ErrorBody{Code: code, Detail: detail}
}

// ErrorHandler renders errors that escape a handler. *fiber.Error keeps its
// status, validation failures become 422, anything else is a 500.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
	case errors.Is(err, ErrValidation):
		code = fiber.StatusUnprocessableEntity
	}

	return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
}
