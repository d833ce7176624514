package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/boutique-inventory/internal/application/dto"
	"github.com/jhoicas/boutique-inventory/internal/domain"
)

// Códigos de error expuestos en ErrorResponse.Code.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidQuantity   = "INVALID_QUANTITY"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeValidation        = "VALIDATION"
	CodeInvalidBody       = "INVALID_BODY"
	CodePersistence       = "PERSISTENCE"
	CodeInternal          = "INTERNAL"
)

// writeError traduce un error de dominio a status HTTP + ErrorResponse.
// Los 5xx se registran y no exponen el detalle interno.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	status, code := classify(err)
	msg := err.Error()
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error interno")
		msg = "error interno del servidor"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg, Code: code})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrInvalidQuantity):
		return fiber.StatusBadRequest, CodeInvalidQuantity
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusBadRequest, CodeInsufficientStock
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, CodeValidation
	case errors.Is(err, domain.ErrPersistence):
		return fiber.StatusInternalServerError, CodePersistence
	default:
		return fiber.StatusInternalServerError, CodeInternal
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido", Code: CodeInvalidBody})
}

// ErrorHandler handler global de fiber: errores no capturados por los handlers
// (rutas inexistentes, body demasiado grande, pánicos recuperados).
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := CodeInternal
			switch fe.Code {
			case fiber.StatusNotFound:
				code = CodeNotFound
			case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusUnsupportedMediaType:
				code = CodeInvalidBody
			}
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Error: fe.Message, Code: code})
		}
		return writeError(c, log, err)
	}
}
