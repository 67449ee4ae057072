package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperr"
)

func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// ErrorHandler renders every error as the standard envelope with a code.
// Internal errors are logged and replaced with a generic message.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"success": false,
				"message": fe.Message,
				"code":    codeForStatus(fe.Code),
			})
		}

		code := apperr.CodeOf(err)
		switch code {
		case apperr.CodeInternal:
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		case apperr.CodeUnavailable:
			log.Warn("dependency unavailable", zap.String("path", c.Path()), zap.Error(err))
			c.Set(fiber.HeaderRetryAfter, "1")
		case apperr.CodeCanceled:
			log.Debug("request canceled by client", zap.String("path", c.Path()))
		}

		return c.Status(apperr.HTTPStatus(code)).JSON(fiber.Map{
			"success": false,
			"message": apperr.PublicMessage(err),
			"code":    code,
		})
	}
}

func codeForStatus(status int) apperr.Code {
	switch status {
	case fiber.StatusUnauthorized:
		return apperr.CodeUnauthenticated
	case fiber.StatusForbidden:
		return apperr.CodeForbidden
	case fiber.StatusNotFound:
		return apperr.CodeNotFound
	case fiber.StatusConflict:
		return apperr.CodeConflict
	case fiber.StatusServiceUnavailable:
		return apperr.CodeUnavailable
	}
	if status < fiber.StatusInternalServerError {
		return apperr.CodeInvalidArgument
	}
	return apperr.CodeInternal
}

var errBadBody = apperr.InvalidArgument("invalid body")
