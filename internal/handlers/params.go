package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/middleware"
)

func parseUUID(field, raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, apperr.InvalidArgument(field + " is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.InvalidArgument(field + " must be a valid uuid")
	}
	return id, nil
}

func parseUint(field, raw string) (uint, error) {
	if raw == "" {
		return 0, apperr.InvalidArgument(field + " is required")
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, apperr.InvalidArgument(field + " must be a positive integer")
	}
	return uint(n), nil
}

// callerOr returns id when set, otherwise the authenticated caller.
func callerOr(c *fiber.Ctx, id uuid.UUID) uuid.UUID {
	if id != uuid.Nil {
		return id
	}
	uid, _ := middleware.UserID(c)
	return uid
}
