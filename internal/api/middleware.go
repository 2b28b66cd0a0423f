package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tracknest/ingest/internal/logger"
	"github.com/tracknest/ingest/internal/models"
	"github.com/tracknest/ingest/internal/store"
)

const userLocalKey = "user"

// requestLogger logs one line per request and puts a request-scoped logger
// into the request's user context.
func requestLogger(base zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqLog := base.With().
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Logger()
		c.SetUserContext(logger.WithContext(c.UserContext(), reqLog))

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		ev := reqLog.Info()
		if status >= fiber.StatusInternalServerError {
			ev = reqLog.Error().Err(err)
		}
		ev.Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("Request handled")
		return err
	}
}

// errorHandler renders every error as {"error": "..."}. Errors that are not
// *fiber.Error are reported as a generic 500.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

// RequireUser resolves the bearer token to a user. Requests without a valid
// token are rejected; there is no fallback user.
func (h *Handler) RequireUser(c *fiber.Ctx) error {
	auth := c.Get(fiber.HeaderAuthorization)
	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
	}

	user, err := h.Store.UserByToken(c.UserContext(), strings.TrimSpace(token))
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}
	if err != nil {
		return err
	}

	c.Locals(userLocalKey, user)
	return c.Next()
}

func currentUser(c *fiber.Ctx) models.User {
	u, _ := c.Locals(userLocalKey).(models.User)
	return u
}

// storeError maps store sentinels to HTTP errors.
func storeError(err error) error {
	switch {
	case errors.Is(err, store.ErrInvalid):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Transaction is not valid.")
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Not found.")
	}
	return err
}
