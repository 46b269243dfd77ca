package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/nexus/pkg/graph"
	"github.com/papercomputeco/nexus/pkg/insight"
	"github.com/papercomputeco/nexus/pkg/navigator"
	"github.com/papercomputeco/nexus/pkg/store"
)

// ErrorResponse is the body of every failed request. Matches lists the
// candidates of an ambiguous id or type.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Matches []string `json:"matches,omitempty"`
}

// badRequest writes a 400 with the given message.
func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg})
}

// writeError maps query errors onto HTTP statuses.
func (s *Server) writeError(c *fiber.Ctx, err error) error {
	var (
		ambiguousID   *graph.AmbiguousIDError
		ambiguousType *navigator.AmbiguousTypeError
		invalidChoice *navigator.InvalidChoiceError
	)

	switch {
	case errors.Is(err, store.ErrNotLoaded):
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: err.Error()})

	case errors.As(err, &ambiguousID):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   err.Error(),
			Matches: ambiguousID.Matches,
		})

	case errors.As(err, &ambiguousType):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   err.Error(),
			Matches: ambiguousType.Matches,
		})

	case errors.Is(err, graph.ErrNotFound),
		errors.Is(err, graph.ErrUnknownType),
		errors.Is(err, insight.ErrNotInsight),
		errors.Is(err, navigator.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: err.Error()})

	case errors.Is(err, graph.ErrLoad):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Error: err.Error()})

	case errors.Is(err, navigator.ErrInvalidPage),
		errors.Is(err, navigator.ErrNotFocused),
		errors.As(err, &invalidChoice):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})

	default:
		s.logger.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal error"})
	}
}
