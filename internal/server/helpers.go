package server

import (
	"errors"
	"strings"

	"reso/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil, not this error, so the
// ErrorHandler does not overwrite the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	defaultPageLimit   = 20
	maxPaginationLimit = 100
)

func parsePagination(c *fiber.Ctx) Pagination {
	limit := c.QueryInt("limit", defaultPageLimit)
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return Pagination{Limit: limit, Offset: offset}
}

// parseID extracts a route parameter as a positive uint. On failure it writes
// a 400 response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = respondError(c, models.NewValidationError("Invalid "+idLabel(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// idLabel turns "storyId" into "story ID" and "id" into "ID".
func idLabel(param string) string {
	if prefix, ok := strings.CutSuffix(param, "Id"); ok && prefix != "" {
		return strings.ToLower(prefix) + " ID"
	}
	return "ID"
}

// parseBody decodes the JSON body into dest, answering 400 on malformed input.
func parseBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		_ = respondError(c, models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// queryFlag reads a boolean query flag written as "true" or "1".
func queryFlag(c *fiber.Ctx, key string) bool {
	switch strings.ToLower(c.Query(key)) {
	case "true", "1":
		return true
	}
	return false
}

// currentUserID is the user set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	return c.Locals("userID").(uint)
}
