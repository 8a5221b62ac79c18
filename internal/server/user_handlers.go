package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetMe handles GET /api/users/me and GET /api/auth/me
func (s *Server) GetMe(c *fiber.Ctx) error {
	user, err := s.userService.GetMe(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Current user", user)
}

// UpdateMe handles PATCH /api/users/me
func (s *Server) UpdateMe(c *fiber.Ctx) error {
	var req struct {
		Nickname string `json:"nickname"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.UpdateNickname(c.UserContext(), currentUserID(c), req.Nickname)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Nickname updated", user)
}
