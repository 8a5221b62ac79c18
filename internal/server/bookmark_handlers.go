package server

import (
	"github.com/gofiber/fiber/v2"
)

// ListAdvice handles GET /api/advice
func (s *Server) ListAdvice(c *fiber.Ctx) error {
	viewerID, _ := s.optionalUserID(c)
	items, err := s.bookmarkService.ListAdvice(c.UserContext(), viewerID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Advice", items)
}

// RandomAdvice handles GET /api/advice/random
func (s *Server) RandomAdvice(c *fiber.Ctx) error {
	viewerID, _ := s.optionalUserID(c)
	item, err := s.bookmarkService.RandomAdvice(c.UserContext(), viewerID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Random advice", item)
}

// AddBookmark handles POST /api/bookmarks
func (s *Server) AddBookmark(c *fiber.Ctx) error {
	var req struct {
		AdviceID uint `json:"adviceId"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	bookmark, err := s.bookmarkService.AddBookmark(c.UserContext(), currentUserID(c), req.AdviceID)
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, "Bookmarked", bookmark)
}

// ListBookmarks handles GET /api/bookmarks
func (s *Server) ListBookmarks(c *fiber.Ctx) error {
	bookmarks, err := s.bookmarkService.ListBookmarks(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Bookmarks", bookmarks)
}

// RemoveBookmark handles DELETE /api/bookmarks/:adviceId
func (s *Server) RemoveBookmark(c *fiber.Ctx) error {
	adviceID, err := s.parseID(c, "adviceId")
	if err != nil {
		return nil
	}

	if err := s.bookmarkService.RemoveBookmark(c.UserContext(), currentUserID(c), adviceID); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Bookmark removed", fiber.Map{"adviceId": adviceID})
}
