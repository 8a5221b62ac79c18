package server

import (
	"reso/internal/models"
	"reso/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		StoryID uint   `json:"storyId"`
		Content string `json:"content"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.StoryID == 0 {
		return respondError(c, models.NewValidationError("storyId is required"))
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:  currentUserID(c),
		StoryID: req.StoryID,
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, "Comment created", comment)
}

// ListComments handles GET /api/comments?storyId=
func (s *Server) ListComments(c *fiber.Ctx) error {
	storyID := c.QueryInt("storyId", 0)
	if storyID <= 0 {
		return respondError(c, models.NewValidationError("storyId is required"))
	}

	comments, err := s.commentService.ListComments(c.UserContext(), uint(storyID), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Comments", comments)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.DeleteComment(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Comment deleted", comment)
}

// ToggleCommentLike handles POST /api/comments/:id/like
func (s *Server) ToggleCommentLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	res, err := s.commentService.ToggleLike(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Like toggled", res)
}

// AdoptComment handles PATCH /api/comments/:id/adopt
func (s *Server) AdoptComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.AdoptComment(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Comment adopted", comment)
}
