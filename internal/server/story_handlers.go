package server

import (
	"reso/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateStory handles POST /api/stories
func (s *Server) CreateStory(c *fiber.Ctx) error {
	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		IsPublic bool   `json:"isPublic"`
		Emotion  string `json:"emotion"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	res, err := s.storyService.CreateStory(c.UserContext(), service.CreateStoryInput{
		UserID:   currentUserID(c),
		Title:    req.Title,
		Content:  req.Content,
		IsPublic: req.IsPublic,
		Emotion:  req.Emotion,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, "Story created", res)
}

// ListStories handles GET /api/stories?mine=true
func (s *Server) ListStories(c *fiber.Ctx) error {
	page := parsePagination(c)
	stories, err := s.storyService.ListStories(c.UserContext(), service.ListStoriesInput{
		UserID: currentUserID(c),
		Mine:   queryFlag(c, "mine"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Stories", stories)
}

// GetStory handles GET /api/stories/:id
func (s *Server) GetStory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	story, err := s.storyService.GetStory(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Story", story)
}

// UpdateStory handles PATCH /api/stories/:id
func (s *Server) UpdateStory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title    *string `json:"title"`
		Content  *string `json:"content"`
		IsPublic *bool   `json:"isPublic"`
		Emotion  *string `json:"emotion"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	story, err := s.storyService.UpdateStory(c.UserContext(), service.UpdateStoryInput{
		UserID:   currentUserID(c),
		StoryID:  id,
		Title:    req.Title,
		Content:  req.Content,
		IsPublic: req.IsPublic,
		Emotion:  req.Emotion,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Story updated", story)
}

// DeleteStory handles DELETE /api/stories/:id
func (s *Server) DeleteStory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.storyService.DeleteStory(c.UserContext(), id, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Story deleted", fiber.Map{"id": id})
}

// ToggleStoryLike handles POST /api/stories/:id/like
func (s *Server) ToggleStoryLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	res, err := s.storyService.ToggleLike(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Like toggled", res)
}
