package server

import (
	"unimarket/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetCategories handles GET /api/categories. Categories are seed data and
// served through the cache-aside layer.
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoryRepo.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if categories == nil {
		categories = []models.Category{}
	}

	return c.JSON(categories)
}

// GetUniversities handles GET /api/universities, the registration picklist.
func (s *Server) GetUniversities(c *fiber.Ctx) error {
	universities, err := s.universityRepo.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if universities == nil {
		universities = []models.University{}
	}

	return c.JSON(universities)
}
