package server

import (
	"unimarket/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ToggleSavedItem handles POST /api/saved-items {productId}.
// Saving an already-saved product unsaves it; the response reports the
// resulting state.
// @Summary Toggle a saved product
// @Tags saved-items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{productId=integer} true "Product to toggle"
// @Success 200 {object} object{isSaved=boolean}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /saved-items [post]
func (s *Server) ToggleSavedItem(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		ProductID uint `json:"productId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.ProductID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Product ID is required"))
	}

	isSaved, err := s.savedItemService.Toggle(c.Context(), userID, req.ProductID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"isSaved": isSaved,
	})
}

// GetSavedItems handles GET /api/saved-items
func (s *Server) GetSavedItems(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	items, err := s.savedItemService.ListSaved(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if items == nil {
		items = []models.SavedItem{}
	}

	return c.JSON(items)
}
