package server

import (
	"unimarket/internal/models"
	"unimarket/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SendMessage handles POST /api/messages. The message is persisted first;
// delivery to a connected receiver rides on the realtime layer when present.
// @Summary Send a direct message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{receiverId=integer,content=string} true "Message"
// @Success 201 {object} models.Message
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /messages [post]
func (s *Server) SendMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		ReceiverID uint   `json:"receiverId"`
		Content    string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.messageService.SendMessage(c.Context(), service.SendMessageInput{
		SenderID:   userID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
		Via:        "rest",
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

// GetUnreadCount handles GET /api/messages/unread-count
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	count, err := s.messageService.UnreadCount(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"unreadCount": count,
	})
}

// GetThread handles GET /api/messages/:userId, the two-party conversation
// with that user in chronological order.
func (s *Server) GetThread(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	partnerID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 50)

	messages, err := s.messageService.GetThread(c.Context(), userID, partnerID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if messages == nil {
		messages = []models.Message{}
	}

	return c.JSON(messages)
}

// MarkThreadRead handles PUT /api/messages/:userId/read. Marks every unread
// message from that sender as read and reports how many flipped.
func (s *Server) MarkThreadRead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	partnerID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	updated, err := s.messageService.MarkThreadRead(c.Context(), userID, partnerID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"updated": updated,
	})
}

// GetConversations handles GET /api/conversations, one entry per partner with
// the latest message and the unread count.
func (s *Server) GetConversations(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	conversations, err := s.messageService.Conversations(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if conversations == nil {
		conversations = []models.Conversation{}
	}

	return c.JSON(conversations)
}
