package messages

import (
	msgsvc "yardloop-backend/internal/application/messages"
	"yardloop-backend/internal/middleware"
	"yardloop-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *msgsvc.Service
}

var messageStatusMap = map[string]int{
	"Listing not found":               404,
	"Conversation not found":          404,
	"Cannot message your own listing": 400,
	"Message body is required":        400,
	"Unauthorized":                    403,
}

func mapMessageError(c *fiber.Ctx, err error) error {
	if code, ok := messageStatusMap[err.Error()]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// POST /api/v1/conversations — body { listing_id }
func (h *Handlers) GetOrCreateConversation(c *fiber.Ctx) error {
	var body struct {
		ListingID string `json:"listing_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.ListingID == "" {
		return response.Error(c, "listing_id is required", 400, nil)
	}
	listingID, err := uuid.Parse(body.ListingID)
	if err != nil {
		return response.Error(c, "Invalid listing_id", 400, nil)
	}
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	conv, err := h.Service.GetOrCreateConversation(c.Context(), listingID, userID)
	if err != nil {
		return mapMessageError(c, err)
	}
	return response.Success(c, "Conversation ready", conv, nil)
}

// GET /api/v1/conversations
func (h *Handlers) ListConversations(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	convs, err := h.Service.ListConversations(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	unread, err := h.Service.UnreadCount(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Conversations fetched successfully", convs, fiber.Map{"unread_total": unread})
}

// GET /api/v1/conversations/:conversation_id/messages
func (h *Handlers) ListMessages(c *fiber.Ctx) error {
	conversationID, err := uuid.Parse(c.Params("conversation_id"))
	if err != nil {
		return response.Error(c, "Invalid conversation_id", 400, nil)
	}
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	msgs, err := h.Service.ListMessages(c.Context(), conversationID, userID)
	if err != nil {
		return mapMessageError(c, err)
	}
	return response.Success(c, "Messages fetched successfully", msgs, nil)
}

// POST /api/v1/conversations/:conversation_id/messages — body { body }
func (h *Handlers) SendMessage(c *fiber.Ctx) error {
	conversationID, err := uuid.Parse(c.Params("conversation_id"))
	if err != nil {
		return response.Error(c, "Invalid conversation_id", 400, nil)
	}
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Message body is required", 400, nil)
	}

	msg, err := h.Service.SendMessage(c.Context(), conversationID, userID, body.Body)
	if err != nil {
		return mapMessageError(c, err)
	}
	return response.SuccessCreated(c, "Message sent", msg, nil)
}

// POST /api/v1/conversations/:conversation_id/read
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	conversationID, err := uuid.Parse(c.Params("conversation_id"))
	if err != nil {
		return response.Error(c, "Invalid conversation_id", 400, nil)
	}
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Service.MarkRead(c.Context(), conversationID, userID); err != nil {
		return mapMessageError(c, err)
	}
	return response.Success(c, "Messages marked as read", fiber.Map{}, nil)
}
