package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/services"
)

// ConversationHandler handles direct messaging. The /conversations group
// requires authentication.
type ConversationHandler struct {
	conversations *services.ConversationService
	messaging     *services.MessagingService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(conversations *services.ConversationService, messaging *services.MessagingService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations, messaging: messaging}
}

// RegisterConversationRoutes registers routes on the /conversations group
func (h *ConversationHandler) RegisterConversationRoutes(g *echo.Group) {
	g.GET("", h.ListConversations)
	g.POST("", h.CreateConversation)
	g.GET("/:id/messages", h.ListMessages)
	g.POST("/:id/messages", h.SendMessage)
}

// RegisterMessageRoutes registers routes addressing single messages
func (h *ConversationHandler) RegisterMessageRoutes(g *echo.Group) {
	g.DELETE("/messages/:id", h.DeleteMessage)
}

// ListConversations returns the caller's conversations with previews
func (h *ConversationHandler) ListConversations(c echo.Context) error {
	views, err := h.messaging.ListConversationsFor(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"conversations": views})
}

// CreateConversation finds or creates the conversation between the caller and
// participant_ids.
func (h *ConversationHandler) CreateConversation(c echo.Context) error {
	var req models.CreateConversationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	conversation, created, err := h.conversations.Start(ctx, getUserIDFromContext(c), req.ParticipantIDs)
	if err != nil {
		return httpError(err)
	}

	view, err := h.messaging.View(ctx, conversation)
	if err != nil {
		return httpError(err)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return respond(c, status, view)
}

// ListMessages pages backwards through a conversation with ?before=<message id>
func (h *ConversationHandler) ListMessages(c echo.Context) error {
	conversationID, err := parseID(c, "id", "conversation ID")
	if err != nil {
		return err
	}

	before := queryInt(c, "before")
	if before < 0 {
		before = 0
	}
	messages, err := h.messaging.ListMessages(c.Request().Context(), conversationID, getUserIDFromContext(c), uint(before), queryInt(c, "limit"))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"messages": messages})
}

func (h *ConversationHandler) SendMessage(c echo.Context) error {
	conversationID, err := parseID(c, "id", "conversation ID")
	if err != nil {
		return err
	}

	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	message, err := h.messaging.Send(c.Request().Context(), conversationID, getUserIDFromContext(c), req.Content)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusCreated, message)
}

// DeleteMessage removes one of the caller's messages
func (h *ConversationHandler) DeleteMessage(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	messageID, err := parseID(c, "id", "message ID")
	if err != nil {
		return err
	}

	if err := h.messaging.DeleteMessage(c.Request().Context(), messageID, userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
