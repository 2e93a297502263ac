package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"world-entity-demo/backend/ai"
	"world-entity-demo/backend/internal/models"
	"world-entity-demo/backend/internal/service"
	apperrors "world-entity-demo/backend/pkg/errors"
)

// routeMessages are the client-facing error messages of one route
type routeMessages struct {
	invalidInput  string
	upstream      string
	invalidOutput string
	failure       string
}

var (
	chatMessages = routeMessages{
		invalidInput: "Invalid messages format",
		upstream:     "Chat failed",
		failure:      "Failed to chat",
	}
	stage2Messages = routeMessages{
		invalidInput:  "World and name are required",
		upstream:      "Stage2 failed",
		invalidOutput: "Invalid JSON received from model",
		failure:       "Failed to generate entity",
	}
	worldMessages = routeMessages{
		invalidInput:  "World and name are required",
		upstream:      "World JSON failed",
		invalidOutput: "Invalid JSON from model",
		failure:       "Failed to generate entity with image",
	}
)

// RelayHandler serves the chat and entity endpoints
type RelayHandler struct {
	relay *service.RelayService
}

// NewRelayHandler creates a handler backed by the relay service
func NewRelayHandler(relay *service.RelayService) *RelayHandler {
	return &RelayHandler{relay: relay}
}

// RegisterRoutes registers the relay endpoints on an /api group
func (h *RelayHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/chat", h.Chat)
	api.POST("/stage2", h.Stage2)
	api.POST("/world", h.World)
}

// Chat handles POST /api/chat
func (h *RelayHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Messages == nil {
		_ = c.Error(apperrors.NewBadRequestError(apperrors.CodeInvalidRequest, chatMessages.invalidInput))
		return
	}

	message, err := h.relay.Chat(c.Request.Context(), req.Messages)
	if err != nil {
		_ = c.Error(toAppError(err, chatMessages))
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{Message: message})
}

// Stage2 handles POST /api/stage2
func (h *RelayHandler) Stage2(c *gin.Context) {
	h.generate(c, false, stage2Messages)
}

// World handles POST /api/world, which adds an image URL to the entity
func (h *RelayHandler) World(c *gin.Context) {
	h.generate(c, true, worldMessages)
}

func (h *RelayHandler) generate(c *gin.Context, withImage bool, messages routeMessages) {
	var req models.EntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewBadRequestError(apperrors.CodeInvalidRequest, messages.invalidInput))
		return
	}

	entity, err := h.relay.GenerateEntity(c.Request.Context(), req.World, req.Name, withImage)
	if err != nil {
		_ = c.Error(toAppError(err, messages))
		return
	}

	c.JSON(http.StatusOK, models.EntityResponse{WorldEntity: entity})
}

// toAppError maps relay failures onto the route's client-facing errors
func toAppError(err error, messages routeMessages) *apperrors.AppError {
	var upstream *ai.UpstreamError
	switch {
	case errors.Is(err, service.ErrInvalidMessages), errors.Is(err, service.ErrMissingEntityFields):
		return apperrors.NewBadRequestError(apperrors.CodeInvalidRequest, messages.invalidInput).WithCause(err)
	case errors.As(err, &upstream):
		return apperrors.NewUpstreamError(upstream.StatusCode, upstream.Payload, messages.upstream).WithCause(err)
	case errors.Is(err, service.ErrInvalidEntityJSON):
		return apperrors.NewInternalServerError(apperrors.CodeInvalidModelOutput, messages.invalidOutput).WithCause(err)
	}
	return apperrors.NewInternalServerError(apperrors.CodeServiceError, messages.failure).WithCause(err)
}
