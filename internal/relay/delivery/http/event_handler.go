package http

import (
	"net/http"
	"strconv"

	"futures-relay/internal/relay/dto"
	"futures-relay/internal/relay/repository"
	"futures-relay/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 500
)

// EventHandler serves the trade journal.
type EventHandler struct {
	eventRepo repository.TradeEventRepository
	logger    *logger.Logger
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventRepo repository.TradeEventRepository, logger *logger.Logger) *EventHandler {
	return &EventHandler{eventRepo: eventRepo, logger: logger}
}

// RegisterRoutes registers the journal routes to the Echo group.
func (h *EventHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListEvents)
}

// ListEvents godoc
// @Summary List trade events
// @Description Returns the latest journal entries, newest first
// @Tags journal
// @Produce  json
// @Param   limit  query    int false    "Maximum number of events (default 50, max 500)"
// @Success 200 {array} dto.TradeEventResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /events [get]
func (h *EventHandler) ListEvents(c echo.Context) error {
	limit := defaultEventLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid limit"})
		}
		limit = min(n, maxEventLimit)
	}

	events, err := h.eventRepo.FindRecent(c.Request().Context(), limit)
	if err != nil {
		h.logger.ErrorContext(c.Request().Context(), "Failed to list trade events", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list trade events"})
	}

	resp := make([]dto.TradeEventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, dto.TradeEventResponse{
			ID:         e.ID,
			Kind:       e.Kind,
			Instrument: e.Instrument,
			Symbol:     e.Symbol,
			Direction:  e.Direction,
			Quantity:   e.Quantity,
			Price:      e.Price.String(),
			Success:    e.Success,
			Message:    e.Message,
			CreatedAt:  e.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
