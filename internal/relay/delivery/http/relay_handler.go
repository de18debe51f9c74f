package http

import (
	"crypto/subtle"
	"errors"
	"io"
	"net/http"

	"futures-relay/internal/relay/dto"
	"futures-relay/internal/relay/service"
	"futures-relay/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
)

// maxBodyBytes caps webhook and control request bodies.
const maxBodyBytes = 64 << 10

var errBodyTooLarge = errors.New("request body too large")

// RelayHandler handles webhook alerts and operator control requests.
type RelayHandler struct {
	relayService service.RelayService
	payloadToken string
	logger       *logger.Logger
}

// NewRelayHandler creates a new RelayHandler.
func NewRelayHandler(relayService service.RelayService, payloadToken string, logger *logger.Logger) *RelayHandler {
	return &RelayHandler{relayService: relayService, payloadToken: payloadToken, logger: logger}
}

// RegisterRoutes registers the relay routes to the Echo group.
func (h *RelayHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/webhook", h.Webhook)
	g.GET("/status", h.Status)
	g.POST("/switch-bias", h.SwitchBias)
	g.POST("/switch-live-status", h.SwitchLive)
	g.GET("/healthz", h.Health)
}

// Webhook godoc
// @Summary Receive an alert
// @Description Processes a directional alert. The response is always 200 with an empty body.
// @Tags relay
// @Accept  json
// @Produce  plain
// @Param   alert  body    dto.WebhookRequest   true    "Alert payload"
// @Success 200 {string} string ""
// @Router /webhook [post]
func (h *RelayHandler) Webhook(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.WebhookRequest
	if err := decodeJSON(c, &req); err != nil {
		h.logger.ErrorContext(ctx, "Invalid webhook payload", logger.ErrorField(err))
		return c.String(http.StatusOK, "")
	}
	if !h.authorized(req.PayloadToken) {
		h.logger.InfoContext(ctx, "Webhook rejected, bad payload token", logger.StringField("ticker", req.Ticker))
		return c.String(http.StatusOK, "")
	}

	res, err := h.relayService.HandleAlert(ctx, service.Alert{
		Ticker:    req.Ticker,
		AlertType: req.AlertType,
		StopType:  req.StopType,
		Price:     req.Price,
		Bypass:    req.Bypass,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "Alert rejected", logger.StringField("ticker", req.Ticker), logger.ErrorField(err))
		return c.String(http.StatusOK, "")
	}

	h.logger.DebugContext(ctx, "Alert processed", logger.StringField("instrument", res.Instrument), logger.StringField("outcome", res.Outcome))
	return c.String(http.StatusOK, "")
}

// Status godoc
// @Summary Relay status
// @Description Returns bias, live flag and the tracked position as plain text
// @Tags relay
// @Produce  plain
// @Success 200 {string} string "Bot Bias: Bullish"
// @Router /status [get]
func (h *RelayHandler) Status(c echo.Context) error {
	return c.String(http.StatusOK, h.relayService.Status(c.Request().Context()))
}

// SwitchBias godoc
// @Summary Flip the directional bias
// @Description Closes positions in the current bias direction, clears alert history and flips the bias
// @Tags control
// @Accept  json
// @Produce  plain
// @Param   request  body    dto.TokenRequest   true    "Shared secret"
// @Success 200 {string} string "Bot has been switched to Bearish"
// @Failure 403 {string} string "Forbidden"
// @Failure 409 {string} string "position transition in flight"
// @Router /switch-bias [post]
func (h *RelayHandler) SwitchBias(c echo.Context) error {
	ctx := c.Request().Context()
	if !h.authorizedRequest(c) {
		return c.String(http.StatusForbidden, "Forbidden")
	}

	msg, err := h.relayService.SwitchBias(ctx)
	if errors.Is(err, service.ErrTransitionInFlight) {
		return c.String(http.StatusConflict, err.Error())
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to switch bias", logger.ErrorField(err))
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}
	return c.String(http.StatusOK, msg)
}

// SwitchLive godoc
// @Summary Toggle live trading
// @Tags control
// @Accept  json
// @Produce  plain
// @Param   request  body    dto.TokenRequest   true    "Shared secret"
// @Success 200 {string} string "Bot 'Is Live' status has been switched to True"
// @Failure 403 {string} string "Forbidden"
// @Router /switch-live-status [post]
func (h *RelayHandler) SwitchLive(c echo.Context) error {
	if !h.authorizedRequest(c) {
		return c.String(http.StatusForbidden, "Forbidden")
	}
	return c.String(http.StatusOK, h.relayService.SwitchLive(c.Request().Context()))
}

// Health godoc
// @Summary Health check
// @Tags relay
// @Produce  json
// @Success 200 {object} dto.HealthResponse
// @Router /healthz [get]
func (h *RelayHandler) Health(c echo.Context) error {
	snap := h.relayService.Snapshot()
	return c.JSON(http.StatusOK, dto.HealthResponse{
		Status:    "ok",
		Bias:      string(snap.Bias),
		Live:      snap.Live,
		Phase:     string(snap.Phase),
		Position:  snap.Position,
		Contracts: snap.Symbols,
	})
}

func (h *RelayHandler) authorizedRequest(c echo.Context) bool {
	var req dto.TokenRequest
	if err := decodeJSON(c, &req); err != nil {
		return false
	}
	return h.authorized(req.PayloadToken)
}

func (h *RelayHandler) authorized(token string) bool {
	return token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(h.payloadToken)) == 1
}

// decodeJSON reads the body as JSON regardless of the declared content type;
// alert sources often post JSON as text/plain.
func decodeJSON(c echo.Context, out interface{}) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes+1))
	if err != nil {
		return err
	}
	if len(body) > maxBodyBytes {
		return errBodyTooLarge
	}
	return sonic.Unmarshal(body, out)
}
