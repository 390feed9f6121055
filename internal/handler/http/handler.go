package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	_ "github.com/aniladanir/pharmacy-messenger-service/docs"
	"github.com/aniladanir/pharmacy-messenger-service/internal/domain"
	"github.com/aniladanir/pharmacy-messenger-service/internal/service"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// BookingService is what the dashboard drives.
type BookingService interface {
	Create(ctx context.Context, req service.NewBookingRequest) (*domain.Booking, error)
	Get(ctx context.Context, id string) (*service.BookingDetails, error)
	UpdateStatus(ctx context.Context, id, rawStatus string) (*domain.Booking, error)
	SendMessage(ctx context.Context, bookingID, body string) (*domain.Message, error)
	Conversation(ctx context.Context, bookingID string) ([]domain.Message, error)
	HandleInbound(ctx context.Context, from, body string) (*service.InboundOutcome, error)
}

type EndpointSetting interface {
	ConfigureEndpoint(url string) error
	Endpoint() (string, bool)
}

type WorkflowService interface {
	EndpointSetting
	ReceiveEvent(ctx context.Context, ev domain.InboundEvent) domain.InboundResult
}

type Services struct {
	Bookings BookingService
	Gateway  EndpointSetting
	Workflow WorkflowService
	Metrics  http.Handler
	Logger   *slog.Logger
}

type Handler struct {
	svc    Services
	logger *slog.Logger
	server *http.Server
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type messageRequest struct {
	Body string `json:"body" binding:"required"`
}

type inboundMessageRequest struct {
	From string `json:"from" binding:"required,max=64"`
	Body string `json:"body" binding:"required"`
}

type endpointRequest struct {
	URL string `json:"url" binding:"required"`
}

type endpointResponse struct {
	URL        string `json:"url,omitempty"`
	Configured bool   `json:"configured"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// @title Pharmacy Messenger API
// @version 1.0
// @description Booking workflow and customer messaging for the pharmacy dashboard
// @host localhost:6060
// @BasePath /
func NewHttpHandler(addr string, svc Services) *Handler {
	if svc.Logger == nil {
		svc.Logger = slog.Default()
	}
	h := &Handler{
		svc:    svc,
		logger: svc.Logger,
	}

	// create router
	router := gin.Default()

	// register routes
	bookings := router.Group("/bookings")
	bookings.POST("", h.createBooking)
	bookings.GET("/:id", h.getBooking)
	bookings.PATCH("/:id/status", h.updateStatus)
	bookings.GET("/:id/messages", h.getConversation)
	bookings.POST("/:id/messages", h.sendMessage)

	webhooks := router.Group("/webhooks")
	webhooks.POST("/whatsapp", h.receiveMessage)
	webhooks.POST("/workflow", h.receiveWorkflowEvent)

	settings := router.Group("/settings/webhooks")
	settings.GET("/whatsapp", h.getEndpoint(svc.Gateway))
	settings.PUT("/whatsapp", h.putEndpoint(svc.Gateway))
	settings.GET("/workflow", h.getEndpoint(svc.Workflow))
	settings.PUT("/workflow", h.putEndpoint(svc.Workflow))

	if svc.Metrics != nil {
		router.GET("/metrics", gin.WrapH(svc.Metrics))
	}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// create http server
	h.server = &http.Server{
		Addr:    addr,
		Handler: router.Handler(),
	}

	return h
}

func (h *Handler) Run() error {
	return h.server.ListenAndServe()
}

func (h *Handler) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// CreateBooking godoc
// @Summary Create a booking
// @Description Registers a pending booking for a customer
// @Tags Bookings
// @Accept json
// @Produce json
// @Param booking body service.NewBookingRequest true "booking"
// @Success 201 {object} domain.Booking
// @Failure 400 {object} errorResponse
// @Router /bookings [post]
func (h *Handler) createBooking(c *gin.Context) {
	var req service.NewBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	b, err := h.svc.Bookings.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GetBooking godoc
// @Summary Get a booking
// @Tags Bookings
// @Produce json
// @Param id path string true "booking id"
// @Success 200 {object} service.BookingDetails
// @Failure 404 {object} errorResponse
// @Router /bookings/{id} [get]
func (h *Handler) getBooking(c *gin.Context) {
	details, err := h.svc.Bookings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// UpdateStatus godoc
// @Summary Change the status of a booking
// @Description Applies a status transition and notifies the workflow automation
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path string true "booking id"
// @Param status body statusRequest true "new status"
// @Success 200 {object} domain.Booking
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /bookings/{id}/status [patch]
func (h *Handler) updateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	b, err := h.svc.Bookings.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetConversation godoc
// @Summary Get the conversation of a booking
// @Tags Messages
// @Produce json
// @Param id path string true "booking id"
// @Success 200 {array} domain.Message
// @Failure 404 {object} errorResponse
// @Router /bookings/{id}/messages [get]
func (h *Handler) getConversation(c *gin.Context) {
	msgs, err := h.svc.Bookings.Conversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// SendMessage godoc
// @Summary Send a message to the customer of a booking
// @Tags Messages
// @Accept json
// @Produce json
// @Param id path string true "booking id"
// @Param message body messageRequest true "message"
// @Success 201 {object} domain.Message
// @Failure 404 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /bookings/{id}/messages [post]
func (h *Handler) sendMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	msg, err := h.svc.Bookings.SendMessage(c.Request.Context(), c.Param("id"), req.Body)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// ReceiveMessage godoc
// @Summary Inbound customer message
// @Description Called by the messaging provider for every message a customer sends
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param message body inboundMessageRequest true "inbound message"
// @Success 200 {object} service.InboundOutcome
// @Failure 400 {object} errorResponse
// @Router /webhooks/whatsapp [post]
func (h *Handler) receiveMessage(c *gin.Context) {
	var req inboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	outcome, err := h.svc.Bookings.HandleInbound(c.Request.Context(), req.From, req.Body)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// ReceiveWorkflowEvent godoc
// @Summary Inbound workflow automation event
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param event body domain.InboundEvent true "event"
// @Success 200 {object} domain.InboundResult
// @Failure 400 {object} domain.InboundResult
// @Router /webhooks/workflow [post]
func (h *Handler) receiveWorkflowEvent(c *gin.Context) {
	var ev domain.InboundEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, domain.InboundResult{Success: false, Message: "Error processing webhook event"})
		return
	}
	result := h.svc.Workflow.ReceiveEvent(c.Request.Context(), ev)
	if !result.Success {
		c.JSON(http.StatusBadRequest, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetEndpoint godoc
// @Summary Get a configured webhook url
// @Tags Settings
// @Produce json
// @Success 200 {object} endpointResponse
// @Router /settings/webhooks/whatsapp [get]
// @Router /settings/webhooks/workflow [get]
func (h *Handler) getEndpoint(setting EndpointSetting) gin.HandlerFunc {
	return func(c *gin.Context) {
		url, ok := setting.Endpoint()
		c.JSON(http.StatusOK, endpointResponse{URL: url, Configured: ok})
	}
}

// PutEndpoint godoc
// @Summary Configure a webhook url
// @Tags Settings
// @Accept json
// @Produce json
// @Param endpoint body endpointRequest true "webhook url"
// @Success 200 {object} endpointResponse
// @Failure 400 {object} errorResponse
// @Router /settings/webhooks/whatsapp [put]
// @Router /settings/webhooks/workflow [put]
func (h *Handler) putEndpoint(setting EndpointSetting) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req endpointRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		if err := setting.ConfigureEndpoint(req.URL); err != nil {
			h.writeError(c, err)
			return
		}
		url, ok := setting.Endpoint()
		c.JSON(http.StatusOK, endpointResponse{URL: url, Configured: ok})
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err.Error())
		c.JSON(status, errorResponse{Error: "internal error"})
		return
	}
	c.JSON(status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidBooking),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidEndpoint),
		errors.Is(err, domain.ErrInvalidMessage):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrConcurrentUpdate):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDeliveryFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
