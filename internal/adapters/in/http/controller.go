package http

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/suchimauz/barber-availability-engine/internal/config"
	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/in"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/out"
)

const requestIDHeader = "X-Request-Id"

type AvailabilityController struct {
	availability in.AvailabilityUseCase
	booking      in.BookingUseCase
	cfg          *config.Config
	logger       out.LoggerPort
	now          func() time.Time
}

func NewAvailabilityController(
	availability in.AvailabilityUseCase,
	booking in.BookingUseCase,
	cfg *config.Config,
	logger out.LoggerPort,
) *AvailabilityController {
	return &AvailabilityController{
		availability: availability,
		booking:      booking,
		cfg:          cfg,
		logger:       logger.WithModule("HttpController"),
		now:          time.Now,
	}
}

func (c *AvailabilityController) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", c.health)

	api := router.Group("/api/v1")
	api.Use(c.requestID(), c.basicAuth())
	{
		api.GET("/providers/:providerId/days/:date/slots", c.getDaySlots)
		api.GET("/providers/:providerId/days/:date/status", c.getDayStatus)
		api.GET("/providers/:providerId/calendar", c.getCalendar)

		api.POST("/providers/:providerId/days/:date/slots", c.addSlot)
		api.DELETE("/slots/:slotId", c.deleteSlot)

		api.POST("/providers/:providerId/days/:date/appointments", c.book)
		api.POST("/appointments/:appointmentId/cancel", c.cancelAppointment)
		api.POST("/appointments/:appointmentId/confirm", c.confirmAppointment)
		api.POST("/appointments/:appointmentId/complete", c.completeAppointment)

		api.POST("/providers/:providerId/days/:date/blocks", c.blockTime)
		api.DELETE("/blocks/:blockId", c.unblockTime)
	}
}

func (c *AvailabilityController) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": c.cfg.App.Version,
	})
}

func (c *AvailabilityController) requestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set("requestId", id)
		ctx.Header(requestIDHeader, id)
		ctx.Next()
	}
}

func (c *AvailabilityController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth || !c.validClient(username, password) {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ctx.Next()
	}
}

func (c *AvailabilityController) validClient(username, password string) bool {
	for _, client := range c.cfg.Auth.BasicClients {
		if subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1 &&
			subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1 {
			return true
		}
	}
	return false
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRange), errors.Is(err, domain.ErrInvalidBooking):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSlotConflict),
		errors.Is(err, domain.ErrSlotOccupied),
		errors.Is(err, domain.ErrSlotNotAvailable),
		errors.Is(err, domain.ErrAlreadyTerminal),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTransport):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (c *AvailabilityController) respondError(ctx *gin.Context, err error) {
	status := statusCode(err)
	body := gin.H{
		"error": err.Error(),
		"code":  domain.ErrorCode(err),
	}
	if status == http.StatusBadGateway {
		body["retryable"] = true
	}

	fields := out.LogFields{
		"requestId": ctx.GetString("requestId"),
		"path":      ctx.FullPath(),
		"status":    status,
		"error":     err.Error(),
	}
	if status >= http.StatusInternalServerError {
		c.logger.Error("http.request.failed", fields)
	} else {
		c.logger.Debug("http.request.rejected", fields)
	}

	ctx.JSON(status, body)
}

func badRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, gin.H{
		"error": message,
		"code":  "BAD_REQUEST",
	})
}
