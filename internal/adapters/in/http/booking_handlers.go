package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
	"github.com/suchimauz/barber-availability-engine/internal/core/json_types"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/in"
)

type AddSlotRequest struct {
	StartTime       *json_types.TimeOfDay `json:"startTime" binding:"required"`
	DurationMinutes int                   `json:"durationMinutes"`
}

type BookRequest struct {
	StartTime  *json_types.TimeOfDay `json:"startTime" binding:"required"`
	ClientID   *string               `json:"clientId"`
	WalkInName string                `json:"walkInName"`
	ServiceID  string                `json:"serviceId"`
	Confirm    bool                  `json:"confirm"`
}

type BlockTimeRequest struct {
	FullDay   bool                  `json:"fullDay"`
	StartTime *json_types.TimeOfDay `json:"startTime"`
	EndTime   *json_types.TimeOfDay `json:"endTime"`
	Reason    string                `json:"reason"`
}

func (c *AvailabilityController) respondMutation(ctx *gin.Context, status int, result *domain.MutationResult, err error) {
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	ctx.JSON(status, result)
}

func (c *AvailabilityController) addSlot(ctx *gin.Context) {
	providerID, date, ok := dayParams(ctx)
	if !ok {
		return
	}

	var req AddSlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err.Error())
		return
	}

	result, err := c.booking.AddSlot(ctx.Request.Context(), in.AddSlotCommand{
		ProviderID:      providerID,
		Date:            date,
		StartTime:       *req.StartTime,
		DurationMinutes: req.DurationMinutes,
	})
	c.respondMutation(ctx, http.StatusCreated, result, err)
}

func (c *AvailabilityController) deleteSlot(ctx *gin.Context) {
	result, err := c.booking.DeleteSlot(ctx.Request.Context(), ctx.Param("slotId"))
	c.respondMutation(ctx, http.StatusOK, result, err)
}

func (c *AvailabilityController) book(ctx *gin.Context) {
	providerID, date, ok := dayParams(ctx)
	if !ok {
		return
	}

	var req BookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err.Error())
		return
	}

	result, err := c.booking.Book(ctx.Request.Context(), in.BookCommand{
		ProviderID: providerID,
		Date:       date,
		StartTime:  *req.StartTime,
		ClientID:   req.ClientID,
		WalkInName: req.WalkInName,
		ServiceID:  req.ServiceID,
		Confirm:    req.Confirm,
	})
	c.respondMutation(ctx, http.StatusCreated, result, err)
}

type appointmentAction func(ctx context.Context, appointmentID string) (*domain.MutationResult, error)

func (c *AvailabilityController) appointmentHandler(action appointmentAction) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, err := action(ctx.Request.Context(), ctx.Param("appointmentId"))
		c.respondMutation(ctx, http.StatusOK, result, err)
	}
}

func (c *AvailabilityController) cancelAppointment(ctx *gin.Context) {
	c.appointmentHandler(c.booking.CancelAppointment)(ctx)
}

func (c *AvailabilityController) confirmAppointment(ctx *gin.Context) {
	c.appointmentHandler(c.booking.ConfirmAppointment)(ctx)
}

func (c *AvailabilityController) completeAppointment(ctx *gin.Context) {
	c.appointmentHandler(c.booking.CompleteAppointment)(ctx)
}

func (c *AvailabilityController) blockTime(ctx *gin.Context) {
	providerID, date, ok := dayParams(ctx)
	if !ok {
		return
	}

	var req BlockTimeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err.Error())
		return
	}

	result, err := c.booking.BlockTime(ctx.Request.Context(), in.BlockTimeCommand{
		ProviderID: providerID,
		Date:       date,
		FullDay:    req.FullDay,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Reason:     req.Reason,
	})
	c.respondMutation(ctx, http.StatusCreated, result, err)
}

func (c *AvailabilityController) unblockTime(ctx *gin.Context) {
	result, err := c.booking.UnblockTime(ctx.Request.Context(), ctx.Param("blockId"))
	c.respondMutation(ctx, http.StatusOK, result, err)
}
