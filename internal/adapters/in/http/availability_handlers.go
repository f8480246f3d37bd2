package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
	"github.com/suchimauz/barber-availability-engine/internal/core/json_types"
	"github.com/suchimauz/barber-availability-engine/internal/utils"
)

// dayParams providerId и date из пути
func dayParams(ctx *gin.Context) (string, json_types.Date, bool) {
	providerID := ctx.Param("providerId")
	date, err := json_types.ParseDate(ctx.Param("date"))
	if err != nil {
		badRequest(ctx, "Invalid date format, expected YYYY-MM-DD")
		return "", json_types.Date{}, false
	}
	return providerID, date, true
}

func (c *AvailabilityController) getDaySlots(ctx *gin.Context) {
	providerID, date, ok := dayParams(ctx)
	if !ok {
		return
	}

	var trace *domain.DebugTrace
	if ctx.Query("debug") == "true" {
		trace = domain.NewDebugTrace()
	}

	day, err := c.availability.ResolveDay(ctx.Request.Context(), providerID, date, trace)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	response := gin.H{
		"providerId":     providerID,
		"date":           date,
		"slots":          day.Slots,
		"candidateCount": day.CandidateCount,
	}
	if len(day.Warnings) > 0 {
		response["warnings"] = day.Warnings
	}
	if trace != nil {
		response["debug"] = trace.Items()
	}

	ctx.JSON(http.StatusOK, response)
}

func (c *AvailabilityController) getDayStatus(ctx *gin.Context) {
	providerID, date, ok := dayParams(ctx)
	if !ok {
		return
	}

	status, err := c.availability.AggregateDayStatus(ctx.Request.Context(), providerID, date)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"providerId": providerID,
		"date":       date,
		"status":     status,
	})
}

// getCalendar ?from=&to=, либо ?week=<любая дата недели>, по умолчанию от сегодня на CALENDAR_DEFAULT_DAYS
func (c *AvailabilityController) getCalendar(ctx *gin.Context) {
	providerID := ctx.Param("providerId")

	from, to, ok := c.calendarRange(ctx)
	if !ok {
		return
	}

	days, err := c.availability.ProjectCalendar(ctx.Request.Context(), providerID, from, to)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"providerId": providerID,
		"from":       from,
		"to":         to,
		"days":       days,
	})
}

func (c *AvailabilityController) calendarRange(ctx *gin.Context) (json_types.Date, json_types.Date, bool) {
	if week := ctx.Query("week"); week != "" {
		d, err := json_types.ParseDate(week)
		if err != nil {
			badRequest(ctx, "Invalid week format, expected YYYY-MM-DD")
			return json_types.Date{}, json_types.Date{}, false
		}
		from := utils.StartCurrentWeek(d)
		return from, from.AddDays(6), true
	}

	from := utils.Today(c.cfg.Location(), c.now())
	if raw := ctx.Query("from"); raw != "" {
		d, err := json_types.ParseDate(raw)
		if err != nil {
			badRequest(ctx, "Invalid from date format, expected YYYY-MM-DD")
			return json_types.Date{}, json_types.Date{}, false
		}
		from = d
	}

	days := c.cfg.Calendar.DefaultDays
	if days <= 0 {
		days = 1
	}
	to := from.AddDays(days - 1)
	if raw := ctx.Query("to"); raw != "" {
		d, err := json_types.ParseDate(raw)
		if err != nil {
			badRequest(ctx, "Invalid to date format, expected YYYY-MM-DD")
			return json_types.Date{}, json_types.Date{}, false
		}
		to = d
	}

	return from, to, true
}
