package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pe-program/backend/internal/httputil"
	"github.com/pe-program/backend/internal/schedule"
)

type ScheduleResponse struct {
	Data *schedule.Schedule `json:"data"` // The active poverty schedule
}

func RegisterScheduleRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsSchedule)
	r.GET("", GetSchedule)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Schedule
// @Success		204
// @Router			/v1/schedule [options]
func OptionsSchedule(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get poverty schedule
// @Description	Returns the active poverty schedule with the income thresholds per area and the support cap per poverty level
// @Tags			Schedule
// @Produce		json
// @Success		200	{object}	ScheduleResponse
// @Router			/v1/schedule [get]
func GetSchedule(c *gin.Context) {
	c.JSON(http.StatusOK, ScheduleResponse{Data: schedule.Current()})
}
