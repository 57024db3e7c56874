package healthz

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pe-program/backend/internal/httputil"
	"github.com/pe-program/backend/internal/models"
	"github.com/pe-program/backend/internal/schedule"
)

func RegisterRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", Options)
	r.GET("", Get)
}

type Response struct {
	Schedule string  `json:"schedule" example:"2024-01"`                            // Version of the active poverty schedule
	Error    *string `json:"error" example:"an error occurred during your request"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/healthz [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get health
// @Description	Returns the application health and, if not healthy, an error
// @Tags			General
// @Produce		json
// @Success		200	{object}	Response
// @Failure		503	{object}	Response
// @Router			/healthz [get]
func Get(c *gin.Context) {
	version := schedule.Current().Version

	sqlDB, err := models.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c)
	}

	if err != nil {
		e := err.Error()
		c.JSON(http.StatusServiceUnavailable, Response{Schedule: version, Error: &e})
		return
	}

	c.JSON(http.StatusOK, Response{Schedule: version})
}
