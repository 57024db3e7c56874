package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pe-program/backend/internal/models"
	"github.com/pe-program/backend/internal/types"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// @Summary		Delete everything
// @Description	Permanently deletes all families, members and contributions
// @Tags			v1
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		503		{object}	httpError
// @Param			confirm	query		string	false	"Confirmation to delete all resources. Must have the value 'yes-please-delete-everything'"
// @Router			/v1 [delete]
func Cleanup(c *gin.Context) {
	var params struct {
		Confirm string `form:"confirm"`
	}

	err := c.Bind(&params)
	if err != nil || params.Confirm != "yes-please-delete-everything" {
		c.JSON(http.StatusBadRequest, httpError{
			Error: errCleanupConfirmation.Error(),
		})
		return
	}

	// Foreign keys are checked during cleanup,
	// resources referencing others come first
	resources := []models.Model{
		models.AllocationLedger{},
		models.Member{},
		models.Family{},
	}

	err = models.DB.WithContext(c).Transaction(func(tx *gorm.DB) error {
		for _, category := range types.Categories {
			err := tx.Table(category.Table()).Where("true").Delete(&models.Contribution{}).Error
			if err != nil {
				return err
			}
		}

		for _, model := range resources {
			err := tx.Where("true").Delete(&model).Error
			if err != nil {
				return err
			}
			log.Debug().Str("resource", model.Self()).Msg("cleanup")
		}

		return nil
	})
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
