package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pe-program/backend/internal/allocation"
	"github.com/pe-program/backend/internal/httputil"
)

type CategoryListResponse struct {
	Data []allocation.Descriptor `json:"data"` // List of category descriptors
}

type CategoryResponse struct {
	Error *string                `json:"error" example:"unknown category"` // The error, if any occurred
	Data  *allocation.Descriptor `json:"data"`                             // The category descriptor
}

type CalculationRequest struct {
	Lines          []allocation.LineInput `json:"lines"`                                      // Cost lines
	DurationMonths uint                   `json:"durationMonths" example:"12" maximum:"1200"` // Number of months for recurring lines
	Detail         string                 `json:"detail" example:"private"`                   // Category specific detail
}

type CalculationResponse struct {
	Error *string                 `json:"error" example:"invalid lines: at least one cost line is required"` // The error, if any occurred
	Kind  string                  `json:"kind,omitempty" example:"validation"`                               // The kind of the error
	Data  *allocation.Calculation `json:"data"`                                                              // The calculation
}

func RegisterCategoryRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsCategories)
		r.GET("", GetCategories)
	}
	{
		r.OPTIONS("/:category", OptionsCategoryDetail)
		r.GET("/:category", GetCategory)
	}
	{
		r.OPTIONS("/:category/calculate", OptionsCategoryCalculate)
		r.POST("/:category/calculate", CalculateContribution)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Router			/v1/categories [options]
func OptionsCategories(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Param			category	path	string	true	"Category"
// @Router			/v1/categories/{category} [options]
func OptionsCategoryDetail(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Param			category	path	string	true	"Category"
// @Router			/v1/categories/{category}/calculate [options]
func OptionsCategoryCalculate(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Get categories
// @Description	Returns the descriptors of all intervention categories
// @Tags			Categories
// @Produce		json
// @Success		200	{object}	CategoryListResponse
// @Router			/v1/categories [get]
func GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, CategoryListResponse{Data: allocation.Descriptors()})
}

// @Summary		Get category
// @Description	Returns the descriptor of an intervention category
// @Tags			Categories
// @Produce		json
// @Success		200			{object}	CategoryResponse
// @Failure		400			{object}	CategoryResponse
// @Param			category	path		string	true	"Category"
// @Router			/v1/categories/{category} [get]
func GetCategory(c *gin.Context) {
	var uri URICategory
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, CategoryResponse{Error: &e})
		return
	}

	d, err := allocation.DescriptorFor(uri.Category)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, CategoryResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, CategoryResponse{Data: &d})
}

// @Summary		Calculate contribution
// @Description	Validates cost lines and calculates the program share without storing anything
// @Tags			Categories
// @Produce		json
// @Success		200			{object}	CalculationResponse
// @Failure		400			{object}	CalculationResponse
// @Param			category	path		string				true	"Category"
// @Param			calculation	body		CalculationRequest	true	"Cost lines"
// @Router			/v1/categories/{category}/calculate [post]
func CalculateContribution(c *gin.Context) {
	var uri URICategory
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, CalculationResponse{Error: &e, Kind: allocation.KindValidation})
		return
	}

	var request CalculationRequest
	err = httputil.BindData(c, &request)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, CalculationResponse{Error: &e, Kind: allocation.KindValidation})
		return
	}

	d, err := allocation.DescriptorFor(uri.Category)
	if err == nil {
		err = d.Validate(request.Lines, request.DurationMonths, request.Detail)
	}
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, CalculationResponse{Error: &e, Kind: allocation.KindValidation})
		return
	}

	calculation := d.Calculate(request.Lines, request.DurationMonths)
	c.JSON(http.StatusOK, CalculationResponse{Data: &calculation})
}
