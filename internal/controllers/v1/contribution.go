package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pe-program/backend/internal/allocation"
	"github.com/pe-program/backend/internal/httputil"
	"github.com/pe-program/backend/internal/models"
	"github.com/pe-program/backend/internal/types"
	"golang.org/x/exp/slices"
)

func RegisterContributionRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("/:category", OptionsContributions)
		r.GET("/:category", GetContributions)
		r.POST("/:category", CreateContributions)
	}
	{
		r.OPTIONS("/:category/:id", OptionsContributionDetail)
		r.GET("/:category/:id", GetContribution)
		r.PUT("/:category/:id", UpdateContribution)
		r.DELETE("/:category/:id", DeleteContribution)
	}
	{
		r.OPTIONS("/:category/:id/approval", OptionsContributionApproval)
		r.POST("/:category/:id/approval", ApproveContribution)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Contributions
// @Success		204
// @Param			category	path	string	true	"Category"
// @Router			/v1/contributions/{category} [options]
func OptionsContributions(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Contributions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		503	{object}	httpError
// @Param			category	path	string	true	"Category"
// @Param			id			path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/contributions/{category}/{id} [options]
func OptionsContributionDetail(c *gin.Context) {
	var uri URICategoryID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpError{
			Error: err.Error(),
		})
		return
	}

	_, err = allocation.New(models.DB).Get(c, uri.Category, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPutDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Contributions
// @Success		204
// @Param			category	path	string	true	"Category"
// @Param			id			path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/contributions/{category}/{id}/approval [options]
func OptionsContributionApproval(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Submit contributions
// @Description	Submits contributions of a category. Each contribution is stored as pending only if it fits into the support still available to its family.
// @Description	Every contribution is evaluated on its own, the response holds one result per submitted contribution in the order of the request.
// @Tags			Contributions
// @Produce		json
// @Success		201				{object}	ContributionCreateResponse
// @Failure		400				{object}	ContributionCreateResponse
// @Failure		404				{object}	ContributionCreateResponse
// @Failure		409				{object}	ContributionCreateResponse
// @Failure		503				{object}	ContributionCreateResponse
// @Param			category		path		string					true	"Category"
// @Param			contributions	body		[]ContributionEditable	true	"Contributions"
// @Router			/v1/contributions/{category} [post]
func CreateContributions(c *gin.Context) {
	var uri URICategory
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, ContributionCreateResponse{
			Error: &e,
		})
		return
	}

	var contributions []ContributionEditable
	err = httputil.BindData(c, &contributions)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ContributionCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := ContributionCreateResponse{}
	service := allocation.New(models.DB)

	for _, create := range contributions {
		contribution, err := service.Submit(c, uri.Category, create.submission())
		status = r.appendResult(c, contribution, err, status)
	}

	c.JSON(status, r)
}

// @Summary		Get contributions
// @Description	Returns a list of contributions of a category
// @Tags			Contributions
// @Produce		json
// @Success		200			{object}	ContributionListResponse
// @Failure		400			{object}	ContributionListResponse
// @Failure		503			{object}	ContributionListResponse
// @Param			category	path		string	true	"Category"
// @Param			family		query		string	false	"Filter by family ID"
// @Param			status		query		string	false	"Filter by status"
// @Param			offset		query		uint	false	"The offset of the first contribution returned. Defaults to 0."
// @Param			limit		query		int		false	"Maximum number of contributions to return. Defaults to 50."
// @Router			/v1/contributions/{category} [get]
func GetContributions(c *gin.Context) {
	var uri URICategory
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, ContributionListResponse{
			Error: &e,
		})
		return
	}

	var filter ContributionQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, ContributionListResponse{
			Error: &e,
		})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.WithContext(c).
		Table(uri.Category.Table()).
		Order("created_at ASC, id ASC")

	if !filter.Family.IsNil() {
		q = q.Where("family_id = ?", filter.Family.UUID)
	}

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	q = q.Offset(int(filter.Offset))

	// Default to 50 contributions and set the limit
	limit := defaultLimit
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var contributions []models.Contribution
	err = q.Find(&contributions).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ContributionListResponse{
			Error: &e,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ContributionListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Contribution, 0, len(contributions))
	for _, contribution := range contributions {
		contribution.Category = uri.Category
		data = append(data, newContribution(c, contribution))
	}

	c.JSON(http.StatusOK, ContributionListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get contribution
// @Description	Returns a specific contribution
// @Tags			Contributions
// @Produce		json
// @Success		200			{object}	ContributionResponse
// @Failure		400			{object}	ContributionResponse
// @Failure		404			{object}	ContributionResponse
// @Failure		503			{object}	ContributionResponse
// @Param			category	path		string	true	"Category"
// @Param			id			path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/contributions/{category}/{id} [get]
func GetContribution(c *gin.Context) {
	var uri URICategoryID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(http.StatusBadRequest, newContributionResponse(c, models.Contribution{}, invalidRequest(err)))
		return
	}

	contribution, err := allocation.New(models.DB).Get(c, uri.Category, uri.ID.UUID)
	c.JSON(statusFor(err, http.StatusOK), newContributionResponse(c, contribution, err))
}

// @Summary		Update contribution
// @Description	Replaces a pending contribution. The contribution's current program share is not counted as used support while the new one is checked against the cap.
// @Tags			Contributions
// @Produce		json
// @Success		200				{object}	ContributionResponse
// @Failure		400				{object}	ContributionResponse
// @Failure		404				{object}	ContributionResponse
// @Failure		409				{object}	ContributionResponse
// @Failure		503				{object}	ContributionResponse
// @Param			category		path		string					true	"Category"
// @Param			id				path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			contribution	body		ContributionEditable	true	"Contribution"
// @Router			/v1/contributions/{category}/{id} [put]
func UpdateContribution(c *gin.Context) {
	var uri URICategoryID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(http.StatusBadRequest, newContributionResponse(c, models.Contribution{}, invalidRequest(err)))
		return
	}

	var data ContributionEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		c.JSON(http.StatusBadRequest, newContributionResponse(c, models.Contribution{}, invalidRequest(err)))
		return
	}

	contribution, err := allocation.New(models.DB).Update(c, uri.Category, uri.ID.UUID, data.submission())
	c.JSON(statusFor(err, http.StatusOK), newContributionResponse(c, contribution, err))
}

// @Summary		Delete contribution
// @Description	Deletes a pending contribution and releases its support
// @Tags			Contributions
// @Success		204
// @Failure		400			{object}	httpError
// @Failure		404			{object}	httpError
// @Failure		503			{object}	httpError
// @Param			category	path		string	true	"Category"
// @Param			id			path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/contributions/{category}/{id} [delete]
func DeleteContribution(c *gin.Context) {
	var uri URICategoryID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpError{
			Error: err.Error(),
		})
		return
	}

	err = allocation.New(models.DB).Delete(c, uri.Category, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Approve or reject contribution
// @Description	Records the decision on a pending contribution. Approved and rejected contributions cannot be changed anymore, rejection releases the support.
// @Tags			Contributions
// @Produce		json
// @Success		200			{object}	ContributionResponse
// @Failure		400			{object}	ContributionResponse
// @Failure		404			{object}	ContributionResponse
// @Failure		503			{object}	ContributionResponse
// @Param			category	path		string				true	"Category"
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			decision	body		ApprovalEditable	true	"Decision"
// @Router			/v1/contributions/{category}/{id}/approval [post]
func ApproveContribution(c *gin.Context) {
	var uri URICategoryID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(http.StatusBadRequest, newContributionResponse(c, models.Contribution{}, invalidRequest(err)))
		return
	}

	var decision ApprovalEditable
	err = httputil.BindData(c, &decision)
	if err != nil {
		c.JSON(http.StatusBadRequest, newContributionResponse(c, models.Contribution{}, invalidRequest(err)))
		return
	}

	s, err := types.ParseStatus(decision.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, newContributionResponse(c, models.Contribution{}, invalidRequest(err)))
		return
	}

	contribution, err := allocation.New(models.DB).SetStatus(c, uri.Category, uri.ID.UUID, s, decision.Remarks)
	c.JSON(statusFor(err, http.StatusOK), newContributionResponse(c, contribution, err))
}
