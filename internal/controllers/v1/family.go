package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pe-program/backend/internal/allocation"
	"github.com/pe-program/backend/internal/httputil"
	"github.com/pe-program/backend/internal/models"
	"github.com/ryanuber/go-glob"
	"golang.org/x/exp/slices"
)

func RegisterFamilyRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsFamilies)
		r.GET("", GetFamilies)
		r.POST("", CreateFamilies)
	}
	{
		r.OPTIONS("/:id", OptionsFamilyDetail)
		r.GET("/:id", GetFamily)
	}
	{
		r.OPTIONS("/:id/members", OptionsFamilyMembers)
		r.GET("/:id/members", GetFamilyMembers)
		r.POST("/:id/members", CreateFamilyMembers)
	}
	{
		r.OPTIONS("/:id/poverty", OptionsFamilyPoverty)
		r.GET("/:id/poverty", GetFamilyPoverty)
	}
	{
		r.OPTIONS("/:id/allocation", OptionsFamilyAllocation)
		r.GET("/:id/allocation", GetFamilyAllocation)
	}
}

// getFamily binds the family ID from the URI and loads the family.
func getFamily(c *gin.Context) (models.Family, error) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		return models.Family{}, err
	}

	var family models.Family
	err = models.DB.WithContext(c).First(&family, "id = ?", uri.ID.UUID).Error
	if err != nil {
		return models.Family{}, err
	}

	return family, nil
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Families
// @Success		204
// @Router			/v1/families [options]
func OptionsFamilies(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Families
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		503	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/families/{id} [options]
func OptionsFamilyDetail(c *gin.Context) {
	_, err := getFamily(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Create families
// @Description	Records the intake baseline of new families
// @Tags			Families
// @Produce		json
// @Success		201			{object}	FamilyCreateResponse
// @Failure		400			{object}	FamilyCreateResponse
// @Failure		503			{object}	FamilyCreateResponse
// @Param			families	body		[]FamilyEditable	true	"Families"
// @Router			/v1/families [post]
func CreateFamilies(c *gin.Context) {
	var families []FamilyEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &families)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), FamilyCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := FamilyCreateResponse{}

	for _, create := range families {
		family := create.model()
		err = models.DB.WithContext(c).Create(&family).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		// Transform for the API and append
		apiResource := newFamily(c, family)
		r.Data = append(r.Data, FamilyResponse{Data: &apiResource})
	}

	c.JSON(status, r)
}

// @Summary		Get families
// @Description	Returns a list of families
// @Tags			Families
// @Produce		json
// @Success		200	{object}	FamilyListResponse
// @Failure		400	{object}	FamilyListResponse
// @Failure		503	{object}	FamilyListResponse
// @Router			/v1/families [get]
// @Param			formNumber	query	string	false	"Filter by form number"
// @Param			area		query	string	false	"Filter by area"
// @Param			head		query	string	false	"Filter by name of the head of the household. Supports * as wildcard"
// @Param			offset		query	uint	false	"The offset of the first family returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of families to return. Defaults to 50."
func GetFamilies(c *gin.Context) {
	var filter FamilyQueryFilter

	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, FamilyListResponse{
			Error: &s,
		})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)
	where := filter.model()

	q := models.DB.WithContext(c).
		Order("families.form_number ASC").
		Where(&where, queryFields...)

	var families []models.Family
	err := q.Find(&families).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FamilyListResponse{
			Error: &s,
		})
		return
	}

	// The glob filter on the head of the household is applied
	// to the query result, pagination follows after it
	if filter.Head != "" {
		pattern := strings.ToLower(filter.Head)
		families = slices.DeleteFunc(families, func(f models.Family) bool {
			return !glob.Glob(pattern, strings.ToLower(f.HeadName))
		})
	}

	total := int64(len(families))

	// Default to 50 families and set the limit
	limit := defaultLimit
	if slices.Contains(setFields, "Limit") && filter.Limit >= 0 {
		limit = filter.Limit
	}

	start := min(int(filter.Offset), len(families))
	end := min(start+limit, len(families))
	families = families[start:end]

	// Transform resources to their API representation
	data := make([]Family, 0, len(families))
	for _, family := range families {
		data = append(data, newFamily(c, family))
	}

	c.JSON(http.StatusOK, FamilyListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  total,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get family
// @Description	Returns the baseline of a specific family
// @Tags			Families
// @Produce		json
// @Success		200	{object}	FamilyResponse
// @Failure		400	{object}	FamilyResponse
// @Failure		404	{object}	FamilyResponse
// @Failure		503	{object}	FamilyResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/families/{id} [get]
func GetFamily(c *gin.Context) {
	family, err := getFamily(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), FamilyResponse{
			Error: &e,
		})
		return
	}

	apiResource := newFamily(c, family)
	c.JSON(http.StatusOK, FamilyResponse{Data: &apiResource})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Families
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/families/{id}/poverty [options]
func OptionsFamilyPoverty(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get poverty assessment
// @Description	Returns the poverty level and the support cap of a family, derived with the active poverty schedule
// @Tags			Families
// @Produce		json
// @Success		200	{object}	PovertyResponse
// @Failure		400	{object}	PovertyResponse
// @Failure		404	{object}	PovertyResponse
// @Failure		503	{object}	PovertyResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/families/{id}/poverty [get]
func GetFamilyPoverty(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PovertyResponse{
			Error: &e,
		})
		return
	}

	family, assessment, err := allocation.New(models.DB).Assess(c, uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PovertyResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, PovertyResponse{Data: &Poverty{
		Assessment: assessment,
		FamilyID:   family.ID.String(),
		Area:       family.Area.OrRural(),
		Income:     family.Income,
	}})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Families
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/families/{id}/allocation [options]
func OptionsFamilyAllocation(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get allocation snapshot
// @Description	Returns the support cap of a family, the support already used across all categories and the support still available.
// @Description	Rejected contributions do not count. A contribution that is being edited can be left out with excludeCategory and excludeId.
// @Tags			Families
// @Produce		json
// @Success		200				{object}	AllocationResponse
// @Failure		400				{object}	AllocationResponse
// @Failure		404				{object}	AllocationResponse
// @Failure		503				{object}	AllocationResponse
// @Param			id				path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			excludeCategory	query		string	false	"Category of the contribution to leave out"
// @Param			excludeId		query		string	false	"ID of the contribution to leave out"
// @Router			/v1/families/{id}/allocation [get]
func GetFamilyAllocation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &e,
		})
		return
	}

	var query AllocationQuery
	if err := c.BindQuery(&query); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, AllocationResponse{
			Error: &e,
		})
		return
	}

	var exclude *allocation.Ref
	if query.ExcludeCategory != "" || !query.ExcludeID.IsNil() {
		if query.ExcludeCategory == "" || query.ExcludeID.IsNil() {
			e := errExcludeIncomplete.Error()
			c.JSON(http.StatusBadRequest, AllocationResponse{
				Error: &e,
			})
			return
		}

		exclude = &allocation.Ref{Category: query.ExcludeCategory, ID: query.ExcludeID.UUID}
	}

	snapshot, err := allocation.New(models.DB).Snapshot(c, uri.ID.UUID, exclude)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, AllocationResponse{Data: &snapshot})
}
