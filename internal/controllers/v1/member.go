package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pe-program/backend/internal/httputil"
	"github.com/pe-program/backend/internal/models"
)

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Families
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/families/{id}/members [options]
func OptionsFamilyMembers(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Get members
// @Description	Returns the members of a family
// @Tags			Families
// @Produce		json
// @Success		200	{object}	MemberListResponse
// @Failure		400	{object}	MemberListResponse
// @Failure		404	{object}	MemberListResponse
// @Failure		503	{object}	MemberListResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/families/{id}/members [get]
func GetFamilyMembers(c *gin.Context) {
	family, err := getFamily(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MemberListResponse{
			Error: &e,
		})
		return
	}

	var members []models.Member
	err = models.DB.WithContext(c).
		Where(&models.Member{FamilyID: family.ID}).
		Order("created_at ASC, name ASC").
		Find(&members).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MemberListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Member, 0, len(members))
	for _, member := range members {
		data = append(data, newMember(c, member))
	}

	c.JSON(http.StatusOK, MemberListResponse{Data: data})
}

// @Summary		Create members
// @Description	Adds members to the household of a family
// @Tags			Families
// @Produce		json
// @Success		201		{object}	MemberCreateResponse
// @Failure		400		{object}	MemberCreateResponse
// @Failure		404		{object}	MemberCreateResponse
// @Failure		503		{object}	MemberCreateResponse
// @Param			id		path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			members	body		[]MemberEditable	true	"Members"
// @Router			/v1/families/{id}/members [post]
func CreateFamilyMembers(c *gin.Context) {
	family, err := getFamily(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MemberCreateResponse{
			Error: &e,
		})
		return
	}

	var members []MemberEditable
	err = httputil.BindData(c, &members)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MemberCreateResponse{
			Error: &e,
		})
		return
	}

	status := http.StatusCreated
	r := MemberCreateResponse{}

	for _, create := range members {
		member := create.model(family.ID)
		err = models.DB.WithContext(c).Create(&member).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		apiResource := newMember(c, member)
		r.Data = append(r.Data, MemberResponse{Data: &apiResource})
	}

	c.JSON(status, r)
}
