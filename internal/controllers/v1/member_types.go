package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pe-program/backend/internal/models"
)

type MemberEditable struct {
	Name     string `json:"name" example:"Ayesha"`       // Name of the member
	Relation string `json:"relation" example:"daughter"` // Relation to the head of the household
}

// model returns the database resource for the API representation of the editable fields
func (editable MemberEditable) model(familyID uuid.UUID) models.Member {
	return models.Member{
		FamilyID: familyID,
		Name:     editable.Name,
		Relation: editable.Relation,
	}
}

type MemberLinks struct {
	Family string `json:"family" example:"https://example.com/api/v1/families/3b1ea324-d438-4419-882a-2fc91d71772f"` // The family the member belongs to
}

type Member struct {
	models.DefaultModel
	FamilyID uuid.UUID `json:"familyId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // ID of the family
	MemberEditable
	Links MemberLinks `json:"links"`
}

// newMember returns the API v1 representation of the resource
func newMember(c *gin.Context, model models.Member) Member {
	url := c.GetString(string(models.DBContextURL))

	return Member{
		DefaultModel: model.DefaultModel,
		FamilyID:     model.FamilyID,
		MemberEditable: MemberEditable{
			Name:     model.Name,
			Relation: model.Relation,
		},
		Links: MemberLinks{
			Family: fmt.Sprintf("%s/v1/families/%s", url, model.FamilyID),
		},
	}
}

type MemberListResponse struct {
	Data  []Member `json:"data"`                                                   // List of members
	Error *string  `json:"error" example:"there is no family matching your query"` // The error, if any occurred
}

type MemberCreateResponse struct {
	Error *string          `json:"error" example:"there is no family matching your query"` // The error, if any occurred
	Data  []MemberResponse `json:"data"`                                                   // List of created members
}

func (m *MemberCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	m.Data = append(m.Data, MemberResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type MemberResponse struct {
	Error *string `json:"error" example:"the name of a member must not be empty"` // The error, if any occurred
	Data  *Member `json:"data"`                                                   // The member
}
