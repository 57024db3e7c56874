package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/pe-program/backend/internal/allocation"
	"github.com/pe-program/backend/internal/models"
	"github.com/pe-program/backend/internal/schedule"
	"github.com/pe-program/backend/internal/types"
	pe_uuid "github.com/pe-program/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

type FamilyEditable struct {
	FormNumber  string          `json:"formNumber" example:"PE-2024-0117"`                                                          // Intake form number, unique per family
	HeadName    string          `json:"headName" example:"Abdul Rehman"`                                                            // Name of the head of the household
	Income      decimal.Decimal `json:"income" example:"14000" minimum:"0" maximum:"999999999999.99999999" multipleOf:"0.00000001"` // Monthly household income
	MemberCount uint            `json:"memberCount" example:"6"`                                                                    // Number of people living in the household
	Area        types.Area      `json:"area" example:"rural" enums:"rural,urban,peri-urban"`                                        // Settlement type of the residence
}

// model returns the database resource for the API representation of the editable fields
func (editable FamilyEditable) model() models.Family {
	return models.Family{
		FormNumber:  editable.FormNumber,
		HeadName:    editable.HeadName,
		Income:      editable.Income,
		MemberCount: editable.MemberCount,
		Area:        editable.Area,
	}
}

type FamilyLinks struct {
	Self       string `json:"self" example:"https://example.com/api/v1/families/3b1ea324-d438-4419-882a-2fc91d71772f"`                  // The family itself
	Members    string `json:"members" example:"https://example.com/api/v1/families/3b1ea324-d438-4419-882a-2fc91d71772f/members"`       // Members of the family
	Poverty    string `json:"poverty" example:"https://example.com/api/v1/families/3b1ea324-d438-4419-882a-2fc91d71772f/poverty"`       // Poverty assessment
	Allocation string `json:"allocation" example:"https://example.com/api/v1/families/3b1ea324-d438-4419-882a-2fc91d71772f/allocation"` // Allocation snapshot
}

type Family struct {
	models.DefaultModel
	FamilyEditable
	Links FamilyLinks `json:"links"`
}

// newFamily returns the API v1 representation of the resource
func newFamily(c *gin.Context, model models.Family) Family {
	url := c.GetString(string(models.DBContextURL))
	self := fmt.Sprintf("%s/v1/families/%s", url, model.ID)

	return Family{
		DefaultModel: model.DefaultModel,
		FamilyEditable: FamilyEditable{
			FormNumber:  model.FormNumber,
			HeadName:    model.HeadName,
			Income:      model.Income,
			MemberCount: model.MemberCount,
			Area:        model.Area,
		},
		Links: FamilyLinks{
			Self:       self,
			Members:    self + "/members",
			Poverty:    self + "/poverty",
			Allocation: self + "/allocation",
		},
	}
}

type FamilyListResponse struct {
	Data       []Family    `json:"data"`                                                          // List of resources
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type FamilyCreateResponse struct {
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []FamilyResponse `json:"data"`                                                          // List of created resources
}

func (f *FamilyCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	f.Data = append(f.Data, FamilyResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type FamilyResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Family `json:"data"`                                                          // The resource
}

type FamilyQueryFilter struct {
	FormNumber string     `form:"formNumber"`                 // By form number
	Area       types.Area `form:"area"`                       // By area
	Head       string     `form:"head" filterField:"false"`   // By name of the head of the household, supports * as wildcard
	Offset     uint       `form:"offset" filterField:"false"` // The offset of the first family returned. Defaults to 0.
	Limit      int        `form:"limit" filterField:"false"`  // Maximum number of families to return. Defaults to 50.
}

func (f FamilyQueryFilter) model() models.Family {
	return models.Family{
		FormNumber: f.FormNumber,
		Area:       f.Area,
	}
}

type Poverty struct {
	schedule.Assessment
	FamilyID string          `json:"familyId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // ID of the assessed family
	Area     types.Area      `json:"area" example:"rural"`                                    // Area used for the classification
	Income   decimal.Decimal `json:"income" example:"14000"`                                  // Monthly household income
}

type PovertyResponse struct {
	Error *string  `json:"error" example:"the family has no members"` // The error, if any occurred
	Data  *Poverty `json:"data"`                                      // The poverty assessment
}

type AllocationQuery struct {
	ExcludeCategory types.Category `form:"excludeCategory" example:"education"`                      // Category of a contribution to leave out
	ExcludeID       pe_uuid.UUID   `form:"excludeId" example:"4e743e94-6a4b-44d6-aba5-d77c87103ff7"` // ID of a contribution to leave out
}

type AllocationResponse struct {
	Error *string              `json:"error" example:"there is no family matching your query"` // The error, if any occurred
	Data  *allocation.Snapshot `json:"data"`                                                   // The allocation snapshot
}
