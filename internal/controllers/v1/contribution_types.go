package v1

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pe-program/backend/internal/allocation"
	"github.com/pe-program/backend/internal/models"
	"github.com/pe-program/backend/internal/types"
	pe_uuid "github.com/pe-program/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

type ContributionEditable struct {
	FamilyID       uuid.UUID              `json:"familyId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`      // ID of the family receiving the support
	BeneficiaryID  *uuid.UUID             `json:"beneficiaryId" example:"d0ca4a1b-e9a1-4dc8-8a84-6dbb3e8ad5c4"` // ID of the member the intervention is for
	Lines          []allocation.LineInput `json:"lines"`                                                        // Cost lines
	DurationMonths uint                   `json:"durationMonths" example:"12" maximum:"1200"`                   // Number of months for recurring lines
	Detail         string                 `json:"detail" example:"private"`                                     // Category specific detail, e.g. the school type
	Remarks        string                 `json:"remarks" example:"Referred by the district office"`            // Free text remarks
}

// submission returns the allocation input for the editable fields
func (editable ContributionEditable) submission() allocation.Submission {
	return allocation.Submission{
		FamilyID:       editable.FamilyID,
		BeneficiaryID:  editable.BeneficiaryID,
		Lines:          editable.Lines,
		DurationMonths: editable.DurationMonths,
		Detail:         editable.Detail,
		Remarks:        editable.Remarks,
	}
}

type ContributionLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/contributions/education/4e743e94-6a4b-44d6-aba5-d77c87103ff7"`              // The contribution itself
	Family   string `json:"family" example:"https://example.com/api/v1/families/3b1ea324-d438-4419-882a-2fc91d71772f"`                           // The family receiving the support
	Approval string `json:"approval" example:"https://example.com/api/v1/contributions/education/4e743e94-6a4b-44d6-aba5-d77c87103ff7/approval"` // Endpoint to approve or reject the contribution
}

type Contribution struct {
	models.DefaultModel
	Category       types.Category    `json:"category" example:"education"`                                 // Intervention category
	FamilyID       uuid.UUID         `json:"familyId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"`      // ID of the family receiving the support
	BeneficiaryID  *uuid.UUID        `json:"beneficiaryId" example:"d0ca4a1b-e9a1-4dc8-8a84-6dbb3e8ad5c4"` // ID of the member the intervention is for
	Lines          []models.CostLine `json:"lines"`                                                        // Calculated cost lines
	DurationMonths uint              `json:"durationMonths" example:"12"`                                  // Number of months for recurring lines
	PEContribution decimal.Decimal   `json:"peContribution" example:"30000"`                               // Program share over the whole duration
	Detail         string            `json:"detail" example:"private"`                                     // Category specific detail
	Status         types.Status      `json:"status" example:"pending" enums:"pending,approved,rejected"`   // Approval status
	Remarks        string            `json:"remarks" example:"Referred by the district office"`            // Free text remarks
	Links          ContributionLinks `json:"links"`
}

// newContribution returns the API v1 representation of the resource
func newContribution(c *gin.Context, model models.Contribution) Contribution {
	url := c.GetString(string(models.DBContextURL))
	self := fmt.Sprintf("%s/v1/contributions/%s/%s", url, model.Category, model.ID)

	return Contribution{
		DefaultModel:   model.DefaultModel,
		Category:       model.Category,
		FamilyID:       model.FamilyID,
		BeneficiaryID:  model.BeneficiaryID,
		Lines:          model.Lines,
		DurationMonths: model.DurationMonths,
		PEContribution: model.PEContribution,
		Detail:         model.Detail,
		Status:         model.Status,
		Remarks:        model.Remarks,
		Links: ContributionLinks{
			Self:     self,
			Family:   fmt.Sprintf("%s/v1/families/%s", url, model.FamilyID),
			Approval: self + "/approval",
		},
	}
}

// Budget is the allocation state reported when a contribution
// exceeds the support still available to a family.
type Budget struct {
	Cap         decimal.Decimal `json:"cap" example:"468000"`         // Support cap of the family
	AlreadyUsed decimal.Decimal `json:"alreadyUsed" example:"400000"` // Support used by other contributions
	Candidate   decimal.Decimal `json:"candidate" example:"100000"`   // Program share of the rejected contribution
	Available   decimal.Decimal `json:"available" example:"68000"`    // Support still available
	Excess      decimal.Decimal `json:"excess" example:"32000"`       // Amount by which the contribution exceeds the available support
}

type ContributionResponse struct {
	Accepted bool          `json:"accepted" example:"false"`                     // Whether the contribution was stored
	Data     *Contribution `json:"data"`                                         // The contribution
	Error    *string       `json:"error" example:"the family must be specified"` // The error, if any occurred
	Kind     string        `json:"kind,omitempty" example:"budget_exceeded"`     // The kind of the error
	Budget   *Budget       `json:"budget,omitempty"`                             // Allocation state if the budget was exceeded
}

// newContributionResponse returns the response for the outcome of a write
func newContributionResponse(c *gin.Context, model models.Contribution, err error) ContributionResponse {
	if err == nil {
		apiResource := newContribution(c, model)
		return ContributionResponse{Accepted: true, Data: &apiResource}
	}

	e := err.Error()
	r := ContributionResponse{Error: &e, Kind: allocation.Kind(err)}

	var exceeded *allocation.BudgetExceededError
	if errors.As(err, &exceeded) {
		r.Budget = &Budget{
			Cap:         exceeded.Cap,
			AlreadyUsed: exceeded.Used,
			Candidate:   exceeded.Candidate,
			Available:   exceeded.Available(),
			Excess:      exceeded.Excess(),
		}
	}

	return r
}

type ContributionCreateResponse struct {
	Error *string                `json:"error" example:"the request body must not be empty"` // The error, if any occurred
	Data  []ContributionResponse `json:"data"`                                               // One result per submitted contribution
}

// appendResult adds the outcome of one submission and returns the updated HTTP status
func (r *ContributionCreateResponse) appendResult(c *gin.Context, model models.Contribution, err error, currentStatus int) int {
	r.Data = append(r.Data, newContributionResponse(c, model, err))
	if err == nil {
		return currentStatus
	}

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ContributionListResponse struct {
	Data       []Contribution `json:"data"`                                    // List of contributions
	Error      *string        `json:"error" example:"unknown status: 'draft'"` // The error, if any occurred
	Pagination *Pagination    `json:"pagination"`                              // Pagination information
}

type ContributionQueryFilter struct {
	Family pe_uuid.UUID `form:"family"` // By family
	Status types.Status `form:"status"` // By status
	Offset uint         `form:"offset"` // The offset of the first contribution returned. Defaults to 0.
	Limit  int          `form:"limit"`  // Maximum number of contributions to return. Defaults to 50.
}

type ApprovalEditable struct {
	Status  string `json:"status" example:"approved" enums:"approved,rejected"` // The decision
	Remarks string `json:"remarks" example:"Fee receipt verified"`              // Remarks on the decision
}

// statusFor returns the HTTP status for a single contribution outcome
func statusFor(err error, success int) int {
	if err == nil {
		return success
	}

	return status(err)
}
