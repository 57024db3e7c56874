package v1

import (
	"github.com/pe-program/backend/internal/types"
	pe_uuid "github.com/pe-program/backend/internal/uuid"
)

type URIID struct {
	ID pe_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type URICategory struct {
	Category types.Category `uri:"category" binding:"required" example:"education"` // Intervention category
}

type URICategoryID struct {
	URICategory
	URIID
}

type Pagination struct {
	Count  int   `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint  `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int   `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total" example:"827"` // The total number of resources matching the query
}

// defaultLimit is the number of resources returned by list endpoints
// if no limit is specified.
const defaultLimit = 50
