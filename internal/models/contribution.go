package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pe-program/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CostLine is a single cost line of a contribution.
type CostLine struct {
	Name               string          `json:"name" example:"tuition"`
	Total              decimal.Decimal `json:"total" example:"3000" swaggertype:"string"`
	FamilyContribution decimal.Decimal `json:"familyContribution" example:"1000" swaggertype:"string"`
	PEContribution     decimal.Decimal `json:"peContribution" example:"2000" swaggertype:"string"` // Program share for the whole duration
}

// Contribution is an intervention record. Every category stores its
// contributions in a table of its own, see types.Category.Table.
type Contribution struct {
	DefaultModel
	Category       types.Category `gorm:"-"`
	FamilyID       uuid.UUID      `gorm:"type:uuid;not null"`
	BeneficiaryID  *uuid.UUID     `gorm:"type:uuid"`
	Lines          []CostLine     `gorm:"serializer:json;type:text"`
	DurationMonths uint
	PEContribution decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Detail         string
	Status         types.Status
	Remarks        string
}

func (c Contribution) Self() string {
	return "Contribution"
}

func (c *Contribution) BeforeSave(_ *gorm.DB) error {
	c.Detail = strings.TrimSpace(c.Detail)
	c.Remarks = strings.TrimSpace(c.Remarks)

	if c.FamilyID == uuid.Nil {
		return ErrFamilyIDMissing
	}

	if c.Status == "" {
		c.Status = types.StatusPending
	}

	return nil
}
