package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationLedger holds the committed program support of a family.
//
// Every write that changes the committed total locks the row and bumps
// Version, so concurrent writers for the same family are serialized.
type AllocationLedger struct {
	FamilyID  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Committed decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Version   uint64
	Timestamps
}

func (l AllocationLedger) Self() string {
	return "Allocation Ledger"
}
