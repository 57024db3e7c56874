package models

import (
	"strings"

	"github.com/pe-program/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Family is the baseline of a household as recorded at intake.
type Family struct {
	DefaultModel
	FormNumber  string `gorm:"uniqueIndex"`
	HeadName    string
	Income      decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // Monthly household income
	MemberCount uint
	Area        types.Area
}

func (f Family) Self() string {
	return "Family"
}

func (f *Family) BeforeSave(_ *gorm.DB) error {
	f.FormNumber = strings.TrimSpace(f.FormNumber)
	f.HeadName = strings.TrimSpace(f.HeadName)

	if f.FormNumber == "" {
		return ErrFormNumberEmpty
	}

	if f.Income.IsNegative() {
		return ErrIncomeNegative
	}

	return nil
}
