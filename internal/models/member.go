package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Member is a person living in a family's household. Members are the
// beneficiaries of interventions.
type Member struct {
	DefaultModel
	Family   Family
	FamilyID uuid.UUID `gorm:"type:uuid;index"`
	Name     string
	Relation string
}

func (m Member) Self() string {
	return "Member"
}

func (m *Member) BeforeSave(_ *gorm.DB) error {
	m.Name = strings.TrimSpace(m.Name)
	m.Relation = strings.TrimSpace(m.Relation)

	if m.FamilyID == uuid.Nil {
		return ErrFamilyIDMissing
	}

	if m.Name == "" {
		return ErrMemberNameEmpty
	}

	return nil
}
