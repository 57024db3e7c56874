package allocation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pe-program/backend/internal/models"
	"github.com/pe-program/backend/internal/schedule"
	"github.com/pe-program/backend/internal/types"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultMaxRetries is the number of times a ledger commit is retried
// after a concurrent change before ErrConcurrentAllocation is returned.
const DefaultMaxRetries = 3

// Service submits, updates and decides on contributions while keeping
// every family within its support cap.
type Service struct {
	DB         *gorm.DB
	Schedule   func() *schedule.Schedule
	MaxRetries int
}

// New returns a service using the active poverty schedule.
func New(db *gorm.DB) *Service {
	return &Service{
		DB:         db,
		Schedule:   schedule.Current,
		MaxRetries: DefaultMaxRetries,
	}
}

// Submission is the input for a new or updated contribution.
type Submission struct {
	FamilyID       uuid.UUID
	BeneficiaryID  *uuid.UUID
	Lines          []LineInput
	DurationMonths uint
	Detail         string
	Remarks        string
}

// Snapshot is the allocation state of a family.
type Snapshot struct {
	Level       types.PovertyLevel `json:"level" example:"Level -4"`
	Cap         decimal.Decimal    `json:"cap" example:"468000"`
	AlreadyUsed decimal.Decimal    `json:"alreadyUsed" example:"400000"`
	Available   decimal.Decimal    `json:"available" example:"68000"`
}

// Assess returns a family with its poverty assessment.
func (s *Service) Assess(ctx context.Context, familyID uuid.UUID) (models.Family, schedule.Assessment, error) {
	family, assessment, err := s.assess(s.DB.WithContext(ctx), familyID)
	return family, assessment, classify(err)
}

func (s *Service) assess(db *gorm.DB, familyID uuid.UUID) (models.Family, schedule.Assessment, error) {
	var family models.Family
	err := db.First(&family, "id = ?", familyID).Error
	if err != nil {
		return models.Family{}, schedule.Assessment{}, err
	}

	assessment, err := s.Schedule().Assess(family.Income, family.MemberCount, family.Area)
	if err != nil {
		return models.Family{}, schedule.Assessment{}, err
	}

	return family, assessment, nil
}

// Snapshot returns the cap, the support already used and the support still
// available for a family. If exclude is set, the referenced contribution
// does not count as used.
func (s *Service) Snapshot(ctx context.Context, familyID uuid.UUID, exclude *Ref) (Snapshot, error) {
	db := s.DB.WithContext(ctx)

	_, assessment, err := s.assess(db, familyID)
	if err != nil {
		return Snapshot{}, classify(err)
	}

	used, err := Aggregate(db, familyID, exclude)
	if err != nil {
		return Snapshot{}, classify(err)
	}

	return Snapshot{
		Level:       assessment.Level,
		Cap:         assessment.Cap,
		AlreadyUsed: used,
		Available:   decimal.Max(decimal.Zero, assessment.Cap.Sub(used)),
	}, nil
}

// Get returns a single contribution.
func (s *Service) Get(ctx context.Context, category types.Category, id uuid.UUID) (models.Contribution, error) {
	var contribution models.Contribution
	err := s.DB.WithContext(ctx).Table(category.Table()).First(&contribution, "id = ?", id).Error
	if err != nil {
		return models.Contribution{}, classify(err)
	}

	contribution.Category = category
	return contribution, nil
}

// Submit creates a pending contribution if it fits into the family's
// available support.
func (s *Service) Submit(ctx context.Context, category types.Category, sub Submission) (c models.Contribution, err error) {
	defer func() { observe(string(category), err) }()

	d, err := DescriptorFor(category)
	if err != nil {
		return models.Contribution{}, classify(err)
	}

	if sub.FamilyID == uuid.Nil {
		return models.Contribution{}, invalid("familyId", "the family must be specified")
	}

	err = d.Validate(sub.Lines, sub.DurationMonths, sub.Detail)
	if err != nil {
		return models.Contribution{}, err
	}

	calc := d.Calculate(sub.Lines, sub.DurationMonths)
	contribution := models.Contribution{
		Category:       category,
		FamilyID:       sub.FamilyID,
		BeneficiaryID:  sub.BeneficiaryID,
		Lines:          calc.Lines,
		DurationMonths: calc.DurationMonths,
		PEContribution: calc.PEContribution,
		Detail:         sub.Detail,
		Status:         types.StatusPending,
		Remarks:        sub.Remarks,
	}

	err = s.commit(ctx, write{
		category:  category,
		familyID:  sub.FamilyID,
		candidate: &calc.PEContribution,
		check: func(tx *gorm.DB) error {
			return checkBeneficiary(tx, sub.FamilyID, sub.BeneficiaryID)
		},
		apply: func(tx *gorm.DB) error {
			return tx.Table(category.Table()).Create(&contribution).Error
		},
	})
	if err != nil {
		return models.Contribution{}, err
	}

	log.Info().Str("family", sub.FamilyID.String()).Str("category", string(category)).Str("record", contribution.ID.String()).Str("peContribution", contribution.PEContribution.String()).Msg("contribution submitted")
	return contribution, nil
}

// Update replaces a pending contribution. The guard runs with the
// contribution's own amount excluded from the used support.
func (s *Service) Update(ctx context.Context, category types.Category, id uuid.UUID, sub Submission) (c models.Contribution, err error) {
	defer func() { observe(string(category), err) }()

	d, err := DescriptorFor(category)
	if err != nil {
		return models.Contribution{}, classify(err)
	}

	existing, err := s.Get(ctx, category, id)
	if err != nil {
		return models.Contribution{}, err
	}

	if sub.FamilyID != uuid.Nil && sub.FamilyID != existing.FamilyID {
		return models.Contribution{}, invalid("familyId", "the family of a contribution cannot be changed")
	}

	err = d.Validate(sub.Lines, sub.DurationMonths, sub.Detail)
	if err != nil {
		return models.Contribution{}, err
	}

	calc := d.Calculate(sub.Lines, sub.DurationMonths)
	var updated models.Contribution

	err = s.commit(ctx, write{
		category:  category,
		familyID:  existing.FamilyID,
		exclude:   &Ref{Category: category, ID: id},
		candidate: &calc.PEContribution,
		check: func(tx *gorm.DB) error {
			current, err := pending(tx, category, id)
			if err != nil {
				return err
			}

			updated = current
			return checkBeneficiary(tx, existing.FamilyID, sub.BeneficiaryID)
		},
		apply: func(tx *gorm.DB) error {
			updated.BeneficiaryID = sub.BeneficiaryID
			updated.Lines = calc.Lines
			updated.DurationMonths = calc.DurationMonths
			updated.PEContribution = calc.PEContribution
			updated.Detail = sub.Detail
			updated.Remarks = sub.Remarks

			return tx.Table(category.Table()).Save(&updated).Error
		},
	})
	if err != nil {
		return models.Contribution{}, err
	}

	updated.Category = category
	log.Info().Str("family", updated.FamilyID.String()).Str("category", string(category)).Str("record", id.String()).Str("peContribution", updated.PEContribution.String()).Msg("contribution updated")
	return updated, nil
}

// SetStatus approves or rejects a pending contribution.
//
// Pending contributions already reserve their support, so approval does
// not run the guard again. Rejection releases the reserved support.
func (s *Service) SetStatus(ctx context.Context, category types.Category, id uuid.UUID, status types.Status, remarks string) (models.Contribution, error) {
	if status != types.StatusApproved && status != types.StatusRejected {
		return models.Contribution{}, invalid("status", "contributions can only be approved or rejected")
	}

	existing, err := s.Get(ctx, category, id)
	if err != nil {
		return models.Contribution{}, err
	}

	var decided models.Contribution
	err = s.commit(ctx, write{
		category: category,
		familyID: existing.FamilyID,
		check: func(tx *gorm.DB) error {
			current, err := pending(tx, category, id)
			decided = current
			return err
		},
		apply: func(tx *gorm.DB) error {
			updates := map[string]any{"status": status}
			if remarks != "" {
				updates["remarks"] = remarks
			}

			return tx.Table(category.Table()).Model(&decided).Updates(updates).Error
		},
	})
	if err != nil {
		return models.Contribution{}, err
	}

	decided.Category = category
	decided.Status = status
	if remarks != "" {
		decided.Remarks = remarks
	}
	log.Info().Str("family", decided.FamilyID.String()).Str("category", string(category)).Str("record", id.String()).Str("status", string(status)).Msg("contribution decided")
	return decided, nil
}

// Delete deletes a pending contribution and releases its support.
func (s *Service) Delete(ctx context.Context, category types.Category, id uuid.UUID) error {
	existing, err := s.Get(ctx, category, id)
	if err != nil {
		return err
	}

	err = s.commit(ctx, write{
		category: category,
		familyID: existing.FamilyID,
		check: func(tx *gorm.DB) error {
			_, err := pending(tx, category, id)
			return err
		},
		apply: func(tx *gorm.DB) error {
			return tx.Table(category.Table()).Delete(&models.Contribution{}, "id = ?", id).Error
		},
	})
	if err != nil {
		return err
	}

	log.Info().Str("family", existing.FamilyID.String()).Str("category", string(category)).Str("record", id.String()).Msg("contribution deleted")
	return nil
}

// write is a change to a family's contributions.
type write struct {
	category  types.Category
	familyID  uuid.UUID
	exclude   *Ref
	candidate *decimal.Decimal // nil skips the guard
	check     func(tx *gorm.DB) error
	apply     func(tx *gorm.DB) error
}

// commit runs a write in a ledger transaction and retries it when the
// ledger was changed concurrently.
func (s *Service) commit(ctx context.Context, w write) error {
	for attempt := 0; ; attempt++ {
		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.commitOnce(tx, w)
		})

		if errors.Is(err, ErrConcurrentAllocation) && attempt < s.MaxRetries {
			retryCount.Inc()
			log.Debug().Str("family", w.familyID.String()).Int("attempt", attempt+1).Msg("ledger changed concurrently, retrying")
			continue
		}

		return classify(err)
	}
}

// commitOnce locks the family's ledger, runs the guard against the support
// recomputed from all category tables, applies the write and stores the new
// committed total with a version check.
func (s *Service) commitOnce(tx *gorm.DB, w write) error {
	_, assessment, err := s.assess(tx, w.familyID)
	if err != nil {
		return err
	}

	ledger, err := lockLedger(tx, w.familyID)
	if err != nil {
		return err
	}

	if w.check != nil {
		err = w.check(tx)
		if err != nil {
			return err
		}
	}

	if w.candidate != nil {
		used, err := Aggregate(tx, w.familyID, w.exclude)
		if err != nil {
			return err
		}

		err = Guard(assessment.Cap, used, *w.candidate, s.Schedule().Currency)
		if err != nil {
			log.Info().Str("family", w.familyID.String()).Str("category", string(w.category)).Err(err).Msg("contribution rejected by allocation guard")
			return err
		}
	}

	err = w.apply(tx)
	if err != nil {
		return err
	}

	committed, err := Aggregate(tx, w.familyID, nil)
	if err != nil {
		return err
	}

	result := tx.Model(&models.AllocationLedger{}).
		Where("family_id = ? AND version = ?", w.familyID, ledger.Version).
		Updates(map[string]any{"committed": committed, "version": ledger.Version + 1})
	if result.Error != nil {
		return fmt.Errorf("updating allocation ledger: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrConcurrentAllocation
	}

	return nil
}

// lockLedger returns the ledger of a family, creating it if necessary, and
// locks it for the rest of the transaction. SQLite ignores the lock clause,
// there the single connection serializes all transactions.
func lockLedger(tx *gorm.DB, familyID uuid.UUID) (models.AllocationLedger, error) {
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.AllocationLedger{FamilyID: familyID, Committed: decimal.Zero}).Error
	if err != nil {
		return models.AllocationLedger{}, fmt.Errorf("creating allocation ledger: %w", err)
	}

	var ledger models.AllocationLedger
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ledger, "family_id = ?", familyID).Error
	if err != nil {
		return models.AllocationLedger{}, err
	}

	return ledger, nil
}

// Ledger returns the committed support stored for a family. Families
// without any committed write have an empty ledger.
func (s *Service) Ledger(ctx context.Context, familyID uuid.UUID) (models.AllocationLedger, error) {
	var ledger models.AllocationLedger
	err := s.DB.WithContext(ctx).First(&ledger, "family_id = ?", familyID).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return models.AllocationLedger{FamilyID: familyID, Committed: decimal.Zero}, nil
	}

	return ledger, classify(err)
}

// pending loads a contribution in a transaction and verifies that it can
// still be changed.
func pending(tx *gorm.DB, category types.Category, id uuid.UUID) (models.Contribution, error) {
	var contribution models.Contribution
	err := tx.Table(category.Table()).First(&contribution, "id = ?", id).Error
	if err != nil {
		return models.Contribution{}, err
	}

	if contribution.Status.Terminal() {
		return models.Contribution{}, invalid("status", "the contribution is %s and cannot be changed", contribution.Status)
	}

	return contribution, nil
}

func checkBeneficiary(tx *gorm.DB, familyID uuid.UUID, beneficiaryID *uuid.UUID) error {
	if beneficiaryID == nil {
		return nil
	}

	var count int64
	err := tx.Model(&models.Member{}).Where("id = ? AND family_id = ?", *beneficiaryID, familyID).Count(&count).Error
	if err != nil {
		return err
	}

	if count == 0 {
		return invalid("beneficiaryId", "the beneficiary is not a member of the family")
	}

	return nil
}
