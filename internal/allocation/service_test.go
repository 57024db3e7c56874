package allocation_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pe-program/backend/internal/allocation"
	"github.com/pe-program/backend/internal/models"
	"github.com/pe-program/backend/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// TestScenarios runs the allocation lifecycle of a single family in the
// poorest band: filling the cap, hitting it exactly and freeing headroom
// by editing a pending contribution.
func (suite *TestSuiteStandard) TestScenarios() {
	family := suite.createTestFamily(models.Family{Income: decimal.Zero})

	_, assessment, err := suite.service.Assess(context.Background(), family.ID)
	suite.Require().Nil(err)
	suite.Assert().Equal(types.PovertyLevel("Level -4"), assessment.Level)
	suite.Assert().True(assessment.Cap.Equal(d(468000)))

	// A: education fits, health exceeds by 2000
	education, err := suite.submit(family, types.CategoryEducation, 400000)
	suite.Require().Nil(err)
	suite.Assert().Equal(types.StatusPending, education.Status)

	_, err = suite.submit(family, types.CategoryHealth, 70000)
	suite.Require().NotNil(err)
	suite.Assert().Equal(allocation.KindBudgetExceeded, allocation.Kind(err))
	suite.Assert().Contains(err.Error(), "exceeds by PKR 2000")
	suite.assertUsed(family, 400000)

	// B: health for exactly the remainder fits, nothing else does
	_, err = suite.submit(family, types.CategoryHealth, 68000)
	suite.Require().Nil(err)
	suite.assertUsed(family, 468000)

	for _, category := range types.Categories {
		_, err = suite.submit(family, category, 1)
		suite.Assert().Equal(allocation.KindBudgetExceeded, allocation.Kind(err), "category %s accepted a contribution above the cap", category)
	}

	snapshot, err := suite.service.Snapshot(context.Background(), family.ID, nil)
	suite.Require().Nil(err)
	suite.Assert().True(snapshot.Available.IsZero())

	// C: editing education down frees 100000
	_, err = suite.service.Update(context.Background(), types.CategoryEducation, education.ID, oneTime(family, types.CategoryEducation, 300000))
	suite.Require().Nil(err)
	suite.assertUsed(family, 368000)

	_, err = suite.submit(family, types.CategoryFood, 100000)
	suite.Require().Nil(err)
	suite.assertUsed(family, 468000)

	_, err = suite.submit(family, types.CategoryFood, 1)
	suite.Assert().Equal(allocation.KindBudgetExceeded, allocation.Kind(err))
}

func (suite *TestSuiteStandard) TestBudgetExceededDetails() {
	family := suite.createTestFamily(models.Family{})
	_, err := suite.submit(family, types.CategoryEducation, 400000)
	suite.Require().Nil(err)

	_, err = suite.submit(family, types.CategoryHealth, 70000)

	var exceeded *allocation.BudgetExceededError
	suite.Require().ErrorAs(err, &exceeded)
	suite.Assert().True(exceeded.Cap.Equal(d(468000)))
	suite.Assert().True(exceeded.Used.Equal(d(400000)))
	suite.Assert().True(exceeded.Candidate.Equal(d(70000)))
	suite.Assert().Equal("PKR", exceeded.Currency)
}

func (suite *TestSuiteStandard) TestUpdateSameValuesKeepsAggregate() {
	family := suite.createTestFamily(models.Family{})
	_, err := suite.submit(family, types.CategoryHousing, 100000)
	suite.Require().Nil(err)

	sub := oneTime(family, types.CategoryEducation, 368000)
	education, err := suite.service.Submit(context.Background(), types.CategoryEducation, sub)
	suite.Require().Nil(err)
	suite.assertUsed(family, 468000)

	// The cap is used up, but the contribution's own amount does not count against itself
	updated, err := suite.service.Update(context.Background(), types.CategoryEducation, education.ID, sub)
	suite.Require().Nil(err)
	suite.Assert().Equal(education.ID, updated.ID)
	suite.assertUsed(family, 468000)
}

func (suite *TestSuiteStandard) TestUpdateAboveCap() {
	family := suite.createTestFamily(models.Family{})
	education, err := suite.submit(family, types.CategoryEducation, 400000)
	suite.Require().Nil(err)

	_, err = suite.service.Update(context.Background(), types.CategoryEducation, education.ID, oneTime(family, types.CategoryEducation, 468001))
	suite.Assert().Equal(allocation.KindBudgetExceeded, allocation.Kind(err))

	loaded, err := suite.service.Get(context.Background(), types.CategoryEducation, education.ID)
	suite.Require().Nil(err)
	suite.Assert().True(loaded.PEContribution.Equal(d(400000)), "rejected update must not change the record")
	suite.assertUsed(family, 400000)
}

func (suite *TestSuiteStandard) TestUpdateFamilyChange() {
	family := suite.createTestFamily(models.Family{})
	other := suite.createTestFamily(models.Family{})

	education, err := suite.submit(family, types.CategoryEducation, 1000)
	suite.Require().Nil(err)

	_, err = suite.service.Update(context.Background(), types.CategoryEducation, education.ID, oneTime(other, types.CategoryEducation, 1000))
	suite.Assert().Equal(allocation.KindValidation, allocation.Kind(err))
}

func (suite *TestSuiteStandard) TestApproveDoesNotReserveTwice() {
	family := suite.createTestFamily(models.Family{})
	education, err := suite.submit(family, types.CategoryEducation, 468000)
	suite.Require().Nil(err)

	approved, err := suite.service.SetStatus(context.Background(), types.CategoryEducation, education.ID, types.StatusApproved, "committee meeting 12")
	suite.Require().Nil(err)
	suite.Assert().Equal(types.StatusApproved, approved.Status)
	suite.Assert().Equal("committee meeting 12", approved.Remarks)
	suite.assertUsed(family, 468000)

	loaded, err := suite.service.Get(context.Background(), types.CategoryEducation, education.ID)
	suite.Require().Nil(err)
	suite.Assert().Equal(types.StatusApproved, loaded.Status)
}

func (suite *TestSuiteStandard) TestRejectReleasesSupport() {
	family := suite.createTestFamily(models.Family{})
	education, err := suite.submit(family, types.CategoryEducation, 468000)
	suite.Require().Nil(err)

	_, err = suite.service.SetStatus(context.Background(), types.CategoryEducation, education.ID, types.StatusRejected, "")
	suite.Require().Nil(err)
	suite.assertUsed(family, 0)

	_, err = suite.submit(family, types.CategoryFood, 468000)
	suite.Assert().Nil(err)
}

func (suite *TestSuiteStandard) TestAggregateReservingStatuses() {
	family := suite.createTestFamily(models.Family{})

	amounts := map[types.Status]int64{
		types.StatusPending:  1000,
		types.StatusApproved: 2000,
		types.StatusRejected: 4000,
	}

	var expected int64
	for _, status := range types.Statuses {
		c, err := suite.submit(family, types.CategoryEconomic, amounts[status])
		suite.Require().Nil(err)

		if status != types.StatusPending {
			_, err = suite.service.SetStatus(context.Background(), types.CategoryEconomic, c.ID, status, "")
			suite.Require().Nil(err)
		}

		if status.ReservesBudget() {
			expected += amounts[status]
		}
	}

	suite.Assert().Equal(int64(3000), expected)
	suite.assertUsed(family, expected)
}

func (suite *TestSuiteStandard) TestTerminalStatuses() {
	family := suite.createTestFamily(models.Family{})

	for _, status := range []types.Status{types.StatusApproved, types.StatusRejected} {
		c, err := suite.submit(family, types.CategoryEconomic, 1000)
		suite.Require().Nil(err)

		_, err = suite.service.SetStatus(context.Background(), types.CategoryEconomic, c.ID, status, "")
		suite.Require().Nil(err)

		_, err = suite.service.Update(context.Background(), types.CategoryEconomic, c.ID, oneTime(family, types.CategoryEconomic, 10))
		suite.Assert().Equal(allocation.KindValidation, allocation.Kind(err), "update of %s contribution", status)

		err = suite.service.Delete(context.Background(), types.CategoryEconomic, c.ID)
		suite.Assert().Equal(allocation.KindValidation, allocation.Kind(err), "delete of %s contribution", status)

		_, err = suite.service.SetStatus(context.Background(), types.CategoryEconomic, c.ID, types.StatusApproved, "")
		suite.Assert().Equal(allocation.KindValidation, allocation.Kind(err), "approval of %s contribution", status)
	}

	c, err := suite.submit(family, types.CategoryEconomic, 1000)
	suite.Require().Nil(err)

	_, err = suite.service.SetStatus(context.Background(), types.CategoryEconomic, c.ID, types.StatusPending, "")
	suite.Assert().Equal(allocation.KindValidation, allocation.Kind(err))
}

func (suite *TestSuiteStandard) TestDeletePending() {
	family := suite.createTestFamily(models.Family{})
	c, err := suite.submit(family, types.CategoryHousing, 5000)
	suite.Require().Nil(err)
	suite.assertUsed(family, 5000)

	suite.Require().Nil(suite.service.Delete(context.Background(), types.CategoryHousing, c.ID))
	suite.assertUsed(family, 0)

	_, err = suite.service.Get(context.Background(), types.CategoryHousing, c.ID)
	suite.Assert().Equal(allocation.KindNotFound, allocation.Kind(err))
}

func (suite *TestSuiteStandard) TestSnapshotExclude() {
	family := suite.createTestFamily(models.Family{})
	education, err := suite.submit(family, types.CategoryEducation, 100000)
	suite.Require().Nil(err)
	_, err = suite.submit(family, types.CategoryHealth, 50000)
	suite.Require().Nil(err)

	snapshot, err := suite.service.Snapshot(context.Background(), family.ID, nil)
	suite.Require().Nil(err)
	suite.Assert().True(snapshot.AlreadyUsed.Equal(d(150000)))
	suite.Assert().True(snapshot.Available.Equal(d(318000)))

	snapshot, err = suite.service.Snapshot(context.Background(), family.ID, &allocation.Ref{Category: types.CategoryEducation, ID: education.ID})
	suite.Require().Nil(err)
	suite.Assert().True(snapshot.AlreadyUsed.Equal(d(50000)))

	// Excluding an id in another category changes nothing
	snapshot, err = suite.service.Snapshot(context.Background(), family.ID, &allocation.Ref{Category: types.CategoryFood, ID: education.ID})
	suite.Require().Nil(err)
	suite.Assert().True(snapshot.AlreadyUsed.Equal(d(150000)))
}

func (suite *TestSuiteStandard) TestAggregateIgnoresOtherFamilies() {
	family := suite.createTestFamily(models.Family{})
	other := suite.createTestFamily(models.Family{})

	_, err := suite.submit(family, types.CategoryFood, 1000)
	suite.Require().Nil(err)
	_, err = suite.submit(other, types.CategoryFood, 2000)
	suite.Require().Nil(err)

	suite.assertUsed(family, 1000)
	suite.assertUsed(other, 2000)
}

func (suite *TestSuiteStandard) TestNoCapAboveSelfSufficiency() {
	// 60000 for 5 members is 12000 per capita, which is Level +1 in rural areas
	family := suite.createTestFamily(models.Family{Income: d(60000)})

	snapshot, err := suite.service.Snapshot(context.Background(), family.ID, nil)
	suite.Require().Nil(err)
	suite.Assert().Equal(types.PovertyLevel("Level +1"), snapshot.Level)
	suite.Assert().True(snapshot.Cap.IsZero())

	_, err = suite.submit(family, types.CategoryFood, 1)
	suite.Assert().Equal(allocation.KindBudgetExceeded, allocation.Kind(err))
}

func (suite *TestSuiteStandard) TestSubmitValidation() {
	family := suite.createTestFamily(models.Family{})

	_, err := suite.service.Submit(context.Background(), types.CategoryFood, allocation.Submission{})
	suite.Assert().Equal(allocation.KindValidation, allocation.Kind(err), "missing family")

	sub := oneTime(family, types.CategoryFood, 100)
	sub.DurationMonths = 3
	_, err = suite.service.Submit(context.Background(), types.CategoryFood, sub)
	suite.Assert().Equal(allocation.KindValidation, allocation.Kind(err), "duration on food")

	_, err = suite.service.Submit(context.Background(), types.Category("transport"), sub)
	suite.Assert().Equal(allocation.KindValidation, allocation.Kind(err), "unknown category")

	_, err = suite.submit(models.Family{DefaultModel: models.DefaultModel{ID: uuid.New()}}, types.CategoryFood, 100)
	suite.Assert().Equal(allocation.KindNotFound, allocation.Kind(err), "unknown family")
}

func (suite *TestSuiteStandard) TestSubmitDurationTooLong() {
	family := suite.createTestFamily(models.Family{})

	for _, duration := range []uint{allocation.MaxDurationMonths + 1, ^uint(0)} {
		sub := oneTime(family, types.CategoryHealth, 1000)
		sub.DurationMonths = duration

		_, err := suite.service.Submit(context.Background(), types.CategoryHealth, sub)
		var validation *allocation.ValidationError
		suite.Require().ErrorAs(err, &validation, "duration %d", duration)
		suite.Assert().Equal("durationMonths", validation.Field)
	}
	suite.assertUsed(family, 0)

	// Nothing was stored that could lower the aggregate
	_, err := suite.submit(family, types.CategoryFood, 469000)
	suite.Assert().Equal(allocation.KindBudgetExceeded, allocation.Kind(err))
	suite.assertUsed(family, 0)
}

func (suite *TestSuiteStandard) TestUpdateDurationTooLong() {
	family := suite.createTestFamily(models.Family{})

	c, err := suite.submit(family, types.CategoryHealth, 1000)
	suite.Require().Nil(err)

	sub := oneTime(family, types.CategoryHealth, 1000)
	sub.DurationMonths = ^uint(0)
	_, err = suite.service.Update(context.Background(), types.CategoryHealth, c.ID, sub)
	suite.Assert().Equal(allocation.KindValidation, allocation.Kind(err))
	suite.assertUsed(family, 1000)
}

func (suite *TestSuiteStandard) TestSubmitWithoutMembers() {
	family := suite.createTestFamily(models.Family{})
	suite.Require().Nil(models.DB.Model(&family).Update("member_count", 0).Error)

	_, err := suite.submit(family, types.CategoryFood, 100)
	var validation *allocation.ValidationError
	suite.Require().ErrorAs(err, &validation)
	suite.Assert().Equal("memberCount", validation.Field)
}

func (suite *TestSuiteStandard) TestBeneficiary() {
	family := suite.createTestFamily(models.Family{})
	other := suite.createTestFamily(models.Family{})

	member := models.Member{FamilyID: family.ID, Name: "Sana"}
	suite.Require().Nil(models.DB.Create(&member).Error)
	stranger := models.Member{FamilyID: other.ID, Name: "Kamran"}
	suite.Require().Nil(models.DB.Create(&stranger).Error)

	sub := oneTime(family, types.CategoryEducation, 1000)
	sub.BeneficiaryID = &member.ID
	c, err := suite.service.Submit(context.Background(), types.CategoryEducation, sub)
	suite.Require().Nil(err)
	suite.Assert().Equal(member.ID, *c.BeneficiaryID)

	sub.BeneficiaryID = &stranger.ID
	_, err = suite.service.Submit(context.Background(), types.CategoryEducation, sub)
	var validation *allocation.ValidationError
	suite.Require().ErrorAs(err, &validation)
	suite.Assert().Equal("beneficiaryId", validation.Field)
	suite.assertUsed(family, 1000)
}

func (suite *TestSuiteStandard) TestCancelledContext() {
	family := suite.createTestFamily(models.Family{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := suite.service.Submit(ctx, types.CategoryFood, oneTime(family, types.CategoryFood, 100))
	suite.Assert().Equal(allocation.KindTransientStore, allocation.Kind(err))
	suite.assertUsed(family, 0)
}

func (suite *TestSuiteStandard) TestDatabaseClosed() {
	family := suite.createTestFamily(models.Family{})
	suite.CloseDB()

	_, err := suite.submit(family, types.CategoryFood, 100)
	suite.Assert().Equal(allocation.KindTransientStore, allocation.Kind(err))
}

// TestConcurrentSubmissions submits contributions in all categories in
// parallel. Only as many as fit into the cap may be accepted.
func (suite *TestSuiteStandard) TestConcurrentSubmissions() {
	family := suite.createTestFamily(models.Family{})

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	exceeded := 0

	for i := 0; i < 20; i++ {
		category := types.Categories[i%len(types.Categories)]

		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := suite.submit(family, category, 60000)

			mu.Lock()
			defer mu.Unlock()

			switch allocation.Kind(err) {
			case "":
				accepted++
			case allocation.KindBudgetExceeded:
				exceeded++
			}
		}()
	}
	wg.Wait()

	// 7 × 60000 = 420000 fits into 468000, an eighth does not
	assert.Equal(suite.T(), 7, accepted)
	assert.Equal(suite.T(), 13, exceeded)
	suite.assertUsed(family, 420000)
}
