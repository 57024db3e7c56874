package v1_test

import (
	"net/http"
	"testing"

	v1 "github.com/pe-program/backend/internal/controllers/v1"
	"github.com/pe-program/backend/internal/models"
	"github.com/pe-program/backend/internal/types"
	"github.com/pe-program/backend/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestCleanup() {
	family := createTestFamily(suite.T(), v1.FamilyEditable{})
	r := test.Request(suite.T(), http.MethodPost, family.Data.Links.Members, []v1.MemberEditable{{Name: "Ayesha"}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	for _, category := range types.Categories {
		_ = submitTestContribution(suite.T(), category, oneTime(family.Data.ID, category, 1000))
	}

	tests := []string{
		"http://example.com/v1/families",
		"http://example.com/v1/contributions/education",
		"http://example.com/v1/contributions/health",
		"http://example.com/v1/contributions/housing",
		"http://example.com/v1/contributions/food",
		"http://example.com/v1/contributions/economic",
	}

	// Delete
	recorder := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1?confirm=yes-please-delete-everything", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	// Verify
	for _, tt := range tests {
		suite.T().Run(tt, func(t *testing.T) {
			recorder := test.Request(suite.T(), http.MethodGet, tt, "")
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

			var response struct {
				Data []any `json:"data"`
			}

			test.DecodeResponse(t, &recorder, &response)
			assert.Len(t, response.Data, 0, "There are resources left for type %s", tt)
		})
	}

	var count int64
	suite.Require().Nil(models.DB.Model(&models.Member{}).Count(&count).Error)
	suite.Assert().Zero(count)
	suite.Require().Nil(models.DB.Model(&models.AllocationLedger{}).Count(&count).Error)
	suite.Assert().Zero(count)
}

func (suite *TestSuiteStandard) TestCleanupFails() {
	tests := []struct {
		name string
		path string
	}{
		{"Invalid path", "confirm=2"},
		{"Confirmation typo", "confirm=yes-please-delete-everythin"},
		{"No confirmation", ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodDelete, "http://example.com/v1?"+tt.path, "")
			test.AssertHTTPStatus(t, &recorder, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestCleanupDatabaseClosed() {
	suite.CloseDB()

	recorder := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1?confirm=yes-please-delete-everything", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusServiceUnavailable)
}
