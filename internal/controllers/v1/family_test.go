package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	v1 "github.com/pe-program/backend/internal/controllers/v1"
	"github.com/pe-program/backend/internal/models"
	"github.com/pe-program/backend/internal/types"
	"github.com/pe-program/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestFamiliesCreate() {
	body := []v1.FamilyEditable{
		{FormNumber: "PE-1", HeadName: "Abdul Rehman", Income: decimal.NewFromInt(14000), MemberCount: 5, Area: types.AreaRural},
		{FormNumber: " ", HeadName: "Nobody"},
		{FormNumber: "PE-2", HeadName: "Fatima Bibi", Income: decimal.NewFromInt(-1), MemberCount: 2},
	}

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/families", body)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.FamilyCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Require().Len(response.Data, 3)
	suite.Assert().Nil(response.Data[0].Error)
	suite.Assert().Equal("PE-1", response.Data[0].Data.FormNumber)
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/families/%s", response.Data[0].Data.ID), response.Data[0].Data.Links.Self)
	suite.Assert().Equal(models.ErrFormNumberEmpty.Error(), *response.Data[1].Error)
	suite.Assert().Equal(models.ErrIncomeNegative.Error(), *response.Data[2].Error)
}

func (suite *TestSuiteStandard) TestFamiliesCreateDuplicateFormNumber() {
	_ = createTestFamily(suite.T(), v1.FamilyEditable{FormNumber: "PE-0117"})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/families", []v1.FamilyEditable{{FormNumber: "PE-0117"}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Contains(r.Body.String(), models.ErrFormNumberNotUnique.Error())
}

func (suite *TestSuiteStandard) TestFamiliesCreateBrokenBody() {
	tests := []struct {
		name string
		body string
	}{
		{"Empty", ""},
		{"Not an array", `{"formNumber": "PE-1"}`},
		{"Broken JSON", `[{"formNumber": "PE-1"`},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/families", tt.body)
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestFamiliesList() {
	_ = createTestFamily(suite.T(), v1.FamilyEditable{FormNumber: "PE-1", HeadName: "Abdul Rehman", Area: types.AreaRural})
	_ = createTestFamily(suite.T(), v1.FamilyEditable{FormNumber: "PE-2", HeadName: "Abdul Qadir", Area: types.AreaUrban})
	_ = createTestFamily(suite.T(), v1.FamilyEditable{FormNumber: "PE-3", HeadName: "Fatima Bibi", Area: types.AreaUrban})

	tests := []struct {
		name   string
		query  string
		len    int
		total  int64
		status int
	}{
		{"All", "", 3, 3, http.StatusOK},
		{"Area", "area=urban", 2, 2, http.StatusOK},
		{"Form number", "formNumber=PE-3", 1, 1, http.StatusOK},
		{"Head glob", "head=abdul*", 2, 2, http.StatusOK},
		{"Head glob and area", "head=abdul*&area=urban", 1, 1, http.StatusOK},
		{"Head glob no match", "head=*khan", 0, 0, http.StatusOK},
		{"Limit", "limit=2", 2, 3, http.StatusOK},
		{"Offset", "offset=2", 1, 3, http.StatusOK},
		{"Offset beyond", "offset=5", 0, 3, http.StatusOK},
		{"Limit zero", "limit=0", 0, 3, http.StatusOK},
		{"Unknown area", "area=desert", 0, 0, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/families?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status != http.StatusOK {
				return
			}

			var response v1.FamilyListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.len)
			assert.Equal(t, tt.total, response.Pagination.Total)
			assert.Equal(t, tt.len, response.Pagination.Count)
		})
	}
}

func (suite *TestSuiteStandard) TestFamilyGet() {
	family := createTestFamily(suite.T(), v1.FamilyEditable{HeadName: "Abdul Rehman", Income: decimal.NewFromFloat(14000.5)})

	r := test.Request(suite.T(), http.MethodGet, family.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.FamilyResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(family.Data.ID, response.Data.ID)
	suite.Assert().True(response.Data.Income.Equal(decimal.NewFromFloat(14000.5)))
	suite.Assert().Equal(family.Data.Links.Self+"/allocation", response.Data.Links.Allocation)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/families/%s", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
	suite.Assert().Equal("there is no family matching your query", test.DecodeError(suite.T(), r.Body.Bytes()))

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/families/17", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestFamilyMembers() {
	family := createTestFamily(suite.T(), v1.FamilyEditable{})

	body := []v1.MemberEditable{
		{Name: "Ayesha", Relation: "daughter"},
		{Name: "  "},
	}

	r := test.Request(suite.T(), http.MethodPost, family.Data.Links.Members, body)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var created v1.MemberCreateResponse
	test.DecodeResponse(suite.T(), &r, &created)
	suite.Require().Len(created.Data, 2)
	suite.Assert().Equal(family.Data.ID, created.Data[0].Data.FamilyID)
	suite.Assert().Equal(family.Data.Links.Self, created.Data[0].Data.Links.Family)
	suite.Assert().Equal(models.ErrMemberNameEmpty.Error(), *created.Data[1].Error)

	r = test.Request(suite.T(), http.MethodGet, family.Data.Links.Members, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var members v1.MemberListResponse
	test.DecodeResponse(suite.T(), &r, &members)
	suite.Require().Len(members.Data, 1)
	suite.Assert().Equal("Ayesha", members.Data[0].Name)

	missing := fmt.Sprintf("http://example.com/v1/families/%s/members", uuid.New())
	r = test.Request(suite.T(), http.MethodGet, missing, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = test.Request(suite.T(), http.MethodPost, missing, body)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestFamilyPoverty() {
	tests := []struct {
		name   string
		family v1.FamilyEditable
		level  types.PovertyLevel
		cap    int64
		ratio  string
	}{
		{"Rural poorest", v1.FamilyEditable{Income: decimal.NewFromInt(14000), MemberCount: 5, Area: types.AreaRural}, "Level -4", 468000, "0.3111"},
		{"Urban on threshold", v1.FamilyEditable{Income: decimal.NewFromInt(26000), MemberCount: 4, Area: types.AreaUrban}, "Level -2", 288000, "0.5417"},
		{"Self-sufficient", v1.FamilyEditable{Income: decimal.NewFromInt(30000), MemberCount: 2, Area: types.AreaUrban}, "Level 0", 0, "1.25"},
		{"Unknown area is rural", v1.FamilyEditable{Income: decimal.NewFromInt(8000), MemberCount: 1, Area: types.Area("desert")}, "Level -1", 198000, "0.8889"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			family := createTestFamily(t, tt.family)

			r := test.Request(t, http.MethodGet, family.Data.Links.Poverty, "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.PovertyResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.level, response.Data.Level)
			assert.True(t, response.Data.Cap.Equal(decimal.NewFromInt(tt.cap)), "cap is %s, expected %d", response.Data.Cap, tt.cap)
			assert.True(t, response.Data.SelfSufficiencyRatio.Equal(decimal.RequireFromString(tt.ratio)), "ratio is %s, expected %s", response.Data.SelfSufficiencyRatio, tt.ratio)
			assert.Equal(t, family.Data.ID.String(), response.Data.FamilyID)
			assert.Equal(t, tt.family.Area.OrRural(), response.Data.Area)
		})
	}
}

func (suite *TestSuiteStandard) TestFamilyPovertyErrors() {
	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/families/%s/poverty", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	// Families without members cannot be classified
	family := models.Family{FormNumber: "PE-EMPTY"}
	suite.Require().Nil(models.DB.Create(&family).Error)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/families/%s/poverty", family.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Contains(test.DecodeError(suite.T(), r.Body.Bytes()), "memberCount")
}

func (suite *TestSuiteStandard) TestFamilyAllocation() {
	family := createTestFamily(suite.T(), v1.FamilyEditable{})
	education := submitTestContribution(suite.T(), types.CategoryEducation, oneTime(family.Data.ID, types.CategoryEducation, 400000))

	tests := []struct {
		name      string
		query     string
		status    int
		used      int64
		available int64
	}{
		{"Without exclusion", "", http.StatusOK, 400000, 68000},
		{"Excluding the contribution", fmt.Sprintf("?excludeCategory=education&excludeId=%s", education.Data.ID), http.StatusOK, 0, 468000},
		{"Excluding from another category", fmt.Sprintf("?excludeCategory=health&excludeId=%s", education.Data.ID), http.StatusOK, 400000, 68000},
		{"Only category", "?excludeCategory=education", http.StatusBadRequest, 0, 0},
		{"Only ID", fmt.Sprintf("?excludeId=%s", education.Data.ID), http.StatusBadRequest, 0, 0},
		{"Unknown category", fmt.Sprintf("?excludeCategory=loans&excludeId=%s", education.Data.ID), http.StatusBadRequest, 0, 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, family.Data.Links.Allocation+tt.query, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status != http.StatusOK {
				return
			}

			var response v1.AllocationResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, types.PovertyLevel("Level -4"), response.Data.Level)
			assert.True(t, response.Data.Cap.Equal(decimal.NewFromInt(468000)))
			assert.True(t, response.Data.AlreadyUsed.Equal(decimal.NewFromInt(tt.used)), "used is %s, expected %d", response.Data.AlreadyUsed, tt.used)
			assert.True(t, response.Data.Available.Equal(decimal.NewFromInt(tt.available)), "available is %s, expected %d", response.Data.Available, tt.available)
		})
	}
}
