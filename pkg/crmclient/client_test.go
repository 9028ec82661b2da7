package crmclient_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"crm/internal/config"
	"crm/internal/infra"
	"crm/internal/model"
	"crm/pkg/crmclient"
)

type clientTestSuite struct {
	suite.Suite
	db     *gorm.DB
	server *httptest.Server
	client *crmclient.Client
	ctx    context.Context
}

func (s *clientTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open("file:clienttest?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	s.Require().NoError(err, "failed to open in-memory store")

	err = db.AutoMigrate(&model.Customer{}, &model.Contact{}, &model.Opportunity{})
	s.Require().NoError(err, "failed to migrate schema")

	app, err := infra.Router(db, nil, config.APICfg{WebOrigin: "http://localhost:7000"})
	s.Require().NoError(err, "failed to assemble application")

	s.db = db
	s.server = httptest.NewServer(app)
	s.client = crmclient.New(s.server.URL+"/api", 0)
	s.ctx = context.Background()
}

func (s *clientTestSuite) TearDownSuite() {
	s.server.Close()
}

func (s *clientTestSuite) SetupTest() {
	s.Require().NoError(s.db.Exec("DELETE FROM contacts").Error)
	s.Require().NoError(s.db.Exec("DELETE FROM opportunities").Error)
	s.Require().NoError(s.db.Exec("DELETE FROM customers").Error)
}

func (s *clientTestSuite) mustCreateCustomer(email string) *model.Customer {
	created, err := s.client.CreateCustomer(s.ctx, &model.Customer{
		FirstName: "Nora",
		LastName:  "Reyes",
		Email:     email,
	})
	s.Require().NoError(err)
	s.Require().NotZero(created.ID)
	return created
}

func (s *clientTestSuite) TestCustomerRoundTrip() {
	created := s.mustCreateCustomer("roundtrip@mail.com")
	s.Assert().Equal("Active", created.Status)

	created.Company = str("Initech")
	s.Require().NoError(s.client.UpdateCustomer(s.ctx, created))

	found, err := s.client.Customer(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.Company)
	s.Assert().Equal("Initech", *found.Company)
	s.Assert().NotNil(found.LastModifiedDate)

	s.Require().NoError(s.client.DeleteCustomer(s.ctx, created.ID))

	_, err = s.client.Customer(s.ctx, created.ID)
	s.Require().Error(err)
	s.Assert().True(crmclient.IsNotFound(err), "deleted customer must read as not found, got %v", err)
}

func (s *clientTestSuite) TestCustomersListTotals() {
	for i := 0; i < 12; i++ {
		s.mustCreateCustomer(fmt.Sprintf("page%02d@mail.com", i))
	}

	customers, total, err := s.client.Customers(s.ctx, crmclient.CustomerQuery{Page: 2, PageSize: 5})
	s.Require().NoError(err)
	s.Assert().EqualValues(12, total, "total reflects all matches, not the page")
	s.Assert().Len(customers, 5)
}

func (s *clientTestSuite) TestCustomersSearch() {
	s.mustCreateCustomer("findme@mail.com")
	s.mustCreateCustomer("skipme@mail.com")

	customers, total, err := s.client.Customers(s.ctx, crmclient.CustomerQuery{Search: "findme"})
	s.Require().NoError(err)
	s.Assert().EqualValues(1, total)
	s.Require().Len(customers, 1)
	s.Assert().Equal("findme@mail.com", customers[0].Email)
}

func (s *clientTestSuite) TestDuplicateEmailSurfacesAsStatusError() {
	s.mustCreateCustomer("unique@mail.com")

	_, err := s.client.CreateCustomer(s.ctx, &model.Customer{
		FirstName: "Copy",
		LastName:  "Cat",
		Email:     "unique@mail.com",
	})
	s.Require().Error(err)

	var statusErr *crmclient.StatusError
	s.Require().ErrorAs(err, &statusErr)
	s.Assert().Equal(http.StatusBadRequest, statusErr.StatusCode)
	s.Assert().Contains(statusErr.Body, "email", "body must carry the violated field")
	s.Assert().False(crmclient.IsNotFound(err))
}

func (s *clientTestSuite) TestContactRoundTrip() {
	owner := s.mustCreateCustomer("contacts@mail.com")

	created, err := s.client.CreateContact(s.ctx, &model.Contact{
		CustomerID: owner.ID,
		Type:       "Phone",
		Subject:    "Kickoff",
	})
	s.Require().NoError(err)
	s.Require().NotNil(created.Customer, "create must return the resolved customer")
	s.Assert().Equal(owner.ID, created.Customer.ID)

	byCustomer, err := s.client.ContactsByCustomer(s.ctx, owner.ID)
	s.Require().NoError(err)
	s.Assert().Len(byCustomer, 1)

	s.Require().NoError(s.client.DeleteContact(s.ctx, created.ID))

	_, err = s.client.Contact(s.ctx, created.ID)
	s.Assert().True(crmclient.IsNotFound(err))
}

func (s *clientTestSuite) TestOpportunityStats() {
	owner := s.mustCreateCustomer("stats@mail.com")

	for _, o := range []model.Opportunity{
		{Title: "A", Stage: "Proposal", Status: "Open", EstimatedValue: decimal.NewFromInt(100)},
		{Title: "B", Stage: "Proposal", Status: "Open", EstimatedValue: decimal.NewFromInt(200)},
		{Title: "C", Stage: "Negotiation", Status: "Won", EstimatedValue: decimal.NewFromInt(50)},
	} {
		o.CustomerID = owner.ID
		_, err := s.client.CreateOpportunity(s.ctx, &o)
		s.Require().NoError(err)
	}

	stats, err := s.client.OpportunityStats(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(3, stats.TotalOpportunities)
	s.Assert().Equal(2, stats.OpenOpportunities)
	s.Assert().True(decimal.NewFromInt(300).Equal(stats.PipelineValue), "got %s", stats.PipelineValue)
	s.Assert().True(decimal.NewFromInt(50).Equal(stats.WonValue), "got %s", stats.WonValue)
	s.Require().Len(stats.StageBreakdown, 1)
	s.Assert().Equal("Proposal", stats.StageBreakdown[0].Stage)
}

func (s *clientTestSuite) TestOpportunitiesFilterByCustomer() {
	first := s.mustCreateCustomer("first@mail.com")
	second := s.mustCreateCustomer("second@mail.com")

	for _, customerID := range []int64{first.ID, first.ID, second.ID} {
		_, err := s.client.CreateOpportunity(s.ctx, &model.Opportunity{
			CustomerID:     customerID,
			Title:          "Deal",
			Stage:          "Prospecting",
			EstimatedValue: decimal.NewFromInt(10),
		})
		s.Require().NoError(err)
	}

	_, total, err := s.client.Opportunities(s.ctx, crmclient.OpportunityQuery{CustomerID: first.ID})
	s.Require().NoError(err)
	s.Assert().EqualValues(2, total)

	byCustomer, err := s.client.OpportunitiesByCustomer(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Assert().Len(byCustomer, 1)
}

func str(s string) *string {
	return &s
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(clientTestSuite))
}
