package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"crm/internal/model"
)

type repositoryTestSuite struct {
	suite.Suite
	db              *gorm.DB
	customerRepo    CustomerRepository
	contactRepo     ContactRepository
	opportunityRepo OpportunityRepository
	ctx             context.Context
}

func (s *repositoryTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open("file:repositorytest?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	s.Require().NoError(err, "failed to open in-memory store")

	err = db.AutoMigrate(&model.Customer{}, &model.Contact{}, &model.Opportunity{})
	s.Require().NoError(err, "failed to migrate schema")

	s.db = db
	s.customerRepo = NewGormCustomerRepository(db)
	s.contactRepo = NewGormContactRepository(db)
	s.opportunityRepo = NewGormOpportunityRepository(db)
	s.ctx = context.Background()
}

func (s *repositoryTestSuite) SetupTest() {
	s.Require().NoError(s.db.Exec("DELETE FROM contacts").Error)
	s.Require().NoError(s.db.Exec("DELETE FROM opportunities").Error)
	s.Require().NoError(s.db.Exec("DELETE FROM customers").Error)
}

func (s *repositoryTestSuite) newCustomer(email string) *model.Customer {
	return &model.Customer{
		FirstName:   "John",
		LastName:    "Walls",
		Email:       email,
		Status:      model.DefaultCustomerStatus,
		CreatedDate: time.Now().UTC(),
	}
}

func (s *repositoryTestSuite) mustCreateCustomer(email string) *model.Customer {
	c := s.newCustomer(email)
	s.Require().NoError(s.customerRepo.Create(s.ctx, c))
	s.Require().NotZero(c.ID, "store must assign id on insert")
	return c
}

func (s *repositoryTestSuite) TestCustomerIDsAreMonotonic() {
	first := s.mustCreateCustomer("first@mail.com")
	second := s.mustCreateCustomer("second@mail.com")
	s.Assert().Greater(second.ID, first.ID, "ids must grow monotonically")
}

func (s *repositoryTestSuite) TestCustomerFindByIDAbsent() {
	c, err := s.customerRepo.FindByID(s.ctx, 12345)
	s.Assert().NoError(err)
	s.Assert().Nil(c, "absent customer must be nil without error")
}

func (s *repositoryTestSuite) TestCustomerFindByIDPreloadsOwned() {
	c := s.mustCreateCustomer("owner@mail.com")

	contact := &model.Contact{CustomerID: c.ID, Type: "Phone", Subject: "Call", ContactDate: time.Now().UTC(), Status: "Completed", CreatedDate: time.Now().UTC()}
	s.Require().NoError(s.contactRepo.Create(s.ctx, contact))

	opp := &model.Opportunity{CustomerID: c.ID, Title: "Deal", EstimatedValue: decimal.NewFromInt(100), Stage: "Proposal", Status: "Open", CreatedDate: time.Now().UTC()}
	s.Require().NoError(s.opportunityRepo.Create(s.ctx, opp))

	found, err := s.customerRepo.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Assert().Len(found.Contacts, 1, "owned contacts must be embedded")
	s.Assert().Len(found.Opportunities, 1, "owned opportunities must be embedded")
}

func (s *repositoryTestSuite) TestCustomerSearchIsCaseSensitiveSubstring() {
	acme := s.newCustomer("acme@mail.com")
	acme.Company = str("Acme Corp")
	s.Require().NoError(s.customerRepo.Create(s.ctx, acme))

	other := s.newCustomer("other@mail.com")
	other.Company = str("Globex")
	s.Require().NoError(s.customerRepo.Create(s.ctx, other))

	matched, total, err := s.customerRepo.FindAll(s.ctx, model.CustomerFilter{Search: "cme"}, model.Pagination{Page: 1, PageSize: 10})
	s.Require().NoError(err)
	s.Assert().EqualValues(1, total)
	s.Require().Len(matched, 1)
	s.Assert().Equal("acme@mail.com", matched[0].Email)

	_, total, err = s.customerRepo.FindAll(s.ctx, model.CustomerFilter{Search: "ACME"}, model.Pagination{Page: 1, PageSize: 10})
	s.Require().NoError(err)
	s.Assert().EqualValues(0, total, "substring match must be case-sensitive")
}

func (s *repositoryTestSuite) TestCustomerPagination() {
	for i := 0; i < 25; i++ {
		s.mustCreateCustomer(fmt.Sprintf("customer%02d@mail.com", i))
	}

	page2, total, err := s.customerRepo.FindAll(s.ctx, model.CustomerFilter{}, model.Pagination{Page: 2, PageSize: 10})
	s.Require().NoError(err)
	s.Assert().EqualValues(25, total, "total must count matches before paging")
	s.Require().Len(page2, 10)
	s.Assert().Equal("customer10@mail.com", page2[0].Email, "customers come in insertion order")

	empty, total, err := s.customerRepo.FindAll(s.ctx, model.CustomerFilter{}, model.Pagination{Page: 4, PageSize: 10})
	s.Require().NoError(err)
	s.Assert().EqualValues(25, total)
	s.Assert().Empty(empty, "page beyond the result size must be empty")
}

func (s *repositoryTestSuite) TestCustomerExistsByEmail() {
	c := s.mustCreateCustomer("taken@mail.com")

	taken, err := s.customerRepo.ExistsByEmail(s.ctx, "taken@mail.com", 0)
	s.Require().NoError(err)
	s.Assert().True(taken)

	taken, err = s.customerRepo.ExistsByEmail(s.ctx, "taken@mail.com", c.ID)
	s.Require().NoError(err)
	s.Assert().False(taken, "own email must not count with exclusion")

	taken, err = s.customerRepo.ExistsByEmail(s.ctx, "free@mail.com", 0)
	s.Require().NoError(err)
	s.Assert().False(taken)
}

func (s *repositoryTestSuite) TestCustomerUpdateMissingRow() {
	c := s.newCustomer("ghost@mail.com")
	c.ID = 99999

	updated, err := s.customerRepo.Update(s.ctx, c)
	s.Require().NoError(err)
	s.Assert().False(updated, "updating a missing row must report no rows touched")

	found, err := s.customerRepo.FindByID(s.ctx, 99999)
	s.Require().NoError(err)
	s.Assert().Nil(found, "missing row must not be resurrected by update")
}

func (s *repositoryTestSuite) TestCustomerDeleteCascades() {
	c := s.mustCreateCustomer("cascade@mail.com")
	for i := 0; i < 2; i++ {
		contact := &model.Contact{CustomerID: c.ID, Type: "Email", Subject: fmt.Sprintf("Mail %d", i), ContactDate: time.Now().UTC(), Status: "Completed", CreatedDate: time.Now().UTC()}
		s.Require().NoError(s.contactRepo.Create(s.ctx, contact))
	}
	opp := &model.Opportunity{CustomerID: c.ID, Title: "Deal", EstimatedValue: decimal.NewFromInt(10), Stage: "Proposal", Status: "Open", CreatedDate: time.Now().UTC()}
	s.Require().NoError(s.opportunityRepo.Create(s.ctx, opp))

	deleted, err := s.customerRepo.DeleteByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Assert().True(deleted)

	contacts, err := s.contactRepo.FindAllByCustomerID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Assert().Empty(contacts, "cascade must remove contacts")

	opportunities, err := s.opportunityRepo.FindAllByCustomerID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Assert().Empty(opportunities, "cascade must remove opportunities")
}

func (s *repositoryTestSuite) TestCustomerDeleteMissing() {
	deleted, err := s.customerRepo.DeleteByID(s.ctx, 4242)
	s.Require().NoError(err)
	s.Assert().False(deleted)
}

func (s *repositoryTestSuite) TestContactOrderAndFilters() {
	c := s.mustCreateCustomer("contacts@mail.com")
	now := time.Now().UTC()

	older := &model.Contact{CustomerID: c.ID, Type: "Phone", Subject: "Old call", ContactDate: now.Add(-48 * time.Hour), Status: "Completed", CreatedDate: now}
	newer := &model.Contact{CustomerID: c.ID, Type: "Email", Subject: "New mail", ContactDate: now, Status: "Scheduled", CreatedDate: now}
	s.Require().NoError(s.contactRepo.Create(s.ctx, older))
	s.Require().NoError(s.contactRepo.Create(s.ctx, newer))

	all, total, err := s.contactRepo.FindAll(s.ctx, model.ContactFilter{}, model.Pagination{Page: 1, PageSize: 10})
	s.Require().NoError(err)
	s.Assert().EqualValues(2, total)
	s.Require().Len(all, 2)
	s.Assert().Equal("New mail", all[0].Subject, "contacts come newest contact date first")
	s.Require().NotNil(all[0].Customer, "list must embed the parent customer")

	phones, total, err := s.contactRepo.FindAll(s.ctx, model.ContactFilter{Type: "Phone"}, model.Pagination{Page: 1, PageSize: 10})
	s.Require().NoError(err)
	s.Assert().EqualValues(1, total)
	s.Require().Len(phones, 1)
	s.Assert().Equal("Old call", phones[0].Subject)
}

func (s *repositoryTestSuite) TestOpportunityOrderAndFilters() {
	c := s.mustCreateCustomer("opps@mail.com")
	now := time.Now().UTC()

	older := &model.Opportunity{CustomerID: c.ID, Title: "Old deal", EstimatedValue: decimal.NewFromInt(100), Stage: "Proposal", Status: "Open", AssignedTo: str("Rep 1"), CreatedDate: now.Add(-24 * time.Hour)}
	newer := &model.Opportunity{CustomerID: c.ID, Title: "New deal", EstimatedValue: decimal.NewFromInt(200), Stage: "Negotiation", Status: "Won", AssignedTo: str("Rep 2"), CreatedDate: now}
	s.Require().NoError(s.opportunityRepo.Create(s.ctx, older))
	s.Require().NoError(s.opportunityRepo.Create(s.ctx, newer))

	all, total, err := s.opportunityRepo.FindAll(s.ctx, model.OpportunityFilter{}, model.Pagination{Page: 1, PageSize: 10})
	s.Require().NoError(err)
	s.Assert().EqualValues(2, total)
	s.Require().Len(all, 2)
	s.Assert().Equal("New deal", all[0].Title, "opportunities come newest first")
	s.Require().NotNil(all[0].Customer, "list must embed the parent customer")

	byRep, total, err := s.opportunityRepo.FindAll(s.ctx, model.OpportunityFilter{AssignedTo: "Rep 1"}, model.Pagination{Page: 1, PageSize: 10})
	s.Require().NoError(err)
	s.Assert().EqualValues(1, total)
	s.Require().Len(byRep, 1)
	s.Assert().Equal("Old deal", byRep[0].Title)

	open, total, err := s.opportunityRepo.FindAll(s.ctx, model.OpportunityFilter{Status: "Open", Stage: "Proposal"}, model.Pagination{Page: 1, PageSize: 10})
	s.Require().NoError(err)
	s.Assert().EqualValues(1, total)
	s.Require().Len(open, 1)
}

func (s *repositoryTestSuite) TestOpportunityValueSurvivesRoundTrip() {
	c := s.mustCreateCustomer("money@mail.com")

	value, err := decimal.NewFromString("12345.67")
	s.Require().NoError(err)

	opp := &model.Opportunity{CustomerID: c.ID, Title: "Exact", EstimatedValue: value, Stage: "Proposal", Status: "Open", CreatedDate: time.Now().UTC()}
	s.Require().NoError(s.opportunityRepo.Create(s.ctx, opp))

	found, err := s.opportunityRepo.FindByID(s.ctx, opp.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Assert().True(value.Equal(found.EstimatedValue), "stored value must be exact, got %s", found.EstimatedValue)
}

func str(s string) *string {
	return &s
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(repositoryTestSuite))
}
