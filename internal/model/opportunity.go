package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Opportunity statuses taking part in pipeline aggregation
const (
	OpportunityStatusOpen = "Open"
	OpportunityStatusWon  = "Won"
	OpportunityStatusLost = "Lost"
)

// DefaultOpportunityStatus is assigned when a new opportunity comes without status
const DefaultOpportunityStatus = OpportunityStatusOpen

// Opportunity is a potential deal with a customer moving through
// pipeline stages (Prospecting, Qualification, Proposal, Negotiation, ...).
// Stage vocabulary is open-ended, matching is always exact.
type Opportunity struct {
	ID                int64           `json:"id" gorm:"primaryKey"`
	CustomerID        int64           `json:"customerId" gorm:"not null;index" validate:"required"`
	Title             string          `json:"title" gorm:"size:200;not null" validate:"required,max=200"`
	Description       *string         `json:"description" gorm:"type:text"`
	EstimatedValue    decimal.Decimal `json:"estimatedValue" gorm:"type:decimal(18,2)"`
	Probability       int             `json:"probability" validate:"gte=0,lte=100"`
	Stage             string          `json:"stage" gorm:"size:50;not null" validate:"required,max=50"`
	ExpectedCloseDate time.Time       `json:"expectedCloseDate"`
	AssignedTo        *string         `json:"assignedTo" gorm:"size:100" validate:"omitempty,max=100"`
	CreatedDate       time.Time       `json:"createdDate"`
	LastModifiedDate  *time.Time      `json:"lastModifiedDate"`
	Status            string          `json:"status" gorm:"size:20" validate:"omitempty,max=20"`
	Notes             *string         `json:"notes" gorm:"type:text"`

	Customer *Customer `json:"customer,omitempty"`
}

// Merge copies every mutable field from in onto o. ID and CreatedDate are
// never copied, LastModifiedDate is stamped by the service on update.
func (o *Opportunity) Merge(in *Opportunity) {
	o.CustomerID = in.CustomerID
	o.Title = in.Title
	o.Description = in.Description
	o.EstimatedValue = in.EstimatedValue
	o.Probability = in.Probability
	o.Stage = in.Stage
	o.ExpectedCloseDate = in.ExpectedCloseDate
	o.AssignedTo = in.AssignedTo
	o.Status = in.Status
	o.Notes = in.Notes
}
