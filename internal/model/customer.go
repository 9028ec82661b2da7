package model

import "time"

// Customer is customer model entity. It owns its contacts and
// opportunities, both removed together with the customer.
type Customer struct {
	ID               int64      `json:"id" gorm:"primaryKey"`
	FirstName        string     `json:"firstName" gorm:"size:100;not null" validate:"required,max=100"`
	LastName         string     `json:"lastName" gorm:"size:100;not null" validate:"required,max=100"`
	Email            string     `json:"email" gorm:"size:255;not null;uniqueIndex" validate:"required,email,max=255"`
	Phone            *string    `json:"phone" gorm:"size:20" validate:"omitempty,max=20"`
	Company          *string    `json:"company" gorm:"size:255" validate:"omitempty,max=255"`
	JobTitle         *string    `json:"jobTitle" gorm:"size:100" validate:"omitempty,max=100"`
	Address          *string    `json:"address" gorm:"size:500" validate:"omitempty,max=500"`
	City             *string    `json:"city" gorm:"size:100" validate:"omitempty,max=100"`
	State            *string    `json:"state" gorm:"size:20" validate:"omitempty,max=20"`
	PostalCode       *string    `json:"postalCode" gorm:"size:20" validate:"omitempty,max=20"`
	Country          *string    `json:"country" gorm:"size:100" validate:"omitempty,max=100"`
	CreatedDate      time.Time  `json:"createdDate"`
	LastModifiedDate *time.Time `json:"lastModifiedDate"`
	Status           string     `json:"status" gorm:"size:20" validate:"omitempty,max=20"`
	Notes            *string    `json:"notes" gorm:"type:text"`

	Contacts      []Contact     `json:"contacts" gorm:"constraint:OnDelete:CASCADE"`
	Opportunities []Opportunity `json:"opportunities" gorm:"constraint:OnDelete:CASCADE"`
}

// DefaultCustomerStatus is assigned when a new customer comes without status
const DefaultCustomerStatus = "Active"

// FullName is customer display name used by the web tier
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Merge copies every mutable field from in onto c. ID and CreatedDate are
// never copied, LastModifiedDate is stamped by the service on update.
func (c *Customer) Merge(in *Customer) {
	c.FirstName = in.FirstName
	c.LastName = in.LastName
	c.Email = in.Email
	c.Phone = in.Phone
	c.Company = in.Company
	c.JobTitle = in.JobTitle
	c.Address = in.Address
	c.City = in.City
	c.State = in.State
	c.PostalCode = in.PostalCode
	c.Country = in.Country
	c.Status = in.Status
	c.Notes = in.Notes
}
