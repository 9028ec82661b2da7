package model

import "time"

// DefaultContactStatus is assigned when a new contact comes without status
const DefaultContactStatus = "Completed"

// Contact is a single registered touch with a customer - call, email,
// meeting and so on. It always belongs to exactly one customer.
type Contact struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	CustomerID  int64     `json:"customerId" gorm:"not null;index" validate:"required"`
	Type        string    `json:"type" gorm:"size:20;not null" validate:"required,max=20"`
	Subject     string    `json:"subject" gorm:"size:100;not null" validate:"required,max=100"`
	Description *string   `json:"description" gorm:"type:text"`
	ContactDate time.Time `json:"contactDate"`
	Status      string    `json:"status" gorm:"size:20" validate:"omitempty,max=20"`
	ContactedBy *string   `json:"contactedBy" gorm:"size:100" validate:"omitempty,max=100"`
	CreatedDate time.Time `json:"createdDate"`

	Customer *Customer `json:"customer,omitempty"`
}

// Merge copies every mutable field from in onto c, identity and
// CreatedDate are preserved. Contact carries no last modified timestamp.
func (c *Contact) Merge(in *Contact) {
	c.CustomerID = in.CustomerID
	c.Type = in.Type
	c.Subject = in.Subject
	c.Description = in.Description
	c.ContactDate = in.ContactDate
	c.Status = in.Status
	c.ContactedBy = in.ContactedBy
}
