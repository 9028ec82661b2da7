package infra

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"crm/internal/model"
)

// Seed inserts the demo dataset unless customers are already present.
// Peripheral scaffolding for demo and manual testing, not part of the contract.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Customer{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()

	customers := []model.Customer{
		{
			FirstName:   "John",
			LastName:    "Doe",
			Email:       "john.doe@example.com",
			Phone:       str("555-123-4567"),
			Company:     str("Acme Corp"),
			JobTitle:    str("CEO"),
			Address:     str("123 Main St"),
			City:        str("New York"),
			State:       str("NY"),
			PostalCode:  str("10001"),
			Country:     str("USA"),
			CreatedDate: now.AddDate(0, 0, -30),
			Status:      model.DefaultCustomerStatus,
		},
		{
			FirstName:   "Jane",
			LastName:    "Smith",
			Email:       "jane.smith@example.com",
			Phone:       str("555-987-6543"),
			Company:     str("TechStart Inc"),
			JobTitle:    str("CTO"),
			Address:     str("456 Oak Ave"),
			City:        str("San Francisco"),
			State:       str("CA"),
			PostalCode:  str("94102"),
			Country:     str("USA"),
			CreatedDate: now.AddDate(0, 0, -15),
			Status:      model.DefaultCustomerStatus,
		},
		{
			FirstName:   "Mike",
			LastName:    "Johnson",
			Email:       "mike.johnson@example.com",
			Phone:       str("555-456-7890"),
			Company:     str("Global Solutions"),
			JobTitle:    str("VP Sales"),
			Address:     str("789 Pine St"),
			City:        str("Chicago"),
			State:       str("IL"),
			PostalCode:  str("60601"),
			Country:     str("USA"),
			CreatedDate: now.AddDate(0, 0, -45),
			Status:      model.DefaultCustomerStatus,
		},
	}
	if err := db.Create(&customers).Error; err != nil {
		return err
	}

	opportunities := []model.Opportunity{
		{
			CustomerID:        customers[0].ID,
			Title:             "Software License Deal",
			Description:       str("Annual software licensing agreement"),
			EstimatedValue:    decimal.NewFromFloat(50000.00),
			Probability:       75,
			Stage:             "Negotiation",
			ExpectedCloseDate: now.AddDate(0, 0, 30),
			AssignedTo:        str("Sales Rep 1"),
			CreatedDate:       now.AddDate(0, 0, -20),
			Status:            model.OpportunityStatusOpen,
		},
		{
			CustomerID:        customers[1].ID,
			Title:             "Cloud Migration Project",
			Description:       str("Complete cloud infrastructure migration"),
			EstimatedValue:    decimal.NewFromFloat(125000.00),
			Probability:       60,
			Stage:             "Proposal",
			ExpectedCloseDate: now.AddDate(0, 0, 45),
			AssignedTo:        str("Sales Rep 2"),
			CreatedDate:       now.AddDate(0, 0, -10),
			Status:            model.OpportunityStatusOpen,
		},
	}
	if err := db.Create(&opportunities).Error; err != nil {
		return err
	}

	contacts := []model.Contact{
		{
			CustomerID:  customers[0].ID,
			Type:        "Phone",
			Subject:     "Initial Discovery Call",
			Description: str("Discussed current software needs and pain points"),
			ContactDate: now.AddDate(0, 0, -25),
			Status:      model.DefaultContactStatus,
			ContactedBy: str("Sales Rep 1"),
			CreatedDate: now.AddDate(0, 0, -25),
		},
		{
			CustomerID:  customers[0].ID,
			Type:        "Email",
			Subject:     "Follow-up Proposal",
			Description: str("Sent detailed proposal and pricing information"),
			ContactDate: now.AddDate(0, 0, -15),
			Status:      model.DefaultContactStatus,
			ContactedBy: str("Sales Rep 1"),
			CreatedDate: now.AddDate(0, 0, -15),
		},
		{
			CustomerID:  customers[1].ID,
			Type:        "Meeting",
			Subject:     "Technical Requirements Review",
			Description: str("On-site meeting to review technical requirements"),
			ContactDate: now.AddDate(0, 0, -5),
			Status:      model.DefaultContactStatus,
			ContactedBy: str("Sales Rep 2"),
			CreatedDate: now.AddDate(0, 0, -8),
		},
	}
	return db.Create(&contacts).Error
}

func str(s string) *string {
	return &s
}
