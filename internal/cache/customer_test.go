package cache

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"crm/internal/model"
)

func fullCustomer(t *testing.T) *model.Customer {
	t.Helper()

	value, err := decimal.NewFromString("12345.67")
	require.NoError(t, err)

	company := "Acme Corp"
	now := time.Date(2026, 2, 10, 12, 30, 0, 0, time.UTC)

	return &model.Customer{
		ID:          42,
		FirstName:   "Ada",
		LastName:    "Byron",
		Email:       "ada@mail.com",
		Company:     &company,
		Status:      "Active",
		CreatedDate: now,
		Contacts: []model.Contact{
			{ID: 1, CustomerID: 42, Type: "Phone", Subject: "Call", ContactDate: now, Status: "Completed", CreatedDate: now},
		},
		Opportunities: []model.Opportunity{
			{ID: 7, CustomerID: 42, Title: "Engine", EstimatedValue: value, Probability: 80, Stage: "Proposal", Status: "Open", CreatedDate: now},
		},
	}
}

func TestCachedCustomerRoundTrip(t *testing.T) {
	original := fullCustomer(t)

	encoded, err := msgpack.Marshal(toCachedCustomer(original))
	require.NoError(t, err, "a customer with owned rows must encode cleanly")

	var entry cachedCustomer
	require.NoError(t, msgpack.Unmarshal(encoded, &entry))

	restored, err := entry.toModel()
	require.NoError(t, err)

	assert.Equal(t, original.ID, restored.ID)
	assert.Equal(t, original.Email, restored.Email)
	require.NotNil(t, restored.Company)
	assert.Equal(t, "Acme Corp", *restored.Company)
	require.Len(t, restored.Contacts, 1)
	assert.Equal(t, "Call", restored.Contacts[0].Subject)
	require.Len(t, restored.Opportunities, 1)
	assert.True(t, original.Opportunities[0].EstimatedValue.Equal(restored.Opportunities[0].EstimatedValue),
		"estimated value must survive exactly, got %s", restored.Opportunities[0].EstimatedValue)
	assert.Equal(t, 80, restored.Opportunities[0].Probability)
}

func TestToModelRejectsCorruptedValue(t *testing.T) {
	entry := &cachedCustomer{
		Customer:      model.Customer{ID: 1},
		Opportunities: []cachedOpportunity{{ID: 2, EstimatedValue: "not-a-number"}},
	}

	_, err := entry.toModel()
	assert.Error(t, err, "a corrupted cached value must not come back as a zero amount")
}

func TestNoopCacheAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	c := NewNoopCustomerCache()

	require.NoError(t, c.Cache(ctx, &model.Customer{ID: 5}))

	found, err := c.FindByID(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, found, "noop cache never serves entries")

	assert.NoError(t, c.EvictByID(ctx, 5))
}
