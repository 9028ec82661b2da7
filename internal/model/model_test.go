package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaginationNormalized(t *testing.T) {
	tests := []struct {
		name     string
		in       Pagination
		expected Pagination
	}{
		{name: "defaults for zero values", in: Pagination{}, expected: Pagination{Page: 1, PageSize: 10}},
		{name: "defaults for negative values", in: Pagination{Page: -3, PageSize: -1}, expected: Pagination{Page: 1, PageSize: 10}},
		{name: "valid values pass through", in: Pagination{Page: 4, PageSize: 25}, expected: Pagination{Page: 4, PageSize: 25}},
		{name: "large page size is not capped", in: Pagination{Page: 1, PageSize: 100000}, expected: Pagination{Page: 1, PageSize: 100000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.in.Normalized())
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	assert.Equal(t, 0, Pagination{Page: 1, PageSize: 10}.Offset())
	assert.Equal(t, 30, Pagination{Page: 4, PageSize: 10}.Offset())
}

func TestCustomerMergeKeepsIdentityFields(t *testing.T) {
	createdDate := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := &Customer{ID: 10, FirstName: "Old", LastName: "Name", Email: "old@mail.com", CreatedDate: createdDate}

	phone := "555-0000"
	existing.Merge(&Customer{
		ID:          99,
		FirstName:   "New",
		LastName:    "Name",
		Email:       "new@mail.com",
		Phone:       &phone,
		Status:      "Inactive",
		CreatedDate: time.Now(),
	})

	assert.EqualValues(t, 10, existing.ID, "merge never moves an entity to another id")
	assert.Equal(t, createdDate, existing.CreatedDate, "merge never rewrites history")
	assert.Equal(t, "New", existing.FirstName)
	assert.Equal(t, "new@mail.com", existing.Email)
	assert.Equal(t, "Inactive", existing.Status)
	assert.Equal(t, &phone, existing.Phone)
}

func TestCustomerMergeClearsOmittedOptionals(t *testing.T) {
	company := "Acme"
	existing := &Customer{ID: 1, FirstName: "Ada", LastName: "Byron", Email: "ada@mail.com", Company: &company}

	existing.Merge(&Customer{FirstName: "Ada", LastName: "Byron", Email: "ada@mail.com"})

	assert.Nil(t, existing.Company, "an omitted optional field means cleared, not kept")
}

func TestCustomerFullName(t *testing.T) {
	c := &Customer{FirstName: "Grace", LastName: "Hopper"}
	assert.Equal(t, "Grace Hopper", c.FullName())
}
