package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	"crm/internal/model"
)

const cachedCustomerTimeToLive = 10 * time.Minute

// CustomerCache is a read-through cache for customer-by-id lookups.
// A miss is nil without error. Writers must evict before persisting so a
// stale customer never outlives an update or delete.
type CustomerCache interface {
	FindByID(ctx context.Context, id int64) (*model.Customer, error)
	EvictByID(ctx context.Context, id int64) error
	Cache(ctx context.Context, c *model.Customer) error
}

// cachedOpportunity mirrors model.Opportunity with the estimated value kept
// as its canonical string form. decimal.Decimal has no exported fields, so
// msgpack cannot reflect over it.
type cachedOpportunity struct {
	ID                int64      `msgpack:"id"`
	CustomerID        int64      `msgpack:"customerId"`
	Title             string     `msgpack:"title"`
	Description       *string    `msgpack:"description"`
	EstimatedValue    string     `msgpack:"estimatedValue"`
	Probability       int        `msgpack:"probability"`
	Stage             string     `msgpack:"stage"`
	ExpectedCloseDate time.Time  `msgpack:"expectedCloseDate"`
	AssignedTo        *string    `msgpack:"assignedTo"`
	CreatedDate       time.Time  `msgpack:"createdDate"`
	LastModifiedDate  *time.Time `msgpack:"lastModifiedDate"`
	Status            string     `msgpack:"status"`
	Notes             *string    `msgpack:"notes"`
}

type cachedCustomer struct {
	Customer      model.Customer      `msgpack:"customer"`
	Contacts      []model.Contact     `msgpack:"contacts"`
	Opportunities []cachedOpportunity `msgpack:"opportunities"`
}

func toCachedCustomer(c *model.Customer) *cachedCustomer {
	entry := &cachedCustomer{
		Contacts:      c.Contacts,
		Opportunities: make([]cachedOpportunity, 0, len(c.Opportunities)),
	}

	flat := *c
	flat.Contacts = nil
	flat.Opportunities = nil
	entry.Customer = flat

	for _, o := range c.Opportunities {
		entry.Opportunities = append(entry.Opportunities, cachedOpportunity{
			ID:                o.ID,
			CustomerID:        o.CustomerID,
			Title:             o.Title,
			Description:       o.Description,
			EstimatedValue:    o.EstimatedValue.String(),
			Probability:       o.Probability,
			Stage:             o.Stage,
			ExpectedCloseDate: o.ExpectedCloseDate,
			AssignedTo:        o.AssignedTo,
			CreatedDate:       o.CreatedDate,
			LastModifiedDate:  o.LastModifiedDate,
			Status:            o.Status,
			Notes:             o.Notes,
		})
	}
	return entry
}

func (e *cachedCustomer) toModel() (*model.Customer, error) {
	c := e.Customer
	c.Contacts = e.Contacts
	c.Opportunities = make([]model.Opportunity, 0, len(e.Opportunities))

	for _, o := range e.Opportunities {
		value, err := decimal.NewFromString(o.EstimatedValue)
		if err != nil {
			return nil, fmt.Errorf("corrupted cached opportunity value %q - %w", o.EstimatedValue, err)
		}
		c.Opportunities = append(c.Opportunities, model.Opportunity{
			ID:                o.ID,
			CustomerID:        o.CustomerID,
			Title:             o.Title,
			Description:       o.Description,
			EstimatedValue:    value,
			Probability:       o.Probability,
			Stage:             o.Stage,
			ExpectedCloseDate: o.ExpectedCloseDate,
			AssignedTo:        o.AssignedTo,
			CreatedDate:       o.CreatedDate,
			LastModifiedDate:  o.LastModifiedDate,
			Status:            o.Status,
			Notes:             o.Notes,
		})
	}
	return &c, nil
}

type redisCustomerCache struct {
	client *redis.Client
}

func NewRedisCustomerCache(client *redis.Client) CustomerCache {
	return &redisCustomerCache{client: client}
}

func (r *redisCustomerCache) FindByID(ctx context.Context, id int64) (*model.Customer, error) {
	res, err := r.client.Get(ctx, r.key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var entry cachedCustomer
	if err := msgpack.Unmarshal([]byte(res), &entry); err != nil {
		return nil, err
	}

	return entry.toModel()
}

func (r *redisCustomerCache) EvictByID(ctx context.Context, id int64) error {
	if _, err := r.client.Del(ctx, r.key(id)).Result(); err != nil {
		return err
	}
	return nil
}

func (r *redisCustomerCache) Cache(ctx context.Context, c *model.Customer) error {
	encoded, err := msgpack.Marshal(toCachedCustomer(c))
	if err != nil {
		return err
	}

	_, err = r.client.SetNX(ctx, r.key(c.ID), encoded, cachedCustomerTimeToLive).Result()
	if err != nil {
		return err
	}
	return nil
}

func (r *redisCustomerCache) key(id int64) string {
	return fmt.Sprintf("customer:%d", id)
}

// noopCustomerCache stands in when no redis address is configured
type noopCustomerCache struct{}

func NewNoopCustomerCache() CustomerCache {
	return noopCustomerCache{}
}

func (noopCustomerCache) FindByID(_ context.Context, _ int64) (*model.Customer, error) {
	return nil, nil
}

func (noopCustomerCache) EvictByID(_ context.Context, _ int64) error {
	return nil
}

func (noopCustomerCache) Cache(_ context.Context, _ *model.Customer) error {
	return nil
}
