package service

import (
	"context"
	"fmt"
	"time"

	"crm/internal/cache"
	"crm/internal/errors"
	"crm/internal/model"
	"crm/internal/repository"
)

// CustomerService orchestrates customer CRUD. Expected failures come back
// as taxonomy errors (BusinessErr, EntryNotFoundErr, ConflictErr), never as
// panics or sentinel-free wrapped storage errors.
type CustomerService interface {
	List(ctx context.Context, f model.CustomerFilter, p model.Pagination) ([]model.Customer, int64, error)
	FindByID(ctx context.Context, id int64) (*model.Customer, error)
	Create(ctx context.Context, c *model.Customer) (*model.Customer, error)
	Update(ctx context.Context, id int64, c *model.Customer) error
	DeleteByID(ctx context.Context, id int64) error
}

type customerService struct {
	customerRepo  repository.CustomerRepository
	customerCache cache.CustomerCache
}

func NewCustomerService(customerRepo repository.CustomerRepository, customerCache cache.CustomerCache) CustomerService {
	return &customerService{
		customerRepo:  customerRepo,
		customerCache: customerCache,
	}
}

func (s *customerService) List(ctx context.Context, f model.CustomerFilter, p model.Pagination) ([]model.Customer, int64, error) {
	return s.customerRepo.FindAll(ctx, f, p.Normalized())
}

func (s *customerService) FindByID(ctx context.Context, id int64) (*model.Customer, error) {
	c, err := s.customerCache.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}

	c, err = s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errors.NewEntryNotFoundErr(fmt.Sprintf("customer with id %d doesn't exist", id))
	}

	if err := s.customerCache.Cache(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	taken, err := s.customerRepo.ExistsByEmail(ctx, c.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.NewDuplicateEmailErr()
	}

	c.ID = 0
	c.CreatedDate = time.Now().UTC()
	c.LastModifiedDate = nil
	if c.Status == "" {
		c.Status = model.DefaultCustomerStatus
	}
	c.Contacts = make([]model.Contact, 0)
	c.Opportunities = make([]model.Opportunity, 0)

	if err := s.customerRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) Update(ctx context.Context, id int64, c *model.Customer) error {
	if c.ID != id {
		return errors.NewIDMismatchErr()
	}

	existing, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.NewEntryNotFoundErr(fmt.Sprintf("customer with id %d doesn't exist", id))
	}

	taken, err := s.customerRepo.ExistsByEmail(ctx, c.Email, id)
	if err != nil {
		return err
	}
	if taken {
		return errors.NewDuplicateEmailErr()
	}

	if err := s.customerCache.EvictByID(ctx, id); err != nil {
		return err
	}

	existing.Merge(c)
	now := time.Now().UTC()
	existing.LastModifiedDate = &now

	updated, err := s.customerRepo.Update(ctx, existing)
	if err != nil {
		return err
	}
	if !updated {
		return s.persistRaceErr(ctx, id)
	}
	return nil
}

func (s *customerService) DeleteByID(ctx context.Context, id int64) error {
	if err := s.customerCache.EvictByID(ctx, id); err != nil {
		return err
	}

	deleted, err := s.customerRepo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NewEntryNotFoundErr(fmt.Sprintf("customer with id %d doesn't exist", id))
	}
	return nil
}

// persistRaceErr resolves an update which matched no rows: the entity either
// vanished (not found) or was concurrently changed (conflict, never retried)
func (s *customerService) persistRaceErr(ctx context.Context, id int64) error {
	exists, err := s.customerRepo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return errors.NewEntryNotFoundErr(fmt.Sprintf("customer with id %d doesn't exist", id))
	}
	return errors.NewConflictErr(fmt.Sprintf("customer with id %d was changed concurrently", id))
}
