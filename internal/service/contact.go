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

// ContactService orchestrates contact CRUD. Every write re-checks that the
// owning customer still exists and evicts it from the cache, because cached
// customers embed their contacts.
type ContactService interface {
	List(ctx context.Context, f model.ContactFilter, p model.Pagination) ([]model.Contact, int64, error)
	FindByID(ctx context.Context, id int64) (*model.Contact, error)
	FindAllByCustomerID(ctx context.Context, customerID int64) ([]model.Contact, error)
	Create(ctx context.Context, c *model.Contact) (*model.Contact, error)
	Update(ctx context.Context, id int64, c *model.Contact) error
	DeleteByID(ctx context.Context, id int64) error
}

type contactService struct {
	contactRepo   repository.ContactRepository
	customerRepo  repository.CustomerRepository
	customerCache cache.CustomerCache
}

func NewContactService(
	contactRepo repository.ContactRepository,
	customerRepo repository.CustomerRepository,
	customerCache cache.CustomerCache,
) ContactService {
	return &contactService{
		contactRepo:   contactRepo,
		customerRepo:  customerRepo,
		customerCache: customerCache,
	}
}

func (s *contactService) List(ctx context.Context, f model.ContactFilter, p model.Pagination) ([]model.Contact, int64, error) {
	return s.contactRepo.FindAll(ctx, f, p.Normalized())
}

func (s *contactService) FindByID(ctx context.Context, id int64) (*model.Contact, error) {
	c, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errors.NewEntryNotFoundErr(fmt.Sprintf("contact with id %d doesn't exist", id))
	}
	return c, nil
}

func (s *contactService) FindAllByCustomerID(ctx context.Context, customerID int64) ([]model.Contact, error) {
	return s.contactRepo.FindAllByCustomerID(ctx, customerID)
}

func (s *contactService) Create(ctx context.Context, c *model.Contact) (*model.Contact, error) {
	exists, err := s.customerRepo.ExistsByID(ctx, c.CustomerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NewReferenceMissingErr()
	}

	now := time.Now().UTC()
	c.ID = 0
	c.CreatedDate = now
	if c.ContactDate.IsZero() {
		c.ContactDate = now
	}
	if c.Status == "" {
		c.Status = model.DefaultContactStatus
	}

	if err := s.customerCache.EvictByID(ctx, c.CustomerID); err != nil {
		return nil, err
	}
	if err := s.contactRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	// re-read to embed the resolved parent customer
	return s.contactRepo.FindByID(ctx, c.ID)
}

func (s *contactService) Update(ctx context.Context, id int64, c *model.Contact) error {
	if c.ID != id {
		return errors.NewIDMismatchErr()
	}

	existing, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.NewEntryNotFoundErr(fmt.Sprintf("contact with id %d doesn't exist", id))
	}

	exists, err := s.customerRepo.ExistsByID(ctx, c.CustomerID)
	if err != nil {
		return err
	}
	if !exists {
		return errors.NewReferenceMissingErr()
	}

	// the contact may move between customers, evict both sides
	if err := s.customerCache.EvictByID(ctx, existing.CustomerID); err != nil {
		return err
	}
	if err := s.customerCache.EvictByID(ctx, c.CustomerID); err != nil {
		return err
	}

	existing.Customer = nil
	existing.Merge(c)

	updated, err := s.contactRepo.Update(ctx, existing)
	if err != nil {
		return err
	}
	if !updated {
		return s.persistRaceErr(ctx, id)
	}
	return nil
}

func (s *contactService) DeleteByID(ctx context.Context, id int64) error {
	existing, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.NewEntryNotFoundErr(fmt.Sprintf("contact with id %d doesn't exist", id))
	}

	if err := s.customerCache.EvictByID(ctx, existing.CustomerID); err != nil {
		return err
	}

	deleted, err := s.contactRepo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NewEntryNotFoundErr(fmt.Sprintf("contact with id %d doesn't exist", id))
	}
	return nil
}

func (s *contactService) persistRaceErr(ctx context.Context, id int64) error {
	c, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return errors.NewEntryNotFoundErr(fmt.Sprintf("contact with id %d doesn't exist", id))
	}
	return errors.NewConflictErr(fmt.Sprintf("contact with id %d was changed concurrently", id))
}
