package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"crm/internal/cache"
	"crm/internal/errors"
	"crm/internal/model"
	"crm/internal/repository"
)

// OpportunityService orchestrates opportunity CRUD and the pipeline
// aggregation. Writes evict the owning customer from the cache, cached
// customers embed their opportunities.
type OpportunityService interface {
	List(ctx context.Context, f model.OpportunityFilter, p model.Pagination) ([]model.Opportunity, int64, error)
	FindByID(ctx context.Context, id int64) (*model.Opportunity, error)
	FindAllByCustomerID(ctx context.Context, customerID int64) ([]model.Opportunity, error)
	Create(ctx context.Context, o *model.Opportunity) (*model.Opportunity, error)
	Update(ctx context.Context, id int64, o *model.Opportunity) error
	DeleteByID(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*model.OpportunityStats, error)
}

type opportunityService struct {
	opportunityRepo repository.OpportunityRepository
	customerRepo    repository.CustomerRepository
	customerCache   cache.CustomerCache
}

func NewOpportunityService(
	opportunityRepo repository.OpportunityRepository,
	customerRepo repository.CustomerRepository,
	customerCache cache.CustomerCache,
) OpportunityService {
	return &opportunityService{
		opportunityRepo: opportunityRepo,
		customerRepo:    customerRepo,
		customerCache:   customerCache,
	}
}

func (s *opportunityService) List(ctx context.Context, f model.OpportunityFilter, p model.Pagination) ([]model.Opportunity, int64, error) {
	return s.opportunityRepo.FindAll(ctx, f, p.Normalized())
}

func (s *opportunityService) FindByID(ctx context.Context, id int64) (*model.Opportunity, error) {
	o, err := s.opportunityRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, errors.NewEntryNotFoundErr(fmt.Sprintf("opportunity with id %d doesn't exist", id))
	}
	return o, nil
}

func (s *opportunityService) FindAllByCustomerID(ctx context.Context, customerID int64) ([]model.Opportunity, error) {
	return s.opportunityRepo.FindAllByCustomerID(ctx, customerID)
}

func (s *opportunityService) Create(ctx context.Context, o *model.Opportunity) (*model.Opportunity, error) {
	exists, err := s.customerRepo.ExistsByID(ctx, o.CustomerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NewReferenceMissingErr()
	}

	o.ID = 0
	o.CreatedDate = time.Now().UTC()
	o.LastModifiedDate = nil
	if o.Status == "" {
		o.Status = model.DefaultOpportunityStatus
	}

	if err := s.customerCache.EvictByID(ctx, o.CustomerID); err != nil {
		return nil, err
	}
	if err := s.opportunityRepo.Create(ctx, o); err != nil {
		return nil, err
	}

	// re-read to embed the resolved parent customer
	return s.opportunityRepo.FindByID(ctx, o.ID)
}

func (s *opportunityService) Update(ctx context.Context, id int64, o *model.Opportunity) error {
	if o.ID != id {
		return errors.NewIDMismatchErr()
	}

	existing, err := s.opportunityRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.NewEntryNotFoundErr(fmt.Sprintf("opportunity with id %d doesn't exist", id))
	}

	exists, err := s.customerRepo.ExistsByID(ctx, o.CustomerID)
	if err != nil {
		return err
	}
	if !exists {
		return errors.NewReferenceMissingErr()
	}

	// the opportunity may move between customers, evict both sides
	if err := s.customerCache.EvictByID(ctx, existing.CustomerID); err != nil {
		return err
	}
	if err := s.customerCache.EvictByID(ctx, o.CustomerID); err != nil {
		return err
	}

	existing.Customer = nil
	existing.Merge(o)
	now := time.Now().UTC()
	existing.LastModifiedDate = &now

	updated, err := s.opportunityRepo.Update(ctx, existing)
	if err != nil {
		return err
	}
	if !updated {
		return s.persistRaceErr(ctx, id)
	}
	return nil
}

func (s *opportunityService) DeleteByID(ctx context.Context, id int64) error {
	existing, err := s.opportunityRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.NewEntryNotFoundErr(fmt.Sprintf("opportunity with id %d doesn't exist", id))
	}

	if err := s.customerCache.EvictByID(ctx, existing.CustomerID); err != nil {
		return err
	}

	deleted, err := s.opportunityRepo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NewEntryNotFoundErr(fmt.Sprintf("opportunity with id %d doesn't exist", id))
	}
	return nil
}

// Stats aggregates the whole pipeline in a single scan. Sums are exact
// decimal arithmetic, stage groups come out in first-seen order.
func (s *opportunityService) Stats(ctx context.Context) (*model.OpportunityStats, error) {
	all, err := s.opportunityRepo.All(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.OpportunityStats{
		PipelineValue:  decimal.Zero,
		WonValue:       decimal.Zero,
		StageBreakdown: make([]model.StageStat, 0),
	}
	stageIdx := make(map[string]int)

	for _, o := range all {
		stats.TotalOpportunities++

		switch o.Status {
		case model.OpportunityStatusOpen:
			stats.OpenOpportunities++
			stats.PipelineValue = stats.PipelineValue.Add(o.EstimatedValue)

			i, ok := stageIdx[o.Stage]
			if !ok {
				i = len(stats.StageBreakdown)
				stageIdx[o.Stage] = i
				stats.StageBreakdown = append(stats.StageBreakdown, model.StageStat{Stage: o.Stage, Value: decimal.Zero})
			}
			stats.StageBreakdown[i].Count++
			stats.StageBreakdown[i].Value = stats.StageBreakdown[i].Value.Add(o.EstimatedValue)
		case model.OpportunityStatusWon:
			stats.WonOpportunities++
			stats.WonValue = stats.WonValue.Add(o.EstimatedValue)
		case model.OpportunityStatusLost:
			stats.LostOpportunities++
		}
	}
	return stats, nil
}

func (s *opportunityService) persistRaceErr(ctx context.Context, id int64) error {
	o, err := s.opportunityRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if o == nil {
		return errors.NewEntryNotFoundErr(fmt.Sprintf("opportunity with id %d doesn't exist", id))
	}
	return errors.NewConflictErr(fmt.Sprintf("opportunity with id %d was changed concurrently", id))
}
