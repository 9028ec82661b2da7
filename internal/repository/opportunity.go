package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"crm/internal/model"
)

// OpportunityRepository is the opportunity slice of the entity store.
// All returns every opportunity in insertion order and feeds the
// pipeline aggregation.
type OpportunityRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Opportunity, error)
	FindAll(ctx context.Context, f model.OpportunityFilter, p model.Pagination) ([]model.Opportunity, int64, error)
	FindAllByCustomerID(ctx context.Context, customerID int64) ([]model.Opportunity, error)
	All(ctx context.Context) ([]model.Opportunity, error)
	Create(ctx context.Context, o *model.Opportunity) error
	Update(ctx context.Context, o *model.Opportunity) (bool, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
}

type gormOpportunityRepository struct {
	db *gorm.DB
}

func NewGormOpportunityRepository(db *gorm.DB) OpportunityRepository {
	return &gormOpportunityRepository{db: db}
}

func opportunityFilterScope(f model.OpportunityFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.CustomerID != 0 {
			db = db.Where("customer_id = ?", f.CustomerID)
		}
		if f.Stage != "" {
			db = db.Where("stage = ?", f.Stage)
		}
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.AssignedTo != "" {
			db = db.Where("assigned_to = ?", f.AssignedTo)
		}
		return db
	}
}

func (r *gormOpportunityRepository) FindByID(ctx context.Context, id int64) (*model.Opportunity, error) {
	var o model.Opportunity
	err := r.db.WithContext(ctx).Preload("Customer").First(&o, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *gormOpportunityRepository) FindAll(ctx context.Context, f model.OpportunityFilter, p model.Pagination) ([]model.Opportunity, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Opportunity{}).
		Scopes(opportunityFilterScope(f)).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	opportunities := make([]model.Opportunity, 0)
	err = r.db.WithContext(ctx).
		Scopes(opportunityFilterScope(f)).
		Order("created_date desc").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Preload("Customer").
		Find(&opportunities).Error
	if err != nil {
		return nil, 0, err
	}
	return opportunities, total, nil
}

func (r *gormOpportunityRepository) FindAllByCustomerID(ctx context.Context, customerID int64) ([]model.Opportunity, error) {
	opportunities := make([]model.Opportunity, 0)
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_date desc").
		Find(&opportunities).Error
	if err != nil {
		return nil, err
	}
	return opportunities, nil
}

func (r *gormOpportunityRepository) All(ctx context.Context) ([]model.Opportunity, error) {
	opportunities := make([]model.Opportunity, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&opportunities).Error; err != nil {
		return nil, err
	}
	return opportunities, nil
}

func (r *gormOpportunityRepository) Create(ctx context.Context, o *model.Opportunity) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error
}

// Update writes all mutable columns of an existing row, reporting false
// when no row matched instead of inserting
func (r *gormOpportunityRepository) Update(ctx context.Context, o *model.Opportunity) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Opportunity{}).
		Where("id = ?", o.ID).
		Select("*").
		Omit("id", "created_date", clause.Associations).
		Updates(o)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormOpportunityRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Opportunity{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
