package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"crm/internal/model"
)

// CustomerRepository is the customer slice of the entity store. Lookups
// return nil without error when no row matches. Update and DeleteByID report
// whether any row was touched so the service can tell a vanished entity
// from a successful write.
type CustomerRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Customer, error)
	FindAll(ctx context.Context, f model.CustomerFilter, p model.Pagination) ([]model.Customer, int64, error)
	Create(ctx context.Context, c *model.Customer) error
	Update(ctx context.Context, c *model.Customer) (bool, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
}

type gormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) CustomerRepository {
	return &gormCustomerRepository{db: db}
}

// customerFilterScope applies all supplied filters conjunctively. Substring
// search goes through instr which is case-sensitive, unlike sqlite LIKE.
func customerFilterScope(f model.CustomerFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Search != "" {
			db = db.Where(
				"(instr(first_name, ?) > 0 OR instr(last_name, ?) > 0 OR instr(email, ?) > 0 OR instr(coalesce(company, ''), ?) > 0)",
				f.Search, f.Search, f.Search, f.Search,
			)
		}
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		return db
	}
}

func (r *gormCustomerRepository) FindByID(ctx context.Context, id int64) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).
		Preload("Contacts").
		Preload("Opportunities").
		First(&c, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *gormCustomerRepository) FindAll(ctx context.Context, f model.CustomerFilter, p model.Pagination) ([]model.Customer, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Scopes(customerFilterScope(f)).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	customers := make([]model.Customer, 0)
	err = r.db.WithContext(ctx).
		Scopes(customerFilterScope(f)).
		Order("id").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Preload("Contacts").
		Preload("Opportunities").
		Find(&customers).Error
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (r *gormCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

// Update writes all mutable columns of an existing row. Matching zero rows
// is reported as false, not turned into an insert, so a concurrently
// vanished entity surfaces instead of being resurrected.
func (r *gormCustomerRepository) Update(ctx context.Context, c *model.Customer) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("id = ?", c.ID).
		Select("*").
		Omit("id", "created_date", clause.Associations).
		Updates(c)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteByID removes the customer together with its contacts and
// opportunities in one transaction, so no reader observes a half-removed owner.
func (r *gormCustomerRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Customer{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true

		if err := tx.Where("customer_id = ?", id).Delete(&model.Contact{}).Error; err != nil {
			return err
		}
		return tx.Where("customer_id = ?", id).Delete(&model.Opportunity{}).Error
	})
	return deleted, err
}

func (r *gormCustomerRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *gormCustomerRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}
