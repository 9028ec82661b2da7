package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"crm/internal/model"
)

// ContactRepository is the contact slice of the entity store
type ContactRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Contact, error)
	FindAll(ctx context.Context, f model.ContactFilter, p model.Pagination) ([]model.Contact, int64, error)
	FindAllByCustomerID(ctx context.Context, customerID int64) ([]model.Contact, error)
	Create(ctx context.Context, c *model.Contact) error
	Update(ctx context.Context, c *model.Contact) (bool, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
}

type gormContactRepository struct {
	db *gorm.DB
}

func NewGormContactRepository(db *gorm.DB) ContactRepository {
	return &gormContactRepository{db: db}
}

func contactFilterScope(f model.ContactFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.CustomerID != 0 {
			db = db.Where("customer_id = ?", f.CustomerID)
		}
		if f.Type != "" {
			db = db.Where("type = ?", f.Type)
		}
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		return db
	}
}

func (r *gormContactRepository) FindByID(ctx context.Context, id int64) (*model.Contact, error) {
	var c model.Contact
	err := r.db.WithContext(ctx).Preload("Customer").First(&c, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *gormContactRepository) FindAll(ctx context.Context, f model.ContactFilter, p model.Pagination) ([]model.Contact, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Contact{}).
		Scopes(contactFilterScope(f)).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	contacts := make([]model.Contact, 0)
	err = r.db.WithContext(ctx).
		Scopes(contactFilterScope(f)).
		Order("contact_date desc").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Preload("Customer").
		Find(&contacts).Error
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

func (r *gormContactRepository) FindAllByCustomerID(ctx context.Context, customerID int64) ([]model.Contact, error) {
	contacts := make([]model.Contact, 0)
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("contact_date desc").
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *gormContactRepository) Create(ctx context.Context, c *model.Contact) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

// Update writes all mutable columns of an existing row, reporting false
// when no row matched instead of inserting
func (r *gormContactRepository) Update(ctx context.Context, c *model.Contact) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Contact{}).
		Where("id = ?", c.ID).
		Select("*").
		Omit("id", "created_date", clause.Associations).
		Updates(c)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormContactRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Contact{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
