package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/autowerk/garage-management/internal/customer"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CustomerRepository) GetByID(ctx context.Context, garageID, id int64) (*customer.Customer, error) {
	var c customer.Customer
	err := r.db.WithContext(ctx).
		Where("garage_id = ? AND id = ?", garageID, id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) List(ctx context.Context, garageID int64, limit, offset int) ([]*customer.Customer, error) {
	var customers []*customer.Customer
	err := r.db.WithContext(ctx).
		Where("garage_id = ?", garageID).
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&customers).Error
	return customers, err
}

func (r *CustomerRepository) Search(ctx context.Context, garageID int64, query string, limit int) ([]*customer.Customer, error) {
	var customers []*customer.Customer
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("garage_id = ? AND (name LIKE ? OR phone LIKE ?)", garageID, pattern, pattern).
		Order("name ASC").
		Limit(limit).
		Find(&customers).Error
	return customers, err
}

// Exists satisfies the vehicle module's customer check without exposing the
// full customer record.
func (r *CustomerRepository) Exists(ctx context.Context, garageID, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&customer.Customer{}).
		Where("garage_id = ? AND id = ?", garageID, id).
		Count(&count).Error
	return count > 0, err
}

func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CustomerRepository) Delete(ctx context.Context, garageID, id int64) error {
	return r.db.WithContext(ctx).
		Where("garage_id = ? AND id = ?", garageID, id).
		Delete(&customer.Customer{}).Error
}
