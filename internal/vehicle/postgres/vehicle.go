package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/autowerk/garage-management/internal/vehicle"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) Create(ctx context.Context, v *vehicle.Vehicle) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VehicleRepository) GetByID(ctx context.Context, garageID, id int64) (*vehicle.Vehicle, error) {
	var v vehicle.Vehicle
	err := r.db.WithContext(ctx).
		Where("garage_id = ? AND id = ?", garageID, id).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VehicleRepository) ListByCustomer(ctx context.Context, garageID, customerID int64) ([]*vehicle.Vehicle, error) {
	var vehicles []*vehicle.Vehicle
	err := r.db.WithContext(ctx).
		Where("garage_id = ? AND customer_id = ?", garageID, customerID).
		Order("reg_no ASC").
		Find(&vehicles).Error
	return vehicles, err
}

func (r *VehicleRepository) List(ctx context.Context, garageID int64, limit, offset int) ([]*vehicle.Vehicle, error) {
	var vehicles []*vehicle.Vehicle
	err := r.db.WithContext(ctx).
		Where("garage_id = ?", garageID).
		Order("reg_no ASC").
		Limit(limit).
		Offset(offset).
		Find(&vehicles).Error
	return vehicles, err
}

func (r *VehicleRepository) Update(ctx context.Context, v *vehicle.Vehicle) error {
	return r.db.WithContext(ctx).Save(v).Error
}

// Exists satisfies the job card module's check that the vehicle belongs to
// the garage.
func (r *VehicleRepository) Exists(ctx context.Context, garageID, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&vehicle.Vehicle{}).
		Where("garage_id = ? AND id = ?", garageID, id).
		Count(&count).Error
	return count > 0, err
}
