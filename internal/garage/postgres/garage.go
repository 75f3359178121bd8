package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/autowerk/garage-management/internal/garage"
)

type GarageRepository struct {
	db *gorm.DB
}

func NewGarageRepository(db *gorm.DB) garage.Repository {
	return &GarageRepository{db: db}
}

func (r *GarageRepository) Create(ctx context.Context, g *garage.Garage) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *GarageRepository) GetByID(ctx context.Context, id int64) (*garage.Garage, error) {
	var g garage.Garage
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GarageRepository) List(ctx context.Context, limit, offset int) ([]*garage.Garage, error) {
	var garages []*garage.Garage
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&garages).Error
	return garages, err
}

func (r *GarageRepository) Update(ctx context.Context, g *garage.Garage) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *GarageRepository) Stats(ctx context.Context, garageID int64) (*garage.DashboardStats, error) {
	stats := &garage.DashboardStats{GarageID: garageID}
	db := r.db.WithContext(ctx)

	if err := db.Table("customers").Where("garage_id = ?", garageID).Count(&stats.Customers).Error; err != nil {
		return nil, err
	}
	if err := db.Table("vehicles").Where("garage_id = ?", garageID).Count(&stats.Vehicles).Error; err != nil {
		return nil, err
	}
	if err := db.Table("job_cards").
		Where("garage_id = ? AND status IN ?", garageID, []string{"open", "in_progress"}).
		Count(&stats.OpenJobCards).Error; err != nil {
		return nil, err
	}
	if err := db.Table("invoices").
		Where("garage_id = ? AND amount_paid < grand_total", garageID).
		Count(&stats.UnpaidInvoices).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
