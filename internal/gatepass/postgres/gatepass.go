package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/autowerk/garage-management/internal/gatepass"
)

type GatePassRepository struct {
	db *gorm.DB
}

func NewGatePassRepository(db *gorm.DB) *GatePassRepository {
	return &GatePassRepository{db: db}
}

func (r *GatePassRepository) Create(ctx context.Context, g *gatepass.GatePass) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *GatePassRepository) GetByID(ctx context.Context, garageID, id int64) (*gatepass.GatePass, error) {
	var g gatepass.GatePass
	err := r.db.WithContext(ctx).
		Where("garage_id = ? AND id = ?", garageID, id).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GatePassRepository) GetByJobCard(ctx context.Context, garageID, jobCardID int64) (*gatepass.GatePass, error) {
	var g gatepass.GatePass
	err := r.db.WithContext(ctx).
		Where("garage_id = ? AND job_card_id = ?", garageID, jobCardID).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GatePassRepository) List(ctx context.Context, garageID int64, limit, offset int) ([]*gatepass.GatePass, error) {
	var passes []*gatepass.GatePass
	err := r.db.WithContext(ctx).
		Where("garage_id = ?", garageID).
		Order("issued_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&passes).Error
	return passes, err
}

func (r *GatePassRepository) Update(ctx context.Context, g *gatepass.GatePass) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *GatePassRepository) CountForGarage(ctx context.Context, garageID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gatepass.GatePass{}).
		Where("garage_id = ?", garageID).
		Count(&count).Error
	return count, err
}
