package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/autowerk/garage-management/internal/inventory"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Create(ctx context.Context, p *inventory.Part) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *InventoryRepository) GetByID(ctx context.Context, garageID, id int64) (*inventory.Part, error) {
	var p inventory.Part
	err := r.db.WithContext(ctx).
		Where("garage_id = ? AND id = ?", garageID, id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *InventoryRepository) List(ctx context.Context, garageID int64, limit, offset int) ([]*inventory.Part, error) {
	var parts []*inventory.Part
	err := r.db.WithContext(ctx).
		Where("garage_id = ?", garageID).
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&parts).Error
	return parts, err
}

func (r *InventoryRepository) ListBelowReorder(ctx context.Context, garageID int64) ([]*inventory.Part, error) {
	var parts []*inventory.Part
	err := r.db.WithContext(ctx).
		Where("garage_id = ? AND quantity <= reorder_level", garageID).
		Order("name ASC").
		Find(&parts).Error
	return parts, err
}

func (r *InventoryRepository) Update(ctx context.Context, p *inventory.Part) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// AdjustQuantity applies delta in a single guarded UPDATE so concurrent
// issues cannot drive stock negative.
func (r *InventoryRepository) AdjustQuantity(ctx context.Context, garageID, id, delta int64) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.Part{}).
		Where("garage_id = ? AND id = ? AND quantity + ? >= 0", garageID, id, delta).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("stock adjustment rejected")
	}
	return nil
}

func (r *InventoryRepository) RecordMovement(ctx context.Context, m *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}
