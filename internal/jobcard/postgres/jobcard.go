package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/autowerk/garage-management/internal/jobcard"
)

type JobCardRepository struct {
	db *gorm.DB
}

func NewJobCardRepository(db *gorm.DB) *JobCardRepository {
	return &JobCardRepository{db: db}
}

func (r *JobCardRepository) Create(ctx context.Context, j *jobcard.JobCard) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *JobCardRepository) GetByID(ctx context.Context, garageID, id int64) (*jobcard.JobCard, error) {
	var j jobcard.JobCard
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("garage_id = ? AND id = ?", garageID, id).
		First(&j).Error
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *JobCardRepository) List(ctx context.Context, garageID int64, status string, limit, offset int) ([]*jobcard.JobCard, error) {
	query := r.db.WithContext(ctx).Where("garage_id = ?", garageID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var cards []*jobcard.JobCard
	err := query.
		Order("opened_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&cards).Error
	return cards, err
}

func (r *JobCardRepository) Update(ctx context.Context, j *jobcard.JobCard) error {
	return r.db.WithContext(ctx).Omit("Items").Save(j).Error
}

func (r *JobCardRepository) AddItem(ctx context.Context, item *jobcard.JobItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// ExistsDelivered satisfies the gate pass module's check that a job card
// reached delivered status in this garage.
func (r *JobCardRepository) ExistsDelivered(ctx context.Context, garageID, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&jobcard.JobCard{}).
		Where("garage_id = ? AND id = ? AND status = ?", garageID, id, jobcard.StatusDelivered).
		Count(&count).Error
	return count > 0, err
}

// GetCompleted loads a job card with items only when it is in completed
// status, for invoicing.
func (r *JobCardRepository) GetCompleted(ctx context.Context, garageID, id int64) (*jobcard.JobCard, error) {
	var j jobcard.JobCard
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("garage_id = ? AND id = ? AND status = ?", garageID, id, jobcard.StatusCompleted).
		First(&j).Error
	if err != nil {
		return nil, err
	}
	return &j, nil
}
