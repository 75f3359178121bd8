package inventory

import (
	"context"
	"log/slog"
	"time"

	"github.com/autowerk/garage-management/internal"
)

type Repository interface {
	Create(ctx context.Context, p *Part) error
	GetByID(ctx context.Context, garageID, id int64) (*Part, error)
	List(ctx context.Context, garageID int64, limit, offset int) ([]*Part, error)
	ListBelowReorder(ctx context.Context, garageID int64) ([]*Part, error)
	Update(ctx context.Context, p *Part) error
	// AdjustQuantity applies delta atomically and fails when the result
	// would go negative.
	AdjustQuantity(ctx context.Context, garageID, id, delta int64) error
	RecordMovement(ctx context.Context, m *StockMovement) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, garageID int64, dto CreatePartDTO) (*Part, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Part{
		GarageID:     garageID,
		SKU:          dto.SKU,
		Name:         dto.Name,
		Description:  dto.Description,
		UnitPrice:    dto.UnitPrice,
		Quantity:     dto.Quantity,
		ReorderLevel: dto.ReorderLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create part", "error", err, "sku", dto.SKU)
		return nil, internal.NewInternalError("failed to create part", err)
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, garageID, id int64) (*Part, error) {
	p, err := s.repo.GetByID(ctx, garageID, id)
	if err != nil {
		return nil, internal.ErrPartNotFound
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, garageID int64, limit, offset int) ([]*Part, error) {
	parts, err := s.repo.List(ctx, garageID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list parts", "error", err, "garage_id", garageID)
		return nil, internal.NewInternalError("failed to list parts", err)
	}
	return parts, nil
}

// LowStock lists parts at or below their reorder level.
func (s *Service) LowStock(ctx context.Context, garageID int64) ([]*Part, error) {
	parts, err := s.repo.ListBelowReorder(ctx, garageID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list low stock", err)
	}
	return parts, nil
}

func (s *Service) Update(ctx context.Context, garageID, id int64, dto UpdatePartDTO) (*Part, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, garageID, id)
	if err != nil {
		return nil, internal.ErrPartNotFound
	}

	if dto.Name != nil {
		p.Name = *dto.Name
	}
	if dto.Description != nil {
		p.Description = *dto.Description
	}
	if dto.UnitPrice != nil {
		p.UnitPrice = *dto.UnitPrice
	}
	if dto.ReorderLevel != nil {
		p.ReorderLevel = *dto.ReorderLevel
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("failed to update part", "error", err, "part_id", id)
		return nil, internal.NewInternalError("failed to update part", err)
	}
	return p, nil
}

// Receive adds stock and records the movement.
func (s *Service) Receive(ctx context.Context, garageID, id int64, dto ReceiveStockDTO) (*Part, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, garageID, id); err != nil {
		return nil, internal.ErrPartNotFound
	}

	if err := s.repo.AdjustQuantity(ctx, garageID, id, dto.Quantity); err != nil {
		s.logger.Error("failed to receive stock", "error", err, "part_id", id)
		return nil, internal.NewInternalError("failed to receive stock", err)
	}

	if err := s.repo.RecordMovement(ctx, &StockMovement{
		GarageID:  garageID,
		PartID:    id,
		Kind:      MovementReceive,
		Quantity:  dto.Quantity,
		Note:      dto.Note,
		CreatedAt: time.Now(),
	}); err != nil {
		s.logger.Error("failed to record stock movement", "error", err, "part_id", id)
	}

	return s.GetByID(ctx, garageID, id)
}

// Issue deducts stock for a job card part line and returns the unit price
// to charge. Insufficient stock leaves quantity untouched.
func (s *Service) Issue(ctx context.Context, garageID, partID, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, ValidationError{Msg: "quantity must be positive"}
	}

	p, err := s.repo.GetByID(ctx, garageID, partID)
	if err != nil {
		return 0, internal.ErrPartNotFound
	}
	if p.Quantity < quantity {
		return 0, internal.ErrInsufficientStock
	}

	if err := s.repo.AdjustQuantity(ctx, garageID, partID, -quantity); err != nil {
		s.logger.Error("failed to issue stock", "error", err, "part_id", partID)
		return 0, internal.ErrInsufficientStock
	}

	if err := s.repo.RecordMovement(ctx, &StockMovement{
		GarageID:  garageID,
		PartID:    partID,
		Kind:      MovementIssue,
		Quantity:  quantity,
		CreatedAt: time.Now(),
	}); err != nil {
		s.logger.Error("failed to record stock movement", "error", err, "part_id", partID)
	}

	if p.Quantity-quantity <= p.ReorderLevel {
		s.logger.Warn("part below reorder level", "part_id", partID, "sku", p.SKU, "remaining", p.Quantity-quantity)
	}

	return p.UnitPrice, nil
}
