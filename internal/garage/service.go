package garage

import (
	"context"
	"log/slog"
	"time"

	"github.com/autowerk/garage-management/internal"
)

type Repository interface {
	Create(ctx context.Context, g *Garage) error
	GetByID(ctx context.Context, id int64) (*Garage, error)
	List(ctx context.Context, limit, offset int) ([]*Garage, error)
	Update(ctx context.Context, g *Garage) error
	Stats(ctx context.Context, garageID int64) (*DashboardStats, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, dto CreateGarageDTO) (*Garage, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	g := &Garage{
		Name:      dto.Name,
		OwnerName: dto.OwnerName,
		Phone:     dto.Phone,
		Email:     dto.Email,
		Address:   dto.Address,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, g); err != nil {
		s.logger.Error("failed to create garage", "error", err, "name", dto.Name)
		return nil, internal.NewInternalError("failed to create garage", err)
	}

	s.logger.Info("garage created", "garage_id", g.ID, "name", g.Name)
	return g, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Garage, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.ErrGarageNotFound
	}
	return g, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Garage, error) {
	garages, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list garages", "error", err)
		return nil, internal.NewInternalError("failed to list garages", err)
	}
	return garages, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateGarageDTO) (*Garage, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.ErrGarageNotFound
	}

	if dto.Name != nil {
		g.Name = *dto.Name
	}
	if dto.OwnerName != nil {
		g.OwnerName = *dto.OwnerName
	}
	if dto.Phone != nil {
		g.Phone = *dto.Phone
	}
	if dto.Email != nil {
		g.Email = *dto.Email
	}
	if dto.Address != nil {
		g.Address = *dto.Address
	}
	if dto.Status != nil {
		g.Status = *dto.Status
	}
	g.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, g); err != nil {
		s.logger.Error("failed to update garage", "error", err, "garage_id", id)
		return nil, internal.NewInternalError("failed to update garage", err)
	}

	return g, nil
}

// Stats aggregates dashboard counters for one garage.
func (s *Service) Stats(ctx context.Context, garageID int64) (*DashboardStats, error) {
	if _, err := s.repo.GetByID(ctx, garageID); err != nil {
		return nil, internal.ErrGarageNotFound
	}

	stats, err := s.repo.Stats(ctx, garageID)
	if err != nil {
		s.logger.Error("failed to load garage stats", "error", err, "garage_id", garageID)
		return nil, internal.NewInternalError("failed to load garage stats", err)
	}
	return stats, nil
}
