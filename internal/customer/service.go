package customer

import (
	"context"
	"log/slog"
	"time"

	"github.com/autowerk/garage-management/internal"
)

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, garageID, id int64) (*Customer, error)
	List(ctx context.Context, garageID int64, limit, offset int) ([]*Customer, error)
	Search(ctx context.Context, garageID int64, query string, limit int) ([]*Customer, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, garageID, id int64) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, garageID int64, dto CreateCustomerDTO) (*Customer, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	c := &Customer{
		GarageID:  garageID,
		Name:      dto.Name,
		Phone:     dto.Phone,
		Email:     dto.Email,
		Address:   dto.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create customer", "error", err, "garage_id", garageID)
		return nil, internal.NewInternalError("failed to create customer", err)
	}

	return c, nil
}

func (s *Service) GetByID(ctx context.Context, garageID, id int64) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, garageID, id)
	if err != nil {
		return nil, internal.ErrCustomerNotFound
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, garageID int64, limit, offset int) ([]*Customer, error) {
	customers, err := s.repo.List(ctx, garageID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list customers", "error", err, "garage_id", garageID)
		return nil, internal.NewInternalError("failed to list customers", err)
	}
	return customers, nil
}

func (s *Service) Search(ctx context.Context, garageID int64, query string) ([]*Customer, error) {
	if query == "" {
		return []*Customer{}, nil
	}
	customers, err := s.repo.Search(ctx, garageID, query, 20)
	if err != nil {
		s.logger.Error("customer search failed", "error", err, "garage_id", garageID)
		return nil, internal.NewInternalError("customer search failed", err)
	}
	return customers, nil
}

func (s *Service) Update(ctx context.Context, garageID, id int64, dto UpdateCustomerDTO) (*Customer, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, garageID, id)
	if err != nil {
		return nil, internal.ErrCustomerNotFound
	}

	if dto.Name != nil {
		c.Name = *dto.Name
	}
	if dto.Phone != nil {
		c.Phone = *dto.Phone
	}
	if dto.Email != nil {
		c.Email = *dto.Email
	}
	if dto.Address != nil {
		c.Address = *dto.Address
	}
	c.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, c); err != nil {
		s.logger.Error("failed to update customer", "error", err, "customer_id", id)
		return nil, internal.NewInternalError("failed to update customer", err)
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, garageID, id int64) error {
	if _, err := s.repo.GetByID(ctx, garageID, id); err != nil {
		return internal.ErrCustomerNotFound
	}
	if err := s.repo.Delete(ctx, garageID, id); err != nil {
		s.logger.Error("failed to delete customer", "error", err, "customer_id", id)
		return internal.NewInternalError("failed to delete customer", err)
	}
	return nil
}
