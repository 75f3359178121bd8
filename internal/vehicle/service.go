package vehicle

import (
	"context"
	"log/slog"
	"time"

	"github.com/autowerk/garage-management/internal"
)

type Repository interface {
	Create(ctx context.Context, v *Vehicle) error
	GetByID(ctx context.Context, garageID, id int64) (*Vehicle, error)
	ListByCustomer(ctx context.Context, garageID, customerID int64) ([]*Vehicle, error)
	List(ctx context.Context, garageID int64, limit, offset int) ([]*Vehicle, error)
	Update(ctx context.Context, v *Vehicle) error
}

// CustomerChecker verifies the customer exists in the same garage before a
// vehicle is attached to it.
type CustomerChecker interface {
	Exists(ctx context.Context, garageID, customerID int64) (bool, error)
}

type Service struct {
	repo      Repository
	customers CustomerChecker
	logger    *slog.Logger
}

func NewService(repo Repository, customers CustomerChecker, logger *slog.Logger) *Service {
	return &Service{repo: repo, customers: customers, logger: logger}
}

func (s *Service) Create(ctx context.Context, garageID int64, dto CreateVehicleDTO) (*Vehicle, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ok, err := s.customers.Exists(ctx, garageID, dto.CustomerID)
	if err != nil {
		s.logger.Error("customer lookup failed", "error", err, "customer_id", dto.CustomerID)
		return nil, internal.NewInternalError("failed to create vehicle", err)
	}
	if !ok {
		return nil, internal.ErrCustomerNotFound
	}

	now := time.Now()
	v := &Vehicle{
		GarageID:   garageID,
		CustomerID: dto.CustomerID,
		RegNo:      dto.RegNo,
		Make:       dto.Make,
		Model:      dto.Model,
		Year:       dto.Year,
		Odometer:   dto.Odometer,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, v); err != nil {
		s.logger.Error("failed to create vehicle", "error", err, "garage_id", garageID, "reg_no", dto.RegNo)
		return nil, internal.NewInternalError("failed to create vehicle", err)
	}

	return v, nil
}

func (s *Service) GetByID(ctx context.Context, garageID, id int64) (*Vehicle, error) {
	v, err := s.repo.GetByID(ctx, garageID, id)
	if err != nil {
		return nil, internal.ErrVehicleNotFound
	}
	return v, nil
}

func (s *Service) ListByCustomer(ctx context.Context, garageID, customerID int64) ([]*Vehicle, error) {
	vehicles, err := s.repo.ListByCustomer(ctx, garageID, customerID)
	if err != nil {
		s.logger.Error("failed to list vehicles", "error", err, "customer_id", customerID)
		return nil, internal.NewInternalError("failed to list vehicles", err)
	}
	return vehicles, nil
}

func (s *Service) List(ctx context.Context, garageID int64, limit, offset int) ([]*Vehicle, error) {
	vehicles, err := s.repo.List(ctx, garageID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list vehicles", "error", err, "garage_id", garageID)
		return nil, internal.NewInternalError("failed to list vehicles", err)
	}
	return vehicles, nil
}

func (s *Service) Update(ctx context.Context, garageID, id int64, dto UpdateVehicleDTO) (*Vehicle, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	v, err := s.repo.GetByID(ctx, garageID, id)
	if err != nil {
		return nil, internal.ErrVehicleNotFound
	}

	if dto.Make != nil {
		v.Make = *dto.Make
	}
	if dto.Model != nil {
		v.Model = *dto.Model
	}
	if dto.Year != nil {
		v.Year = *dto.Year
	}
	if dto.Odometer != nil {
		v.Odometer = *dto.Odometer
	}
	v.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, v); err != nil {
		s.logger.Error("failed to update vehicle", "error", err, "vehicle_id", id)
		return nil, internal.NewInternalError("failed to update vehicle", err)
	}

	return v, nil
}
