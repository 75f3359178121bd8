package gatepass

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/autowerk/garage-management/internal"
	"github.com/autowerk/garage-management/internal/core/events"
)

type Repository interface {
	Create(ctx context.Context, g *GatePass) error
	GetByID(ctx context.Context, garageID, id int64) (*GatePass, error)
	GetByJobCard(ctx context.Context, garageID, jobCardID int64) (*GatePass, error)
	List(ctx context.Context, garageID int64, limit, offset int) ([]*GatePass, error)
	Update(ctx context.Context, g *GatePass) error
	CountForGarage(ctx context.Context, garageID int64) (int64, error)
}

// JobChecker confirms the job card reached delivered status before a gate
// pass can be issued against it.
type JobChecker interface {
	ExistsDelivered(ctx context.Context, garageID, jobCardID int64) (bool, error)
}

type Service struct {
	repo   Repository
	jobs   JobChecker
	bus    *events.EventBus
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, jobs JobChecker, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		jobs:   jobs,
		bus:    bus,
		logger: logger,
		now:    time.Now,
	}
}

// Issue creates a gate pass for a delivered job card. One pass per job
// card; an undelivered job is rejected.
func (s *Service) Issue(ctx context.Context, garageID, issuedBy int64, dto IssueGatePassDTO) (*GatePass, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	delivered, err := s.jobs.ExistsDelivered(ctx, garageID, dto.JobCardID)
	if err != nil {
		s.logger.Error("failed to check job card", "error", err, "job_card_id", dto.JobCardID)
		return nil, internal.NewInternalError("failed to check job card", err)
	}
	if !delivered {
		return nil, internal.ErrJobNotDelivered
	}

	if existing, err := s.repo.GetByJobCard(ctx, garageID, dto.JobCardID); err == nil && existing != nil {
		return nil, internal.NewConflictError("gate pass already issued for this job card", internal.ErrCodeGatePassExists)
	}

	seq, err := s.repo.CountForGarage(ctx, garageID)
	if err != nil {
		return nil, internal.NewInternalError("failed to allocate gate pass serial", err)
	}

	now := s.now()
	g := &GatePass{
		GarageID:  garageID,
		Serial:    fmt.Sprintf("GP-%d-%06d", garageID, seq+1),
		JobCardID: dto.JobCardID,
		VehicleID: dto.VehicleID,
		IssuedBy:  issuedBy,
		IssuedAt:  now,
		Remarks:   dto.Remarks,
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, g); err != nil {
		s.logger.Error("failed to issue gate pass", "error", err, "job_card_id", dto.JobCardID)
		return nil, internal.NewInternalError("failed to issue gate pass", err)
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.NewGatePassIssuedEvent(g.ID, g.JobCardID, g.GarageID, issuedBy))
	}

	s.logger.Info("gate pass issued", "gate_pass_id", g.ID, "serial", g.Serial, "job_card_id", g.JobCardID)
	return g, nil
}

func (s *Service) GetByID(ctx context.Context, garageID, id int64) (*GatePass, error) {
	g, err := s.repo.GetByID(ctx, garageID, id)
	if err != nil {
		return nil, internal.ErrGatePassNotFound
	}
	return g, nil
}

func (s *Service) List(ctx context.Context, garageID int64, limit, offset int) ([]*GatePass, error) {
	passes, err := s.repo.List(ctx, garageID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list gate passes", "error", err, "garage_id", garageID)
		return nil, internal.NewInternalError("failed to list gate passes", err)
	}
	return passes, nil
}

// MarkExit stamps the exit time once. A second call is a conflict.
func (s *Service) MarkExit(ctx context.Context, garageID, id int64) (*GatePass, error) {
	g, err := s.repo.GetByID(ctx, garageID, id)
	if err != nil {
		return nil, internal.ErrGatePassNotFound
	}
	if g.HasExited() {
		return nil, internal.NewConflictError("vehicle has already exited", internal.ErrCodeAlreadyExited)
	}

	now := s.now()
	g.ExitedAt = &now
	if err := s.repo.Update(ctx, g); err != nil {
		s.logger.Error("failed to mark exit", "error", err, "gate_pass_id", id)
		return nil, internal.NewInternalError("failed to mark exit", err)
	}

	s.logger.Info("vehicle exited", "gate_pass_id", g.ID, "serial", g.Serial)
	return g, nil
}
