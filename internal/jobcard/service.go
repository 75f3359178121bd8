package jobcard

import (
	"context"
	"log/slog"
	"time"

	"github.com/autowerk/garage-management/internal"
	"github.com/autowerk/garage-management/internal/core/events"
)

type Repository interface {
	Create(ctx context.Context, j *JobCard) error
	GetByID(ctx context.Context, garageID, id int64) (*JobCard, error)
	List(ctx context.Context, garageID int64, status string, limit, offset int) ([]*JobCard, error)
	Update(ctx context.Context, j *JobCard) error
	AddItem(ctx context.Context, item *JobItem) error
}

// VehicleChecker confirms that a vehicle belongs to the garage before a
// job card is opened against it.
type VehicleChecker interface {
	Exists(ctx context.Context, garageID, vehicleID int64) (bool, error)
}

// PartIssuer deducts stock when a part line lands on a job card.
type PartIssuer interface {
	Issue(ctx context.Context, garageID, partID, quantity int64) (unitPrice int64, err error)
}

type Service struct {
	repo     Repository
	vehicles VehicleChecker
	parts    PartIssuer
	bus      *events.EventBus
	logger   *slog.Logger
}

func NewService(repo Repository, vehicles VehicleChecker, parts PartIssuer, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		vehicles: vehicles,
		parts:    parts,
		bus:      bus,
		logger:   logger,
	}
}

func (s *Service) Create(ctx context.Context, garageID int64, dto CreateJobCardDTO) (*JobCard, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ok, err := s.vehicles.Exists(ctx, garageID, dto.VehicleID)
	if err != nil {
		s.logger.Error("failed to check vehicle", "error", err, "vehicle_id", dto.VehicleID)
		return nil, internal.NewInternalError("failed to check vehicle", err)
	}
	if !ok {
		return nil, internal.ErrVehicleNotFound
	}

	now := time.Now()
	j := &JobCard{
		GarageID:   garageID,
		VehicleID:  dto.VehicleID,
		CustomerID: dto.CustomerID,
		Complaint:  dto.Complaint,
		Diagnosis:  dto.Diagnosis,
		Status:     StatusOpen,
		OpenedAt:   now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, j); err != nil {
		s.logger.Error("failed to create job card", "error", err, "garage_id", garageID)
		return nil, internal.NewInternalError("failed to create job card", err)
	}

	s.logger.Info("job card opened", "job_card_id", j.ID, "garage_id", garageID, "vehicle_id", j.VehicleID)
	return j, nil
}

func (s *Service) GetByID(ctx context.Context, garageID, id int64) (*JobCard, error) {
	j, err := s.repo.GetByID(ctx, garageID, id)
	if err != nil {
		return nil, internal.ErrJobCardNotFound
	}
	return j, nil
}

func (s *Service) List(ctx context.Context, garageID int64, status string, limit, offset int) ([]*JobCard, error) {
	if status != "" {
		if _, ok := statusOrder[status]; !ok {
			return nil, ValidationError{Msg: "unknown status filter"}
		}
	}

	cards, err := s.repo.List(ctx, garageID, status, limit, offset)
	if err != nil {
		s.logger.Error("failed to list job cards", "error", err, "garage_id", garageID)
		return nil, internal.NewInternalError("failed to list job cards", err)
	}
	return cards, nil
}

func (s *Service) AssignTechnician(ctx context.Context, garageID, id int64, dto AssignTechnicianDTO) (*JobCard, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	j, err := s.repo.GetByID(ctx, garageID, id)
	if err != nil {
		return nil, internal.ErrJobCardNotFound
	}
	if j.Status == StatusDelivered {
		return nil, internal.ErrInvalidJobStatus
	}

	j.TechnicianID = &dto.TechnicianID
	j.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, j); err != nil {
		s.logger.Error("failed to assign technician", "error", err, "job_card_id", id)
		return nil, internal.NewInternalError("failed to assign technician", err)
	}
	return j, nil
}

func (s *Service) UpdateDiagnosis(ctx context.Context, garageID, id int64, dto UpdateDiagnosisDTO) (*JobCard, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	j, err := s.repo.GetByID(ctx, garageID, id)
	if err != nil {
		return nil, internal.ErrJobCardNotFound
	}
	if j.Status == StatusDelivered {
		return nil, internal.ErrInvalidJobStatus
	}

	j.Diagnosis = dto.Diagnosis
	j.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, j); err != nil {
		return nil, internal.NewInternalError("failed to update diagnosis", err)
	}
	return j, nil
}

// UpdateStatus moves a job card one step forward and publishes the change.
func (s *Service) UpdateStatus(ctx context.Context, garageID, id int64, dto UpdateStatusDTO) (*JobCard, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	j, err := s.repo.GetByID(ctx, garageID, id)
	if err != nil {
		return nil, internal.ErrJobCardNotFound
	}
	if !j.CanTransition(dto.Status) {
		return nil, internal.ErrInvalidJobStatus
	}

	old := j.Status
	now := time.Now()
	j.Status = dto.Status
	j.UpdatedAt = now
	switch dto.Status {
	case StatusCompleted:
		j.CompletedAt = &now
	case StatusDelivered:
		j.DeliveredAt = &now
	}

	if err := s.repo.Update(ctx, j); err != nil {
		s.logger.Error("failed to update job status", "error", err, "job_card_id", id)
		return nil, internal.NewInternalError("failed to update job status", err)
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.NewJobStatusChangedEvent(j.ID, j.GarageID, old, j.Status))
	}

	s.logger.Info("job status changed", "job_card_id", j.ID, "from", old, "to", j.Status)
	return j, nil
}

// AddItem appends a labor or part line. Part lines deduct inventory and
// price from the stock record; labor lines price from the request.
func (s *Service) AddItem(ctx context.Context, garageID, id int64, dto AddItemDTO) (*JobItem, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	j, err := s.repo.GetByID(ctx, garageID, id)
	if err != nil {
		return nil, internal.ErrJobCardNotFound
	}
	if j.Status != StatusOpen && j.Status != StatusInProgress {
		return nil, internal.ErrInvalidJobStatus
	}

	unitPrice := dto.UnitPrice
	if dto.Kind == ItemKindPart {
		price, err := s.parts.Issue(ctx, garageID, *dto.PartID, dto.Quantity)
		if err != nil {
			return nil, err
		}
		unitPrice = price
	}

	item := &JobItem{
		JobCardID:   j.ID,
		Kind:        dto.Kind,
		Description: dto.Description,
		PartID:      dto.PartID,
		Quantity:    dto.Quantity,
		UnitPrice:   unitPrice,
		Total:       unitPrice * dto.Quantity,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.AddItem(ctx, item); err != nil {
		s.logger.Error("failed to add job item", "error", err, "job_card_id", id)
		return nil, internal.NewInternalError("failed to add job item", err)
	}
	return item, nil
}
