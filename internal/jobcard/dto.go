package jobcard

import "strings"

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

type CreateJobCardDTO struct {
	VehicleID  int64  `json:"vehicle_id"`
	CustomerID int64  `json:"customer_id"`
	Complaint  string `json:"complaint"`
	Diagnosis  string `json:"diagnosis,omitempty"`
}

func (d CreateJobCardDTO) Validate() error {
	if d.VehicleID <= 0 {
		return ValidationError{Msg: "vehicle_id is required"}
	}
	if d.CustomerID <= 0 {
		return ValidationError{Msg: "customer_id is required"}
	}
	if strings.TrimSpace(d.Complaint) == "" {
		return ValidationError{Msg: "complaint is required"}
	}
	return nil
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (d UpdateStatusDTO) Validate() error {
	if _, ok := statusOrder[d.Status]; !ok {
		return ValidationError{Msg: "status must be one of open, in_progress, completed, delivered"}
	}
	return nil
}

type AssignTechnicianDTO struct {
	TechnicianID int64 `json:"technician_id"`
}

func (d AssignTechnicianDTO) Validate() error {
	if d.TechnicianID <= 0 {
		return ValidationError{Msg: "technician_id is required"}
	}
	return nil
}

type AddItemDTO struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
	PartID      *int64 `json:"part_id,omitempty"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

func (d AddItemDTO) Validate() error {
	if d.Kind != ItemKindLabor && d.Kind != ItemKindPart {
		return ValidationError{Msg: "kind must be labor or part"}
	}
	if strings.TrimSpace(d.Description) == "" {
		return ValidationError{Msg: "description is required"}
	}
	if d.Quantity <= 0 {
		return ValidationError{Msg: "quantity must be positive"}
	}
	if d.UnitPrice < 0 {
		return ValidationError{Msg: "unit_price cannot be negative"}
	}
	if d.Kind == ItemKindPart && (d.PartID == nil || *d.PartID <= 0) {
		return ValidationError{Msg: "part_id is required for part items"}
	}
	return nil
}

type UpdateDiagnosisDTO struct {
	Diagnosis string `json:"diagnosis"`
}

func (d UpdateDiagnosisDTO) Validate() error {
	if strings.TrimSpace(d.Diagnosis) == "" {
		return ValidationError{Msg: "diagnosis is required"}
	}
	return nil
}
