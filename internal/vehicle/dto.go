package vehicle

import (
	"time"

	"github.com/autowerk/garage-management/internal/core/common/validation"
)

type CreateVehicleDTO struct {
	CustomerID int64  `json:"customer_id"`
	RegNo      string `json:"reg_no"`
	Make       string `json:"make"`
	Model      string `json:"model"`
	Year       int    `json:"year"`
	Odometer   int64  `json:"odometer"`
}

type UpdateVehicleDTO struct {
	Make     *string `json:"make,omitempty"`
	Model    *string `json:"model,omitempty"`
	Year     *int    `json:"year,omitempty"`
	Odometer *int64  `json:"odometer,omitempty"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d CreateVehicleDTO) Validate() error {
	if d.CustomerID <= 0 {
		return ValidationError{Msg: "customer_id is required"}
	}
	if err := validation.ValidateRegistrationNo(d.RegNo); err != nil {
		return err
	}
	if d.Year != 0 && (d.Year < 1900 || d.Year > time.Now().Year()+1) {
		return ValidationError{Msg: "year is out of range"}
	}
	if d.Odometer < 0 {
		return ValidationError{Msg: "odometer cannot be negative"}
	}
	return nil
}

func (d UpdateVehicleDTO) Validate() error {
	if d.Odometer != nil && *d.Odometer < 0 {
		return ValidationError{Msg: "odometer cannot be negative"}
	}
	return nil
}
