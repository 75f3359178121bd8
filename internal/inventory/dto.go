package inventory

import (
	"strings"

	"github.com/autowerk/garage-management/internal/core/common/validation"
)

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

type CreatePartDTO struct {
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	UnitPrice    int64  `json:"unit_price"`
	Quantity     int64  `json:"quantity"`
	ReorderLevel int64  `json:"reorder_level"`
}

func (d CreatePartDTO) Validate() error {
	if strings.TrimSpace(d.SKU) == "" {
		return ValidationError{Msg: "sku is required"}
	}
	if strings.TrimSpace(d.Name) == "" {
		return ValidationError{Msg: "name is required"}
	}
	if d.UnitPrice < 0 {
		return ValidationError{Msg: "unit_price cannot be negative"}
	}
	if d.Quantity < 0 {
		return ValidationError{Msg: "quantity cannot be negative"}
	}
	if d.ReorderLevel < 0 {
		return ValidationError{Msg: "reorder_level cannot be negative"}
	}
	return nil
}

type UpdatePartDTO struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	UnitPrice    *int64  `json:"unit_price,omitempty"`
	ReorderLevel *int64  `json:"reorder_level,omitempty"`
}

func (d UpdatePartDTO) Validate() error {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return ValidationError{Msg: "name cannot be empty"}
	}
	if d.UnitPrice != nil && *d.UnitPrice < 0 {
		return ValidationError{Msg: "unit_price cannot be negative"}
	}
	if d.ReorderLevel != nil && *d.ReorderLevel < 0 {
		return ValidationError{Msg: "reorder_level cannot be negative"}
	}
	return nil
}

type ReceiveStockDTO struct {
	Quantity int64  `json:"quantity"`
	Note     string `json:"note,omitempty"`
}

func (d ReceiveStockDTO) Validate() error {
	if err := validation.ValidateStockQuantity(d.Quantity); err != nil {
		return err
	}
	return nil
}
