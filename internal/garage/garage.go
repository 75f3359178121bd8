package garage

import (
	"time"
)

const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// Garage is a tenant. Every other record in the system hangs off a garage ID.
type Garage struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"column:name;not null"`
	OwnerName string    `json:"owner_name" gorm:"column:owner_name"`
	Phone     string    `json:"phone" gorm:"column:phone"`
	Email     string    `json:"email" gorm:"column:email"`
	Address   string    `json:"address" gorm:"column:address"`
	Status    string    `json:"status" gorm:"column:status;default:active"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Garage) TableName() string {
	return "garages"
}

func (g *Garage) IsActive() bool {
	return g.Status == StatusActive
}

// DashboardStats are the per-garage counters shown on role dashboards.
type DashboardStats struct {
	GarageID       int64 `json:"garage_id"`
	Customers      int64 `json:"customers"`
	Vehicles       int64 `json:"vehicles"`
	OpenJobCards   int64 `json:"open_job_cards"`
	UnpaidInvoices int64 `json:"unpaid_invoices"`
}
