package gatepass

import "time"

// GatePass authorizes a vehicle to leave the premises after its job card
// is delivered. Serial is unique per garage.
type GatePass struct {
	ID        int64      `json:"id" gorm:"primaryKey"`
	GarageID  int64      `json:"garage_id" gorm:"column:garage_id;uniqueIndex:idx_gate_passes_garage_serial;not null"`
	Serial    string     `json:"serial" gorm:"column:serial;uniqueIndex:idx_gate_passes_garage_serial;not null"`
	JobCardID int64      `json:"job_card_id" gorm:"column:job_card_id;uniqueIndex;not null"`
	VehicleID int64      `json:"vehicle_id" gorm:"column:vehicle_id;not null"`
	IssuedBy  int64      `json:"issued_by" gorm:"column:issued_by;not null"`
	IssuedAt  time.Time  `json:"issued_at" gorm:"column:issued_at"`
	ExitedAt  *time.Time `json:"exited_at,omitempty" gorm:"column:exited_at"`
	Remarks   string     `json:"remarks" gorm:"column:remarks"`
	CreatedAt time.Time  `json:"created_at" gorm:"column:created_at"`
}

func (GatePass) TableName() string {
	return "gate_passes"
}

func (g *GatePass) HasExited() bool {
	return g.ExitedAt != nil
}
