package vehicle

import "time"

// Vehicle is registered to a customer within a garage. Registration numbers
// are unique per garage, not globally.
type Vehicle struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	GarageID   int64     `json:"garage_id" gorm:"column:garage_id;uniqueIndex:idx_vehicles_garage_reg;not null"`
	CustomerID int64     `json:"customer_id" gorm:"column:customer_id;index;not null"`
	RegNo      string    `json:"reg_no" gorm:"column:reg_no;uniqueIndex:idx_vehicles_garage_reg;not null"`
	Make       string    `json:"make" gorm:"column:make"`
	Model      string    `json:"model" gorm:"column:model"`
	Year       int       `json:"year" gorm:"column:year"`
	Odometer   int64     `json:"odometer" gorm:"column:odometer"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}
