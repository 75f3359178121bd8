package customer

import "time"

// Customer belongs to exactly one garage; all lookups are scoped by garage ID.
type Customer struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	GarageID  int64     `json:"garage_id" gorm:"column:garage_id;index;not null"`
	Name      string    `json:"name" gorm:"column:name;not null"`
	Phone     string    `json:"phone" gorm:"column:phone"`
	Email     string    `json:"email" gorm:"column:email"`
	Address   string    `json:"address" gorm:"column:address"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}
