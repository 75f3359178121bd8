package jobcard

import "time"

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusDelivered  = "delivered"
)

const (
	ItemKindLabor = "labor"
	ItemKindPart  = "part"
)

// JobCard tracks one vehicle through the workshop. Status only moves forward:
// open -> in_progress -> completed -> delivered.
type JobCard struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	GarageID     int64      `json:"garage_id" gorm:"column:garage_id;index;not null"`
	VehicleID    int64      `json:"vehicle_id" gorm:"column:vehicle_id;index;not null"`
	CustomerID   int64      `json:"customer_id" gorm:"column:customer_id;not null"`
	TechnicianID *int64     `json:"technician_id,omitempty" gorm:"column:technician_id"`
	Complaint    string     `json:"complaint" gorm:"column:complaint;not null"`
	Diagnosis    string     `json:"diagnosis" gorm:"column:diagnosis"`
	Status       string     `json:"status" gorm:"column:status;default:open"`
	OpenedAt     time.Time  `json:"opened_at" gorm:"column:opened_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" gorm:"column:completed_at"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty" gorm:"column:delivered_at"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"column:updated_at"`

	Items []JobItem `json:"items,omitempty" gorm:"foreignKey:JobCardID"`
}

func (JobCard) TableName() string {
	return "job_cards"
}

// JobItem is one labor or part line on a job card. Amounts are in the
// garage's minor currency unit.
type JobItem struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	JobCardID   int64     `json:"job_card_id" gorm:"column:job_card_id;index;not null"`
	Kind        string    `json:"kind" gorm:"column:kind;not null"`
	Description string    `json:"description" gorm:"column:description;not null"`
	PartID      *int64    `json:"part_id,omitempty" gorm:"column:part_id"`
	Quantity    int64     `json:"quantity" gorm:"column:quantity;default:1"`
	UnitPrice   int64     `json:"unit_price" gorm:"column:unit_price;not null"`
	Total       int64     `json:"total" gorm:"column:total;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
}

func (JobItem) TableName() string {
	return "job_items"
}

var statusOrder = map[string]int{
	StatusOpen:       0,
	StatusInProgress: 1,
	StatusCompleted:  2,
	StatusDelivered:  3,
}

// CanTransition allows only single forward steps.
func (j *JobCard) CanTransition(next string) bool {
	from, okFrom := statusOrder[j.Status]
	to, okTo := statusOrder[next]
	if !okFrom || !okTo {
		return false
	}
	return to == from+1
}

func (j *JobCard) IsDelivered() bool {
	return j.Status == StatusDelivered
}

// Total sums all item lines.
func (j *JobCard) Total() int64 {
	var total int64
	for _, item := range j.Items {
		total += item.Total
	}
	return total
}
