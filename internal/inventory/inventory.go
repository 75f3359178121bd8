package inventory

import "time"

// Part is a stocked spare part. Quantity never goes negative; issues that
// exceed stock are rejected.
type Part struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	GarageID     int64     `json:"garage_id" gorm:"column:garage_id;uniqueIndex:idx_parts_garage_sku;not null"`
	SKU          string    `json:"sku" gorm:"column:sku;uniqueIndex:idx_parts_garage_sku;not null"`
	Name         string    `json:"name" gorm:"column:name;not null"`
	Description  string    `json:"description" gorm:"column:description"`
	UnitPrice    int64     `json:"unit_price" gorm:"column:unit_price;not null"`
	Quantity     int64     `json:"quantity" gorm:"column:quantity;default:0"`
	ReorderLevel int64     `json:"reorder_level" gorm:"column:reorder_level;default:0"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Part) TableName() string {
	return "parts"
}

// NeedsReorder reports whether stock has fallen to or below the reorder level.
func (p *Part) NeedsReorder() bool {
	return p.Quantity <= p.ReorderLevel
}

const (
	MovementIssue   = "issue"
	MovementReceive = "receive"
	MovementAdjust  = "adjust"
)

// StockMovement is the audit trail for every quantity change.
type StockMovement struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	GarageID  int64     `json:"garage_id" gorm:"column:garage_id;index;not null"`
	PartID    int64     `json:"part_id" gorm:"column:part_id;index;not null"`
	Kind      string    `json:"kind" gorm:"column:kind;not null"`
	Quantity  int64     `json:"quantity" gorm:"column:quantity;not null"`
	Note      string    `json:"note" gorm:"column:note"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}
