package orderstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderRecord is the persisted storefront order row. Monetary columns use
// decimals; float conversion happens only at the analytics boundary.
type OrderRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ExternalRef   string          `gorm:"column:external_ref"`
	CustomerID    string          `gorm:"column:customer_id"`
	CustomerEmail string          `gorm:"column:customer_email"`
	CustomerName  string          `gorm:"column:customer_name"`
	Status        string          `gorm:"column:status;not null"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:numeric(14,2);not null"`
	PlacedAt      time.Time       `gorm:"column:placed_at;not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items []OrderItemRecord `gorm:"foreignKey:OrderID"`
}

func (OrderRecord) TableName() string { return "orders" }

// OrderItemRecord is one product line on a persisted order.
type OrderItemRecord struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;not null;index"`
	ProductID   string          `gorm:"column:product_id"`
	ProductName string          `gorm:"column:product_name;not null"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(12,3);not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(14,2);not null"`
	LineTotal   decimal.Decimal `gorm:"column:line_total;type:numeric(14,2);not null"`
	CreatedAt   time.Time
}

func (OrderItemRecord) TableName() string { return "order_items" }
