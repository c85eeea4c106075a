// Package orderstore persists storefront orders and serves them to the
// analytics pipeline as canonical records. Raw heterogeneous imports pass
// through the loader once, at this boundary; stored rows are canonical.
package orderstore

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dukaantech/insights-backend/internal/insights/loader"
	"github.com/dukaantech/insights-backend/internal/insights/types"
)

// Repository reads and writes order rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an order repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateOrders inserts orders with their line items.
func (r *Repository) CreateOrders(ctx context.Context, records []OrderRecord) error {
	if len(records) == 0 {
		return nil
	}
	for i := range records {
		if records[i].ID == uuid.Nil {
			records[i].ID = uuid.New()
		}
		for j := range records[i].Items {
			if records[i].Items[j].ID == uuid.Nil {
				records[i].Items[j].ID = uuid.New()
			}
			records[i].Items[j].OrderID = records[i].ID
		}
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

// ImportRaw normalizes heterogeneous raw order records and persists them.
// now is the fallback timestamp for records with no usable date field.
// Returns the number of orders stored.
func (r *Repository) ImportRaw(ctx context.Context, raw []map[string]any, now time.Time) (int, error) {
	orders := loader.Normalize(raw, now)
	if len(orders) == 0 {
		return 0, nil
	}
	records := make([]OrderRecord, 0, len(orders))
	for _, order := range orders {
		records = append(records, fromCanonical(order))
	}
	if err := r.CreateOrders(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// FetchRange returns canonical orders placed in the half-open window
// [start, end), oldest first.
func (r *Repository) FetchRange(ctx context.Context, start, end time.Time) ([]types.Order, error) {
	var records []OrderRecord
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("placed_at >= ? AND placed_at < ?", start, end).
		Order("placed_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	orders := make([]types.Order, 0, len(records))
	for _, record := range records {
		orders = append(orders, toCanonical(record))
	}
	return orders, nil
}

// fromCanonical maps a normalized order to its row. The collapsed customer
// key lands in the stable-ID column so it survives the round trip.
func fromCanonical(order types.Order) OrderRecord {
	items := make([]OrderItemRecord, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemRecord{
			ProductID:   item.ProductKey,
			ProductName: item.ProductName,
			Quantity:    decimal.NewFromFloat(item.Quantity),
			UnitPrice:   decimal.NewFromFloat(item.UnitPrice),
			LineTotal:   decimal.NewFromFloat(item.LineTotal),
		})
	}
	return OrderRecord{
		ExternalRef: order.ID,
		CustomerID:  order.CustomerKey,
		Status:      string(order.Status),
		TotalAmount: decimal.NewFromFloat(order.TotalAmount),
		PlacedAt:    order.Timestamp,
		Items:       items,
	}
}

// toCanonical maps one row to the analytics order shape. The customer key
// prefers the stable ID, then email, then display name.
func toCanonical(record OrderRecord) types.Order {
	id := record.ExternalRef
	if id == "" {
		id = record.ID.String()
	}
	customerKey := record.CustomerID
	if customerKey == "" {
		customerKey = record.CustomerEmail
	}
	if customerKey == "" {
		customerKey = record.CustomerName
	}

	items := make([]types.LineItem, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, types.LineItem{
			ProductKey:  item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity.InexactFloat64(),
			UnitPrice:   item.UnitPrice.InexactFloat64(),
			LineTotal:   item.LineTotal.InexactFloat64(),
		})
	}

	return types.Order{
		ID:          id,
		Timestamp:   record.PlacedAt.UTC(),
		Status:      types.OrderStatus(strings.ToLower(strings.TrimSpace(record.Status))),
		CustomerKey: customerKey,
		TotalAmount: record.TotalAmount.InexactFloat64(),
		Items:       items,
	}
}
