package orderstore

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrderStoreTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  external_ref TEXT,
  customer_id TEXT,
  customer_email TEXT,
  customer_name TEXT,
  status TEXT NOT NULL,
  total_amount TEXT NOT NULL,
  placed_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  product_name TEXT NOT NULL,
  quantity TEXT NOT NULL,
  unit_price TEXT NOT NULL,
  line_total TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	return db
}

func TestFetchRangeMapsToCanonicalOrders(t *testing.T) {
	db := setupOrderStoreTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	placed := time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)
	records := []OrderRecord{{
		ExternalRef: "ord-1001",
		CustomerID:  "cust-1",
		Status:      "Delivered",
		TotalAmount: decimal.NewFromFloat(450.50),
		PlacedAt:    placed,
		Items: []OrderItemRecord{{
			ProductID:   "sku-1",
			ProductName: "Steel Bottle",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.NewFromFloat(225.25),
			LineTotal:   decimal.NewFromFloat(450.50),
		}},
	}}
	require.NoError(t, repo.CreateOrders(ctx, records))

	orders, err := repo.FetchRange(ctx, placed.AddDate(0, 0, -1), placed.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.Equal(t, "ord-1001", order.ID)
	assert.Equal(t, "cust-1", order.CustomerKey)
	assert.Equal(t, "delivered", string(order.Status))
	assert.InDelta(t, 450.50, order.TotalAmount, 0.001)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Steel Bottle", order.Items[0].ProductName)
	assert.InDelta(t, 2, order.Items[0].Quantity, 0.001)
}

func TestImportRawNormalizesBeforePersisting(t *testing.T) {
	db := setupOrderStoreTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Date(2026, time.March, 19, 12, 0, 0, 0, time.UTC)

	raw := []map[string]any{
		{
			// Legacy single-product shape with string amounts.
			"order_id":   "legacy-1",
			"order_date": "2026-03-10T09:30:00Z",
			"status":     "delivered",
			"email":      "a@example.com",
			"total":      "129.50",
			"product_id": "sku-1",
			"title":      "Steel Bottle",
			"qty":        1,
			"price":      129.50,
		},
		{
			// Multi-item shape; the order total comes from the line items.
			"id":         "multi-1",
			"created_at": "2026-03-11 10:00:00",
			"status":     "confirmed",
			"customerId": "cust-9",
			"items": []any{
				map[string]any{"sku": "sku-2", "product_name": "Mug", "quantity": 2.0, "unit_price": 40.0},
				map[string]any{"sku": "sku-3", "product_name": "Plate", "quantity": 1.0, "unit_price": 150.0, "line_total": 150.0},
			},
		},
	}

	count, err := repo.ImportRaw(ctx, raw, now)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	orders, err := repo.FetchRange(ctx,
		time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, orders, 2)

	legacy := orders[0]
	assert.Equal(t, "legacy-1", legacy.ID)
	assert.Equal(t, "a@example.com", legacy.CustomerKey)
	assert.InDelta(t, 129.50, legacy.TotalAmount, 0.001)
	require.Len(t, legacy.Items, 1)
	assert.Equal(t, "Steel Bottle", legacy.Items[0].ProductName)

	multi := orders[1]
	assert.Equal(t, "multi-1", multi.ID)
	assert.Equal(t, "cust-9", multi.CustomerKey)
	// 2*40 computed + 150 explicit.
	assert.InDelta(t, 230, multi.TotalAmount, 0.001)
	require.Len(t, multi.Items, 2)
	assert.InDelta(t, 80, multi.Items[0].LineTotal, 0.001)
}

func TestImportRawEmptyInput(t *testing.T) {
	db := setupOrderStoreTestDB(t)
	repo := NewRepository(db)

	count, err := repo.ImportRaw(context.Background(), nil, time.Now().UTC())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFetchRangeWindowIsHalfOpen(t *testing.T) {
	db := setupOrderStoreTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	boundary := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateOrders(ctx, []OrderRecord{
		{Status: "pending", TotalAmount: decimal.NewFromInt(100), PlacedAt: boundary.Add(-time.Second)},
		{Status: "pending", TotalAmount: decimal.NewFromInt(200), PlacedAt: boundary},
	}))

	orders, err := repo.FetchRange(ctx, boundary.AddDate(0, 0, -1), boundary)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.InDelta(t, 100, orders[0].TotalAmount, 0.001)
}

func TestFetchRangeCustomerKeyFallback(t *testing.T) {
	db := setupOrderStoreTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	placed := time.Date(2026, time.March, 12, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateOrders(ctx, []OrderRecord{
		{CustomerEmail: "a@example.com", Status: "confirmed", TotalAmount: decimal.NewFromInt(50), PlacedAt: placed},
		{CustomerName: "Walk-in", Status: "confirmed", TotalAmount: decimal.NewFromInt(60), PlacedAt: placed.Add(time.Minute)},
	}))

	orders, err := repo.FetchRange(ctx, placed.AddDate(0, 0, -1), placed.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "a@example.com", orders[0].CustomerKey)
	assert.Equal(t, "Walk-in", orders[1].CustomerKey)
}
