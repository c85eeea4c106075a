// Package loader normalizes heterogeneous raw order records into the
// canonical Order shape. Records arrive either in the legacy single-product
// form or the multi-item form, with inconsistent field names depending on
// whether they came from the local cache or the server API. All shape
// tolerance lives here; downstream packages only ever see canonical Orders.
package loader

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dukaantech/insights-backend/internal/insights/types"
)

// Candidate field names, ordered by priority. First present value wins.
var (
	idFields        = []string{"id", "order_id", "orderId", "_id"}
	timestampFields = []string{"order_date", "orderDate", "created_at", "createdAt", "timestamp"}
	customerFields  = []string{"customer_id", "customerId", "customer_email", "customerEmail", "email", "customer_name", "customerName", "name"}
	amountFields    = []string{"total_amount", "totalAmount", "total", "amount"}
	statusFields    = []string{"status", "order_status", "orderStatus"}

	itemProductKeyFields  = []string{"product_id", "productId", "sku"}
	itemProductNameFields = []string{"product_name", "productName", "title", "name"}
	itemQuantityFields    = []string{"quantity", "qty"}
	itemUnitPriceFields   = []string{"unit_price", "unitPrice", "price"}
	itemLineTotalFields   = []string{"line_total", "lineTotal", "subtotal"}
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize converts raw records into canonical Orders. It is a pure
// transform: now is the fallback timestamp for records carrying no usable
// date field, passed in so callers stay deterministic under test.
func Normalize(records []map[string]any, now time.Time) []types.Order {
	orders := make([]types.Order, 0, len(records))
	for i, rec := range records {
		if rec == nil {
			continue
		}
		orders = append(orders, normalizeOne(rec, i, now))
	}
	return orders
}

func normalizeOne(rec map[string]any, index int, now time.Time) types.Order {
	order := types.Order{
		ID:          firstString(rec, idFields),
		Timestamp:   firstTime(rec, timestampFields, now),
		Status:      normalizeStatus(firstString(rec, statusFields)),
		CustomerKey: firstString(rec, customerFields),
		Items:       normalizeItems(rec),
	}
	if order.ID == "" {
		order.ID = fmt.Sprintf("order-%d", index)
	}

	order.TotalAmount = SafeFloat(firstValue(rec, amountFields))
	if order.TotalAmount == 0 && len(order.Items) > 0 {
		for _, item := range order.Items {
			order.TotalAmount += item.LineTotal
		}
	}
	return order
}

// normalizeItems uses the items array when present and non-empty, otherwise
// synthesizes a single line item from top-level product fields.
func normalizeItems(rec map[string]any) []types.LineItem {
	if raw, ok := rec["items"].([]any); ok && len(raw) > 0 {
		items := make([]types.LineItem, 0, len(raw))
		for _, entry := range raw {
			itemRec, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			items = append(items, normalizeItem(itemRec))
		}
		if len(items) > 0 {
			return items
		}
	}

	item := normalizeItem(rec)
	if item.ProductKey == "" && item.ProductName == "" && item.Quantity == 0 && item.LineTotal == 0 {
		return nil
	}
	return []types.LineItem{item}
}

func normalizeItem(rec map[string]any) types.LineItem {
	item := types.LineItem{
		ProductKey:  firstString(rec, itemProductKeyFields),
		ProductName: firstString(rec, itemProductNameFields),
		Quantity:    SafeFloat(firstValue(rec, itemQuantityFields)),
		UnitPrice:   SafeFloat(firstValue(rec, itemUnitPriceFields)),
		LineTotal:   SafeFloat(firstValue(rec, itemLineTotalFields)),
	}
	// A missing line total is computed, never assumed zero.
	if item.LineTotal == 0 && item.Quantity != 0 && item.UnitPrice != 0 {
		item.LineTotal = item.Quantity * item.UnitPrice
	}
	return item
}

func normalizeStatus(raw string) types.OrderStatus {
	if raw == "" {
		return types.StatusPending
	}
	return types.OrderStatus(raw)
}

func firstValue(rec map[string]any, keys []string) any {
	for _, key := range keys {
		if val, ok := rec[key]; ok && val != nil {
			return val
		}
	}
	return nil
}

func firstString(rec map[string]any, keys []string) string {
	for _, key := range keys {
		val, ok := rec[key]
		if !ok || val == nil {
			continue
		}
		switch v := val.(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		}
	}
	return ""
}

func firstTime(rec map[string]any, keys []string, fallback time.Time) time.Time {
	for _, key := range keys {
		val, ok := rec[key]
		if !ok || val == nil {
			continue
		}
		if parsed, ok := parseTime(val); ok {
			return parsed
		}
	}
	return fallback
}

func parseTime(val any) (time.Time, bool) {
	switch v := val.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v.UTC(), true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed.UTC(), true
			}
		}
	case float64:
		return epochToTime(int64(v))
	case int64:
		return epochToTime(v)
	case int:
		return epochToTime(int64(v))
	}
	return time.Time{}, false
}

// epochToTime accepts seconds or milliseconds since the Unix epoch.
func epochToTime(epoch int64) (time.Time, bool) {
	if epoch <= 0 {
		return time.Time{}, false
	}
	if epoch > 1e12 {
		return time.UnixMilli(epoch).UTC(), true
	}
	return time.Unix(epoch, 0).UTC(), true
}

// SafeFloat coerces any upstream value to a float64. Unparsable values
// become 0 so aggregates never see NaN or a panic.
func SafeFloat(val any) float64 {
	switch v := val.(type) {
	case float64:
		if v != v { // NaN
			return 0
		}
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0
		}
		if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil && parsed == parsed {
			return parsed
		}
	}
	return 0
}
