package types

import "time"

// OrderStatus is the canonical, case-sensitive order state.
type OrderStatus string

const (
	StatusPending             OrderStatus = "pending"
	StatusPendingVerification OrderStatus = "pending_verification"
	StatusConfirmed           OrderStatus = "confirmed"
	StatusApproved            OrderStatus = "approved"
	StatusProcessing          OrderStatus = "processing"
	StatusOutForDelivery      OrderStatus = "out_for_delivery"
	StatusDelivered           OrderStatus = "delivered"
	StatusCancelled           OrderStatus = "cancelled"
)

// RevenueEligible reports whether the status counts toward completed revenue.
func (s OrderStatus) RevenueEligible() bool {
	switch s {
	case StatusConfirmed, StatusApproved, StatusDelivered:
		return true
	}
	return false
}

// LineItem is one product line on a canonical order. Legacy single-product
// orders are lifted into a one-element slice by the loader.
type LineItem struct {
	ProductKey  string  `json:"product_key"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

// Order is the canonical post-normalization record every downstream
// component consumes.
type Order struct {
	ID          string      `json:"id"`
	Timestamp   time.Time   `json:"timestamp"`
	Status      OrderStatus `json:"status"`
	CustomerKey string      `json:"customer_key"`
	TotalAmount float64     `json:"total_amount"`
	Items       []LineItem  `json:"items"`
}

// DailyBucket aggregates one calendar day (UTC, keyed YYYY-MM-DD).
type DailyBucket struct {
	Day     string  `json:"day"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
	Items   float64 `json:"items"`
}

// Metrics carries the raw aggregates for one report window. TotalRevenue is
// unfiltered throughput; CompletedRevenue counts only revenue-eligible
// statuses. The two are never conflated.
type Metrics struct {
	TotalOrders       int                 `json:"total_orders"`
	TotalRevenue      float64             `json:"total_revenue"`
	CompletedRevenue  float64             `json:"completed_revenue"`
	AverageOrderValue float64             `json:"average_order_value"`
	ConversionRate    float64             `json:"conversion_rate"`
	StatusBreakdown   map[OrderStatus]int `json:"status_breakdown"`
	Daily             []DailyBucket       `json:"daily"`
	PeakDay           *DailyBucket        `json:"peak_day,omitempty"`
}

// TrendDirection classifies the fitted slope of a series.
type TrendDirection string

const (
	TrendIncreasing       TrendDirection = "increasing"
	TrendDecreasing       TrendDirection = "decreasing"
	TrendStable           TrendDirection = "stable"
	TrendInsufficientData TrendDirection = "insufficient_data"
)

// SalesTrend is the regression summary over the daily revenue series.
// Confidence here is fit quality (r squared capped at 1), not the
// summary reliability score.
type SalesTrend struct {
	Direction   TrendDirection `json:"direction"`
	Slope       float64        `json:"slope"`
	Change      float64        `json:"change"`
	Description string         `json:"description"`
	Confidence  float64        `json:"confidence"`
}

// ProductStat aggregates one product across the window.
type ProductStat struct {
	Key      string  `json:"key"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Revenue  float64 `json:"revenue"`
	Orders   int     `json:"orders"`
}

// ProductTrend ranks products and reports the revenue share held by the top
// ceil(20%) of them.
type ProductTrend struct {
	Top                []ProductStat `json:"top"`
	Bottom             []ProductStat `json:"bottom"`
	Distinct           int           `json:"distinct"`
	ConcentrationRatio float64       `json:"concentration_ratio"`
}

// CustomerStat is one customer's lifetime-within-window aggregate.
type CustomerStat struct {
	Key        string    `json:"key"`
	Orders     int       `json:"orders"`
	Revenue    float64   `json:"revenue"`
	FirstOrder time.Time `json:"first_order"`
	LastOrder  time.Time `json:"last_order"`
}

// WeekCount is the unique-customer count for one week bucket.
type WeekCount struct {
	Week      string `json:"week"`
	Customers int    `json:"customers"`
}

// CustomerTrend summarizes acquisition and retention.
type CustomerTrend struct {
	Unique           int            `json:"unique"`
	RepeatRate       float64        `json:"repeat_rate"`
	AcquisitionTrend TrendDirection `json:"acquisition_trend"`
	Weekly           []WeekCount    `json:"weekly"`
	TopSpenders      []CustomerStat `json:"top_spenders"`
}

// Seasonality captures the day-of-week revenue pattern.
type Seasonality struct {
	AvgMultiplier float64                  `json:"avg_multiplier"`
	Strength      string                   `json:"strength"`
	PeakWeekday   time.Weekday             `json:"peak_weekday"`
	DayMeans      map[time.Weekday]float64 `json:"day_means,omitempty"`
}

// HourlyPattern captures the hour-of-day order distribution (UTC hours).
// PeakHour is -1 when the window holds no orders.
type HourlyPattern struct {
	PeakHour    int             `json:"peak_hour"`
	PeakRevenue float64         `json:"peak_revenue"`
	Revenue     map[int]float64 `json:"revenue,omitempty"`
	Orders      map[int]int     `json:"orders,omitempty"`
}

// Anomaly severity labels.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Anomaly kinds.
const (
	AnomalySales    = "sales"
	AnomalyProduct  = "product_demand"
	AnomalyCustomer = "customer_frequency"
)

// Anomaly is one typed detector finding.
type Anomaly struct {
	Kind        string   `json:"kind"`
	Severity    string   `json:"severity"`
	Day         string   `json:"day,omitempty"`
	Description string   `json:"description"`
	Metric      float64  `json:"metric"`
	Subjects    []string `json:"subjects,omitempty"`
}

// ProductDemand is a per-product demand projection.
type ProductDemand struct {
	Key             string `json:"key"`
	Name            string `json:"name"`
	EstimatedDemand int    `json:"estimated_demand"`
	Confidence      string `json:"confidence"`
}

// Forecast projects near-future revenue. Low/High is a fixed +-20% band
// around Value, a documented simplification rather than a statistical
// confidence interval.
type Forecast struct {
	Period     string          `json:"period"`
	Days       int             `json:"days"`
	Value      float64         `json:"value"`
	Low        float64         `json:"low"`
	High       float64         `json:"high"`
	Confidence string          `json:"confidence"`
	Note       string          `json:"note,omitempty"`
	Factors    []string        `json:"factors,omitempty"`
	Products   []ProductDemand `json:"products,omitempty"`
}

// DateRange is the resolved report window.
type DateRange struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Insight is one rule-derived observation.
type Insight struct {
	Kind      string `json:"kind"`
	Sentiment string `json:"sentiment"`
	Text      string `json:"text"`
}

// Recommendation is one prioritized action.
type Recommendation struct {
	Priority string `json:"priority"`
	Action   string `json:"action"`
}

// Summary is the narrative output. Reliability is the composite
// data-quality score in [0,1]; it is distinct from regression confidence.
type Summary struct {
	Text            string           `json:"text"`
	Insights        []Insight        `json:"insights"`
	Recommendations []Recommendation `json:"recommendations"`
	Reliability     float64          `json:"reliability"`
}

// Report is the engine's immutable output, built fresh per call.
type Report struct {
	ReportID      string        `json:"report_id"`
	Range         DateRange     `json:"range"`
	GeneratedAt   time.Time     `json:"generated_at"`
	Metrics       Metrics       `json:"metrics"`
	Sales         SalesTrend    `json:"sales_trend"`
	Products      ProductTrend  `json:"product_trend"`
	Customers     CustomerTrend `json:"customer_trend"`
	Seasonality   Seasonality   `json:"seasonality"`
	Hourly        HourlyPattern `json:"hourly"`
	Anomalies     []Anomaly     `json:"anomalies"`
	PriorRevenue  float64       `json:"prior_revenue"`
	HasPriorData  bool          `json:"has_prior_data"`
	Summary       *Summary      `json:"summary,omitempty"`
	SalesForecast *Forecast     `json:"forecast,omitempty"`
}

// Query result types.
const (
	QueryResultAnswer = "answer"
	QueryResultError  = "error"
)

// QueryResult is the assistant's reply to one free-text question.
type QueryResult struct {
	Type       string  `json:"type"`
	Intent     string  `json:"intent,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Text       string  `json:"text"`
	Data       any     `json:"data,omitempty"`
}
