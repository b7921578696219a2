package metrics

import (
	"testing"

	"go-ecommerce-analytics/internal/dataset"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset() *dataset.Table {
	t := dataset.New(
		"order_id", "customer_unique_id", "customer_state", "purchase_year",
		"purchase_month", "product_category_name", "revenue", "review_score",
		"payment_type", "delivery_days",
	)
	rows := []dataset.Row{
		{
			"order_id": "o1", "customer_unique_id": "u1", "customer_state": "SP",
			"purchase_year": 2023, "purchase_month": 1, "product_category_name": "A",
			"revenue": decimal.NewFromInt(100), "review_score": 5,
			"payment_type": "credit_card", "delivery_days": 5,
		},
		{
			"order_id": "o2", "customer_unique_id": "u2", "customer_state": "RJ",
			"purchase_year": 2023, "purchase_month": 2, "product_category_name": "B",
			"revenue": decimal.NewFromInt(200), "review_score": 4,
			"payment_type": "boleto", "delivery_days": 15,
		},
		{
			"order_id": "o3", "customer_unique_id": "u3", "customer_state": "MG",
			"purchase_year": 2022, "purchase_month": 2, "product_category_name": "A",
			"revenue": decimal.NewFromInt(100), "review_score": 3,
			"payment_type": "credit_card", "delivery_days": 7,
		},
		{
			"order_id": "o4", "customer_unique_id": "u1", "customer_state": "SP",
			"purchase_year": 2023, "purchase_month": 1, "product_category_name": "B",
			"revenue": decimal.NewFromInt(50), "review_score": nil,
			"payment_type": "credit_card", "delivery_days": 6,
		},
	}
	for _, row := range rows {
		t.Append(row)
	}
	return t
}

func TestRevenueMetrics(t *testing.T) {
	report := NewCalculator(testDataset()).GenerateComprehensiveReport(2023, 2022)
	revenue := report["revenue_metrics"].(map[string]any)

	assert.Equal(t, 3, revenue["total_orders"])
	assert.True(t, revenue["total_revenue"].(decimal.Decimal).Equal(decimal.NewFromInt(350)))

	// (350 - 100) / 100 * 100
	assert.InDelta(t, 250.0, revenue["revenue_growth_pct"].(float64), 0.001)

	aov := revenue["average_order_value"].(decimal.Decimal)
	f, _ := aov.Float64()
	assert.InDelta(t, 116.667, f, 0.001)
}

func TestRevenueGrowthZeroWithoutPreviousYear(t *testing.T) {
	report := NewCalculator(testDataset()).GenerateComprehensiveReport(2023, 0)
	revenue := report["revenue_metrics"].(map[string]any)
	assert.Equal(t, 0.0, revenue["revenue_growth_pct"])
}

func TestCustomerMetrics(t *testing.T) {
	report := NewCalculator(testDataset()).GenerateComprehensiveReport(2023, 2022)
	customer := report["customer_metrics"].(map[string]any)

	// 2023 rows only: u1 (o1, o4) and u2 (o2).
	assert.Equal(t, 2, customer["unique_customers"])
	assert.InDelta(t, 50.0, customer["repeat_customer_pct"].(float64), 0.001)
}

func TestMonthlyTrendsCoverWholeDataset(t *testing.T) {
	report := NewCalculator(testDataset()).GenerateComprehensiveReport(2023, 2022)
	trends := report["monthly_trends"].(*dataset.Table)

	require.Equal(t, 2, trends.Len())

	jan := trends.Rows[0]
	assert.Equal(t, 1, jan["month"])
	assert.True(t, jan["revenue"].(decimal.Decimal).Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 2, jan["orders"])

	// February mixes the 2022 order into the same month bucket.
	feb := trends.Rows[1]
	assert.Equal(t, 2, feb["month"])
	assert.True(t, feb["revenue"].(decimal.Decimal).Equal(decimal.NewFromInt(300)))
	assert.Equal(t, 2, feb["orders"])
}

func TestTopCategoriesSortedByRevenue(t *testing.T) {
	report := NewCalculator(testDataset()).GenerateComprehensiveReport(2023, 2022)
	cats := report["product_performance"].(map[string]any)["top_categories"].(*dataset.Table)

	require.Equal(t, 2, cats.Len())
	assert.Equal(t, "B", cats.Rows[0]["product_category_name"])
	assert.True(t, cats.Rows[0]["total_revenue"].(decimal.Decimal).Equal(decimal.NewFromInt(250)))
	assert.Equal(t, 2, cats.Rows[0]["unique_orders"])
	assert.Equal(t, 2, cats.Rows[0]["items_sold"])
	assert.Equal(t, "A", cats.Rows[1]["product_category_name"])
}

func TestCustomerSatisfaction(t *testing.T) {
	report := NewCalculator(testDataset()).GenerateComprehensiveReport(2023, 2022)
	sat := report["customer_satisfaction"].(map[string]any)

	assert.Equal(t, 3, sat["total_reviews"])
	assert.InDelta(t, 4.0, sat["avg_review_score"].(float64), 0.001)
	assert.InDelta(t, 33.333, sat["score_5_percentage"].(float64), 0.001)
	assert.InDelta(t, 66.667, sat["score_4_plus_percentage"].(float64), 0.001)
}

func TestGeographicPerformance(t *testing.T) {
	report := NewCalculator(testDataset()).GenerateComprehensiveReport(2023, 2022)
	geo := report["geographic_performance"].(*dataset.Table)

	require.Equal(t, 3, geo.Len())
	assert.Equal(t, "RJ", geo.Rows[0]["customer_state"])
	assert.Equal(t, "SP", geo.Rows[1]["customer_state"])
	assert.Equal(t, 2, geo.Rows[1]["orders"])
	assert.Equal(t, 1, geo.Rows[1]["customers"])
	assert.Equal(t, "MG", geo.Rows[2]["customer_state"])
}

func TestDeliveryPerformance(t *testing.T) {
	report := NewCalculator(testDataset()).GenerateComprehensiveReport(2023, 2022)
	delivery := report["delivery_performance"].(map[string]any)

	assert.InDelta(t, 8.25, delivery["avg_delivery_days"].(float64), 0.001)
	assert.InDelta(t, 6.5, delivery["median_delivery_days"].(float64), 0.001)
	assert.InDelta(t, 75.0, delivery["fast_delivery_percentage"].(float64), 0.001)
	assert.InDelta(t, 25.0, delivery["slow_delivery_percentage"].(float64), 0.001)
}

func TestPaymentAnalysis(t *testing.T) {
	report := NewCalculator(testDataset()).GenerateComprehensiveReport(2023, 2022)
	payments := report["payment_analysis"].(map[string]any)

	card := payments["credit_card"].(map[string]any)
	assert.Equal(t, 3, card["orders"])
	assert.True(t, card["revenue"].(decimal.Decimal).Equal(decimal.NewFromInt(250)))
	assert.InDelta(t, 75.0, card["pct_of_orders"].(float64), 0.001)

	boleto := payments["boleto"].(map[string]any)
	assert.Equal(t, 1, boleto["orders"])
}

func TestCustomerSegments(t *testing.T) {
	report := NewCalculator(testDataset()).GenerateComprehensiveReport(2023, 2022)
	segments := report["customer_segments"].(map[string]any)

	oneTime := segments["one_time"].(map[string]any)
	returning := segments["returning"].(map[string]any)
	loyal := segments["loyal"].(map[string]any)

	assert.Equal(t, 2, oneTime["customers"])
	assert.Equal(t, 1, returning["customers"])
	assert.Equal(t, 0, loyal["customers"])
	assert.True(t, returning["revenue"].(decimal.Decimal).Equal(decimal.NewFromInt(150)))
}

func TestEmptyDatasetProducesZeroedGroups(t *testing.T) {
	report := NewCalculator(dataset.New()).GenerateComprehensiveReport(2023, 2022)

	revenue := report["revenue_metrics"].(map[string]any)
	assert.Equal(t, 0, revenue["total_orders"])

	sat := report["customer_satisfaction"].(map[string]any)
	assert.Equal(t, 0, sat["total_reviews"])

	delivery := report["delivery_performance"].(map[string]any)
	assert.Equal(t, 0.0, delivery["avg_delivery_days"])

	assert.Equal(t, 0, report["monthly_trends"].(*dataset.Table).Len())
}
