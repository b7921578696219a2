package metrics

import (
	"fmt"
	"sort"

	"go-ecommerce-analytics/internal/dataset"
	"go-ecommerce-analytics/pkg/utils"

	"github.com/shopspring/decimal"
)

// Report maps metric-group names to either a scalar mapping, a sub-table or
// a nested mapping. It is produced once per run and read-only afterwards.
type Report map[string]any

// Calculator computes summary business metrics over a sales dataset.
type Calculator struct {
	data *dataset.Table
}

// NewCalculator creates a calculator over the given sales dataset.
func NewCalculator(data *dataset.Table) *Calculator {
	return &Calculator{data: data}
}

// GenerateComprehensiveReport computes every metric group. Scalar KPI groups
// (revenue, customer, delivery) are computed over currentYear rows so that
// year-over-year growth against previousYear is meaningful; trend and
// breakdown groups cover the whole dataset.
func (c *Calculator) GenerateComprehensiveReport(currentYear, previousYear int) Report {
	fmt.Printf("📊 Generating comprehensive report (%d rows)...\n", c.data.Len())

	current := c.yearSubset(currentYear)

	return Report{
		"revenue_metrics":        c.revenueMetrics(current, previousYear),
		"customer_metrics":       c.customerMetrics(current),
		"delivery_metrics":       c.deliveryMetrics(current),
		"monthly_trends":         c.monthlyTrends(),
		"product_performance":    map[string]any{"top_categories": c.topCategories()},
		"customer_satisfaction":  c.customerSatisfaction(),
		"geographic_performance": c.geographicPerformance(),
		"delivery_performance":   c.deliveryPerformance(),
		"payment_analysis":       c.paymentAnalysis(),
		"customer_segments":      c.customerSegments(),
	}
}

func (c *Calculator) yearSubset(year int) *dataset.Table {
	if year == 0 {
		return c.data
	}
	return c.data.Filter(func(row dataset.Row) bool {
		return utils.Int(row["purchase_year"]) == year
	})
}

func (c *Calculator) revenueMetrics(current *dataset.Table, previousYear int) map[string]any {
	orders := uniqueCount(current, "order_id")
	revenue := sumDecimal(current, "revenue")

	avgOrderValue := decimal.Zero
	if orders > 0 {
		avgOrderValue = revenue.Div(decimal.NewFromInt(int64(orders)))
	}

	growthPct := 0.0
	if previousYear != 0 {
		previousRevenue := sumDecimal(c.yearSubset(previousYear), "revenue")
		if previousRevenue.IsPositive() {
			growthPct, _ = revenue.Sub(previousRevenue).
				Div(previousRevenue).
				Mul(decimal.NewFromInt(100)).
				Float64()
		}
	}

	return map[string]any{
		"total_orders":        orders,
		"total_revenue":       revenue,
		"average_order_value": avgOrderValue,
		"revenue_growth_pct":  growthPct,
	}
}

func (c *Calculator) customerMetrics(current *dataset.Table) map[string]any {
	ordersByCustomer := make(map[string]map[string]bool)
	revenue := decimal.Zero
	for _, row := range current.Rows {
		id, _ := row["customer_unique_id"].(string)
		if id == "" {
			continue
		}
		if ordersByCustomer[id] == nil {
			ordersByCustomer[id] = make(map[string]bool)
		}
		if orderID, _ := row["order_id"].(string); orderID != "" {
			ordersByCustomer[id][orderID] = true
		}
		if amount, ok := row["revenue"].(decimal.Decimal); ok {
			revenue = revenue.Add(amount)
		}
	}

	customers := len(ordersByCustomer)
	repeat := 0
	for _, orders := range ordersByCustomer {
		if len(orders) > 1 {
			repeat++
		}
	}

	repeatPct := 0.0
	avgRevenue := decimal.Zero
	if customers > 0 {
		repeatPct = float64(repeat) / float64(customers) * 100
		avgRevenue = revenue.Div(decimal.NewFromInt(int64(customers)))
	}

	return map[string]any{
		"unique_customers":         customers,
		"repeat_customer_pct":      repeatPct,
		"avg_revenue_per_customer": avgRevenue,
	}
}

func (c *Calculator) deliveryMetrics(current *dataset.Table) map[string]any {
	days := deliveryDays(current)

	avg := 0.0
	fastPct := 0.0
	if len(days) > 0 {
		total := 0
		fast := 0
		for _, d := range days {
			total += d
			if d <= 7 {
				fast++
			}
		}
		avg = float64(total) / float64(len(days))
		fastPct = float64(fast) / float64(len(days)) * 100
	}

	return map[string]any{
		"avg_delivery_days":        avg,
		"fast_delivery_percentage": fastPct,
	}
}

// monthlyTrends groups the whole dataset by purchase month. Rows of every
// year present fall into the same month bucket.
func (c *Calculator) monthlyTrends() *dataset.Table {
	revenueByMonth := make(map[int]decimal.Decimal)
	ordersByMonth := make(map[int]map[string]bool)
	for _, row := range c.data.Rows {
		month := utils.Int(row["purchase_month"])
		if month == 0 {
			continue
		}
		if amount, ok := row["revenue"].(decimal.Decimal); ok {
			revenueByMonth[month] = revenueByMonth[month].Add(amount)
		}
		if ordersByMonth[month] == nil {
			ordersByMonth[month] = make(map[string]bool)
		}
		if orderID, _ := row["order_id"].(string); orderID != "" {
			ordersByMonth[month][orderID] = true
		}
	}

	months := make([]int, 0, len(revenueByMonth))
	for month := range revenueByMonth {
		months = append(months, month)
	}
	sort.Ints(months)

	trends := dataset.New("month", "revenue", "orders")
	for _, month := range months {
		trends.Append(dataset.Row{
			"month":   month,
			"revenue": revenueByMonth[month],
			"orders":  len(ordersByMonth[month]),
		})
	}
	return trends
}

func (c *Calculator) topCategories() *dataset.Table {
	type categoryAgg struct {
		name    string
		revenue decimal.Decimal
		orders  map[string]bool
		items   int
	}

	aggs := make(map[string]*categoryAgg)
	var order []string
	for _, row := range c.data.Rows {
		name, _ := row["product_category_name"].(string)
		if name == "" {
			continue
		}
		agg, ok := aggs[name]
		if !ok {
			agg = &categoryAgg{name: name, orders: make(map[string]bool)}
			aggs[name] = agg
			order = append(order, name)
		}
		if amount, ok := row["revenue"].(decimal.Decimal); ok {
			agg.revenue = agg.revenue.Add(amount)
		}
		if orderID, _ := row["order_id"].(string); orderID != "" {
			agg.orders[orderID] = true
		}
		agg.items++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return aggs[order[i]].revenue.GreaterThan(aggs[order[j]].revenue)
	})

	table := dataset.New("product_category_name", "total_revenue", "unique_orders", "items_sold")
	for _, name := range order {
		agg := aggs[name]
		table.Append(dataset.Row{
			"product_category_name": agg.name,
			"total_revenue":         agg.revenue,
			"unique_orders":         len(agg.orders),
			"items_sold":            agg.items,
		})
	}
	return table
}

func (c *Calculator) customerSatisfaction() map[string]any {
	reviewed := c.data.Filter(func(row dataset.Row) bool {
		return row["review_score"] != nil
	})

	total := reviewed.Len()
	if total == 0 {
		return map[string]any{
			"avg_review_score":        0.0,
			"total_reviews":           0,
			"score_5_percentage":      0.0,
			"score_4_plus_percentage": 0.0,
		}
	}

	sum := 0.0
	fives := 0
	fourPlus := 0
	for _, row := range reviewed.Rows {
		score := utils.Numeric(row["review_score"])
		sum += score
		if score >= 5 {
			fives++
		}
		if score >= 4 {
			fourPlus++
		}
	}

	return map[string]any{
		"avg_review_score":        sum / float64(total),
		"total_reviews":           total,
		"score_5_percentage":      float64(fives) / float64(total) * 100,
		"score_4_plus_percentage": float64(fourPlus) / float64(total) * 100,
	}
}

func (c *Calculator) geographicPerformance() *dataset.Table {
	type stateAgg struct {
		revenue   decimal.Decimal
		orders    map[string]bool
		customers map[string]bool
	}

	aggs := make(map[string]*stateAgg)
	var order []string
	for _, row := range c.data.Rows {
		state, _ := row["customer_state"].(string)
		if state == "" {
			continue
		}
		agg, ok := aggs[state]
		if !ok {
			agg = &stateAgg{orders: make(map[string]bool), customers: make(map[string]bool)}
			aggs[state] = agg
			order = append(order, state)
		}
		if amount, ok := row["revenue"].(decimal.Decimal); ok {
			agg.revenue = agg.revenue.Add(amount)
		}
		if orderID, _ := row["order_id"].(string); orderID != "" {
			agg.orders[orderID] = true
		}
		if customerID, _ := row["customer_unique_id"].(string); customerID != "" {
			agg.customers[customerID] = true
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return aggs[order[i]].revenue.GreaterThan(aggs[order[j]].revenue)
	})

	table := dataset.New("customer_state", "revenue", "orders", "customers")
	for _, state := range order {
		agg := aggs[state]
		table.Append(dataset.Row{
			"customer_state": state,
			"revenue":        agg.revenue,
			"orders":         len(agg.orders),
			"customers":      len(agg.customers),
		})
	}
	return table
}

func (c *Calculator) deliveryPerformance() map[string]any {
	days := deliveryDays(c.data)
	if len(days) == 0 {
		return map[string]any{
			"avg_delivery_days":        0.0,
			"median_delivery_days":     0.0,
			"fast_delivery_percentage": 0.0,
			"slow_delivery_percentage": 0.0,
		}
	}

	total := 0
	fast := 0
	slow := 0
	for _, d := range days {
		total += d
		if d <= 7 {
			fast++
		}
		if d > 14 {
			slow++
		}
	}

	sorted := append([]int(nil), days...)
	sort.Ints(sorted)
	median := float64(sorted[len(sorted)/2])
	if len(sorted)%2 == 0 {
		median = float64(sorted[len(sorted)/2-1]+sorted[len(sorted)/2]) / 2
	}

	n := float64(len(days))
	return map[string]any{
		"avg_delivery_days":        float64(total) / n,
		"median_delivery_days":     median,
		"fast_delivery_percentage": float64(fast) / n * 100,
		"slow_delivery_percentage": float64(slow) / n * 100,
	}
}

func (c *Calculator) paymentAnalysis() map[string]any {
	type paymentAgg struct {
		revenue decimal.Decimal
		orders  map[string]bool
	}

	aggs := make(map[string]*paymentAgg)
	totalOrders := uniqueCount(c.data, "order_id")
	for _, row := range c.data.Rows {
		ptype, _ := row["payment_type"].(string)
		if ptype == "" {
			continue
		}
		agg, ok := aggs[ptype]
		if !ok {
			agg = &paymentAgg{orders: make(map[string]bool)}
			aggs[ptype] = agg
		}
		if amount, ok := row["revenue"].(decimal.Decimal); ok {
			agg.revenue = agg.revenue.Add(amount)
		}
		if orderID, _ := row["order_id"].(string); orderID != "" {
			agg.orders[orderID] = true
		}
	}

	analysis := make(map[string]any, len(aggs))
	for ptype, agg := range aggs {
		pct := 0.0
		if totalOrders > 0 {
			pct = float64(len(agg.orders)) / float64(totalOrders) * 100
		}
		analysis[ptype] = map[string]any{
			"orders":        len(agg.orders),
			"revenue":       agg.revenue,
			"pct_of_orders": pct,
		}
	}
	return analysis
}

// customerSegments buckets customers by how many distinct orders they placed:
// one order is one_time, 2-3 is returning, 4 or more is loyal.
func (c *Calculator) customerSegments() map[string]any {
	ordersByCustomer := make(map[string]map[string]bool)
	revenueByCustomer := make(map[string]decimal.Decimal)
	for _, row := range c.data.Rows {
		id, _ := row["customer_unique_id"].(string)
		if id == "" {
			continue
		}
		if ordersByCustomer[id] == nil {
			ordersByCustomer[id] = make(map[string]bool)
		}
		if orderID, _ := row["order_id"].(string); orderID != "" {
			ordersByCustomer[id][orderID] = true
		}
		if amount, ok := row["revenue"].(decimal.Decimal); ok {
			revenueByCustomer[id] = revenueByCustomer[id].Add(amount)
		}
	}

	type segment struct {
		customers int
		revenue   decimal.Decimal
	}
	segments := map[string]*segment{
		"one_time":  {},
		"returning": {},
		"loyal":     {},
	}
	for id, orders := range ordersByCustomer {
		var name string
		switch {
		case len(orders) >= 4:
			name = "loyal"
		case len(orders) >= 2:
			name = "returning"
		default:
			name = "one_time"
		}
		segments[name].customers++
		segments[name].revenue = segments[name].revenue.Add(revenueByCustomer[id])
	}

	out := make(map[string]any, len(segments))
	for name, seg := range segments {
		out[name] = map[string]any{
			"customers": seg.customers,
			"revenue":   seg.revenue,
		}
	}
	return out
}

// Helpers

func uniqueCount(t *dataset.Table, column string) int {
	seen := make(map[string]bool)
	for _, row := range t.Rows {
		if v, _ := row[column].(string); v != "" {
			seen[v] = true
		}
	}
	return len(seen)
}

func sumDecimal(t *dataset.Table, column string) decimal.Decimal {
	sum := decimal.Zero
	for _, row := range t.Rows {
		if amount, ok := row[column].(decimal.Decimal); ok {
			sum = sum.Add(amount)
		}
	}
	return sum
}

func deliveryDays(t *dataset.Table) []int {
	var days []int
	for _, row := range t.Rows {
		if row["delivery_days"] == nil {
			continue
		}
		days = append(days, utils.Int(row["delivery_days"]))
	}
	return days
}
