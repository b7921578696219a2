package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-ecommerce-analytics/internal/dataset"
	"go-ecommerce-analytics/pkg/utils"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Source file names expected under the data path.
const (
	ordersFile     = "orders.csv"
	orderItemsFile = "order_items.csv"
	productsFile   = "products.csv"
	customersFile  = "customers.csv"
	reviewsFile    = "order_reviews.csv"
	paymentsFile   = "order_payments.csv"
)

const timestampLayout = "2006-01-02 15:04:05"

// moneyColumns are parsed into decimal amounts instead of floats.
var moneyColumns = map[string]bool{
	"price":         true,
	"freight_value": true,
	"payment_value": true,
}

// Loader reads the raw e-commerce CSV files and assembles analysis-ready
// sales datasets from them.
type Loader struct {
	dataPath string

	orders    *dataset.Table
	items     *dataset.Table
	products  *dataset.Table
	customers *dataset.Table
	reviews   *dataset.Table
	payments  *dataset.Table

	categoryByProduct map[string]string
	customerByID      map[string]dataset.Row
	reviewByOrder     map[string]any
	paymentByOrder    map[string]string
}

// New loads all source files under dataPath and preprocesses order rows with
// derived purchase_year, purchase_month and delivery_days columns.
func New(dataPath string) (*Loader, error) {
	l := &Loader{dataPath: dataPath}

	var err error
	if l.orders, err = readTable(filepath.Join(dataPath, ordersFile)); err != nil {
		return nil, err
	}
	if l.items, err = readTable(filepath.Join(dataPath, orderItemsFile)); err != nil {
		return nil, err
	}
	if l.products, err = readTable(filepath.Join(dataPath, productsFile)); err != nil {
		return nil, err
	}
	if l.customers, err = readTable(filepath.Join(dataPath, customersFile)); err != nil {
		return nil, err
	}
	if l.reviews, err = readTable(filepath.Join(dataPath, reviewsFile)); err != nil {
		return nil, err
	}
	if l.payments, err = readTable(filepath.Join(dataPath, paymentsFile)); err != nil {
		return nil, err
	}

	l.preprocessOrders()
	l.buildLookups()

	logger.Info().
		Int("orders", l.orders.Len()).
		Int("order_items", l.items.Len()).
		Int("products", l.products.Len()).
		Int("customers", l.customers.Len()).
		Int("reviews", l.reviews.Len()).
		Int("payments", l.payments.Len()).
		Str("data_path", dataPath).
		Msg("source files loaded")

	return l, nil
}

// readTable loads one CSV file into a Table. Headers are cleaned the same way
// for every file: trimmed and stripped of quotes.
func readTable(path string) (*dataset.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	csvReader := csv.NewReader(file)
	csvReader.LazyQuotes = true

	rawHeaders, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	headers := make([]string, len(rawHeaders))
	for i, h := range rawHeaders {
		h = strings.TrimSpace(h)
		headers[i] = strings.ReplaceAll(h, `"`, "")
	}

	table := dataset.New(headers...)
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}

		row := make(dataset.Row, len(headers))
		for i, h := range headers {
			if i >= len(record) {
				row[h] = nil
				continue
			}
			if moneyColumns[h] {
				row[h] = utils.ParseMoney(record[i])
			} else {
				row[h] = utils.ParseValue(record[i])
			}
		}
		table.Append(row)
	}
	return table, nil
}

// preprocessOrders derives purchase_year, purchase_month and delivery_days
// on every order row.
func (l *Loader) preprocessOrders() {
	for _, row := range l.orders.Rows {
		purchased, ok := parseTimestamp(row["order_purchase_timestamp"])
		if ok {
			row["purchase_year"] = purchased.Year()
			row["purchase_month"] = int(purchased.Month())
		}
		delivered, ok2 := parseTimestamp(row["order_delivered_customer_date"])
		if ok && ok2 {
			row["delivery_days"] = int(delivered.Sub(purchased).Hours() / 24)
		}
	}
	l.orders.Columns = append(l.orders.Columns, "purchase_year", "purchase_month", "delivery_days")
}

func parseTimestamp(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (l *Loader) buildLookups() {
	l.categoryByProduct = make(map[string]string, l.products.Len())
	for _, row := range l.products.Rows {
		id, _ := row["product_id"].(string)
		category, _ := row["product_category_name"].(string)
		if id != "" {
			l.categoryByProduct[id] = category
		}
	}

	l.customerByID = make(map[string]dataset.Row, l.customers.Len())
	for _, row := range l.customers.Rows {
		if id, _ := row["customer_id"].(string); id != "" {
			l.customerByID[id] = row
		}
	}

	l.reviewByOrder = make(map[string]any, l.reviews.Len())
	for _, row := range l.reviews.Rows {
		if id, _ := row["order_id"].(string); id != "" {
			l.reviewByOrder[id] = row["review_score"]
		}
	}

	// First payment row wins; follow-up rows are installment details.
	l.paymentByOrder = make(map[string]string, l.payments.Len())
	for _, row := range l.payments.Rows {
		id, _ := row["order_id"].(string)
		if id == "" {
			continue
		}
		if _, seen := l.paymentByOrder[id]; !seen {
			ptype, _ := row["payment_type"].(string)
			l.paymentByOrder[id] = ptype
		}
	}
}

// salesColumns is the column order of the assembled sales dataset.
var salesColumns = []string{
	"order_id", "customer_id", "customer_unique_id", "customer_state",
	"order_status", "purchase_year", "purchase_month", "delivery_days",
	"product_id", "product_category_name", "price", "freight_value",
	"revenue", "review_score", "payment_type",
}

// CreateSalesDataset assembles one row per order item joined with its
// order-level fields. yearFilter and monthFilter of 0 mean "all"; an empty
// statusFilter means "all". Every call builds a fresh table.
func (l *Loader) CreateSalesDataset(yearFilter, monthFilter int, statusFilter string) (*dataset.Table, error) {
	orders := make(map[string]dataset.Row, l.orders.Len())
	for _, row := range l.orders.Rows {
		status, _ := row["order_status"].(string)
		if statusFilter != "" && status != statusFilter {
			continue
		}
		if yearFilter != 0 && utils.Int(row["purchase_year"]) != yearFilter {
			continue
		}
		if monthFilter != 0 && utils.Int(row["purchase_month"]) != monthFilter {
			continue
		}
		if id, _ := row["order_id"].(string); id != "" {
			orders[id] = row
		}
	}

	sales := dataset.New(salesColumns...)
	for _, item := range l.items.Rows {
		orderID, _ := item["order_id"].(string)
		order, ok := orders[orderID]
		if !ok {
			continue
		}

		price, _ := item["price"].(decimal.Decimal)
		freight, _ := item["freight_value"].(decimal.Decimal)
		productID, _ := item["product_id"].(string)

		row := dataset.Row{
			"order_id":              orderID,
			"customer_id":           order["customer_id"],
			"order_status":          order["order_status"],
			"purchase_year":         order["purchase_year"],
			"purchase_month":        order["purchase_month"],
			"delivery_days":         order["delivery_days"],
			"product_id":            productID,
			"product_category_name": l.categoryByProduct[productID],
			"price":                 price,
			"freight_value":         freight,
			"revenue":               price.Add(freight),
			"review_score":          l.reviewByOrder[orderID],
		}
		if ptype, ok := l.paymentByOrder[orderID]; ok {
			row["payment_type"] = ptype
		}
		if customerID, _ := order["customer_id"].(string); customerID != "" {
			if customer, ok := l.customerByID[customerID]; ok {
				row["customer_unique_id"] = customer["customer_unique_id"]
				row["customer_state"] = customer["customer_state"]
			}
		}
		sales.Append(row)
	}

	logger.Debug().
		Int("rows", sales.Len()).
		Int("year", yearFilter).
		Int("month", monthFilter).
		Str("status", statusFilter).
		Msg("sales dataset created")

	return sales, nil
}
