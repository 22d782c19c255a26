// internal/services/report_service_test.go
package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellcare/pos-backend/internal/models"
)

var receiptSeq int

// backdatedSale inserts a committed sale record directly, backdated to at, so
// date-window queries can be tested without clock tricks.
func backdatedSale(t *testing.T, svc *ReportService, ownerID uuid.UUID, at time.Time, total, profit float64, items models.SaleItemList) models.Sale {
	t.Helper()
	receiptSeq++
	sale := models.Sale{
		ReceiptNumber: fmt.Sprintf("RCP-%s-T%05d", at.Format("20060102"), receiptSeq),
		Items:         items,
		Total:         total,
		Profit:        profit,
		OwnerID:       ownerID,
	}
	sale.CreatedAt = at
	sale.UpdatedAt = at
	require.NoError(t, svc.db.Create(&sale).Error)
	return sale
}

func TestGetDailySalesReport(t *testing.T) {
	db := openTestDB(t)
	reports := NewReportService(db)
	ownerID := uuid.New()

	day := time.Date(2026, 8, 10, 0, 0, 0, 0, time.Local)
	backdatedSale(t, reports, ownerID, day.Add(9*time.Hour), 1000, 300, nil)
	backdatedSale(t, reports, ownerID, day.Add(15*time.Hour), 2000, 500, nil)
	// Next day, must not leak into the report.
	backdatedSale(t, reports, ownerID, day.AddDate(0, 0, 1).Add(time.Hour), 9000, 900, nil)

	report, err := reports.GetDailySalesReport(ownerID, day)
	require.NoError(t, err)

	assert.Equal(t, "2026-08-10", report.Date)
	assert.Equal(t, 2, report.TotalSales)
	assert.Equal(t, 3000.0, report.TotalRevenue)
	assert.Equal(t, 800.0, report.TotalProfit)
	assert.Equal(t, 1500.0, report.AverageOrderValue)
	assert.Len(t, report.Transactions, 2)

	empty, err := reports.GetDailySalesReport(ownerID, day.AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalSales)
	assert.Equal(t, 0.0, empty.AverageOrderValue)
}

func TestGetMonthlySalesReport(t *testing.T) {
	db := openTestDB(t)
	reports := NewReportService(db)
	ownerID := uuid.New()

	backdatedSale(t, reports, ownerID, time.Date(2026, 7, 3, 10, 0, 0, 0, time.Local), 500, 100, nil)
	backdatedSale(t, reports, ownerID, time.Date(2026, 7, 3, 14, 0, 0, 0, time.Local), 1500, 400, nil)
	backdatedSale(t, reports, ownerID, time.Date(2026, 7, 20, 11, 0, 0, 0, time.Local), 2000, 600, nil)
	// August, out of window.
	backdatedSale(t, reports, ownerID, time.Date(2026, 8, 1, 0, 30, 0, 0, time.Local), 7777, 700, nil)

	report, err := reports.GetMonthlySalesReport(ownerID, 7, 2026)
	require.NoError(t, err)

	assert.Equal(t, 7, report.Month)
	assert.Equal(t, 2026, report.Year)
	assert.Equal(t, 3, report.TotalSales)
	assert.Equal(t, 4000.0, report.TotalRevenue)
	assert.Equal(t, 1100.0, report.TotalProfit)

	// Only days with sales appear in the breakdown, in order.
	require.Len(t, report.DailyBreakdown, 2)
	assert.Equal(t, "2026-07-03", report.DailyBreakdown[0].Date)
	assert.Equal(t, 2, report.DailyBreakdown[0].TotalSales)
	assert.Equal(t, 1000.0, report.DailyBreakdown[0].AverageOrderValue)
	assert.Equal(t, "2026-07-20", report.DailyBreakdown[1].Date)

	_, err = reports.GetMonthlySalesReport(ownerID, 13, 2026)
	assert.Error(t, err)
	_, err = reports.GetMonthlySalesReport(ownerID, 0, 2026)
	assert.Error(t, err)
}

func TestGetProductSalesReport(t *testing.T) {
	db := openTestDB(t)
	reports := NewReportService(db)
	ownerID := uuid.New()
	laptop := seedProduct(t, db, ownerID, "laptop", 100000, 150000, 10)
	mouse := seedProduct(t, db, ownerID, "mouse", 1000, 1800, 50)

	at := time.Date(2026, 8, 5, 12, 0, 0, 0, time.Local)
	backdatedSale(t, reports, ownerID, at, 150000, 50000, models.SaleItemList{
		{ProductID: laptop.ID, Quantity: 1, Price: 150000},
	})
	backdatedSale(t, reports, ownerID, at.Add(time.Hour), 9000, 4000, models.SaleItemList{
		{ProductID: mouse.ID, Quantity: 5, Price: 1800},
	})
	backdatedSale(t, reports, ownerID, at.Add(2*time.Hour), 3600, 1600, models.SaleItemList{
		{ProductID: mouse.ID, Quantity: 2, Price: 1800},
	})

	report, err := reports.GetProductSalesReport(ownerID)
	require.NoError(t, err)
	require.Len(t, report, 2)

	// Best sellers first, by quantity.
	assert.Equal(t, "mouse", report[0].ProductName)
	assert.Equal(t, 7, report[0].QuantitySold)
	assert.Equal(t, 12600.0, report[0].TotalRevenue)
	assert.Equal(t, 1800.0, report[0].AveragePrice)

	assert.Equal(t, "laptop", report[1].ProductName)
	assert.Equal(t, 1, report[1].QuantitySold)
}

func TestGetSalesByDateRange(t *testing.T) {
	db := openTestDB(t)
	reports := NewReportService(db)
	ownerID := uuid.New()

	backdatedSale(t, reports, ownerID, time.Date(2026, 8, 1, 12, 0, 0, 0, time.Local), 100, 10, nil)
	backdatedSale(t, reports, ownerID, time.Date(2026, 8, 5, 12, 0, 0, 0, time.Local), 200, 20, nil)
	backdatedSale(t, reports, ownerID, time.Date(2026, 8, 9, 12, 0, 0, 0, time.Local), 300, 30, nil)

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2026, 8, 5, 0, 0, 0, 0, time.Local)

	// end is inclusive: the sale on the 5th is in range.
	sales, err := reports.GetSalesByDateRange(ownerID, start, end)
	require.NoError(t, err)
	assert.Len(t, sales, 2)

	// A timestamped end still covers the whole of its day and nothing more,
	// even when the sale falls after the given time of day.
	sales, err = reports.GetSalesByDateRange(ownerID, start, end.Add(9*time.Hour))
	require.NoError(t, err)
	assert.Len(t, sales, 2)

	_, err = reports.GetSalesByDateRange(ownerID, end, start)
	assert.Error(t, err)
}

func TestGetInventoryAnalysis(t *testing.T) {
	db := openTestDB(t)
	reports := NewReportService(db)
	ownerID := uuid.New()

	seedProduct(t, db, ownerID, "charger", 1000, 1500, 10)
	seedProduct(t, db, ownerID, "cable", 300, 800, 0)
	seedVariantProduct(t, db, ownerID, "phone", models.VariantList{
		{ID: "black", PurchasedPrice: 70000, SellingPrice: 85000, Stock: 2},
		{ID: "white", PurchasedPrice: 70000, SellingPrice: 85000, Stock: 3},
	})

	analysis, err := reports.GetInventoryAnalysis(ownerID)
	require.NoError(t, err)
	require.Len(t, analysis.Products, 3)

	byName := map[string]ProductInventory{}
	for _, p := range analysis.Products {
		byName[p.ProductName] = p
	}

	charger := byName["charger"]
	assert.Equal(t, 10, charger.CurrentStock)
	assert.Equal(t, 10000.0, charger.InvestedAmount)
	assert.Equal(t, 5000.0, charger.ExpectedProfit)

	// Zero stock contributes nothing but still appears in the listing.
	cable := byName["cable"]
	assert.Equal(t, 0, cable.CurrentStock)
	assert.Equal(t, 0.0, cable.InvestedAmount)

	// Variant products aggregate stock across all variants.
	phone := byName["phone"]
	assert.Equal(t, 5, phone.CurrentStock)
	assert.Equal(t, 350000.0, phone.InvestedAmount)
	assert.Equal(t, 75000.0, phone.ExpectedProfit)

	assert.Equal(t, 360000.0, analysis.TotalInvestedAmount)
	assert.Equal(t, 80000.0, analysis.ExpectedProfit)
	assert.Equal(t, 440000.0, analysis.CurrentStockValue)

	// Another owner's inventory is empty.
	other, err := reports.GetInventoryAnalysis(uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other.Products)
	assert.Equal(t, 0.0, other.TotalInvestedAmount)
}

func TestGetSalesOverview(t *testing.T) {
	db := openTestDB(t)
	reports := NewReportService(db)
	carts := NewCartService(db)
	orders := NewOrderService(db, NewStockGuard(), carts)
	sales := NewSaleService(db, NewStockGuard(), testStore())
	ownerID := uuid.New()
	product := seedProduct(t, db, ownerID, "tablet", 40000, 55000, 10)

	_, err := sales.CreateSale(ownerID, &CreateSaleRequest{
		Items: []SaleItemRequest{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = carts.AddToCart(ownerID, &AddToCartRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = orders.CreateOrder(ownerID, &CreateOrderRequest{ShippingAddress: testAddress()})
	require.NoError(t, err)

	overview, err := reports.GetSalesOverview(ownerID)
	require.NoError(t, err)

	assert.Equal(t, 1, overview.TodaysSales)
	assert.Equal(t, 110000.0, overview.TodaysRevenue)
	assert.Equal(t, 1, overview.MonthToDateSales)
	assert.Equal(t, int64(1), overview.ActiveOrders)
	require.NotEmpty(t, overview.TopSellingProducts)
	assert.Equal(t, "tablet", overview.TopSellingProducts[0].ProductName)
}
