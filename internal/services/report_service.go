// internal/services/report_service.go
package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cellcare/pos-backend/internal/models"
)

// ReportService reads committed sale and order records. It never mutates
// stock.
type ReportService struct {
	db *gorm.DB
}

type SalesOverview struct {
	TodaysSales        int                  `json:"todays_sales"`
	TodaysRevenue      float64              `json:"todays_revenue"`
	MonthToDateSales   int                  `json:"month_to_date_sales"`
	MonthToDateRevenue float64              `json:"month_to_date_revenue"`
	ActiveOrders       int64                `json:"active_orders"`
	TopSellingProducts []ProductSalesReport `json:"top_selling_products"`
}

type DailySalesReport struct {
	Date              string        `json:"date"`
	TotalSales        int           `json:"total_sales"`
	TotalRevenue      float64       `json:"total_revenue"`
	TotalProfit       float64       `json:"total_profit"`
	AverageOrderValue float64       `json:"average_order_value"`
	Transactions      []models.Sale `json:"transactions"`
}

type MonthlySalesReport struct {
	Month             int                `json:"month"`
	Year              int                `json:"year"`
	TotalSales        int                `json:"total_sales"`
	TotalRevenue      float64            `json:"total_revenue"`
	TotalProfit       float64            `json:"total_profit"`
	AverageOrderValue float64            `json:"average_order_value"`
	DailyBreakdown    []DailySalesReport `json:"daily_breakdown"`
}

type ProductSalesReport struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	QuantitySold int       `json:"quantity_sold"`
	TotalRevenue float64   `json:"total_revenue"`
	AveragePrice float64   `json:"average_price"`
}

// ProductInventory values one product's stock on hand: invested amount at
// purchase price and the profit expected if every unit sells at the current
// selling price.
type ProductInventory struct {
	ProductID        uuid.UUID `json:"product_id"`
	ProductName      string    `json:"product_name"`
	CurrentStock     int       `json:"current_stock"`
	PurchasePrice    float64   `json:"purchase_price"`
	SellingPrice     float64   `json:"selling_price"`
	PromotionalPrice *float64  `json:"promotional_price,omitempty"`
	InvestedAmount   float64   `json:"invested_amount"`
	ExpectedProfit   float64   `json:"expected_profit"`
}

type InventoryAnalysis struct {
	TotalInvestedAmount float64            `json:"total_invested_amount"`
	ExpectedProfit      float64            `json:"expected_profit"`
	CurrentStockValue   float64            `json:"current_stock_value"`
	Products            []ProductInventory `json:"products"`
}

type SalesAnalytics struct {
	TotalSalesThisMonth float64              `json:"total_sales_this_month"`
	TotalSalesLastMonth float64              `json:"total_sales_last_month"`
	GrowthPercentage    float64              `json:"growth_percentage"`
	TopSellingProducts  []ProductSalesReport `json:"top_selling_products"`
	RecentSales         []models.Sale        `json:"recent_sales"`
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

func (s *ReportService) GetSalesOverview(ownerID uuid.UUID) (*SalesOverview, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	todaySales, err := s.salesBetween(ownerID, dayStart, now)
	if err != nil {
		return nil, err
	}
	monthSales, err := s.salesBetween(ownerID, monthStart, now)
	if err != nil {
		return nil, err
	}

	var activeOrders int64
	if err := s.db.Model(&models.Order{}).
		Where("owner_id = ? AND status IN ?", ownerID,
			[]models.OrderStatus{models.OrderStatusPending, models.OrderStatusProcessing, models.OrderStatusShipped}).
		Count(&activeOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count active orders: %w", err)
	}

	topProducts, err := s.GetProductSalesReport(ownerID)
	if err != nil {
		return nil, err
	}
	if len(topProducts) > 5 {
		topProducts = topProducts[:5]
	}

	return &SalesOverview{
		TodaysSales:        len(todaySales),
		TodaysRevenue:      sumTotals(todaySales),
		MonthToDateSales:   len(monthSales),
		MonthToDateRevenue: sumTotals(monthSales),
		ActiveOrders:       activeOrders,
		TopSellingProducts: topProducts,
	}, nil
}

func (s *ReportService) GetDailySalesReport(ownerID uuid.UUID, date time.Time) (*DailySalesReport, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	sales, err := s.salesBetween(ownerID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	revenue := sumTotals(sales)
	avg := 0.0
	if len(sales) > 0 {
		avg = revenue / float64(len(sales))
	}

	return &DailySalesReport{
		Date:              dayStart.Format("2006-01-02"),
		TotalSales:        len(sales),
		TotalRevenue:      revenue,
		TotalProfit:       sumProfits(sales),
		AverageOrderValue: avg,
		Transactions:      sales,
	}, nil
}

func (s *ReportService) GetMonthlySalesReport(ownerID uuid.UUID, month, year int) (*MonthlySalesReport, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d: must be between 1 and 12", month)
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	monthEnd := monthStart.AddDate(0, 1, 0)

	sales, err := s.salesBetween(ownerID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	// Group by day for the breakdown.
	byDay := make(map[string][]models.Sale)
	for _, sale := range sales {
		key := sale.CreatedAt.Format("2006-01-02")
		byDay[key] = append(byDay[key], sale)
	}

	var breakdown []DailySalesReport
	for d := monthStart; d.Before(monthEnd); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		daySales, ok := byDay[key]
		if !ok {
			continue
		}
		revenue := sumTotals(daySales)
		breakdown = append(breakdown, DailySalesReport{
			Date:              key,
			TotalSales:        len(daySales),
			TotalRevenue:      revenue,
			TotalProfit:       sumProfits(daySales),
			AverageOrderValue: revenue / float64(len(daySales)),
			Transactions:      daySales,
		})
	}

	revenue := sumTotals(sales)
	avg := 0.0
	if len(sales) > 0 {
		avg = revenue / float64(len(sales))
	}

	return &MonthlySalesReport{
		Month:             month,
		Year:              year,
		TotalSales:        len(sales),
		TotalRevenue:      revenue,
		TotalProfit:       sumProfits(sales),
		AverageOrderValue: avg,
		DailyBreakdown:    breakdown,
	}, nil
}

// GetProductSalesReport aggregates quantity and revenue per product over the
// owner's sale history, best sellers first.
func (s *ReportService) GetProductSalesReport(ownerID uuid.UUID) ([]ProductSalesReport, error) {
	var sales []models.Sale
	if err := s.db.Where("owner_id = ?", ownerID).Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch sales: %w", err)
	}

	type acc struct {
		quantity int
		revenue  float64
	}
	byProduct := make(map[uuid.UUID]*acc)
	var order []uuid.UUID
	for _, sale := range sales {
		for _, item := range sale.Items {
			a, ok := byProduct[item.ProductID]
			if !ok {
				a = &acc{}
				byProduct[item.ProductID] = a
				order = append(order, item.ProductID)
			}
			a.quantity += item.Quantity
			a.revenue += item.Price * float64(item.Quantity)
		}
	}

	names := make(map[uuid.UUID]string)
	var products []models.Product
	if err := s.db.Where("owner_id = ?", ownerID).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	for _, p := range products {
		names[p.ID] = p.Name
	}

	reports := make([]ProductSalesReport, 0, len(order))
	for _, id := range order {
		a := byProduct[id]
		name := names[id]
		if name == "" {
			name = fmt.Sprintf("Product %s", id)
		}
		reports = append(reports, ProductSalesReport{
			ProductID:    id,
			ProductName:  name,
			QuantitySold: a.quantity,
			TotalRevenue: a.revenue,
			AveragePrice: a.revenue / float64(a.quantity),
		})
	}

	// Best sellers first.
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].QuantitySold > reports[j].QuantitySold
	})

	return reports, nil
}

// GetInventoryAnalysis values the owner's current stock: per product the
// units on hand, the amount invested in them at purchase price, and the
// profit expected at the current selling price, with store-wide totals.
func (s *ReportService) GetInventoryAnalysis(ownerID uuid.UUID) (*InventoryAnalysis, error) {
	var products []models.Product
	if err := s.db.Where("owner_id = ?", ownerID).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	analysis := &InventoryAnalysis{
		Products: make([]ProductInventory, 0, len(products)),
	}
	for _, p := range products {
		stock := p.AggregateStock()
		purchase := p.DefaultPurchasedPrice()
		selling := p.DefaultSellingPrice()
		invested := float64(stock) * purchase
		expected := float64(stock) * (selling - purchase)

		analysis.Products = append(analysis.Products, ProductInventory{
			ProductID:        p.ID,
			ProductName:      p.Name,
			CurrentStock:     stock,
			PurchasePrice:    purchase,
			SellingPrice:     selling,
			PromotionalPrice: p.PromotionalPrice,
			InvestedAmount:   invested,
			ExpectedProfit:   expected,
		})

		analysis.TotalInvestedAmount += invested
		analysis.ExpectedProfit += expected
		analysis.CurrentStockValue += float64(stock) * selling
	}

	return analysis, nil
}

func (s *ReportService) GetSalesByDateRange(ownerID uuid.UUID, start, end time.Time) ([]models.Sale, error) {
	if start.After(end) {
		return nil, fmt.Errorf("start date must be before end date")
	}
	// The end date is inclusive: extend to the start of the following day,
	// from day start so a timestamped end cannot reach past its own day.
	dayEnd := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location()).AddDate(0, 0, 1)
	return s.salesBetween(ownerID, start, dayEnd)
}

func (s *ReportService) GetAnalytics(ownerID uuid.UUID) (*SalesAnalytics, error) {
	now := time.Now()
	thisMonth, err := s.GetMonthlySalesReport(ownerID, int(now.Month()), now.Year())
	if err != nil {
		return nil, err
	}

	lastMonthDate := now.AddDate(0, -1, 0)
	lastMonth, err := s.GetMonthlySalesReport(ownerID, int(lastMonthDate.Month()), lastMonthDate.Year())
	if err != nil {
		return nil, err
	}

	growth := 0.0
	if lastMonth.TotalRevenue > 0 {
		growth = (thisMonth.TotalRevenue - lastMonth.TotalRevenue) / lastMonth.TotalRevenue * 100
	}

	topProducts, err := s.GetProductSalesReport(ownerID)
	if err != nil {
		return nil, err
	}
	if len(topProducts) > 5 {
		topProducts = topProducts[:5]
	}

	var recent []models.Sale
	if err := s.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(10).
		Find(&recent).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent sales: %w", err)
	}

	return &SalesAnalytics{
		TotalSalesThisMonth: thisMonth.TotalRevenue,
		TotalSalesLastMonth: lastMonth.TotalRevenue,
		GrowthPercentage:    growth,
		TopSellingProducts:  topProducts,
		RecentSales:         recent,
	}, nil
}

// Helpers

func (s *ReportService) salesBetween(ownerID uuid.UUID, start, end time.Time) ([]models.Sale, error) {
	var sales []models.Sale
	if err := s.db.Where("owner_id = ? AND created_at >= ? AND created_at < ?", ownerID, start, end).
		Order("created_at ASC").
		Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch sales: %w", err)
	}
	return sales, nil
}

func sumTotals(sales []models.Sale) float64 {
	total := 0.0
	for _, sale := range sales {
		total += sale.Total
	}
	return total
}

func sumProfits(sales []models.Sale) float64 {
	total := 0.0
	for _, sale := range sales {
		total += sale.Profit
	}
	return total
}
