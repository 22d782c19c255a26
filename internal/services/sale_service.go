// internal/services/sale_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cellcare/pos-backend/internal/config"
	"github.com/cellcare/pos-backend/internal/models"
	"github.com/cellcare/pos-backend/internal/utils"
)

// SaleService records direct in-store sales: an ad-hoc item list validated
// and deducted against the same variant stock pool the cart checkout uses.
// Validation is fully separated from mutation, so a late failure never
// leaves earlier items partially deducted.
type SaleService struct {
	db    *gorm.DB
	guard *StockGuard
	store config.StoreConfig
}

type SaleItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type CreateSaleRequest struct {
	Items        []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	CustomerName string            `json:"customer_name,omitempty" validate:"omitempty,max=255"`
}

type ReceiptItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

type Receipt struct {
	SaleID        string        `json:"sale_id"`
	ReceiptNumber string        `json:"receipt_number"`
	StoreName     string        `json:"store_name"`
	StoreAddress  string        `json:"store_address"`
	StorePhone    string        `json:"store_phone"`
	CustomerName  string        `json:"customer_name,omitempty"`
	SaleDate      string        `json:"sale_date"`
	Items         []ReceiptItem `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	Tax           float64       `json:"tax"`
	Total         float64       `json:"total"`
	PaymentMethod string        `json:"payment_method"`
}

func NewSaleService(db *gorm.DB, guard *StockGuard, store config.StoreConfig) *SaleService {
	return &SaleService{db: db, guard: guard, store: store}
}

// CreateSale validates every item before deducting any stock, then deducts
// for all items and persists the sale as one transaction.
func (s *SaleService) CreateSale(ownerID uuid.UUID, req *CreateSaleRequest) (*models.Sale, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptySale
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	productIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		productIDs = append(productIDs, item.ProductID)
	}

	unlock := s.guard.Lock(productIDs)
	defer unlock()

	var sale *models.Sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		saleItems := make(models.SaleItemList, 0, len(req.Items))
		products := make([]*models.Product, 0, len(req.Items))
		total := 0.0
		profit := 0.0

		// Pass 1: resolve and validate every item.
		for _, item := range req.Items {
			product, err := findProductByIDAndOwner(tx, item.ProductID, ownerID)
			if err != nil {
				return err
			}

			sellingPrice := product.DefaultSellingPrice()
			purchasedPrice := product.DefaultPurchasedPrice()

			if available := product.AggregateStock(); available < item.Quantity {
				return &InsufficientStockError{
					ProductID: product.ID,
					Name:      product.Name,
					Requested: item.Quantity,
					Available: available,
				}
			}

			profit += (sellingPrice - purchasedPrice) * float64(item.Quantity)
			total += sellingPrice * float64(item.Quantity)

			saleItems = append(saleItems, models.SaleItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     sellingPrice,
			})
			products = append(products, product)
		}

		// Pass 2: deduct stock for all items.
		for i, item := range req.Items {
			if err := products[i].ApplyStockDelta(-item.Quantity); err != nil {
				return err
			}
			if err := tx.Model(products[i]).Update("variants", products[i].Variants).Error; err != nil {
				return fmt.Errorf("failed to update stock: %w", err)
			}
		}

		receiptNumber, err := utils.GenerateReceiptNumber()
		if err != nil {
			return fmt.Errorf("failed to generate receipt number: %w", err)
		}

		sale = &models.Sale{
			ReceiptNumber: receiptNumber,
			Items:         saleItems,
			Total:         total,
			Profit:        profit,
			CustomerName:  req.CustomerName,
			OwnerID:       ownerID,
		}
		if err := tx.Create(sale).Error; err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sale, nil
}

func (s *SaleService) ListSales(ownerID uuid.UUID, params utils.PaginationParams) ([]models.Sale, int64, error) {
	query := s.db.Model(&models.Sale{}).Where("owner_id = ?", ownerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	allowedSortFields := []string{"created_at", "total", "profit"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var sales []models.Sale
	if err := query.Find(&sales).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch sales: %w", err)
	}

	return sales, total, nil
}

func (s *SaleService) GetSale(id, ownerID uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	if err := s.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &sale, nil
}

// GenerateReceipt builds a receipt for a committed sale, resolving current
// product names. Read-only; never touches stock.
func (s *SaleService) GenerateReceipt(saleID, ownerID uuid.UUID) (*Receipt, error) {
	sale, err := s.GetSale(saleID, ownerID)
	if err != nil {
		return nil, err
	}

	items := make([]ReceiptItem, 0, len(sale.Items))
	for _, item := range sale.Items {
		name := fmt.Sprintf("Product %s", item.ProductID)
		if product, err := findProductByIDAndOwner(s.db, item.ProductID, ownerID); err == nil {
			name = product.Name
		}
		items = append(items, ReceiptItem{
			Name:     name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Total:    item.Price * float64(item.Quantity),
		})
	}

	subtotal := sale.Total
	tax := subtotal * s.store.TaxRate

	return &Receipt{
		SaleID:        sale.ID.String(),
		ReceiptNumber: sale.ReceiptNumber,
		StoreName:     s.store.Name,
		StoreAddress:  s.store.Address,
		StorePhone:    s.store.Phone,
		CustomerName:  sale.CustomerName,
		SaleDate:      sale.CreatedAt.Format("2006-01-02 15:04:05"),
		Items:         items,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal + tax,
		PaymentMethod: "Cash",
	}, nil
}

// receiptWidth is the character width of a 3-inch (76mm) thermal printer.
const receiptWidth = 32

// FormatReceiptText renders a receipt for a 3-inch thermal printer.
func FormatReceiptText(r *Receipt) string {
	var b strings.Builder

	writeCentered := func(s string) {
		if len(s) >= receiptWidth {
			b.WriteString(s)
		} else {
			pad := (receiptWidth - len(s)) / 2
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(s)
		}
		b.WriteByte('\n')
	}

	writeCentered(r.StoreName)
	writeCentered(r.StoreAddress)
	writeCentered(r.StorePhone)
	b.WriteString(strings.Repeat("=", receiptWidth))
	b.WriteByte('\n')

	fmt.Fprintf(&b, "Receipt: %s\n", r.ReceiptNumber)
	fmt.Fprintf(&b, "Date: %s\n", r.SaleDate)
	if r.CustomerName != "" {
		fmt.Fprintf(&b, "Customer: %s\n", r.CustomerName)
	}
	b.WriteString(strings.Repeat("-", receiptWidth))
	b.WriteByte('\n')

	for _, item := range r.Items {
		name := item.Name
		if len(name) > receiptWidth {
			name = name[:receiptWidth]
		}
		b.WriteString(name)
		b.WriteByte('\n')
		line := fmt.Sprintf("  %d x %.2f", item.Quantity, item.Price)
		amount := fmt.Sprintf("%.2f", item.Total)
		if pad := receiptWidth - len(line) - len(amount); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		b.WriteString(line + amount)
		b.WriteByte('\n')
	}

	b.WriteString(strings.Repeat("-", receiptWidth))
	b.WriteByte('\n')
	writeTotal := func(label string, amount float64) {
		value := fmt.Sprintf("%.2f", amount)
		line := label
		if pad := receiptWidth - len(line) - len(value); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		b.WriteString(line + value)
		b.WriteByte('\n')
	}
	writeTotal("Subtotal", r.Subtotal)
	writeTotal("Tax", r.Tax)
	writeTotal("TOTAL", r.Total)

	b.WriteString(strings.Repeat("=", receiptWidth))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Payment: %s\n", r.PaymentMethod)
	writeCentered("Thank you for your purchase!")

	return b.String()
}
