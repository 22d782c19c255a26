// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/cellcare/pos-backend/internal/models"
	"github.com/cellcare/pos-backend/internal/utils"
)

// ProductService owns the product catalog and is the only path by which
// variant stock changes. All lookups are scoped (id, ownerID); a product
// belonging to another store is reported as not found, never as forbidden.
type ProductService struct {
	db    *gorm.DB
	guard *StockGuard
}

type VariantRequest struct {
	ID             string  `json:"id" validate:"required"`
	Color          string  `json:"color,omitempty"`
	RAM            string  `json:"ram,omitempty"`
	Storage        string  `json:"storage,omitempty"`
	PurchasedPrice float64 `json:"purchased_price" validate:"min=0"`
	SellingPrice   float64 `json:"selling_price" validate:"min=0"`
	Stock          int     `json:"stock" validate:"min=0"`
}

type CreateProductRequest struct {
	Name             string                 `json:"name" validate:"required,min=2,max=255"`
	Brand            string                 `json:"brand" validate:"required,max=100"`
	BasePrice        float64                `json:"base_price" validate:"min=0"`
	PurchasedPrice   float64                `json:"purchased_price" validate:"min=0"`
	SellingPrice     float64                `json:"selling_price" validate:"min=0"`
	PromotionalPrice *float64               `json:"promotional_price,omitempty"`
	MainCategory     string                 `json:"main_category" validate:"required"`
	SubCategory      string                 `json:"sub_category,omitempty"`
	SubSubCategory   string                 `json:"sub_sub_category,omitempty"`
	Description      string                 `json:"description" validate:"required"`
	Images           []string               `json:"images" validate:"required,min=1,max=3"`
	Specifications   map[string]interface{} `json:"specifications,omitempty"`
	AvailableOptions map[string]interface{} `json:"available_options,omitempty"`
	Variants         []VariantRequest       `json:"variants,omitempty"`
}

type UpdateProductRequest struct {
	Name             string                 `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Brand            string                 `json:"brand,omitempty" validate:"omitempty,max=100"`
	BasePrice        *float64               `json:"base_price,omitempty"`
	PurchasedPrice   *float64               `json:"purchased_price,omitempty"`
	SellingPrice     *float64               `json:"selling_price,omitempty"`
	PromotionalPrice *float64               `json:"promotional_price,omitempty"`
	MainCategory     string                 `json:"main_category,omitempty"`
	SubCategory      string                 `json:"sub_category,omitempty"`
	SubSubCategory   string                 `json:"sub_sub_category,omitempty"`
	Description      string                 `json:"description,omitempty"`
	Images           []string               `json:"images,omitempty" validate:"omitempty,max=3"`
	Specifications   map[string]interface{} `json:"specifications,omitempty"`
	AvailableOptions map[string]interface{} `json:"available_options,omitempty"`
	Variants         []VariantRequest       `json:"variants,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	Brand   string `json:"brand,omitempty"`
	InStock bool   `json:"in_stock,omitempty"`
}

func NewProductService(db *gorm.DB, guard *StockGuard) *ProductService {
	return &ProductService{db: db, guard: guard}
}

func (s *ProductService) CreateProduct(ownerID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product := &models.Product{
		Name:             req.Name,
		Brand:            req.Brand,
		BasePrice:        req.BasePrice,
		PurchasedPrice:   req.PurchasedPrice,
		SellingPrice:     req.SellingPrice,
		PromotionalPrice: req.PromotionalPrice,
		MainCategory:     req.MainCategory,
		SubCategory:      req.SubCategory,
		SubSubCategory:   req.SubSubCategory,
		Description:      req.Description,
		Images:           req.Images,
		Specifications:   models.JSONB(req.Specifications),
		AvailableOptions: models.JSONB(req.AvailableOptions),
		Variants:         variantsFromRequest(req.Variants),
		OwnerID:          ownerID,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// GetProduct resolves a product by (id, ownerID). An owner mismatch is
// indistinguishable from absence.
func (s *ProductService) GetProduct(id, ownerID uuid.UUID) (*models.Product, error) {
	return findProductByIDAndOwner(s.db, id, ownerID)
}

func (s *ProductService) UpdateProduct(id, ownerID uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product, err := findProductByIDAndOwner(s.db, id, ownerID)
	if err != nil {
		return nil, err
	}

	// Prepare updates
	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Brand != "" {
		updates["brand"] = req.Brand
	}
	if req.BasePrice != nil {
		updates["base_price"] = *req.BasePrice
	}
	if req.PurchasedPrice != nil {
		updates["purchased_price"] = *req.PurchasedPrice
	}
	if req.SellingPrice != nil {
		updates["selling_price"] = *req.SellingPrice
	}
	if req.PromotionalPrice != nil {
		updates["promotional_price"] = *req.PromotionalPrice
	}
	if req.MainCategory != "" {
		updates["main_category"] = req.MainCategory
	}
	if req.SubCategory != "" {
		updates["sub_category"] = req.SubCategory
	}
	if req.SubSubCategory != "" {
		updates["sub_sub_category"] = req.SubSubCategory
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Images != nil {
		updates["images"] = pq.StringArray(req.Images)
	}
	if req.Specifications != nil {
		updates["specifications"] = models.JSONB(req.Specifications)
	}
	if req.AvailableOptions != nil {
		updates["available_options"] = models.JSONB(req.AvailableOptions)
	}
	if req.Variants != nil {
		updates["variants"] = variantsFromRequest(req.Variants)
	}

	if err := s.db.Model(product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return findProductByIDAndOwner(s.db, id, ownerID)
}

func (s *ProductService) DeleteProduct(id, ownerID uuid.UUID) error {
	product, err := findProductByIDAndOwner(s.db, id, ownerID)
	if err != nil {
		return err
	}

	// Soft delete
	if err := s.db.Delete(product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

func (s *ProductService) SearchProducts(ownerID uuid.UUID, params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Where("owner_id = ?", ownerID)

	if params.Category != "" {
		query = query.Where("main_category = ?", params.Category)
	}

	if params.Brand != "" {
		query = query.Where("brand = ?", params.Brand)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "brand", "selling_price"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)

	// Stock lives inside the variants document, so the in-stock filter
	// cannot run in SQL: materialize every candidate row, filter, then
	// paginate the filtered set so total and page agree.
	if params.InStock {
		var candidates []models.Product
		if err := query.Find(&candidates).Error; err != nil {
			return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
		}

		filtered := candidates[:0]
		for _, p := range candidates {
			if p.AggregateStock() > 0 {
				filtered = append(filtered, p)
			}
		}

		total := int64(len(filtered))
		start := (params.Page - 1) * params.PerPage
		if start < 0 {
			start = 0
		}
		if start > len(filtered) {
			start = len(filtered)
		}
		end := start + params.PerPage
		if end > len(filtered) {
			end = len(filtered)
		}
		return filtered[start:end], total, nil
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

// ListAvailableProducts returns the owner's products with aggregate stock
// above zero, the set a cashier can actually sell from.
func (s *ProductService) ListAvailableProducts(ownerID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	available := products[:0]
	for _, p := range products {
		if p.AggregateStock() > 0 {
			available = append(available, p)
		}
	}

	return available, nil
}

// AdjustStock applies a signed stock delta (restock or markdown) under the
// product's stock guard, so it serializes with concurrent checkouts.
func (s *ProductService) AdjustStock(id, ownerID uuid.UUID, delta int) (*models.Product, error) {
	unlock := s.guard.Lock([]uuid.UUID{id})
	defer unlock()

	var product *models.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		product, err = findProductByIDAndOwner(tx, id, ownerID)
		if err != nil {
			return err
		}

		available := product.AggregateStock()
		if err := product.ApplyStockDelta(delta); err != nil {
			if errors.Is(err, models.ErrInsufficientStock) {
				return &InsufficientStockError{
					ProductID: product.ID,
					Name:      product.Name,
					Requested: -delta,
					Available: available,
				}
			}
			return err
		}

		if err := tx.Model(product).Update("variants", product.Variants).Error; err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// Helpers

func findProductByIDAndOwner(tx *gorm.DB, id, ownerID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func variantsFromRequest(reqs []VariantRequest) models.VariantList {
	variants := make(models.VariantList, 0, len(reqs))
	for _, v := range reqs {
		variants = append(variants, models.Variant{
			ID:             v.ID,
			Color:          v.Color,
			RAM:            v.RAM,
			Storage:        v.Storage,
			PurchasedPrice: v.PurchasedPrice,
			SellingPrice:   v.SellingPrice,
			Stock:          v.Stock,
		})
	}
	return variants
}
