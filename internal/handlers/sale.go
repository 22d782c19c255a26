// internal/handlers/sale.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cellcare/pos-backend/internal/services"
	"github.com/cellcare/pos-backend/internal/utils"
)

type SaleHandler struct {
	saleService *services.SaleService
}

func NewSaleHandler(saleService *services.SaleService) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
	}
}

// POST /sales
func (h *SaleHandler) CreateSale(c *gin.Context) {
	ownerID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	sale, err := h.saleService.CreateSale(ownerID, &req)
	if err != nil {
		if errors.Is(err, services.ErrEmptySale) || errors.Is(err, services.ErrInvalidQuantity) {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Product")
			return
		}
		if services.IsInsufficientStock(err) {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{
		"sale": sale,
	})
}

// GET /sales
func (h *SaleHandler) GetSales(c *gin.Context) {
	ownerID, ok := requireUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	sales, total, err := h.saleService.ListSales(ownerID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(sales, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /sales/:id
func (h *SaleHandler) GetSale(c *gin.Context) {
	ownerID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid sale ID", nil)
		return
	}

	sale, err := h.saleService.GetSale(id, ownerID)
	if err != nil {
		if errors.Is(err, services.ErrSaleNotFound) {
			utils.NotFoundResponse(c, "Sale")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"sale": sale,
	})
}

// GET /sales/:id/receipt
func (h *SaleHandler) GetReceipt(c *gin.Context) {
	ownerID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid sale ID", nil)
		return
	}

	receipt, err := h.saleService.GenerateReceipt(id, ownerID)
	if err != nil {
		if errors.Is(err, services.ErrSaleNotFound) {
			utils.NotFoundResponse(c, "Sale")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"receipt": receipt,
	})
}

// GET /sales/:id/receipt/print
func (h *SaleHandler) PrintReceipt(c *gin.Context) {
	ownerID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid sale ID", nil)
		return
	}

	receipt, err := h.saleService.GenerateReceipt(id, ownerID)
	if err != nil {
		if errors.Is(err, services.ErrSaleNotFound) {
			utils.NotFoundResponse(c, "Sale")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	c.String(http.StatusOK, services.FormatReceiptText(receipt))
}
