// internal/handlers/sale.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bytemart/bytemart-backend/internal/config"
	"github.com/bytemart/bytemart-backend/internal/services"
	"github.com/bytemart/bytemart-backend/internal/utils"
)

type SaleHandler struct {
	saleService    *services.SaleService
	productService *services.ProductService
	cfg            *config.Config
}

func NewSaleHandler(saleService *services.SaleService, productService *services.ProductService, cfg *config.Config) *SaleHandler {
	return &SaleHandler{
		saleService:    saleService,
		productService: productService,
		cfg:            cfg,
	}
}

type purchaseRequest struct {
	ProductID       string `json:"productId" binding:"required"`
	Buyer           string `json:"buyer"`
	TransactionHash string `json:"transactionHash"`
}

// POST /api/purchase
//
// Logged-in buyers are recorded under their user id; anonymous buyers must
// supply the wallet identity they will later download with.
func (h *SaleHandler) Purchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid input", err.Error())
		return
	}

	buyer := req.Buyer
	if userID, ok := utils.GetUserIDFromContext(c); ok {
		buyer = userID
	}
	if buyer == "" {
		utils.BadRequestResponse(c, "buyer identity is required", nil)
		return
	}

	sale, err := h.saleService.RecordSale(req.ProductID, buyer, req.TransactionHash)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"sale": sale})
}

// GET /api/stats
func (h *SaleHandler) Stats(c *gin.Context) {
	stats, err := h.saleService.Stats()
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, stats)
}

// GET /api/user/:wallet/stats
func (h *SaleHandler) UserStats(c *gin.Context) {
	stats, err := h.saleService.StatsForUser(c.Param("wallet"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, stats)
}

type manualPaymentRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// POST /api/create-manual-payment
//
// Returns the out-of-band payment instructions for a product. No money moves
// here; the sale is recorded separately once the operator confirms receipt.
func (h *SaleHandler) CreateManualPayment(c *gin.Context) {
	var req manualPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid input", err.Error())
		return
	}

	product, err := h.productService.FindProduct(req.ProductID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": gin.H{
			"id":    product.ID,
			"title": product.Title,
			"price": product.Price,
		},
		"instructions": gin.H{
			"bankName":      h.cfg.Payment.BankName,
			"bankAccount":   h.cfg.Payment.BankAccount,
			"bankHolder":    h.cfg.Payment.BankHolder,
			"eWalletName":   h.cfg.Payment.EWalletName,
			"eWalletNumber": h.cfg.Payment.EWalletNumber,
			"contactPhone":  h.cfg.Payment.ContactPhone,
		},
	})
}
