// internal/handlers/product.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bytemart/bytemart-backend/internal/apperrors"
	"github.com/bytemart/bytemart-backend/internal/services"
	"github.com/bytemart/bytemart-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	authService    *services.AuthService
	saleService    *services.SaleService
	storage        *services.StorageService
}

func NewProductHandler(productService *services.ProductService, authService *services.AuthService, saleService *services.SaleService, storage *services.StorageService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		authService:    authService,
		saleService:    saleService,
		storage:        storage,
	}
}

// POST /api/products (multipart form, "files" field)
func (h *ProductHandler) Create(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "authentication required")
		return
	}

	seller, err := h.authService.GetUserByID(userID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	var req services.CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequestResponse(c, "invalid input", err.Error())
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "multipart form required", err.Error())
		return
	}

	files, err := h.storage.SaveUploads(seller.ID, form.File["files"])
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	product, err := h.productService.CreateProduct(seller, &req, files)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"product": product})
}

// GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productService.ListProducts(services.ListParams{
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
		Query:    c.Query("q"),
	})
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"products": products})
}

// GET /api/search?q=
func (h *ProductHandler) Search(c *gin.Context) {
	products, err := h.productService.Search(c.Query("q"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"products": products})
}

// GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Param("id"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"product": product})
}

// GET /api/products/store/:storeId
func (h *ProductHandler) ByStore(c *gin.Context) {
	products, err := h.productService.StoreProducts(c.Param("storeId"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"products": products})
}

// PUT /api/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "authentication required")
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid input", err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(c.Param("id"), userID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"product": product})
}

// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "authentication required")
		return
	}

	if err := h.productService.DeleteProduct(c.Param("id"), userID); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "product deleted"})
}

// GET /api/download/:productId/:fileId
//
// The requester is the session user when logged in, otherwise the wallet
// identity passed as a query parameter (external buyers have no account).
func (h *ProductHandler) Download(c *gin.Context) {
	product, err := h.productService.FindProduct(c.Param("productId"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	requester, ok := utils.GetUserIDFromContext(c)
	if !ok {
		requester = c.Query("wallet")
	}

	allowed, err := h.saleService.CanDownload(product, requester)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	if !allowed {
		utils.AppErrorResponse(c, apperrors.Forbidden("purchase required to download this file"))
		return
	}

	fileID := c.Param("fileId")
	for _, f := range product.Files {
		if f.ID != fileID && f.StoredName != fileID {
			continue
		}

		reader, err := h.storage.Open(f)
		if err != nil {
			utils.AppErrorResponse(c, err)
			return
		}
		defer reader.Close()

		contentType := f.MimeType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.DataFromReader(http.StatusOK, f.Size, contentType, reader, map[string]string{
			"Content-Disposition": fmt.Sprintf("attachment; filename=%q", f.OriginalName),
		})
		return
	}

	utils.AppErrorResponse(c, apperrors.NotFound("file"))
}
