// internal/handlers/store.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bytemart/bytemart-backend/internal/services"
	"github.com/bytemart/bytemart-backend/internal/utils"
)

type StoreHandler struct {
	storeService *services.StoreService
}

func NewStoreHandler(storeService *services.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// POST /api/create-store
func (h *StoreHandler) CreateStore(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "authentication required")
		return
	}

	var req services.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid input", err.Error())
		return
	}

	store, err := h.storeService.CreateStore(userID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"store": store})
}

// GET /api/my-store
func (h *StoreHandler) MyStore(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "authentication required")
		return
	}

	store, err := h.storeService.MyStore(userID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	if store == nil {
		utils.SuccessResponse(c, gin.H{"store": nil})
		return
	}

	utils.SuccessResponse(c, gin.H{"store": store})
}
