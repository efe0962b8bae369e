// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bytemart/bytemart-backend/internal/apperrors"
	"github.com/bytemart/bytemart-backend/internal/services"
	"github.com/bytemart/bytemart-backend/internal/session"
	"github.com/bytemart/bytemart-backend/internal/throttle"
	"github.com/bytemart/bytemart-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
	sessions    *session.Manager
	limiter     *throttle.Limiter
}

func NewAuthHandler(authService *services.AuthService, sessions *session.Manager, limiter *throttle.Limiter) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		limiter:     limiter,
	}
}

// POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	key := "register:" + throttle.NormalizeIP(c.ClientIP())
	if retryAfter, blocked := h.limiter.Blocked(key); blocked {
		utils.AppErrorResponse(c, apperrors.RateLimited("too many registration attempts", retryAfter))
		return
	}

	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid input", err.Error())
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		h.limiter.RecordFailure(key)
		utils.AppErrorResponse(c, err)
		return
	}

	if err := h.sessions.Establish(c.Writer, c.Request, user.ID); err != nil {
		utils.AppErrorResponse(c, apperrors.Internal(err))
		return
	}

	utils.CreatedResponse(c, gin.H{
		"user": user.Sanitize(),
	})
}

// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	// Checked before credentials: once the budget is spent, even a correct
	// password waits out the window.
	key := "login:" + throttle.NormalizeIP(c.ClientIP())
	if retryAfter, blocked := h.limiter.Blocked(key); blocked {
		utils.AppErrorResponse(c, apperrors.RateLimited("too many login attempts", retryAfter))
		return
	}

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid input", err.Error())
		return
	}

	user, err := h.authService.Login(&req)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindAuth) {
			h.limiter.RecordFailure(key)
		}
		utils.AppErrorResponse(c, err)
		return
	}

	h.limiter.Reset(key)

	if err := h.sessions.Establish(c.Writer, c.Request, user.ID); err != nil {
		utils.AppErrorResponse(c, apperrors.Internal(err))
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user": user.Sanitize(),
	})
}

// POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Destroy(c.Writer, c.Request); err != nil {
		utils.AppErrorResponse(c, apperrors.Internal(err))
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "logged out"})
}

// GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.SuccessResponse(c, gin.H{"user": nil})
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		// Stale session pointing at a removed user reads as logged out.
		utils.SuccessResponse(c, gin.H{"user": nil})
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user.Sanitize()})
}
