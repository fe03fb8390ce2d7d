package handlers

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"campusconnect/internal/db"
	"campusconnect/internal/logger"
	"campusconnect/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FlaggedLister reads the moderation audit trail.
type FlaggedLister interface {
	ListFlagged(ctx context.Context, page, pageSize int) ([]models.FlaggedContent, int64, error)
}

type AdminHandler struct {
	flagged FlaggedLister
}

func NewAdminHandler(flagged FlaggedLister) *AdminHandler {
	return &AdminHandler{flagged: flagged}
}

// ListFlagged returns one page of rejected submissions, newest first.
func (h *AdminHandler) ListFlagged(c *gin.Context) {
	page, pageSize := pagination(c)

	rows, total, err := h.flagged.ListFlagged(c.Request.Context(), page, pageSize)
	if err != nil {
		logger.Log.Error("Failed to list flagged content", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal error")
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	if totalPages == 0 {
		totalPages = 1
	}
	c.JSON(http.StatusOK, gin.H{
		"items":       rows,
		"total":       total,
		"page":        page,
		"total_pages": totalPages,
	})
}

type userStatusRequest struct {
	Status int `json:"status"` // 0 active, 1 muted, 2 banned
	Days   int `json:"days"`   // 0 means indefinite
}

// UpdateUserStatus mutes, bans or reinstates a user.
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil || userID <= 0 {
		respondError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var req userStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status < models.UserStatusActive || req.Status > models.UserStatusBanned || req.Days < 0 {
		respondError(c, http.StatusBadRequest, "invalid status")
		return
	}

	updates := map[string]interface{}{
		"status": req.Status,
	}
	if req.Status != models.UserStatusActive && req.Days > 0 {
		expires := time.Now().AddDate(0, 0, req.Days)
		updates["punish_expires"] = &expires
	} else {
		updates["punish_expires"] = nil
	}

	res := db.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		logger.Log.Error("Failed to update user status", zap.Int("user_id", userID), zap.Error(res.Error))
		respondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, http.StatusNotFound, "user not found")
		return
	}

	if admin := currentUser(c); admin != nil {
		logger.Log.Info("User status changed",
			zap.Uint("admin_id", admin.ID),
			zap.Int("user_id", userID),
			zap.Int("status", req.Status),
			zap.Int("days", req.Days),
		)
	}
	c.Status(http.StatusNoContent)
}
