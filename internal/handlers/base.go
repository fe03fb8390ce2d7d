package handlers

import (
	"errors"
	"net/http"
	"time"

	"campusconnect/internal/db"
	"campusconnect/internal/logger"
	"campusconnect/internal/middleware"
	"campusconnect/internal/models"
	"campusconnect/internal/services"
	"campusconnect/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 30
	maxPageSize     = 100
)

// respondError writes the JSON error envelope used by every endpoint.
func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// respondModerationError maps a Screen/ScreenLight error onto a response.
func respondModerationError(c *gin.Context, err error) {
	var rej *services.RejectionError
	if errors.As(err, &rej) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "content rejected", "reason": rej.Reason})
		return
	}
	logger.Log.Error("Moderation failed", zap.Error(err))
	respondError(c, http.StatusInternalServerError, "internal error")
}

func currentUser(c *gin.Context) *models.User {
	if u, exists := c.Get(middleware.CheckUserKey); exists {
		if user, ok := u.(*models.User); ok {
			return user
		}
	}
	return nil
}

// checkCanPublish answers 403 and returns false when the user is muted or
// banned. An expired mute is lifted on the way through.
func checkCanPublish(c *gin.Context, user *models.User) bool {
	msg, expired := user.PublishBlock(time.Now())
	if expired {
		db.DB.Model(user).Updates(map[string]interface{}{
			"status":         models.UserStatusActive,
			"punish_expires": nil,
		})
		user.Status = models.UserStatusActive
		user.PunishExpires = nil
		return true
	}
	if msg != "" {
		respondError(c, http.StatusForbidden, msg)
		return false
	}
	return true
}

func pagination(c *gin.Context) (page, pageSize int) {
	page = utils.StringToInt(c.Query("page"))
	if page < 1 {
		page = 1
	}
	pageSize = utils.StringToInt(c.Query("page_size"))
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return page, pageSize
}
