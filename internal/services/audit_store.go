package services

import (
	"context"
	"fmt"

	"campusconnect/internal/models"
	"campusconnect/internal/moderation"

	"gorm.io/gorm"
)

// GormAuditLogger stores flagged content in the flagged_contents table.
type GormAuditLogger struct {
	db *gorm.DB
}

func NewGormAuditLogger(db *gorm.DB) *GormAuditLogger {
	return &GormAuditLogger{db: db}
}

// LogViolation inserts one audit record.
func (l *GormAuditLogger) LogViolation(ctx context.Context, rec moderation.AuditRecord) error {
	row := models.FlaggedContent{
		UserID:    rec.UserID,
		Content:   rec.Content,
		Type:      string(rec.Type),
		Reason:    rec.Reason,
		CreatedAt: rec.CreatedAt,
	}
	if err := l.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert flagged content: %w", err)
	}
	return nil
}

// ListFlagged returns one page of the audit trail, newest first, and the
// total row count.
func (l *GormAuditLogger) ListFlagged(ctx context.Context, page, pageSize int) ([]models.FlaggedContent, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := l.db.WithContext(ctx).Model(&models.FlaggedContent{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count flagged content: %w", err)
	}

	var rows []models.FlaggedContent
	err := l.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list flagged content: %w", err)
	}
	return rows, total, nil
}
