package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusconnect/internal/config"
	"campusconnect/internal/moderation"

	"go.uber.org/zap"
)

// ErrContentRejected is returned when a submission fails moderation.
var ErrContentRejected = errors.New("content rejected by moderation")

// RejectionError carries the user-facing reason of a rejection.
type RejectionError struct {
	Reason string
	Method moderation.Method
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrContentRejected.Error(), e.Reason)
}

func (e *RejectionError) Unwrap() error { return ErrContentRejected }

// ModerationService screens user content before it is stored and records
// every rejection in the audit trail.
type ModerationService struct {
	engine *moderation.Engine
	audit  moderation.AuditLogger
	log    *zap.Logger
	now    func() time.Time
}

func NewModerationService(engine *moderation.Engine, audit moderation.AuditLogger, log *zap.Logger) *ModerationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ModerationService{engine: engine, audit: audit, log: log, now: time.Now}
}

// Screen runs the full pipeline. A nil return means the content may be
// published; a *RejectionError means it must not be.
func (s *ModerationService) Screen(ctx context.Context, userID uint, text string, contentType moderation.ContentType) error {
	text = strings.TrimSpace(text)
	v := s.engine.RunAllModerationChecks(ctx, text, contentType)
	if v.Flagged {
		return s.reject(ctx, userID, text, contentType, v.Reason, v.Method)
	}
	if !v.AIAvailable && contentType.FullPipeline() {
		s.log.Warn("Content published in degraded mode, remote moderation unavailable",
			zap.Uint("user_id", userID),
			zap.String("type", string(contentType)),
			zap.String("method", string(v.Method)),
		)
	}
	return nil
}

// ScreenLight runs the lightweight check. It never contacts the remote
// classifier.
func (s *ModerationService) ScreenLight(ctx context.Context, userID uint, text string, contentType moderation.ContentType) error {
	text = strings.TrimSpace(text)
	res := s.engine.BasicKeywordCheck(text)
	if !res.Flagged {
		return nil
	}
	method := res.Method
	if method == "" {
		method = moderation.MethodKeywordFilter
	}
	return s.reject(ctx, userID, text, contentType, res.Reason, method)
}

func (s *ModerationService) reject(ctx context.Context, userID uint, text string, contentType moderation.ContentType, reason string, method moderation.Method) error {
	rec := moderation.AuditRecord{
		UserID:    userID,
		Content:   text,
		Type:      contentType,
		Reason:    moderation.AuditReason(reason, method),
		CreatedAt: s.now(),
	}
	if s.audit != nil {
		if err := s.audit.LogViolation(ctx, rec); err != nil {
			s.log.Error("Failed to record flagged content",
				zap.Uint("user_id", userID),
				zap.String("type", string(contentType)),
				zap.Error(err),
			)
		}
	}
	s.log.Info("Content rejected",
		zap.Uint("user_id", userID),
		zap.String("type", string(contentType)),
		zap.String("method", string(method)),
	)
	return &RejectionError{Reason: reason, Method: method}
}

// NewEngine builds the moderation engine from process config. The remote
// classifier is attached only when an API key is set.
func NewEngine(cfg config.Config, log *zap.Logger) (*moderation.Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	policy, err := cfg.ModerationPolicy()
	if err != nil {
		return nil, err
	}

	opts := []moderation.Option{moderation.WithLogger(log)}
	if cfg.OpenAIAPIKey != "" {
		client := moderation.NewOpenAIClient(moderation.OpenAIConfig{
			APIKey:            cfg.OpenAIAPIKey,
			BaseURL:           cfg.OpenAIBaseURL,
			Model:             cfg.OpenAIModel,
			Timeout:           cfg.ModerationTimeout,
			RequestsPerSecond: cfg.ModerationRPS,
		})
		cached, err := moderation.NewCachedClassifier(client, cfg.ModerationCacheSize, cfg.ModerationCacheTTL)
		if err != nil {
			return nil, err
		}
		opts = append(opts, moderation.WithClassifier(cached))
	} else {
		log.Warn("OPENAI_API_KEY not set, running with local moderation only")
	}

	engine, err := moderation.NewEngine(policy, opts...)
	if err != nil {
		return nil, fmt.Errorf("build moderation engine: %w", err)
	}
	return engine, nil
}
