package moderation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Classifier is the remote moderation stage.
type Classifier interface {
	Classify(ctx context.Context, text string) (*Classification, error)
}

// Classification is the remote verdict. Categories holds every category the
// classifier reported, keyed by name ("hate", "violence/graphic", ...).
type Classification struct {
	Flagged    bool            `json:"flagged"`
	Categories map[string]bool `json:"categories"`
}

// ErrQuotaExceeded marks a call refused because the request budget is spent,
// either remotely or by the local rate limiter.
var ErrQuotaExceeded = errors.New("moderation quota exceeded")

// ErrMalformedResponse is returned when the classifier answers without a result.
var ErrMalformedResponse = errors.New("malformed moderation response")

// APIError is a non-2xx answer from the remote classifier.
type APIError struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("moderation api: status %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("moderation api: status %d: %s", e.StatusCode, e.Message)
}

var quotaCodes = map[string]bool{
	"insufficient_quota":  true,
	"rate_limit_exceeded": true,
	"quota_exceeded":      true,
}

// IsQuotaError reports whether err means the classifier refused the call for
// quota or rate-limit reasons.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrQuotaExceeded) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests || quotaCodes[apiErr.Code] || quotaCodes[apiErr.Type] {
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit")
}

// categoryReasons is checked in order; the first family present wins.
var categoryReasons = []struct {
	family string
	reason string
}{
	{"hate", ReasonHate},
	{"harassment", ReasonHarassment},
	{"violence", ReasonViolence},
	{"sexual", ReasonSexual},
	{"self-harm", ReasonSelfHarm},
}

// ReasonForCategories maps flagged categories to one user-facing reason.
// Sub-categories count toward their family, so "hate/threatening" is hate.
func ReasonForCategories(categories map[string]bool) string {
	families := make(map[string]bool, len(categories))
	for name, on := range categories {
		if !on {
			continue
		}
		family, _, _ := strings.Cut(strings.ToLower(name), "/")
		families[family] = true
	}
	for _, cr := range categoryReasons {
		if families[cr.family] {
			return cr.reason
		}
	}
	return ReasonGeneric
}
