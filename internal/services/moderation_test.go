package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"campusconnect/internal/config"
	"campusconnect/internal/moderation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockAuditLogger struct {
	mock.Mock
}

func (m *mockAuditLogger) LogViolation(ctx context.Context, rec moderation.AuditRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

type stubClassifier struct {
	calls  atomic.Int32
	result *moderation.Classification
	err    error
}

func (s *stubClassifier) Classify(context.Context, string) (*moderation.Classification, error) {
	s.calls.Add(1)
	return s.result, s.err
}

func newTestEngine(t *testing.T, c moderation.Classifier) *moderation.Engine {
	t.Helper()
	opts := []moderation.Option{}
	if c != nil {
		opts = append(opts, moderation.WithClassifier(c))
	}
	e, err := moderation.NewEngine(moderation.DefaultConfig(), opts...)
	require.NoError(t, err)
	return e
}

func TestScreen_KeywordRejectionIsAudited(t *testing.T) {
	audit := new(mockAuditLogger)
	remote := &stubClassifier{result: &moderation.Classification{}}
	svc := NewModerationService(newTestEngine(t, remote), audit, nil)

	audit.On("LogViolation", mock.Anything, mock.MatchedBy(func(rec moderation.AuditRecord) bool {
		return rec.UserID == 5 &&
			rec.Type == moderation.ContentPost &&
			rec.Content == "I will kill you" &&
			rec.Reason == moderation.ReasonKeyword+" (via keyword-filter)" &&
			!rec.CreatedAt.IsZero()
	})).Return(nil).Once()

	err := svc.Screen(context.Background(), 5, "  I will kill you  ", moderation.ContentPost)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrContentRejected))
	var rej *RejectionError
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, moderation.ReasonKeyword, rej.Reason)
	assert.Equal(t, moderation.MethodKeywordFilter, rej.Method)
	assert.Equal(t, int32(0), remote.calls.Load())
	audit.AssertExpectations(t)
}

func TestScreen_RemoteRejectionUsesCategoryReason(t *testing.T) {
	audit := new(mockAuditLogger)
	remote := &stubClassifier{result: &moderation.Classification{
		Flagged:    true,
		Categories: map[string]bool{"hate": true, "violence": true},
	}}
	svc := NewModerationService(newTestEngine(t, remote), audit, nil)

	audit.On("LogViolation", mock.Anything, mock.MatchedBy(func(rec moderation.AuditRecord) bool {
		return rec.Reason == moderation.ReasonHate+" (via openai-moderation)" && rec.Type == moderation.ContentComment
	})).Return(nil).Once()

	err := svc.Screen(context.Background(), 9, "some subtly hateful remark", moderation.ContentComment)

	var rej *RejectionError
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, moderation.ReasonHate, rej.Reason)
	audit.AssertExpectations(t)
}

func TestScreen_AuditFailureStillRejects(t *testing.T) {
	audit := new(mockAuditLogger)
	audit.On("LogViolation", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()
	svc := NewModerationService(newTestEngine(t, nil), audit, nil)

	err := svc.Screen(context.Background(), 1, "what a load of bullshit", moderation.ContentPost)

	assert.ErrorIs(t, err, ErrContentRejected)
	audit.AssertExpectations(t)
}

func TestScreen_CleanContentPasses(t *testing.T) {
	audit := new(mockAuditLogger)
	remote := &stubClassifier{result: &moderation.Classification{}}
	svc := NewModerationService(newTestEngine(t, remote), audit, nil)

	err := svc.Screen(context.Background(), 1, "Study group for the chemistry midterm meets Thursday.", moderation.ContentPost)

	assert.NoError(t, err)
	assert.Equal(t, int32(1), remote.calls.Load())
	audit.AssertNotCalled(t, "LogViolation", mock.Anything, mock.Anything)
}

func TestScreen_DegradedModeIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	audit := new(mockAuditLogger)
	remote := &stubClassifier{err: &moderation.APIError{StatusCode: 429, Code: "insufficient_quota", Message: "quota"}}
	svc := NewModerationService(newTestEngine(t, remote), audit, zap.New(core))

	err := svc.Screen(context.Background(), 3, "Anyone selling a used calculus textbook?", moderation.ContentPost)

	assert.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessageSnippet("degraded mode").Len())
	audit.AssertNotCalled(t, "LogViolation", mock.Anything, mock.Anything)
}

func TestScreen_OutOfScopeTypeIsNotDegraded(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewModerationService(newTestEngine(t, nil), new(mockAuditLogger), zap.New(core))

	err := svc.Screen(context.Background(), 3, "anything", moderation.ContentSurveyResponse)

	assert.NoError(t, err)
	assert.Equal(t, 0, logs.FilterMessageSnippet("degraded mode").Len())
}

func TestScreenLight(t *testing.T) {
	audit := new(mockAuditLogger)
	remote := &stubClassifier{result: &moderation.Classification{Flagged: true}}
	svc := NewModerationService(newTestEngine(t, remote), audit, nil)

	audit.On("LogViolation", mock.Anything, mock.MatchedBy(func(rec moderation.AuditRecord) bool {
		return rec.Type == moderation.ContentMessage && rec.Reason == moderation.ReasonKeyword+" (via keyword-filter)"
	})).Return(nil).Once()

	err := svc.ScreenLight(context.Background(), 2, "this is bullshit", moderation.ContentMessage)
	assert.ErrorIs(t, err, ErrContentRejected)

	err = svc.ScreenLight(context.Background(), 2, "see you at the library", moderation.ContentMessage)
	assert.NoError(t, err)

	assert.Equal(t, int32(0), remote.calls.Load())
	audit.AssertExpectations(t)
}

func TestNewEngine(t *testing.T) {
	t.Run("local only without api key", func(t *testing.T) {
		e, err := NewEngine(config.Config{}, nil)
		require.NoError(t, err)
		assert.False(t, e.HasClassifier())
	})

	t.Run("remote classifier with api key", func(t *testing.T) {
		e, err := NewEngine(config.Config{OpenAIAPIKey: "sk-test", ModerationCacheSize: 8}, zap.NewNop())
		require.NoError(t, err)
		assert.True(t, e.HasClassifier())
	})

	t.Run("bad policy file", func(t *testing.T) {
		_, err := NewEngine(config.Config{PolicyFile: filepath.Join(t.TempDir(), "missing.yaml")}, nil)
		assert.Error(t, err)
	})
}
