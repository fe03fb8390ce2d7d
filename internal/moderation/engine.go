package moderation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Engine runs the staged moderation pipeline. It holds no per-call state and
// is safe for concurrent use.
type Engine struct {
	cfg        Config
	keywords   *keywordFilter
	patterns   PatternFunc
	sentiment  SentimentFunc
	classifier Classifier
	log        *zap.Logger
}

// Option customises an Engine.
type Option func(*Engine)

// WithClassifier sets the remote stage. Without one the remote stage is
// treated as unavailable and posts fall through to basic-moderation.
func WithClassifier(c Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithPatternFunc replaces the pattern stage regardless of config.
func WithPatternFunc(f PatternFunc) Option {
	return func(e *Engine) { e.patterns = f }
}

// WithSentimentFunc replaces the sentiment stage regardless of config.
func WithSentimentFunc(f SentimentFunc) Option {
	return func(e *Engine) { e.sentiment = f }
}

// NewEngine builds an engine from cfg.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if cfg.StrictSentimentThreshold == 0 {
		cfg.StrictSentimentThreshold = StrictSentimentThreshold
	}
	if cfg.LenientSentimentThreshold == 0 {
		cfg.LenientSentimentThreshold = LenientSentimentThreshold
	}
	if cfg.RemoteTimeout <= 0 {
		cfg.RemoteTimeout = DefaultRemoteTimeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("moderation config: %w", err)
	}

	e := &Engine{
		cfg:       cfg,
		keywords:  newKeywordFilter(cfg.BlockedKeywords),
		patterns:  NoPatterns,
		sentiment: NoSentiment,
		log:       zap.NewNop(),
	}
	if cfg.PatternFilterEnabled {
		pf, err := RegexPatterns(cfg.Patterns)
		if err != nil {
			return nil, err
		}
		e.patterns = pf
	}
	if cfg.SentimentScoringEnabled {
		e.sentiment = WeightedSentiment(cfg.NegativeWords)
	}

	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// HasClassifier reports whether a remote stage is configured.
func (e *Engine) HasClassifier() bool {
	return e.classifier != nil
}

// RunAllModerationChecks classifies text. An empty contentType means post.
func (e *Engine) RunAllModerationChecks(ctx context.Context, text string, contentType ContentType) Verdict {
	if contentType == "" {
		contentType = ContentPost
	}
	if !contentType.FullPipeline() {
		e.log.Warn("full moderation requested for unsupported content type",
			zap.String("content_type", string(contentType)))
		return Verdict{Method: MethodNoModerationNeeded}
	}

	if method, reason, flagged := e.localStages(text, e.cfg.StrictSentimentThreshold); flagged {
		e.log.Info("content flagged locally",
			zap.String("content_type", string(contentType)),
			zap.String("method", string(method)))
		return Verdict{Flagged: true, Reason: reason, Method: method}
	}

	aiAvailable := false
	if e.classifier == nil {
		e.log.Debug("no remote classifier configured, using local checks only")
	} else {
		res, err := e.classify(ctx, text)
		switch {
		case err != nil && IsQuotaError(err):
			e.log.Warn("moderation quota exhausted, falling back to local checks", zap.Error(err))
		case err != nil:
			e.log.Error("remote moderation failed, falling back to local checks",
				zap.Error(err),
				zap.Bool("timeout", errors.Is(err, context.DeadlineExceeded)))
		case res.Flagged:
			return Verdict{
				Flagged:     true,
				Reason:      ReasonForCategories(res.Categories),
				Method:      MethodOpenAIModeration,
				AIAvailable: true,
			}
		default:
			aiAvailable = true
		}
	}

	method := MethodBasicModeration
	if aiAvailable {
		method = MethodAIModeration
	}
	return Verdict{Method: method, AIAvailable: aiAvailable}
}

// BasicKeywordCheck is the lightweight tier for content types outside the full
// pipeline. It never calls the remote classifier and uses the lenient
// sentiment threshold.
func (e *Engine) BasicKeywordCheck(text string) BasicResult {
	if method, reason, flagged := e.localStages(text, e.cfg.LenientSentimentThreshold); flagged {
		return BasicResult{Flagged: true, Reason: reason, Method: method}
	}
	return BasicResult{}
}

func (e *Engine) localStages(text string, sentimentThreshold int) (Method, string, bool) {
	if term, ok := e.keywords.match(text); ok {
		e.log.Debug("keyword filter hit", zap.String("term", term))
		return MethodKeywordFilter, ReasonKeyword, true
	}
	if pattern, ok := e.patterns(text); ok {
		e.log.Debug("pattern filter hit", zap.String("pattern", pattern))
		return MethodPatternFilter, ReasonPattern, true
	}
	if score := e.sentiment(text); score >= sentimentThreshold {
		e.log.Debug("sentiment threshold reached",
			zap.Int("score", score), zap.Int("threshold", sentimentThreshold))
		return MethodSentimentScoring, ReasonSentiment, true
	}
	return "", "", false
}

// classify bounds the remote call by the configured timeout. A nil result
// without an error counts as a malformed response.
func (e *Engine) classify(ctx context.Context, text string) (*Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.RemoteTimeout)
	defer cancel()

	res, err := e.classifier.Classify(ctx, text)
	if err == nil && res == nil {
		err = ErrMalformedResponse
	}
	return res, err
}
