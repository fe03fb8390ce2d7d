// Package moderation classifies user-submitted text before it is published.
//
// RunAllModerationChecks runs a fixed sequence of stages. Each stage may flag the
// content, and the first one that does wins:
//
//	keyword filter -> pattern filter -> sentiment score -> remote classifier
//
// Only posts and comments reach the remote stage. Every other content type gets
// either the cheaper BasicKeywordCheck or nothing at all.
package moderation

// ContentType tags the kind of content being moderated.
type ContentType string

const (
	ContentPost            ContentType = "post"
	ContentComment         ContentType = "comment"
	ContentMessage         ContentType = "message"
	ContentSurveyResponse  ContentType = "survey_response"
	ContentEventComment    ContentType = "event_comment"
	ContentMarketplaceItem ContentType = "marketplace_item"
)

// FullPipeline reports whether t is moderated by the remote classifier.
func (t ContentType) FullPipeline() bool {
	return t == ContentPost || t == ContentComment
}

// Method names the stage that produced a verdict.
type Method string

const (
	MethodKeywordFilter      Method = "keyword-filter"
	MethodPatternFilter      Method = "pattern-filter"
	MethodSentimentScoring   Method = "sentiment-scoring"
	MethodOpenAIModeration   Method = "openai-moderation"
	MethodAIModeration       Method = "ai-moderation"
	MethodBasicModeration    Method = "basic-moderation"
	MethodNoModerationNeeded Method = "no-moderation-needed"
)

// Verdict is the outcome of RunAllModerationChecks. Reason is empty unless
// Flagged is set. On the pass-through path Method tells whether the remote
// stage actually ran.
type Verdict struct {
	Flagged     bool   `json:"flagged"`
	Reason      string `json:"reason"`
	Method      Method `json:"method"`
	AIAvailable bool   `json:"aiAvailable"`
}

// BasicResult is the outcome of the lightweight check.
type BasicResult struct {
	Flagged bool   `json:"flagged"`
	Reason  string `json:"reason"`
	Method  Method `json:"method,omitempty"`
}

// User-facing rejection reasons.
const (
	ReasonKeyword    = "Your content contains language that violates our community guidelines."
	ReasonPattern    = "Your content matches a pattern that violates our community guidelines."
	ReasonSentiment  = "Your content appears to be excessively hostile or negative."
	ReasonHate       = "Your content was flagged for hate speech."
	ReasonHarassment = "Your content was flagged for harassment or bullying."
	ReasonViolence   = "Your content was flagged for violent or threatening language."
	ReasonSexual     = "Your content was flagged for sexual content."
	ReasonSelfHarm   = "Your content was flagged for self-harm content. If you are struggling, please reach out to campus counseling services."
	ReasonGeneric    = "Your content was flagged as inappropriate."
)
