package moderation

import "context"

// Fixture is one harness scenario with its expected outcome.
type Fixture struct {
	Name          string
	Text          string
	ContentType   ContentType
	ExpectFlagged bool
	// ExpectMethod, when set, must equal the verdict's method.
	ExpectMethod Method
	// RequiresAI marks fixtures only the remote classifier can catch. They are
	// skipped when the engine has no classifier.
	RequiresAI bool
}

// FixtureResult pairs a fixture with the verdict it produced.
type FixtureResult struct {
	Fixture Fixture
	Verdict Verdict
	Passed  bool
	Skipped bool
}

// Report summarises a harness run.
type Report struct {
	Results     []FixtureResult
	Passed      int
	Failed      int
	Skipped     int
	SuccessRate float64 // percent of non-skipped fixtures that passed
}

// DefaultFixtures is the regression battery for the classification policy.
func DefaultFixtures() []Fixture {
	return []Fixture{
		{
			Name:          "hate speech",
			Text:          "I hate all people of that race, they should be eliminated.",
			ContentType:   ContentPost,
			ExpectFlagged: true,
			RequiresAI:    true,
		},
		{
			Name:          "violent threat",
			Text:          "I'm going to kill you and your family tonight.",
			ContentType:   ContentPost,
			ExpectFlagged: true,
			ExpectMethod:  MethodKeywordFilter,
		},
		{
			Name:          "profanity",
			Text:          "This group project is fucking ridiculous, total bullshit.",
			ContentType:   ContentComment,
			ExpectFlagged: true,
			ExpectMethod:  MethodKeywordFilter,
		},
		{
			Name:          "harassment",
			Text:          "Nobody on this campus wants you around, you worthless loser. Just disappear.",
			ContentType:   ContentComment,
			ExpectFlagged: true,
			RequiresAI:    true,
		},
		{
			Name:          "benign post",
			Text:          "Hello everyone! I'm excited to share this interesting article about climate change.",
			ContentType:   ContentPost,
			ExpectFlagged: false,
		},
		{
			Name:          "academic text",
			Text:          "The research methodology employed in this study demonstrates significant statistical validity...",
			ContentType:   ContentPost,
			ExpectFlagged: false,
		},
		{
			Name:          "embedded substrings",
			Text:          "Our class assignment on classical music and passive voice is due Friday.",
			ContentType:   ContentComment,
			ExpectFlagged: false,
		},
		{
			Name:          "out of scope type",
			Text:          "anything at all",
			ContentType:   ContentMessage,
			ExpectFlagged: false,
			ExpectMethod:  MethodNoModerationNeeded,
		},
	}
}

// RunHarness runs every fixture through e and reports the outcome.
func RunHarness(ctx context.Context, e *Engine, fixtures []Fixture) Report {
	var rep Report
	for _, f := range fixtures {
		if f.RequiresAI && !e.HasClassifier() {
			rep.Results = append(rep.Results, FixtureResult{Fixture: f, Skipped: true})
			rep.Skipped++
			continue
		}

		v := e.RunAllModerationChecks(ctx, f.Text, f.ContentType)
		passed := v.Flagged == f.ExpectFlagged
		if passed && f.ExpectMethod != "" {
			passed = v.Method == f.ExpectMethod
		}

		rep.Results = append(rep.Results, FixtureResult{Fixture: f, Verdict: v, Passed: passed})
		if passed {
			rep.Passed++
		} else {
			rep.Failed++
		}
	}

	if ran := rep.Passed + rep.Failed; ran > 0 {
		rep.SuccessRate = float64(rep.Passed) / float64(ran) * 100
	}
	return rep
}
