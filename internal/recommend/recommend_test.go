package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sakshikumar19/mentor/internal/cache"
	"github.com/sakshikumar19/mentor/internal/detector"
	"github.com/sakshikumar19/mentor/internal/knowledge"
	"github.com/sakshikumar19/mentor/internal/providers"
)

type fakeGenerator struct {
	response string
	err      error
	calls    int
	lastReq  providers.GenerateRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req providers.GenerateRequest) (providers.GenerateResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return providers.GenerateResponse{}, f.err
	}
	return providers.GenerateResponse{Content: f.response}, nil
}

func (f *fakeGenerator) Name() string { return "fake" }

func sampleAnalysis() detector.Analysis {
	var a detector.Analysis
	a.Issues.Style = []detector.Issue{
		{Type: "style", Subtype: "indentation", Message: "indent", Severity: detector.SeverityLow},
	}
	a.Issues.Architecture = []detector.Issue{
		{Type: "architecture", Subtype: "error_handling", Message: "errors", Severity: detector.SeverityMedium},
	}
	a.Issues.Functionality = []detector.Issue{
		{Type: "functionality", Subtype: "testing", Message: "tests", Severity: detector.SeverityHigh},
	}
	return a
}

func TestSynthesizeDeterministic(t *testing.T) {
	s := New(nil, "", nil, true, nil)
	review := s.Synthesize(context.Background(), sampleAnalysis(), "app.py")

	if review.File != "app.py" {
		t.Errorf("file = %s", review.File)
	}
	if len(review.Recommendations) != 3 {
		t.Fatalf("recommendations = %d, want 3", len(review.Recommendations))
	}
	wantOrder := []string{"high", "medium", "low"}
	for i, rec := range review.Recommendations {
		if rec.Severity != wantOrder[i] {
			t.Errorf("position %d severity = %s, want %s", i, rec.Severity, wantOrder[i])
		}
		if rec.Explanation != "" {
			t.Errorf("deterministic recommendation carries explanation: %+v", rec)
		}
	}
	if review.Recommendations[0].Suggestion != "Add appropriate test assertions following the project's testing patterns." {
		t.Errorf("testing suggestion = %q", review.Recommendations[0].Suggestion)
	}
}

func TestSuggestionFallback(t *testing.T) {
	issue := detector.Issue{Type: "style", Subtype: "never_seen", Severity: "low"}
	if got := suggestionFor(issue); got != fallbackSuggestion {
		t.Errorf("fallback = %q", got)
	}
}

func TestSeverityOrderingStable(t *testing.T) {
	var a detector.Analysis
	a.Issues.Style = []detector.Issue{
		{Type: "style", Subtype: "a", Message: "low-1", Severity: "low"},
		{Type: "style", Subtype: "b", Message: "info-1", Severity: "info"},
		{Type: "style", Subtype: "c", Message: "high-1", Severity: "high"},
		{Type: "style", Subtype: "d", Message: "critical-1", Severity: "critical"},
		{Type: "style", Subtype: "e", Message: "medium-1", Severity: "medium"},
		{Type: "style", Subtype: "f", Message: "high-2", Severity: "high"},
		{Type: "style", Subtype: "g", Message: "low-2", Severity: "low"},
	}
	review := New(nil, "", nil, true, nil).Synthesize(context.Background(), a, "f.py")

	var got []string
	for _, rec := range review.Recommendations {
		got = append(got, rec.Message)
	}
	// high < medium < low, everything else (info and critical included)
	// last in input order.
	want := []string{"high-1", "high-2", "medium-1", "low-1", "low-2", "info-1", "critical-1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSynthesizeWithGenerator(t *testing.T) {
	gen := &fakeGenerator{response: `[
		{"type":"llm","subtype":"security","message":"unvalidated input on line 3","explanation":"user input flows into a query","suggestion":"validate first","severity":"high"},
		{"type":"llm","subtype":"noise","message":"","severity":"low"},
		{"not":"a recommendation"}
	]`}
	analysis := sampleAnalysis()
	analysis.Diff = "--- a/app.py\n+++ b/app.py\n@@ -1,1 +1,1 @@\n-x\n+y\n"
	analysis.SimilarCode = []knowledge.SimilarChunk{
		{File: "lib.py", Content: "def f(): pass"},
		{File: "more.py", Content: "def g(): pass"},
		{File: "third.py", Content: "def h(): pass"},
		{File: "fourth.py", Content: "def i(): pass"},
	}

	review := New(gen, "test-model", nil, true, nil).Synthesize(context.Background(), analysis, "app.py")

	var llm []Recommendation
	for _, rec := range review.Recommendations {
		if rec.Type == "llm" {
			llm = append(llm, rec)
		}
	}
	if len(llm) != 1 {
		t.Fatalf("valid llm recommendations = %d, want 1", len(llm))
	}
	if llm[0].Explanation == "" {
		t.Error("llm recommendation lost its explanation")
	}
	if review.Recommendations[0].Severity != "high" {
		t.Errorf("first severity = %s", review.Recommendations[0].Severity)
	}

	// Prompt carries the diff and at most three excerpts.
	if !strings.Contains(gen.lastReq.UserPrompt, analysis.Diff) {
		t.Error("prompt missing diff")
	}
	if strings.Contains(gen.lastReq.UserPrompt, "fourth.py") {
		t.Error("prompt includes more than three excerpts")
	}
	if !strings.Contains(gen.lastReq.UserPrompt, "third.py") {
		t.Error("prompt missing third excerpt")
	}
}

func TestSynthesizeSkipsGenerationWithoutDiff(t *testing.T) {
	gen := &fakeGenerator{response: `[]`}
	review := New(gen, "m", nil, true, nil).Synthesize(context.Background(), sampleAnalysis(), "app.py")
	if gen.calls != 0 {
		t.Errorf("generator called %d times without a diff", gen.calls)
	}
	if len(review.Recommendations) != 3 {
		t.Errorf("recommendations = %d, want 3", len(review.Recommendations))
	}
}

func TestSynthesizeDiscardsMalformedResponse(t *testing.T) {
	for _, response := range []string{
		"not json at all",
		`{"a": "json object, not a list"}`,
		`"just a string"`,
	} {
		gen := &fakeGenerator{response: response}
		analysis := sampleAnalysis()
		analysis.Diff = "+x\n"
		review := New(gen, "m", nil, true, nil).Synthesize(context.Background(), analysis, "app.py")
		if len(review.Recommendations) != 3 {
			t.Errorf("response %q: recommendations = %d, want 3 deterministic only",
				response, len(review.Recommendations))
		}
	}
}

func TestSynthesizeBackendFailureDegrades(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("network down")}
	analysis := sampleAnalysis()
	analysis.Diff = "+x\n"
	review := New(gen, "m", nil, true, nil).Synthesize(context.Background(), analysis, "app.py")
	if len(review.Recommendations) != 3 {
		t.Errorf("recommendations = %d, want 3", len(review.Recommendations))
	}
}

func TestSynthesizeFencedResponse(t *testing.T) {
	gen := &fakeGenerator{response: "```json\n[{\"message\":\"fenced\",\"severity\":\"low\"}]\n```"}
	analysis := sampleAnalysis()
	analysis.Diff = "+x\n"
	review := New(gen, "m", nil, true, nil).Synthesize(context.Background(), analysis, "app.py")
	found := false
	for _, rec := range review.Recommendations {
		if rec.Message == "fenced" {
			found = true
			if rec.Type != "llm" {
				t.Errorf("defaulted type = %s, want llm", rec.Type)
			}
		}
	}
	if !found {
		t.Error("fenced JSON response was not parsed")
	}
}

func TestSynthesizeUsesCache(t *testing.T) {
	c, err := cache.New(true, t.TempDir(), 3600)
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	gen := &fakeGenerator{response: `[{"message":"cached finding","severity":"medium"}]`}
	analysis := sampleAnalysis()
	analysis.Diff = "+x\n"

	s := New(gen, "m", c, true, nil)
	first := s.Synthesize(context.Background(), analysis, "app.py")
	second := s.Synthesize(context.Background(), analysis, "app.py")

	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1 (second served from cache)", gen.calls)
	}
	if len(first.Recommendations) != len(second.Recommendations) {
		t.Error("cached and fresh runs disagree")
	}
}

func TestSynthesizeRedactsDiff(t *testing.T) {
	gen := &fakeGenerator{response: `[]`}
	analysis := sampleAnalysis()
	analysis.Diff = "+api_key = \"gsk_abcdefghijklmnopqrstuvwxyz123456\"\n"

	New(gen, "m", nil, true, nil).Synthesize(context.Background(), analysis, "app.py")
	if strings.Contains(gen.lastReq.UserPrompt, "gsk_") {
		t.Error("secret survived into the prompt")
	}
}

func TestSynthesizeRedactionDisabled(t *testing.T) {
	gen := &fakeGenerator{response: `[]`}
	analysis := sampleAnalysis()
	analysis.Diff = "+api_key = \"gsk_abcdefghijklmnopqrstuvwxyz123456\"\n"

	New(gen, "m", nil, false, nil).Synthesize(context.Background(), analysis, "app.py")
	if gen.calls != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.calls)
	}
	if !strings.Contains(gen.lastReq.UserPrompt, "gsk_abcdefghijklmnopqrstuvwxyz123456") {
		t.Error("diff was redacted with privacy.redactSecrets disabled")
	}
}

func TestSynthesizeSkipsCredentialFiles(t *testing.T) {
	gen := &fakeGenerator{response: `[{"message":"m","severity":"low"}]`}
	analysis := sampleAnalysis()
	analysis.Diff = "+SECRET=value\n"

	review := New(gen, "m", nil, true, nil).Synthesize(context.Background(), analysis, "config/.env")
	if gen.calls != 0 {
		t.Errorf("generator calls = %d, want 0 for a credential-bearing file", gen.calls)
	}
	// Deterministic recommendations still come through.
	if len(review.Recommendations) != 3 {
		t.Errorf("recommendations = %d, want 3", len(review.Recommendations))
	}
}

func TestSynthesizeRedactsExcerpts(t *testing.T) {
	gen := &fakeGenerator{response: `[]`}
	analysis := sampleAnalysis()
	analysis.Diff = "+x = 1\n"
	analysis.SimilarCode = []knowledge.SimilarChunk{
		{File: "settings.py", Content: "token = \"gsk_abcdefghijklmnopqrstuvwxyz123456\"", Similarity: 0.9},
		{File: ".env.production", Content: "DB_PASSWORD=hunter2hunter2", Similarity: 0.8},
	}

	New(gen, "m", nil, true, nil).Synthesize(context.Background(), analysis, "app.py")
	if strings.Contains(gen.lastReq.UserPrompt, "gsk_") {
		t.Error("excerpt secret survived into the prompt")
	}
	if strings.Contains(gen.lastReq.UserPrompt, "hunter2") {
		t.Error("credential-file excerpt content survived into the prompt")
	}
}
