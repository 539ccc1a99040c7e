package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sakshikumar19/mentor/internal/cache"
	"github.com/sakshikumar19/mentor/internal/detector"
	"github.com/sakshikumar19/mentor/internal/knowledge"
	"github.com/sakshikumar19/mentor/internal/providers"
	"github.com/sakshikumar19/mentor/internal/redact"
)

// maxExcerpts bounds how many similar-code excerpts go into a generation
// prompt.
const maxExcerpts = 3

// Recommendation is one actionable review finding: a detected issue plus a
// suggestion, optionally with a generated explanation.
type Recommendation struct {
	Type        string `json:"type"`
	Subtype     string `json:"subtype"`
	Message     string `json:"message"`
	Suggestion  string `json:"suggestion"`
	Severity    string `json:"severity"`
	Explanation string `json:"explanation,omitempty"`
}

// Review is the externally consumed result document for one file.
type Review struct {
	File            string           `json:"file"`
	Recommendations []Recommendation `json:"recommendations"`
}

// suggestions is the closed category→subtype→text lookup used for
// deterministic issues.
var suggestions = map[string]map[string]string{
	"style": {
		"indentation":       "Follow the project's indentation pattern.",
		"line_length":       "Keep lines within the maximum length. Consider breaking long lines or using appropriate line continuation techniques.",
		"naming_convention": "Follow the project's naming convention for consistency.",
	},
	"architecture": {
		"uncommon_import":      "Consider if a standard library or commonly used import in the project would be more appropriate.",
		"uncommon_from_import": "Consider if a standard library or commonly used import in the project would be more appropriate.",
		"uncommon_js_import":   "Consider if a standard library or commonly used import in the project would be more appropriate.",
		"error_handling":       "Add appropriate error handling based on project patterns.",
	},
	"functionality": {
		"logging": "Use the project's logging framework instead of print statements.",
		"testing": "Add appropriate test assertions following the project's testing patterns.",
	},
}

const fallbackSuggestion = "Review and adjust according to project standards."

// severityRank fixes the output ordering: high before medium before low,
// with every other severity (critical and info included) sorting last in
// input order.
var severityRank = map[string]int{
	detector.SeverityHigh:   0,
	detector.SeverityMedium: 1,
	detector.SeverityLow:    2,
}

// Synthesizer turns detector output into an ordered recommendation list,
// optionally enriched by a generative backend.
type Synthesizer struct {
	generator providers.Generator
	model     string
	cache     *cache.Cache
	redact    bool
	logger    *zap.Logger
}

// New creates a Synthesizer. generator may be nil (deterministic-only) and
// cache may be nil (no response caching). redactSecrets scrubs diffs and
// retrieved excerpts before they reach the backend.
func New(generator providers.Generator, model string, responseCache *cache.Cache, redactSecrets bool, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{
		generator: generator,
		model:     model,
		cache:     responseCache,
		redact:    redactSecrets,
		logger:    logger,
	}
}

// Synthesize produces the review document for one analyzed file.
func (s *Synthesizer) Synthesize(ctx context.Context, analysis detector.Analysis, filePath string) Review {
	s.logger.Info("generating recommendations", zap.String("file", filePath))

	var recs []Recommendation
	for _, group := range [][]detector.Issue{
		analysis.Issues.Style,
		analysis.Issues.Architecture,
		analysis.Issues.Functionality,
	} {
		for _, issue := range group {
			recs = append(recs, Recommendation{
				Type:       issue.Type,
				Subtype:    issue.Subtype,
				Message:    issue.Message,
				Suggestion: suggestionFor(issue),
				Severity:   issue.Severity,
			})
		}
	}

	if s.generator != nil && analysis.Diff != "" {
		recs = append(recs, s.generated(ctx, analysis.Diff, filePath, analysis.SimilarCode)...)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return rank(recs[i].Severity) < rank(recs[j].Severity)
	})

	return Review{File: filePath, Recommendations: recs}
}

func rank(severity string) int {
	if r, ok := severityRank[severity]; ok {
		return r
	}
	return 3
}

func suggestionFor(issue detector.Issue) string {
	if bySubtype, ok := suggestions[issue.Type]; ok {
		if text, ok := bySubtype[issue.Subtype]; ok {
			return text
		}
	}
	return fallbackSuggestion
}

// generated asks the backend for additional recommendations over the diff.
// Any failure, including a malformed response, contributes zero entries.
// Credential-bearing files never reach the backend at all.
func (s *Synthesizer) generated(ctx context.Context, diffText, filePath string, similar []knowledge.SimilarChunk) []Recommendation {
	if redact.SensitivePath(filePath) {
		s.logger.Warn("skipping generative pass for credential-bearing file",
			zap.String("file", filePath))
		return nil
	}

	s.logger.Info("requesting generative recommendations", zap.String("file", filePath))

	safeDiff := diffText
	if s.redact {
		safeDiff = redact.Secrets(diffText)
		similar = redactedExcerpts(similar)
	}
	key := cache.BuildKey(s.generator.Name(), s.model, filePath, safeDiff)

	var content string
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			s.logger.Debug("generative response served from cache")
			content = cached
		}
	}

	if content == "" {
		resp, err := s.generator.Generate(ctx, providers.GenerateRequest{
			SystemPrompt: systemPrompt,
			UserPrompt:   buildPrompt(safeDiff, filePath, similar),
			Temperature:  0.7,
		})
		if err != nil {
			s.logger.Warn("generative backend failed", zap.Error(err))
			return nil
		}
		content = resp.Content
		if s.cache != nil {
			if err := s.cache.Put(key, content); err != nil {
				s.logger.Debug("caching generative response failed", zap.Error(err))
			}
		}
	}

	recs, err := parseRecommendations(content)
	if err != nil {
		s.logger.Warn("discarding malformed generative response", zap.Error(err))
		return nil
	}
	return recs
}

// redactedExcerpts scrubs retrieved chunks before prompt assembly. A chunk
// from a credential-bearing file is dropped wholesale by the path policy.
func redactedExcerpts(similar []knowledge.SimilarChunk) []knowledge.SimilarChunk {
	out := make([]knowledge.SimilarChunk, len(similar))
	for i, c := range similar {
		c.Content = redact.Content(c.Content, c.File)
		out[i] = c
	}
	return out
}

// parseRecommendations validates the backend payload: it must be a JSON
// list, and each entry must carry at least a message and severity.
func parseRecommendations(content string) ([]Recommendation, error) {
	payload := extracted(content)

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("response is not a JSON list: %w", err)
	}

	var recs []Recommendation
	for _, entry := range raw {
		var rec Recommendation
		if err := json.Unmarshal(entry, &rec); err != nil {
			continue
		}
		if rec.Message == "" || rec.Severity == "" {
			continue
		}
		if rec.Type == "" {
			rec.Type = "llm"
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// extracted strips a markdown code fence around the JSON payload if the
// backend wrapped its answer in one.
func extracted(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
