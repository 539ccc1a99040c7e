package detector

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/sakshikumar19/mentor/internal/diff"
	"github.com/sakshikumar19/mentor/internal/knowledge"
	"github.com/sakshikumar19/mentor/internal/patterns"
)

// Severity levels carried on issues and recommendations.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
	SeverityInfo     = "info"
)

// Issue categories.
const (
	TypeStyle         = "style"
	TypeArchitecture  = "architecture"
	TypeFunctionality = "functionality"
)

// similarContextSize is how many similar chunks are retrieved per analysis.
const similarContextSize = 5

var jsImportRe = regexp.MustCompile(`import\s+(?:\{[^}]+\}|[^{;]+?)\s+from\s+['"]([^'"]+)['"]`)

// Issue is one deterministic finding against the learned conventions.
type Issue struct {
	Type     string `json:"type"`
	Subtype  string `json:"subtype"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Issues groups findings by category.
type Issues struct {
	Style         []Issue `json:"style"`
	Architecture  []Issue `json:"architecture"`
	Functionality []Issue `json:"functionality"`
}

// Analysis is the detector's output for one candidate file: categorized
// issues, retrieved similar-code context, and (for diff analysis) the
// unified diff text.
type Analysis struct {
	Issues      Issues                  `json:"issues"`
	SimilarCode []knowledge.SimilarChunk `json:"similar_code"`
	Diff        string                  `json:"diff,omitempty"`
}

// Retriever supplies similar-code context for an analysis. Implementations
// return an empty slice when no index is available.
type Retriever interface {
	RetrieveSimilar(ctx context.Context, snippet string, k int) []knowledge.SimilarChunk
}

// Detector compares candidate code against a learned pattern set. It holds
// no mutable state, so one Detector may serve concurrent analyses.
type Detector struct {
	patterns  *patterns.Set
	retriever Retriever
	logger    *zap.Logger
}

// New creates a Detector over the given pattern set. retriever may be nil,
// in which case analyses carry no similar-code context.
func New(set *patterns.Set, retriever Retriever, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{patterns: set, retriever: retriever, logger: logger}
}

// Analyze runs all detector passes on one candidate file.
func (d *Detector) Analyze(ctx context.Context, code, filePath string) Analysis {
	var analysis Analysis
	if d.patterns == nil {
		d.logger.Warn("patterns not loaded")
		return analysis
	}

	d.logger.Info("analyzing code", zap.String("file", filePath))

	ext := strings.ToLower(path.Ext(filePath))
	var py *patterns.PythonSummary
	if ext == ".py" {
		summary, ok := patterns.AnalyzePython(ctx, code)
		if ok {
			py = summary
		} else {
			d.logger.Debug("candidate does not parse, syntax checks skipped",
				zap.String("file", filePath))
		}
	}

	analysis.Issues.Style = d.analyzeStyle(code, py)
	analysis.Issues.Architecture = d.analyzeArchitecture(code, ext, py)
	analysis.Issues.Functionality = d.analyzeFunctionality(filePath, ext, py)

	if d.retriever != nil {
		analysis.SimilarCode = d.retriever.RetrieveSimilar(ctx, code, similarContextSize)
	}
	return analysis
}

// AnalyzeDiff analyzes the new version of a file and attaches a unified
// diff against the original version.
func (d *Detector) AnalyzeDiff(ctx context.Context, originalCode, newCode, filePath string) Analysis {
	d.logger.Info("analyzing diff", zap.String("file", filePath))
	analysis := d.Analyze(ctx, newCode, filePath)
	analysis.Diff = diff.Unified("a/"+filePath, "b/"+filePath, originalCode, newCode)
	return analysis
}

func (d *Detector) analyzeStyle(code string, py *patterns.PythonSummary) []Issue {
	var issues []Issue
	style := d.patterns.Style

	if style.Indentation != "" {
		if current := patterns.DetectIndentation(code); current != "" && current != style.Indentation {
			issues = append(issues, Issue{
				Type:     TypeStyle,
				Subtype:  "indentation",
				Message:  fmt.Sprintf("Indentation uses %s, but project standard is %s", current, style.Indentation),
				Severity: SeverityLow,
			})
		}
	}

	if maxLen := style.LineLength.PreferredMax; maxLen > 0 {
		var longLines []int
		for i, line := range strings.Split(code, "\n") {
			if utf8.RuneCountInString(strings.TrimRight(line, " \t\r\f\v")) > maxLen {
				longLines = append(longLines, i+1)
			}
		}
		if len(longLines) > 0 {
			issues = append(issues, Issue{
				Type:     TypeStyle,
				Subtype:  "line_length",
				Message:  fmt.Sprintf("Lines exceed maximum length of %d characters: %s", maxLen, formatLineNumbers(longLines)),
				Severity: SeverityLow,
			})
		}
	}

	if py != nil {
		naming := style.NamingConventions
		for _, a := range py.Assignments {
			if issue := checkNaming(a.Name, naming.Variables, "Variable"); issue != nil {
				issues = append(issues, *issue)
			}
		}
		for _, f := range py.Functions {
			if issue := checkNaming(f.Name, naming.Functions, "Function"); issue != nil {
				issues = append(issues, *issue)
			}
		}
		for _, c := range py.Classes {
			if issue := checkNaming(c.Name, naming.Classes, "Class"); issue != nil {
				issues = append(issues, *issue)
			}
		}
	}

	return issues
}

func checkNaming(name, preferred, entity string) *Issue {
	if preferred == "" || !patterns.KnownConvention(preferred) {
		return nil
	}
	if patterns.MatchesConvention(name, preferred) {
		return nil
	}
	current := patterns.ClassifyName(name)
	if current == "" {
		current = "unknown"
	}
	return &Issue{
		Type:     TypeStyle,
		Subtype:  "naming_convention",
		Message:  fmt.Sprintf("%s name '%s' uses %s convention, but project standard is %s", entity, name, current, preferred),
		Severity: SeverityLow,
	}
}

func (d *Detector) analyzeArchitecture(code, ext string, py *patterns.PythonSummary) []Issue {
	var issues []Issue
	arch := d.patterns.Architecture

	switch {
	case py != nil:
		if common, ok := arch.CommonImports["direct"]; ok {
			if uncommon := uncommonImports(py.DirectImports, common, true); len(uncommon) > 0 {
				issues = append(issues, Issue{
					Type:     TypeArchitecture,
					Subtype:  "uncommon_import",
					Message:  "Uncommon imports detected: " + strings.Join(uncommon, ", "),
					Severity: SeverityMedium,
				})
			}
		}
		if common, ok := arch.CommonImports["from"]; ok {
			if uncommon := uncommonImports(py.FromImports, common, true); len(uncommon) > 0 {
				issues = append(issues, Issue{
					Type:     TypeArchitecture,
					Subtype:  "uncommon_from_import",
					Message:  "Uncommon from imports detected: " + strings.Join(uncommon, ", "),
					Severity: SeverityLow,
				})
			}
		}
	case ext == ".js" || ext == ".ts":
		if common, ok := arch.CommonImports["js_imports"]; ok {
			var imports []string
			for _, m := range jsImportRe.FindAllStringSubmatch(code, -1) {
				imports = append(imports, m[1])
			}
			if uncommon := uncommonImports(imports, common, false); len(uncommon) > 0 {
				issues = append(issues, Issue{
					Type:     TypeArchitecture,
					Subtype:  "uncommon_js_import",
					Message:  "Uncommon imports detected: " + strings.Join(uncommon, ", "),
					Severity: SeverityLow,
				})
			}
		}
	}

	if py != nil && py.TryCount == 0 {
		for _, fn := range py.Functions {
			if fn.BodyStatements > 5 {
				issues = append(issues, Issue{
					Type:     TypeArchitecture,
					Subtype:  "error_handling",
					Message:  "Function lacks error handling. Consider adding try/except blocks based on project patterns.",
					Severity: SeverityMedium,
				})
				break
			}
		}
	}

	return issues
}

// uncommonImports returns the imports whose lookup key (the root component
// when byRoot is set, otherwise the full specifier) is absent from common.
func uncommonImports(imports, common []string, byRoot bool) []string {
	known := make(map[string]struct{}, len(common))
	for _, c := range common {
		known[c] = struct{}{}
	}
	var uncommon []string
	for _, imp := range imports {
		key := imp
		if byRoot {
			key = patterns.ImportRoot(imp)
		}
		if _, ok := known[key]; !ok {
			uncommon = append(uncommon, imp)
		}
	}
	return uncommon
}

func (d *Detector) analyzeFunctionality(filePath, ext string, py *patterns.PythonSummary) []Issue {
	var issues []Issue
	functional := d.patterns.Functional

	if py != nil {
		hasLogging := false
		for _, call := range py.AttrCalls {
			if patterns.IsLogLevelMethod(call.Method) {
				hasLogging = true
				break
			}
		}
		hasPrint := false
		for _, call := range py.NameCalls {
			if call.Name == "print" {
				hasPrint = true
				break
			}
		}
		_, printIsNorm := functional.LoggingPatterns["print"]
		if hasPrint && !hasLogging && len(functional.LoggingPatterns) > 0 && !printIsNorm {
			issues = append(issues, Issue{
				Type:     TypeFunctionality,
				Subtype:  "logging",
				Message:  "Using print() for output, but project uses a logging framework. Consider using the appropriate logging methods.",
				Severity: SeverityMedium,
			})
		}
	}

	if strings.Contains(strings.ToLower(filePath), "test") && ext == ".py" && py != nil {
		hasAssertions := false
		for _, call := range py.AttrCalls {
			if patterns.IsAssertionMethod(call.Method) {
				hasAssertions = true
				break
			}
		}
		if !hasAssertions {
			issues = append(issues, Issue{
				Type:     TypeFunctionality,
				Subtype:  "testing",
				Message:  "Test file lacks assertions. Consider adding appropriate test assertions.",
				Severity: SeverityHigh,
			})
		}
	}

	return issues
}

// formatLineNumbers lists up to three line numbers explicitly; longer lists
// show the first two and a remainder count.
func formatLineNumbers(lines []int) string {
	strs := make([]string, len(lines))
	for i, n := range lines {
		strs[i] = fmt.Sprintf("%d", n)
	}
	if len(lines) <= 3 {
		return strings.Join(strs, ", ")
	}
	return fmt.Sprintf("%s, %s, ... and %d more", strs[0], strs[1], len(lines)-2)
}
