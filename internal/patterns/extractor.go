package patterns

import (
	"context"
	"math"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultAverageLineLength = 80
	defaultMaxLineLength     = 100
	topImports               = 10
	topFunctions             = 20
	// extractWorkers bounds parallel per-file analysis.
	extractWorkers = 8
)

var jsImportRe = regexp.MustCompile(`import\s+(?:\{[^}]+\}|[^{;]+?)\s+from\s+['"]([^'"]+)['"]`)
var jsTryRe = regexp.MustCompile(`try\s*\{`)

// Extractor derives the three pattern families from an indexed file set.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// fileStats is the per-file contribution to the repository tallies.
// Files are analyzed in parallel; merging happens sequentially in sorted
// path order so the result is deterministic regardless of completion order.
type fileStats struct {
	path        string
	ext         string
	indent      string
	lineLengths []int
	py          *PythonSummary
	jsImports   []string
	jsTryCount  int
}

// Extract derives all three pattern families from the file mapping.
func (e *Extractor) Extract(ctx context.Context, files map[string]string) (*Set, error) {
	stats, err := e.analyzeFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	set := &Set{
		Style:        e.styleFromStats(stats),
		Architecture: e.architectureFromStats(stats),
		Functional:   e.functionalFromStats(stats),
	}
	return set, nil
}

func (e *Extractor) analyzeFiles(ctx context.Context, files map[string]string) ([]*fileStats, error) {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	stats := make([]*fileStats, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(extractWorkers)

	for i, p := range paths {
		g.Go(func() error {
			stats[i] = e.analyzeFile(gctx, p, files[p])
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (e *Extractor) analyzeFile(ctx context.Context, filePath, content string) *fileStats {
	st := &fileStats{
		path: filePath,
		ext:  strings.ToLower(path.Ext(filePath)),
	}

	st.indent = DetectIndentation(content)
	st.lineLengths = measureLines(content)

	switch st.ext {
	case ".py":
		summary, ok := AnalyzePython(ctx, content)
		if !ok {
			e.logger.Debug("failed to parse python file", zap.String("file", filePath))
			break
		}
		st.py = summary
	case ".js", ".ts":
		for _, m := range jsImportRe.FindAllStringSubmatch(content, -1) {
			st.jsImports = append(st.jsImports, m[1])
		}
		st.jsTryCount = len(jsTryRe.FindAllString(content, -1))
	}

	return st
}

// DetectIndentation classifies a file's indentation by its first run of
// leading whitespace on any line: "tabs" if the run contains a tab,
// otherwise "spaces:<count>". Returns "" when no line is indented.
func DetectIndentation(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if line == "" {
			continue
		}
		if line[0] != ' ' && line[0] != '\t' {
			continue
		}
		run := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if run == line {
			// Whitespace-only line carries no indentation signal.
			continue
		}
		if strings.Contains(run, "\t") {
			return "tabs"
		}
		return "spaces:" + strconv.Itoa(len(run))
	}
	return ""
}

// measureLines collects the length of every non-blank line that is not a
// comment line (# or // prefix).
func measureLines(content string) []int {
	var lengths []int
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
			continue
		}
		lengths = append(lengths, len(line))
	}
	return lengths
}

func (e *Extractor) styleFromStats(stats []*fileStats) Style {
	indents := newCounter()
	var lineLengths []int
	variables := newCounter()
	functions := newCounter()
	classes := newCounter()
	constants := newCounter()

	for _, st := range stats {
		if st.indent != "" {
			indents.Add(st.indent)
		}
		lineLengths = append(lineLengths, st.lineLengths...)

		if st.py == nil {
			continue
		}
		for _, a := range st.py.Assignments {
			if IsConstantShaped(a.Name) {
				if conv := ClassifyName(a.Name); conv != "" {
					constants.Add(conv)
				}
				continue
			}
			if conv := ClassifyName(a.Name); conv != "" {
				variables.Add(conv)
			}
		}
		for _, fn := range st.py.Functions {
			if conv := ClassifyName(fn.Name); conv != "" {
				functions.Add(conv)
			}
		}
		for _, cls := range st.py.Classes {
			if conv := ClassifyName(cls.Name); conv != "" {
				classes.Add(conv)
			}
		}
	}

	style := Style{
		Indentation: indents.Mode(),
		LineLength: LineLength{
			Average:      defaultAverageLineLength,
			PreferredMax: defaultMaxLineLength,
		},
		NamingConventions: NamingConventions{
			Variables: variables.Mode(),
			Functions: functions.Mode(),
			Classes:   classes.Mode(),
			Constants: constants.Mode(),
		},
	}
	if style.Indentation == "" {
		style.Indentation = "spaces:4"
	}
	if len(lineLengths) > 0 {
		style.LineLength.Average = int(math.Round(mean(lineLengths)))
		style.LineLength.PreferredMax = int(math.Round(percentile(lineLengths, 95)))
	}
	return style
}

func (e *Extractor) architectureFromStats(stats []*fileStats) Architecture {
	direct := newCounter()
	from := newCounter()
	jsImports := newCounter()
	errorHandling := newCounter()
	dirFiles := make(map[string][]string)

	for _, st := range stats {
		dir := path.Dir(st.path)
		if dir == "." {
			dir = ""
		}
		dirFiles[dir] = append(dirFiles[dir], path.Base(st.path))

		for _, imp := range st.jsImports {
			jsImports.Add(imp)
		}
		for i := 0; i < st.jsTryCount; i++ {
			errorHandling.Add("try_catch")
		}

		if st.py == nil {
			continue
		}
		for _, imp := range st.py.DirectImports {
			direct.Add(importRoot(imp))
		}
		for _, imp := range st.py.FromImports {
			from.Add(importRoot(imp))
		}
		for i := 0; i < st.py.TryCount; i++ {
			errorHandling.Add("try_except")
		}
		for _, typ := range st.py.ExceptTypes {
			errorHandling.Add("except_" + typ)
		}
	}

	common := make(map[string][]string)
	if top := direct.Top(topImports); len(top) > 0 {
		common["direct"] = top
	}
	if top := from.Top(topImports); len(top) > 0 {
		common["from"] = top
	}
	if top := jsImports.Top(topImports); len(top) > 0 {
		common["js_imports"] = top
	}

	structure := make(map[string][]string)
	for dir, names := range dirFiles {
		if len(names) > 1 {
			structure[dir] = names
		}
	}

	return Architecture{
		CommonImports:      common,
		DirectoryStructure: structure,
		ErrorHandling:      errorHandling.Counts(),
	}
}

func (e *Extractor) functionalFromStats(stats []*fileStats) Functional {
	functions := newCounter()
	args := newCounter()
	logging := newCounter()
	tests := newCounter()

	for _, st := range stats {
		if st.py == nil {
			continue
		}
		for _, fn := range st.py.Functions {
			functions.Add(fn.Name)
			for _, arg := range fn.Params {
				args.Add(arg)
			}
		}

		testFile := strings.Contains(strings.ToLower(st.path), "test")
		for _, call := range st.py.AttrCalls {
			if call.InFunction && call.Object != "" && IsLogLevelMethod(call.Method) {
				logging.Add(call.Object + "." + call.Method)
			}
			if (testFile || call.InTestFunc) && call.InFunction && IsAssertionMethod(call.Method) {
				tests.Add(call.Method)
			}
		}
		for _, call := range st.py.NameCalls {
			if call.InFunction && call.Name == "print" {
				logging.Add("print")
			}
		}
	}

	return Functional{
		CommonFunctions: functions.TopCounts(topFunctions),
		CommonArgs:      args.TopCounts(topFunctions),
		LoggingPatterns: logging.Counts(),
		TestPatterns:    tests.Counts(),
	}
}

// ImportRoot returns the first dotted component of a module path.
func importRoot(module string) string {
	if i := strings.IndexByte(module, '.'); i >= 0 {
		return module[:i]
	}
	return module
}

// ImportRoot is the exported form used by issue detection.
func ImportRoot(module string) string { return importRoot(module) }

func mean(values []int) float64 {
	var sum int
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// percentile computes the p-th percentile with linear interpolation over
// the sorted sample.
func percentile(values []int, p float64) float64 {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	if len(sorted) == 1 {
		return float64(sorted[0])
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := lo + 1
	if hi >= len(sorted) {
		return float64(sorted[len(sorted)-1])
	}
	frac := rank - float64(lo)
	return float64(sorted[lo]) + frac*float64(sorted[hi]-sorted[lo])
}
