package detector

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/sakshikumar19/mentor/internal/knowledge"
	"github.com/sakshikumar19/mentor/internal/patterns"
)

func learnedPatterns() *patterns.Set {
	set := patterns.NewSet()
	set.Style.Indentation = "spaces:4"
	set.Style.LineLength.Average = 80
	set.Style.LineLength.PreferredMax = 100
	set.Style.NamingConventions.Variables = patterns.SnakeCase
	set.Style.NamingConventions.Functions = patterns.SnakeCase
	set.Style.NamingConventions.Classes = patterns.PascalCase
	set.Architecture.CommonImports["direct"] = []string{"os", "sys", "json"}
	set.Architecture.CommonImports["from"] = []string{"typing", "collections"}
	set.Architecture.CommonImports["js_imports"] = []string{"react", "./utils"}
	set.Functional.LoggingPatterns = map[string]int{"logger.info": 12, "logger.error": 4}
	return set
}

func TestAnalyzeIndentationMismatch(t *testing.T) {
	d := New(learnedPatterns(), nil, nil)
	code := "def f():\n\treturn 1\n"
	analysis := d.Analyze(context.Background(), code, "f.py")

	issue := findIssue(t, analysis.Issues.Style, "indentation")
	if issue.Message != "Indentation uses tabs, but project standard is spaces:4" {
		t.Fatalf("unexpected message: %s", issue.Message)
	}
	if issue.Severity != SeverityLow {
		t.Fatalf("unexpected severity: %s", issue.Severity)
	}
}

func TestAnalyzeLineLengthSingle(t *testing.T) {
	d := New(learnedPatterns(), nil, nil)
	code := "short = 1\n" + "x = '" + strings.Repeat("a", 120) + "'\n"
	analysis := d.Analyze(context.Background(), code, "f.py")

	var lineIssues []Issue
	for _, is := range analysis.Issues.Style {
		if is.Subtype == "line_length" {
			lineIssues = append(lineIssues, is)
		}
	}
	if len(lineIssues) != 1 {
		t.Fatalf("expected exactly one line_length issue, got %d", len(lineIssues))
	}
	if !strings.Contains(lineIssues[0].Message, ": 2") {
		t.Fatalf("expected line 2 in message: %s", lineIssues[0].Message)
	}
}

func TestFormatLineNumbers(t *testing.T) {
	tests := []struct {
		lines []int
		want  string
	}{
		{[]int{4}, "4"},
		{[]int{1, 2, 3}, "1, 2, 3"},
		{[]int{1, 2, 3, 4}, "1, 2, ... and 2 more"},
		{[]int{10, 20, 30, 40, 50}, "10, 20, ... and 3 more"},
	}
	for _, tt := range tests {
		if got := formatLineNumbers(tt.lines); got != tt.want {
			t.Errorf("formatLineNumbers(%v) = %q, want %q", tt.lines, got, tt.want)
		}
	}
}

func TestAnalyzeNamingConventions(t *testing.T) {
	d := New(learnedPatterns(), nil, nil)
	code := "MyVar = 1\n\ndef DoWork():\n    pass\n\nclass snake_thing:\n    pass\n"
	analysis := d.Analyze(context.Background(), code, "f.py")

	var messages []string
	for _, is := range analysis.Issues.Style {
		if is.Subtype == "naming_convention" {
			messages = append(messages, is.Message)
		}
	}
	want := []string{
		"Variable name 'MyVar' uses PascalCase convention, but project standard is snake_case",
		"Function name 'DoWork' uses PascalCase convention, but project standard is snake_case",
		"Class name 'snake_thing' uses snake_case convention, but project standard is PascalCase",
	}
	if !reflect.DeepEqual(messages, want) {
		t.Fatalf("naming messages = %v, want %v", messages, want)
	}
}

func TestAnalyzeUncommonImports(t *testing.T) {
	d := New(learnedPatterns(), nil, nil)
	code := "import os\nimport requests.adapters\nfrom typing import List\nfrom flask import Flask\n"
	analysis := d.Analyze(context.Background(), code, "f.py")

	direct := findIssue(t, analysis.Issues.Architecture, "uncommon_import")
	if direct.Message != "Uncommon imports detected: requests.adapters" {
		t.Fatalf("unexpected message: %s", direct.Message)
	}
	if direct.Severity != SeverityMedium {
		t.Fatalf("direct import severity = %s, want medium", direct.Severity)
	}

	from := findIssue(t, analysis.Issues.Architecture, "uncommon_from_import")
	if from.Message != "Uncommon from imports detected: flask" {
		t.Fatalf("unexpected message: %s", from.Message)
	}
	if from.Severity != SeverityLow {
		t.Fatalf("from import severity = %s, want low", from.Severity)
	}
}

func TestAnalyzeJSImports(t *testing.T) {
	d := New(learnedPatterns(), nil, nil)
	code := "import { useState } from 'react'\nimport axios from 'axios'\n"
	analysis := d.Analyze(context.Background(), code, "app.js")

	issue := findIssue(t, analysis.Issues.Architecture, "uncommon_js_import")
	if issue.Message != "Uncommon imports detected: axios" {
		t.Fatalf("unexpected message: %s", issue.Message)
	}
}

func TestAnalyzeMissingErrorHandling(t *testing.T) {
	d := New(learnedPatterns(), nil, nil)
	code := `def big_one(a):
    x = 1
    y = 2
    z = 3
    w = 4
    v = 5
    return x + y + z + w + v

def another_big(b):
    x = 1
    y = 2
    z = 3
    w = 4
    v = 5
    return b
`
	analysis := d.Analyze(context.Background(), code, "f.py")

	var count int
	for _, is := range analysis.Issues.Architecture {
		if is.Subtype == "error_handling" {
			count++
			if is.Severity != SeverityMedium {
				t.Fatalf("severity = %s, want medium", is.Severity)
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected one error_handling issue per file, got %d", count)
	}
}

func TestAnalyzeErrorHandlingSuppressedByTry(t *testing.T) {
	d := New(learnedPatterns(), nil, nil)
	code := `def big_one(a):
    x = 1
    y = 2
    z = 3
    w = 4
    v = 5
    return x

try:
    big_one(1)
except ValueError:
    pass
`
	analysis := d.Analyze(context.Background(), code, "f.py")
	for _, is := range analysis.Issues.Architecture {
		if is.Subtype == "error_handling" {
			t.Fatal("error_handling issue despite try/except in file")
		}
	}
}

func TestAnalyzePrintVsLogging(t *testing.T) {
	d := New(learnedPatterns(), nil, nil)
	code := "def run():\n    print('done')\n"
	analysis := d.Analyze(context.Background(), code, "f.py")

	issue := findIssue(t, analysis.Issues.Functionality, "logging")
	if issue.Severity != SeverityMedium {
		t.Fatalf("severity = %s, want medium", issue.Severity)
	}

	// A file that also logs is not flagged.
	code = "def run():\n    print('done')\n    logger.info('done')\n"
	analysis = d.Analyze(context.Background(), code, "f.py")
	for _, is := range analysis.Issues.Functionality {
		if is.Subtype == "logging" {
			t.Fatal("logging issue despite structured logging call")
		}
	}
}

func TestAnalyzePrintAcceptedWhenLearned(t *testing.T) {
	set := learnedPatterns()
	set.Functional.LoggingPatterns = map[string]int{"print": 8}
	d := New(set, nil, nil)

	analysis := d.Analyze(context.Background(), "def run():\n    print('x')\n", "f.py")
	for _, is := range analysis.Issues.Functionality {
		if is.Subtype == "logging" {
			t.Fatal("print flagged although it is the learned norm")
		}
	}
}

func TestAnalyzeTestFileAssertions(t *testing.T) {
	d := New(learnedPatterns(), nil, nil)
	code := "def test_one():\n    helper()\n\ndef test_two():\n    helper()\n"
	analysis := d.Analyze(context.Background(), code, "tests/test_app.py")

	var count int
	for _, is := range analysis.Issues.Functionality {
		if is.Subtype == "testing" {
			count++
			if is.Severity != SeverityHigh {
				t.Fatalf("severity = %s, want high", is.Severity)
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one testing issue, got %d", count)
	}

	// Assertions present: no issue.
	code = "def test_one(self):\n    self.assertEqual(1, 1)\n"
	analysis = d.Analyze(context.Background(), code, "tests/test_app.py")
	for _, is := range analysis.Issues.Functionality {
		if is.Subtype == "testing" {
			t.Fatal("testing issue despite assertions")
		}
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	d := New(learnedPatterns(), nil, nil)
	code := "MyVar = 1\nprint('x')\n" + strings.Repeat("a", 120) + " = 2\n"

	first := d.Analyze(context.Background(), code, "f.py")
	second := d.Analyze(context.Background(), code, "f.py")
	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated analysis produced different results")
	}
}

func TestAnalyzeUnparsableSkipsSyntaxChecks(t *testing.T) {
	d := New(learnedPatterns(), nil, nil)
	code := "def broken(:\n    MyVar = 1\n"
	analysis := d.Analyze(context.Background(), code, "f.py")

	for _, is := range analysis.Issues.Style {
		if is.Subtype == "naming_convention" {
			t.Fatal("naming check ran on unparsable code")
		}
	}
}

func TestAnalyzeNilPatterns(t *testing.T) {
	d := New(nil, nil, nil)
	analysis := d.Analyze(context.Background(), "x = 1\n", "f.py")
	if len(analysis.Issues.Style)+len(analysis.Issues.Architecture)+len(analysis.Issues.Functionality) != 0 {
		t.Fatal("expected no issues without patterns")
	}
}

type stubRetriever struct {
	chunks []knowledge.SimilarChunk
}

func (s stubRetriever) RetrieveSimilar(context.Context, string, int) []knowledge.SimilarChunk {
	return s.chunks
}

func TestAnalyzeCarriesSimilarContext(t *testing.T) {
	chunks := []knowledge.SimilarChunk{{File: "a.py", Content: "x = 1", Similarity: 0.9}}
	d := New(learnedPatterns(), stubRetriever{chunks: chunks}, nil)

	analysis := d.Analyze(context.Background(), "y = 2\n", "f.py")
	if !reflect.DeepEqual(analysis.SimilarCode, chunks) {
		t.Fatalf("similar context = %v, want %v", analysis.SimilarCode, chunks)
	}
}

func TestAnalyzeDiff(t *testing.T) {
	d := New(learnedPatterns(), nil, nil)
	oldCode := "x = 1\n"
	newCode := "x = 1\nMyVar = 2\n"

	analysis := d.AnalyzeDiff(context.Background(), oldCode, newCode, "f.py")
	if !strings.Contains(analysis.Diff, "+MyVar = 2") {
		t.Fatalf("diff missing added line:\n%s", analysis.Diff)
	}
	if !strings.Contains(analysis.Diff, "--- a/f.py") || !strings.Contains(analysis.Diff, "+++ b/f.py") {
		t.Fatalf("diff missing headers:\n%s", analysis.Diff)
	}
	findIssue(t, analysis.Issues.Style, "naming_convention")
}

func findIssue(t *testing.T, issues []Issue, subtype string) Issue {
	t.Helper()
	for _, is := range issues {
		if is.Subtype == subtype {
			return is
		}
	}
	t.Fatalf("no %s issue in %v", subtype, issues)
	return Issue{}
}
