// Package diff renders unified diffs between two versions of a file using
// the sergi/go-diff engine with a line-level reduction, so hunk boundaries
// fall on line boundaries rather than mid-token.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const contextLines = 3

type lineOp int

const (
	opContext lineOp = iota
	opDelete
	opInsert
)

type line struct {
	op      lineOp
	oldLine int
	newLine int
	text    string
}

// Unified returns a unified diff of oldContent against newContent with
// standard ---/+++ headers and three lines of context per hunk. Identical
// inputs yield an empty string.
func Unified(fromPath, toPath, oldContent, newContent string) string {
	if oldContent == newContent {
		return ""
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	a, b, lineArray := dmp.DiffLinesToChars(oldContent, newContent)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	ops := toLineOps(diffs)
	hunks := groupHunks(ops)
	if len(hunks) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n", fromPath)
	fmt.Fprintf(&sb, "+++ %s\n", toPath)
	for _, h := range hunks {
		writeHunk(&sb, h)
	}
	return sb.String()
}

func toLineOps(diffs []diffmatchpatch.Diff) []line {
	var ops []line
	oldLine, newLine := 0, 0

	for _, d := range diffs {
		texts := strings.Split(d.Text, "\n")
		if len(texts) > 0 && texts[len(texts)-1] == "" {
			texts = texts[:len(texts)-1]
		}
		for _, t := range texts {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				oldLine++
				newLine++
				ops = append(ops, line{op: opContext, oldLine: oldLine, newLine: newLine, text: t})
			case diffmatchpatch.DiffDelete:
				oldLine++
				ops = append(ops, line{op: opDelete, oldLine: oldLine, text: t})
			case diffmatchpatch.DiffInsert:
				newLine++
				ops = append(ops, line{op: opInsert, newLine: newLine, text: t})
			}
		}
	}
	return ops
}

func groupHunks(ops []line) [][]line {
	var hunks [][]line
	var current []line
	lastChange := -1

	for i, op := range ops {
		if op.op != opContext {
			if current == nil {
				start := i - contextLines
				if start < 0 {
					start = 0
				}
				current = append(current, ops[start:i]...)
			}
			lastChange = i
		}
		if current == nil {
			continue
		}
		current = append(current, op)
		if op.op == opContext && i-lastChange >= contextLines {
			// Peek ahead: close the hunk only if no change follows within
			// a combined context window, otherwise keep the hunks merged.
			next := nextChange(ops, i+1)
			if next == -1 || next-i > 2*contextLines {
				hunks = append(hunks, current)
				current = nil
			}
		}
	}
	if current != nil {
		hunks = append(hunks, current)
	}
	return hunks
}

func nextChange(ops []line, from int) int {
	for i := from; i < len(ops); i++ {
		if ops[i].op != opContext {
			return i
		}
	}
	return -1
}

func writeHunk(sb *strings.Builder, h []line) {
	oldStart, oldCount, newStart, newCount := 0, 0, 0, 0
	for _, l := range h {
		switch l.op {
		case opContext:
			if oldStart == 0 {
				oldStart = l.oldLine
			}
			if newStart == 0 {
				newStart = l.newLine
			}
			oldCount++
			newCount++
		case opDelete:
			if oldStart == 0 {
				oldStart = l.oldLine
			}
			oldCount++
		case opInsert:
			if newStart == 0 {
				newStart = l.newLine
			}
			newCount++
		}
	}
	if oldCount == 0 {
		oldStart = 0
	}
	if newCount == 0 {
		newStart = 0
	}

	fmt.Fprintf(sb, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)
	for _, l := range h {
		switch l.op {
		case opContext:
			sb.WriteString(" " + l.text + "\n")
		case opDelete:
			sb.WriteString("-" + l.text + "\n")
		case opInsert:
			sb.WriteString("+" + l.text + "\n")
		}
	}
}
