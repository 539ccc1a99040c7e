// Package detector compares candidate code against learned repository
// conventions and reports deterministic issues in three categories: style,
// architecture, and functionality. Detection is a pure function of the
// candidate file and the pattern set; missing pattern families silently
// disable their checks rather than failing the analysis.
package detector
