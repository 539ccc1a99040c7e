package patterns

import "regexp"

// conventionOrder fixes the precedence in which a name is tested against
// the convention patterns. The patterns overlap (a snake_case name without
// underscores also matches camelCase), so classification depends on this
// order being stable.
var conventionOrder = []string{
	SnakeCase,
	CamelCase,
	PascalCase,
	UpperSnakeCase,
	KebabCase,
}

var conventionRegexps = map[string]*regexp.Regexp{
	SnakeCase:      regexp.MustCompile(`^[a-z][a-z0-9_]*$`),
	CamelCase:      regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`),
	PascalCase:     regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`),
	UpperSnakeCase: regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`),
	KebabCase:      regexp.MustCompile(`^[a-z][a-z0-9-]*$`),
}

var constantShaped = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// ClassifyName returns the first convention the name matches in precedence
// order, or "" if it matches none.
func ClassifyName(name string) string {
	for _, conv := range conventionOrder {
		if conventionRegexps[conv].MatchString(name) {
			return conv
		}
	}
	return ""
}

// IsConstantShaped reports whether the name looks like a constant
// (UPPER_SNAKE_CASE shape). Constant-shaped assignment targets are counted
// as constants before variable classification, even when the assignment is
// local.
func IsConstantShaped(name string) bool {
	return constantShaped.MatchString(name)
}

// MatchesConvention reports whether the name satisfies the given convention.
// Unknown conventions match nothing.
func MatchesConvention(name, convention string) bool {
	re, ok := conventionRegexps[convention]
	if !ok {
		return false
	}
	return re.MatchString(name)
}

// KnownConvention reports whether the convention name is one of the five
// recognized conventions.
func KnownConvention(convention string) bool {
	_, ok := conventionRegexps[convention]
	return ok
}
