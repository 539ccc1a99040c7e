package patterns

import "testing"

func TestClassifyName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"my_variable", SnakeCase},
		{"myVariable", CamelCase},
		{"MyClass", PascalCase},
		{"MAX_RETRIES", UpperSnakeCase},
		{"kebab-name", KebabCase},
		{"_private", ""},
		{"123abc", ""},
	}

	for _, tt := range tests {
		if got := ClassifyName(tt.name); got != tt.want {
			t.Errorf("ClassifyName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestClassifyNamePrecedence(t *testing.T) {
	// "value" matches snake_case, camelCase, and kebab-case patterns; the
	// fixed precedence picks snake_case.
	if got := ClassifyName("value"); got != SnakeCase {
		t.Errorf("ClassifyName(value) = %q, want %q", got, SnakeCase)
	}
	// "X" matches PascalCase before UPPER_SNAKE_CASE.
	if got := ClassifyName("X"); got != PascalCase {
		t.Errorf("ClassifyName(X) = %q, want %q", got, PascalCase)
	}
}

func TestIsConstantShaped(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"MAX_RETRIES", true},
		{"TIMEOUT", true},
		{"X1", true},
		{"MyClass", false},
		{"max_retries", false},
	}
	for _, tt := range tests {
		if got := IsConstantShaped(tt.name); got != tt.want {
			t.Errorf("IsConstantShaped(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMatchesConvention(t *testing.T) {
	if !MatchesConvention("my_func", SnakeCase) {
		t.Error("my_func should match snake_case")
	}
	if MatchesConvention("MyFunc", SnakeCase) {
		t.Error("MyFunc should not match snake_case")
	}
	if MatchesConvention("anything", "no_such_convention") {
		t.Error("unknown convention should match nothing")
	}
}
