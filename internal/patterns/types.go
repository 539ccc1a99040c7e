package patterns

// Convention names for identifier styles. An empty string means no
// preference was observed.
const (
	SnakeCase      = "snake_case"
	CamelCase      = "camelCase"
	PascalCase     = "PascalCase"
	UpperSnakeCase = "UPPER_SNAKE_CASE"
	KebabCase      = "kebab-case"
)

// LineLength holds learned line-length statistics in characters.
type LineLength struct {
	Average      int `json:"average"`
	PreferredMax int `json:"preferred_max"`
}

// NamingConventions holds the preferred convention per identifier category.
// Empty fields mean no names were observed for that category.
type NamingConventions struct {
	Variables string `json:"variables"`
	Functions string `json:"functions"`
	Classes   string `json:"classes"`
	Constants string `json:"constants"`
}

// Style holds learned stylistic conventions.
type Style struct {
	// Indentation is "tabs" or "spaces:<N>".
	Indentation       string            `json:"indentation"`
	LineLength        LineLength        `json:"line_length"`
	NamingConventions NamingConventions `json:"naming_conventions"`
}

// Architecture holds learned architectural conventions.
type Architecture struct {
	// CommonImports maps an import category (direct, from, js_imports) to
	// the top import roots by frequency, most frequent first.
	CommonImports map[string][]string `json:"common_imports"`
	// DirectoryStructure maps directories to their file basenames, only for
	// directories containing more than one file.
	DirectoryStructure map[string][]string `json:"directory_structure"`
	// ErrorHandling counts exception-handling constructs by pattern name.
	ErrorHandling map[string]int `json:"error_handling"`
}

// Functional holds learned functional conventions.
type Functional struct {
	CommonFunctions map[string]int `json:"common_functions"`
	CommonArgs      map[string]int `json:"common_args"`
	LoggingPatterns map[string]int `json:"logging_patterns"`
	TestPatterns    map[string]int `json:"test_patterns"`
}

// Set combines the three independent pattern families learned from one
// repository snapshot.
type Set struct {
	Style        Style        `json:"style"`
	Architecture Architecture `json:"architecture"`
	Functional   Functional   `json:"functional"`
}

// NewSet returns a Set with all maps allocated.
func NewSet() *Set {
	return &Set{
		Architecture: Architecture{
			CommonImports:      map[string][]string{},
			DirectoryStructure: map[string][]string{},
			ErrorHandling:      map[string]int{},
		},
		Functional: Functional{
			CommonFunctions: map[string]int{},
			CommonArgs:      map[string]int{},
			LoggingPatterns: map[string]int{},
			TestPatterns:    map[string]int{},
		},
	}
}
