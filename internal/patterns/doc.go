// Package patterns infers stylistic, architectural, and functional
// conventions from an indexed repository.
//
// Three independent pattern families are derived: style (indentation, line
// length, naming conventions), architecture (common imports, directory
// structure, error-handling constructs), and functional (common function and
// parameter names, logging style, test assertions). Python sources are
// analyzed with tree-sitter; JavaScript and TypeScript are mined with text
// patterns. A file that fails to parse is skipped for syntax-dependent
// tallies and still contributes to text-level ones.
package patterns
