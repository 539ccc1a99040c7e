package patterns

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// logLevelMethods are the attribute-call names treated as structured
// logging calls.
var logLevelMethods = map[string]struct{}{
	"debug":    {},
	"info":     {},
	"warning":  {},
	"error":    {},
	"critical": {},
}

// assertionMethods are the attribute-call names treated as test assertions.
var assertionMethods = map[string]struct{}{
	"assertEqual":  {},
	"assertTrue":   {},
	"assertFalse":  {},
	"assertRaises": {},
}

// IsLogLevelMethod reports whether name is a recognized log-level method.
func IsLogLevelMethod(name string) bool {
	_, ok := logLevelMethods[name]
	return ok
}

// IsAssertionMethod reports whether name is a recognized assertion call.
func IsAssertionMethod(name string) bool {
	_, ok := assertionMethods[name]
	return ok
}

// PythonFunc describes one function definition found in a source file.
type PythonFunc struct {
	Name string
	// Params holds positional parameter names, including self.
	Params []string
	// BodyStatements counts the top-level statements in the function body.
	BodyStatements int
	// Line is the 1-based line of the function name.
	Line int
}

// AttrCall is a method call through an attribute, e.g. logger.info(...).
// Object is empty when the receiver is not a plain identifier.
type AttrCall struct {
	Object string
	Method string
	// InFunction reports whether the call appears inside a function body.
	InFunction bool
	// InTestFunc reports whether the enclosing function name has a test_
	// prefix.
	InTestFunc bool
}

// PythonSummary is the syntactic digest of one Python source file used by
// both pattern extraction and issue detection.
type PythonSummary struct {
	// Assignments lists assignment target names in source order. Only plain
	// identifier targets are recorded.
	Assignments []AssignedName
	Functions   []PythonFunc
	Classes     []NamedAt
	// DirectImports and FromImports hold full dotted module paths.
	DirectImports []string
	FromImports   []string
	TryCount      int
	// ExceptTypes lists handled exception type names, one entry per handler
	// clause naming a plain identifier type.
	ExceptTypes []string
	AttrCalls   []AttrCall
	// NameCalls lists plain identifier call targets, e.g. print.
	NameCalls []NameCall
}

// NameCall is a call through a plain identifier, e.g. print(...).
type NameCall struct {
	Name       string
	InFunction bool
	InTestFunc bool
}

// AssignedName is an assignment target with its source line.
type AssignedName struct {
	Name string
	Line int
}

// NamedAt is a named definition with its source line.
type NamedAt struct {
	Name string
	Line int
}

// AnalyzePython parses Python source with tree-sitter and returns a
// summary. ok is false when the source could not be parsed or contains
// syntax errors; callers skip the file's contribution in that case.
func AnalyzePython(ctx context.Context, content string) (*PythonSummary, bool) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	source := []byte(content)
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, false
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, false
	}

	s := &PythonSummary{}
	walkPython(root, source, s, walkState{})
	return s, true
}

type walkState struct {
	inFunction bool
	inTestFunc bool
}

func walkPython(node *sitter.Node, source []byte, s *PythonSummary, st walkState) {
	switch node.Type() {
	case "assignment":
		if left := node.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
			s.Assignments = append(s.Assignments, AssignedName{
				Name: left.Content(source),
				Line: int(left.StartPoint().Row) + 1,
			})
		}

	case "function_definition":
		name := node.ChildByFieldName("name")
		if name != nil {
			fn := PythonFunc{
				Name: name.Content(source),
				Line: int(name.StartPoint().Row) + 1,
			}
			if params := node.ChildByFieldName("parameters"); params != nil {
				fn.Params = parameterNames(params, source)
			}
			if body := node.ChildByFieldName("body"); body != nil {
				fn.BodyStatements = int(body.NamedChildCount())
			}
			s.Functions = append(s.Functions, fn)

			st.inFunction = true
			if strings.HasPrefix(fn.Name, "test_") {
				st.inTestFunc = true
			}
		}

	case "class_definition":
		if name := node.ChildByFieldName("name"); name != nil {
			s.Classes = append(s.Classes, NamedAt{
				Name: name.Content(source),
				Line: int(name.StartPoint().Row) + 1,
			})
		}

	case "import_statement":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			switch child.Type() {
			case "dotted_name":
				s.DirectImports = append(s.DirectImports, child.Content(source))
			case "aliased_import":
				if n := child.ChildByFieldName("name"); n != nil {
					s.DirectImports = append(s.DirectImports, n.Content(source))
				}
			}
		}

	case "import_from_statement":
		if mod := node.ChildByFieldName("module_name"); mod != nil {
			name := strings.TrimLeft(mod.Content(source), ".")
			if name != "" {
				s.FromImports = append(s.FromImports, name)
			}
		}

	case "try_statement":
		s.TryCount++

	case "except_clause":
		s.ExceptTypes = append(s.ExceptTypes, exceptTypeNames(node, source)...)

	case "call":
		fn := node.ChildByFieldName("function")
		if fn != nil {
			switch fn.Type() {
			case "attribute":
				call := AttrCall{InFunction: st.inFunction, InTestFunc: st.inTestFunc}
				if attr := fn.ChildByFieldName("attribute"); attr != nil {
					call.Method = attr.Content(source)
				}
				if obj := fn.ChildByFieldName("object"); obj != nil && obj.Type() == "identifier" {
					call.Object = obj.Content(source)
				}
				if call.Method != "" {
					s.AttrCalls = append(s.AttrCalls, call)
				}
			case "identifier":
				s.NameCalls = append(s.NameCalls, NameCall{
					Name:       fn.Content(source),
					InFunction: st.inFunction,
					InTestFunc: st.inTestFunc,
				})
			}
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		walkPython(node.NamedChild(i), source, s, st)
	}
}

// parameterNames extracts positional parameter names, skipping *args and
// **kwargs splat forms.
func parameterNames(params *sitter.Node, source []byte) []string {
	var names []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "identifier":
			names = append(names, p.Content(source))
		case "typed_parameter":
			if c := p.NamedChild(0); c != nil && c.Type() == "identifier" {
				names = append(names, c.Content(source))
			}
		case "default_parameter", "typed_default_parameter":
			if n := p.ChildByFieldName("name"); n != nil && n.Type() == "identifier" {
				names = append(names, n.Content(source))
			}
		}
	}
	return names
}

// exceptTypeNames returns the plain identifier exception types handled by
// an except clause, unwrapping `except E as e` and `except (A, B)` forms.
func exceptTypeNames(clause *sitter.Node, source []byte) []string {
	var names []string
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		child := clause.NamedChild(i)
		if child.Type() == "block" {
			continue
		}
		expr := child
		if expr.Type() == "as_pattern" {
			if inner := expr.NamedChild(0); inner != nil {
				expr = inner
			}
		}
		switch expr.Type() {
		case "identifier":
			names = append(names, expr.Content(source))
		case "tuple":
			for j := 0; j < int(expr.NamedChildCount()); j++ {
				if el := expr.NamedChild(j); el.Type() == "identifier" {
					names = append(names, el.Content(source))
				}
			}
		}
	}
	return names
}
