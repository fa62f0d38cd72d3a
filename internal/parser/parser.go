package parser

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrSyntax is matched by every *ParseError.
var ErrSyntax = errors.New("syntax error")

// ParseError reports source text that is not valid Python.
type ParseError struct {
	Filename string
	Line     int
	Column   int
	// Reason is set when the grammar accepted the text but Python 3 would not.
	Reason string
	Near   string
}

func (e *ParseError) Error() string {
	loc := fmt.Sprintf("line %d, column %d", e.Line, e.Column)
	if e.Filename != "" {
		loc = fmt.Sprintf("%s:%d:%d", e.Filename, e.Line, e.Column)
	}
	msg := "invalid syntax at " + loc
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Near != "" {
		msg += fmt.Sprintf(" near %q", e.Near)
	}
	return msg
}

func (e *ParseError) Is(target error) bool {
	return target == ErrSyntax
}

// Parser wraps a tree-sitter Python grammar. It holds no parse state, each
// call creates its own tree-sitter parser so one Parser can be shared by
// concurrent goroutines.
type Parser struct {
	language *sitter.Language
}

// NewParser creates a new Python parser
func NewParser() *Parser {
	return &Parser{language: python.GetLanguage()}
}

// ParseFile parses a Python source file into a Module.
func (p *Parser) ParseFile(ctx context.Context, filename string, source []byte) (*Module, error) {
	tsParser := sitter.NewParser()
	defer tsParser.Close()
	tsParser.SetLanguage(p.language)

	tree, err := tsParser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", displayName(filename), err)
	}
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s: no syntax tree produced", displayName(filename))
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("no root node in parse tree for %s", displayName(filename))
	}

	if root.HasError() {
		return nil, newParseError(filename, root, source)
	}
	if perr := checkStructure(filename, root, source); perr != nil {
		return nil, perr
	}

	builder := newASTBuilder(source)
	return builder.build(root), nil
}

// Parse parses Python source code
func (p *Parser) Parse(ctx context.Context, source []byte) (*Module, error) {
	return p.ParseFile(ctx, "", source)
}

// ParseString parses Python source code from a string
func ParseString(code string) (*Module, error) {
	return NewParser().Parse(context.Background(), []byte(code))
}

func displayName(filename string) string {
	if filename == "" {
		return "<input>"
	}
	return filename
}

func newParseError(filename string, root *sitter.Node, source []byte) *ParseError {
	perr := &ParseError{Filename: filename, Line: 1, Column: 1}
	bad := firstErrorNode(root)
	if bad == nil {
		return perr
	}
	start := bad.StartPoint()
	perr.Line = int(start.Row) + 1
	perr.Column = int(start.Column) + 1
	if bad.IsMissing() {
		perr.Near = "missing " + bad.Type()
	} else {
		perr.Near = firstLine(bad.Content(source))
	}
	return perr
}

// firstErrorNode returns the first ERROR or MISSING node in document order.
func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if found := firstErrorNode(n.Child(i)); found != nil {
			return found
		}
	}
	return n
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' || r == '\r' {
			s = s[:i]
			break
		}
	}
	if runes := []rune(s); len(runes) > 40 {
		s = string(runes[:40])
	}
	return s
}
