package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// legacyStatements are Python 2 forms the grammar still accepts.
var legacyStatements = map[string]string{
	"print_statement": "print statement is not valid in Python 3",
	"exec_statement":  "exec statement is not valid in Python 3",
}

// compoundHeaders must own an indented block.
var compoundHeaders = map[string]bool{
	"function_definition": true,
	"class_definition":    true,
	"for_statement":       true,
	"while_statement":     true,
	"if_statement":        true,
	"elif_clause":         true,
	"else_clause":         true,
	"with_statement":      true,
	"try_statement":       true,
	"except_clause":       true,
	"finally_clause":      true,
	"case_clause":         true,
}

// structureChecker rejects trees that tree-sitter recovers from silently but
// the Python 3 compiler refuses: legacy statements and broken indentation.
type structureChecker struct {
	filename string
	source   []byte
}

func checkStructure(filename string, root *sitter.Node, source []byte) *ParseError {
	c := &structureChecker{filename: filename, source: source}
	return c.check(root)
}

func (c *structureChecker) check(n *sitter.Node) *ParseError {
	if n == nil {
		return nil
	}
	if reason, ok := legacyStatements[n.Type()]; ok {
		return c.errorAt(n, reason)
	}

	var perr *ParseError
	switch n.Type() {
	case "module":
		perr = c.checkModule(n)
	case "block":
		perr = c.checkBlock(n)
	}
	if perr != nil {
		return perr
	}
	if compoundHeaders[n.Type()] && !hasBlock(n) {
		return c.errorAt(n, "expected an indented block")
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		if perr := c.check(n.NamedChild(i)); perr != nil {
			return perr
		}
	}
	return nil
}

// checkModule requires every top-level statement that begins a line to begin
// it in column 0.
func (c *structureChecker) checkModule(module *sitter.Node) *ParseError {
	for _, stmt := range statementNodes(module) {
		if c.startsLine(stmt) && stmt.StartPoint().Column != 0 {
			return c.errorAt(stmt, "unexpected indent")
		}
	}
	return nil
}

// checkBlock requires a non-empty block indented past its header, with all
// statements that begin a line sharing one column.
func (c *structureChecker) checkBlock(block *sitter.Node) *ParseError {
	header := block.Parent()
	if header == nil || header.Type() == "module" {
		return c.errorAt(block, "unexpected indent")
	}
	stmts := statementNodes(block)
	if len(stmts) == 0 {
		return c.errorAt(header, "expected an indented block")
	}

	headerIndent := c.indentOf(header)
	expected := -1
	for _, stmt := range stmts {
		if !c.startsLine(stmt) {
			continue
		}
		col := int(stmt.StartPoint().Column)
		switch {
		case expected < 0 && col <= headerIndent:
			return c.errorAt(stmt, "expected an indented block")
		case expected < 0:
			expected = col
		case col > expected:
			return c.errorAt(stmt, "unexpected indent")
		case col < expected:
			return c.errorAt(stmt, "unindent does not match any outer indentation level")
		}
	}
	return nil
}

func (c *structureChecker) errorAt(n *sitter.Node, reason string) *ParseError {
	start := n.StartPoint()
	return &ParseError{
		Filename: c.filename,
		Line:     int(start.Row) + 1,
		Column:   int(start.Column) + 1,
		Reason:   reason,
		Near:     firstLine(n.Content(c.source)),
	}
}

// startsLine reports whether only whitespace precedes n on its line.
func (c *structureChecker) startsLine(n *sitter.Node) bool {
	for i := int(n.StartByte()) - 1; i >= 0 && i < len(c.source); i-- {
		switch c.source[i] {
		case '\n', '\r':
			return true
		case ' ', '\t', '\f':
		default:
			return false
		}
	}
	return true
}

// indentOf returns the width of the leading whitespace on n's first line.
func (c *structureChecker) indentOf(n *sitter.Node) int {
	start := int(n.StartByte())
	if start > len(c.source) {
		return int(n.StartPoint().Column)
	}
	lineStart := start
	for lineStart > 0 && c.source[lineStart-1] != '\n' && c.source[lineStart-1] != '\r' {
		lineStart--
	}
	indent := 0
	for i := lineStart; i < start; i++ {
		b := c.source[i]
		if b != ' ' && b != '\t' && b != '\f' {
			break
		}
		indent++
	}
	return indent
}

func statementNodes(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	nodes := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child == nil || isExtra(child) {
			continue
		}
		nodes = append(nodes, child)
	}
	return nodes
}

func hasBlock(n *sitter.Node) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child != nil && child.Type() == "block" {
			return true
		}
	}
	return false
}

func isExtra(n *sitter.Node) bool {
	return n.Type() == "comment" || n.Type() == "line_continuation"
}
