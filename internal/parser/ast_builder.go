package parser

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// astBuilder converts the tree-sitter CST into our Node tree
type astBuilder struct {
	source []byte
}

func newASTBuilder(source []byte) *astBuilder {
	return &astBuilder{source: source}
}

func (b *astBuilder) build(root *sitter.Node) *Module {
	return &Module{Body: b.namedChildren(root)}
}

func (b *astBuilder) convert(n *sitter.Node) Node {
	if n == nil {
		return nil
	}

	switch n.Type() {
	case "function_definition":
		return b.buildFunctionDef(n)
	case "decorated_definition":
		if fn := b.buildDecoratedFunction(n); fn != nil {
			return fn
		}
	case "for_statement":
		return b.buildFor(n)
	case "while_statement":
		return b.buildWhile(n)
	case "call":
		return b.buildCall(n)
	case "identifier":
		return &Name{ID: n.Content(b.source), Position: b.pos(n)}
	case "comparison_operator":
		return b.buildCompare(n)
	case "binary_operator":
		return b.buildBinOp(n)
	case "integer", "float":
		return b.buildNum(n)
	case "parenthesized_expression":
		// Parentheses only group; the abstract tree keeps the inner expression.
		if inner := b.namedChildren(n); len(inner) == 1 {
			return inner[0]
		}
	}

	return &Generic{
		Type:     n.Type(),
		Position: b.pos(n),
		Kids:     b.namedChildren(n),
	}
}

func (b *astBuilder) buildFunctionDef(n *sitter.Node) *FunctionDef {
	fn := &FunctionDef{
		Position: b.pos(n),
		Async:    hasKeyword(n, "async"),
	}
	if name := n.ChildByFieldName("name"); name != nil {
		fn.Name = name.Content(b.source)
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		fn.Params = append(fn.Params, b.convert(params))
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		fn.Params = append(fn.Params, b.convert(ret))
	}
	fn.Body = b.statements(n.ChildByFieldName("body"))
	return fn
}

// buildDecoratedFunction folds the decorators into the function they decorate,
// so calls made by a decorator expression belong to the function's subtree.
func (b *astBuilder) buildDecoratedFunction(n *sitter.Node) *FunctionDef {
	def := n.ChildByFieldName("definition")
	if def == nil || def.Type() != "function_definition" {
		return nil
	}
	fn := b.buildFunctionDef(def)
	var decorators []Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child != nil && child.Type() == "decorator" {
			decorators = append(decorators, b.convert(child))
		}
	}
	fn.Params = append(decorators, fn.Params...)
	return fn
}

func (b *astBuilder) buildFor(n *sitter.Node) *For {
	loop := &For{
		Position: b.pos(n),
		Async:    hasKeyword(n, "async"),
		Target:   b.convert(n.ChildByFieldName("left")),
		Iter:     b.convert(n.ChildByFieldName("right")),
		Body:     b.statements(n.ChildByFieldName("body")),
	}
	loop.Else = b.elseClause(n.ChildByFieldName("alternative"))
	return loop
}

func (b *astBuilder) buildWhile(n *sitter.Node) *While {
	return &While{
		Position: b.pos(n),
		Cond:     b.convert(n.ChildByFieldName("condition")),
		Body:     b.statements(n.ChildByFieldName("body")),
		Else:     b.elseClause(n.ChildByFieldName("alternative")),
	}
}

func (b *astBuilder) buildCall(n *sitter.Node) *Call {
	call := &Call{
		Position: b.pos(n),
		Func:     b.convert(n.ChildByFieldName("function")),
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		if args.Type() == "generator_expression" {
			call.Args = []Node{b.convert(args)}
		} else {
			call.Args = b.namedChildren(args)
		}
	}
	return call
}

// buildCompare splits a comparison chain into its operands and operator tokens.
// Two-word operators ("not in", "is not") arrive either aliased or as two
// adjacent anonymous tokens.
func (b *astBuilder) buildCompare(n *sitter.Node) *Compare {
	cmp := &Compare{Position: b.pos(n)}
	lastWasOperator := false
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || isComment(child) {
			continue
		}
		if !child.IsNamed() || child.Type() == "not in" || child.Type() == "is not" {
			tok := child.Content(b.source)
			if lastWasOperator && len(cmp.Ops) > 0 {
				cmp.Ops[len(cmp.Ops)-1] += " " + tok
			} else {
				cmp.Ops = append(cmp.Ops, tok)
			}
			lastWasOperator = true
			continue
		}
		lastWasOperator = false
		operand := b.convert(child)
		if cmp.Left == nil {
			cmp.Left = operand
		} else {
			cmp.Comparators = append(cmp.Comparators, operand)
		}
	}
	return cmp
}

func (b *astBuilder) buildBinOp(n *sitter.Node) *BinOp {
	bin := &BinOp{
		Position: b.pos(n),
		Left:     b.convert(n.ChildByFieldName("left")),
		Right:    b.convert(n.ChildByFieldName("right")),
	}
	if op := n.ChildByFieldName("operator"); op != nil {
		bin.Op = BinaryOperatorFromToken(op.Content(b.source))
		return bin
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child != nil && !child.IsNamed() {
			bin.Op = BinaryOperatorFromToken(child.Content(b.source))
			break
		}
	}
	return bin
}

func (b *astBuilder) buildNum(n *sitter.Node) *Num {
	raw := n.Content(b.source)
	value, imaginary := parseNumber(raw)
	return &Num{
		Position:  b.pos(n),
		Raw:       raw,
		Value:     value,
		Imaginary: imaginary,
	}
}

// statements flattens a block into its statements
func (b *astBuilder) statements(block *sitter.Node) []Node {
	if block == nil {
		return nil
	}
	if block.Type() != "block" {
		return []Node{b.convert(block)}
	}
	return b.namedChildren(block)
}

func (b *astBuilder) elseClause(clause *sitter.Node) []Node {
	if clause == nil {
		return nil
	}
	if body := clause.ChildByFieldName("body"); body != nil {
		return b.statements(body)
	}
	return b.namedChildren(clause)
}

func (b *astBuilder) namedChildren(n *sitter.Node) []Node {
	count := int(n.NamedChildCount())
	nodes := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child == nil || isComment(child) {
			continue
		}
		if converted := b.convert(child); converted != nil {
			nodes = append(nodes, converted)
		}
	}
	return nodes
}

func (b *astBuilder) pos(n *sitter.Node) Position {
	start := n.StartPoint()
	return Position{Line: int(start.Row) + 1, Column: int(start.Column) + 1}
}

func isComment(n *sitter.Node) bool {
	return n.Type() == "comment"
}

func hasKeyword(n *sitter.Node, keyword string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child != nil && !child.IsNamed() && child.Type() == keyword {
			return true
		}
	}
	return false
}

// parseNumber evaluates a Python numeric literal. The second result is true
// for imaginary literals such as 1j.
func parseNumber(raw string) (float64, bool) {
	s := strings.ReplaceAll(raw, "_", "")
	imaginary := false
	if strings.HasSuffix(s, "j") || strings.HasSuffix(s, "J") {
		imaginary = true
		s = s[:len(s)-1]
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, "l"), "L")

	lower := strings.ToLower(s)
	isPrefixed := strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b")
	if isPrefixed {
		if v, err := strconv.ParseUint(lower[2:], prefixBase(lower[1]), 64); err == nil {
			return float64(v), imaginary
		}
		return 0, imaginary
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, imaginary
	}
	return 0, imaginary
}

func prefixBase(c byte) int {
	switch c {
	case 'x':
		return 16
	case 'o':
		return 8
	default:
		return 2
	}
}
