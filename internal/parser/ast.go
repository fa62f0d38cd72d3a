package parser

import "fmt"

// NodeKind tags the concrete type behind a Node
type NodeKind int

const (
	KindModule NodeKind = iota
	KindFunctionDef
	KindFor
	KindWhile
	KindCall
	KindName
	KindCompare
	KindBinOp
	KindNum
	KindGeneric
)

func (k NodeKind) String() string {
	switch k {
	case KindModule:
		return "Module"
	case KindFunctionDef:
		return "FunctionDef"
	case KindFor:
		return "For"
	case KindWhile:
		return "While"
	case KindCall:
		return "Call"
	case KindName:
		return "Name"
	case KindCompare:
		return "Compare"
	case KindBinOp:
		return "BinOp"
	case KindNum:
		return "Num"
	case KindGeneric:
		return "Generic"
	default:
		return "Unknown"
	}
}

// Position is a 1-based source location
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is one element of the syntax tree built from Python source.
type Node interface {
	Kind() NodeKind
	Children() []Node
	Pos() Position
}

// BinaryOperator identifies the operator of a BinOp
type BinaryOperator int

const (
	OpUnknown BinaryOperator = iota
	OpAdd
	OpSub
	OpMult
	OpMatMult
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpLShift
	OpRShift
	OpBitOr
	OpBitXor
	OpBitAnd
)

var binaryOperators = map[string]BinaryOperator{
	"+":  OpAdd,
	"-":  OpSub,
	"*":  OpMult,
	"@":  OpMatMult,
	"/":  OpDiv,
	"//": OpFloorDiv,
	"%":  OpMod,
	"**": OpPow,
	"<<": OpLShift,
	">>": OpRShift,
	"|":  OpBitOr,
	"^":  OpBitXor,
	"&":  OpBitAnd,
}

// BinaryOperatorFromToken maps an operator token such as "//" to its BinaryOperator.
func BinaryOperatorFromToken(tok string) BinaryOperator {
	if op, ok := binaryOperators[tok]; ok {
		return op
	}
	return OpUnknown
}

func (op BinaryOperator) String() string {
	for tok, o := range binaryOperators {
		if o == op {
			return tok
		}
	}
	return "?"
}

// Module is the root of every parsed snippet.
type Module struct {
	Body []Node
}

func (m *Module) Kind() NodeKind   { return KindModule }
func (m *Module) Children() []Node { return m.Body }
func (m *Module) Pos() Position    { return Position{Line: 1, Column: 1} }

// FunctionDef covers both def and async def.
type FunctionDef struct {
	Name     string
	Async    bool
	Position Position
	// Params holds the decorators, the parameter list and return annotation.
	Params []Node
	Body   []Node
}

func (f *FunctionDef) Kind() NodeKind { return KindFunctionDef }
func (f *FunctionDef) Children() []Node {
	children := make([]Node, 0, len(f.Params)+len(f.Body))
	children = append(children, f.Params...)
	return append(children, f.Body...)
}
func (f *FunctionDef) Pos() Position { return f.Position }

// For is a for statement; async for is folded in with Async set.
type For struct {
	Async    bool
	Position Position
	Target   Node
	Iter     Node
	Body     []Node
	Else     []Node
}

func (f *For) Kind() NodeKind { return KindFor }
func (f *For) Children() []Node {
	children := make([]Node, 0, 2+len(f.Body)+len(f.Else))
	if f.Target != nil {
		children = append(children, f.Target)
	}
	if f.Iter != nil {
		children = append(children, f.Iter)
	}
	children = append(children, f.Body...)
	return append(children, f.Else...)
}
func (f *For) Pos() Position { return f.Position }

type While struct {
	Position Position
	Cond     Node
	Body     []Node
	Else     []Node
}

func (w *While) Kind() NodeKind { return KindWhile }
func (w *While) Children() []Node {
	children := make([]Node, 0, 1+len(w.Body)+len(w.Else))
	if w.Cond != nil {
		children = append(children, w.Cond)
	}
	children = append(children, w.Body...)
	return append(children, w.Else...)
}
func (w *While) Pos() Position { return w.Position }

type Call struct {
	Position Position
	Func     Node
	Args     []Node
}

func (c *Call) Kind() NodeKind { return KindCall }
func (c *Call) Children() []Node {
	children := make([]Node, 0, 1+len(c.Args))
	if c.Func != nil {
		children = append(children, c.Func)
	}
	return append(children, c.Args...)
}
func (c *Call) Pos() Position { return c.Position }

// Name is a bare identifier reference.
type Name struct {
	ID       string
	Position Position
}

func (n *Name) Kind() NodeKind   { return KindName }
func (n *Name) Children() []Node { return nil }
func (n *Name) Pos() Position    { return n.Position }

// Compare is a (possibly chained) comparison: Left Ops[0] Comparators[0] ...
type Compare struct {
	Position    Position
	Left        Node
	Ops         []string
	Comparators []Node
}

func (c *Compare) Kind() NodeKind { return KindCompare }
func (c *Compare) Children() []Node {
	children := make([]Node, 0, 1+len(c.Comparators))
	if c.Left != nil {
		children = append(children, c.Left)
	}
	return append(children, c.Comparators...)
}
func (c *Compare) Pos() Position { return c.Position }

type BinOp struct {
	Position Position
	Left     Node
	Op       BinaryOperator
	Right    Node
}

func (b *BinOp) Kind() NodeKind { return KindBinOp }
func (b *BinOp) Children() []Node {
	children := make([]Node, 0, 2)
	if b.Left != nil {
		children = append(children, b.Left)
	}
	if b.Right != nil {
		children = append(children, b.Right)
	}
	return children
}
func (b *BinOp) Pos() Position { return b.Position }

// Num is an integer, float or imaginary literal.
type Num struct {
	Position  Position
	Raw       string
	Value     float64
	Imaginary bool
}

func (n *Num) Kind() NodeKind   { return KindNum }
func (n *Num) Children() []Node { return nil }
func (n *Num) Pos() Position    { return n.Position }

// Equals reports whether the literal compares equal to v in Python.
func (n *Num) Equals(v float64) bool {
	return !n.Imaginary && n.Value == v
}

// Generic is any construct the analyzer has no dedicated handling for.
type Generic struct {
	Type     string
	Position Position
	Kids     []Node
}

func (g *Generic) Kind() NodeKind   { return KindGeneric }
func (g *Generic) Children() []Node { return g.Kids }
func (g *Generic) Pos() Position    { return g.Position }

// Walk traverses the tree rooted at node in pre-order. Children of a node are
// skipped when fn returns false for it.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, child := range node.Children() {
		Walk(child, fn)
	}
}
