package complexity

import (
	"context"
	"fmt"

	"bigocheck/internal/parser"
)

const (
	// LabelConstant is reported when no counted loop was found.
	LabelConstant = "O(1)"
	// RecurrencePrefix wraps the polynomial label of self-recursive code. The
	// branching factor and subproblem size are fixed, not derived from the call.
	RecurrencePrefix = "T(n) = 2T(n/2) + "
)

// LoopSite records a loop and the for-loop nesting depth it was found at.
type LoopSite struct {
	Position parser.Position
	Depth    int
	Function string
}

// FunctionSite records a function that calls itself by name.
type FunctionSite struct {
	Name     string
	Position parser.Position
	// LoopDepth is the deepest for-loop nesting inside the function, counted
	// from the function itself.
	LoopDepth int
}

// AnalysisState is the accumulator threaded through one traversal. A fresh
// value is used per analysis; nothing is shared between runs.
type AnalysisState struct {
	nestingDepth int
	functions    []string

	// NestedLoopDepths holds one entry per for-loop, the depth at that loop.
	NestedLoopDepths []int
	IsRecursive      bool
	// IsLogarithmic is set when a while condition matches the halving idiom.
	// It does not take part in the label.
	IsLogarithmic bool

	Loops              []LoopSite
	RecursiveFunctions []FunctionSite
	HalvingLoops       []LoopSite
}

// NewAnalysisState returns an empty accumulator.
func NewAnalysisState() *AnalysisState {
	return &AnalysisState{}
}

// MaxLoopDepth returns the deepest for-loop nesting seen, 0 when there were none.
func (s *AnalysisState) MaxLoopDepth() int {
	maxDepth := 0
	for _, depth := range s.NestedLoopDepths {
		maxDepth = max(maxDepth, depth)
	}
	return maxDepth
}

// Label derives the complexity label from the accumulated signals.
func (s *AnalysisState) Label() string {
	return DeriveLabel(s)
}

// Traverse visits node and all of its descendants once, depth first,
// updating state as loops, while-conditions and functions are found.
func Traverse(node parser.Node, state *AnalysisState) {
	switch n := node.(type) {
	case nil:
		return
	case *parser.FunctionDef:
		visitFunctionDef(n, state)
	case *parser.For:
		visitFor(n, state)
	case *parser.While:
		visitWhile(n, state)
	default:
		visitChildren(node, state)
	}
}

func visitChildren(node parser.Node, state *AnalysisState) {
	for _, child := range node.Children() {
		Traverse(child, state)
	}
}

func visitFunctionDef(fn *parser.FunctionDef, state *AnalysisState) {
	firstLoop := len(state.NestedLoopDepths)
	entryDepth := state.nestingDepth

	state.functions = append(state.functions, fn.Name)
	visitChildren(fn, state)
	state.functions = state.functions[:len(state.functions)-1]

	if !CallsItself(fn) {
		return
	}
	state.IsRecursive = true

	loopDepth := 0
	for _, depth := range state.NestedLoopDepths[firstLoop:] {
		loopDepth = max(loopDepth, depth-entryDepth)
	}
	state.RecursiveFunctions = append(state.RecursiveFunctions, FunctionSite{
		Name:      fn.Name,
		Position:  fn.Pos(),
		LoopDepth: loopDepth,
	})
}

// visitFor keeps the depth stack balanced: increment, visit, record, decrement.
func visitFor(loop *parser.For, state *AnalysisState) {
	state.nestingDepth++
	visitChildren(loop, state)
	state.NestedLoopDepths = append(state.NestedLoopDepths, state.nestingDepth)
	state.Loops = append(state.Loops, LoopSite{
		Position: loop.Pos(),
		Depth:    state.nestingDepth,
		Function: state.currentFunction(),
	})
	state.nestingDepth--
}

// visitWhile leaves the nesting depth alone; while-loops are not counted.
func visitWhile(loop *parser.While, state *AnalysisState) {
	visitChildren(loop, state)
	if IsHalvingCondition(loop.Cond) {
		state.IsLogarithmic = true
		state.HalvingLoops = append(state.HalvingLoops, LoopSite{
			Position: loop.Pos(),
			Depth:    state.nestingDepth,
			Function: state.currentFunction(),
		})
	}
}

func (s *AnalysisState) currentFunction() string {
	if len(s.functions) == 0 {
		return ""
	}
	return s.functions[len(s.functions)-1]
}

// CallsItself reports whether any call inside fn names fn directly. Matching
// is purely by identifier; shadowing and mutual recursion are not considered.
func CallsItself(fn *parser.FunctionDef) bool {
	found := false
	parser.Walk(fn, func(n parser.Node) bool {
		if found {
			return false
		}
		call, ok := n.(*parser.Call)
		if !ok {
			return true
		}
		if callee, ok := call.Func.(*parser.Name); ok && callee.ID == fn.Name {
			found = true
			return false
		}
		return true
	})
	return found
}

// IsHalvingCondition matches a comparison whose left side is (A + 1) // B.
// Only the loop condition is inspected, so `while n > 1: n = (n + 1) // 2`
// does not match.
func IsHalvingCondition(cond parser.Node) bool {
	cmp, ok := cond.(*parser.Compare)
	if !ok {
		return false
	}
	div, ok := cmp.Left.(*parser.BinOp)
	if !ok || div.Op != parser.OpFloorDiv {
		return false
	}
	add, ok := div.Left.(*parser.BinOp)
	if !ok || add.Op != parser.OpAdd {
		return false
	}
	one, ok := add.Right.(*parser.Num)
	return ok && one.Equals(1)
}

// PolynomialLabel renders a loop depth as O(1), O(n) or O(n^k).
func PolynomialLabel(depth int) string {
	switch {
	case depth <= 0:
		return LabelConstant
	case depth == 1:
		return "O(n)"
	default:
		return fmt.Sprintf("O(n^%d)", depth)
	}
}

// DeriveLabel turns the final state into a complexity label. Self-recursion
// wraps the polynomial part in the divide-and-conquer template, also when no
// loop was recorded.
func DeriveLabel(state *AnalysisState) string {
	label := LabelConstant
	if len(state.NestedLoopDepths) > 0 {
		label = PolynomialLabel(state.MaxLoopDepth())
	}
	if state.IsRecursive {
		label = RecurrencePrefix + label
	}
	return label
}

// AnalyzeModule runs a single traversal over an already parsed module.
func AnalyzeModule(module *parser.Module) *AnalysisState {
	state := NewAnalysisState()
	Traverse(module, state)
	return state
}

// AnalyzeSource parses Python source and returns the accumulated signals.
func AnalyzeSource(ctx context.Context, p *parser.Parser, filename string, source []byte) (*AnalysisState, error) {
	module, err := p.ParseFile(ctx, filename, source)
	if err != nil {
		return nil, err
	}
	return AnalyzeModule(module), nil
}

// AnalyzeComplexity estimates the Big-O class of a Python snippet. The only
// error it returns is the parser's, wrapping parser.ErrSyntax for invalid code.
func AnalyzeComplexity(code string) (string, error) {
	state, err := AnalyzeSource(context.Background(), parser.NewParser(), "", []byte(code))
	if err != nil {
		return "", err
	}
	return DeriveLabel(state), nil
}
