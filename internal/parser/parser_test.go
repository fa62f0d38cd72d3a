package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseString_Empty(t *testing.T) {
	module, err := ParseString("")
	require.NoError(t, err)
	assert.Empty(t, module.Body)
	assert.Equal(t, KindModule, module.Kind())
}

func TestParseString_FunctionDef(t *testing.T) {
	code := `def merge_sort(items):
    # split in two
    for item in items:
        merge_sort(item)
`
	module, err := ParseString(code)
	require.NoError(t, err)
	require.Len(t, module.Body, 1)

	fn, ok := module.Body[0].(*FunctionDef)
	require.True(t, ok, "expected *FunctionDef, got %T", module.Body[0])
	assert.Equal(t, "merge_sort", fn.Name)
	assert.False(t, fn.Async)
	assert.Equal(t, Position{Line: 1, Column: 1}, fn.Pos())

	require.Len(t, fn.Body, 1)
	loop, ok := fn.Body[0].(*For)
	require.True(t, ok, "comments must not appear in the body, got %T", fn.Body[0])
	assert.Equal(t, Position{Line: 3, Column: 5}, loop.Pos())

	target, ok := loop.Target.(*Name)
	require.True(t, ok)
	assert.Equal(t, "item", target.ID)

	var calls []*Call
	Walk(loop, func(n Node) bool {
		if call, ok := n.(*Call); ok {
			calls = append(calls, call)
		}
		return true
	})
	require.Len(t, calls, 1)
	callee, ok := calls[0].Func.(*Name)
	require.True(t, ok)
	assert.Equal(t, "merge_sort", callee.ID)
	require.Len(t, calls[0].Args, 1)
}

func TestParseString_Async(t *testing.T) {
	code := "async def fetch(urls):\n    async for url in urls:\n        pass\n"
	module, err := ParseString(code)
	require.NoError(t, err)
	require.Len(t, module.Body, 1)

	fn, ok := module.Body[0].(*FunctionDef)
	require.True(t, ok, "expected *FunctionDef, got %T", module.Body[0])
	assert.True(t, fn.Async)
	assert.Equal(t, "fetch", fn.Name)

	require.Len(t, fn.Body, 1)
	loop, ok := fn.Body[0].(*For)
	require.True(t, ok, "expected *For, got %T", fn.Body[0])
	assert.True(t, loop.Async)
}

func TestParseString_ForElse(t *testing.T) {
	code := "for i in a:\n    x = 1\nelse:\n    y = 2\n    z = 3\n"
	module, err := ParseString(code)
	require.NoError(t, err)

	loop, ok := module.Body[0].(*For)
	require.True(t, ok)
	assert.Len(t, loop.Body, 1)
	assert.Len(t, loop.Else, 2)
}

func TestParseString_HalvingCondition(t *testing.T) {
	module, err := ParseString("while (n + 1) // 2 > 1:\n    pass\n")
	require.NoError(t, err)

	loop, ok := module.Body[0].(*While)
	require.True(t, ok)

	cmp, ok := loop.Cond.(*Compare)
	require.True(t, ok, "expected *Compare, got %T", loop.Cond)
	assert.Equal(t, []string{">"}, cmp.Ops)
	require.Len(t, cmp.Comparators, 1)

	div, ok := cmp.Left.(*BinOp)
	require.True(t, ok, "expected *BinOp, got %T", cmp.Left)
	assert.Equal(t, OpFloorDiv, div.Op)

	// The parentheses around n + 1 are not part of the tree.
	add, ok := div.Left.(*BinOp)
	require.True(t, ok, "expected *BinOp, got %T", div.Left)
	assert.Equal(t, OpAdd, add.Op)

	one, ok := add.Right.(*Num)
	require.True(t, ok)
	assert.True(t, one.Equals(1))
	assert.Equal(t, "1", one.Raw)

	two, ok := div.Right.(*Num)
	require.True(t, ok)
	assert.Equal(t, 2.0, two.Value)
}

func TestParseString_CompareOperators(t *testing.T) {
	tests := []struct {
		code string
		want []string
	}{
		{code: "a < b", want: []string{"<"}},
		{code: "a <= b < c", want: []string{"<=", "<"}},
		{code: "a not in b", want: []string{"not in"}},
		{code: "a is not b", want: []string{"is not"}},
		{code: "a in b", want: []string{"in"}},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			module, err := ParseString(tt.code + "\n")
			require.NoError(t, err)

			var cmp *Compare
			Walk(module, func(n Node) bool {
				if c, ok := n.(*Compare); ok && cmp == nil {
					cmp = c
				}
				return true
			})
			require.NotNil(t, cmp)
			assert.Equal(t, tt.want, cmp.Ops)
			assert.Len(t, cmp.Comparators, len(tt.want))
		})
	}
}

func TestParseString_BinaryOperators(t *testing.T) {
	tests := []struct {
		code string
		want BinaryOperator
	}{
		{code: "a + b", want: OpAdd},
		{code: "a - b", want: OpSub},
		{code: "a * b", want: OpMult},
		{code: "a / b", want: OpDiv},
		{code: "a // b", want: OpFloorDiv},
		{code: "a % b", want: OpMod},
		{code: "a ** b", want: OpPow},
		{code: "a << b", want: OpLShift},
		{code: "a | b", want: OpBitOr},
		{code: "a & b", want: OpBitAnd},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			module, err := ParseString("x = " + tt.code + "\n")
			require.NoError(t, err)

			var bin *BinOp
			Walk(module, func(n Node) bool {
				if b, ok := n.(*BinOp); ok && bin == nil {
					bin = b
				}
				return true
			})
			require.NotNil(t, bin)
			assert.Equal(t, tt.want, bin.Op)
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw       string
		want      float64
		imaginary bool
	}{
		{raw: "1", want: 1},
		{raw: "1_000", want: 1000},
		{raw: "0x10", want: 16},
		{raw: "0o17", want: 15},
		{raw: "0b11", want: 3},
		{raw: "1.0", want: 1},
		{raw: "1e3", want: 1000},
		{raw: ".5", want: 0.5},
		{raw: "1j", want: 1, imaginary: true},
		{raw: "2.5J", want: 2.5, imaginary: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, imaginary := parseNumber(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.imaginary, imaginary)
		})
	}
}

func TestNumEquals(t *testing.T) {
	assert.True(t, (&Num{Value: 1}).Equals(1))
	assert.False(t, (&Num{Value: 1, Imaginary: true}).Equals(1))
	assert.False(t, (&Num{Value: 2}).Equals(1))
}

func TestParse_SyntaxError(t *testing.T) {
	p := NewParser()
	_, err := p.ParseFile(context.Background(), "broken.py", []byte("x = 1\ndef broken(:\n    return 1\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyntax))

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "broken.py", perr.Filename)
	assert.Equal(t, 2, perr.Line)
	assert.Contains(t, err.Error(), "broken.py:2:")
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Line: 3, Column: 7, Near: "def"}
	assert.Equal(t, `invalid syntax at line 3, column 7 near "def"`, err.Error())

	err = &ParseError{Filename: "a.py", Line: 1, Column: 1}
	assert.Equal(t, "invalid syntax at a.py:1:1", err.Error())
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "abc", firstLine("abc\ndef"))
	assert.Equal(t, "", firstLine("\nabc"))
	assert.Len(t, []rune(firstLine("ééééééééééééééééééééééééééééééééééééééééééééé")), 40)
}

func TestParser_SharedAcrossGoroutines(t *testing.T) {
	p := NewParser()
	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			_, err := p.Parse(context.Background(), []byte("for i in x:\n    pass\n"))
			done <- err
		}()
	}
	for i := 0; i < 10; i++ {
		assert.NoError(t, <-done)
	}
}

func TestWalk_Prune(t *testing.T) {
	module, err := ParseString("def f():\n    for i in x:\n        pass\n")
	require.NoError(t, err)

	var kinds []NodeKind
	Walk(module, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return n.Kind() != KindFunctionDef
	})
	assert.Equal(t, []NodeKind{KindModule, KindFunctionDef}, kinds)
}

func TestNodeKindString(t *testing.T) {
	assert.Equal(t, "For", KindFor.String())
	assert.Equal(t, "Generic", KindGeneric.String())
	assert.Equal(t, "Unknown", NodeKind(99).String())
	assert.Equal(t, "//", OpFloorDiv.String())
	assert.Equal(t, "3:4", Position{Line: 3, Column: 4}.String())
}

func TestParseString_DecoratedFunction(t *testing.T) {
	module, err := ParseString("@cache\n@route(\"/\")\ndef handler(n):\n    pass\n")
	require.NoError(t, err)
	require.Len(t, module.Body, 1)

	fn, ok := module.Body[0].(*FunctionDef)
	require.True(t, ok, "expected *FunctionDef, got %T", module.Body[0])
	assert.Equal(t, "handler", fn.Name)
	assert.Equal(t, 3, fn.Pos().Line)

	require.GreaterOrEqual(t, len(fn.Params), 2)
	for _, param := range fn.Params[:2] {
		g, ok := param.(*Generic)
		require.True(t, ok, "expected *Generic, got %T", param)
		assert.Equal(t, "decorator", g.Type)
	}

	var calls int
	Walk(fn, func(n Node) bool {
		if _, ok := n.(*Call); ok {
			calls++
		}
		return true
	})
	assert.Equal(t, 1, calls)
}

func TestParseString_DecoratedClassStaysGeneric(t *testing.T) {
	module, err := ParseString("@dataclass\nclass Point:\n    x: int\n")
	require.NoError(t, err)
	require.Len(t, module.Body, 1)

	g, ok := module.Body[0].(*Generic)
	require.True(t, ok, "expected *Generic, got %T", module.Body[0])
	assert.Equal(t, "decorated_definition", g.Type)
}

func TestParseString_RejectsWhatPython3Rejects(t *testing.T) {
	tests := []struct {
		name string
		code string
		line int
	}{
		{name: "block without indentation", code: "for i in range(n):\npass\n", line: 2},
		{name: "python 2 print", code: "print 'hello'\n", line: 1},
		{name: "python 2 print chevron", code: "x = 1\nprint >>f, x\n", line: 2},
		{name: "python 2 exec", code: "exec 'x = 1'\n", line: 1},
		{name: "unexpected indent at module level", code: "  x = 1\n", line: 1},
		{name: "unexpected indent after first statement", code: "x = 1\n    y = 2\n", line: 2},
		{name: "dedent to an unknown level", code: "if x:\n        a\n    b\n", line: 3},
		{name: "nested dedent to an unknown level", code: "if x:\n    if y:\n        a\n  b\n", line: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			module, err := ParseString(tt.code)
			require.Error(t, err)
			assert.Nil(t, module)
			assert.ErrorIs(t, err, ErrSyntax)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.LessOrEqual(t, perr.Line, tt.line)
		})
	}
}

func TestParseString_AcceptsValidLayouts(t *testing.T) {
	inputs := map[string]string{
		"semicolons":           "x = 1; y = 2\nif x:\n    a = 1; b = 2\n",
		"inline suites":        "if a: pass\nelif b: pass\nelse: pass\nwhile c: break\n",
		"dedent to outer":      "if a:\n    if b:\n        x = 1\n    y = 2\nz = 3\n",
		"tabs":                 "if a:\n\tx = 1\n\ty = 2\n",
		"line continuation":    "x = 1 + \\\n    2\ny = 3\n",
		"multi-line string":    "def f():\n    s = \"\"\"\nflush left\n\"\"\"\n    return s\n",
		"bracket continuation": "def f(a,\n      b):\n    return [a,\nb]\n",
		"try statement":        "try:\n    x = 1\nexcept ValueError:\n    x = 2\nfinally:\n    x = 3\n",
		"class with methods":   "class A:\n    @property\n    def x(self):\n        return 1\n\n    def y(self):\n        pass\n",
		"print call":           "print('hello')\nprint(1, 2)\n",
	}

	for name, code := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := ParseString(code)
			assert.NoError(t, err)
		})
	}
}

func TestParseError_Reason(t *testing.T) {
	err := &ParseError{Line: 2, Column: 5, Reason: "unexpected indent", Near: "y = 2"}
	assert.Equal(t, `invalid syntax at line 2, column 5: unexpected indent near "y = 2"`, err.Error())
}
