package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sol25lang/solc/internal/ast"
	"github.com/sol25lang/solc/internal/lexer"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, lexErr := lexer.Lex(src)
	if lexErr != nil {
		t.Fatalf("Lex(%q) returned error: %v", src, lexErr)
	}
	prog, err := Parse(toks)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", src, err)
	}
	return prog
}

func TestParseMinimalClass(t *testing.T) {
	prog := mustParse(t, `class Main : Object {
		run [ |
		]
	}`)
	if len(prog.Classes) != 1 {
		t.Fatalf("got %d classes, want 1", len(prog.Classes))
	}
	cls := prog.Classes[0]
	if cls.Name != "Main" || cls.Parent != "Object" {
		t.Errorf("got class %s:%s", cls.Name, cls.Parent)
	}
	if len(cls.Methods) != 1 || cls.Methods[0].Selector != "run" {
		t.Fatalf("unexpected methods: %+v", cls.Methods)
	}
	if cls.Methods[0].Block.Arity() != 0 {
		t.Errorf("expected arity 0")
	}
}

func TestParseDescriptionComment(t *testing.T) {
	prog := mustParse(t, `"a description"
	class Main : Object { run [ | ] }`)
	if !prog.HasDescription || prog.Description != "a description" {
		t.Fatalf("got description %q, has=%v", prog.Description, prog.HasDescription)
	}
}

func TestParseKeywordSelectorMethod(t *testing.T) {
	prog := mustParse(t, `class Main : Object {
		foo:bar: [ :x :y |
			z := x.
		]
	}`)
	m := prog.Classes[0].Methods[0]
	if m.Selector != "foo:bar:" {
		t.Fatalf("got selector %q", m.Selector)
	}
	if m.Block.Arity() != 2 {
		t.Fatalf("got arity %d", m.Block.Arity())
	}
	if m.Block.Parameters[0].Name != "x" || m.Block.Parameters[1].Name != "y" {
		t.Fatalf("unexpected parameters: %+v", m.Block.Parameters)
	}
}

func TestParseSelectorSpaceBeforeColonIsSyntaxError(t *testing.T) {
	toks, lexErr := lexer.Lex(`class Main : Object { foo : [ | ] }`)
	if lexErr != nil {
		t.Fatalf("unexpected lex error: %v", lexErr)
	}
	if _, err := Parse(toks); err == nil {
		t.Fatal("expected syntactic error for space before colon in selector")
	} else if err.Code != 22 {
		t.Errorf("got code %d, want 22", err.Code)
	}
}

func TestParseKeywordSendArgumentIsExprBaseOnly(t *testing.T) {
	prog := mustParse(t, `class Main : Object {
		run [ |
			x := self foo: 1 bar: 2.
		]
	}`)
	assign := prog.Classes[0].Methods[0].Block.Assigns[0]
	send, ok := assign.Expr.(*ast.Send)
	if !ok {
		t.Fatalf("expected *ast.Send, got %T", assign.Expr)
	}
	if send.Selector != "foo:bar:" {
		t.Fatalf("got selector %q, want merged keyword selector", send.Selector)
	}
	if len(send.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(send.Args))
	}
}

func TestParseUnarySendChain(t *testing.T) {
	prog := mustParse(t, `class Main : Object {
		run [ |
			x := self foo bar.
		]
	}`)
	assign := prog.Classes[0].Methods[0].Block.Assigns[0]
	outer, ok := assign.Expr.(*ast.Send)
	if !ok || outer.Selector != "bar" {
		t.Fatalf("unexpected outer expr: %+v", assign.Expr)
	}
	inner, ok := outer.Target.(*ast.Send)
	if !ok || inner.Selector != "foo" {
		t.Fatalf("unexpected inner expr: %+v", outer.Target)
	}
}

func TestParseParenthesizedExprAllowsFullKeywordArg(t *testing.T) {
	prog := mustParse(t, `class Main : Object {
		run [ |
			x := self foo: (self bar: 1).
		]
	}`)
	assign := prog.Classes[0].Methods[0].Block.Assigns[0]
	outer := assign.Expr.(*ast.Send)
	if outer.Selector != "foo:" {
		t.Fatalf("got selector %q", outer.Selector)
	}
	inner, ok := outer.Args[0].(*ast.Send)
	if !ok || inner.Selector != "bar:" {
		t.Fatalf("unexpected nested arg: %+v", outer.Args[0])
	}
}

func TestParseClassNameLiteral(t *testing.T) {
	prog := mustParse(t, `class Main : Object {
		run [ |
			x := Integer.
		]
	}`)
	lit := prog.Classes[0].Methods[0].Block.Assigns[0].Expr.(*ast.Literal)
	if lit.Kind != ast.LiteralClass || lit.Value != "Integer" {
		t.Fatalf("got %+v", lit)
	}
}

func TestParseNestedBlockExpr(t *testing.T) {
	prog := mustParse(t, `class Main : Object {
		run [ |
			x := [ |
				y := 1.
			].
		]
	}`)
	be, ok := prog.Classes[0].Methods[0].Block.Assigns[0].Expr.(*ast.BlockExpr)
	if !ok {
		t.Fatalf("expected *ast.BlockExpr, got %T", prog.Classes[0].Methods[0].Block.Assigns[0].Expr)
	}
	if len(be.Block.Assigns) != 1 {
		t.Fatalf("unexpected nested block: %+v", be.Block)
	}
}

func TestParseInvalidClassNameIsSyntaxError(t *testing.T) {
	toks, _ := lexer.Lex(`class main : Object { run [ | ] }`)
	if _, err := Parse(toks); err == nil {
		t.Fatal("expected syntactic error for lowercase class name")
	}
}

func TestParseUnterminatedClassIsSyntaxError(t *testing.T) {
	toks, _ := lexer.Lex(`class Main : Object { run [ | ]`)
	if _, err := Parse(toks); err == nil {
		t.Fatal("expected syntactic error for unterminated class body")
	}
}

func TestParseAssignmentShapeExactly(t *testing.T) {
	prog := mustParse(t, `class Main : Object {
		run [ :n |
			x := n.
		]
	}`)
	want := &ast.Program{
		Classes: []*ast.ClassDecl{{
			Name:   "Main",
			Parent: "Object",
			Methods: []*ast.Method{{
				Selector: "run",
				Block: &ast.Block{
					Parameters: []*ast.Parameter{{Name: "n", Order: 1}},
					Assigns: []*ast.Assignment{{
						Order:     1,
						Target:    "x",
						TargetPos: prog.Classes[0].Methods[0].Block.Assigns[0].TargetPos,
						Expr:      &ast.Var{Name: "n", Pos: ast.Pos(prog.Classes[0].Methods[0].Block.Assigns[0].Expr)},
					}},
				},
			}},
		}},
	}
	if diff := cmp.Diff(want, prog); diff != "" {
		t.Errorf("unexpected AST shape (-want +got):\n%s", diff)
	}
}
