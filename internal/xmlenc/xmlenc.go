// Package xmlenc renders a validated SOL25 ast.Program as the XML
// abstract syntax tree the front-end emits on standard output. Emit is
// a pure function: it cannot fail except via ERR_INTERNAL, which can
// only be reached if ast's sealed Expression interface is somehow
// violated.
package xmlenc

import (
	"fmt"
	"strings"

	"github.com/sol25lang/solc/internal/ast"
	"github.com/sol25lang/solc/internal/diagnostics"
)

const phase = "internal"

// Emit renders prog as a complete XML document, starting with the
// standard declaration.
func Emit(prog *ast.Program) (string, *diagnostics.Diagnostic) {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteByte('\n')

	b.WriteString(`<program language="SOL25"`)
	if prog.HasDescription {
		fmt.Fprintf(&b, ` description="%s"`, escapeAttr(prog.Description))
	}
	b.WriteString(">\n")

	for _, cls := range prog.Classes {
		if err := emitClass(&b, cls); err != nil {
			return "", err
		}
	}

	b.WriteString("</program>\n")
	return b.String(), nil
}

func emitClass(b *strings.Builder, cls *ast.ClassDecl) *diagnostics.Diagnostic {
	fmt.Fprintf(b, `<class name="%s" parent="%s">`, escapeAttr(cls.Name), escapeAttr(cls.Parent))
	b.WriteByte('\n')
	for _, m := range cls.Methods {
		fmt.Fprintf(b, `<method selector="%s">`, escapeAttr(m.Selector))
		b.WriteByte('\n')
		if err := emitBlock(b, m.Block); err != nil {
			return err
		}
		b.WriteString("</method>\n")
	}
	b.WriteString("</class>\n")
	return nil
}

func emitBlock(b *strings.Builder, block *ast.Block) *diagnostics.Diagnostic {
	fmt.Fprintf(b, `<block arity="%d">`, block.Arity())
	b.WriteByte('\n')
	for _, p := range block.Parameters {
		fmt.Fprintf(b, `<parameter name="%s" order="%d"/>`, escapeAttr(p.Name), p.Order)
		b.WriteByte('\n')
	}
	for _, a := range block.Assigns {
		fmt.Fprintf(b, `<assign order="%d">`, a.Order)
		b.WriteByte('\n')
		fmt.Fprintf(b, `<var name="%s"/>`, escapeAttr(a.Target))
		b.WriteByte('\n')
		b.WriteString("<expr>\n")
		if err := emitExpr(b, a.Expr); err != nil {
			return err
		}
		b.WriteString("</expr>\n")
		b.WriteString("</assign>\n")
	}
	b.WriteString("</block>\n")
	return nil
}

func emitExpr(b *strings.Builder, expr ast.Expression) *diagnostics.Diagnostic {
	switch e := expr.(type) {
	case *ast.Literal:
		fmt.Fprintf(b, `<literal class="%s" value="%s"/>`, escapeAttr(literalClassName(e.Kind)), literalValue(e))
		b.WriteByte('\n')
		return nil

	case *ast.Var:
		fmt.Fprintf(b, `<var name="%s"/>`, escapeAttr(e.Name))
		b.WriteByte('\n')
		return nil

	case *ast.BlockExpr:
		return emitBlock(b, e.Block)

	case *ast.Send:
		fmt.Fprintf(b, `<send selector="%s">`, escapeAttr(e.Selector))
		b.WriteByte('\n')
		b.WriteString("<expr>\n")
		if err := emitExpr(b, e.Target); err != nil {
			return err
		}
		b.WriteString("</expr>\n")
		for i, arg := range e.Args {
			fmt.Fprintf(b, `<arg order="%d">`, i+1)
			b.WriteByte('\n')
			b.WriteString("<expr>\n")
			if err := emitExpr(b, arg); err != nil {
				return err
			}
			b.WriteString("</expr>\n")
			b.WriteString("</arg>\n")
		}
		b.WriteString("</send>\n")
		return nil

	default:
		return diagnostics.New(diagnostics.ExitInternal, phase, "unknown expression node %T", expr)
	}
}

func literalClassName(k ast.LiteralKind) string {
	switch k {
	case ast.LiteralInteger:
		return "Integer"
	case ast.LiteralString:
		return "String"
	case ast.LiteralTrue:
		return "True"
	case ast.LiteralFalse:
		return "False"
	case ast.LiteralNil:
		return "Nil"
	case ast.LiteralClass:
		return "class"
	default:
		return ""
	}
}

// literalValue renders a <literal> element's value attribute. Only
// String literals go through the bespoke apostrophe/backslash/newline
// rewrite; every other literal kind uses plain attribute escaping.
func literalValue(lit *ast.Literal) string {
	if lit.Kind == ast.LiteralString {
		return escapeStringLiteral(lit.Value)
	}
	return escapeAttr(lit.Value)
}

// escapeAttr is standard XML attribute escaping.
func escapeAttr(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// escapeStringLiteral replicates the net effect of the reference
// emitter's literal-value post-pass on a decoded string literal's raw
// bytes: an apostrophe becomes the literal seven-character sequence
// "\&apos;", a backslash doubles, and the only control character a
// decoded literal can carry (newline, reachable solely via the lexer's
// \n escape) becomes the two-character sequence "\n". Everything else
// falls through to standard XML escaping.
func escapeStringLiteral(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			b.WriteString(`\&apos;`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
