// Package semantic validates a SOL25 ast.Program against the language's
// static rules: unique class/method names, a reachable Main.run entry
// point, an acyclic Object-rooted class hierarchy, and scope-correct
// variable, attribute, and message-send resolution. A *diagnostics.Diagnostic
// is returned on the first rule violation encountered; the AST itself
// is never rewritten, only checked.
package semantic

import "github.com/sol25lang/solc/internal/ast"
import "github.com/sol25lang/solc/internal/diagnostics"

const phase = "semantic"

type role int

const (
	roleParam role = iota
	roleLocal
)

// classInfo is per-class bookkeeping built across the pipeline: the
// declaration itself, its harvested dynamic attributes, and the DFS
// color used by the cycle check.
type classInfo struct {
	decl      *ast.ClassDecl
	attrs     map[string]bool
	color     int // 0 = unvisited, 1 = on-stack, 2 = done
	methodSet map[string]*ast.Method
}

const (
	colorUnvisited = 0
	colorOnStack   = 1
	colorDone      = 2
)

type analyzer struct {
	classes map[string]*classInfo
	order   []string
}

// Analyze runs the full validation pipeline over prog and returns nil
// on success.
func Analyze(prog *ast.Program) *diagnostics.Diagnostic {
	a := &analyzer{classes: make(map[string]*classInfo)}

	// 1. Duplicate class check.
	for _, cls := range prog.Classes {
		if _, exists := a.classes[cls.Name]; exists {
			return diagnostics.New(diagnostics.ExitSemanticOther, phase, "duplicate class %q", cls.Name)
		}
		methodSet := make(map[string]*ast.Method, len(cls.Methods))
		for _, m := range cls.Methods {
			// 2. Duplicate method check.
			if _, exists := methodSet[m.Selector]; exists {
				return diagnostics.New(diagnostics.ExitSemanticOther, phase,
					"duplicate method %q in class %q", m.Selector, cls.Name)
			}
			methodSet[m.Selector] = m
		}
		a.classes[cls.Name] = &classInfo{decl: cls, attrs: make(map[string]bool), methodSet: methodSet}
		a.order = append(a.order, cls.Name)
	}

	// 3. Main presence.
	main, ok := a.classes["Main"]
	if !ok {
		return diagnostics.New(diagnostics.ExitMissingMain, phase, "no class named \"Main\"")
	}
	run, ok := main.methodSet["run"]
	if !ok {
		return diagnostics.New(diagnostics.ExitMissingMain, phase, "class \"Main\" has no \"run\" method")
	}
	if run.Block.Arity() != 0 {
		return diagnostics.New(diagnostics.ExitArity, phase, "\"Main.run\" must take no parameters")
	}

	// 4. Parent resolution.
	for _, name := range a.order {
		parent := a.classes[name].decl.Parent
		if _, userDefined := a.classes[parent]; !userDefined && !isBuiltinClass(parent) {
			return diagnostics.New(diagnostics.ExitUndefinedVar, phase,
				"class %q has undefined parent %q", name, parent)
		}
	}

	// 5. Cycle check.
	for _, name := range a.order {
		if err := a.checkCycle(name); err != nil {
			return err
		}
	}

	// 6. Dynamic-attribute harvest: every class's methods, fully, before
	// any class is analyzed, so a getter textually before its setter
	// still resolves.
	for _, name := range a.order {
		info := a.classes[name]
		for _, m := range info.decl.Methods {
			harvestBlock(info, m.Block)
		}
	}

	// 7. Block analysis, per class per method.
	for _, name := range a.order {
		info := a.classes[name]
		for _, m := range info.decl.Methods {
			if err := a.analyzeBlock(info, m.Block); err != nil {
				return err
			}
		}
	}

	return nil
}

// checkCycle runs the three-color DFS rooted at name, following parent
// links restricted to user-defined classes (built-ins are leaves of the
// chain and cannot participate in a cycle).
func (a *analyzer) checkCycle(name string) *diagnostics.Diagnostic {
	info, ok := a.classes[name]
	if !ok {
		return nil // built-in parent, not part of the user-defined graph
	}
	switch info.color {
	case colorDone:
		return nil
	case colorOnStack:
		return diagnostics.New(diagnostics.ExitSemanticOther, phase, "inheritance cycle involving class %q", name)
	}
	info.color = colorOnStack
	if err := a.checkCycle(info.decl.Parent); err != nil {
		return err
	}
	info.color = colorDone
	return nil
}

// harvestBlock registers every `(self X:)` dynamic-attribute setter
// send reachable anywhere within block, including nested block
// literals, as an attribute of info's class.
func harvestBlock(info *classInfo, block *ast.Block) {
	for _, asg := range block.Assigns {
		harvestExpr(info, asg.Expr)
	}
}

func harvestExpr(info *classInfo, expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Send:
		if isSelfVar(e.Target) && isSingleColonSetter(e.Selector) {
			info.attrs[attrName(e.Selector)] = true
		}
		harvestExpr(info, e.Target)
		for _, arg := range e.Args {
			harvestExpr(info, arg)
		}
	case *ast.BlockExpr:
		harvestBlock(info, e.Block)
	}
}

func isSelfVar(e ast.Expression) bool {
	v, ok := e.(*ast.Var)
	return ok && v.Name == "self"
}

// isSingleColonSetter reports whether sel has the shape "name:" with
// exactly one colon, which appears only at the end.
func isSingleColonSetter(sel string) bool {
	colons := 0
	for i := 0; i < len(sel); i++ {
		if sel[i] == ':' {
			colons++
		}
	}
	return colons == 1 && len(sel) > 0 && sel[len(sel)-1] == ':'
}

func attrName(sel string) string {
	return sel[:len(sel)-1]
}

// env tracks a single block's variable scope during analysis.
type env map[string]role

// analyzeBlock analyzes a method's (or nested block's) body under a
// fresh environment seeded with its parameters plus `self`.
func (a *analyzer) analyzeBlock(info *classInfo, block *ast.Block) *diagnostics.Diagnostic {
	e := make(env)
	e["self"] = roleParam
	seen := make(map[string]bool)
	for _, p := range block.Parameters {
		if seen[p.Name] {
			return diagnostics.New(diagnostics.ExitSemanticOther, phase,
				"duplicate parameter %q", p.Name)
		}
		seen[p.Name] = true
		e[p.Name] = roleParam
	}

	for _, asg := range block.Assigns {
		if r, exists := e[asg.Target]; exists && r == roleParam {
			return diagnostics.At(diagnostics.ExitVarCollision, phase, asg.TargetPos,
				"assignment target %q collides with a parameter or self", asg.Target)
		}
		if err := a.analyzeExpr(info, e, asg.Expr); err != nil {
			return err
		}
		if _, exists := e[asg.Target]; !exists {
			e[asg.Target] = roleLocal
		}
	}
	return nil
}

func (a *analyzer) analyzeExpr(info *classInfo, e env, expr ast.Expression) *diagnostics.Diagnostic {
	switch n := expr.(type) {
	case *ast.Literal:
		if n.Kind == ast.LiteralClass {
			if !a.classExists(n.Value) {
				return diagnostics.At(diagnostics.ExitUndefinedVar, phase, n.Pos,
					"undefined class %q", n.Value)
			}
		}
		return nil

	case *ast.Var:
		if _, ok := e[n.Name]; ok {
			return nil
		}
		if isUpper(n.Name) {
			if a.classExists(n.Name) {
				return nil
			}
			return diagnostics.At(diagnostics.ExitUndefinedVar, phase, n.Pos,
				"undefined class %q", n.Name)
		}
		return diagnostics.At(diagnostics.ExitUndefinedVar, phase, n.Pos,
			"undefined variable %q", n.Name)

	case *ast.BlockExpr:
		return a.analyzeBlock(info, n.Block)

	case *ast.Send:
		return a.analyzeSend(info, e, n)

	default:
		return diagnostics.New(diagnostics.ExitInternal, phase, "unknown expression node %T", expr)
	}
}

func (a *analyzer) analyzeSend(info *classInfo, e env, send *ast.Send) *diagnostics.Diagnostic {
	if reservedSelectors[send.Selector] {
		return diagnostics.At(diagnostics.ExitSyntactic, phase, send.Pos,
			"selector %q is a reserved word", send.Selector)
	}
	if err := a.analyzeExpr(info, e, send.Target); err != nil {
		return err
	}
	for _, arg := range send.Args {
		if err := a.analyzeExpr(info, e, arg); err != nil {
			return err
		}
	}

	if isSelfVar(send.Target) {
		return a.analyzeSelfSend(info, send)
	}
	if className, ok := classReceiverName(send.Target); ok {
		return a.analyzeClassSend(className, send)
	}
	return nil
}

func (a *analyzer) analyzeSelfSend(info *classInfo, send *ast.Send) *diagnostics.Diagnostic {
	if m, ok := info.methodSet[send.Selector]; ok {
		if len(send.Args) != m.Block.Arity() {
			return diagnostics.At(diagnostics.ExitArity, phase, send.Pos,
				"%q expects %d argument(s), got %d", send.Selector, m.Block.Arity(), len(send.Args))
		}
		return nil
	}
	if isSingleColonSetter(send.Selector) {
		if len(send.Args) != 1 {
			return diagnostics.At(diagnostics.ExitArity, phase, send.Pos,
				"setter %q expects exactly 1 argument, got %d", send.Selector, len(send.Args))
		}
		info.attrs[attrName(send.Selector)] = true
		return nil
	}
	// Getter form (including multi-colon selectors with no matching
	// method, which are rejected here as a failed arity check).
	if len(send.Args) != 0 {
		return diagnostics.At(diagnostics.ExitArity, phase, send.Pos,
			"%q expects 0 arguments, got %d", send.Selector, len(send.Args))
	}
	if !info.attrs[send.Selector] {
		return diagnostics.At(diagnostics.ExitUndefinedVar, phase, send.Pos,
			"undefined attribute %q", send.Selector)
	}
	return nil
}

func (a *analyzer) analyzeClassSend(className string, send *ast.Send) *diagnostics.Diagnostic {
	if a.resolveClassSelector(className, send.Selector) {
		return nil
	}
	return diagnostics.At(diagnostics.ExitUndefinedVar, phase, send.Pos,
		"%q is not defined for class %q", send.Selector, className)
}

// resolveClassSelector walks the class hierarchy from className up to
// Object, checking user-defined method tables and the built-in method
// table as the chain crosses into built-in territory.
func (a *analyzer) resolveClassSelector(className, sel string) bool {
	for {
		info, userDefined := a.classes[className]
		if !userDefined {
			return builtinMethodLookup(className, sel)
		}
		if _, ok := info.methodSet[sel]; ok {
			return true
		}
		className = info.decl.Parent
	}
}

func (a *analyzer) classExists(name string) bool {
	if _, ok := a.classes[name]; ok {
		return true
	}
	return isBuiltinClass(name)
}

// classReceiverName reports the class name a Send's target refers to,
// for a Literal(class) or a capitalized Var used as a class reference.
func classReceiverName(target ast.Expression) (string, bool) {
	switch t := target.(type) {
	case *ast.Literal:
		if t.Kind == ast.LiteralClass {
			return t.Value, true
		}
	case *ast.Var:
		if isUpper(t.Name) {
			return t.Name, true
		}
	}
	return "", false
}

func isUpper(s string) bool {
	return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z'
}
