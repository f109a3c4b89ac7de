package semantic

// builtinParents encodes the fixed Object-rooted parent chain for the
// built-in classes, literally as spec'd: Nil, Integer, String, Block,
// True, and False all derive directly from Object.
var builtinParents = map[string]string{
	"Nil":     "Object",
	"Integer": "Object",
	"String":  "Object",
	"Block":   "Object",
	"True":    "Object",
	"False":   "Object",
}

// builtinMethods is the fixed built-in class/method table, encoded
// literally from the external interface contract.
var builtinMethods = map[string]map[string]bool{
	"Object": set("new", "from:", "identicalTo:", "equalTo:", "asString", "isNumber", "isString", "isBlock", "isNil"),
	"Nil":    set("asString"),
	"Integer": set("equalTo:", "greaterThan:", "plus:", "minus:", "multiplyBy:", "divBy:",
		"asString", "asInteger", "timesRepeat:"),
	"String": set("read", "print", "equalTo:", "asString", "asInteger", "concatenateWith:",
		"startsWith:", "endsBefore:"),
	"Block": set("value", "value:", "value:value:"),
	"True":  set("not", "and:", "or:", "ifTrue:ifFalse:"),
	"False": set("not", "and:", "or:", "ifTrue:ifFalse:"),
}

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

func isBuiltinClass(name string) bool {
	if name == "Object" {
		return true
	}
	_, ok := builtinParents[name]
	return ok
}

// builtinMethodLookup reports whether sel is defined on class or any
// Object-rooted built-in ancestor of it.
func builtinMethodLookup(class, sel string) bool {
	for {
		if methods, ok := builtinMethods[class]; ok && methods[sel] {
			return true
		}
		if class == "Object" {
			return false
		}
		parent, ok := builtinParents[class]
		if !ok {
			return false
		}
		class = parent
	}
}

var reservedSelectors = map[string]bool{
	"self": true, "super": true, "true": true, "false": true, "nil": true, "class": true,
}
