// Package builtin holds the fixed registry of primitive operation tags
// the interpreter dispatches on. It carries no logic of its own — only
// the set of valid tags and which of them are lazy — so that the
// interpreter's name resolution and its dispatch agree on what counts as
// a builtin.
package builtin

// Tags, matching the symbols cell expressions can call by name.
const (
	Add    = "+"
	Sub    = "-"
	Mul    = "*"
	Negate = "negate"
	Push   = "push"
	Read   = "read"
	Index  = "index"
	Dot    = "dot"
	Lt     = "<"
	Gt     = ">"
	Le     = "<="
	Ge     = ">="
	Eq     = "=="
	And    = "and"
	Or     = "or"
	Not    = "not"
	If     = "if"
	Map    = "map"
	Fold   = "fold"
	Filter = "filter"
)

// lazy holds the builtins that receive unevaluated argument expressions
// instead of values: and/or short-circuit, if never evaluates the branch
// it doesn't take.
var lazy = map[string]bool{
	And: true,
	Or:  true,
	If:  true,
}

var tags = map[string]bool{
	Add: true, Sub: true, Mul: true, Negate: true,
	Push: true, Read: true, Index: true, Dot: true,
	Lt: true, Gt: true, Le: true, Ge: true, Eq: true,
	And: true, Or: true, Not: true, If: true,
	Map: true, Fold: true, Filter: true,
}

// Lookup reports whether name is a builtin tag.
func Lookup(name string) bool {
	return tags[name]
}

// IsLazy reports whether the builtin tag receives raw expressions rather
// than evaluated arguments.
func IsLazy(tag string) bool {
	return lazy[tag]
}
