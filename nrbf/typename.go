package nrbf

import "strings"

// SplitAssemblyQualifiedName splits a .NET assembly-qualified type name into
// its simple type name and the trailing assembly specification, e.g.
//
//	"System.Collections.Generic.List`1[[System.String, mscorlib]], mscorlib, Version=4.0.0.0"
//
// splits at the first top-level comma (one not nested inside the `[...]`
// generic-argument brackets), since generic argument lists carry their own
// nested assembly-qualified names separated by commas that must not be
// mistaken for the outer split point. assembly is "" if s has no comma.
func SplitAssemblyQualifiedName(s string) (typeName, assembly string) {
	depth := 0
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
			}
		}
	}
	return s, ""
}
