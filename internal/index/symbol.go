// Package index enumerates symbols from a generated rustdoc HTML tree.
//
// Symbols are never stored: every listing walks the current tree and derives
// them from filenames. rustdoc encodes the item kind and name into each
// generated file as <kind>.<name>.html, and mirrors module nesting as
// directories, so the tree alone is enough to reconstruct fully-qualified
// paths.
package index

import "strings"

// Separator joins crate, module and symbol segments in a qualified path.
const Separator = "::"

// Kind classifies a documented symbol. The set is closed: it mirrors the
// filename vocabulary rustdoc emits, nothing more.
type Kind string

const (
	KindStruct    Kind = "struct"
	KindEnum      Kind = "enum"
	KindTrait     Kind = "trait"
	KindFunction  Kind = "fn"
	KindConstant  Kind = "constant"
	KindTypeAlias Kind = "type"
	KindMacro     Kind = "macro"
	KindModule    Kind = "module"
)

// kinds maps the filename keyword to its Kind.
var kinds = map[string]Kind{
	"struct":   KindStruct,
	"enum":     KindEnum,
	"trait":    KindTrait,
	"fn":       KindFunction,
	"constant": KindConstant,
	"type":     KindTypeAlias,
	"macro":    KindMacro,
	"module":   KindModule,
}

// Symbol is one documented item derived from the tree.
type Symbol struct {
	Name string `json:"name"` // unqualified, e.g. "Foo::Bar" for nested items
	Kind Kind   `json:"kind"`
	Path string `json:"path"` // fully-qualified, e.g. "my-crate::io::Foo::Bar"
	URI  string `json:"uri"`  // rustdoc:// reference to the backing file
}

const (
	docExt         = ".html"
	entryPointFile = "index.html"
)

// ParseFilename classifies a documentation filename into a symbol kind and
// name. Returns ok=false for anything outside the <kind>.<name>.html grammar:
// the generator emits plenty of files that are not symbols (all.html,
// index.html, sidebar data) and those are expected, non-exceptional skips.
//
// rustdoc escapes path separators in names as hyphens; they are decoded back
// to the canonical "::" form.
func ParseFilename(filename string) (Kind, string, bool) {
	if !strings.HasSuffix(filename, docExt) || filename == entryPointFile {
		return "", "", false
	}

	base := strings.TrimSuffix(filename, docExt)
	keyword, name, found := strings.Cut(base, ".")
	if !found || name == "" {
		return "", "", false
	}

	kind, ok := kinds[keyword]
	if !ok {
		return "", "", false
	}

	return kind, strings.ReplaceAll(name, "-", Separator), true
}

// QualifiedPath joins the crate name, module segments and symbol name.
func QualifiedPath(crateName string, modulePath []string, name string) string {
	segments := make([]string, 0, len(modulePath)+2)
	segments = append(segments, crateName)
	segments = append(segments, modulePath...)
	segments = append(segments, name)
	return strings.Join(segments, Separator)
}
