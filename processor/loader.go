/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package processor

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/suparena/dynamoentity/errors"
	"github.com/suparena/dynamoentity/schema"
)

// Directive marks a struct type for generation when it appears as a line of
// the type's doc comment, optionally followed by key=<Name> and tags=<k1|k2>.
const Directive = "//dynamoentity:generate"

// GeneratedSuffix is appended to the package name to form the output file name.
const GeneratedSuffix = "_entity_gen.go"

// DefaultTagKeys are the struct tag keys copied onto key type fields. The
// dynamodbav tag is always written with the key attribute name.
var DefaultTagKeys = []string{"dynamodbav", "json"}

// Package is a parsed Go package.
type Package struct {
	Name  string
	Types []*TypeDecl

	// stringTypes holds the package level types whose underlying type is string
	stringTypes map[string]bool
	structs     map[string]*ast.StructType
}

// TypeDecl is one struct type declared in a package.
type TypeDecl struct {
	Name      string
	KeyName   string
	TagKeys   []string
	Directive bool

	fields  []*ast.Field
	imports map[string]string
}

// LoadDir parses the non-test Go files of dir, ignoring previously generated output.
func LoadDir(dir string) (*Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read package directory: %w", err)
	}

	fset := token.NewFileSet()
	var files []*ast.File
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") ||
			strings.HasSuffix(name, "_test.go") || strings.HasSuffix(name, GeneratedSuffix) {
			continue
		}
		file, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		files = append(files, file)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no Go files found in %s", dir)
	}

	return LoadFiles(files...)
}

// LoadSource parses a single file given as source text.
func LoadSource(filename string, src []byte) (*Package, error) {
	file, err := parser.ParseFile(token.NewFileSet(), filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return LoadFiles(file)
}

// LoadFiles collects the struct types of parsed files belonging to one package.
func LoadFiles(files ...*ast.File) (*Package, error) {
	pkg := &Package{stringTypes: map[string]bool{}, structs: map[string]*ast.StructType{}}

	for _, file := range files {
		if pkg.Name == "" {
			pkg.Name = file.Name.Name
		} else if pkg.Name != file.Name.Name {
			return nil, fmt.Errorf("found packages %s and %s in one directory", pkg.Name, file.Name.Name)
		}

		imports := importsOf(file)
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				if ident, ok := ts.Type.(*ast.Ident); ok && ident.Name == "string" {
					pkg.stringTypes[ts.Name.Name] = true
				}

				st, ok := ts.Type.(*ast.StructType)
				if !ok || ts.TypeParams != nil {
					continue
				}
				pkg.structs[ts.Name.Name] = st

				td := &TypeDecl{
					Name:    ts.Name.Name,
					KeyName: ts.Name.Name + "Key",
					TagKeys: DefaultTagKeys,
					fields:  st.Fields.List,
					imports: imports,
				}
				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}
				if err := td.applyDirective(doc); err != nil {
					return nil, err
				}
				pkg.Types = append(pkg.Types, td)
			}
		}
	}

	sort.Slice(pkg.Types, func(i, j int) bool { return pkg.Types[i].Name < pkg.Types[j].Name })
	return pkg, nil
}

// Select returns the types named in names, or the types carrying the
// directive when names is empty.
func (p *Package) Select(names []string) ([]*TypeDecl, error) {
	if len(names) == 0 {
		var selected []*TypeDecl
		for _, td := range p.Types {
			if td.Directive {
				selected = append(selected, td)
			}
		}
		return selected, nil
	}

	byName := make(map[string]*TypeDecl, len(p.Types))
	for _, td := range p.Types {
		byName[td.Name] = td
	}
	selected := make([]*TypeDecl, 0, len(names))
	for _, name := range names {
		td, ok := byName[name]
		if !ok {
			return nil, errors.NewDefinitionError(name, "", errors.ErrUnsupportedShape,
				fmt.Sprintf("no struct type %s in package %s", name, p.Name))
		}
		selected = append(selected, td)
	}
	return selected, nil
}

// Fields returns the field declarations of td in declaration order.
func (p *Package) Fields(td *TypeDecl) ([]schema.FieldDecl, error) {
	var fields []schema.FieldDecl
	index := 0
	for _, f := range td.fields {
		if len(f.Names) == 0 {
			if p.silentEmbed(f.Type, td.imports, map[string]bool{}) {
				index++
				continue
			}
			return nil, errors.NewDefinitionError(td.Name, types.ExprString(f.Type), errors.ErrUnsupportedShape,
				"embedded fields are not supported, declare named fields")
		}

		typeText := types.ExprString(f.Type)
		var tag string
		if f.Tag != nil {
			unquoted, err := strconv.Unquote(f.Tag.Value)
			if err != nil {
				return nil, errors.NewDefinitionError(td.Name, f.Names[0].Name, errors.ErrMalformedOption,
					fmt.Sprintf("invalid struct tag %s", f.Tag.Value))
			}
			tag = unquoted
		}

		for _, name := range f.Names {
			pos := index
			index++
			if !name.IsExported() {
				continue
			}
			attr, ok := schema.AttributeNameOf(name.Name, reflect.StructTag(tag))
			if !ok {
				continue
			}
			fields = append(fields, schema.FieldDecl{
				Name:          name.Name,
				Type:          typeText,
				AttributeName: attr,
				StringKind:    typeText == "string" || p.stringTypes[typeText],
				Tag:           reflect.StructTag(tag),
				Index:         pos,
			})
		}
	}
	return fields, nil
}

// silentEmbed reports whether an embedded field contributes no attributes:
// an unexported non-struct type, a local struct without exported fields, or a
// sync primitive.
func (p *Package) silentEmbed(expr ast.Expr, imports map[string]string, seen map[string]bool) bool {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}

	switch t := expr.(type) {
	case *ast.Ident:
		st, ok := p.structs[t.Name]
		if !ok {
			return !t.IsExported()
		}
		if seen[t.Name] {
			return true
		}
		seen[t.Name] = true
		for _, f := range st.Fields.List {
			if len(f.Names) == 0 {
				if !p.silentEmbed(f.Type, imports, seen) {
					return false
				}
				continue
			}
			for _, name := range f.Names {
				if name.IsExported() {
					return false
				}
			}
		}
		return true
	case *ast.SelectorExpr:
		qualifier, ok := t.X.(*ast.Ident)
		if !ok {
			return false
		}
		line := imports[qualifier.Name]
		path, err := strconv.Unquote(line[strings.LastIndex(line, " ")+1:])
		return err == nil && (path == "sync" || path == "sync/atomic")
	}
	return false
}

// allFields lists every named field of td, including those the encoder skips.
func (td *TypeDecl) allFields() []schema.FieldDecl {
	var fields []schema.FieldDecl
	for _, f := range td.fields {
		for _, name := range f.Names {
			fields = append(fields, schema.FieldDecl{Name: name.Name, Type: types.ExprString(f.Type)})
		}
	}
	return fields
}

// importsFor returns the import lines of the package qualifiers used in typeText.
func (td *TypeDecl) importsFor(typeText string) []string {
	expr, err := parser.ParseExpr(typeText)
	if err != nil {
		return nil
	}

	seen := map[string]bool{}
	var lines []string
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if x, ok := sel.X.(*ast.Ident); ok {
			if line, ok := td.imports[x.Name]; ok && !seen[line] {
				seen[line] = true
				lines = append(lines, line)
			}
		}
		return false
	})
	return lines
}

func (td *TypeDecl) applyDirective(doc *ast.CommentGroup) error {
	if doc == nil {
		return nil
	}
	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, Directive) {
			continue
		}
		rest := strings.TrimPrefix(c.Text, Directive)
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue
		}
		td.Directive = true

		for _, opt := range strings.Fields(rest) {
			key, value, ok := strings.Cut(opt, "=")
			if !ok || value == "" {
				return errors.NewDefinitionError(td.Name, "", errors.ErrMalformedOption,
					fmt.Sprintf("directive option %q must have the form key=value", opt))
			}
			switch key {
			case "key":
				if !token.IsIdentifier(value) {
					return errors.NewDefinitionError(td.Name, "", errors.ErrMalformedOption,
						fmt.Sprintf("key type name %q is not an identifier", value))
				}
				td.KeyName = value
			case "tags":
				td.TagKeys = strings.Split(value, "|")
			}
		}
	}
	return nil
}

// importsOf maps the qualifier of each import of file to its import line.
func importsOf(file *ast.File) map[string]string {
	imports := make(map[string]string, len(file.Imports))
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		qualifier := packageNameOf(path)
		line := strconv.Quote(path)
		if spec.Name != nil {
			if spec.Name.Name == "_" || spec.Name.Name == "." {
				continue
			}
			qualifier = spec.Name.Name
			line = spec.Name.Name + " " + line
		}
		imports[qualifier] = line
	}
	return imports
}

// packageNameOf guesses the package name of an import path from its last element.
func packageNameOf(path string) string {
	base := filepath.Base(path)
	if len(base) > 1 && base[0] == 'v' && strings.Trim(base[1:], "0123456789") == "" {
		base = filepath.Base(filepath.Dir(path))
	}
	if name, _, ok := strings.Cut(base, ".v"); ok {
		base = name
	}
	return base
}
