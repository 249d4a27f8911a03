/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package processor

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"github.com/suparena/dynamoentity/schema"
)

// Entity is a struct type with its resolved key schema.
type Entity struct {
	Decl   *TypeDecl
	Schema *schema.EntitySchema
}

// Resolve resolves the key schema of every selected type.
func (p *Package) Resolve(decls []*TypeDecl, policy schema.NamingPolicy) ([]*Entity, error) {
	entities := make([]*Entity, 0, len(decls))
	for _, td := range decls {
		fields, err := p.Fields(td)
		if err != nil {
			return nil, err
		}
		s, err := schema.Resolve(td.Name, fields, policy)
		if err != nil {
			return nil, err
		}
		entities = append(entities, &Entity{Decl: td, Schema: s})
	}
	return entities, nil
}

const (
	importAWS   = `"github.com/aws/aws-sdk-go-v2/aws"`
	importSDK   = `sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"`
	importTypes = `"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"`
)

type fileView struct {
	Package  string
	Imports  []string
	Entities []entityView
}

type entityView struct {
	Name        string
	KeyName     string
	KeyFields   []fieldView
	HashKeyName string
	BuildKey    []assignView

	Params  []fieldView
	Assigns []assignView

	FromHash     bool
	HashType     string
	FromHashKeys []assignView

	QueryPrefix   string
	HasQuery      bool
	SortAttribute string

	HasSave     bool
	SortField   string
	SortExpr    string
	SortLiteral string
}

type fieldView struct {
	Name string
	Type string
	Tag  string
}

type assignView struct {
	Name string
	Expr string
}

var fileTemplate = template.Must(template.New("entity").Parse(`// Code generated by entitygen. DO NOT EDIT.

package {{.Package}}
{{if .Imports}}
import (
{{- range .Imports}}
	{{.}}
{{- end}}
)
{{end}}
{{- range .Entities}}
// {{.KeyName}} is the primary key of {{.Name}}.
type {{.KeyName}} struct {
{{- range .KeyFields}}
	{{.Name}} {{.Type}}{{if .Tag}} ` + "`{{.Tag}}`" + `{{end}}
{{- end}}
}

// HashKeyName returns the attribute name of the {{.Name}} hash key.
func ({{.Name}}) HashKeyName() string {
	return {{printf "%q" .HashKeyName}}
}

// BuildKey returns the primary key of e.
func (e {{.Name}}) BuildKey() {{.KeyName}} {
	return {{.KeyName}}{
{{- range .BuildKey}}
		{{.Name}}: {{.Expr}},
{{- end}}
	}
}

// New{{.Name}} creates a {{.Name}} with its key values produced from the arguments.
func New{{.Name}}({{range $i, $p := .Params}}{{if $i}}, {{end}}{{$p.Name}} {{$p.Type}}{{end}}) {{.Name}} {
	return {{.Name}}{
{{- range .Assigns}}
		{{.Name}}: {{.Expr}},
{{- end}}
	}
}
{{- if .FromHash}}

// {{.KeyName}}FromHash builds the key of the {{.Name}} stored under hash.
func {{.KeyName}}FromHash(hash {{.HashType}}) {{.KeyName}} {
	return {{.KeyName}}{
{{- range .FromHashKeys}}
		{{.Name}}: {{.Expr}},
{{- end}}
	}
}
{{- end}}
{{- if .HasQuery}}

// HandleQuery narrows queries to sort keys starting with {{printf "%q" .QueryPrefix}}.
func ({{.Name}}) HandleQuery(hashKey any, input *sdk.QueryInput) *sdk.QueryInput {
	input.KeyConditionExpression = aws.String(aws.ToString(input.KeyConditionExpression) + " AND begins_with(#sk, :sk)")
	if input.ExpressionAttributeNames == nil {
		input.ExpressionAttributeNames = map[string]string{}
	}
	input.ExpressionAttributeNames["#sk"] = {{printf "%q" .SortAttribute}}
	if input.ExpressionAttributeValues == nil {
		input.ExpressionAttributeValues = map[string]types.AttributeValue{}
	}
	input.ExpressionAttributeValues[":sk"] = &types.AttributeValueMemberS{Value: {{printf "%q" .QueryPrefix}}}
	return input
}
{{- end}}
{{- if .HasSave}}

// HandleSave stores the constant sort key of {{.Name}}.
func (e *{{.Name}}) HandleSave(input *sdk.PutItemInput) *sdk.PutItemInput {
	e.{{.SortField}} = {{.SortExpr}}
	input.Item[{{printf "%q" .SortAttribute}}] = &types.AttributeValueMemberS{Value: {{printf "%q" .SortLiteral}}}
	return input
}
{{- end}}
{{end}}`))

// Render generates the formatted source of the companion file for entities.
func Render(pkgName string, entities []*Entity) ([]byte, error) {
	view := fileView{Package: pkgName}
	imports := map[string]bool{}

	for _, e := range entities {
		ev, lines := buildView(e)
		for _, line := range lines {
			imports[line] = true
		}
		view.Entities = append(view.Entities, ev)
	}
	for line := range imports {
		view.Imports = append(view.Imports, line)
	}
	sort.Strings(view.Imports)

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render template: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated source: %w\n%s", err, buf.String())
	}
	return src, nil
}

func buildView(e *Entity) (entityView, []string) {
	s := e.Schema
	td := e.Decl
	ev := entityView{
		Name:        td.Name,
		KeyName:     td.KeyName,
		HashKeyName: s.HashKeyName(),
		HashType:    s.Hash.Field.Type,
	}
	var imports []string

	keys := []*schema.KeyField{&s.Hash}
	if s.Sort != nil {
		keys = append(keys, s.Sort)
	}
	for _, k := range keys {
		ev.KeyFields = append(ev.KeyFields, fieldView{
			Name: k.Field.Name,
			Type: k.Field.Type,
			Tag:  keyTag(k, td.TagKeys),
		})
		imports = append(imports, td.importsFor(k.Field.Type)...)
	}

	hashExpr := produceExpr(s.Hash, "hash")
	ev.BuildKey = append(ev.BuildKey, assignView{Name: s.Hash.Field.Name, Expr: "e." + s.Hash.Field.Name})
	ev.Params = append(ev.Params, fieldView{Name: "hash", Type: s.Hash.Field.Type})
	ev.Assigns = append(ev.Assigns, assignView{Name: s.Hash.Field.Name, Expr: hashExpr})
	ev.FromHashKeys = append(ev.FromHashKeys, assignView{Name: s.Hash.Field.Name, Expr: hashExpr})
	ev.FromHash = true

	if sk := s.Sort; sk != nil {
		sortExpr := produceExpr(*sk, "sort")
		if sk.IsConst() {
			ev.BuildKey = append(ev.BuildKey, assignView{Name: sk.Field.Name, Expr: sortExpr})
			ev.FromHashKeys = append(ev.FromHashKeys, assignView{Name: sk.Field.Name, Expr: sortExpr})
			ev.HasSave = true
			ev.SortField = sk.Field.Name
			ev.SortExpr = sortExpr
			ev.SortLiteral = *sk.Const
		} else {
			ev.BuildKey = append(ev.BuildKey, assignView{Name: sk.Field.Name, Expr: "e." + sk.Field.Name})
			ev.Params = append(ev.Params, fieldView{Name: "sort", Type: sk.Field.Type})
			ev.FromHash = false
		}
		ev.Assigns = append(ev.Assigns, assignView{Name: sk.Field.Name, Expr: sortExpr})
		ev.SortAttribute = sk.AttributeName
		if prefix, ok := s.SortPrefix(); ok {
			ev.HasQuery = true
			ev.QueryPrefix = prefix
		}
	}

	used := map[string]bool{"hash": true, "sort": true}
	for _, f := range td.allFields() {
		if f.Name == s.Hash.Field.Name || (s.Sort != nil && f.Name == s.Sort.Field.Name) {
			continue
		}
		param := paramName(f.Name, used)
		ev.Params = append(ev.Params, fieldView{Name: param, Type: f.Type})
		ev.Assigns = append(ev.Assigns, assignView{Name: f.Name, Expr: param})
		imports = append(imports, td.importsFor(f.Type)...)
	}

	if ev.HasQuery {
		imports = append(imports, importAWS, importSDK, importTypes)
	}
	if ev.HasSave {
		imports = append(imports, importSDK, importTypes)
	}
	return ev, imports
}

// produceExpr renders the producer rule of k applied to the variable arg.
func produceExpr(k schema.KeyField, arg string) string {
	var expr string
	switch {
	case k.Const != nil:
		expr = strconv.Quote(*k.Const)
	case k.Prefix != nil:
		operand := arg
		if k.Field.Type != "string" {
			operand = "string(" + arg + ")"
		}
		expr = strconv.Quote(*k.Prefix) + " + " + operand
	default:
		return arg
	}
	if k.Field.Type != "string" {
		return k.Field.Type + "(" + expr + ")"
	}
	return expr
}

// keyTag points dynamodbav at the key attribute and copies the other tag keys of the key field.
func keyTag(k *schema.KeyField, tagKeys []string) string {
	parts := []string{fmt.Sprintf("dynamodbav:%q", k.AttributeName)}
	for _, key := range tagKeys {
		if key == "dynamodbav" {
			continue
		}
		if value, ok := k.Field.Tag.Lookup(key); ok {
			parts = append(parts, fmt.Sprintf("%s:%q", key, value))
		}
	}
	return strings.Join(parts, " ")
}

// paramName derives a unique lower camel case parameter name from a field name.
func paramName(field string, used map[string]bool) string {
	runes := []rune(field)
	i := 0
	for i < len(runes) && unicode.IsUpper(runes[i]) {
		i++
	}
	if i > 1 && i < len(runes) {
		i--
	}
	for j := 0; j < i; j++ {
		runes[j] = unicode.ToLower(runes[j])
	}

	name := string(runes)
	if token.IsKeyword(name) || used[name] {
		name += "Value"
	}
	for n := 2; used[name]; n++ {
		name = fmt.Sprintf("%s%d", string(runes), n)
	}
	used[name] = true
	return name
}
