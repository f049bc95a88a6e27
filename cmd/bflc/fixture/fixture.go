// Package fixture decodes the JSON parsed-module fixture format that
// cmd/bflc check reads in place of a real parser (the lexer/parser is out
// of scope — SPEC_FULL.md §1/§7). Each node is a JSON object tagged with a
// "kind" discriminator; nested expression/statement/pattern/type-expr
// fields are decoded recursively against the same interner so repeated
// names intern to the same ident.ID.
//
// Every ast node's Span field is a promoted field of an unexported base
// struct (exprBase, stmtBase, …); Go still allows setting a promoted
// exported field from another package without naming the embedding type,
// which is how decodeX below stamps spans without any changes to package
// ast.
package fixture

import (
	"encoding/json"
	"fmt"

	"github.com/kolemannix/bfl-sub000/internal/ast"
	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/source"
)

// Decoder turns raw JSON fixture nodes into ast nodes against a shared
// identifier interner and a single source file (fixtures are single-file,
// per spec.md §1's "single-file compilation is the scope").
type Decoder struct {
	idents *ident.Interner
	file   source.FileID
	nextID int
}

// NewDecoder creates a Decoder that interns names into idents and stamps
// every node's span with file.
func NewDecoder(idents *ident.Interner, file source.FileID) *Decoder {
	return &Decoder{idents: idents, file: file}
}

func (d *Decoder) parsedID() int {
	d.nextID++
	return d.nextID
}

func (d *Decoder) span(n node) source.Span {
	return source.Span{File: d.file, Start: n.Start, End: n.End, Line: n.Line}
}

func (d *Decoder) name(s string) ident.ID {
	if s == "" {
		return ident.Invalid
	}
	return d.idents.Intern(s)
}

// node is the common envelope every fixture JSON object carries.
type node struct {
	Kind  string `json:"kind"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Line  int    `json:"line"`
}

func peek(raw json.RawMessage) (node, error) {
	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		return node{}, err
	}
	return n, nil
}

// DecodeProgram decodes a top-level fixture document into an *ast.Program.
func (d *Decoder) DecodeProgram(data []byte) (*ast.Program, error) {
	var doc struct {
		Root json.RawMessage `json:"root"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	root, err := d.DecodeNamespace(doc.Root)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Root: root}, nil
}

// DecodeNamespace decodes one namespace node, recursing into nested
// namespaces, type defs, functions, constants, abilities, and impls.
func (d *Decoder) DecodeNamespace(raw json.RawMessage) (*ast.NamespaceDefn, error) {
	var v struct {
		node
		Name       string            `json:"name"`
		Namespaces []json.RawMessage `json:"namespaces"`
		Types      []json.RawMessage `json:"types"`
		Functions  []json.RawMessage `json:"functions"`
		Constants  []json.RawMessage `json:"constants"`
		Abilities  []json.RawMessage `json:"abilities"`
		Impls      []json.RawMessage `json:"impls"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("fixture namespace: %w", err)
	}
	out := &ast.NamespaceDefn{
		ParsedID: d.parsedID(),
		Name:     d.name(v.Name),
		Span:     d.span(v.node),
	}
	for _, c := range v.Namespaces {
		child, err := d.DecodeNamespace(c)
		if err != nil {
			return nil, err
		}
		out.Namespaces = append(out.Namespaces, child)
	}
	for _, c := range v.Types {
		td, err := d.decodeTypeDefn(c)
		if err != nil {
			return nil, err
		}
		out.Types = append(out.Types, td)
	}
	for _, c := range v.Functions {
		fd, err := d.decodeFuncDefn(c)
		if err != nil {
			return nil, err
		}
		out.Functions = append(out.Functions, fd)
	}
	for _, c := range v.Constants {
		cd, err := d.decodeConstDefn(c)
		if err != nil {
			return nil, err
		}
		out.Constants = append(out.Constants, cd)
	}
	for _, c := range v.Abilities {
		ad, err := d.decodeAbilityDefn(c)
		if err != nil {
			return nil, err
		}
		out.Abilities = append(out.Abilities, ad)
	}
	for _, c := range v.Impls {
		id, err := d.decodeImplDefn(c)
		if err != nil {
			return nil, err
		}
		out.Impls = append(out.Impls, id)
	}
	return out, nil
}

func (d *Decoder) decodeTypeDefn(raw json.RawMessage) (*ast.TypeDefn, error) {
	var v struct {
		node
		Name   string          `json:"name"`
		Params []string        `json:"params"`
		RHS    json.RawMessage `json:"rhs"`
		Opaque bool            `json:"opaque"`
		Alias  bool            `json:"alias"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("fixture typedef: %w", err)
	}
	rhs, err := d.DecodeTypeExpr(v.RHS)
	if err != nil {
		return nil, err
	}
	params := make([]ident.ID, len(v.Params))
	for i, p := range v.Params {
		params[i] = d.name(p)
	}
	return &ast.TypeDefn{
		ParsedID: d.parsedID(),
		Name:     d.name(v.Name),
		Params:   params,
		RHS:      rhs,
		Opaque:   v.Opaque,
		Alias:    v.Alias,
		Span:     d.span(v.node),
	}, nil
}

func (d *Decoder) decodeFuncDefn(raw json.RawMessage) (*ast.FuncDefn, error) {
	var v struct {
		node
		Name          string `json:"name"`
		GenericParams []string
		Params        []struct {
			Name string          `json:"name"`
			Type json.RawMessage `json:"type"`
		} `json:"params"`
		ReturnType      json.RawMessage `json:"returnType"`
		Body            json.RawMessage `json:"body"`
		External        bool            `json:"external"`
		Intrinsic       bool            `json:"intrinsic"`
		IntrinsicName   string          `json:"intrinsicName"`
		MethodStyleSelf bool            `json:"methodStyleSelf"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("fixture funcdef: %w", err)
	}
	var retType ast.TypeExpr
	var err error
	if len(v.ReturnType) > 0 {
		retType, err = d.DecodeTypeExpr(v.ReturnType)
		if err != nil {
			return nil, err
		}
	}
	params := make([]ast.FuncParam, len(v.Params))
	for i, p := range v.Params {
		pt, err := d.DecodeTypeExpr(p.Type)
		if err != nil {
			return nil, err
		}
		params[i] = ast.FuncParam{Name: d.name(p.Name), Type: pt}
	}
	generic := make([]ident.ID, len(v.GenericParams))
	for i, g := range v.GenericParams {
		generic[i] = d.name(g)
	}
	var body *ast.Block
	if len(v.Body) > 0 {
		b, err := d.decodeBlockNode(v.Body)
		if err != nil {
			return nil, err
		}
		body = b
	}
	return &ast.FuncDefn{
		ParsedID:        d.parsedID(),
		Name:            d.name(v.Name),
		GenericParams:   generic,
		Params:          params,
		ReturnType:      retType,
		Body:            body,
		External:        v.External,
		Intrinsic:       v.Intrinsic,
		IntrinsicName:   v.IntrinsicName,
		MethodStyleSelf: v.MethodStyleSelf,
		Span:            d.span(v.node),
	}, nil
}

func (d *Decoder) decodeConstDefn(raw json.RawMessage) (*ast.ConstDefn, error) {
	var v struct {
		node
		Name  string          `json:"name"`
		Type  json.RawMessage `json:"type"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("fixture constdef: %w", err)
	}
	var t ast.TypeExpr
	var err error
	if len(v.Type) > 0 {
		t, err = d.DecodeTypeExpr(v.Type)
		if err != nil {
			return nil, err
		}
	}
	value, err := d.DecodeExpr(v.Value)
	if err != nil {
		return nil, err
	}
	return &ast.ConstDefn{ParsedID: d.parsedID(), Name: d.name(v.Name), Type: t, Value: value, Span: d.span(v.node)}, nil
}

func (d *Decoder) decodeAbilityDefn(raw json.RawMessage) (*ast.AbilityDefn, error) {
	var v struct {
		node
		Name      string            `json:"name"`
		Functions []json.RawMessage `json:"functions"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("fixture abilitydef: %w", err)
	}
	out := &ast.AbilityDefn{ParsedID: d.parsedID(), Name: d.name(v.Name), Span: d.span(v.node)}
	for _, f := range v.Functions {
		fd, err := d.decodeFuncDefn(f)
		if err != nil {
			return nil, err
		}
		out.Functions = append(out.Functions, fd)
	}
	return out, nil
}

func (d *Decoder) decodeImplDefn(raw json.RawMessage) (*ast.ImplDefn, error) {
	var v struct {
		node
		Ability   string            `json:"ability"`
		Target    json.RawMessage   `json:"target"`
		Functions []json.RawMessage `json:"functions"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("fixture impldef: %w", err)
	}
	target, err := d.DecodeTypeExpr(v.Target)
	if err != nil {
		return nil, err
	}
	out := &ast.ImplDefn{ParsedID: d.parsedID(), Ability: d.name(v.Ability), Target: target, Span: d.span(v.node)}
	for _, f := range v.Functions {
		fd, err := d.decodeFuncDefn(f)
		if err != nil {
			return nil, err
		}
		out.Functions = append(out.Functions, fd)
	}
	return out, nil
}

func (d *Decoder) decodeBlockNode(raw json.RawMessage) (*ast.Block, error) {
	e, err := d.DecodeExpr(raw)
	if err != nil {
		return nil, err
	}
	b, ok := e.(ast.Block)
	if !ok {
		return nil, fmt.Errorf("fixture: expected block, got %T", e)
	}
	return &b, nil
}

// DecodeExpr decodes any expression node by its "kind" discriminator,
// stamping the result's promoted Span field before returning it.
func (d *Decoder) DecodeExpr(raw json.RawMessage) (ast.Expr, error) {
	n, err := peek(raw)
	if err != nil {
		return nil, err
	}
	span := d.span(n)

	switch n.Kind {
	case "unit":
		out := ast.UnitLit{}
		out.Span = span
		return out, nil

	case "char":
		var v struct {
			Value string `json:"value"`
		}
		_ = json.Unmarshal(raw, &v)
		var r rune
		for _, c := range v.Value {
			r = c
			break
		}
		out := ast.CharLit{Value: r}
		out.Span = span
		return out, nil

	case "bool":
		var v struct {
			Value bool `json:"value"`
		}
		_ = json.Unmarshal(raw, &v)
		out := ast.BoolLit{Value: v.Value}
		out.Span = span
		return out, nil

	case "int":
		var v struct {
			Lexeme string `json:"lexeme"`
		}
		_ = json.Unmarshal(raw, &v)
		out := ast.IntLit{Lexeme: v.Lexeme}
		out.Span = span
		return out, nil

	case "str":
		var v struct {
			Value string `json:"value"`
		}
		_ = json.Unmarshal(raw, &v)
		out := ast.StrLit{Value: v.Value}
		out.Span = span
		return out, nil

	case "none":
		out := ast.NoneLit{}
		out.Span = span
		return out, nil

	case "name":
		var v struct {
			Path []string `json:"path"`
		}
		_ = json.Unmarshal(raw, &v)
		out := ast.Name{Path: d.names(v.Path)}
		out.Span = span
		return out, nil

	case "structLit":
		var v struct {
			Fields []struct {
				Name  string          `json:"name"`
				Value json.RawMessage `json:"value"`
			} `json:"fields"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		fields := make([]ast.StructLitField, len(v.Fields))
		for i, f := range v.Fields {
			val, err := d.DecodeExpr(f.Value)
			if err != nil {
				return nil, err
			}
			fields[i] = ast.StructLitField{Name: d.name(f.Name), Value: val}
		}
		out := ast.StructLit{Fields: fields}
		out.Span = span
		return out, nil

	case "arrayLit":
		var v struct {
			Elements []json.RawMessage `json:"elements"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		elems, err := d.exprs(v.Elements)
		if err != nil {
			return nil, err
		}
		out := ast.ArrayLit{Elements: elems}
		out.Span = span
		return out, nil

	case "fieldAccess":
		var v struct {
			Base  json.RawMessage `json:"base"`
			Field string          `json:"field"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		base, err := d.DecodeExpr(v.Base)
		if err != nil {
			return nil, err
		}
		out := ast.FieldAccess{Base: base, Field: d.name(v.Field)}
		out.Span = span
		return out, nil

	case "binary":
		var v struct {
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		left, err := d.DecodeExpr(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := d.DecodeExpr(v.Right)
		if err != nil {
			return nil, err
		}
		op, ok := binOps[v.Op]
		if !ok {
			return nil, fmt.Errorf("fixture: unknown binary op %q", v.Op)
		}
		out := ast.Binary{Op: op, Left: left, Right: right}
		out.Span = span
		return out, nil

	case "unary":
		var v struct {
			Op      string          `json:"op"`
			Operand json.RawMessage `json:"operand"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		operand, err := d.DecodeExpr(v.Operand)
		if err != nil {
			return nil, err
		}
		op, ok := unOps[v.Op]
		if !ok {
			return nil, fmt.Errorf("fixture: unknown unary op %q", v.Op)
		}
		out := ast.Unary{Op: op, Operand: operand}
		out.Span = span
		return out, nil

	case "block":
		var v struct {
			Statements []json.RawMessage `json:"statements"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		stmts := make([]ast.Stmt, len(v.Statements))
		for i, s := range v.Statements {
			st, err := d.DecodeStmt(s)
			if err != nil {
				return nil, err
			}
			stmts[i] = st
		}
		out := ast.Block{Statements: stmts}
		out.Span = span
		return out, nil

	case "call":
		var v struct {
			Callee      []string          `json:"callee"`
			Receiver    json.RawMessage   `json:"receiver"`
			MethodStyle bool              `json:"methodStyle"`
			Args        []json.RawMessage `json:"args"`
			TypeArgs    []json.RawMessage `json:"typeArgs"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		var receiver ast.Expr
		if len(v.Receiver) > 0 {
			r, err := d.DecodeExpr(v.Receiver)
			if err != nil {
				return nil, err
			}
			receiver = r
		}
		args := make([]ast.CallArg, len(v.Args))
		for i, a := range v.Args {
			var av struct {
				Name  string          `json:"name"`
				Value json.RawMessage `json:"value"`
			}
			if err := json.Unmarshal(a, &av); err != nil {
				return nil, err
			}
			val, err := d.DecodeExpr(av.Value)
			if err != nil {
				return nil, err
			}
			args[i] = ast.CallArg{Name: d.name(av.Name), Value: val}
		}
		typeArgs := make([]ast.TypeExpr, len(v.TypeArgs))
		for i, t := range v.TypeArgs {
			te, err := d.DecodeTypeExpr(t)
			if err != nil {
				return nil, err
			}
			typeArgs[i] = te
		}
		callee := ast.Name{Path: d.names(v.Callee)}
		callee.Span = span
		out := ast.Call{
			Callee:      callee,
			Receiver:    receiver,
			MethodStyle: v.MethodStyle,
			Args:        args,
			TypeArgs:    typeArgs,
		}
		out.Span = span
		return out, nil

	case "if":
		var v struct {
			Cond json.RawMessage `json:"cond"`
			Then json.RawMessage `json:"then"`
			Else json.RawMessage `json:"else"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		cond, err := d.DecodeExpr(v.Cond)
		if err != nil {
			return nil, err
		}
		then, err := d.DecodeExpr(v.Then)
		if err != nil {
			return nil, err
		}
		var elseExpr ast.Expr
		if len(v.Else) > 0 {
			e, err := d.DecodeExpr(v.Else)
			if err != nil {
				return nil, err
			}
			elseExpr = e
		}
		out := ast.If{Cond: cond, Then: then, Else: elseExpr}
		out.Span = span
		return out, nil

	case "match":
		var v struct {
			Scrutinee json.RawMessage `json:"scrutinee"`
			Arms      []struct {
				Pattern json.RawMessage `json:"pattern"`
				Body    json.RawMessage `json:"body"`
			} `json:"arms"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		scrutinee, err := d.DecodeExpr(v.Scrutinee)
		if err != nil {
			return nil, err
		}
		arms := make([]ast.MatchArm, len(v.Arms))
		for i, a := range v.Arms {
			pat, err := d.DecodePattern(a.Pattern)
			if err != nil {
				return nil, err
			}
			body, err := d.DecodeExpr(a.Body)
			if err != nil {
				return nil, err
			}
			arms[i] = ast.MatchArm{Pattern: pat, Body: body}
		}
		out := ast.Match{Scrutinee: scrutinee, Arms: arms}
		out.Span = span
		return out, nil

	case "index":
		var v struct {
			Base  json.RawMessage `json:"base"`
			Index json.RawMessage `json:"index"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		base, err := d.DecodeExpr(v.Base)
		if err != nil {
			return nil, err
		}
		idx, err := d.DecodeExpr(v.Index)
		if err != nil {
			return nil, err
		}
		out := ast.Index{Base: base, IndexExpr: idx}
		out.Span = span
		return out, nil

	case "tag":
		var v struct {
			Name string `json:"name"`
		}
		_ = json.Unmarshal(raw, &v)
		out := ast.Tag{Name: d.name(v.Name)}
		out.Span = span
		return out, nil

	case "enumConstruct":
		var v struct {
			Tag     string          `json:"tag"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		var payload ast.Expr
		if len(v.Payload) > 0 {
			p, err := d.DecodeExpr(v.Payload)
			if err != nil {
				return nil, err
			}
			payload = p
		}
		out := ast.EnumConstruct{Tag: d.name(v.Tag), Payload: payload}
		out.Span = span
		return out, nil

	case "is":
		var v struct {
			Scrutinee json.RawMessage `json:"scrutinee"`
			Pattern   json.RawMessage `json:"pattern"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		scrutinee, err := d.DecodeExpr(v.Scrutinee)
		if err != nil {
			return nil, err
		}
		pat, err := d.DecodePattern(v.Pattern)
		if err != nil {
			return nil, err
		}
		out := ast.Is{Scrutinee: scrutinee, Pattern: pat}
		out.Span = span
		return out, nil

	case "cast":
		var v struct {
			Inner  json.RawMessage `json:"inner"`
			Target json.RawMessage `json:"target"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		inner, err := d.DecodeExpr(v.Inner)
		if err != nil {
			return nil, err
		}
		target, err := d.DecodeTypeExpr(v.Target)
		if err != nil {
			return nil, err
		}
		out := ast.Cast{Inner: inner, Target: target}
		out.Span = span
		return out, nil

	case "return":
		var v struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		var value ast.Expr
		if len(v.Value) > 0 {
			val, err := d.DecodeExpr(v.Value)
			if err != nil {
				return nil, err
			}
			value = val
		}
		out := ast.Return{Value: value}
		out.Span = span
		return out, nil

	case "for":
		var v struct {
			Binding  string          `json:"binding"`
			Iterable json.RawMessage `json:"iterable"`
			Mode     string          `json:"mode"`
			Body     json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		iterable, err := d.DecodeExpr(v.Iterable)
		if err != nil {
			return nil, err
		}
		body, err := d.decodeBlockNode(v.Body)
		if err != nil {
			return nil, err
		}
		mode := ast.ForDo
		if v.Mode == "yield" {
			mode = ast.ForYield
		}
		out := ast.For{Binding: d.name(v.Binding), Iterable: iterable, Mode: mode, Body: *body}
		out.Span = span
		return out, nil

	case "annotated":
		var v struct {
			Inner json.RawMessage `json:"inner"`
			Type  json.RawMessage `json:"type"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		inner, err := d.DecodeExpr(v.Inner)
		if err != nil {
			return nil, err
		}
		t, err := d.DecodeTypeExpr(v.Type)
		if err != nil {
			return nil, err
		}
		out := ast.Annotated{Inner: inner, Type: t}
		out.Span = span
		return out, nil

	default:
		return nil, fmt.Errorf("fixture: unknown expr kind %q", n.Kind)
	}
}

// DecodeStmt decodes any statement node by its "kind" discriminator.
func (d *Decoder) DecodeStmt(raw json.RawMessage) (ast.Stmt, error) {
	n, err := peek(raw)
	if err != nil {
		return nil, err
	}
	span := d.span(n)

	switch n.Kind {
	case "exprStmt":
		var v struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		val, err := d.DecodeExpr(v.Value)
		if err != nil {
			return nil, err
		}
		out := ast.ExprStmt{Value: val}
		out.Span = span
		return out, nil

	case "let":
		var v struct {
			Name    string          `json:"name"`
			Type    json.RawMessage `json:"type"`
			Value   json.RawMessage `json:"value"`
			Mutable bool            `json:"mutable"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		var t ast.TypeExpr
		if len(v.Type) > 0 {
			tt, err := d.DecodeTypeExpr(v.Type)
			if err != nil {
				return nil, err
			}
			t = tt
		}
		val, err := d.DecodeExpr(v.Value)
		if err != nil {
			return nil, err
		}
		out := ast.LetStmt{Name: d.name(v.Name), Type: t, Value: val, Mutable: v.Mutable}
		out.Span = span
		return out, nil

	case "assign":
		var v struct {
			Target json.RawMessage `json:"target"`
			Value  json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		target, err := d.DecodeExpr(v.Target)
		if err != nil {
			return nil, err
		}
		val, err := d.DecodeExpr(v.Value)
		if err != nil {
			return nil, err
		}
		out := ast.AssignStmt{Target: target, Value: val}
		out.Span = span
		return out, nil

	case "while":
		var v struct {
			Cond json.RawMessage `json:"cond"`
			Body json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		cond, err := d.DecodeExpr(v.Cond)
		if err != nil {
			return nil, err
		}
		body, err := d.decodeBlockNode(v.Body)
		if err != nil {
			return nil, err
		}
		out := ast.WhileStmt{Cond: cond, Body: *body}
		out.Span = span
		return out, nil

	default:
		return nil, fmt.Errorf("fixture: unknown stmt kind %q", n.Kind)
	}
}

// DecodePattern decodes any pattern node by its "kind" discriminator.
func (d *Decoder) DecodePattern(raw json.RawMessage) (ast.Pattern, error) {
	n, err := peek(raw)
	if err != nil {
		return nil, err
	}
	span := d.span(n)

	switch n.Kind {
	case "wildcard":
		out := ast.WildcardPattern{}
		out.Span = span
		return out, nil

	case "literal":
		var v struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		val, err := d.DecodeExpr(v.Value)
		if err != nil {
			return nil, err
		}
		out := ast.LiteralPattern{Value: val}
		out.Span = span
		return out, nil

	case "variable":
		var v struct {
			Name string `json:"name"`
		}
		_ = json.Unmarshal(raw, &v)
		out := ast.VariablePattern{Name: d.name(v.Name)}
		out.Span = span
		return out, nil

	case "some":
		var v struct {
			Inner json.RawMessage `json:"inner"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		inner, err := d.DecodePattern(v.Inner)
		if err != nil {
			return nil, err
		}
		out := ast.SomePattern{Inner: inner}
		out.Span = span
		return out, nil

	case "enum":
		var v struct {
			Tag     string          `json:"tag"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		var payload ast.Pattern
		if len(v.Payload) > 0 {
			p, err := d.DecodePattern(v.Payload)
			if err != nil {
				return nil, err
			}
			payload = p
		}
		out := ast.EnumPattern{Tag: d.name(v.Tag), Payload: payload}
		out.Span = span
		return out, nil

	case "struct":
		var v struct {
			Fields []struct {
				Name    string          `json:"name"`
				Pattern json.RawMessage `json:"pattern"`
			} `json:"fields"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		fields := make([]ast.StructPatternField, len(v.Fields))
		for i, f := range v.Fields {
			p, err := d.DecodePattern(f.Pattern)
			if err != nil {
				return nil, err
			}
			fields[i] = ast.StructPatternField{Name: d.name(f.Name), Pattern: p}
		}
		out := ast.StructPattern{Fields: fields}
		out.Span = span
		return out, nil

	default:
		return nil, fmt.Errorf("fixture: unknown pattern kind %q", n.Kind)
	}
}

// DecodeTypeExpr decodes any type-syntax node by its "kind" discriminator.
func (d *Decoder) DecodeTypeExpr(raw json.RawMessage) (ast.TypeExpr, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	n, err := peek(raw)
	if err != nil {
		return nil, err
	}
	span := d.span(n)

	switch n.Kind {
	case "primitiveName":
		var v struct {
			Name string `json:"name"`
		}
		_ = json.Unmarshal(raw, &v)
		out := ast.PrimitiveNameType{Name: d.name(v.Name)}
		out.Span = span
		return out, nil

	case "intWidth":
		var v struct {
			Width  int  `json:"width"`
			Signed bool `json:"signed"`
		}
		_ = json.Unmarshal(raw, &v)
		out := ast.IntWidthType{Width: v.Width, Signed: v.Signed}
		out.Span = span
		return out, nil

	case "structLiteral":
		var v struct {
			Fields []struct {
				Name string          `json:"name"`
				Type json.RawMessage `json:"type"`
			} `json:"fields"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		fields := make([]ast.StructFieldType, len(v.Fields))
		for i, f := range v.Fields {
			t, err := d.DecodeTypeExpr(f.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = ast.StructFieldType{Name: d.name(f.Name), Type: t}
		}
		out := ast.StructLiteralType{Fields: fields}
		out.Span = span
		return out, nil

	case "nameLookup":
		var v struct {
			Name string `json:"name"`
		}
		_ = json.Unmarshal(raw, &v)
		out := ast.NameLookupType{Name: d.name(v.Name)}
		out.Span = span
		return out, nil

	case "tagLiteral":
		var v struct {
			Tag string `json:"tag"`
		}
		_ = json.Unmarshal(raw, &v)
		out := ast.TagLiteralType{Tag: d.name(v.Tag)}
		out.Span = span
		return out, nil

	case "application":
		var v struct {
			Base json.RawMessage   `json:"base"`
			Args []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		base, err := d.DecodeTypeExpr(v.Base)
		if err != nil {
			return nil, err
		}
		args := make([]ast.TypeExpr, len(v.Args))
		for i, a := range v.Args {
			at, err := d.DecodeTypeExpr(a)
			if err != nil {
				return nil, err
			}
			args[i] = at
		}
		out := ast.ApplicationType{Base: base, Args: args}
		out.Span = span
		return out, nil

	case "optional":
		var v struct {
			Inner json.RawMessage `json:"inner"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		inner, err := d.DecodeTypeExpr(v.Inner)
		if err != nil {
			return nil, err
		}
		out := ast.OptionalPostfixType{Inner: inner}
		out.Span = span
		return out, nil

	case "reference":
		var v struct {
			Inner json.RawMessage `json:"inner"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		inner, err := d.DecodeTypeExpr(v.Inner)
		if err != nil {
			return nil, err
		}
		out := ast.ReferencePostfixType{Inner: inner}
		out.Span = span
		return out, nil

	case "enumLiteral":
		var v struct {
			Variants []struct {
				Tag     string          `json:"tag"`
				Payload json.RawMessage `json:"payload"`
			} `json:"variants"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		variants := make([]ast.EnumVariantLiteral, len(v.Variants))
		for i, vv := range v.Variants {
			var payload ast.TypeExpr
			if len(vv.Payload) > 0 {
				p, err := d.DecodeTypeExpr(vv.Payload)
				if err != nil {
					return nil, err
				}
				payload = p
			}
			variants[i] = ast.EnumVariantLiteral{Tag: d.name(vv.Tag), Payload: payload}
		}
		out := ast.EnumLiteralType{Variants: variants}
		out.Span = span
		return out, nil

	case "member":
		var v struct {
			Base   json.RawMessage `json:"base"`
			Member string          `json:"member"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		base, err := d.DecodeTypeExpr(v.Base)
		if err != nil {
			return nil, err
		}
		out := ast.MemberType{Base: base, Member: d.name(v.Member)}
		out.Span = span
		return out, nil

	default:
		return nil, fmt.Errorf("fixture: unknown type-expr kind %q", n.Kind)
	}
}

func (d *Decoder) names(ss []string) []ident.ID {
	out := make([]ident.ID, len(ss))
	for i, s := range ss {
		out[i] = d.name(s)
	}
	return out
}

func (d *Decoder) exprs(raws []json.RawMessage) ([]ast.Expr, error) {
	out := make([]ast.Expr, len(raws))
	for i, r := range raws {
		e, err := d.DecodeExpr(r)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

var binOps = map[string]ast.BinOp{
	"add": ast.OpAdd, "sub": ast.OpSub, "mul": ast.OpMul, "div": ast.OpDiv, "rem": ast.OpRem,
	"lt": ast.OpLt, "lte": ast.OpLte, "gt": ast.OpGt, "gte": ast.OpGte,
	"eq": ast.OpEq, "neq": ast.OpNeq, "and": ast.OpAnd, "or": ast.OpOr,
	"optionalElse": ast.OpOptionalElse,
}

var unOps = map[string]ast.UnOp{
	"not": ast.OpNot, "ref": ast.OpRef, "deref": ast.OpDeref, "refToInt": ast.OpRefToInt,
}
