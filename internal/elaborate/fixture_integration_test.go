package elaborate

import (
	"testing"

	"github.com/kolemannix/bfl-sub000/cmd/bflc/fixture"
	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/ids"
	"github.com/kolemannix/bfl-sub000/internal/source"
	"github.com/kolemannix/bfl-sub000/internal/typed"
	"github.com/kolemannix/bfl-sub000/internal/types"
)

// elaborateJSON decodes a fixture document and runs it through a fresh
// Elaborator, mirroring the teacher's lex/parse/analyze test helper but
// with a JSON fixture standing in for source text (§1: parsing is out of
// scope).
func elaborateJSON(t *testing.T, doc string) *typed.TypedModule {
	t.Helper()
	files := source.NewFiles()
	fileID := files.Add("fixture.json", doc)
	idents := ident.New()
	program, err := fixture.NewDecoder(idents, fileID).DecodeProgram([]byte(doc))
	if err != nil {
		t.Fatalf("failed to decode fixture: %v", err)
	}
	return New(idents, files).Elaborate(program)
}

func TestElaborateSimpleFunctionSucceeds(t *testing.T) {
	doc := `{
		"root": {
			"kind": "namespace",
			"name": "",
			"functions": [{
				"kind": "func",
				"name": "add",
				"params": [
					{"name": "x", "type": {"kind": "intWidth", "width": 64, "signed": true}},
					{"name": "y", "type": {"kind": "intWidth", "width": 64, "signed": true}}
				],
				"returnType": {"kind": "intWidth", "width": 64, "signed": true},
				"body": {
					"kind": "block",
					"statements": [{
						"kind": "exprStmt",
						"value": {
							"kind": "binary",
							"op": "add",
							"left": {"kind": "name", "path": ["x"]},
							"right": {"kind": "name", "path": ["y"]}
						}
					}]
				}
			}]
		}
	}`

	m := elaborateJSON(t, doc)
	if !m.Succeeded() {
		t.Fatalf("expected elaboration to succeed, got errors: %v", m.Errors)
	}
	if len(m.Functions) == 0 {
		t.Fatalf("expected at least one declared function")
	}
}

func TestElaborateIfWithNonBoolConditionFails(t *testing.T) {
	doc := `{
		"root": {
			"kind": "namespace",
			"name": "",
			"functions": [{
				"kind": "func",
				"name": "bad",
				"returnType": {"kind": "primitiveName", "name": "Unit"},
				"body": {
					"kind": "block",
					"statements": [{
						"kind": "exprStmt",
						"value": {
							"kind": "if",
							"cond": {"kind": "int", "lexeme": "1"},
							"then": {"kind": "block", "statements": []}
						}
					}]
				}
			}]
		}
	}`

	m := elaborateJSON(t, doc)
	if m.Succeeded() {
		t.Fatalf("expected elaboration to fail on a non-Bool if condition")
	}
}

func TestElaborateForYieldOverArrayProducesArrayResult(t *testing.T) {
	doc := `{
		"root": {
			"kind": "namespace",
			"name": "",
			"functions": [{
				"kind": "func",
				"name": "doubleAll",
				"params": [
					{"name": "xs", "type": {"kind": "application", "base": {"kind": "nameLookup", "name": "Array"}, "args": [{"kind": "intWidth", "width": 64, "signed": true}]}}
				],
				"returnType": {"kind": "application", "base": {"kind": "nameLookup", "name": "Array"}, "args": [{"kind": "intWidth", "width": 64, "signed": true}]},
				"body": {
					"kind": "block",
					"statements": [{
						"kind": "exprStmt",
						"value": {
							"kind": "for",
							"binding": "it",
							"mode": "yield",
							"iterable": {"kind": "name", "path": ["xs"]},
							"body": {
								"kind": "block",
								"statements": [{
									"kind": "exprStmt",
									"value": {
										"kind": "binary",
										"op": "add",
										"left": {"kind": "name", "path": ["it"]},
										"right": {"kind": "name", "path": ["it"]}
									}
								}]
							}
						}
					}]
				}
			}]
		}
	}`

	m := elaborateJSON(t, doc)
	if !m.Succeeded() {
		t.Fatalf("expected for-yield elaboration to succeed, got errors: %v", m.Errors)
	}
}

// TestElaborateGenericFunctionSpecializesAtConcreteCallSite covers E1: a
// concrete call to a generic function installs exactly one specialization,
// and the call site's Callee points at it.
func TestElaborateGenericFunctionSpecializesAtConcreteCallSite(t *testing.T) {
	doc := `{
		"root": {
			"kind": "namespace",
			"name": "",
			"functions": [
				{
					"kind": "func",
					"name": "id",
					"genericParams": ["T"],
					"params": [{"name": "x", "type": {"kind": "nameLookup", "name": "T"}}],
					"returnType": {"kind": "nameLookup", "name": "T"},
					"body": {
						"kind": "block",
						"statements": [{"kind": "exprStmt", "value": {"kind": "name", "path": ["x"]}}]
					}
				},
				{
					"kind": "func",
					"name": "main",
					"returnType": {"kind": "intWidth", "width": 64, "signed": true},
					"body": {
						"kind": "block",
						"statements": [{
							"kind": "exprStmt",
							"value": {
								"kind": "call",
								"callee": ["id"],
								"typeArgs": [{"kind": "intWidth", "width": 64, "signed": true}],
								"args": [{"value": {"kind": "int", "lexeme": "3"}}]
							}
						}]
					}
				}
			]
		}
	}`

	m := elaborateJSON(t, doc)
	if !m.Succeeded() {
		t.Fatalf("expected elaboration to succeed, got errors: %v", m.Errors)
	}

	var generic *typed.Function
	for i := range m.Functions {
		if m.Idents.Name(m.Functions[i].Name) == "id" && m.Functions[i].IsGeneric() {
			generic = &m.Functions[i]
		}
	}
	if generic == nil {
		t.Fatalf("expected to find generic function id")
	}
	if len(generic.Specializations) != 1 {
		t.Fatalf("expected exactly one specialization of id, got %d", len(generic.Specializations))
	}
	specID := generic.Specializations[0]
	spec := m.Function(specID)
	if spec.ReturnType != types.I64 {
		t.Fatalf("expected specialization's return type to be I64, got type #%d", spec.ReturnType)
	}
	if spec.Body == nil {
		t.Fatalf("expected the specialization's body to be elaborated")
	}

	var main *typed.Function
	for i := range m.Functions {
		if m.Idents.Name(m.Functions[i].Name) == "main" {
			main = &m.Functions[i]
		}
	}
	if main == nil || main.Body == nil {
		t.Fatalf("expected main to have an elaborated body")
	}
	stmt, ok := main.Body.Statements[0].(typed.ExprStmt)
	if !ok {
		t.Fatalf("expected main's body to be a single expression statement, got %T", main.Body.Statements[0])
	}
	call, ok := stmt.Value.(typed.Call)
	if !ok {
		t.Fatalf("expected main's statement to be a call, got %T", stmt.Value)
	}
	if call.Callee != specID {
		t.Fatalf("expected main's call to target specialization %d, got %d", specID, call.Callee)
	}
}

// TestElaborateNestedGenericCallDoesNotSpecializePrematurely covers the
// §4.5 "fully concrete" rule: a generic call inside another generic
// function's still-unelaborated-for-real template body must not specialize
// against the outer function's own type variable.
func TestElaborateNestedGenericCallDoesNotSpecializePrematurely(t *testing.T) {
	doc := `{
		"root": {
			"kind": "namespace",
			"name": "",
			"functions": [
				{
					"kind": "func",
					"name": "id",
					"genericParams": ["T"],
					"params": [{"name": "x", "type": {"kind": "nameLookup", "name": "T"}}],
					"returnType": {"kind": "nameLookup", "name": "T"},
					"body": {
						"kind": "block",
						"statements": [{"kind": "exprStmt", "value": {"kind": "name", "path": ["x"]}}]
					}
				},
				{
					"kind": "func",
					"name": "wrap",
					"genericParams": ["U"],
					"params": [{"name": "y", "type": {"kind": "nameLookup", "name": "U"}}],
					"returnType": {"kind": "nameLookup", "name": "U"},
					"body": {
						"kind": "block",
						"statements": [{
							"kind": "exprStmt",
							"value": {
								"kind": "call",
								"callee": ["id"],
								"typeArgs": [{"kind": "nameLookup", "name": "U"}],
								"args": [{"value": {"kind": "name", "path": ["y"]}}]
							}
						}]
					}
				}
			]
		}
	}`

	m := elaborateJSON(t, doc)
	if !m.Succeeded() {
		t.Fatalf("expected wrap's template body to elaborate cleanly, got errors: %v", m.Errors)
	}

	var generic *typed.Function
	for i := range m.Functions {
		if m.Idents.Name(m.Functions[i].Name) == "id" && m.Functions[i].IsGeneric() {
			generic = &m.Functions[i]
		}
	}
	if generic == nil {
		t.Fatalf("expected to find generic function id")
	}
	if len(generic.Specializations) != 0 {
		t.Fatalf("expected id to have zero specializations (U is not concrete), got %d", len(generic.Specializations))
	}

	var wrap *typed.Function
	for i := range m.Functions {
		if m.Idents.Name(m.Functions[i].Name) == "wrap" {
			wrap = &m.Functions[i]
		}
	}
	if wrap == nil || wrap.Body == nil {
		t.Fatalf("expected wrap's template body to be elaborated eagerly")
	}
	stmt := wrap.Body.Statements[0].(typed.ExprStmt)
	call, ok := stmt.Value.(typed.Call)
	if !ok {
		t.Fatalf("expected wrap's statement to be a call, got %T", stmt.Value)
	}
	genericID := functionIDByName(m, "id")
	if call.Callee != genericID {
		t.Fatalf("expected the unspecialized call to still target id's generic FunctionID %d, got %d", genericID, call.Callee)
	}
	if len(call.TypeArgs) != 1 || !types.ContainsTypeVariable(m.Types, call.TypeArgs[0]) {
		t.Fatalf("expected the call's retained TypeArgs to still reference U's type variable, got %v", call.TypeArgs)
	}
}

// functionIDByName looks up a function's FunctionID by name, for tests that
// need to compare a call's Callee against the unspecialized generic
// function rather than walking *typed.Function pointers.
func functionIDByName(m *typed.TypedModule, name string) ids.FunctionID {
	for i := range m.Functions {
		if m.Idents.Name(m.Functions[i].Name) == name {
			return ids.FunctionID(i)
		}
	}
	return 0
}

// TestElaborateMatchOverEnumLowersToIfChain covers E3: a match over an
// enum with a payload-carrying variant and a bare variant elaborates
// successfully with the arms' common type as the match's type.
func TestElaborateMatchOverEnumLowersToIfChain(t *testing.T) {
	doc := `{
		"root": {
			"kind": "namespace",
			"name": "",
			"types": [{
				"name": "Shape",
				"rhs": {
					"kind": "enumLiteral",
					"variants": [
						{"tag": "Circle", "payload": {"kind": "intWidth", "width": 64, "signed": true}},
						{"tag": "Square"}
					]
				}
			}],
			"functions": [{
				"kind": "func",
				"name": "area",
				"params": [{"name": "s", "type": {"kind": "nameLookup", "name": "Shape"}}],
				"returnType": {"kind": "intWidth", "width": 64, "signed": true},
				"body": {
					"kind": "block",
					"statements": [{
						"kind": "exprStmt",
						"value": {
							"kind": "match",
							"scrutinee": {"kind": "name", "path": ["s"]},
							"arms": [
								{
									"pattern": {"kind": "enum", "tag": "Circle", "payload": {"kind": "variable", "name": "r"}},
									"body": {"kind": "binary", "op": "mul", "left": {"kind": "name", "path": ["r"]}, "right": {"kind": "name", "path": ["r"]}}
								},
								{
									"pattern": {"kind": "enum", "tag": "Square"},
									"body": {"kind": "int", "lexeme": "1"}
								}
							]
						}
					}]
				}
			}]
		}
	}`

	m := elaborateJSON(t, doc)
	if !m.Succeeded() {
		t.Fatalf("expected match elaboration to succeed, got errors: %v", m.Errors)
	}

	area := m.Function(functionIDByName(m, "area"))
	if area.Body == nil {
		t.Fatalf("expected area to have an elaborated body")
	}
	lowered, ok := area.Body.Statements[0].(typed.ExprStmt).Value.(typed.Block)
	if !ok {
		t.Fatalf("expected the match to lower to a block binding its scrutinee, got %T", area.Body.Statements[0].(typed.ExprStmt).Value)
	}
	chain, ok := lowered.Statements[len(lowered.Statements)-1].(typed.ExprStmt).Value.(typed.If)
	if !ok {
		t.Fatalf("expected the lowered match to end in an if/else chain")
	}
	if _, ok := chain.Else.(typed.If); !ok {
		t.Fatalf("expected the second arm to form the next link of the chain, got %T", chain.Else)
	}
	if chain.Type() != types.I64 {
		t.Fatalf("expected the match's type to be I64, got type #%d", chain.Type())
	}
}

// TestElaborateAbilityCallResolvesToImpl covers E5: a free call whose name
// matches an ability's signature resolves through the ability-definition
// scope to the concrete impl for the argument's type.
func TestElaborateAbilityCallResolvesToImpl(t *testing.T) {
	doc := `{
		"root": {
			"kind": "namespace",
			"name": "",
			"abilities": [{
				"name": "Printable",
				"functions": [{
					"kind": "func",
					"name": "show",
					"params": [{"name": "self", "type": {"kind": "nameLookup", "name": "Self"}}],
					"returnType": {"kind": "primitiveName", "name": "String"}
				}]
			}],
			"impls": [{
				"ability": "Printable",
				"target": {"kind": "intWidth", "width": 64, "signed": true},
				"functions": [{
					"kind": "func",
					"name": "show",
					"params": [{"name": "self", "type": {"kind": "intWidth", "width": 64, "signed": true}}],
					"returnType": {"kind": "primitiveName", "name": "String"},
					"body": {
						"kind": "block",
						"statements": [{"kind": "exprStmt", "value": {"kind": "str", "value": "int"}}]
					}
				}]
			}],
			"functions": [{
				"kind": "func",
				"name": "main",
				"returnType": {"kind": "primitiveName", "name": "String"},
				"body": {
					"kind": "block",
					"statements": [{
						"kind": "exprStmt",
						"value": {"kind": "call", "callee": ["show"], "args": [{"value": {"kind": "int", "lexeme": "42"}}]}
					}]
				}
			}]
		}
	}`

	m := elaborateJSON(t, doc)
	if !m.Succeeded() {
		t.Fatalf("expected ability call elaboration to succeed, got errors: %v", m.Errors)
	}

	var main *typed.Function
	for i := range m.Functions {
		if m.Idents.Name(m.Functions[i].Name) == "main" {
			main = &m.Functions[i]
		}
	}
	if main == nil || main.Body == nil {
		t.Fatalf("expected main to have an elaborated body")
	}
	stmt := main.Body.Statements[0].(typed.ExprStmt)
	call, ok := stmt.Value.(typed.Call)
	if !ok {
		t.Fatalf("expected main's statement to be a call, got %T", stmt.Value)
	}
	impl := m.Function(call.Callee)
	if impl.Meta != typed.MetaAbilityImplFunction {
		t.Fatalf("expected the call to resolve to an ability impl function, got Meta=%v", impl.Meta)
	}
	if len(call.Args) != 1 || call.Args[0].Value.Type() != types.I64 {
		t.Fatalf("expected the single argument to have type I64, got %+v", call.Args)
	}
}

// TestElaborateOptionalElseLowersToIfElse covers E6: `x else 0` on a None
// optional elaborates to Int.
func TestElaborateOptionalElseLowersToIfElse(t *testing.T) {
	doc := `{
		"root": {
			"kind": "namespace",
			"name": "",
			"functions": [{
				"kind": "func",
				"name": "fallback",
				"returnType": {"kind": "intWidth", "width": 64, "signed": true},
				"body": {
					"kind": "block",
					"statements": [
						{
							"kind": "let",
							"name": "x",
							"type": {"kind": "optional", "inner": {"kind": "intWidth", "width": 64, "signed": true}},
							"value": {"kind": "none"}
						},
						{
							"kind": "exprStmt",
							"value": {
								"kind": "binary",
								"op": "optionalElse",
								"left": {"kind": "name", "path": ["x"]},
								"right": {"kind": "int", "lexeme": "0"}
							}
						}
					]
				}
			}]
		}
	}`

	m := elaborateJSON(t, doc)
	if !m.Succeeded() {
		t.Fatalf("expected optional-else elaboration to succeed, got errors: %v", m.Errors)
	}

	fallback := m.Function(functionIDByName(m, "fallback"))
	if fallback.Body == nil || len(fallback.Body.Statements) != 2 {
		t.Fatalf("expected fallback to have a two-statement body")
	}
	lowered, ok := fallback.Body.Statements[1].(typed.ExprStmt).Value.(typed.If)
	if !ok {
		t.Fatalf("expected `x else 0` to lower to an if/else, got %T", fallback.Body.Statements[1].(typed.ExprStmt).Value)
	}
	if _, ok := lowered.Cond.(typed.OptionalHasValue); !ok {
		t.Fatalf("expected the condition to test whether x has a value, got %T", lowered.Cond)
	}
	if get, ok := lowered.Then.(typed.OptionalGet); !ok || get.Checked {
		t.Fatalf("expected the then branch to be an unchecked optional get, got %+v", lowered.Then)
	}
	if lowered.Type() != types.I64 {
		t.Fatalf("expected the lowered expression to have type I64, got type #%d", lowered.Type())
	}
}

// TestElaborateGenericStructSharesOneSpecializationAcrossUseSites covers
// E7: two independent uses of the same generic struct applied to the same
// concrete type arguments resolve to one shared specialized TypeId.
func TestElaborateGenericStructSharesOneSpecializationAcrossUseSites(t *testing.T) {
	doc := `{
		"root": {
			"kind": "namespace",
			"name": "",
			"types": [{
				"name": "Pair",
				"params": ["A", "B"],
				"rhs": {
					"kind": "structLiteral",
					"fields": [
						{"name": "a", "type": {"kind": "nameLookup", "name": "A"}},
						{"name": "b", "type": {"kind": "nameLookup", "name": "B"}}
					]
				}
			}],
			"functions": [{
				"kind": "func",
				"name": "main",
				"returnType": {"kind": "primitiveName", "name": "Unit"},
				"body": {
					"kind": "block",
					"statements": [
						{
							"kind": "let",
							"name": "p1",
							"type": {
								"kind": "application",
								"base": {"kind": "nameLookup", "name": "Pair"},
								"args": [{"kind": "intWidth", "width": 64, "signed": true}, {"kind": "primitiveName", "name": "Bool"}]
							},
							"value": {"kind": "structLit", "fields": [
								{"name": "a", "value": {"kind": "int", "lexeme": "1"}},
								{"name": "b", "value": {"kind": "bool", "value": true}}
							]}
						},
						{
							"kind": "let",
							"name": "p2",
							"type": {
								"kind": "application",
								"base": {"kind": "nameLookup", "name": "Pair"},
								"args": [{"kind": "intWidth", "width": 64, "signed": true}, {"kind": "primitiveName", "name": "Bool"}]
							},
							"value": {"kind": "structLit", "fields": [
								{"name": "a", "value": {"kind": "int", "lexeme": "2"}},
								{"name": "b", "value": {"kind": "bool", "value": false}}
							]}
						}
					]
				}
			}]
		}
	}`

	m := elaborateJSON(t, doc)
	if !m.Succeeded() {
		t.Fatalf("expected generic struct elaboration to succeed, got errors: %v", m.Errors)
	}

	pairID, ok := m.Scopes.FindType(m.RootScope, m.Idents.Intern("Pair"))
	if !ok {
		t.Fatalf("expected Pair to be registered in the root scope")
	}
	generic, ok := m.Types.Get(pairID).(*types.GenericType)
	if !ok {
		t.Fatalf("expected Pair to be a GenericType, got %T", m.Types.Get(pairID))
	}
	if len(generic.Specializations) != 1 {
		t.Fatalf("expected Pair<Int,Bool> to be specialized exactly once, got %d specializations", len(generic.Specializations))
	}
}
