package ast

import (
	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/source"
)

// Expr is any parsed expression node, per §3 and §4.4.
type Expr interface {
	isExpr()
	SourceSpan() source.Span
}

type exprBase struct {
	Span source.Span
}

func (exprBase) isExpr() {}
func (b exprBase) SourceSpan() source.Span { return b.Span }

type UnitLit struct{ exprBase }

type CharLit struct {
	exprBase
	Value rune
}

type BoolLit struct {
	exprBase
	Value bool
}

// IntLit carries the raw lexeme (e.g. "0x2A", "0b101", "42") so the
// elaborator can parse it in the base implied by its prefix once the
// expected integer width/sign is known.
type IntLit struct {
	exprBase
	Lexeme string
}

type StrLit struct {
	exprBase
	Value string
}

type NoneLit struct{ exprBase }

// Name is a possibly-qualified reference, e.g. `x` or `geo::shapes::area`.
type Name struct {
	exprBase
	Path []ident.ID
}

type StructLitField struct {
	Name  ident.ID
	Value Expr
}

type StructLit struct {
	exprBase
	Fields []StructLitField
}

type ArrayLit struct {
	exprBase
	Elements []Expr
}

type FieldAccess struct {
	exprBase
	Base  Expr
	Field ident.ID
}

// BinOp is the parsed binary operator set, including the sugar forms the
// elaborator lowers (OptionalElse).
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpLt
	OpLte
	OpGt
	OpGte
	OpEq
	OpNeq
	OpAnd
	OpOr
	OpOptionalElse
)

type Binary struct {
	exprBase
	Op          BinOp
	Left, Right Expr
}

type UnOp int

const (
	OpNot UnOp = iota
	OpRef
	OpDeref
	OpRefToInt
)

type Unary struct {
	exprBase
	Op      UnOp
	Operand Expr
}

type Block struct {
	exprBase
	Statements []Stmt
}

// CallArg is one parsed call argument, positional unless Name is set.
type CallArg struct {
	Name  ident.ID // Invalid if positional
	Value Expr
}

// Call is a function or method call. MethodStyle marks `recv.f(args)` form:
// Receiver holds recv, the last component of Callee's path is the method
// name, and Args holds only the remaining arguments (never the receiver).
type Call struct {
	exprBase
	Callee      Name
	Receiver    Expr // nil for free/qualified calls
	MethodStyle bool
	Args        []CallArg
	TypeArgs    []TypeExpr
}

type If struct {
	exprBase
	Cond, Then, Else Expr // Else nil if absent
}

type MatchArm struct {
	Pattern Pattern
	Body    Expr
}

type Match struct {
	exprBase
	Scrutinee Expr
	Arms      []MatchArm
}

type Index struct {
	exprBase
	Base, IndexExpr Expr
}

// Tag is a bare `.Name` literal in value position.
type Tag struct {
	exprBase
	Name ident.ID
}

// EnumConstruct is `.Tag(payload)` or `.Tag` in a position where an enum
// or enum-variant type is expected.
type EnumConstruct struct {
	exprBase
	Tag     ident.ID
	Payload Expr // nil if the variant carries no payload
}

// Is is `expr is Pattern`, legal both standalone and as an if-condition.
type Is struct {
	exprBase
	Scrutinee Expr
	Pattern   Pattern
}

type Cast struct {
	exprBase
	Inner  Expr
	Target TypeExpr
}

type Return struct {
	exprBase
	Value Expr // nil for a bare `return`
}

// ForMode distinguishes `for … do { }` (discard results) from
// `for … yield { }` (collect into an array), per §4.7.
type ForMode int

const (
	ForDo ForMode = iota
	ForYield
)

type For struct {
	exprBase
	Binding  ident.ID // Invalid means the default name `it`
	Iterable Expr
	Mode     ForMode
	Body     Block
}

// Annotated wraps an expression with an explicit `: T` type annotation,
// which the elaborator consults before inheriting any outer expected type
// (§4.4 rule 1).
type Annotated struct {
	exprBase
	Inner Expr
	Type  TypeExpr
}
