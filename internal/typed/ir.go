package typed

import (
	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/ids"
	"github.com/kolemannix/bfl-sub000/internal/source"
)

// ExprKind tags the variant of an IR expression node. The set is
// intentionally small and explicit per §3 "IR expressions" — every switch
// over it must be exhaustive.
type ExprKind int

const (
	ExprLitUnit ExprKind = iota
	ExprLitChar
	ExprLitBool
	ExprLitInt
	ExprLitStr
	ExprLitNone
	ExprVariable
	ExprStructLit
	ExprArrayLit
	ExprFieldAccess
	ExprBinaryOp
	ExprUnaryOp
	ExprBlock
	ExprCall
	ExprIf
	ExprIndex
	ExprStringIndex
	ExprOptionalWrap
	ExprOptionalHasValue
	ExprOptionalGet
	ExprTag
	ExprEnumConstruct
	ExprEnumIsVariant
	ExprEnumGetPayload
	ExprCast
	ExprReturn
)

// Expr is any typed IR expression node. Every node knows its own static
// type, computed once during elaboration and never recomputed.
type Expr interface {
	Kind() ExprKind
	Type() ids.TypeID
	SourceSpan() source.Span
}

type Base struct {
	Typ  ids.TypeID
	Span source.Span
}

func (b Base) Type() ids.TypeID        { return b.Typ }
func (b Base) SourceSpan() source.Span { return b.Span }

// --- literals ---

type LitUnit struct{ Base }

func (LitUnit) Kind() ExprKind { return ExprLitUnit }

type LitChar struct {
	Base
	Value rune
}

func (LitChar) Kind() ExprKind { return ExprLitChar }

type LitBool struct {
	Base
	Value bool
}

func (LitBool) Kind() ExprKind { return ExprLitBool }

// LitInt carries the parsed value as a uint64 bit pattern; the static type
// (one of the eight integer TypeIds) says how to interpret it.
type LitInt struct {
	Base
	Value uint64
}

func (LitInt) Kind() ExprKind { return ExprLitInt }

type LitStr struct {
	Base
	Value string
}

func (LitStr) Kind() ExprKind { return ExprLitStr }

// LitNone is a `none` literal; Type() is always an Optional<T>.
type LitNone struct{ Base }

func (LitNone) Kind() ExprKind { return ExprLitNone }

// --- references and structure ---

// VarRef is a reference to a Variable entity by id.
type VarRef struct {
	Base
	Var ids.VariableID
}

func (VarRef) Kind() ExprKind { return ExprVariable }

type StructLitField struct {
	Name  ident.ID
	Value Expr
}

type StructLit struct {
	Base
	Fields []StructLitField
}

func (StructLit) Kind() ExprKind { return ExprStructLit }

type ArrayLit struct {
	Base
	Elements []Expr
}

func (ArrayLit) Kind() ExprKind { return ExprArrayLit }

// FieldAccess reads a struct field, or — when Base's type is an
// EnumVariant — the variant's payload (FieldName is then the reserved
// "payload" pseudo-field).
type FieldAccess struct {
	Base
	BaseExpr  Expr
	FieldName ident.ID
	Index     int
}

func (FieldAccess) Kind() ExprKind { return ExprFieldAccess }

// --- operators ---

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
)

type BinaryOp struct {
	Base
	Op          BinOp
	Left, Right Expr
}

func (BinaryOp) Kind() ExprKind { return ExprBinaryOp }

type UnOp int

const (
	OpNot UnOp = iota
	OpReference
	OpDereference
	OpReferenceToInt
)

type UnaryOp struct {
	Base
	Op   UnOp
	Expr Expr
}

func (UnaryOp) Kind() ExprKind { return ExprUnaryOp }

// --- control flow ---

type Block struct {
	Base
	Statements []Stmt
}

func (Block) Kind() ExprKind { return ExprBlock }

// CallArg is one resolved argument, stored in positional order; Name and
// Named record whether it was passed by name at the call site (kept for
// diagnostics only).
type CallArg struct {
	Value Expr
	Name  ident.ID
	Named bool
}

type Call struct {
	Base
	Callee   ids.FunctionID
	Args     []CallArg
	TypeArgs []ids.TypeID
}

func (Call) Kind() ExprKind { return ExprCall }

type If struct {
	Base
	Cond, Then, Else Expr
}

func (If) Kind() ExprKind { return ExprIf }

type Index struct {
	Base
	BaseExpr, IndexExpr Expr
}

func (Index) Kind() ExprKind { return ExprIndex }

type StringIndex struct {
	Base
	BaseExpr, IndexExpr Expr
}

func (StringIndex) Kind() ExprKind { return ExprStringIndex }

// --- optionals ---

type OptionalWrap struct {
	Base
	Inner Expr
}

func (OptionalWrap) Kind() ExprKind { return ExprOptionalWrap }

type OptionalHasValue struct {
	Base
	Inner Expr
}

func (OptionalHasValue) Kind() ExprKind { return ExprOptionalHasValue }

type OptionalGet struct {
	Base
	Inner    Expr
	Checked  bool
}

func (OptionalGet) Kind() ExprKind { return ExprOptionalGet }

// --- tags and enums ---

type Tag struct {
	Base
	Name ident.ID
}

func (Tag) Kind() ExprKind { return ExprTag }

type EnumConstruct struct {
	Base
	VariantIndex int
	Payload      Expr
}

func (EnumConstruct) Kind() ExprKind { return ExprEnumConstruct }

type EnumIsVariant struct {
	Base
	Scrutinee    Expr
	VariantIndex int
}

func (EnumIsVariant) Kind() ExprKind { return ExprEnumIsVariant }

type EnumGetPayload struct {
	Base
	Scrutinee    Expr
	VariantIndex int
}

func (EnumGetPayload) Kind() ExprKind { return ExprEnumGetPayload }

// --- cast and return ---

type Cast struct {
	Base
	Inner Expr
}

func (Cast) Kind() ExprKind { return ExprCast }

// Return's static type is always Never.
type Return struct {
	Base
	Value Expr
}

func (Return) Kind() ExprKind { return ExprReturn }

// --- statements ---

// StmtKind tags the variant of an IR statement.
type StmtKind int

const (
	StmtExprStmt StmtKind = iota
	StmtLet
	StmtAssign
	StmtWhile
)

// Stmt is any typed IR statement. Every statement carries a type, usually
// Unit except for expression statements.
type Stmt interface {
	StmtKind() StmtKind
	Type() ids.TypeID
}

type StmtBase struct {
	Typ ids.TypeID
}

func (b StmtBase) Type() ids.TypeID { return b.Typ }

type ExprStmt struct {
	StmtBase
	Value Expr
}

func (ExprStmt) StmtKind() StmtKind { return StmtExprStmt }

type LetStmt struct {
	StmtBase
	Var   ids.VariableID
	Value Expr
}

func (LetStmt) StmtKind() StmtKind { return StmtLet }

type AssignStmt struct {
	StmtBase
	Target Expr
	Value  Expr
}

func (AssignStmt) StmtKind() StmtKind { return StmtAssign }

type WhileStmt struct {
	StmtBase
	Cond Expr
	Body *Block
}

func (WhileStmt) StmtKind() StmtKind { return StmtWhile }
