package ast

import (
	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/source"
)

// Stmt is any parsed statement node.
type Stmt interface {
	isStmt()
	SourceSpan() source.Span
}

type stmtBase struct {
	Span source.Span
}

func (stmtBase) isStmt() {}
func (b stmtBase) SourceSpan() source.Span { return b.Span }

type ExprStmt struct {
	stmtBase
	Value Expr
}

type LetStmt struct {
	stmtBase
	Name    ident.ID
	Type    TypeExpr // nil if the type is to be inferred from Value
	Value   Expr
	Mutable bool
}

type AssignStmt struct {
	stmtBase
	Target Expr
	Value  Expr
}

type WhileStmt struct {
	stmtBase
	Cond Expr
	Body Block
}
