package ast

import (
	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/source"
)

// Pattern is any parsed pattern node, per §4.6.
type Pattern interface {
	isPattern()
	SourceSpan() source.Span
}

type patternBase struct {
	Span source.Span
}

func (patternBase) isPattern() {}
func (b patternBase) SourceSpan() source.Span { return b.Span }

type WildcardPattern struct{ patternBase }

// LiteralPattern matches unit/none/char/integer/bool/string literals.
type LiteralPattern struct {
	patternBase
	Value Expr
}

type VariablePattern struct {
	patternBase
	Name ident.ID
}

// SomePattern matches `Some(p)` against an Optional<T> scrutinee.
type SomePattern struct {
	patternBase
	Inner Pattern
}

// EnumPattern matches `.Tag` or `.Tag(p)` against an enum scrutinee.
type EnumPattern struct {
	patternBase
	Tag     ident.ID
	Payload Pattern // nil if the variant carries no payload, or none bound
}

// StructPatternField is one `field: p` entry of a struct pattern.
type StructPatternField struct {
	Name    ident.ID
	Pattern Pattern
}

type StructPattern struct {
	patternBase
	Fields []StructPatternField
}
