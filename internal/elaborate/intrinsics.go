package elaborate

import (
	"fmt"
	"strings"

	"github.com/kolemannix/bfl-sub000/internal/ast"
	"github.com/kolemannix/bfl-sub000/internal/typed"
)

var intrinsicByName = map[string]typed.IntrinsicTag{
	"printInt":            typed.IntrinsicPrintInt,
	"print":               typed.IntrinsicPrint,
	"exit":                typed.IntrinsicExit,
	"sizeOf":              typed.IntrinsicSizeOf,
	"alignOf":             typed.IntrinsicAlignOf,
	"crash":               typed.IntrinsicCrash,
	"string.length":       typed.IntrinsicStringLength,
	"string.fromChars":    typed.IntrinsicStringFromChars,
	"string.equals":       typed.IntrinsicStringEquals,
	"char":                typed.IntrinsicCharIntrinsic,
	"Array.length":        typed.IntrinsicArrayLength,
	"Array.capacity":      typed.IntrinsicArrayCapacity,
	"Array.grow":          typed.IntrinsicArrayGrow,
	"Array.new":           typed.IntrinsicArrayNew,
	"Array.set_length":    typed.IntrinsicArraySetLength,
	"RawPointer.asUnsafe": typed.IntrinsicRawPointerAsUnsafe,
	"Bits.not":            typed.IntrinsicBitsNot,
	"Bits.and":            typed.IntrinsicBitsAnd,
	"Bits.or":             typed.IntrinsicBitsOr,
	"Bits.xor":            typed.IntrinsicBitsXor,
	"Bits.shiftLeft":      typed.IntrinsicBitsShiftLeft,
	"Bits.shiftRight":     typed.IntrinsicBitsShiftRight,
}

// classifyIntrinsic computes the intrinsic tag for an intrinsic-linkage
// function from its declared name (IntrinsicName carries the fully
// qualified form, e.g. "Array.length", set by the parser). Unrecognized
// names are a compile error, per §4.9.
func (e *Elaborator) classifyIntrinsic(fd *ast.FuncDefn) (typed.IntrinsicTag, error) {
	key := fd.IntrinsicName
	if key == "" {
		key = e.name(fd.Name)
	}
	if strings.HasPrefix(key, "char.") {
		key = "char"
	}
	tag, ok := intrinsicByName[key]
	if !ok {
		return 0, fmt.Errorf("unknown intrinsic function %q", key)
	}
	return tag, nil
}
