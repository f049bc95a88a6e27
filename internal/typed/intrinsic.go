package typed

// IntrinsicTag is the fixed classification of an intrinsic-linkage
// function's fully-qualified name, per §4.9 and the built-in name table in
// §6. The code generator (out of scope here) switches on this tag rather
// than on the function's name.
type IntrinsicTag int

const (
	IntrinsicNone IntrinsicTag = iota
	IntrinsicPrintInt
	IntrinsicPrint
	IntrinsicExit
	IntrinsicSizeOf
	IntrinsicAlignOf
	IntrinsicCrash
	IntrinsicStringLength
	IntrinsicStringFromChars
	IntrinsicStringEquals
	IntrinsicCharIntrinsic
	IntrinsicArrayLength
	IntrinsicArrayCapacity
	IntrinsicArrayGrow
	IntrinsicArrayNew
	IntrinsicArraySetLength
	IntrinsicRawPointerAsUnsafe
	IntrinsicBitsNot
	IntrinsicBitsAnd
	IntrinsicBitsOr
	IntrinsicBitsXor
	IntrinsicBitsShiftLeft
	IntrinsicBitsShiftRight
)
