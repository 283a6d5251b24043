// Package result defines the tagged evaluation result sum type: Number,
// Complex, Matrix, Vector, Function, with total coercions (AsNumber
// succeeds on a real Complex, fails otherwise).
package result

import (
	"fmt"
	"math/cmplx"

	"github.com/xirf/texpr/internal/errors"
	"github.com/xirf/texpr/pkg/ast"
)

// Tag identifies which variant a Result holds.
type Tag int

const (
	NumberTag Tag = iota
	ComplexTag
	MatrixTag
	VectorTag
	FunctionTag
)

func (t Tag) String() string {
	switch t {
	case NumberTag:
		return "Number"
	case ComplexTag:
		return "Complex"
	case MatrixTag:
		return "Matrix"
	case VectorTag:
		return "Vector"
	case FunctionTag:
		return "Function"
	default:
		return "Unknown"
	}
}

// Env is the minimal lookup surface a Closure needs from its defining
// environment. environment.Environment implements this; the interface
// (rather than a direct type reference) keeps pkg/environment free to
// import pkg/result for its bindings without creating an import cycle.
type Env interface {
	Get(name string) (Result, bool)
}

// Closure is a user-defined function value: f(x, y) = body, captured
// with the parameter list of its definition. Closures sharing a defining
// AST each carry their own parameter list.
type Closure struct {
	Params []string
	Body   ast.Expression
	Env    Env
}

// Matrix is a dense, row-major matrix of (possibly complex) entries.
type Matrix struct {
	Rows, Cols int
	Data       [][]complex128
}

// Vector is a coordinate vector of (possibly complex) entries, with an
// optional physical unit string carried through from the AST.
type Vector struct {
	Components []complex128
	Unit       string
}

// Result is a tagged evaluation outcome.
type Result struct {
	Tag     Tag
	Number  float64
	Complex complex128
	Matrix  Matrix
	Vector  Vector
	Closure Closure
}

// Num builds a real-number Result.
func Num(v float64) Result { return Result{Tag: NumberTag, Number: v} }

// Cplx builds a Complex Result.
func Cplx(c complex128) Result { return Result{Tag: ComplexTag, Complex: c} }

// Mat builds a Matrix Result.
func Mat(m Matrix) Result { return Result{Tag: MatrixTag, Matrix: m} }

// Vec builds a Vector Result.
func Vec(v Vector) Result { return Result{Tag: VectorTag, Vector: v} }

// Fn builds a Function Result.
func Fn(c Closure) Result { return Result{Tag: FunctionTag, Closure: c} }

// IsReal reports whether the Result is a Number, or a Complex with a
// negligible imaginary part.
func (r Result) IsReal() bool {
	switch r.Tag {
	case NumberTag:
		return true
	case ComplexTag:
		return imagNegligible(r.Complex)
	default:
		return false
	}
}

func imagNegligible(c complex128) bool {
	return cmplx.Abs(complex(0, imag(c))) < 1e-9
}

// AsNumber is the total coercion to a real number: it succeeds on a
// Number, or on a Complex whose imaginary part is negligible; it fails
// (CoercionError) on Matrix, Vector, Function, or a genuinely complex value.
func (r Result) AsNumber() (float64, error) {
	switch r.Tag {
	case NumberTag:
		return r.Number, nil
	case ComplexTag:
		if imagNegligible(r.Complex) {
			return real(r.Complex), nil
		}
		return 0, errors.NewWithoutPosition(errors.Coercion,
			"cannot coerce complex value %v to a real number", r.Complex)
	default:
		return 0, errors.NewWithoutPosition(errors.Coercion,
			"cannot coerce %s result to a real number", r.Tag)
	}
}

// AsComplex widens Number/Complex to complex128; fails on Matrix/Vector/Function.
func (r Result) AsComplex() (complex128, error) {
	switch r.Tag {
	case NumberTag:
		return complex(r.Number, 0), nil
	case ComplexTag:
		return r.Complex, nil
	default:
		return 0, errors.NewWithoutPosition(errors.Coercion,
			"cannot coerce %s result to a complex number", r.Tag)
	}
}

// AsMatrix fails unless the Result is a Matrix.
func (r Result) AsMatrix() (Matrix, error) {
	if r.Tag != MatrixTag {
		return Matrix{}, errors.NewWithoutPosition(errors.Coercion,
			"cannot coerce %s result to a matrix", r.Tag)
	}
	return r.Matrix, nil
}

// AsVector fails unless the Result is a Vector.
func (r Result) AsVector() (Vector, error) {
	if r.Tag != VectorTag {
		return Vector{}, errors.NewWithoutPosition(errors.Coercion,
			"cannot coerce %s result to a vector", r.Tag)
	}
	return r.Vector, nil
}

// String renders a human-readable form, used in error messages and tests.
func (r Result) String() string {
	switch r.Tag {
	case NumberTag:
		return fmt.Sprintf("%g", r.Number)
	case ComplexTag:
		return fmt.Sprintf("%g%+gi", real(r.Complex), imag(r.Complex))
	case MatrixTag:
		return fmt.Sprintf("Matrix(%dx%d)", r.Matrix.Rows, r.Matrix.Cols)
	case VectorTag:
		return fmt.Sprintf("Vector(%d)", len(r.Vector.Components))
	case FunctionTag:
		return fmt.Sprintf("Function(%v)", r.Closure.Params)
	default:
		return "<invalid>"
	}
}

// NewMatrix builds a Matrix from row-major real data.
func NewMatrix(data [][]float64) Matrix {
	rows := len(data)
	cols := 0
	if rows > 0 {
		cols = len(data[0])
	}
	cd := make([][]complex128, rows)
	for i, row := range data {
		cd[i] = make([]complex128, cols)
		for j, v := range row {
			cd[i][j] = complex(v, 0)
		}
	}
	return Matrix{Rows: rows, Cols: cols, Data: cd}
}
