package eval

import (
	"math"
	"math/cmplx"

	texprerrors "github.com/xirf/texpr/internal/errors"
	"github.com/xirf/texpr/pkg/ast"
	"github.com/xirf/texpr/pkg/environment"
	"github.com/xirf/texpr/pkg/result"
)

func (e *Evaluator) evalMatrix(n *ast.Matrix, env *environment.Environment) (result.Result, error) {
	data := make([][]complex128, len(n.Rows))
	cols := -1
	for i, row := range n.Rows {
		if cols == -1 {
			cols = len(row)
		} else if len(row) != cols {
			return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
				"matrix row %d has %d columns, expected %d", i, len(row), cols)
		}
		data[i] = make([]complex128, len(row))
		for j, cell := range row {
			v, err := e.Eval(cell, env)
			if err != nil {
				return result.Result{}, err
			}
			c, err := v.AsComplex()
			if err != nil {
				return result.Result{}, err
			}
			data[i][j] = c
		}
	}
	if cols == -1 {
		cols = 0
	}
	return result.Mat(result.Matrix{Rows: len(n.Rows), Cols: cols, Data: data}), nil
}

func negateMatrix(m result.Matrix) result.Matrix {
	out := result.Matrix{Rows: m.Rows, Cols: m.Cols, Data: make([][]complex128, m.Rows)}
	for i, row := range m.Data {
		out.Data[i] = make([]complex128, len(row))
		for j, v := range row {
			out.Data[i][j] = -v
		}
	}
	return out
}

func negateVector(v result.Vector) result.Vector {
	out := result.Vector{Components: make([]complex128, len(v.Components)), Unit: v.Unit}
	for i, c := range v.Components {
		out.Components[i] = -c
	}
	return out
}

func vectorMagnitude(v result.Vector) float64 {
	var sum complex128
	for _, c := range v.Components {
		sum += c * cmplx.Conj(c)
	}
	return math.Sqrt(real(sum))
}

func sameShape(a, b result.Matrix) bool { return a.Rows == b.Rows && a.Cols == b.Cols }

func addMatrices(a, b result.Matrix, sign complex128) (result.Matrix, error) {
	if !sameShape(a, b) {
		return result.Matrix{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
			"matrix dimension mismatch: %dx%d vs %dx%d", a.Rows, a.Cols, b.Rows, b.Cols)
	}
	out := result.Matrix{Rows: a.Rows, Cols: a.Cols, Data: make([][]complex128, a.Rows)}
	for i := range a.Data {
		out.Data[i] = make([]complex128, a.Cols)
		for j := range a.Data[i] {
			out.Data[i][j] = a.Data[i][j] + sign*b.Data[i][j]
		}
	}
	return out, nil
}

func scaleMatrix(m result.Matrix, s complex128) result.Matrix {
	out := result.Matrix{Rows: m.Rows, Cols: m.Cols, Data: make([][]complex128, m.Rows)}
	for i, row := range m.Data {
		out.Data[i] = make([]complex128, len(row))
		for j, v := range row {
			out.Data[i][j] = v * s
		}
	}
	return out
}

func multiplyMatrices(a, b result.Matrix) (result.Matrix, error) {
	if a.Cols != b.Rows {
		return result.Matrix{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
			"matrix dimension mismatch: %dx%d times %dx%d", a.Rows, a.Cols, b.Rows, b.Cols)
	}
	out := result.Matrix{Rows: a.Rows, Cols: b.Cols, Data: make([][]complex128, a.Rows)}
	for i := 0; i < a.Rows; i++ {
		out.Data[i] = make([]complex128, b.Cols)
		for j := 0; j < b.Cols; j++ {
			var sum complex128
			for k := 0; k < a.Cols; k++ {
				sum += a.Data[i][k] * b.Data[k][j]
			}
			out.Data[i][j] = sum
		}
	}
	return out, nil
}

func evalMatrixBinary(op ast.BinaryOp, left, right result.Result) (result.Result, error) {
	switch op {
	case ast.Add, ast.Sub:
		a, err := left.AsMatrix()
		if err != nil {
			return result.Result{}, err
		}
		b, err := right.AsMatrix()
		if err != nil {
			return result.Result{}, err
		}
		sign := complex(1, 0)
		if op == ast.Sub {
			sign = -1
		}
		m, err := addMatrices(a, b, sign)
		if err != nil {
			return result.Result{}, err
		}
		return result.Mat(m), nil
	case ast.Mul:
		if left.Tag == result.MatrixTag && right.Tag == result.MatrixTag {
			m, err := multiplyMatrices(left.Matrix, right.Matrix)
			if err != nil {
				return result.Result{}, err
			}
			return result.Mat(m), nil
		}
		if left.Tag == result.MatrixTag {
			s, err := right.AsComplex()
			if err != nil {
				return result.Result{}, err
			}
			return result.Mat(scaleMatrix(left.Matrix, s)), nil
		}
		s, err := left.AsComplex()
		if err != nil {
			return result.Result{}, err
		}
		return result.Mat(scaleMatrix(right.Matrix, s)), nil
	case ast.Pow:
		m, err := left.AsMatrix()
		if err != nil {
			return result.Result{}, err
		}
		n, err := right.AsNumber()
		if err != nil || n != math.Trunc(n) || n < 0 {
			return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
				"matrix exponent must be a non-negative integer")
		}
		return result.Mat(matrixPow(m, int(n))), nil
	}
	return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
		"unsupported matrix operation %s", op)
}

func matrixPow(m result.Matrix, n int) result.Matrix {
	out := identityMatrix(m.Rows)
	for i := 0; i < n; i++ {
		out, _ = multiplyMatrices(out, m)
	}
	return out
}

func identityMatrix(n int) result.Matrix {
	data := make([][]complex128, n)
	for i := range data {
		data[i] = make([]complex128, n)
		data[i][i] = 1
	}
	return result.Matrix{Rows: n, Cols: n, Data: data}
}

func evalVectorBinary(op ast.BinaryOp, left, right result.Result) (result.Result, error) {
	switch op {
	case ast.Add, ast.Sub:
		a, err := left.AsVector()
		if err != nil {
			return result.Result{}, err
		}
		b, err := right.AsVector()
		if err != nil {
			return result.Result{}, err
		}
		if len(a.Components) != len(b.Components) {
			return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
				"vector dimension mismatch: %d vs %d", len(a.Components), len(b.Components))
		}
		sign := complex(1, 0)
		if op == ast.Sub {
			sign = -1
		}
		out := make([]complex128, len(a.Components))
		for i := range out {
			out[i] = a.Components[i] + sign*b.Components[i]
		}
		return result.Vec(result.Vector{Components: out, Unit: a.Unit}), nil
	case ast.Mul:
		if left.Tag == result.VectorTag && right.Tag == result.VectorTag {
			return dotProduct(left.Vector, right.Vector)
		}
		var v result.Vector
		var s complex128
		var err error
		if left.Tag == result.VectorTag {
			v = left.Vector
			s, err = right.AsComplex()
		} else {
			v = right.Vector
			s, err = left.AsComplex()
		}
		if err != nil {
			return result.Result{}, err
		}
		out := make([]complex128, len(v.Components))
		for i, c := range v.Components {
			out[i] = c * s
		}
		return result.Vec(result.Vector{Components: out, Unit: v.Unit}), nil
	}
	return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
		"unsupported vector operation %s", op)
}

func dotProduct(a, b result.Vector) (result.Result, error) {
	if len(a.Components) != len(b.Components) {
		return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
			"dot product requires matching dimensions, got %d and %d", len(a.Components), len(b.Components))
	}
	var sum complex128
	for i := range a.Components {
		sum += a.Components[i] * b.Components[i]
	}
	return collapseComplex(sum), nil
}

func crossProduct(a, b result.Vector) (result.Result, error) {
	if len(a.Components) != 3 || len(b.Components) != 3 {
		return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
			"cross product is only defined for 3-dimensional vectors")
	}
	out := make([]complex128, 3)
	out[0] = a.Components[1]*b.Components[2] - a.Components[2]*b.Components[1]
	out[1] = a.Components[2]*b.Components[0] - a.Components[0]*b.Components[2]
	out[2] = a.Components[0]*b.Components[1] - a.Components[1]*b.Components[0]
	return result.Vec(result.Vector{Components: out}), nil
}

// determinant uses direct formulas for 1x1/2x2/3x3 and LU with partial
// pivoting otherwise.
func determinant(m result.Matrix) (complex128, error) {
	if m.Rows != m.Cols {
		return 0, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
			"determinant requires a square matrix, got %dx%d", m.Rows, m.Cols)
	}
	switch m.Rows {
	case 0:
		return 1, nil
	case 1:
		return m.Data[0][0], nil
	case 2:
		return m.Data[0][0]*m.Data[1][1] - m.Data[0][1]*m.Data[1][0], nil
	case 3:
		a, b, c := m.Data[0][0], m.Data[0][1], m.Data[0][2]
		d, e2, f := m.Data[1][0], m.Data[1][1], m.Data[1][2]
		g, h, i := m.Data[2][0], m.Data[2][1], m.Data[2][2]
		return a*(e2*i-f*h) - b*(d*i-f*g) + c*(d*h-e2*g), nil
	default:
		_, _, det, err := luDecompose(m)
		return det, err
	}
}

// luDecompose performs LU decomposition with partial pivoting, returning
// L, U (L implicitly unit-diagonal, packed into one matrix per the usual
// compact LU representation) and the determinant (product of pivots with
// the sign flips from row swaps).
func luDecompose(m result.Matrix) (lu [][]complex128, perm []int, det complex128, err error) {
	n := m.Rows
	a := make([][]complex128, n)
	for i := range a {
		a[i] = append([]complex128(nil), m.Data[i]...)
	}
	perm = make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sign := complex(1, 0)

	for k := 0; k < n; k++ {
		pivotRow, pivotVal := k, cmplx.Abs(a[k][k])
		for i := k + 1; i < n; i++ {
			if v := cmplx.Abs(a[i][k]); v > pivotVal {
				pivotRow, pivotVal = i, v
			}
		}
		if pivotVal == 0 {
			return nil, nil, 0, nil
		}
		if pivotRow != k {
			a[k], a[pivotRow] = a[pivotRow], a[k]
			perm[k], perm[pivotRow] = perm[pivotRow], perm[k]
			sign = -sign
		}
		for i := k + 1; i < n; i++ {
			factor := a[i][k] / a[k][k]
			a[i][k] = factor
			for j := k + 1; j < n; j++ {
				a[i][j] -= factor * a[k][j]
			}
		}
	}

	det = sign
	for k := 0; k < n; k++ {
		det *= a[k][k]
	}
	return a, perm, det, nil
}

// inverse computes m^-1 via the adjugate for n<=3 and LU back-substitution
// otherwise.
func inverse(m result.Matrix) (result.Matrix, error) {
	if m.Rows != m.Cols {
		return result.Matrix{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
			"inverse requires a square matrix")
	}
	d, err := determinant(m)
	if err != nil {
		return result.Matrix{}, err
	}
	if d == 0 {
		return result.Matrix{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
			"matrix is singular and has no inverse")
	}
	n := m.Rows
	if n <= 3 {
		adj := adjugate(m)
		return scaleMatrix(adj, 1/d), nil
	}

	lu, perm, _, err := luDecompose(m)
	if err != nil {
		return result.Matrix{}, err
	}
	out := make([][]complex128, n)
	for i := range out {
		out[i] = make([]complex128, n)
	}
	for col := 0; col < n; col++ {
		b := make([]complex128, n)
		b[col] = 1
		y := make([]complex128, n)
		for i := 0; i < n; i++ {
			sum := b[perm[i]]
			for j := 0; j < i; j++ {
				sum -= lu[i][j] * y[j]
			}
			y[i] = sum
		}
		x := make([]complex128, n)
		for i := n - 1; i >= 0; i-- {
			sum := y[i]
			for j := i + 1; j < n; j++ {
				sum -= lu[i][j] * x[j]
			}
			x[i] = sum / lu[i][i]
		}
		for row := 0; row < n; row++ {
			out[row][col] = x[row]
		}
	}
	return result.Matrix{Rows: n, Cols: n, Data: out}, nil
}

func adjugate(m result.Matrix) result.Matrix {
	n := m.Rows
	out := make([][]complex128, n)
	for i := range out {
		out[i] = make([]complex128, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			minor := minorMatrix(m, j, i) // transpose for cofactor->adjugate
			cof, _ := determinant(minor)
			if (i+j)%2 == 1 {
				cof = -cof
			}
			out[i][j] = cof
		}
	}
	return result.Matrix{Rows: n, Cols: n, Data: out}
}

func minorMatrix(m result.Matrix, skipRow, skipCol int) result.Matrix {
	n := m.Rows - 1
	data := make([][]complex128, 0, n)
	for i := 0; i < m.Rows; i++ {
		if i == skipRow {
			continue
		}
		row := make([]complex128, 0, n)
		for j := 0; j < m.Cols; j++ {
			if j == skipCol {
				continue
			}
			row = append(row, m.Data[i][j])
		}
		data = append(data, row)
	}
	return result.Matrix{Rows: n, Cols: n, Data: data}
}

func trace(m result.Matrix) (complex128, error) {
	if m.Rows != m.Cols {
		return 0, texprerrors.NewWithoutPosition(texprerrors.Evaluator, "trace requires a square matrix")
	}
	var sum complex128
	for i := 0; i < m.Rows; i++ {
		sum += m.Data[i][i]
	}
	return sum, nil
}
