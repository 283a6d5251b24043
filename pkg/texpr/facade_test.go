package texpr

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xirf/texpr/pkg/result"
)

func TestEvaluateArithmeticPrecedence(t *testing.T) {
	tx := New()
	res, err := tx.Evaluate(`2 + 3 \times 4`, nil)
	require.NoError(t, err)
	v, err := res.AsNumber()
	require.NoError(t, err)
	require.Equal(t, 14.0, v)
}

func TestEvaluateWithBindings(t *testing.T) {
	tx := New()
	res, err := tx.Evaluate(`x^{2} + 1`, map[string]result.Result{"x": result.Num(3)})
	require.NoError(t, err)
	v, err := res.AsNumber()
	require.NoError(t, err)
	require.Equal(t, 10.0, v)
}

func TestEvaluateLogWithBase(t *testing.T) {
	tx := New()
	v, err := tx.EvaluateNumeric(`\log_{2}{8}`, nil)
	require.NoError(t, err)
	require.Equal(t, 3.0, v)
}

func TestEvaluateSum(t *testing.T) {
	tx := New()
	v, err := tx.EvaluateNumeric(`\sum_{i=1}^{5} i`, nil)
	require.NoError(t, err)
	require.Equal(t, 15.0, v)
}

func TestEvaluateDefiniteIntegral(t *testing.T) {
	tx := New()
	v, err := tx.EvaluateNumeric(`\int_{0}^{1} x dx`, nil)
	require.NoError(t, err)
	require.InDelta(t, 0.5, v, 1e-2)
}

func TestDifferentiateThenEvaluate(t *testing.T) {
	tx := New()
	deriv, err := tx.Differentiate(`x^{3}`, "x", 1)
	require.NoError(t, err)
	res, err := tx.EvaluateParsed(deriv, map[string]result.Result{"x": result.Num(3)})
	require.NoError(t, err)
	v, err := res.AsNumber()
	require.NoError(t, err)
	require.Equal(t, 27.0, v)
}

func TestEvaluateSqrtNegativeIsComplex(t *testing.T) {
	tx := New()
	res, err := tx.Evaluate(`\sqrt{-1}`, nil)
	require.NoError(t, err)
	c, err := res.AsComplex()
	require.NoError(t, err)
	require.InDelta(t, 0.0, real(c), 1e-9)
	require.InDelta(t, 1.0, imag(c), 1e-9)
}

func TestSolveQuadraticRoots(t *testing.T) {
	tx := New()
	roots, err := tx.SolveQuadratic(`x^2 - 1`, "x")
	require.NoError(t, err)
	require.Len(t, roots, 2)
	got := map[float64]bool{}
	for _, r := range roots {
		v, err := tx.EvaluateParsed(r, nil)
		require.NoError(t, err)
		f, err := v.AsNumber()
		require.NoError(t, err)
		got[f] = true
	}
	require.True(t, got[1])
	require.True(t, got[-1])
}

func TestEvaluateMatrixDeterminant(t *testing.T) {
	tx := New()
	v, err := tx.EvaluateNumeric(`\det{\begin{bmatrix}1&2\\3&4\end{bmatrix}}`, nil)
	require.NoError(t, err)
	require.Equal(t, -2.0, v)
}

func TestValidateReportsMissingBrace(t *testing.T) {
	tx := New()
	result := tx.Validate(`\sin{`)
	require.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	require.Contains(t, result.Errors[0].Message, "closing brace")
}

func TestCacheTransparency(t *testing.T) {
	cached := New()
	uncached := New(WithCachingDisabled())
	for _, src := range []string{`2 + 3 \times 4`, `\sum_{i=1}^{5} i`} {
		a, err := cached.Evaluate(src, nil)
		require.NoError(t, err)
		b, err := uncached.Evaluate(src, nil)
		require.NoError(t, err)
		fa, _ := a.AsNumber()
		fb, _ := b.AsNumber()
		require.Equal(t, fa, fb)
	}
}

func TestEvictionBoundAcrossManyParses(t *testing.T) {
	tx := New()
	for i := 0; i < 500; i++ {
		_, err := tx.Parse(strconv.Itoa(i) + " + 1")
		require.NoError(t, err)
	}
	stats := tx.CacheStatistics()
	require.LessOrEqual(t, stats.Parsed.Size, 128)
}

func TestClearEnvironmentDropsAssignments(t *testing.T) {
	tx := New()
	_, err := tx.Evaluate(`let y = 9`, nil)
	require.NoError(t, err)
	v, err := tx.EvaluateNumeric("y", nil)
	require.NoError(t, err)
	require.Equal(t, 9.0, v)

	tx.ClearEnvironment()
	_, err = tx.Evaluate("y", nil)
	require.Error(t, err)
}
