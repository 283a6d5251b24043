package texpr

import (
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestLatexRoundTripSnapshots guards the parser+ToLatex pipeline against
// accidental rendering regressions, the same role go-snaps plays for the
// teacher's DWScript fixture corpus.
func TestLatexRoundTripSnapshots(t *testing.T) {
	tx := New()
	sources := []string{
		`2 + 3 \times 4`,
		`\frac{1}{2} + x^{2}`,
		`\sin{x}^{2} + \cos{x}^{2}`,
		`\sum_{i=1}^{5} i`,
		`\int_{0}^{1} x dx`,
	}
	for _, src := range sources {
		expr, err := tx.Parse(src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		snaps.MatchSnapshot(t, fmt.Sprintf("latex(%s)", src), expr.ToLatex())
	}
}

func TestSimplifySnapshots(t *testing.T) {
	tx := New()
	cases := []string{
		`x + 0`,
		`\sin{x}^{2} + \cos{x}^{2}`,
		`\ln{(a \times b)}`,
	}
	for _, src := range cases {
		expr, err := tx.Parse(src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		out, err := tx.Simplify(expr)
		if err != nil {
			t.Fatalf("simplify %q: %v", src, err)
		}
		snaps.MatchSnapshot(t, fmt.Sprintf("simplify(%s)", src), out.ToLatex())
	}
}
