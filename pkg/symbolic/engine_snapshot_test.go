package symbolic

import (
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/xirf/texpr/pkg/ast"
)

// TestSimplifyStepsSnapshots guards the step-trace rule names and ordering
// against regressions, mirroring the teacher's fixture-snapshot approach
// for its interpreter output.
func TestSimplifyStepsSnapshots(t *testing.T) {
	e := NewEngine()
	cases := map[string]ast.Expression{
		"pythagorean":  add(pow(call1("sin", varE("x")), num(2)), pow(call1("cos", varE("x")), num(2))),
		"zero-add":     add(num(0), varE("x")),
		"log-product":  call1("ln", mul(varE("a"), varE("b"))),
		"double-angle": call1("sin", mul(num(2), varE("x"))),
	}
	for name, expr := range cases {
		_, steps := e.SimplifyWithSteps(expr, nil)
		names := make([]string, len(steps))
		for i, s := range steps {
			names[i] = s.RuleName
		}
		snaps.MatchSnapshot(t, fmt.Sprintf("steps(%s)", name), names)
	}
}
