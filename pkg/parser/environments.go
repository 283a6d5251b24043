package parser

import (
	"github.com/xirf/texpr/internal/command"
	"github.com/xirf/texpr/internal/token"
	"github.com/xirf/texpr/pkg/ast"
)

// parseEnvironment parses "\begin{name} row & row \\ row \end{name}",
// building either a Matrix or, for the cases environment, a Piecewise.
func (p *Parser) parseEnvironment() (ast.Expression, error) {
	p.advance() // consume \begin
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.VARIABLE)
	if err != nil {
		return nil, p.errorf("expected an environment name after \\begin{")
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	name := nameTok.Lexeme

	kind, known := command.LookupEnvironment(name)
	if !known {
		return nil, p.errorf("unknown environment %q", name)
	}

	rows, err := p.parseEnvironmentRows()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.END); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	endTok, err := p.expect(token.VARIABLE)
	if err != nil {
		return nil, p.errorf("expected an environment name after \\end{")
	}
	if endTok.Lexeme != name {
		return nil, p.errorf("\\end{%s} does not match \\begin{%s}", endTok.Lexeme, name)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}

	if kind == command.EnvCases {
		return p.buildPiecewise(rows)
	}
	return &ast.Matrix{Rows: rows, Delimiter: delimiterFor(kind)}, nil
}

func delimiterFor(kind command.EnvironmentKind) string {
	switch kind {
	case command.EnvBMatrix:
		return "b"
	case command.EnvPMatrix:
		return "p"
	case command.EnvVMatrix:
		return "v"
	default:
		return ""
	}
}

// parseEnvironmentRows reads "&"-separated cells and "\\"-separated rows
// until the next \end token.
func (p *Parser) parseEnvironmentRows() ([][]ast.Expression, error) {
	var rows [][]ast.Expression
	var row []ast.Expression
	for {
		// cases rows carry a "value & condition" pair, so cells are
		// parsed at the boolean/comparison level, not bare arithmetic.
		cell, err := p.parseBooleanOr()
		if err != nil {
			return nil, err
		}
		row = append(row, cell)
		switch p.cur().Kind {
		case token.AMPERSAND:
			p.advance()
			continue
		case token.DBLBACKSLASH:
			p.advance()
			rows = append(rows, row)
			row = nil
			if p.cur().Kind == token.END {
				return rows, nil
			}
			continue
		case token.END:
			rows = append(rows, row)
			return rows, nil
		default:
			return nil, p.errorf("expected & or \\\\ inside environment, got %s", p.cur().Kind)
		}
	}
}

func (p *Parser) buildPiecewise(rows [][]ast.Expression) (*ast.Piecewise, error) {
	cases := make([]ast.PiecewiseCase, 0, len(rows))
	for _, row := range rows {
		switch len(row) {
		case 1:
			cases = append(cases, ast.PiecewiseCase{Expr: row[0], Condition: nil})
		case 2:
			cases = append(cases, ast.PiecewiseCase{Expr: row[0], Condition: row[1]})
		default:
			return nil, p.errorf("a cases row must have exactly one or two columns")
		}
	}
	return &ast.Piecewise{Cases: cases}, nil
}
