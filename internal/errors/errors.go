// Package errors implements texpr's error taxonomy: TokenizerError,
// ParserError, EvaluatorError and CoercionError, unified as one
// Kind-tagged struct so callers can collect a homogeneous slice in
// strict parse mode.
package errors

import (
	"fmt"
	"strings"

	"github.com/xirf/texpr/internal/token"
)

// Kind classifies which stage raised the error.
type Kind int

const (
	Tokenizer Kind = iota
	Parser
	Evaluator
	Coercion
)

func (k Kind) String() string {
	switch k {
	case Tokenizer:
		return "TokenizerError"
	case Parser:
		return "ParserError"
	case Evaluator:
		return "EvaluatorError"
	case Coercion:
		return "CoercionError"
	default:
		return "Error"
	}
}

// Error is texpr's single error type. Pos is the zero Position when the
// error has no meaningful source location (e.g. a coercion error raised
// after evaluation has already discarded token positions).
type Error struct {
	Kind       Kind
	Message    string
	Expression string // the full source string being processed, for caret rendering
	Pos        token.Position
	HasPos     bool
	Suggestion string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.HasPos {
		msg = fmt.Sprintf("%s at %s", msg, e.Pos)
	}
	if e.Suggestion != "" {
		msg = fmt.Sprintf("%s (did you mean \\%s?)", msg, e.Suggestion)
	}
	return msg
}

// Format renders a multi-line message with the offending source line and
// a caret pointing at the error column.
func (e *Error) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", e.Kind, e.Message)
	if e.HasPos && e.Expression != "" {
		line := sourceLine(e.Expression, e.Pos.Line)
		if line != "" {
			prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
			sb.WriteString("^\n")
		}
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&sb, "did you mean \\%s?\n", e.Suggestion)
	}
	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	lines := strings.Split(source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// New builds a positioned error of the given kind.
func New(kind Kind, pos token.Position, expression, format string, args ...interface{}) *Error {
	return &Error{
		Kind:       kind,
		Message:    fmt.Sprintf(format, args...),
		Expression: expression,
		Pos:        pos,
		HasPos:     true,
	}
}

// NewWithoutPosition builds an error that has no meaningful source
// location (used by CoercionError and some EvaluatorErrors raised deep
// inside arithmetic where the originating token has been lost).
func NewWithoutPosition(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithSuggestion attaches a suggestion and returns e for chaining.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}
