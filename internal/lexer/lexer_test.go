package lexer

import (
	"testing"

	"github.com/xirf/texpr/internal/command"
	texprerrors "github.com/xirf/texpr/internal/errors"
	"github.com/xirf/texpr/internal/token"
)

func TestTokenizeBasicArithmetic(t *testing.T) {
	reg := command.NewRegistry()
	toks, err := New(`2 + 3 \times 4`, reg).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []token.Kind{token.NUMBER, token.PLUS, token.NUMBER, token.TIMES, token.NUMBER, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token[%d] = %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestTokenizeImplicitMultiplicationIdentifiers(t *testing.T) {
	reg := command.NewRegistry()
	toks, err := New(`2x`, reg).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 3 || toks[0].Kind != token.NUMBER || toks[1].Kind != token.VARIABLE {
		t.Fatalf("got %v, want NUMBER VARIABLE EOF", toks)
	}
}

func TestTokenizeUnicodeNormalisation(t *testing.T) {
	reg := command.NewRegistry()
	toks, err := New(`\pi`, reg).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	toksUnicode, err := New(`π`, reg).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != toksUnicode[0].Kind || toks[0].FuncName != toksUnicode[0].FuncName {
		t.Fatalf("\\pi and π should lex identically, got %v vs %v", toks[0], toksUnicode[0])
	}
}

func TestTokenizeUnknownCommandSuggestion(t *testing.T) {
	reg := command.NewRegistry()
	_, err := New(`\sine{x}`, reg).Tokenize()
	if err == nil {
		t.Fatal("expected an error for unknown command \\sine")
	}
	if e, ok := err.(*texprerrors.Error); !ok || e.Suggestion != "sin" {
		t.Fatalf("expected the suggestion \\sin for \\sine, got %v", err)
	}
}

func TestTokenizeIgnoredAndFontCommands(t *testing.T) {
	reg := command.NewRegistry()
	toks, err := New(`\left( \mathbf{x} \right)`, reg).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// \left and \right are dropped; \mathbf stays as a FONT token (the
	// parser drops it) and braces/x remain.
	var kinds []token.Kind
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	want := []token.Kind{token.LPAREN, token.FONT, token.LBRACE, token.VARIABLE, token.RBRACE, token.RPAREN, token.EOF}
	if len(kinds) != len(want) {
		t.Fatalf("got kinds %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kind[%d] = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestOversizeInputFailsFatally(t *testing.T) {
	reg := command.NewRegistry()
	huge := make([]byte, MaxInputLength+1)
	for i := range huge {
		huge[i] = '1'
	}
	_, err := New(string(huge), reg).Tokenize()
	if err == nil {
		t.Fatal("expected oversize input to fail")
	}
}
