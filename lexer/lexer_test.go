package lexer

import (
	"testing"

	"github.com/informatter/natrix/source"
	"github.com/informatter/natrix/token"
)

// tokenTypes extracts just the TokenType sequence from a scan, since
// comparing full Token structs would also pin down incidental
// line/column/span bookkeeping this test isn't about.
func tokenTypes(toks []token.Token) []token.TokenType {
	out := make([]token.TokenType, len(toks))
	for i, tok := range toks {
		out[i] = tok.TokenType
	}
	return out
}

func scanAll(t *testing.T, input string) []token.Token {
	t.Helper()
	lex := New(input, source.ID(0))
	toks, err := lex.Scan()
	if err != nil {
		t.Fatalf("Scan(%q) returned error: %v", input, err)
	}
	return toks
}

func assertTypes(t *testing.T, got []token.Token, want []token.TokenType) {
	t.Helper()
	gotTypes := tokenTypes(got)
	if len(gotTypes) != len(want) {
		t.Fatalf("got %d tokens %v, want %d tokens %v", len(gotTypes), gotTypes, len(want), want)
	}
	for i := range want {
		if gotTypes[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, gotTypes[i], want[i])
		}
	}
}

func TestOperatorsSuccess(t *testing.T) {
	got := scanAll(t, "==/=*+>-<!=<=>=!!")
	want := []token.TokenType{
		token.EQUAL_EQUAL, token.DIV, token.ASSIGN, token.MULT, token.ADD,
		token.LARGER, token.SUB, token.LESS, token.NOT_EQUAL, token.LESS_EQUAL,
		token.LARGER_EQUAL, token.BANG, token.BANG, token.EOF,
	}
	assertTypes(t, got, want)
}

func TestScanSuccess(t *testing.T) {
	got := scanAll(t, "(){}**;+!=<=")
	want := []token.TokenType{
		token.LPA, token.RPA, token.LCUR, token.RCUR, token.MULT, token.MULT,
		token.SEMICOLON, token.ADD, token.NOT_EQUAL, token.LESS_EQUAL, token.EOF,
	}
	assertTypes(t, got, want)
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	got := scanAll(t, "fn main while if else return var break continue true false null foo_bar")
	want := []token.TokenType{
		token.FUNC, token.IDENTIFIER, token.WHILE, token.IF, token.ELSE,
		token.RETURN, token.VAR, token.BREAK, token.CONTINUE, token.TRUE,
		token.FALSE, token.NULL, token.IDENTIFIER, token.EOF,
	}
	assertTypes(t, got, want)
}

func TestStringLiteralEscapes(t *testing.T) {
	got := scanAll(t, `"a\n\t\"b\\c"`)
	want := []token.TokenType{token.STRING, token.EOF}
	assertTypes(t, got, want)
	if lit, ok := got[0].Literal.(string); !ok || lit != "a\n\t\"b\\c" {
		t.Errorf("string literal = %q, want %q", lit, "a\n\t\"b\\c")
	}
}

func TestUnterminatedStringIsAnError(t *testing.T) {
	lex := New(`"no closing quote`, source.ID(0))
	if _, err := lex.Scan(); err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
}

func TestIntAndFloatLiterals(t *testing.T) {
	got := scanAll(t, "42 3.14")
	want := []token.TokenType{token.INT, token.FLOAT, token.EOF}
	assertTypes(t, got, want)
	if got[0].Literal.(int64) != 42 {
		t.Errorf("int literal = %v, want 42", got[0].Literal)
	}
	if got[1].Literal.(float64) != 3.14 {
		t.Errorf("float literal = %v, want 3.14", got[1].Literal)
	}
}
