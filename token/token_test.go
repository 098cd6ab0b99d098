package token

import (
	"testing"
)

func TestCreateToken(t *testing.T) {
	tests := []struct {
		name       string
		tokenType  TokenType
		wantLexeme string
	}{
		{name: "Create ASSIGN token", tokenType: ASSIGN, wantLexeme: "="},
		{name: "Create MULT token", tokenType: MULT, wantLexeme: "*"},
		{name: "Create LPA token", tokenType: LPA, wantLexeme: "("},
		{name: "Create EOF token", tokenType: EOF, wantLexeme: "EOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CreateToken(tt.tokenType, 3, 7)
			if got.TokenType != tt.tokenType {
				t.Errorf("TokenType = %v, want %v", got.TokenType, tt.tokenType)
			}
			if got.Lexeme != tt.wantLexeme {
				t.Errorf("Lexeme = %q, want %q", got.Lexeme, tt.wantLexeme)
			}
			if got.Literal != nil {
				t.Errorf("Literal = %v, want nil", got.Literal)
			}
			if got.Line != 3 || got.Column != 7 {
				t.Errorf("position = (%d,%d), want (3,7)", got.Line, got.Column)
			}
		})
	}
}

func TestCreateLiteralToken(t *testing.T) {
	got := CreateLiteralToken(IDENTIFIER, nil, "myVar", 1, 0)
	if got.TokenType != IDENTIFIER {
		t.Errorf("TokenType = %v, want IDENTIFIER", got.TokenType)
	}
	if got.Lexeme != "myVar" {
		t.Errorf("Lexeme = %q, want %q", got.Lexeme, "myVar")
	}

	intTok := CreateLiteralToken(INT, int64(42), "42", 1, 0)
	if v, ok := intTok.Literal.(int64); !ok || v != 42 {
		t.Errorf("Literal = %v, want int64(42)", intTok.Literal)
	}
}

func TestKeyWordsTable(t *testing.T) {
	tests := map[string]TokenType{
		"fn":       FUNC,
		"var":      VAR,
		"if":       IF,
		"else":     ELSE,
		"while":    WHILE,
		"return":   RETURN,
		"break":    BREAK,
		"continue": CONTINUE,
		"true":     TRUE,
		"false":    FALSE,
		"null":     NULL,
	}
	for word, want := range tests {
		got, ok := KeyWords[word]
		if !ok {
			t.Errorf("KeyWords[%q] missing", word)
			continue
		}
		if got != want {
			t.Errorf("KeyWords[%q] = %v, want %v", word, got, want)
		}
	}
}

func TestTokenString(t *testing.T) {
	tok := CreateToken(ASSIGN, 1, 1)
	got := tok.String()
	want := `Token {Type: =, Value: "="}`
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
