package lexer

import (
	"fmt"
	"strconv"

	"github.com/informatter/natrix/source"
	"github.com/informatter/natrix/token"
)

const (
	COMMENT_CHAR = '#'
)

func isLetter(char rune) bool {
	return rune('a') <= char && char <= rune('z') || rune('A') <= char && char <= rune('Z') || char == rune('_')
}

func isNumber(char rune) bool {
	return rune('0') <= char && char <= rune('9')
}

// Lexer represents a lexical scanner for processing input text into tokens.
// It maintains the current scanning state, including the position within the
// input, the current character, and metadata for line/column tracking.
type Lexer struct {
	sourceID source.ID

	// rune slice of the input string being scanned.
	characters []rune

	// Total number of runes in the input.
	totalChars int

	// Stores the sequence of tokens produced during lexing.
	tokens []token.Token

	// The index of the character that was previously read.
	position int

	// The current character being examined.
	currentChar rune

	// The index of the next position where the next character will be read.
	readPosition int

	// Tracks the number of lines processed (incremented on newline).
	lineCount int32

	// Tracks the character's position within the current line. Reset on
	// every new line.
	column int

	// Stores any scanning errors that occur during lexing.
	errors []error
}

// New creates a Lexer over input, tagging every token's Span with
// sourceID so downstream diagnostics can recover file/line/column.
func New(input string, sourceID source.ID) *Lexer {
	lexer := &Lexer{
		characters: []rune(input),
		sourceID:   sourceID,
	}
	lexer.totalChars = len(lexer.characters)
	lexer.readChar()
	return lexer
}

func (lexer *Lexer) advance() {
	lexer.position = lexer.readPosition
	lexer.readPosition++
	lexer.column = lexer.readPosition
}

func (lexer *Lexer) isFinished() bool {
	return lexer.readPosition >= lexer.totalChars
}

func (lexer *Lexer) readChar() {
	if lexer.isFinished() {
		lexer.currentChar = rune(0)
	} else {
		lexer.currentChar = lexer.characters[lexer.readPosition]
	}
	lexer.advance()
}

func (lexer *Lexer) readIllegal(startPos int) string {
	for !lexer.isWhiteSpace(lexer.currentChar) && !lexer.isFinished() {
		lexer.readChar()
	}
	return string(lexer.characters[startPos:lexer.readPosition])
}

func (lexer *Lexer) peek() rune {
	if lexer.isFinished() {
		return rune(0)
	}
	return lexer.characters[lexer.readPosition]
}

func (lexer *Lexer) peekNext() rune {
	nextReadPos := lexer.readPosition + 1
	if nextReadPos >= lexer.totalChars {
		return rune(0)
	}
	return lexer.characters[nextReadPos]
}

func (lexer *Lexer) handleComment() {
	for lexer.currentChar != rune('\n') && !lexer.isFinished() {
		lexer.readChar()
	}
}

// handleNumber scans a sequence of digits (and at most one decimal
// point) from the input and creates an integer or floating-point
// literal token accordingly.
func (lexer *Lexer) handleNumber() error {
	initPos := lexer.position
	decimalCount := 0

	for {
		nextChar := lexer.peek()
		if nextChar == rune(0) || nextChar == rune('\n') || !isNumber(nextChar) && nextChar != rune('.') {
			break
		}
		if nextChar == '.' {
			if lexer.peekNext() == rune(0) {
				illegalNumber := string(lexer.characters[initPos : lexer.readPosition+1])
				return fmt.Errorf("invalid number: '%s', line: %v", illegalNumber, lexer.lineCount)
			}
			if decimalCount == 1 {
				illegalNumber := lexer.readIllegal(initPos)
				return fmt.Errorf("invalid number: '%s', line: %v", illegalNumber, lexer.lineCount)
			}
			decimalCount++
		}
		if lexer.currentChar == rune('.') && isNumber(nextChar) {
			decimalCount++
		}
		lexer.advance()
	}
	number := string(lexer.characters[initPos:lexer.readPosition])
	span := source.Span{SourceID: lexer.sourceID, Start: initPos, End: lexer.readPosition}
	var tok token.Token

	if decimalCount == 0 {
		result, _ := strconv.ParseInt(number, 10, 64)
		tok = token.CreateLiteralToken(token.INT, result, number, lexer.lineCount, lexer.column)
	} else {
		result, _ := strconv.ParseFloat(number, 64)
		tok = token.CreateLiteralToken(token.FLOAT, result, number, lexer.lineCount, lexer.column)
	}
	tok.Span = span
	lexer.tokens = append(lexer.tokens, tok)
	return nil
}

// handleIdentifier processes a user identifier or a language keyword.
func (lexer *Lexer) handleIdentifier() {
	initPos := lexer.position
	for {
		result := lexer.peek()
		if result == rune(0) || result == rune('\n') || !(isLetter(result) || isNumber(result)) {
			break
		}
		lexer.advance()
	}

	identifier := lexer.characters[initPos:lexer.readPosition]
	tok := token.Token{
		TokenType: token.IDENTIFIER,
		Lexeme:    string(identifier),
		Line:      lexer.lineCount,
		Column:    lexer.column,
		Span:      source.Span{SourceID: lexer.sourceID, Start: initPos, End: lexer.readPosition},
	}

	if keywordType, exists := token.KeyWords[tok.Lexeme]; exists {
		tok.TokenType = keywordType
	}

	lexer.tokens = append(lexer.tokens, tok)
}

// handleStringLiteral processes string literals, including the escapes
// `\\ \" \n \t \r \0`. An unterminated literal or a bad escape is
// reported at tokenization, per spec §6.
func (lexer *Lexer) handleStringLiteral() error {
	initPos := lexer.position
	var out []rune
	isClosed := false

	for {
		result := lexer.peek()
		if result == 0 || result == '\n' {
			break
		}
		lexer.advance()

		if result == '"' {
			isClosed = true
			break
		}

		if result == '\\' {
			esc := lexer.peek()
			lexer.advance()
			switch esc {
			case '\\':
				out = append(out, '\\')
			case '"':
				out = append(out, '"')
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '0':
				out = append(out, 0)
			default:
				return fmt.Errorf("invalid escape sequence '\\%c' in string literal, line: %v", esc, lexer.lineCount)
			}
			continue
		}

		out = append(out, result)
	}

	if !isClosed {
		return fmt.Errorf("unclosed string literal: '%s', line: %v", string(lexer.characters[initPos+1:lexer.readPosition]), lexer.lineCount)
	}

	literal := string(out)
	span := source.Span{SourceID: lexer.sourceID, Start: initPos, End: lexer.readPosition}
	tok := token.CreateLiteralToken(token.STRING, literal, literal, lexer.lineCount, lexer.column)
	tok.Span = span
	lexer.tokens = append(lexer.tokens, tok)
	return nil
}

func (lexer *Lexer) isMatch(expected rune) bool {
	if lexer.isFinished() {
		return false
	}
	if lexer.characters[lexer.readPosition] == expected {
		lexer.readPosition++
		return true
	}
	return false
}

// isWhiteSpace determines whether a given rune is whitespace: carriage
// return, tab, newline, or ASCII space.
func (lexer *Lexer) isWhiteSpace(char rune) bool {
	if char == rune(' ') || char == rune('\r') || char == rune('\t') {
		return true
	}
	if lexer.currentChar == rune('\n') {
		lexer.lineCount++
		lexer.column = 0
		return true
	}
	return false
}

func (lexer *Lexer) skipWhiteSpace() {
	for lexer.isWhiteSpace(lexer.currentChar) {
		lexer.readChar()
	}
}

func (lexer *Lexer) simpleToken(tt token.TokenType) {
	start := lexer.position
	tok := token.CreateToken(tt, lexer.lineCount, lexer.column)
	tok.Span = source.Span{SourceID: lexer.sourceID, Start: start, End: start + 1}
	lexer.tokens = append(lexer.tokens, tok)
}

// createToken processes the current character and creates a token if
// applicable.
func (lexer *Lexer) createToken() {
	lexer.skipWhiteSpace()

	start := lexer.position
	switch lexer.currentChar {
	case rune('('):
		lexer.simpleToken(token.LPA)
	case rune(')'):
		lexer.simpleToken(token.RPA)
	case rune('['):
		lexer.simpleToken(token.LBRACKET)
	case rune(']'):
		lexer.simpleToken(token.RBRACKET)
	case rune('{'):
		lexer.simpleToken(token.LCUR)
	case rune('}'):
		lexer.simpleToken(token.RCUR)
	case rune(';'):
		lexer.simpleToken(token.SEMICOLON)
	case rune(','):
		lexer.simpleToken(token.COMMA)
	case rune('*'):
		lexer.simpleToken(token.MULT)
	case rune('+'):
		lexer.simpleToken(token.ADD)
	case rune('-'):
		lexer.simpleToken(token.SUB)
	case rune('%'):
		lexer.simpleToken(token.MOD)
	case rune('/'):
		lexer.simpleToken(token.DIV)
	case rune('='):
		tt := token.TokenType(token.ASSIGN)
		end := start + 1
		if lexer.isMatch(rune('=')) {
			tt = token.EQUAL_EQUAL
			end++
		}
		tok := token.CreateToken(tt, lexer.lineCount, lexer.column)
		tok.Span = source.Span{SourceID: lexer.sourceID, Start: start, End: end}
		lexer.tokens = append(lexer.tokens, tok)
	case rune('!'):
		tt := token.TokenType(token.BANG)
		end := start + 1
		if lexer.isMatch(rune('=')) {
			tt = token.NOT_EQUAL
			end++
		}
		tok := token.CreateToken(tt, lexer.lineCount, lexer.column)
		tok.Span = source.Span{SourceID: lexer.sourceID, Start: start, End: end}
		lexer.tokens = append(lexer.tokens, tok)
	case rune('<'):
		tt := token.TokenType(token.LESS)
		end := start + 1
		if lexer.isMatch(rune('=')) {
			tt = token.LESS_EQUAL
			end++
		}
		tok := token.CreateToken(tt, lexer.lineCount, lexer.column)
		tok.Span = source.Span{SourceID: lexer.sourceID, Start: start, End: end}
		lexer.tokens = append(lexer.tokens, tok)
	case rune('>'):
		tt := token.TokenType(token.LARGER)
		end := start + 1
		if lexer.isMatch(rune('=')) {
			tt = token.LARGER_EQUAL
			end++
		}
		tok := token.CreateToken(tt, lexer.lineCount, lexer.column)
		tok.Span = source.Span{SourceID: lexer.sourceID, Start: start, End: end}
		lexer.tokens = append(lexer.tokens, tok)
	case rune('"'):
		if err := lexer.handleStringLiteral(); err != nil {
			lexer.errors = append(lexer.errors, err)
		}
	case rune(COMMENT_CHAR):
		lexer.handleComment()
	default:
		if isLetter(lexer.currentChar) {
			lexer.handleIdentifier()
		} else if isNumber(lexer.currentChar) || lexer.currentChar == rune('.') {
			if err := lexer.handleNumber(); err != nil {
				lexer.errors = append(lexer.errors, err)
			}
		} else if !lexer.isFinished() {
			position := lexer.position
			column := lexer.column
			currentChar := lexer.currentChar
			illegal := lexer.readIllegal(position)
			err := fmt.Errorf("unexpected character: '%c' in: '%s', line: %v, column: %v", currentChar, illegal, lexer.lineCount, column)
			lexer.errors = append(lexer.errors, err)
		}
	}

	lexer.readChar()
}

// Scan performs lexical analysis on the input and returns every token,
// terminated by a synthetic EOF token.
func (lexer *Lexer) Scan() ([]token.Token, error) {
	if lexer.totalChars > 1 {
		for lexer.currentChar != rune(0) {
			lexer.createToken()
			if len(lexer.errors) == 1 {
				return lexer.tokens, lexer.errors[0]
			}
		}
	} else {
		lexer.createToken()
		if len(lexer.errors) == 1 {
			return lexer.tokens, lexer.errors[0]
		}
	}
	eof := token.CreateToken(token.EOF, lexer.lineCount, lexer.column)
	eof.Span = source.Span{SourceID: lexer.sourceID, Start: lexer.position, End: lexer.position}
	lexer.tokens = append(lexer.tokens, eof)
	return lexer.tokens, nil
}
