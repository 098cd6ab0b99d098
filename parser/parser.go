// Recursive descent parser
// https://en.wikipedia.org/wiki/Recursive_descent_parser

//	A Recursive descent parser is a top-down parser because it starts from the top
//
// grammar rule and works its way down in to the nested sub-experessions before reaching
// the leaves of the syntax tree (terminal rules)
package parser

import (
	"fmt"

	"github.com/informatter/natrix/ast"
	"github.com/informatter/natrix/sourceerr"
	"github.com/informatter/natrix/token"
)

var comparisonTokenTypes = []token.TokenType{
	token.LARGER,
	token.LARGER_EQUAL,
	token.LESS,
	token.LESS_EQUAL,
}

var equalityTokenTypes = []token.TokenType{
	token.NOT_EQUAL,
	token.EQUAL_EQUAL,
}

var termTokenTypes = []token.TokenType{
	token.SUB,
	token.ADD,
}

var factorExpressionTypes = []token.TokenType{
	token.MULT,
	token.DIV,
	token.MOD,
}

var unaryExpressionTypes = []token.TokenType{
	token.BANG,
	token.SUB,

	// NOTE: not supported operands on unary expressions are included
	// So they can be parsed, but then the analyzer can throw a more detailed
	// error message. This is known as "error productions"
	token.MULT,
	token.ADD,
	token.DIV,
}

type Parser struct {
	tokens   []token.Token
	position int
}

// NOTE: The parsers position is always one unit ahead of the
// current token

// Make initializes and returns a new Parser instance.
func Make(tokens []token.Token) *Parser {
	return &Parser{
		tokens:   tokens,
		position: 0,
	}
}

// Print prints the AST as prettified JSON to standard output.
func (parser *Parser) Print(program ast.Program) {
	_, err := PrintASTJSON(program)
	if err != nil {
		fmt.Println("error producing AST JSON:", err)
	}
}

// PrintToFile writes the AST for the provided program to a .json file at the given path.
func (parser *Parser) PrintToFile(program ast.Program, path string) error {
	return WriteASTJSONToFile(program, path)
}

// peek peeks the token at the parser's current position, without
// advancing the parser's position.
func (parser *Parser) peek() token.Token {
	return parser.tokens[parser.position]
}

// previous retrieves the token at the parser's previous position
// (position - 1).
func (parser *Parser) previous() token.Token {
	return parser.tokens[parser.position-1]
}

// advance increments the parser's position by one unit and consumes
// the current token.
func (parser *Parser) advance() token.Token {
	if !parser.isFinished() {
		parser.position++
	}
	return parser.previous()
}

// isFinished determines if the parser has finished scanning all the tokens.
func (parser *Parser) isFinished() bool {
	tok := parser.peek()
	return tok.TokenType == token.EOF
}

// checkType determines if the provided tokenType matches the TokenType
// at the parser's current position.
func (parser *Parser) checkType(tokeType token.TokenType) bool {
	if parser.isFinished() {
		return false
	}
	tok := parser.peek()
	return tok.TokenType == tokeType
}

// isMatch determines if the TokenType at the current position matches
// any of the provided tokenTypes. If a match is found the parser
// advances and consumes the current token.
func (parser *Parser) isMatch(tokenTypes []token.TokenType) bool {
	for i := range tokenTypes {
		tokenType := tokenTypes[i]

		if parser.checkType(tokenType) {
			parser.advance()
			return true
		}
	}
	return false
}

// Parse parses the entire token stream into a Program: an ordered list
// of top-level function declarations. Errors during parsing are
// collected but parsing continues to find additional errors where
// possible.
func (parser *Parser) Parse() (ast.Program, []error) {
	functions := []ast.FuncDecl{}
	errors := []error{}

	for !parser.isFinished() {
		fn, err := parser.funcDeclaration()
		if err != nil {
			errors = append(errors, err)
			if !parser.isFinished() {
				parser.position++
			}
			continue
		}
		functions = append(functions, fn)
	}

	return ast.Program{Functions: functions}, errors
}

// funcDeclaration parses a top-level function declaration:
// `fn name(p0, p1, ...) { ...body... }`.
func (parser *Parser) funcDeclaration() (ast.FuncDecl, error) {
	if _, err := parser.consume(token.FUNC, "Expected 'fn' at top level."); err != nil {
		return ast.FuncDecl{}, err
	}
	name, err := parser.consume(token.IDENTIFIER, "Expected function name.")
	if err != nil {
		return ast.FuncDecl{}, err
	}
	if _, err := parser.consume(token.LPA, "Expected '(' after function name."); err != nil {
		return ast.FuncDecl{}, err
	}

	params := []token.Token{}
	if !parser.checkType(token.RPA) {
		for {
			p, err := parser.consume(token.IDENTIFIER, "Expected parameter name.")
			if err != nil {
				return ast.FuncDecl{}, err
			}
			params = append(params, p)
			if !parser.isMatch([]token.TokenType{token.COMMA}) {
				break
			}
		}
	}
	if _, err := parser.consume(token.RPA, "Expected ')' after parameters."); err != nil {
		return ast.FuncDecl{}, err
	}
	if _, err := parser.consume(token.LCUR, "Expected '{' before function body."); err != nil {
		return ast.FuncDecl{}, err
	}
	body, err := parser.block()
	if err != nil {
		return ast.FuncDecl{}, err
	}

	return ast.FuncDecl{Name: name, Params: params, Body: body}, nil
}

// declaration parses a variable declaration or, failing that, defers to
// statement.
func (parser *Parser) declaration() (ast.Stmt, error) {
	if parser.isMatch([]token.TokenType{token.VAR}) {
		return parser.variableDeclaration()
	}
	return parser.statement()
}

// variableDeclaration parses `var name = expr;`. Initializers are
// mandatory: the language has no uninitialized-variable concept.
func (parser *Parser) variableDeclaration() (ast.Stmt, error) {
	name, err := parser.consume(token.IDENTIFIER, "Expected variable name.")
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.ASSIGN, "Expected '=' after variable name."); err != nil {
		return nil, err
	}
	initializer, err := parser.expression()
	if err != nil {
		return nil, err
	}
	parser.consumeStatementEnd()
	return ast.VarStmt{Name: name, Initializer: initializer}, nil
}

// statement parses a single statement.
func (parser *Parser) statement() (ast.Stmt, error) {
	if parser.isMatch([]token.TokenType{token.LCUR}) {
		statements, err := parser.block()
		if err != nil {
			return nil, err
		}
		return ast.BlockStmt{Statements: statements}, nil
	}

	if parser.isMatch([]token.TokenType{token.IF}) {
		return parser.ifStatement()
	}

	if parser.isMatch([]token.TokenType{token.WHILE}) {
		return parser.whileStatement()
	}

	if parser.isMatch([]token.TokenType{token.BREAK}) {
		keyword := parser.previous()
		parser.consumeStatementEnd()
		return ast.BreakStmt{Keyword: keyword}, nil
	}

	if parser.isMatch([]token.TokenType{token.CONTINUE}) {
		keyword := parser.previous()
		parser.consumeStatementEnd()
		return ast.ContinueStmt{Keyword: keyword}, nil
	}

	if parser.isMatch([]token.TokenType{token.RETURN}) {
		return parser.returnStatement()
	}

	expression, err := parser.expression()
	if err != nil {
		return nil, err
	}
	parser.consumeStatementEnd()
	return ast.ExpressionStmt{Expression: expression}, nil
}

// returnStatement parses `return;` or `return expr;`.
func (parser *Parser) returnStatement() (ast.Stmt, error) {
	keyword := parser.previous()
	var value ast.Expression
	if !parser.checkType(token.SEMICOLON) && !parser.checkType(token.RCUR) {
		expr, err := parser.expression()
		if err != nil {
			return nil, err
		}
		value = expr
	}
	parser.consumeStatementEnd()
	return ast.ReturnStmt{Keyword: keyword, Value: value}, nil
}

// whileStatement parses a while loop: `while (cond) stmt`.
func (parser *Parser) whileStatement() (ast.Stmt, error) {
	keyword := parser.previous()
	if _, err := parser.consume(token.LPA, "Expected '(' after 'while'."); err != nil {
		return nil, err
	}
	cond, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.RPA, "Expected ')' after while condition."); err != nil {
		return nil, err
	}
	body, err := parser.statement()
	if err != nil {
		return nil, err
	}
	return ast.WhileStmt{Keyword: keyword, Condition: cond, Body: body}, nil
}

// ifStatement parses an if-statement, optionally followed by an else
// branch.
func (parser *Parser) ifStatement() (ast.Stmt, error) {
	keyword := parser.previous()
	if _, err := parser.consume(token.LPA, "Expected '(' after 'if'."); err != nil {
		return nil, err
	}
	cond, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.RPA, "Expected ')' after if condition."); err != nil {
		return nil, err
	}

	thenBranch, err := parser.statement()
	if err != nil {
		return nil, err
	}

	var elseBranch ast.Stmt
	if parser.isMatch([]token.TokenType{token.ELSE}) {
		stmt, err := parser.statement()
		if err != nil {
			return nil, err
		}
		elseBranch = stmt
	}

	return ast.IfStmt{Keyword: keyword, Condition: cond, ThenBranch: thenBranch, ElseBranch: elseBranch}, nil
}

// block parses a block body. The opening '{' must already have been
// consumed by the caller.
func (parser *Parser) block() ([]ast.Stmt, error) {
	statements := []ast.Stmt{}

	for !parser.checkType(token.RCUR) && !parser.isFinished() {
		stmt, err := parser.declaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	if _, err := parser.consume(token.RCUR, "Expected '}' after block."); err != nil {
		return nil, err
	}
	return statements, nil
}

// consumeStatementEnd eats a trailing ';' if present. Semicolons are
// optional terminators rather than mandatory, matching how tolerant
// this grammar is about block-ending tokens.
func (parser *Parser) consumeStatementEnd() {
	parser.isMatch([]token.TokenType{token.SEMICOLON})
}

// expression is the entry point for parsing expressions.
func (parser *Parser) expression() (ast.Expression, error) {
	return parser.assignment()
}

// assignment parses an assignment expression. Valid targets are a bare
// identifier (`x = v`) or an index expression (`a[i] = v`); anything
// else is a syntax error.
func (parser *Parser) assignment() (ast.Expression, error) {
	expression, err := parser.or()
	if err != nil {
		return nil, err
	}
	if parser.isMatch([]token.TokenType{token.ASSIGN}) {
		equalsToken := parser.previous()
		value, err := parser.assignment()
		if err != nil {
			return nil, err
		}
		switch v := expression.(type) {
		case ast.Variable:
			return ast.Assign{Name: v.Name, Value: value}, nil
		case ast.IndexGet:
			return ast.IndexSet{Array: v.Array, Bracket: v.Bracket, Index: v.Index, Value: value}, nil
		default:
			return nil, sourceerr.New(equalsToken.Span, "invalid assignment target")
		}
	}

	return expression, nil
}

// or parses a logical OR expression (left-associative).
func (parser *Parser) or() (ast.Expression, error) {
	expr, err := parser.and()
	if err != nil {
		return nil, err
	}

	for parser.isMatch([]token.TokenType{token.OR}) {
		op := parser.previous()
		rightExpr, err := parser.and()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{Left: expr, Operator: op, Right: rightExpr}
	}

	return expr, nil
}

// and parses a logical AND expression (left-associative).
func (parser *Parser) and() (ast.Expression, error) {
	expr, err := parser.equality()
	if err != nil {
		return nil, err
	}

	for parser.isMatch([]token.TokenType{token.AND}) {
		op := parser.previous()
		rightExpr, err := parser.equality()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{Left: expr, Operator: op, Right: rightExpr}
	}
	return expr, nil
}

// equality parses equality expressions using operators "==" and "!=".
func (parser *Parser) equality() (ast.Expression, error) {
	exp, err := parser.comparison()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(equalityTokenTypes) {
		operator := parser.previous()
		right, err := parser.comparison()
		if err != nil {
			return nil, err
		}
		exp = ast.Binary{Left: exp, Operator: operator, Right: right}
	}
	return exp, nil
}

// comparison parses comparison expressions using operators "<", "<=", ">", ">=".
func (parser *Parser) comparison() (ast.Expression, error) {
	exp, err := parser.term()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(comparisonTokenTypes) {
		operator := parser.previous()
		right, err := parser.term()
		if err != nil {
			return nil, err
		}
		exp = ast.Binary{Left: exp, Operator: operator, Right: right}
	}
	return exp, nil
}

// term parses addition and subtraction expressions using operators "+" and "-".
func (parser *Parser) term() (ast.Expression, error) {
	exp, err := parser.factor()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(termTokenTypes) {
		operator := parser.previous()
		right, err := parser.factor()
		if err != nil {
			return nil, err
		}
		exp = ast.Binary{Left: exp, Operator: operator, Right: right}
	}
	return exp, nil
}

// factor parses multiplication, division and modulo expressions using
// operators "*", "/" and "%".
func (parser *Parser) factor() (ast.Expression, error) {
	exp, err := parser.unary()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(factorExpressionTypes) {
		operator := parser.previous()
		right, err := parser.unary()
		if err != nil {
			return nil, err
		}
		exp = ast.Binary{Left: exp, Operator: operator, Right: right}
	}
	return exp, nil
}

// unary parses unary prefix expressions using operators "!" or "-".
func (parser *Parser) unary() (ast.Expression, error) {
	if parser.isMatch(unaryExpressionTypes) {
		operator := parser.previous()
		right, err := parser.unary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Operator: operator, Right: right}, nil
	}
	return parser.call()
}

// call parses postfix call `f(...)` and index `a[...]` expressions,
// left-associatively chained atop a primary expression (e.g. `f()[0]`).
func (parser *Parser) call() (ast.Expression, error) {
	expr, err := parser.primary()
	if err != nil {
		return nil, err
	}

	for {
		if parser.isMatch([]token.TokenType{token.LPA}) {
			expr, err = parser.finishCall(expr)
			if err != nil {
				return nil, err
			}
		} else if parser.isMatch([]token.TokenType{token.LBRACKET}) {
			expr, err = parser.finishIndex(expr)
			if err != nil {
				return nil, err
			}
		} else {
			break
		}
	}
	return expr, nil
}

// finishCall parses the argument list of a call expression; the
// opening '(' has already been consumed.
func (parser *Parser) finishCall(callee ast.Expression) (ast.Expression, error) {
	args := []ast.Expression{}
	if !parser.checkType(token.RPA) {
		for {
			arg, err := parser.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !parser.isMatch([]token.TokenType{token.COMMA}) {
				break
			}
		}
	}
	paren, err := parser.consume(token.RPA, "Expected ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return ast.Call{Callee: callee, Paren: paren, Args: args}, nil
}

// finishIndex parses the index expression of `a[i]`; the opening '['
// has already been consumed.
func (parser *Parser) finishIndex(array ast.Expression) (ast.Expression, error) {
	index, err := parser.expression()
	if err != nil {
		return nil, err
	}
	bracket, err := parser.consume(token.RBRACKET, "Expected ']' after index.")
	if err != nil {
		return nil, err
	}
	return ast.IndexGet{Array: array, Bracket: bracket, Index: index}, nil
}

// primary parses the most basic forms of expressions: literals, list
// literals, variable references, and parenthesized expressions.
func (parser *Parser) primary() (ast.Expression, error) {
	if parser.isMatch([]token.TokenType{token.FALSE}) {
		return ast.Literal{Value: false, Span: parser.previous()}, nil
	}
	if parser.isMatch([]token.TokenType{token.NULL}) {
		return ast.Literal{Value: nil, Span: parser.previous()}, nil
	}
	if parser.isMatch([]token.TokenType{token.TRUE}) {
		return ast.Literal{Value: true, Span: parser.previous()}, nil
	}

	if parser.isMatch([]token.TokenType{token.FLOAT, token.INT, token.STRING}) {
		return ast.Literal{Value: parser.previous().Literal, Span: parser.previous()}, nil
	}

	if parser.isMatch([]token.TokenType{token.IDENTIFIER}) {
		return ast.Variable{Name: parser.previous()}, nil
	}

	if parser.isMatch([]token.TokenType{token.LBRACKET}) {
		bracket := parser.previous()
		elements := []ast.Expression{}
		if !parser.checkType(token.RBRACKET) {
			for {
				elem, err := parser.expression()
				if err != nil {
					return nil, err
				}
				elements = append(elements, elem)
				if !parser.isMatch([]token.TokenType{token.COMMA}) {
					break
				}
			}
		}
		if _, err := parser.consume(token.RBRACKET, "Expected ']' after list elements."); err != nil {
			return nil, err
		}
		return ast.List{Bracket: bracket, Elements: elements}, nil
	}

	if parser.isMatch([]token.TokenType{token.LPA}) {
		expr, err := parser.expression()
		if err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.RPA, fmt.Sprintf("expression is missing '%s'", token.RPA)); err != nil {
			return nil, err
		}
		return ast.Grouping{Expression: expr}, nil
	}

	currentToken := parser.peek()
	return nil, sourceerr.New(currentToken.Span, "unrecognised expression")
}

// consume advances past the current token if it matches tokenType,
// otherwise reports a syntax error anchored to the current token's span.
func (parser *Parser) consume(tokenType token.TokenType, errorMessage string) (token.Token, error) {
	if parser.checkType(tokenType) {
		return parser.advance(), nil
	}
	currentToken := parser.peek()
	return token.Token{}, sourceerr.New(currentToken.Span, "%s", errorMessage)
}
