// expressions.go contains all the expression AST nodes. A expression node always evaluates to a value.

package ast

import (
	"github.com/informatter/natrix/token"
)

// Binary represents a binary operation expression (e.g., "a + b").
// It consists of a left-hand side expression, an operator token (e.g., +, -, *, /),
// and a right-hand side expression.
type Binary struct {
	Left     Expression  // The left-hand expression (e.g., "a" in "a + b")
	Operator token.Token // The operator (e.g., "+")
	Right    Expression  // The right-hand expression (e.g., "b" in "a + b")
}

func (binary Binary) Accept(v ExpressionVisitor) any {
	return v.VisitBinary(binary)
}

// Unary represents a unary operation expression (e.g., "!a" or "-b").
// It consists of an operator token and a single right-hand expression.
type Unary struct {
	Operator token.Token // The operator (e.g., "!" or "-")
	Right    Expression  // The expression the operator is applied to (e.g., "a" or "b")
}

func (unary Unary) Accept(v ExpressionVisitor) any {
	return v.VisitUnary(unary)
}

// Literal represents a literal value in the source code
// (e.g., numbers, strings, booleans, or null).
type Literal struct {
	Value any         // The literal value (Go's `any` allows different possible types)
	Span  token.Token // token carrying this literal's position, for span propagation
}

func (literal Literal) Accept(v ExpressionVisitor) any {
	return v.VisitLiteral(literal)
}

// Grouping represents a parenthesized expression (e.g., "(a + b)").
// Useful for controlling evaluation precedence.
type Grouping struct {
	Expression Expression // The inner expression inside the parentheses
}

func (grouping Grouping) Accept(v ExpressionVisitor) any {
	return v.VisitGrouping(grouping)
}

// Variable represents a value binded to a declared
// variable
type Variable struct {
	Name token.Token // An IDENTIFIER token
}

// Variable represents a variable expression in the abstract syntax tree (AST).
// It models the retrieval of a value previously bound to a variable name.
//
// Fields:
//   - Name: The token corresponding to the variable's identifier. This is an
//     IDENTIFIER token that holds the variable's name (lexeme).
func (variable Variable) Accept(v ExpressionVisitor) any {
	return v.VisitVariableExpression(variable)
}

// Assign represents an assignment expression in the abstract syntax tree (AST).
// It models the operation of assigning a new value to an existing variable.
//
// Fields:
//   - Name: The token corresponding to the variable's identifier.
//   - Value: The expression that produces the value being assigned to the variable.
//     This can be any valid expression node in the AST, which will be
//     evaluated and then stored in the environment.
type Assign struct {
	Name  token.Token
	Value Expression
}

func (assign Assign) Accept(v ExpressionVisitor) any {
	return v.VisitAssignExpression(assign)
}

// Logical represents a short-circuiting `and`/`or` expression. It is kept
// distinct from Binary because its right operand must not always be
// evaluated.
type Logical struct {
	Left     Expression
	Operator token.Token // token.AND or token.OR
	Right    Expression
}

func (logical Logical) Accept(v ExpressionVisitor) any {
	return v.VisitLogicalExpression(logical)
}

// Call represents a function call expression (e.g., "fib(n - 1)").
//
// Fields:
//   - Callee: the expression producing the function value being called.
//   - Paren: the closing ")" token, kept to anchor arity/type errors to a span.
//   - Args: the argument expressions, evaluated left to right.
type Call struct {
	Callee Expression
	Paren  token.Token
	Args   []Expression
}

func (call Call) Accept(v ExpressionVisitor) any {
	return v.VisitCallExpression(call)
}

// List represents a list literal (e.g., "[1, 2, 3]").
type List struct {
	Bracket  token.Token
	Elements []Expression
}

func (list List) Accept(v ExpressionVisitor) any {
	return v.VisitListExpression(list)
}

// IndexGet represents an index read (e.g., "a[i]").
type IndexGet struct {
	Array   Expression
	Bracket token.Token
	Index   Expression
}

func (indexGet IndexGet) Accept(v ExpressionVisitor) any {
	return v.VisitIndexGetExpression(indexGet)
}

// IndexSet represents an index assignment (e.g., "a[i] = v"). Like Assign,
// it is modeled as an expression so it may appear as an expression
// statement; the analyzer lowers it to a dedicated SetItem statement.
type IndexSet struct {
	Array   Expression
	Bracket token.Token
	Index   Expression
	Value   Expression
}

func (indexSet IndexSet) Accept(v ExpressionVisitor) any {
	return v.VisitIndexSetExpression(indexSet)
}
