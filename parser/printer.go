package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/informatter/natrix/ast"
)

const (
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// astPrinter implements the Visitor interfaces and builds a
// JSON-friendly representation of the AST using maps and slices.
// Each Visit method returns an object that can be marshaled to JSON.
type astPrinter struct{}

func (p astPrinter) VisitExpressionStmt(exprStmt ast.ExpressionStmt) any {
	return map[string]any{
		"type":       "ExpressionStmt",
		"expression": exprStmt.Expression.Accept(p),
	}
}

func (p astPrinter) VisitVarStmt(varStmt ast.VarStmt) any {
	return map[string]any{
		"type":        "VarStmt",
		"name":        varStmt.Name.Lexeme,
		"initializer": nilOrAccept(varStmt.Initializer, p),
	}
}

func (p astPrinter) VisitBlockStmt(blockStmt ast.BlockStmt) any {
	stmts := make([]any, 0, len(blockStmt.Statements))
	for _, stmt := range blockStmt.Statements {
		stmts = append(stmts, stmt.Accept(p))
	}
	return map[string]any{
		"type":       "BlockStmt",
		"statements": stmts,
	}
}

func (p astPrinter) VisitWhileStmt(stmt ast.WhileStmt) any {
	return map[string]any{
		"type":      "WhileStmt",
		"condition": stmt.Condition.Accept(p),
		"body":      stmt.Body.Accept(p),
	}
}

func (p astPrinter) VisitIfStmt(stmt ast.IfStmt) any {
	var elseVal any
	if stmt.ElseBranch != nil {
		elseVal = stmt.ElseBranch.Accept(p)
	}
	return map[string]any{
		"type":      "IfStmt",
		"condition": stmt.Condition.Accept(p),
		"then":      stmt.ThenBranch.Accept(p),
		"else":      elseVal,
	}
}

func (p astPrinter) VisitBreakStmt(stmt ast.BreakStmt) any {
	return map[string]any{"type": "BreakStmt"}
}

func (p astPrinter) VisitContinueStmt(stmt ast.ContinueStmt) any {
	return map[string]any{"type": "ContinueStmt"}
}

func (p astPrinter) VisitReturnStmt(stmt ast.ReturnStmt) any {
	return map[string]any{
		"type":  "ReturnStmt",
		"value": nilOrAccept(stmt.Value, p),
	}
}

func (p astPrinter) VisitFuncDecl(decl ast.FuncDecl) any {
	params := make([]string, 0, len(decl.Params))
	for _, param := range decl.Params {
		params = append(params, param.Lexeme)
	}
	body := make([]any, 0, len(decl.Body))
	for _, stmt := range decl.Body {
		body = append(body, stmt.Accept(p))
	}
	return map[string]any{
		"type":   "FuncDecl",
		"name":   decl.Name.Lexeme,
		"params": params,
		"body":   body,
	}
}

func (p astPrinter) VisitLogicalExpression(expr ast.Logical) any {
	return map[string]any{
		"type":     "Logical",
		"operator": expr.Operator.Lexeme,
		"left":     expr.Left.Accept(p),
		"right":    expr.Right.Accept(p),
	}
}

func (p astPrinter) VisitAssignExpression(assign ast.Assign) any {
	return map[string]any{
		"type":  "Assign",
		"name":  assign.Name.Lexeme,
		"value": assign.Value.Accept(p),
	}
}

func (p astPrinter) VisitVariableExpression(variable ast.Variable) any {
	return map[string]any{
		"type": "Variable",
		"name": variable.Name.Lexeme,
	}
}

func (p astPrinter) VisitBinary(b ast.Binary) any {
	return map[string]any{
		"type":     "Binary",
		"operator": b.Operator.Lexeme,
		"left":     b.Left.Accept(p),
		"right":    b.Right.Accept(p),
	}
}

func (p astPrinter) VisitUnary(u ast.Unary) any {
	return map[string]any{
		"type":     "Unary",
		"operator": u.Operator.Lexeme,
		"right":    u.Right.Accept(p),
	}
}

func (p astPrinter) VisitLiteral(l ast.Literal) any {
	// literals are terminal values and can be used directly in JSON
	return l.Value
}

func (p astPrinter) VisitGrouping(g ast.Grouping) any {
	return map[string]any{
		"type":       "Grouping",
		"expression": g.Expression.Accept(p),
	}
}

func (p astPrinter) VisitCallExpression(call ast.Call) any {
	args := make([]any, 0, len(call.Args))
	for _, arg := range call.Args {
		args = append(args, arg.Accept(p))
	}
	return map[string]any{
		"type":   "Call",
		"callee": call.Callee.Accept(p),
		"args":   args,
	}
}

func (p astPrinter) VisitListExpression(list ast.List) any {
	elements := make([]any, 0, len(list.Elements))
	for _, elem := range list.Elements {
		elements = append(elements, elem.Accept(p))
	}
	return map[string]any{
		"type":     "List",
		"elements": elements,
	}
}

func (p astPrinter) VisitIndexGetExpression(indexGet ast.IndexGet) any {
	return map[string]any{
		"type":  "IndexGet",
		"array": indexGet.Array.Accept(p),
		"index": indexGet.Index.Accept(p),
	}
}

func (p astPrinter) VisitIndexSetExpression(indexSet ast.IndexSet) any {
	return map[string]any{
		"type":  "IndexSet",
		"array": indexSet.Array.Accept(p),
		"index": indexSet.Index.Accept(p),
		"value": indexSet.Value.Accept(p),
	}
}

// nilOrAccept returns nil if expr is nil, otherwise it continues
// processing the expression and returns the result.
func nilOrAccept(expr ast.Expression, p ast.ExpressionVisitor) any {
	if expr == nil {
		return nil
	}
	return expr.Accept(p)
}

// PrintASTJSON converts a Program into a prettified JSON string.
func PrintASTJSON(program ast.Program) (string, error) {
	printer := astPrinter{}
	out := make([]any, 0, len(program.Functions))
	for _, fn := range program.Functions {
		out = append(out, fn.Accept(printer))
	}
	bytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}

	jsonStr := string(bytes)
	fmt.Println(colorYellow + "----- AST JSON -----")
	fmt.Println(colorYellow + jsonStr)
	fmt.Println(colorYellow + "-----" + colorReset)
	fmt.Println("")
	return jsonStr, nil
}

// WriteASTJSONToFile writes the prettified AST JSON for a Program to the given file path.
func WriteASTJSONToFile(program ast.Program, path string) error {
	s, err := PrintASTJSON(program)
	if err != nil {
		return err
	}
	fDescriptor, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating AST file: %s", err.Error())
	}

	_, error := fDescriptor.Write([]byte(s))
	if error != nil {
		return fmt.Errorf("error writing AST to file: %s", error.Error())
	}
	defer fDescriptor.Close()
	return nil
}
