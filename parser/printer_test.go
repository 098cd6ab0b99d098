package parser

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/informatter/natrix/ast"
	"github.com/informatter/natrix/token"
)

func mainFunc(body ...ast.Stmt) ast.Program {
	return ast.Program{
		Functions: []ast.FuncDecl{
			{Name: token.CreateLiteralToken(token.IDENTIFIER, nil, "main", 0, 0), Body: body},
		},
	}
}

func TestPrintASTJSON_ExpressionLiteral(t *testing.T) {
	program := mainFunc(ast.ExpressionStmt{Expression: ast.Literal{Value: 42}})

	jsonString, err := PrintASTJSON(program)
	if err != nil {
		t.Fatalf("PrintASTJSON error: %v", err)
	}

	var out []map[string]any
	if err := json.Unmarshal([]byte(jsonString), &out); err != nil {
		t.Fatalf("unmarshal json: %v", err)
	}

	if len(out) != 1 {
		t.Fatalf("expected 1 function, got %d", len(out))
	}

	fn := out[0]
	if typ, ok := fn["type"].(string); !ok || typ != "FuncDecl" {
		t.Fatalf("expected type FuncDecl, got %v", fn["type"])
	}

	body := fn["body"].([]any)
	if len(body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(body))
	}
	node := body[0].(map[string]any)
	if typ, ok := node["type"].(string); !ok || typ != "ExpressionStmt" {
		t.Fatalf("expected type ExpressionStmt, got %v", node["type"])
	}

	expr := node["expression"]
	if num, ok := expr.(float64); !ok || num != 42 {
		t.Fatalf("expected expression 42, got %v", expr)
	}
}

func TestPrintASTJSON_VarStmt_NilInitializer(t *testing.T) {
	name := token.CreateLiteralToken(token.IDENTIFIER, nil, "x", 0, 0)
	program := mainFunc(ast.VarStmt{Name: name, Initializer: nil})

	jsonStr, err := PrintASTJSON(program)
	if err != nil {
		t.Fatalf("PrintASTJSON error: %v", err)
	}

	var out []map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &out); err != nil {
		t.Fatalf("unmarshal json: %v", err)
	}

	body := out[0]["body"].([]any)
	node := body[0].(map[string]any)
	if typ, ok := node["type"].(string); !ok || typ != "VarStmt" {
		t.Fatalf("expected type VarStmt, got %v", node["type"])
	}

	if nameVal, ok := node["name"].(string); !ok || nameVal != "x" {
		t.Fatalf("expected name 'x', got %v", node["name"])
	}

	if initVal, exists := node["initializer"]; !exists || initVal != nil {
		t.Fatalf("expected initializer to be nil, got %v", initVal)
	}
}

func TestPrintASTJSON_BinaryExpression(t *testing.T) {
	program := mainFunc(ast.ExpressionStmt{Expression: ast.Binary{
		Left:     ast.Literal{Value: 1},
		Operator: token.CreateToken(token.ADD, 0, 0),
		Right:    ast.Literal{Value: 2},
	}})

	jsonStr, err := PrintASTJSON(program)
	if err != nil {
		t.Fatalf("PrintASTJSON error: %v", err)
	}

	var out []map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &out); err != nil {
		t.Fatalf("unmarshal json: %v", err)
	}

	body := out[0]["body"].([]any)
	node := body[0].(map[string]any)
	if typ, ok := node["type"].(string); !ok || typ != "ExpressionStmt" {
		t.Fatalf("expected type ExpressionStmt, got %v", node["type"])
	}

	expr, ok := node["expression"].(map[string]any)
	if !ok {
		t.Fatalf("expected expression object, got %v", node["expression"])
	}

	if typ, ok := expr["type"].(string); !ok || typ != "Binary" {
		t.Fatalf("expected Binary expression, got %v", expr["type"])
	}

	if op, ok := expr["operator"].(string); !ok || op != "+" {
		t.Fatalf("expected operator '+', got %v", expr["operator"])
	}

	if left, ok := expr["left"].(float64); !ok || left != 1 {
		t.Fatalf("expected left 1, got %v", expr["left"])
	}
	if right, ok := expr["right"].(float64); !ok || right != 2 {
		t.Fatalf("expected right 2, got %v", expr["right"])
	}
}

func TestPrintASTJSON_CallExpression(t *testing.T) {
	program := mainFunc(ast.ExpressionStmt{Expression: ast.Call{
		Callee: ast.Variable{Name: token.CreateLiteralToken(token.IDENTIFIER, nil, "print", 0, 0)},
		Paren:  token.CreateToken(token.RPA, 0, 0),
		Args:   []ast.Expression{ast.Literal{Value: "hello natrix!"}},
	}})

	jsonStr, err := PrintASTJSON(program)
	if err != nil {
		t.Fatalf("PrintASTJSON error: %v", err)
	}

	var out []map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &out); err != nil {
		t.Fatalf("unmarshal json: %v", err)
	}

	body := out[0]["body"].([]any)
	node := body[0].(map[string]any)
	expr := node["expression"].(map[string]any)
	if typ, ok := expr["type"].(string); !ok || typ != "Call" {
		t.Fatalf("expected type Call, got %v", expr["type"])
	}
	args := expr["args"].([]any)
	if len(args) != 1 || args[0] != "hello natrix!" {
		t.Fatalf("expected single string arg, got %v", args)
	}
}

func TestWriteASTJSONToFile(t *testing.T) {
	program := mainFunc(ast.ExpressionStmt{Expression: ast.Literal{Value: "hello natrix!"}})

	filePath := filepath.Join(os.TempDir(), "natrix_ast_printer_test.json")
	defer os.Remove(filePath)

	if err := WriteASTJSONToFile(program, filePath); err != nil {
		t.Fatalf("WriteASTJSONToFile error: %v", err)
	}

	bytes, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	var out []map[string]any
	if err := json.Unmarshal(bytes, &out); err != nil {
		t.Fatalf("unmarshal json: %v", err)
	}

	body := out[0]["body"].([]any)
	node := body[0].(map[string]any)
	if typ, ok := node["type"].(string); !ok || typ != "ExpressionStmt" {
		t.Fatalf("expected type ExpressionStmt, got %v", node["type"])
	}

	if expr, ok := node["expression"].(string); !ok || expr != "hello natrix!" {
		t.Fatalf("expected expression 'hello natrix!', got %v", node["expression"])
	}
}
