package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
)

// runSource scans, parses, and interprets source, failing the test on any
// static diagnostic.
func runSource(t *testing.T, source string) (string, error) {
	t.Helper()
	tokens, diags := scanner.Scan(source)
	if len(diags) != 0 {
		t.Fatalf("scan diagnostics: %v", diags)
	}
	stmts, diags := parser.Parse(tokens)
	if len(diags) != 0 {
		t.Fatalf("parse diagnostics: %v", diags)
	}
	var out bytes.Buffer
	err := New(WithOutput(&out)).Interpret(stmts)
	return out.String(), err
}

func TestProgramOutputs(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"precedence", "print 1 + 2 * 3;", "7\n"},
		{"grouping", "print (1 + 2) * 3;", "9\n"},
		{"integral numbers trim fraction", "print 10.0; print 2.5;", "10\n2.5\n"},
		{"unary chain", "print !!true; print --3;", "true\n3\n"},
		{"concatenation", "print \"foo\" + \"bar\";", "foobar\n"},
		{"dangling else", "if (true) if (false) print 1; else print 2;", "2\n"},
		{"shadowing", "var a = 1; { var a = 2; print a; } print a;", "2\n1\n"},
		{"right associative assignment", "var a; var b; a = b = 3; print a; print b;", "3\n3\n"},
		{"for desugaring", "for (var i = 0; i < 3; i = i + 1) print i;", "0\n1\n2\n"},
		{"while equivalent", "{ var i = 0; while (i < 3) { print i; i = i + 1; } }", "0\n1\n2\n"},
		{"or yields operand", "print nil or \"yes\";", "yes\n"},
		{"and yields operand", "print 1 and 2; print false and 2;", "2\nfalse\n"},
		{"equality across types", "print 1 == \"1\"; print nil == nil; print nil == false;", "false\ntrue\nfalse\n"},
		{"zero and empty string truthy", "if (0) print \"zero\"; if (\"\") print \"empty\";", "zero\nempty\n"},
		{"nested blocks", "var a = \"g\"; { var a = \"o\"; { var a = \"i\"; print a; } print a; } print a;", "i\no\ng\n"},
		{"for with only a condition", "var n = 0; for (; n < 2;) n = n + 1; print n;", "2\n"},
		{"for scoping", "var i = \"outer\"; for (var i = 0; i < 1; i = i + 1) {} print i;", "outer\n"},
		{"fibonacci", "var a = 0; var b = 1; for (var i = 0; i < 8; i = i + 1) { print a; var t = a; a = b; b = t + b; }", "0\n1\n1\n2\n3\n5\n8\n13\n"},
		{"native clock callable", "print clock() > 0;", "true\n"},
		{"native function prints", "print clock;", "<native fn>\n"},
		{"oversized literal", "print 1" + strings.Repeat("0", 400) + ";", "Infinity\n"},
		{"large magnitude", "print 1000000 * 1000000 * 1000000 * 1000000;", "1e+24\n"},
		{"division by zero", "print 1 / 0; print -1 / 0;", "Infinity\n-Infinity\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := runSource(t, tc.source)
			if err != nil {
				t.Fatalf("unexpected runtime error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("output mismatch\n got: %q\nwant: %q", got, tc.want)
			}
		})
	}
}

func TestProgramRuntimeFaults(t *testing.T) {
	cases := []struct {
		name    string
		source  string
		output  string
		message string
		line    int
	}{
		{"negate string", "print \"before\";\nprint -\"x\";\nprint \"after\";", "before\n", "Operand must be a number.", 2},
		{"mixed plus", "print 1 + \"a\";", "", "Operands must be two numbers or two strings.", 1},
		{"compare strings", "print \"a\" < \"b\";", "", "Operands must be numbers.", 1},
		{"undefined read", "print ghost;", "", "Undefined variable 'ghost'.", 1},
		{"undefined assign", "\n\nghost = 1;", "", "Undefined variable 'ghost'.", 3},
		{"call a number", "var x = 1;\nx();", "", "Can only call functions and classes.", 2},
		{"arity", "clock(1, 2);", "", "Expected 0 arguments but got 2.", 1},
		{"fault in loop body", "var i = 0; while (true) { print i; i = i + 1; if (i == 2) i = -nil; }", "0\n1\n", "Operand must be a number.", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := runSource(t, tc.source)
			rtErr := expectRuntimeError(t, err, tc.message)
			if rtErr.Token.Line != tc.line {
				t.Fatalf("expected fault on line %d, got %d", tc.line, rtErr.Token.Line)
			}
			if got != tc.output {
				t.Fatalf("output mismatch\n got: %q\nwant: %q", got, tc.output)
			}
		})
	}
}

func TestGlobalsPersistAcrossInterpretCalls(t *testing.T) {
	var out bytes.Buffer
	interp := New(WithOutput(&out))
	for _, line := range []string{"var count = 1;", "count = count + 1;", "print count;"} {
		tokens, _ := scanner.Scan(line)
		stmts, diags := parser.Parse(tokens)
		if len(diags) != 0 {
			t.Fatalf("parse diagnostics: %v", diags)
		}
		if err := interp.Interpret(stmts); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := out.String(); got != "2\n" {
		t.Fatalf("unexpected output %q", got)
	}
	val, ok := interp.GlobalEnvironment().Lookup("count")
	if !ok || val.(runtime.NumberValue).Val != 2 {
		t.Fatalf("unexpected global %#v", val)
	}
}
