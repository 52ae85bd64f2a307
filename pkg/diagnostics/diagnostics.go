package diagnostics

import (
	"fmt"

	"lox/interpreter-go/pkg/token"
)

// Category separates syntax faults from runtime faults. The driver picks exit
// codes from it; the rendered shape is the same for both.
type Category string

const (
	CategoryStatic  Category = "static"
	CategoryRuntime Category = "runtime"
)

// Diagnostic is one reported fault.
type Diagnostic struct {
	Category Category
	Line     int
	Where    string
	Message  string
}

// AtLine reports a static fault that has no token, such as a scan error.
func AtLine(line int, message string) Diagnostic {
	return Diagnostic{Category: CategoryStatic, Line: line, Message: message}
}

// AtToken reports a static fault located at tok.
func AtToken(tok token.Token, message string) Diagnostic {
	return Diagnostic{Category: CategoryStatic, Line: tok.Line, Where: Where(tok), Message: message}
}

// Runtime reports a runtime fault located at tok.
func Runtime(tok token.Token, message string) Diagnostic {
	return Diagnostic{Category: CategoryRuntime, Line: tok.Line, Where: Where(tok), Message: message}
}

// Where renders the location hint for tok.
func Where(tok token.Token) string {
	if tok.Kind == token.EOF {
		return " at end"
	}
	return fmt.Sprintf(" at '%s'", tok.Lexeme)
}

// String renders the diagnostic as "[line N] Error<where>: <message>".
func (d Diagnostic) String() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// HasStatic reports whether any diagnostic in diags is a static fault.
func HasStatic(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Category == CategoryStatic {
			return true
		}
	}
	return false
}
