package runtime

import "lox/interpreter-go/pkg/token"

// Error is a runtime fault. Token locates the fault for diagnostics.
type Error struct {
	Token   token.Token
	Message string
}

// NewError builds a runtime fault at tok.
func NewError(tok token.Token, message string) *Error {
	return &Error{Token: tok, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}
