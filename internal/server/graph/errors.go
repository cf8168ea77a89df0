package graph

// Error codes surfaced to clients in the "extensions" of a GraphQL error.
const (
	CodeAuthenticationError = "AUTHENTICATION_ERROR"
	CodeBadUserInput        = "BAD_USER_INPUT"
)

// AuthenticationError reports an unauthenticated access to a gated
// operation or a failed credential check. It satisfies
// gqlerrors.ExtendedError so the code lands in the error extensions.
type AuthenticationError struct {
	msg string
}

func NewAuthenticationError(msg string) *AuthenticationError {
	return &AuthenticationError{msg: msg}
}

func (e *AuthenticationError) Error() string {
	return e.msg
}

func (e *AuthenticationError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": CodeAuthenticationError}
}

// ValidationError reports rejected user input. The offending arguments are
// attached as structured diagnostics; raw storage errors never reach the
// client.
type ValidationError struct {
	msg         string
	invalidArgs map[string]interface{}
}

func NewValidationError(msg string, invalidArgs map[string]interface{}) *ValidationError {
	return &ValidationError{msg: msg, invalidArgs: invalidArgs}
}

func (e *ValidationError) Error() string {
	return e.msg
}

func (e *ValidationError) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code":        CodeBadUserInput,
		"invalidArgs": e.invalidArgs,
	}
}
