package identity

// Code is an identity-provider error code. The set is closed: providers that
// return anything outside it are normalized to CodeOther.
type Code string

const (
	CodeInvalidCredential Code = "invalid-credential"
	CodeUserNotFound      Code = "user-not-found"
	CodeWrongPassword     Code = "wrong-password"
	CodeTooManyRequests   Code = "too-many-requests"
	CodeEmailAlreadyInUse Code = "email-already-in-use"
	CodeInvalidEmail      Code = "invalid-email"
	CodeWeakPassword      Code = "weak-password"
	CodeOther             Code = "other"
)

// FieldEmail and FieldPassword name the form fields an AuthError can be scoped
// to. An empty scope means the error belongs to the form as a whole.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
)

// codeInfo pairs each code with its user-facing message and field scope.
var codeInfo = map[Code]struct {
	message string
	field   string
}{
	CodeInvalidCredential: {"Invalid email or password", ""},
	CodeUserNotFound:      {"No account found with this email", FieldEmail},
	CodeWrongPassword:     {"Incorrect password", FieldPassword},
	CodeTooManyRequests:   {"Too many attempts. Please try again later.", ""},
	CodeEmailAlreadyInUse: {"An account with this email already exists", FieldEmail},
	CodeInvalidEmail:      {"Email address is invalid", FieldEmail},
	CodeWeakPassword:      {"Password is too weak", FieldPassword},
	CodeOther:             {"Something went wrong. Please try again.", ""},
}

// Normalize maps an arbitrary provider code string onto the closed enum.
func Normalize(raw string) Code {
	code := Code(raw)
	if _, ok := codeInfo[code]; ok {
		return code
	}
	return CodeOther
}

// AuthError is a failed identity operation, carrying the normalized provider
// code. It renders as a user-facing message scoped to a form field where the
// code names one.
type AuthError struct {
	Code Code
}

// NewAuthError creates an AuthError from a raw provider code.
func NewAuthError(raw string) *AuthError {
	return &AuthError{Code: Normalize(raw)}
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return "identity: " + string(e.Code)
}

// UserMessage returns the message to show the user for this code.
func (e *AuthError) UserMessage() string {
	return codeInfo[e.Code].message
}

// Field returns the form field this error is scoped to, or "" when the error
// applies to the whole form.
func (e *AuthError) Field() string {
	return codeInfo[e.Code].field
}
