package errors

// Application error codes. Handlers map these onto HTTP statuses; the codes
// themselves are stable and safe to expose to API clients.
const (
	CodeValidation         = 1000
	CodeAccountNotFound    = 1001
	CodeNonceMismatch      = 1002
	CodeNonceExpired       = 1003
	CodeSignatureInvalid   = 1004
	CodeAddressMismatch    = 1005
	CodeUsernameGeneration = 1006
	CodeInvalidCredentials = 1007
	CodeDuplicateAccount   = 1008

	CodeAlertNotFound = 2001
	CodeKYCNotFound   = 2002
)

// Domain sentinels shared by services and handlers.
var (
	ErrAccountNotFound    = WithCode(CodeAccountNotFound, "account not found")
	ErrNonceMismatch      = WithCode(CodeNonceMismatch, "nonce mismatch")
	ErrNonceExpired       = WithCode(CodeNonceExpired, "nonce expired")
	ErrSignatureInvalid   = WithCode(CodeSignatureInvalid, "invalid signature")
	ErrAddressMismatch    = WithCode(CodeAddressMismatch, "address mismatch")
	ErrUsernameGeneration = WithCode(CodeUsernameGeneration, "could not generate a unique username")
	ErrInvalidCredentials = WithCode(CodeInvalidCredentials, "invalid credentials")
	ErrDuplicateAccount   = WithCode(CodeDuplicateAccount, "account already exists")

	ErrAlertNotFound = WithCode(CodeAlertNotFound, "alert not found")
	ErrKYCNotFound   = WithCode(CodeKYCNotFound, "kyc record not found")
)
