package response

var (
	ErrInvalidRequestFormat = Error("Invalid request format")

	ErrAuthenticationFailed = Error("Invalid username or password")

	ErrInternal = Error("Internal server error")
)
