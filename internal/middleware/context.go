package middleware

// Context keys used to store authentication metadata.
const (
	ContextKeyUserID       = "user_id"
	ContextKeyUserEmail    = "user_email"
	ContextKeyUserUsername = "user_username"
	ContextKeyRequestID    = "request_id"
)
