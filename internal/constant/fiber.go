package constant

const (
	ContextKeyRequestID = "requestid"

	RequestIDHeader = "X-Maa-Request-ID"
)
