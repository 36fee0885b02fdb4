package constant

const (
	// JWTAuthorizationRealm is the authorization realm (prefix of value
	// in the `Authorization` header)
	JWTAuthorizationRealm = "Bearer"

	// SessionTokenLength is the length of the random per-session token
	// embedded in the JWT as jti. Re-issuing a session token invalidates
	// all previously issued JWTs of that user.
	SessionTokenLength = 16

	ContextKeyLoginUser = "loginUser"
)

const (
	UserStatusInactive  = 0
	UserStatusActivated = 1
)
