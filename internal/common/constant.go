package common

// MinPasswordLength is the shortest password accepted on signup.
const MinPasswordLength = 6

// AuthorizationHeaderName is the HTTP header and gRPC metadata key that
// carries a bearer access token.
const AuthorizationHeaderName = "authorization"

// RequestIDHeaderName is echoed back on every HTTP response and copied into
// log records.
const RequestIDHeaderName = "X-Request-ID"
