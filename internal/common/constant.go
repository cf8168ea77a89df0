package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token on
// GraphQL requests.
const AuthorizationHeaderName = "Authorization"

// BearerSchema is the expected prefix of the Authorization header value.
const BearerSchema = "Bearer "
