// Package common contains shared constants and sentinel errors used across
// reportcycle components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token on
// outbound requests to the auth, core and file services.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the session token in AuthorizationHeaderName.
const BearerPrefix = "Bearer "

// SessionKey is the storage key the session envelope is kept under in both
// storage tiers.
const SessionKey = "user"
