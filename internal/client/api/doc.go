// Package api contains the HTTP clients for the three report-cycle backend
// services: auth (sign in, registration, recovery), core (user details,
// reference data, ticket categories) and file (presigned uploads and
// access URLs).
//
// # Error Handling
//
// Expected failure responses are returned as *APIError whose Message is the
// user-facing text extracted with CombineErrors. Transport failures wrap
// ErrNetwork. A 401 response matches ErrUnauthorized via errors.Is.
// Message(err) turns any of them into the text shown to the user.
//
// Every call takes a context.Context and honours its cancellation.
package api
