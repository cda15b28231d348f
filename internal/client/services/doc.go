// Package services composes the API clients, the session manager and input
// validation into the account and profile flows the CLI offers.
package services
