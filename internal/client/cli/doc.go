// Package cli provides the interactive reportcycle command-line client.
//
// It wires configuration, the session storage tiers, the service clients and
// an interactive REPL. A remembered session is restored on start-up; a
// background watcher notices when the session expires.
//
// Commands:
//   - signin / signup / signout / whoami / refresh
//   - forgot-username / forgot-password / reset-password / resend-activation
//   - profile: view and edit personal details and the profile picture
//   - upload <path>: publish a picture and print its renditions
//   - ticket: walk through the new-report wizard
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
