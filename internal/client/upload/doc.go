// Package upload publishes a picture through the file service: it obtains a
// presigned grant, transfers the file to storage and resolves the stored
// object into access URLs.
//
// Each upload is a Job that moves through the states
//
//	Idle -> Authorizing -> Transferring -> Resolving -> Published
//
// and drops to Failed from any in-flight state. Progress and outcome are
// reported to an Observer. Failures are never retried.
package upload
