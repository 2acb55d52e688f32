// Package client manages the OAuth clients that may request tokens.
//
// A Client carries an immutable id and secret, a display name, the client's
// configuration fragment (merged into every configuration resolved for its
// tokens), a set of named contacts and the name of the authentication backend
// its users log in against.
//
// Store is the entry point. It validates administrator input, generates
// identifiers and secrets, and delegates persistence to a Backend:
// MemoryBackend for tests and single-process use, PostgresBackend for
// production. WithCache adds a read-through TTL cache in front of the backend;
// Update and Delete invalidate it before they return.
//
// Client input arrives as a Patch, a loosely typed map decoded from JSON. All
// validation failures of a patch are reported together as
// validator.ValidationErrors.
package client
