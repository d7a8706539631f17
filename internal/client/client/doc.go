// Package client contains the client-side building blocks that talk to the
// outside world.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract for the identity endpoint (see the Client
//     interface): Signup and Login, each a single request/response exchange.
//  2. An HTTPS/JSON implementation (see HTTPClient) speaking the
//     accounts:signUp and accounts:signInWithPassword operations, with the
//     provider key passed as a query parameter.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) that opens
//     the SQLite database holding the session record and applies embedded
//     goose migrations.
//
// # Error Handling
//
// Failures are reported as sentinel errors matched with errors.Is:
// ErrUnavailable for transport failures, ErrEmailExists, ErrEmailNotFound
// and ErrInvalidPassword for the endpoint codes of the same name, and
// ErrUnknown (via *UnknownError) for everything else, including malformed
// bodies. Nothing is retried here.
package client
