// Package client talks to the BrainSwap REST backend and bootstraps the local
// SQLite store.
//
// # Overview
//
//  1. Client is the API contract, one method per endpoint.
//  2. HTTPClient implements it over net/http with a bounded timeout, a bearer
//     token taken from a pluggable token source, and W3C trace-context
//     propagation through the global OpenTelemetry propagator.
//  3. InitDatabase and RunMigrations open the client store and apply the
//     embedded goose migrations.
//
// # Error Handling
//
// A request that gets no response invokes the OnUnavailable hook with
// UnavailableMessage and fails with an error matching ErrUnavailable.
// Responses with status >= 400 come back as *APIError, which matches
// ErrUnauthorized (401, 403), ErrNotFound (404) and ErrConflict (409) via
// errors.Is. Nothing is retried.
package client
