// Package fakeapi is an in-memory BrainSwap backend for tests.
//
// It serves the REST surface the client talks to with gorilla/mux routes,
// issues real HS256 tokens carrying sub, id, role and exp claims, and answers
// errors the way the production backend does: JSON {"message": ...} for
// validation problems and plain text for 404 and 409. Every request is
// recorded so tests can assert on method, path and Authorization header, and
// one-shot failures can be injected per route.
//
//	api := fakeapi.New()
//	srv := httptest.NewServer(api)
//	defer srv.Close()
//	alice := api.SeedUser("alice", "alice@example.com", "passw0rd!")
package fakeapi
