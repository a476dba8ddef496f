// Package session keeps track of who is logged in.
//
// A Manager holds the session token, the claims decoded from it and a cached
// profile snapshot. It is Authenticated while storage holds a token that
// decodes and has not expired, and drops to Unauthenticated on logout, on a
// missing, malformed or expired token, on a 401/403 from the backend, and when
// the backend cannot be reached. Entering Unauthenticated empties the profile
// cache, removes the token and cached username from storage and notifies
// subscribers.
//
// The stored token is re-checked on a fixed interval and, when configured,
// whenever the storage file changes on disk, so a logout or login in another
// client process sharing the store is picked up.
package session
