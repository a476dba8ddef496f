// Package cli provides the interactive BrainSwap command-line client.
//
// It wires configuration, the local session store, the API services and an
// interactive REPL. Session transitions made in the background (expired
// token, logout from another process, connectivity loss) are printed as
// banners between commands.
//
// Key features:
//   - Register (credentials, then skills) / Login / Logout
//   - Browse posts by tab, show a post and schedule one of its calls
//   - Create posts with staged calls, list and delete own posts
//   - Show and edit the profile, top up the balance
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
