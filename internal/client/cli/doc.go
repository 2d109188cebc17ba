// Package cli provides the interactive GophBlog command-line client.
//
// It wires configuration, the HTTP API client and a REPL. The session token
// is held in memory only and is dropped on logout or exit.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
