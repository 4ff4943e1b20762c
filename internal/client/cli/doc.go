// Package cli provides the interactive command-line client for the
// blogging service.
//
// It wires configuration, the persisted session, the API gateway and an
// interactive REPL. Typical flow: restore the previous session, show the
// prompt, and execute user commands until exit.
//
// Key features:
//   - Signup / Login / Logout / Whoami
//   - Community feed, own posts, users and mentions, each paged with "more"
//   - Create, edit, delete, like and repost posts
//   - Comment with @mention suggestions, like and delete comments
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
