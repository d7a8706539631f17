// Package cli provides the interactive recipebook shell.
//
// It wires configuration, the session record backend, the identity client
// and the session controller, then runs a small REPL on top of them. On
// start the shell restores a stored session, if one is still valid, and it
// follows session outcomes to keep its route (/auth or /recipes) current.
//
// Commands: signup, login, logout, whoami, recipes, help, exit.
//
// The shell is started via App.Run(ctx), which blocks until the user exits.
package cli
