// Package main hosts the semdaudit CLI entrypoint and command graph.
//
// The root command audits SEMD documents stuck in the transport bus since the
// start of the selected window and, with the "register" action, re-submits
// each of them through the configured registrar command. Subcommands cover
// configuration scaffolding and environment checks.
//
// Keep this package lean: the decision logic lives in internal/audit and the
// data access in internal/semd. Commands here resolve configuration, set up
// logging and render results.
package main
