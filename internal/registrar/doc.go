// Package registrar re-submits SEMD documents for registration by running the
// external registration console command.
//
// The Registrar interface is the only thing the audit runner depends on, so
// tests substitute fakes instead of spawning processes. The Command
// implementation runs the configured argv with the document number appended,
// captures combined output, decodes it from the configured charset, and
// classifies the run purely by exit code. Each invocation runs in its own
// process group so a timeout also stops anything the command spawned (sudo,
// php).
package registrar
