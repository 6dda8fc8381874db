// Package preflight provides readiness checks for the document store, the
// registrar command and the directories semdaudit writes to.
//
// The CLI "semdaudit doctor" command runs RunAll and renders each Result as a
// table row. Any failed check makes the command exit nonzero.
package preflight
