// Package audit decides what to do with each stuck SEMD document and collects
// the outcome into a report.
//
// A run has a single Mode. In status mode the Dispatcher labels each record
// from its latest transport status; in register mode it re-submits the
// document through a registrar.Registrar and labels the row with the outcome.
// The Runner ties the finder, dispatcher and report together, one record at a
// time and in finder order.
package audit
