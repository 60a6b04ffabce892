// Package metrics holds the prometheus collectors of the CLI.
//
// A CLI process is short lived, so nothing is served over HTTP. When the
// --metrics-file flag is set the registry is written once, on exit, in the
// node_exporter textfile format.
package metrics
