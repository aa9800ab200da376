// Package orchestrator wires the document loader, figure construction and page
// rendering into a single call for consumers that want one entry point.
package orchestrator
