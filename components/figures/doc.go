// Package figures serves the figures of a chart document over HTTP.
//
// The handler responds to GET and HEAD requests:
//
//	GET /          full HTML page with every figure
//	GET /{id}      HTML fragment for one figure
//	GET /{id}/tag  JSON description of the rendered tag
//
// Routes are relative to the mount path (default /figures).
package figures
