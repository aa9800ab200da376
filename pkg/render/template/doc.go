// Package template defines the renderer-agnostic template contract used by
// pages and chart snippet serializers. The pongo2-backed implementation lives
// in the gotemplate subpackage.
package template
