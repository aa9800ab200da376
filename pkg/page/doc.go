// Package page renders component trees into standalone HTML documents.
//
// Component asset dependencies (stylesheets and scripts) are collected from
// the component registry for every rendered component name, and an optional
// go-theme selector contributes CSS variables and a theme stylesheet.
package page
