// Package figure embeds chart values inside a component tree.
//
// A Figure holds a chart by reference and, at render time, converts it into
// HTML through the serializer registry (or the HTMLRenderer capability when
// the value exports itself). The result is emitted as the inner HTML of a Box
// container; the original chart prop never reaches the output.
//
// Rendering is a pure function of the figure's inputs: rendering the same
// figure twice yields the same tag, and the chart reference is retained.
package figure
