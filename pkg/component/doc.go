// Package component defines the small set of rendering contracts the chart
// embedding components build on: ordered props, the Tag output structure and
// its HTML writer, the Box layout primitive, value holders, and a descriptor
// registry used to resolve per-component assets.
//
// The package intentionally stops short of a component framework. Tags are
// plain values, rendering is a pure function of a component's inputs, and no
// state is tracked between renders.
package component
