// Package serializer maintains the mapping from value types to functions that
// turn those values into HTML strings.
//
// Chart backends register their conversions when they are linked into a
// binary, typically from an init function targeting Default(). Callers that
// need isolation (tests, multi-tenant servers) build their own registry with
// New or Clone and pass it explicitly.
//
// A missing registration is not an error until something tries to serialize
// a value of that type; Supports and Has let callers detect the capability up
// front.
package serializer
