// Package document loads declarative figure documents (YAML or JSON) and
// turns their figure specs into chart values.
//
// Documents are validated in two passes: a structural pass against an
// embedded OpenAPI schema, then per-figure shape checks. Both passes report
// every issue they find.
package document
