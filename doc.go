// Package chartembed embeds chart values into HTML component trees. A figure
// converts its chart through the serializer registry and injects the result
// as the container's inner HTML; documents, pages and the orchestrator build
// on that to render whole dashboards.
package chartembed
