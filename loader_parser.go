package chartembed

import (
	"github.com/goliatone/go-chartembed/pkg/document"
)

// NewLoader constructs a document loader for files, an fs.FS or URLs.
func NewLoader(options ...document.LoaderOption) *document.Loader {
	return document.NewLoader(options...)
}

// ParseDocument decodes and validates a YAML or JSON figure document.
func ParseDocument(data []byte, source string) (*document.Document, error) {
	return document.Parse(data, source)
}
