package chartembed

import (
	"io/fs"

	"github.com/goliatone/go-chartembed/pkg/page"
)

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the page package directly.
func EmbeddedTemplates() fs.FS {
	return page.Templates()
}
