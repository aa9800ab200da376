package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Figure types understood by Build.
const (
	TypeBar     = "bar"
	TypeLine    = "line"
	TypePie     = "pie"
	TypeScatter = "scatter"
	TypeSVG     = "svg"
)

// ErrInvalid wraps every structural or semantic document failure.
var ErrInvalid = errors.New("document: invalid document")

// Document is a declarative set of figures.
type Document struct {
	Title   string            `json:"title,omitempty" yaml:"title,omitempty"`
	Theme   string            `json:"theme,omitempty" yaml:"theme,omitempty"`
	Variant string            `json:"variant,omitempty" yaml:"variant,omitempty"`
	Tokens  map[string]string `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Figures []FigureSpec      `json:"figures" yaml:"figures"`

	// Source is the path the document was loaded from, if any.
	Source string `json:"-" yaml:"-"`
}

// FigureSpec describes one chart.
type FigureSpec struct {
	ID       string   `json:"id" yaml:"id"`
	Type     string   `json:"type" yaml:"type"`
	Title    string   `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle string   `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Width    string   `json:"width,omitempty" yaml:"width,omitempty"`
	Height   string   `json:"height,omitempty" yaml:"height,omitempty"`
	Labels   []string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Series   []Series `json:"series,omitempty" yaml:"series,omitempty"`
	Markup   string   `json:"markup,omitempty" yaml:"markup,omitempty"`
}

// Series is a named run of values.
type Series struct {
	Name string    `json:"name" yaml:"name"`
	Data []float64 `json:"data" yaml:"data"`
}

// Parse decodes a JSON or YAML document and validates it.
func Parse(data []byte, source string) (*Document, error) {
	if source == "" {
		source = "document"
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalid, source)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("document: parse %s: %w", source, err)
	}
	if err := validateStructure(raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, source, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("document: decode %s: %w", source, err)
	}
	if err := doc.Check(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, source, err)
	}
	doc.Source = source
	return &doc, nil
}

// LoadFile reads and parses the document at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("document: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS walks fsys and parses every JSON or YAML file, in lexical order.
func LoadFS(fsys fs.FS) ([]*Document, error) {
	if fsys == nil {
		return nil, nil
	}

	var docs []*Document
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDocumentFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("document: read %s: %w", path, err)
		}
		doc, err := Parse(data, path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Check enforces the rules the schema cannot express: unique ids and series
// shapes that match the figure type.
func (d *Document) Check() error {
	var result *multierror.Error
	seen := make(map[string]struct{}, len(d.Figures))
	for idx, spec := range d.Figures {
		if _, ok := seen[spec.ID]; ok {
			result = multierror.Append(result, fmt.Errorf("figures[%d]: duplicate id %q", idx, spec.ID))
		}
		seen[spec.ID] = struct{}{}

		if err := spec.Check(); err != nil {
			result = multierror.Append(result, fmt.Errorf("figures[%d] %q: %w", idx, spec.ID, err))
		}
	}
	return result.ErrorOrNil()
}

// Check validates a single figure.
func (f FigureSpec) Check() error {
	switch f.Type {
	case TypeSVG:
		if strings.TrimSpace(f.Markup) == "" {
			return errors.New("svg figures require markup")
		}
		if len(f.Series) > 0 {
			return errors.New("svg figures do not take series")
		}
		return nil
	case TypeBar, TypeLine, TypeScatter, TypePie:
	default:
		return fmt.Errorf("unknown figure type %q", f.Type)
	}

	if len(f.Series) == 0 {
		return fmt.Errorf("%s figures require at least one series", f.Type)
	}
	if f.Type == TypePie && len(f.Series) != 1 {
		return errors.New("pie figures take exactly one series")
	}
	if f.Type == TypePie && len(f.Labels) == 0 {
		return errors.New("pie figures require labels")
	}
	if len(f.Labels) == 0 {
		return nil
	}
	for _, series := range f.Series {
		if len(series.Data) != len(f.Labels) {
			return fmt.Errorf("series %q has %d values for %d labels", series.Name, len(series.Data), len(f.Labels))
		}
	}
	return nil
}

// Figure returns the figure with the given id.
func (d *Document) Figure(id string) (FigureSpec, bool) {
	if d == nil {
		return FigureSpec{}, false
	}
	for _, spec := range d.Figures {
		if spec.ID == id {
			return spec, true
		}
	}
	return FigureSpec{}, false
}

// IDs lists the figure ids in document order.
func (d *Document) IDs() []string {
	if d == nil {
		return nil
	}
	ids := make([]string, 0, len(d.Figures))
	for _, spec := range d.Figures {
		ids = append(ids, spec.ID)
	}
	return ids
}

// Manifest exposes the document tokens as a go-theme manifest. It returns nil
// when the document carries no tokens.
func (d *Document) Manifest() *theme.Manifest {
	if d == nil || len(d.Tokens) == 0 {
		return nil
	}
	name := strings.TrimSpace(d.Theme)
	if name == "" {
		name = "document"
	}
	tokens := make(map[string]string, len(d.Tokens))
	for key, value := range d.Tokens {
		tokens[key] = value
	}
	return &theme.Manifest{
		Name:    name,
		Version: "1.0.0",
		Tokens:  tokens,
	}
}

func isDocumentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
