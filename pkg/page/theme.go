package page

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// StylesheetAsset is the manifest asset key a theme uses to ship a page
// stylesheet.
const StylesheetAsset = "chartembed.stylesheet"

// StaticSelector resolves themes from an in-memory set of manifests. Empty
// names fall back to the configured defaults.
type StaticSelector struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*StaticSelector)(nil)

// NewStaticSelector builds a selector over manifests. The first manifest is the
// default theme unless SetDefault is called.
func NewStaticSelector(manifests ...*theme.Manifest) (*StaticSelector, error) {
	s := &StaticSelector{manifests: make(map[string]*theme.Manifest)}
	for _, manifest := range manifests {
		if err := s.Add(manifest); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add registers a manifest, replacing one with the same name.
func (s *StaticSelector) Add(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return fmt.Errorf("page: theme manifest name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifests[manifest.Name] = manifest
	if s.defaultTheme == "" {
		s.defaultTheme = manifest.Name
	}
	return nil
}

// SetDefault configures the theme and variant used for empty selections.
func (s *StaticSelector) SetDefault(name, variant string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultTheme = strings.TrimSpace(name)
	s.defaultVariant = strings.TrimSpace(variant)
}

// Names returns the registered theme names.
func (s *StaticSelector) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select implements theme.ThemeSelector.
func (s *StaticSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name = strings.TrimSpace(name)
	variant = strings.TrimSpace(variant)
	if name == "" {
		name = s.defaultTheme
		if variant == "" {
			variant = s.defaultVariant
		}
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("page: theme %q not found", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("page: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// ForManifest builds a renderer whose selector serves manifest and returns the
// theme name to request. A nil manifest yields an unthemed renderer.
func ForManifest(manifest *theme.Manifest, options ...Option) (*Renderer, string, error) {
	if manifest == nil {
		r, err := New(options...)
		return r, "", err
	}
	selector, err := NewStaticSelector(manifest)
	if err != nil {
		return nil, "", err
	}
	r, err := New(append(options, WithThemeSelector(selector))...)
	if err != nil {
		return nil, "", err
	}
	return r, manifest.Name, nil
}

// RendererConfig flattens a selection: variant tokens, templates and asset
// files override the base manifest, and every token becomes a --token CSS
// variable.
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil {
		return nil
	}
	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: map[string]string{},
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}

	manifest := selection.Manifest
	if manifest == nil {
		return cfg
	}

	prefix := manifest.Assets.Prefix
	files := map[string]string{}
	for key, value := range manifest.Assets.Files {
		files[key] = value
	}
	for key, value := range manifest.Tokens {
		cfg.Tokens[key] = value
	}
	for key, value := range manifest.Templates {
		cfg.Partials[key] = value
	}

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			cfg.Tokens[key] = value
		}
		for key, value := range variant.Templates {
			cfg.Partials[key] = value
		}
		for key, value := range variant.Assets.Files {
			files[key] = value
		}
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") || strings.HasPrefix(file, "/") {
			return file
		}
		if prefix == "" {
			return file
		}
		return path.Join(prefix, file)
	}
	return cfg
}

// CSSVarsStyle renders vars as a :root block with sorted declarations.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
