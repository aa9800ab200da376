package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-chartembed/internal/prompt"
	"github.com/goliatone/go-chartembed/pkg/document"
)

const newExample = `  # Start a new document or append a figure to an existing one
  chartembed new report.yaml
`

// NewNewCmd returns the command that builds a figure interactively and
// appends it to a YAML document.
func NewNewCmd() *cobra.Command {
	title := new(string)

	cmd := &cobra.Command{
		Use:          "new <document>",
		Short:        "Add a figure to a document interactively",
		Example:      newExample,
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cc *cobra.Command, pArgs []string) error {
			path := pArgs[0]

			doc, err := document.LoadFile(path)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				doc = &document.Document{Title: *title}
			case err != nil:
				return err
			}

			spec, err := prompt.NewFigure(cc.Context(), newDriver())
			if err != nil {
				return err
			}
			if _, exists := doc.Figure(spec.ID); exists {
				return fmt.Errorf("%w: figure %q already exists in %s", ErrInvalidArgument, spec.ID, path)
			}
			doc.Figures = append(doc.Figures, spec)

			out, err := yaml.Marshal(doc)
			if err != nil {
				return fmt.Errorf("failed to encode document: %w", err)
			}
			if _, err := document.Parse(out, path); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			if err := os.WriteFile(path, out, 0o644); err != nil {
				return fmt.Errorf("failed to write document: %w", err)
			}

			slog.Info("added figure", "id", spec.ID, "type", spec.Type, "path", path)
			cc.Printf("added %s figure %q to %s\n", spec.Type, spec.ID, path)
			return nil
		},
	}

	cmd.Flags().StringVar(title, "title", "", "Title for a newly created document")
	return cmd
}
