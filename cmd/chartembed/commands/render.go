package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-chartembed/internal/config"
	"github.com/goliatone/go-chartembed/internal/prompt"
	"github.com/goliatone/go-chartembed/pkg/document"
	"github.com/goliatone/go-chartembed/pkg/orchestrator"
)

const (
	renderDesc = `Render a figure document into a standalone HTML page, or into bare
figure fragments with --fragments.
`
	renderExample = `  # Render every figure into a page on stdout
  chartembed render report.yaml

  # Render two figures as echarts snippets into a file
  chartembed render report.yaml --figures revenue,share --snippets -o report.html

  # Pick figures and output interactively
  chartembed render report.yaml -i
`
)

type renderArgs struct {
	output      *string
	figures     *[]string
	title       *string
	theme       *string
	variant     *string
	snippets    *bool
	fragments   *bool
	interactive *bool
	httpTimeout *time.Duration
}

// NewRenderCmd returns the render command.
func NewRenderCmd(cfg *config.Config) *cobra.Command {
	args := renderArgs{
		output:      new(string),
		figures:     new([]string),
		title:       new(string),
		theme:       new(string),
		variant:     new(string),
		snippets:    new(bool),
		fragments:   new(bool),
		interactive: new(bool),
		httpTimeout: new(time.Duration),
	}

	cmd := &cobra.Command{
		Use:          "render [document]",
		Short:        "Render a figure document to HTML",
		Long:         renderDesc,
		Example:      renderExample,
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(cc *cobra.Command, pArgs []string) error {
			source := cfg.Document
			if len(pArgs) > 0 {
				source = pArgs[0]
			}
			if err := validateRender(source, args); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			}

			ctx := cc.Context()
			loader := document.NewLoader(document.WithHTTPFallback(*args.httpTimeout))
			doc, err := loader.Load(ctx, source)
			if err != nil {
				return err
			}

			if *args.interactive {
				plan, err := prompt.Plan(ctx, newDriver(), doc, *args.output)
				if err != nil {
					return err
				}
				*args.figures = plan.Figures
				*args.output = plan.Output
				*args.snippets = plan.Snippets
			}

			var options []orchestrator.Option
			if *args.snippets {
				options = append(options, orchestrator.WithSnippets(nil))
			}
			orch := orchestrator.New(options...)
			req := orchestrator.Request{
				Document: doc,
				Figures:  *args.figures,
				Title:    *args.title,
				Theme:    *args.theme,
				Variant:  *args.variant,
			}

			var out []byte
			if *args.fragments {
				fragments, err := orch.Fragments(ctx, req)
				if err != nil {
					return err
				}
				parts := make([]string, 0, len(fragments))
				for _, fragment := range fragments {
					parts = append(parts, fragment.HTML)
				}
				out = []byte(strings.Join(parts, "\n") + "\n")
			} else if out, err = orch.Generate(ctx, req); err != nil {
				return err
			}

			slog.Debug("rendered document",
				"source", source,
				"figures", len(doc.IDs()),
				"bytes", len(out),
				"snippets", *args.snippets,
			)

			outFile := *args.output
			if outFile == "" {
				_, err := cc.OutOrStdout().Write(out)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(outFile), 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			if err := os.WriteFile(outFile, out, 0o644); err != nil {
				return fmt.Errorf("failed to write to output file: %w", err)
			}
			slog.Info("wrote output", "path", outFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(args.output, "output", "o", cfg.Output, "Write the output to this file instead of stdout")
	cmd.Flags().StringSliceVar(args.figures, "figures", nil, "Render only these figure ids, in this order")
	cmd.Flags().StringVar(args.title, "title", "", "Override the document title")
	cmd.Flags().StringVar(args.theme, "theme", cfg.Theme, "Theme name to request")
	cmd.Flags().StringVar(args.variant, "variant", cfg.Variant, "Theme variant to request")
	cmd.Flags().BoolVar(args.snippets, "snippets", cfg.Snippets, "Embed echarts figures as snippets sharing one runtime script")
	cmd.Flags().BoolVar(args.fragments, "fragments", false, "Emit bare figure fragments instead of a page")
	cmd.Flags().BoolVarP(args.interactive, "interactive", "i", false, "Choose figures and output interactively")
	cmd.Flags().DurationVar(args.httpTimeout, "http_timeout", 10*time.Second, "Timeout for documents loaded over http(s)")
	must(cmd.MarkFlagFilename("output"))

	return cmd
}

func validateRender(source string, args renderArgs) error {
	var result *multierror.Error
	if strings.TrimSpace(source) == "" {
		result = multierror.Append(result, errors.New("a document path or URL is required"))
	}
	if *args.interactive && *args.fragments {
		result = multierror.Append(result, errors.New("--interactive cannot be combined with --fragments"))
	}
	if *args.httpTimeout < 0 {
		result = multierror.Append(result, errors.New("--http_timeout must not be negative"))
	}
	return result.ErrorOrNil()
}
