package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-chartembed/components/figures"
	"github.com/goliatone/go-chartembed/internal/config"
	"github.com/goliatone/go-chartembed/pkg/document"
)

const serveDesc = `Serve a figure document over HTTP.

Routes below the mount path:
  GET /          full page with every figure
  GET /{id}      HTML fragment for one figure
  GET /{id}/tag  JSON component tag for one figure
`

type serveArgs struct {
	addr     *string
	route    *string
	reload   *bool
	shutdown *time.Duration
}

// NewServeCmd returns the serve command.
func NewServeCmd(cfg *config.Config) *cobra.Command {
	args := serveArgs{
		addr:     new(string),
		route:    new(string),
		reload:   new(bool),
		shutdown: new(time.Duration),
	}

	cmd := &cobra.Command{
		Use:          "serve [document]",
		Short:        "Serve a figure document over HTTP",
		Long:         serveDesc,
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(cc *cobra.Command, pArgs []string) error {
			source := cfg.Document
			if len(pArgs) > 0 {
				source = pArgs[0]
			}
			if err := validateServe(source, args); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			}

			handler, mount, err := newServer(cc.Context(), source, *args.route, *args.reload, slog.Default())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cc.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              *args.addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				slog.Info("serving figures", "addr", *args.addr, "mount", mount, "document", source, "reload", *args.reload)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			slog.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), *args.shutdown)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(args.addr, "addr", orDefault(cfg.BindAddr, "127.0.0.1:8080"), "Address to listen on")
	cmd.Flags().StringVar(args.route, "route", orDefault(cfg.RoutePath, figures.DefaultRoutePath), "Mount path for the figure routes")
	cmd.Flags().BoolVar(args.reload, "reload", cfg.Reload, "Reload the document on every request")
	cmd.Flags().DurationVar(args.shutdown, "shutdown_timeout", 5*time.Second, "Grace period for in-flight requests on shutdown")

	return cmd
}

func validateServe(source string, args serveArgs) error {
	var result *multierror.Error
	if strings.TrimSpace(source) == "" {
		result = multierror.Append(result, errors.New("a document path or URL is required"))
	}
	if strings.TrimSpace(*args.addr) == "" {
		result = multierror.Append(result, errors.New("--addr is required"))
	}
	if *args.shutdown <= 0 {
		result = multierror.Append(result, errors.New("--shutdown_timeout must be positive"))
	}
	return result.ErrorOrNil()
}

// newServer builds the router serving the document at source under route.
// Without reload the document is loaded once and load errors fail fast.
func newServer(ctx context.Context, source, route string, reload bool, logger *slog.Logger) (http.Handler, string, error) {
	loader := document.NewLoader(document.WithHTTPFallback(10 * time.Second))

	options := []figures.OptionFn{
		figures.WithRoutePath(route),
		figures.WithLogger(logger),
	}
	if reload {
		options = append(options, figures.WithLoader(func(ctx context.Context) (*document.Document, error) {
			return loader.Load(ctx, source)
		}))
	} else {
		doc, err := loader.Load(ctx, source)
		if err != nil {
			return nil, "", err
		}
		options = append(options, figures.WithDocument(doc))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(logger), middleware.Recoverer)

	mount := figures.MountPath("", options...)
	r.Mount(mount, figures.Handler(options...))
	return r, mount, nil
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
