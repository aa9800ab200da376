package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-chartembed/internal/config"
	"github.com/goliatone/go-chartembed/internal/logging"
	"github.com/goliatone/go-chartembed/internal/prompt"
)

var (
	ErrLogHandlerFailed = errors.New("log handler failed")
	ErrInvalidArgument  = errors.New("invalid argument")
)

// newDriver builds the terminal driver used by interactive commands.
var newDriver = prompt.NewSurveyDriver

// RootArgs holds the persistent flags shared by every command.
type RootArgs struct {
	logLevel  *string
	logFormat *string
	logFile   *string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{
		logLevel:  new(string),
		logFormat: new(string),
		logFile:   new(string),
	}
}

func (a *RootArgs) GetLogLevel() string {
	return *a.logLevel
}

func (a *RootArgs) GetLogFormat() string {
	return *a.logFormat
}

func (a *RootArgs) GetLogFile() string {
	return *a.logFile
}

// NewRootCmd returns the chartembed root command. Flag defaults come from cfg.
func NewRootCmd(cfg *config.Config, name, shortDesc, longDesc string) *cobra.Command {
	if cfg == nil {
		cfg = &config.Config{}
	}
	args := NewRootArgs()
	var logCloser io.Closer

	cmd := &cobra.Command{
		Use:           name,
		Short:         shortDesc,
		Long:          longDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(args.logLevel, "log_level", orDefault(cfg.LogLevel, "info"), "Set the log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(args.logFormat, "log_format", orDefault(cfg.LogFormat, logging.TextFormat), "Set the log format (text, json)")
	cmd.PersistentFlags().StringVar(args.logFile, "log_file", cfg.LogFile, "Also write logs to this rotated file")
	must(cmd.MarkPersistentFlagFilename("log_file"))

	cmd.PersistentPreRunE = func(cc *cobra.Command, _ []string) error {
		h, closer, err := logging.NewHandler(cc.ErrOrStderr(), logging.Options{
			Level:  args.GetLogLevel(),
			Format: args.GetLogFormat(),
			File:   args.GetLogFile(),
		})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrLogHandlerFailed, err)
		}
		logCloser = closer
		slog.SetDefault(slog.New(h))

		slog.Debug("ready to go")
		return nil
	}

	cmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		slog.Debug("shutting down")
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	}

	cmd.AddCommand(
		NewRenderCmd(cfg),
		NewServeCmd(cfg),
		NewNewCmd(),
	)
	return cmd
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
