package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/ambient/pkg/logger"
	"github.com/dmitrymomot/ambient/pkg/requestid"
)

// Version information (set via ldflags at build time)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "ambient",
		Short: "Sanitized access to request values",
		Long: `Look up request values from GET, POST, the combined REQUEST map, SERVER,
ENV and host-registered sources, HTML-escaped and revalidated on the way out.

Commands:
  - eval:  run a lookup against a snapshot stored in a YAML or JSON file
  - serve: expose lookups over HTTP for the request being served`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info",
		"Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", string(logger.FormatText),
		"Log format (json, text)")

	root.AddCommand(
		newEvalCmd(),
		newServeCmd(flags),
		newVersionCmd(),
	)

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ambient version %s\n", version)
			fmt.Fprintf(out, "  Commit:     %s\n", commit)
			fmt.Fprintf(out, "  Build date: %s\n", buildDate)
			fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
		},
	}
}

// newLogger builds the process logger. Unknown formats fall back to text.
func newLogger(flags *globalFlags, w io.Writer) *slog.Logger {
	format := logger.Format(flags.logFormat)
	if format != logger.FormatJSON {
		format = logger.FormatText
	}
	return logger.New(
		logger.WithOutput(w),
		logger.WithLevelName(flags.logLevel),
		logger.WithFormat(format),
		logger.WithService("ambient"),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
