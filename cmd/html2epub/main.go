package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"html2epub/internal/book"
	"html2epub/internal/converter"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "html2epub",
		Short: "Convert HTML book chapters into EPUB packages",
		Long: `html2epub converts a folder of HTML book chapters into an EPUB package.

The book directory holds one <label>.html file per chapter plus a book.yaml
definition listing metadata and reading order. "prepare" cleans the raw HTML
and collects images into per-chapter folders, "build" assembles prepared
chapters into a single .epub file, and "convert" runs both.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "Book definition path (default <book-dir>/book.yaml)")
	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Shorthand for --log-level debug")

	root.AddCommand(newPrepareCmd(), newBuildCmd(), newConvertCmd())
	return root
}

func newPrepareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prepare <book-dir>",
		Short: "Clean raw chapter HTML and collect images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPipeline(cmd, args)
			if err != nil {
				return err
			}
			return p.Prepare()
		},
	}
	addImageFlags(cmd)
	return cmd
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <book-dir>",
		Short: "Assemble prepared chapters into an EPUB file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPipeline(cmd, args)
			if err != nil {
				return err
			}
			return p.Build()
		},
	}
	addBuildFlags(cmd)
	return cmd
}

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <book-dir>",
		Short: "Prepare and build in one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPipeline(cmd, args)
			if err != nil {
				return err
			}
			return p.Convert()
		},
	}
	addImageFlags(cmd)
	addBuildFlags(cmd)
	return cmd
}

func addImageFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max-image-width", 0, "Downscale images wider than this many pixels (0 = default)")
	cmd.Flags().Int("quality", 0, "JPEG re-encode quality 1-100 (0 = default)")
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Output EPUB path (default <book-dir>/<dirname>.epub)")
	cmd.Flags().String("style", "", "Stylesheet path override")
	cmd.Flags().Bool("allow-missing-images", false, "Drop references to missing image files instead of failing")
}

// newPipeline loads the book definition and turns the flag set into pipeline
// options.
func newPipeline(cmd *cobra.Command, args []string) (*converter.Pipeline, error) {
	bookDir := args[0]

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = filepath.Join(bookDir, "book.yaml")
	}

	bk, err := book.Load(configPath)
	if err != nil {
		return nil, err
	}

	logLevel, _ := cmd.Flags().GetString("log-level")
	logFormat, _ := cmd.Flags().GetString("log-format")
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logLevel = "debug"
	}
	logger, err := buildLogger(cmd.ErrOrStderr(), logLevel, logFormat)
	if err != nil {
		return nil, err
	}

	opts := converter.Options{
		BookDir: bookDir,
		Logger:  logger,
	}
	opts.OutputPath, _ = cmd.Flags().GetString("output")
	opts.StylePath, _ = cmd.Flags().GetString("style")
	opts.AllowMissingImages, _ = cmd.Flags().GetBool("allow-missing-images")
	opts.MaxImageWidth, _ = cmd.Flags().GetInt("max-image-width")
	opts.JPEGQuality, _ = cmd.Flags().GetInt("quality")

	if opts.JPEGQuality < 0 || opts.JPEGQuality > 100 {
		return nil, fmt.Errorf("--quality must be between 1 and 100, got %d", opts.JPEGQuality)
	}
	if opts.MaxImageWidth < 0 {
		return nil, fmt.Errorf("--max-image-width must be positive, got %d", opts.MaxImageWidth)
	}

	return converter.NewPipeline(bk, opts), nil
}

// buildLogger constructs the slog logger from the log flags.
func buildLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid --log-level %q", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q", format)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
