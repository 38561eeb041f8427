package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/set-night/chatexport/internal/domain"
	"github.com/set-night/chatexport/internal/extractor"
	"github.com/set-night/chatexport/internal/render"
)

type extractOptions struct {
	format string
	out    string
	title  string
	theme  string
}

func newExtractCmd() *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract <file.html>",
		Short: "export a saved chat page",
		Long: `Extract the conversation from a saved chat page and write it in the
chosen format. Without --out the file is written next to the source,
named after the conversation title.`,
		Example: `  $ chatexport extract chat.html
  $ chatexport extract chat.html -f json -o -
  $ chatexport extract chat.html -f html --theme "#4CAF50"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runExtract(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
			if err != nil {
				printError(cmd.ErrOrStderr(), "%s", describeError(err))
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "md", "output format: md, html, json or pdf")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", `output path, "-" for stdout`)
	cmd.Flags().StringVar(&opts.title, "title", "", "override the conversation title")
	cmd.Flags().StringVar(&opts.theme, "theme", domain.DefaultThemeColor, "accent color for HTML output")

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd
}

// runExtract renders path into the requested format. Status lines go to
// status; with --out "-" the file itself goes to stdout.
func runExtract(stdout, status io.Writer, path string, opts *extractOptions) error {
	format, err := domain.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if !domain.ValidThemeColor(opts.theme) {
		return domain.ErrInvalidThemeColor
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	printInfo(status, "Exporting %s as %s...", filepath.Base(path), strings.ToUpper(format.Extension()))

	conv, err := extractor.New().ExtractHTML(f)
	if err != nil {
		return err
	}
	if opts.title != "" {
		conv.Title = opts.title
	}

	file, err := render.Render(conv, format, render.Options{ThemeColor: opts.theme})
	if err != nil {
		return err
	}

	if opts.out == "-" {
		_, err := stdout.Write(file.Data)
		return err
	}

	dest := opts.out
	if dest == "" {
		dest = filepath.Join(filepath.Dir(path), file.Name)
	}
	if _, err := os.Stat(dest); err == nil {
		printWarning(status, "Overwriting %s", dest)
	}
	if err := os.WriteFile(dest, file.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}

	printSuccess(status, "Export complete! %d messages written to %s", len(conv.Messages), dest)
	return nil
}

func describeError(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoElementsFound):
		return "No conversation found on this page. Save the page after the chat has fully loaded."
	case errors.Is(err, domain.ErrNoMessagesExtracted):
		return "The conversation was found but no readable messages were extracted."
	case errors.Is(err, domain.ErrInvalidPage):
		return "The file could not be parsed as HTML."
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return "Unsupported format. Run 'chatexport formats' to see the options."
	case errors.Is(err, domain.ErrInvalidThemeColor):
		return "Theme must be a hex color like #2196F3."
	default:
		return err.Error()
	}
}
