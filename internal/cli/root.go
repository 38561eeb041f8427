package cli

import (
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// rootCmd is the root command
var rootCmd = &cobra.Command{
	Use:     "chatexport",
	Short:   "Export saved chat pages to Markdown, HTML, JSON or PDF",
	Version: version,
	Long: `Convert a chat conversation saved from the browser ("Save Page As",
HTML only) into a portable transcript. Works offline on files on disk.`,
	Example: `  # Export to Markdown next to the source file
  $ chatexport extract chat.html

  # Export to PDF with a custom title
  $ chatexport extract chat.html -f pdf --title "Trip planning"

  # List supported formats
  $ chatexport formats`,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(formatsCmd)
}
