package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/set-night/chatexport/internal/domain"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "list supported export formats",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, f := range domain.Formats {
			fmt.Fprintf(out, "%-10s .%-5s %s\n", f, f.Extension(), f.MIMEType())
		}
	},
}
