// Command resumectl validates, previews and exports resume record files and
// manages the database schema.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "resumectl",
		Short:         "Resume builder command line tools",
		Long:          "resumectl validates resume record JSON files, renders their preview document, exports them to DOCX, HTML or PDF and runs database migrations.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newValidateCmd(),
		newPreviewCmd(),
		newExportCmd(),
		newMigrateCmd(),
		newBorderCmd(),
	)
	return root
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
