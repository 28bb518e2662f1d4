package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for kortkollect
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kortkollect",
		Short: "Collect card images matching failed batch-job IDs",
		Long: `Kortkollect gathers the source images of failed batch jobs into a new
directory so the failed subset can be resubmitted as a rerun batch.

It indexes all image files under a root directory, extracts job identifiers
from error-marker filenames, looks each identifier up in the index, and
copies the matching image into the output directory.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewCollectCommand())
	cmd.AddCommand(NewScanCommand())

	return cmd
}
