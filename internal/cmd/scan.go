package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kortkat/kortkollect/internal/config"
	"github.com/kortkat/kortkollect/internal/index"
)

// NewScanCommand creates and returns the scan subcommand
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <root-dir>",
		Short: "List the images a collect run would index",
		Long: `Build the image index for a root directory and print it, without
collecting anything.

This is an inspection aid: it shows exactly which files a collect run would
consider, in the order the index records them. No scratch file is written.

Exit code: 0 even when no images are found; the index is simply empty.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfigFromDir(".")
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return scanRoot(args[0], cfg.Extensions, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	return cmd
}

// scanRoot builds an in-memory index for rootDir and prints its contents.
func scanRoot(rootDir string, extensions []string, out io.Writer) error {
	paths, err := index.Scan(rootDir, extensions)
	if err != nil {
		return err
	}

	ix := index.New(paths)
	for _, p := range ix.Paths() {
		fmt.Fprintln(out, p)
	}
	fmt.Fprintf(out, "\nIndexed %d image(s) under %s\n", ix.Len(), rootDir)

	return nil
}
