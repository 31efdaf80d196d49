package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile string
}

// NewRootCommand creates the root command. Without a subcommand it runs the HTTP server.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "transcriptome",
		Short: "Sugarcane transcriptome browser",
		Long:  "Serves the transcriptome dashboard and offers read-only helpers over the transcripts table.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing env file is normal outside local development.
			_ = godotenv.Load(opts.EnvFile)
			return nil
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "file of environment variables to load before reading configuration")

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewFastaCommand())
	cmd.AddCommand(NewStatsCommand())

	return cmd
}
