package cli

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

// NewFastaCommand creates the fasta command.
func NewFastaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fasta <id>",
		Short: "Write a transcript's FASTA record to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return eris.Errorf("invalid transcript id %q", args[0])
			}

			data, err := openData(cmd.Context())
			if err != nil {
				return err
			}
			defer data.Cleanup()

			fasta, err := data.TranscriptService.Download(cmd.Context(), id)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(fasta.Body)
			return err
		},
	}
}
