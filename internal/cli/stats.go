package cli

import (
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"transcriptome/app/internal/domain/transcript"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the dashboard summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := openData(cmd.Context())
			if err != nil {
				return err
			}
			defer data.Cleanup()

			stats, err := data.TranscriptService.Dashboard(cmd.Context())
			if err != nil {
				return err
			}

			return writeStats(cmd.OutOrStdout(), stats)
		},
	}
}

func writeStats(w io.Writer, stats *transcript.Stats) error {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "Transcripts:    %d\n", stats.TotalTranscripts)
	p.Fprintf(w, "Average length: %.1f bp\n", stats.AvgLength)
	p.Fprintf(w, "Average GC:     %.2f%%\n", stats.AvgGC)
	p.Fprintf(w, "Length range:   %d-%d bp\n", stats.MinLength, stats.MaxLength)

	if len(stats.Cultivars) == 0 {
		return nil
	}

	p.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	p.Fprintln(tw, "CULTIVAR\tTRANSCRIPTS\tAVG GC")
	for _, stat := range stats.Cultivars {
		p.Fprintf(tw, "%s\t%d\t%.2f\n", stat.Cultivar, stat.Count, stat.AvgGC)
	}
	return tw.Flush()
}
