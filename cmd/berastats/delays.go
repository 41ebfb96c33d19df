package berastats

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/berachain/berastats/internal/analysis"
)

var delaysCmd = &cobra.Command{
	Use:   "delays",
	Short: "Per-proposer block delay and signature-count statistics",
	Long: `Fetches the configured block range from the consensus layer and, for
every chronologically adjacent pair, attributes the inter-block delay and
the next block's commit-signature count to the earlier block's proposer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		result, err := rt.fetchWindow(cmd.Context(), rt.cons)
		if err != nil {
			return err
		}

		report := analysis.Delays(result, analysis.DelayOptions{
			MinSamples: rt.cfg.MinSamples,
			Filter:     rt.filter(),
			Names:      rt.names.Name,
		})
		writeDelayReport(os.Stdout, report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(delaysCmd)
}
