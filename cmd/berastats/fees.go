package berastats

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/berachain/berastats/internal/analysis"
)

var feesCmd = &cobra.Command{
	Use:   "fees",
	Short: "Gas and fee distributions over the block range",
	Long: `Fetches the configured block range from the execution layer and
aggregates per-block gas usage and base fees. With --receipts, transaction
receipts are fetched as well and per-transaction gas and effective price
distributions are included.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		result, err := rt.fetchWindow(cmd.Context(), rt.exec)
		if err != nil {
			return err
		}

		report := analysis.Fees(result, analysis.FeeOptions{})
		writeFeeReport(os.Stdout, report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(feesCmd)
}
