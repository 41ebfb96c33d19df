package berastats

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/berachain/berastats/internal/analysis"
	"github.com/berachain/berastats/internal/client"
)

var upgradesCmd = &cobra.Command{
	Use:   "upgrades",
	Short: "Client software switches per validator",
	Long: `Scans blocks backward from the chain head and records, for every
validator in the current set, the points where its decoded client identity
changes. Each event is stamped with the oldest block already known to run
the newer client.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		validators, err := rt.cons.Validators(cmd.Context(), 0)
		if err != nil {
			return errors.Wrap(err, "fetching validator set")
		}
		scanner, _, err := rt.headScanner(cmd.Context(), client.NewPaired(rt.cons, rt.exec))
		if err != nil {
			return err
		}

		budget, _ := cmd.Flags().GetInt("block-budget")
		report := analysis.TrackUpgrades(cmd.Context(), scanner, validators, analysis.UpgradeOptions{
			BlockBudget: budget,
			Names:       rt.names.Name,
		})
		writeUpgradeReport(os.Stdout, report, rt.names.Name)
		return nil
	},
}

func init() {
	upgradesCmd.Flags().Int("block-budget", 5000, "Maximum blocks the backward scan may consume")
	rootCmd.AddCommand(upgradesCmd)
}
