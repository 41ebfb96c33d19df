package berastats

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/berachain/berastats/internal/analysis"
	"github.com/berachain/berastats/internal/client"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Voting power grouped by execution client software",
	Long: `Scans blocks backward from the chain head, decoding each proposer's
execution-layer extra data into a client identity, until every validator in
the current set has been observed proposing or the block budget runs out.
Voting power is then summed per client and per client version.`,
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
		report := analysis.ClassifyClients(cmd.Context(), scanner, validators, analysis.ClassifyOptions{
			BlockBudget: budget,
			Names:       rt.names.Name,
		})
		writeClassificationReport(os.Stdout, report)
		return nil
	},
}

func init() {
	clientsCmd.Flags().Int("block-budget", 5000, "Maximum blocks the backward scan may consume")
	rootCmd.AddCommand(clientsCmd)
}
