package berastats

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/berachain/berastats/internal/analysis"
)

var absencesCmd = &cobra.Command{
	Use:   "absences",
	Short: "Missing commit signatures, attributed to the previous proposer",
	Long: `Fetches the configured block range and classifies every commit
signature. The commit in block N attests to block N-1, so absences are
attributed to the proposer of N-1. Absent voting power is weighed against
periodic validator-set snapshots.`,
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

		report := analysis.Absences(cmd.Context(), result, rt.cons, analysis.AbsenceOptions{
			MinBlocks: rt.cfg.MinSamples,
			Names:     rt.names.Name,
		})
		writeAbsenceReport(os.Stdout, report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(absencesCmd)
}
