package berastats

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/berachain/berastats/internal/analysis"
	"github.com/berachain/berastats/internal/stats"
)

func heading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

func label(address, name string) string {
	if name == "" || name == address {
		return address
	}
	return fmt.Sprintf("%s (%s)", name, address)
}

func writeSummary(w io.Writer, title string, s stats.Summary) {
	heading(w, title)
	fmt.Fprintf(w, "samples=%d min=%.1f max=%.1f mean=%.1f stddev=%.1f median=%.1f p90=%.1f p99=%.1f\n",
		s.Count, s.Min, s.Max, s.Mean, s.StdDev, s.Median, s.Percentile(90), s.Percentile(99))
}

func writeHistogram(w io.Writer, buckets []stats.Bucket) {
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	for _, b := range buckets {
		pct := 0.0
		if total > 0 {
			pct = 100 * float64(b.Count) / float64(total)
		}
		fmt.Fprintf(w, "  [%12.1f, %12.1f)  %6d  %5.1f%%\n", b.Low, b.High, b.Count, pct)
	}
}

func writeDelayReport(w io.Writer, report *analysis.DelayReport) {
	writeSummary(w, "Block delay, all proposers (ms)", report.AllDelays)
	writeHistogram(w, report.Histogram)

	heading(w, "Per-proposer delay and signature impact")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROPOSER\tBLOCKS\tMEAN DELAY\tMEDIAN\tSTDDEV\tMEAN SIGS\tMEDIAN SIGS")
	for _, e := range report.Entries {
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\n",
			label(e.Proposer, e.Name), e.Delay.Count,
			e.Delay.Mean, e.Delay.Median, e.Delay.StdDev,
			e.SigCount.Mean, e.SigCount.Median)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d adjacent pairs analyzed\n", report.Pairs)
}

func writeAbsenceReport(w io.Writer, report *analysis.AbsenceReport) {
	heading(w, "Absences attributed to the previous proposer")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROPOSER\tBLOCKS\tMEAN ABSENT SIGS\tMAX\tMEAN ABSENT STAKE")
	for _, e := range report.Unlucky {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.0f\t%.2f\n",
			label(e.Proposer, e.Name), e.AbsentSignatures.Count,
			e.AbsentSignatures.Mean, e.AbsentSignatures.Max, e.AbsentStake.Mean)
	}
	tw.Flush()

	heading(w, "Validators by absence rate")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VALIDATOR\tOPPORTUNITIES\tABSENCES\tRATE")
	for _, v := range report.Absentees {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f%%\n",
			label(v.Validator, v.Name), v.Opportunities, v.Absences, 100*v.Rate)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d blocks attributed\n", report.Blocks)
}

func writeClassificationReport(w io.Writer, report *analysis.ClassificationReport) {
	heading(w, "Voting power by client")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CLIENT\tVALIDATORS\tSTAKE")
	for _, c := range report.ByClient {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\n", c.Client, c.Validators, c.Stake)
	}
	if len(report.UnknownValidators) > 0 {
		fmt.Fprintf(tw, "unknown\t%d\t%.2f\n", len(report.UnknownValidators), report.UnknownStake)
	}
	tw.Flush()

	heading(w, "Voting power by client version")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CLIENT\tVERSION\tSTAKE")
	for _, c := range report.ByClientVersion {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\n", c.Client, c.Version, c.Stake)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d blocks scanned\n", report.ScannedBlocks)
}

func writeUpgradeReport(w io.Writer, report *analysis.UpgradeReport, names analysis.NameFunc) {
	heading(w, "Client upgrades")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VALIDATOR\tFROM\tTO\tHEIGHT")
	for _, e := range report.Events {
		name := e.ValidatorAddress
		if names != nil {
			name = label(e.ValidatorAddress, names(e.ValidatorAddress))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", name, e.FromClient, e.ToClient, e.Height)
	}
	tw.Flush()

	if len(report.Unchanged) > 0 {
		heading(w, "No upgrade observed")
		for _, v := range report.Unchanged {
			name := v
			if names != nil {
				name = label(v, names(v))
			}
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	fmt.Fprintf(w, "\n%d blocks scanned\n", report.ScannedBlocks)
}

func writeFeeReport(w io.Writer, report *analysis.FeeReport) {
	writeSummary(w, "Gas used per block", report.GasUsed)
	writeHistogram(w, report.GasHistogram)
	writeSummary(w, "Base fee per block (wei)", report.BaseFee)
	writeHistogram(w, report.BaseFeeHist)

	if report.Transactions > 0 {
		writeSummary(w, "Gas used per transaction", report.TxGas)
		writeHistogram(w, report.TxGasHist)
		writeSummary(w, "Effective gas price per transaction (wei)", report.TxGasPrice)
		writeHistogram(w, report.TxGasPriceHist)
	}
	fmt.Fprintf(w, "\n%d blocks, %d transactions\n", report.Blocks, report.Transactions)
}
