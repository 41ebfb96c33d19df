package analysis

import (
	"github.com/berachain/berastats/internal/fetcher"
	"github.com/berachain/berastats/internal/stats"
)

// FeeOptions tune the fee/gas distribution report.
type FeeOptions struct {
	// HistogramBuckets defaults to 10.
	HistogramBuckets int
}

// FeeReport holds per-block gas and base-fee distributions, plus
// per-transaction distributions when receipts were fetched.
type FeeReport struct {
	GasUsed        stats.Summary
	GasHistogram   []stats.Bucket
	BaseFee        stats.Summary
	BaseFeeHist    []stats.Bucket
	TxGas          stats.Summary
	TxGasHist      []stats.Bucket
	TxGasPrice     stats.Summary
	TxGasPriceHist []stats.Bucket
	Blocks         int
	Transactions   int
}

// Fees aggregates the execution-layer gas and fee fields of the fetched set.
func Fees(result *fetcher.Result, opts FeeOptions) *FeeReport {
	if opts.HistogramBuckets <= 0 {
		opts.HistogramBuckets = defaultHistogramBuckets
	}

	var gas, baseFee, txGas, txPrice stats.Accumulator
	report := &FeeReport{}

	for _, height := range result.SortedHeights() {
		rec := result.Records[height]
		gas.Add(float64(rec.GasUsed))
		baseFee.Add(float64(rec.BaseFeePerGas))
		report.Blocks++
		for _, rcpt := range rec.Receipts {
			txGas.Add(float64(rcpt.GasUsed))
			txPrice.Add(float64(rcpt.EffectiveGasPrice))
			report.Transactions++
		}
	}

	report.GasUsed = gas.Finalize()
	report.GasHistogram = stats.NewHistogram(gas.Samples(), opts.HistogramBuckets)
	report.BaseFee = baseFee.Finalize()
	report.BaseFeeHist = stats.NewHistogram(baseFee.Samples(), opts.HistogramBuckets)
	report.TxGas = txGas.Finalize()
	report.TxGasHist = stats.NewHistogram(txGas.Samples(), opts.HistogramBuckets)
	report.TxGasPrice = txPrice.Finalize()
	report.TxGasPriceHist = stats.NewHistogram(txPrice.Samples(), opts.HistogramBuckets)
	return report
}
