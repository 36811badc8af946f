package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"MemeSim/internal/model"
	"MemeSim/internal/recorder"
)

// FormatExpectedValue renders the per-asset expected value line.
func FormatExpectedValue(ev float64, unit string) string {
	return fmt.Sprintf("Expected Value per Meme: %.4f %s", ev, unit)
}

// FormatParams lists the simulation inputs.
func FormatParams(p model.Params, unit string) string {
	var b strings.Builder
	b.WriteString("⚙️ Simulation parameters\n\n")
	b.WriteString(fmt.Sprintf("Initial capital: %s %s\n", amount(p.InitialCapital), unit))
	b.WriteString(fmt.Sprintf("Capital per meme: %s %s (one buy per day)\n", amount(p.CapitalPerAsset), unit))
	b.WriteString(fmt.Sprintf("Short-stage failure rate: %.0f%% (after 6h)\n", p.ShortFailureRate*100))
	b.WriteString(fmt.Sprintf("Long-stage failure rate: %.0f%% (after 30d)\n", p.LongFailureRate*100))
	b.WriteString(fmt.Sprintf("Success multiplier: x%g on the 10x mark\n", p.SuccessMultiplier))
	b.WriteString(fmt.Sprintf("Horizon: %s h (%d days)\n", humanize.Comma(int64(p.TimeHorizonHours)), p.TimeHorizonHours/24))
	return b.String()
}

// FormatRunReport formats a single run for display.
func FormatRunReport(p model.Params, seed uint64, s model.RunSummary, ev float64, unit string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 Meme Coin Portfolio | %s\n\n", time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Horizon: %s h | seed %d\n", humanize.Comma(int64(s.Hours)), seed))
	b.WriteString(fmt.Sprintf("Buys: %d (pending %d, short-stage survivors %d, failed %d, cashed out %d)\n",
		s.Purchases, s.Pending, s.ShortSuccess, s.Failed, s.Success))

	if s.FirstPayoutHour >= 0 {
		b.WriteString(fmt.Sprintf("Payouts: %s %s (first at hour %d)\n", amount(s.TotalPayout), unit, s.FirstPayoutHour))
	} else {
		b.WriteString("Payouts: none\n")
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Cash on hand: %s %s (peak %s, trough %s)\n",
		amount(s.FinalCash), unit, amount(s.PeakCash), amount(s.TroughCash)))
	b.WriteString(fmt.Sprintf("AUM: %s %s\n", amount(s.FinalAUM), unit))
	b.WriteString(fmt.Sprintf("Equity: %s %s (x%.2f of %s)\n",
		amount(s.FinalEquity), unit, s.ReturnMultiple, amount(p.InitialCapital)))
	b.WriteString(fmt.Sprintf("Max drawdown: %.1f%%\n\n", s.MaxDrawdown*100))
	b.WriteString(FormatExpectedValue(ev, unit))
	return b.String()
}

// FormatBatchReport formats a Monte Carlo summary.
func FormatBatchReport(p model.Params, s *model.BatchSummary, unit string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🎲 Monte Carlo | %s trials | seed %d\n\n", humanize.Comma(int64(s.Trials)), s.Seed))
	b.WriteString(fmt.Sprintf("Final equity mean: %s %s\n", amount(s.MeanFinalEquity), unit))
	b.WriteString(fmt.Sprintf("Final equity median: %s %s\n", amount(s.MedianFinalEquity), unit))
	b.WriteString(fmt.Sprintf("Final equity p5 / p95: %s / %s %s\n", amount(s.P5FinalEquity), amount(s.P95FinalEquity), unit))
	b.WriteString(fmt.Sprintf("Final cash mean: %s %s\n", amount(s.MeanFinalCash), unit))
	b.WriteString(fmt.Sprintf("P(equity > %s): %.1f%%\n", amount(p.InitialCapital), s.ProbProfit*100))
	b.WriteString(fmt.Sprintf("Cash-outs per run: %.2f\n\n", s.MeanSuccesses))
	b.WriteString(FormatExpectedValue(s.ExpectedValuePerAsset, unit))
	return b.String()
}

// FormatHistory lists recorded runs, newest first.
func FormatHistory(rows []recorder.RunRow, unit string) string {
	if len(rows) == 0 {
		return "No recorded runs."
	}
	var b strings.Builder
	b.WriteString("🗂 Recent runs\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%s [%s] buys %d, cash-outs %d, equity %s %s (x%.2f)\n",
			r.Timestamp.Format("2006-01-02 15:04"), strings.ToLower(string(r.Source)),
			r.Purchases, r.Success, amount(r.FinalEquity), unit, r.ReturnMultiple))
	}
	return b.String()
}

func amount(v float64) string {
	return humanize.CommafWithDigits(v, 4)
}
