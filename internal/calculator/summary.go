package calculator

import "MemeSim/internal/model"

// Summarize derives run statistics from a finished result.
func Summarize(p model.Params, res *model.Result) model.RunSummary {
	s := model.RunSummary{
		Hours:           len(res.TimeAxis),
		Purchases:       len(res.Assets),
		FirstPayoutHour: -1,
	}
	if s.Hours == 0 {
		return s
	}

	for _, a := range res.Assets {
		switch a.Status {
		case model.StatusPending:
			s.Pending++
		case model.StatusShortSuccess:
			s.ShortSuccess++
		case model.StatusFailed:
			s.Failed++
		case model.StatusSuccess:
			s.Success++
		}
	}
	for _, tr := range res.Transitions {
		if tr.To != model.StatusSuccess {
			continue
		}
		s.TotalPayout += tr.Payout
		if s.FirstPayoutHour < 0 {
			s.FirstPayoutHour = tr.Hour
		}
	}

	last := s.Hours - 1
	s.FinalCash = res.CashOnHand[last]
	s.FinalAUM = res.AUM[last]
	s.FinalEquity = s.FinalCash + s.FinalAUM
	s.PeakCash, s.TroughCash, _ = SeriesRange(res.CashOnHand, 0)

	if equity, err := Equity(res.CashOnHand, res.AUM); err == nil {
		s.MaxDrawdown = MaxDrawdown(equity)
	}
	if p.InitialCapital > 0 {
		s.ReturnMultiple = s.FinalEquity / p.InitialCapital
	}
	return s
}
