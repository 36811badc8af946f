package model

// Params holds the inputs of one simulation run.
type Params struct {
	CapitalPerAsset   float64 `json:"capital_per_asset" yaml:"capital_per_asset"`
	InitialCapital    float64 `json:"initial_capital" yaml:"initial_capital"`
	ShortFailureRate  float64 `json:"short_failure_rate" yaml:"short_failure_rate"`
	LongFailureRate   float64 `json:"long_failure_rate" yaml:"long_failure_rate"`
	SuccessMultiplier float64 `json:"success_multiplier" yaml:"success_multiplier"`
	TimeHorizonHours  int     `json:"time_horizon_hours" yaml:"time_horizon_hours"`
}

// Result is the time-indexed output of a run. All series have length
// TimeHorizonHours.
type Result struct {
	CashOnHand            []float64    `json:"cash_on_hand"`
	AUM                   []float64    `json:"aum"`
	TimeAxis              []int        `json:"time_axis"`
	ExpectedValue         []float64    `json:"expected_value"`
	ExpectedValuePerAsset float64      `json:"expected_value_per_asset"`
	Assets                []Asset      `json:"assets"`
	Transitions           []Transition `json:"transitions"`
}

// RunSummary holds statistics derived from a finished run.
type RunSummary struct {
	Hours           int     `json:"hours"`
	Purchases       int     `json:"purchases"`
	Pending         int     `json:"pending"`
	ShortSuccess    int     `json:"short_success"`
	Failed          int     `json:"failed"`
	Success         int     `json:"success"`
	TotalPayout     float64 `json:"total_payout"`
	FinalCash       float64 `json:"final_cash"`
	FinalAUM        float64 `json:"final_aum"`
	FinalEquity     float64 `json:"final_equity"`
	PeakCash        float64 `json:"peak_cash"`
	TroughCash      float64 `json:"trough_cash"`
	MaxDrawdown     float64 `json:"max_drawdown"` // fraction 0.0 ~ 1.0
	ReturnMultiple  float64 `json:"return_multiple"`
	FirstPayoutHour int     `json:"first_payout_hour"` // -1 if none
}

// BatchSummary aggregates many independent runs of the same Params.
type BatchSummary struct {
	Trials                int     `json:"trials"`
	Seed                  uint64  `json:"seed"`
	MeanFinalEquity       float64 `json:"mean_final_equity"`
	MedianFinalEquity     float64 `json:"median_final_equity"`
	P5FinalEquity         float64 `json:"p5_final_equity"`
	P95FinalEquity        float64 `json:"p95_final_equity"`
	MeanFinalCash         float64 `json:"mean_final_cash"`
	ProbProfit            float64 `json:"prob_profit"`
	MeanSuccesses         float64 `json:"mean_successes"`
	ExpectedValuePerAsset float64 `json:"expected_value_per_asset"`
}
