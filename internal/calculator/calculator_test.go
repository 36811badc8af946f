package calculator

import (
	"math"
	"reflect"
	"testing"

	"MemeSim/internal/model"
)

func TestSeriesRange(t *testing.T) {
	tests := []struct {
		values    []float64
		window    int
		high, low float64
	}{
		{[]float64{3, 1, 4, 1, 5}, 0, 5, 1},
		{[]float64{3, 1, 4, 1, 5}, 2, 5, 1},
		{[]float64{9, 0, 4, 6}, 2, 6, 4},
		{[]float64{2}, 10, 2, 2},
	}
	for _, tt := range tests {
		high, low, err := SeriesRange(tt.values, tt.window)
		if err != nil {
			t.Fatalf("%v: %v", tt.values, err)
		}
		if high != tt.high || low != tt.low {
			t.Errorf("%v window %d: expected (%v,%v), got (%v,%v)", tt.values, tt.window, tt.high, tt.low, high, low)
		}
	}
	if _, _, err := SeriesRange(nil, 0); err == nil {
		t.Error("expected error for empty series")
	}
}

func TestDownsample(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6}
	got, err := Downsample(values, 3)
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{0, 3, 6}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	got, err = Downsample(values, 4)
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{0, 4, 6}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected last point kept, got %v", got)
	}

	if _, err := Downsample(values, 0); err == nil {
		t.Error("expected error for zero stride")
	}
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		values []float64
		want   float64
	}{
		{[]float64{1, 2, 1, 3}, 0.5},
		{[]float64{1, 2, 3}, 0},
		{[]float64{0, 4, 1}, 0.75},
		{[]float64{0, 0}, 0},
		{[]float64{5}, 0},
	}
	for _, tt := range tests {
		if got := MaxDrawdown(tt.values); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%v: expected %v, got %v", tt.values, tt.want, got)
		}
	}
}

func TestSummarize(t *testing.T) {
	p := model.Params{CapitalPerAsset: 1, InitialCapital: 2, SuccessMultiplier: 3, TimeHorizonHours: 4}
	res := &model.Result{
		CashOnHand: []float64{1, 1, 1, 31},
		AUM:        []float64{1, 10, 10, 0},
		TimeAxis:   []int{0, 1, 2, 3},
		Assets: []model.Asset{
			{ID: 0, Status: model.StatusSuccess},
			{ID: 1, Status: model.StatusFailed},
			{ID: 2, Status: model.StatusPending},
		},
		Transitions: []model.Transition{
			{Hour: 1, AssetID: 0, From: model.StatusPending, To: model.StatusShortSuccess, Value: 10},
			{Hour: 3, AssetID: 0, From: model.StatusShortSuccess, To: model.StatusSuccess, Value: 10, Payout: 30},
		},
	}
	s := Summarize(p, res)
	if s.Purchases != 3 || s.Success != 1 || s.Failed != 1 || s.Pending != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.TotalPayout != 30 || s.FirstPayoutHour != 3 {
		t.Errorf("unexpected payouts: %+v", s)
	}
	if s.FinalEquity != 31 || s.ReturnMultiple != 15.5 {
		t.Errorf("unexpected equity: %+v", s)
	}
	if s.PeakCash != 31 || s.TroughCash != 1 {
		t.Errorf("unexpected cash range: %+v", s)
	}
	if s.MaxDrawdown != 0 {
		t.Errorf("expected no drawdown on rising equity, got %v", s.MaxDrawdown)
	}
}
