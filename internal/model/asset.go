package model

// Status is the lifecycle stage of a purchased asset.
type Status string

const (
	StatusPending      Status = "pending"
	StatusShortSuccess Status = "short_success"
	StatusFailed       Status = "failed"
	StatusSuccess      Status = "success"
)

// Live reports whether the asset still carries a mark value in AUM.
func (s Status) Live() bool {
	return s == StatusPending || s == StatusShortSuccess
}

// Terminal reports whether the asset can no longer change state.
func (s Status) Terminal() bool {
	return s == StatusFailed || s == StatusSuccess
}

// Asset is one purchased token.
type Asset struct {
	ID           int     `json:"id"`
	PurchaseTime int     `json:"purchase_time"`
	Value        float64 `json:"value"`
	Status       Status  `json:"status"`
	ResolvedAt   int     `json:"resolved_at"` // -1 while live
}

// Transition records a single status change of an asset.
type Transition struct {
	Hour    int     `json:"hour"`
	AssetID int     `json:"asset_id"`
	From    Status  `json:"from"`
	To      Status  `json:"to"`
	Value   float64 `json:"value"`
	Payout  float64 `json:"payout"` // cash credited, non-zero only on success
}
