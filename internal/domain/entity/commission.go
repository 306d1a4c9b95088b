package entity

import "time"

// Commission is a rep's payout record for a completed deal
type Commission struct {
	ID            int64     `json:"id"`
	DealID        int64     `json:"deal_id"`
	RepID         string    `json:"rep_id"`
	ContractTotal float64   `json:"contract_total"`
	MaterialCost  float64   `json:"material_cost"`
	LaborCost     float64   `json:"labor_cost"`
	RatePercent   float64   `json:"rate_percent"`
	Payout        float64   `json:"payout"`
	CreatedAt     time.Time `json:"created_at"`
}
