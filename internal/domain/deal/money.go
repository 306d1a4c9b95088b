package deal

import (
	"errors"
	"math"
)

var (
	// ErrInvalidAmount is returned for negative or NaN currency inputs
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidPercent is returned for percentages outside 0-100
	ErrInvalidPercent = errors.New("invalid percentage")

	// ErrUnknownRoofType is returned for roof types outside the closed set
	ErrUnknownRoofType = errors.New("unknown roof type")
)

// InsuranceSplit breaks a claim's replacement cost into the checks the
// homeowner and insurer exchange over the life of the job.
type InsuranceSplit struct {
	RCV          float64 `json:"rcv"`
	Depreciation float64 `json:"depreciation"`
	ACV          float64 `json:"acv"`
	Deductible   float64 `json:"deductible"`
	// FirstCheck is the ACV payout: ACV minus the homeowner deductible
	FirstCheck float64 `json:"first_check"`
	// SecondCheck is the depreciation released after the work completes
	SecondCheck float64 `json:"second_check"`
}

// SplitInsurance computes the insurance math for a claim. The identity
// FirstCheck + SecondCheck + Deductible == RCV holds for every valid input.
func SplitInsurance(rcv, depreciationPct, deductible float64) (InsuranceSplit, error) {
	if !validAmount(rcv) || !validAmount(deductible) {
		return InsuranceSplit{}, ErrInvalidAmount
	}
	if math.IsNaN(depreciationPct) || depreciationPct < 0 || depreciationPct > 100 {
		return InsuranceSplit{}, ErrInvalidPercent
	}

	depreciation := rcv * depreciationPct / 100
	acv := rcv - depreciation
	return InsuranceSplit{
		RCV:          rcv,
		Depreciation: depreciation,
		ACV:          acv,
		Deductible:   deductible,
		FirstCheck:   acv - deductible,
		SecondCheck:  depreciation,
	}, nil
}

// RoofType determines the waste multiplier for a measured roof
type RoofType string

const (
	RoofHip   RoofType = "hip"
	RoofGable RoofType = "gable"
	RoofMixed RoofType = "mixed"
)

var wasteFactors = map[RoofType]float64{
	RoofHip:   0.15,
	RoofGable: 0.10,
	RoofMixed: 0.12,
}

// IsValid returns true for the closed set of roof types
func (r RoofType) IsValid() bool {
	_, ok := wasteFactors[r]
	return ok
}

// Waste returns the extra squares to order beyond the measured roof area
func Waste(actualSquares float64, roofType RoofType) (float64, error) {
	if !validAmount(actualSquares) {
		return 0, ErrInvalidAmount
	}
	factor, ok := wasteFactors[roofType]
	if !ok {
		return 0, ErrUnknownRoofType
	}
	return actualSquares * factor, nil
}

// TotalSquares returns measured squares plus waste for the roof type
func TotalSquares(actualSquares float64, roofType RoofType) (float64, error) {
	waste, err := Waste(actualSquares, roofType)
	if err != nil {
		return 0, err
	}
	return actualSquares + waste, nil
}

// CommissionInput carries the figures a rep's payout is computed from
type CommissionInput struct {
	ContractTotal float64 `json:"contract_total"`
	MaterialCost  float64 `json:"material_cost"`
	LaborCost     float64 `json:"labor_cost"`
	RatePercent   float64 `json:"rate_percent"`
}

// Payout computes the rep commission: job profit times the rep rate,
// rounded to cents. A job that lost money pays zero rather than clawing back.
func (c CommissionInput) Payout() (float64, error) {
	if !validAmount(c.ContractTotal) || !validAmount(c.MaterialCost) || !validAmount(c.LaborCost) {
		return 0, ErrInvalidAmount
	}
	if math.IsNaN(c.RatePercent) || c.RatePercent < 0 || c.RatePercent > 100 {
		return 0, ErrInvalidPercent
	}

	profit := c.ContractTotal - c.MaterialCost - c.LaborCost
	if profit <= 0 {
		return 0, nil
	}
	return roundCents(profit * c.RatePercent / 100), nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
