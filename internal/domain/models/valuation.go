package models

// TerminalLabel marks the terminal-value row of a projection.
const TerminalLabel = "Terminal"

// MaxHorizonYears bounds the projection length. Keep in sync with the
// lte rule on HorizonYears.
const MaxHorizonYears = 1000

// ValuationRequest holds the decoded inputs of a discounted cash flow projection.
type ValuationRequest struct {
	FreeCashFlow       float64 `json:"fcf"`
	GrowthRate         float64 `json:"growth"`
	DiscountRate       float64 `json:"discount"`
	TerminalGrowthRate float64 `json:"terminal"`
	HorizonYears       uint    `json:"years" validate:"gte=1,lte=1000"`
}

// CashFlowPeriod is one row of a projection. Label is the 1-based period
// number, or TerminalLabel for the terminal value.
type CashFlowPeriod struct {
	Label             string  `json:"label"`
	ProjectedCashFlow float64 `json:"projected_cash_flow"`
	PresentValue      float64 `json:"present_value"`
}

// IsTerminal reports whether the period carries the terminal value.
func (p CashFlowPeriod) IsTerminal() bool { return p.Label == TerminalLabel }

// ValuationResult is the full projection. TotalPresentValue is always the
// in-order sum of every period's PresentValue.
type ValuationResult struct {
	Periods           []CashFlowPeriod `json:"periods"`
	TotalPresentValue float64          `json:"total_present_value"`
}
