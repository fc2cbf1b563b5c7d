// Package valuation projects free cash flow and discounts it back to today.
package valuation

import (
	"fmt"
	"math"
	"strconv"

	"FinStream/internal/domain/models"
)

// ComputeValuation runs a multi-period discounted cash flow projection with a
// perpetuity-growth terminal value. It is pure and safe for concurrent use.
// Inputs with DiscountRate == TerminalGrowthRate are not special-cased: the
// resulting non-finite terminal value flows into the total.
func ComputeValuation(req models.ValuationRequest) models.ValuationResult {
	n := req.HorizonYears
	periods := make([]models.CashFlowPeriod, 0, n+1)
	total := 0.0

	for t := uint(1); t <= n; t++ {
		projected := req.FreeCashFlow * math.Pow(1+req.GrowthRate, float64(t))
		pv := projected / math.Pow(1+req.DiscountRate, float64(t))
		periods = append(periods, models.CashFlowPeriod{
			Label:             strconv.FormatUint(uint64(t), 10),
			ProjectedCashFlow: projected,
			PresentValue:      pv,
		})
		total += pv
	}

	lastProjected := req.FreeCashFlow * math.Pow(1+req.GrowthRate, float64(n))
	terminalValue := lastProjected * (1 + req.TerminalGrowthRate) / (req.DiscountRate - req.TerminalGrowthRate)
	discountedTerminal := terminalValue / math.Pow(1+req.DiscountRate, float64(n))
	periods = append(periods, models.CashFlowPeriod{
		Label:             models.TerminalLabel,
		ProjectedCashFlow: terminalValue,
		PresentValue:      discountedTerminal,
	})
	total += discountedTerminal

	return models.ValuationResult{Periods: periods, TotalPresentValue: total}
}

// CheckValuation reports ErrDegenerateValuation for inputs whose terminal
// value would diverge or flip sign, or whose projection is not finite.
func CheckValuation(req models.ValuationRequest) error {
	if req.DiscountRate <= req.TerminalGrowthRate {
		return fmt.Errorf("%w: discount rate %v must exceed terminal growth rate %v",
			models.ErrDegenerateValuation, req.DiscountRate, req.TerminalGrowthRate)
	}
	if !finite(req.FreeCashFlow, req.GrowthRate, req.DiscountRate, req.TerminalGrowthRate) {
		return fmt.Errorf("%w: inputs must be finite", models.ErrDegenerateValuation)
	}
	if 1+req.DiscountRate <= 0 {
		return fmt.Errorf("%w: discount rate %v must exceed -1",
			models.ErrDegenerateValuation, req.DiscountRate)
	}
	if req.HorizonYears > models.MaxHorizonYears {
		return fmt.Errorf("%w: horizon %d exceeds %d years",
			models.ErrDegenerateValuation, req.HorizonYears, models.MaxHorizonYears)
	}

	res := ComputeValuation(req)
	for _, p := range res.Periods {
		if !finite(p.ProjectedCashFlow, p.PresentValue) {
			return fmt.Errorf("%w: period %s is not finite", models.ErrDegenerateValuation, p.Label)
		}
	}
	if !finite(res.TotalPresentValue) {
		return fmt.Errorf("%w: total present value is not finite", models.ErrDegenerateValuation)
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
