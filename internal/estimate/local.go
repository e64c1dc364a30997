package estimate

import "importcalc/internal/money"

// Local is what the shopper pays on pickup in pesos: import taxes still due
// plus the typical courier charge. Without a courier estimate there is no
// local total and Reason carries the estimate's reason.
type Local struct {
	Available  bool    `json:"available"`
	Reason     string  `json:"reason,omitempty"`
	TaxDOP     float64 `json:"tax_dop"`
	CourierDOP float64 `json:"courier_dop"`
	TotalDOP   float64 `json:"total_dop"`
}

// LocalTotal combines taxDueUSD with the estimate's median at fx. Taxes already
// paid at checkout must be excluded by the caller through taxDueUSD.
func LocalTotal(taxDueUSD float64, est Estimate, fx float64) Local {
	if !money.RateSet(fx) {
		return Local{}
	}
	if !est.Available {
		return Local{Reason: est.Reason}
	}
	l := Local{
		TaxDOP:     money.NonNegative(taxDueUSD) * fx,
		CourierDOP: est.MedianUSD * fx,
	}
	l.TotalDOP = l.TaxDOP + l.CourierDOP
	l.Available = l.TotalDOP > 0
	return l
}
