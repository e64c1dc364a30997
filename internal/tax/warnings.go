package tax

import "importcalc/internal/money"

// Advisory messages shown next to a result. They never change the figures.
const (
	WarnMayCrossThreshold = "Ojo: si el total supera US$200, puede variar."
	WarnTariffUnknown     = "El arancel varía por producto; este cálculo puede subestimar."
)

// Warnings lists advisories for the given regime and inputs.
func Warnings(mode Mode, valueUSD, shippingUSD, tariffPct float64) []string {
	var out []string
	switch mode {
	case ModeUnder200:
		value := money.NonNegative(valueUSD)
		if value < Threshold && value+money.NonNegative(shippingUSD) >= Threshold {
			out = append(out, WarnMayCrossThreshold)
		}
	case ModeOver200:
		if money.Clamp(tariffPct, 0, 100) == 0 {
			out = append(out, WarnTariffUnknown)
		}
	}
	return out
}
