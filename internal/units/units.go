// Package units converts package weights between pounds and kilograms.
package units

import "strings"

// Unit is a weight unit accepted by the calculators.
type Unit string

const (
	LB Unit = "lb"
	KG Unit = "kg"
)

// Conversion factors. They are intentionally not exact reciprocals of each other;
// published figures are computed with these values.
const (
	kgPerLb = 0.45359237
	lbPerKg = 2.20462
)

// ParseUnit accepts "lb"/"kg" in any case and common long forms.
func ParseUnit(s string) (Unit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lb", "lbs", "pound", "pounds", "libra", "libras":
		return LB, true
	case "kg", "kgs", "kilogram", "kilograms", "kilo", "kilos":
		return KG, true
	default:
		return "", false
	}
}

// ToKg converts weight to kilograms. Anything other than LB is treated as kilograms.
func ToKg(weight float64, unit Unit) float64 {
	if unit == LB {
		return weight * kgPerLb
	}
	return weight
}

// ToLb converts weight to pounds. Anything other than LB is treated as kilograms.
func ToLb(weight float64, unit Unit) float64 {
	if unit == LB {
		return weight
	}
	return weight * lbPerKg
}
