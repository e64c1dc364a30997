package courier

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidProfile is returned when a rate table is malformed.
var ErrInvalidProfile = errors.New("courier: invalid profile")

// Validate checks a profile's structure. Rate schedules must start at 0, be
// sorted, contiguous and end with an open-ended tier so every weight or value
// matches exactly one tier.
func Validate(p Profile) error {
	if p.ID == "" {
		return fmt.Errorf("%w: id required", ErrInvalidProfile)
	}
	if !p.RoundingRule.Valid() {
		return fmt.Errorf("%w: %s: unknown rounding rule %q", ErrInvalidProfile, p.ID, p.RoundingRule)
	}
	if p.RoundingRule == RoundNone {
		if len(p.RateTiers) > 0 || len(p.ExtraFees) > 0 {
			return fmt.Errorf("%w: %s: rounding rule %q cannot carry rates", ErrInvalidProfile, p.ID, RoundNone)
		}
		return nil
	}
	if err := validateTiers(p.RateTiers); err != nil {
		return fmt.Errorf("%w: %s: rate tiers: %v", ErrInvalidProfile, p.ID, err)
	}
	for i, f := range p.ExtraFees {
		if err := validateFee(f); err != nil {
			return fmt.Errorf("%w: %s: extra fee %d (%s): %v", ErrInvalidProfile, p.ID, i, f.Name, err)
		}
	}
	return nil
}

func validateFee(f ExtraFee) error {
	if f.Name == "" {
		return errors.New("name required")
	}
	if !f.Condition.Valid() {
		return fmt.Errorf("unknown condition %q", f.Condition)
	}
	switch f.Kind {
	case FeePerLb, FeePerLbOrFraction, FeeFlat:
		if !validRate(f.Rate) {
			return fmt.Errorf("invalid rate %v", f.Rate)
		}
		if len(f.Tiers) > 0 {
			return fmt.Errorf("kind %q takes a rate, not tiers", f.Kind)
		}
	case FeeCoverageTier:
		if err := validateTiers(f.Tiers); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown kind %q", f.Kind)
	}
	return nil
}

func validateTiers(tiers []Tier) error {
	if len(tiers) == 0 {
		return errors.New("no tiers")
	}
	if tiers[0].Min != 0 {
		return fmt.Errorf("first tier starts at %v, want 0", tiers[0].Min)
	}
	for i, t := range tiers {
		if !validRate(t.Rate) {
			return fmt.Errorf("tier %d: invalid rate %v", i, t.Rate)
		}
		if i == len(tiers)-1 {
			if t.Max != 0 {
				return fmt.Errorf("tier %d: last tier must be open-ended, got max %v", i, t.Max)
			}
			continue
		}
		if !(t.Max > t.Min) {
			return fmt.Errorf("tier %d: max %v must exceed min %v", i, t.Max, t.Min)
		}
		if next := tiers[i+1].Min; next != t.Max {
			return fmt.Errorf("tier %d: ends at %v but tier %d starts at %v", i, t.Max, i+1, next)
		}
	}
	return nil
}

func validRate(r float64) bool {
	return r >= 0 && !math.IsInf(r, 0)
}
