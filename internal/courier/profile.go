// Package courier computes courier freight and surcharges from published rate tables.
package courier

import (
	"math"
	"sort"
)

// ManualID is the profile used when the shopper enters courier costs by hand.
const ManualID = "manual"

// RoundingRule decides the billed weight a courier multiplies its rate by.
type RoundingRule string

const (
	RoundExact         RoundingRule = "exact"
	RoundExactFraction RoundingRule = "exact-fraction"
	RoundMin1LbCeil    RoundingRule = "min-1-lb-ceil"
	RoundNone          RoundingRule = "none"
)

// Valid reports whether r is a known rule.
func (r RoundingRule) Valid() bool {
	switch r {
	case RoundExact, RoundExactFraction, RoundMin1LbCeil, RoundNone:
		return true
	}
	return false
}

// Billed returns the billed weight in pounds for a raw weight.
func (r RoundingRule) Billed(weightLb float64) float64 {
	if weightLb <= 0 {
		return 0
	}
	switch r {
	case RoundMin1LbCeil:
		return math.Max(1, math.Ceil(weightLb))
	case RoundNone:
		return 0
	default:
		return weightLb
	}
}

// FeeKind is how an extra fee is computed.
type FeeKind string

const (
	// FeePerLb multiplies the profile's billed weight by Rate.
	FeePerLb FeeKind = "per-lb"
	// FeePerLbOrFraction multiplies the raw weight rounded up by Rate,
	// whatever the profile's own rounding rule is.
	FeePerLbOrFraction FeeKind = "per-lb-or-fraction"
	// FeeCoverageTier charges the Rate of the tier matching the declared value.
	FeeCoverageTier FeeKind = "coverage-tier"
	// FeeFlat charges Rate once.
	FeeFlat FeeKind = "flat"
)

// Valid reports whether k is a known fee kind.
func (k FeeKind) Valid() bool {
	switch k {
	case FeePerLb, FeePerLbOrFraction, FeeCoverageTier, FeeFlat:
		return true
	}
	return false
}

// Condition restricts when an extra fee applies.
type Condition string

const (
	Always   Condition = ""
	Interior Condition = "interior"
)

// Valid reports whether c is a known condition.
func (c Condition) Valid() bool {
	return c == Always || c == Interior
}

func (c Condition) met(interior bool) bool {
	if c == Interior {
		return interior
	}
	return true
}

// Tier is a half-open range [Min, Max) with its rate. Max == 0 on the last
// tier of a schedule means the range is open-ended.
type Tier struct {
	Min  float64 `yaml:"min" json:"min"`
	Max  float64 `yaml:"max,omitempty" json:"max,omitempty"`
	Rate float64 `yaml:"rate" json:"rate"`
}

// ExtraFee is a surcharge applied on top of base freight.
type ExtraFee struct {
	Name      string    `yaml:"name" json:"name"`
	Kind      FeeKind   `yaml:"kind" json:"kind"`
	Rate      float64   `yaml:"rate,omitempty" json:"rate,omitempty"`
	Tiers     []Tier    `yaml:"tiers,omitempty" json:"tiers,omitempty"`
	Condition Condition `yaml:"condition,omitempty" json:"condition,omitempty"`
	Note      string    `yaml:"note,omitempty" json:"note,omitempty"`
}

// Profile is one courier's published rate card.
type Profile struct {
	ID           string       `yaml:"id" json:"id"`
	Name         string       `yaml:"name" json:"name"`
	RoundingRule RoundingRule `yaml:"rounding_rule" json:"rounding_rule"`
	RateTiers    []Tier       `yaml:"rate_tiers,omitempty" json:"rate_tiers"`
	ExtraFees    []ExtraFee   `yaml:"extra_fees,omitempty" json:"extra_fees"`
	Notes        []string     `yaml:"notes,omitempty" json:"notes"`
	SourceURL    string       `yaml:"source_url,omitempty" json:"source_url,omitempty"`
}

// clone returns a copy of p sharing no slices with it.
func (p Profile) clone() Profile {
	c := p
	c.RateTiers = cloneTiers(p.RateTiers)
	c.Notes = append([]string(nil), p.Notes...)
	if p.ExtraFees != nil {
		c.ExtraFees = make([]ExtraFee, len(p.ExtraFees))
		for i, f := range p.ExtraFees {
			f.Tiers = cloneTiers(f.Tiers)
			c.ExtraFees[i] = f
		}
	}
	return c
}

func cloneTiers(tiers []Tier) []Tier {
	if tiers == nil {
		return nil
	}
	return append([]Tier(nil), tiers...)
}

// lookup returns the tier containing x. Schedules are validated to start at 0
// and be contiguous, so the last tier whose Min <= x is the match.
func lookup(tiers []Tier, x float64) Tier {
	if len(tiers) == 0 {
		return Tier{}
	}
	i := sort.Search(len(tiers), func(i int) bool { return tiers[i].Min > x }) - 1
	if i < 0 {
		i = 0
	}
	return tiers[i]
}

func (f ExtraFee) amount(rule RoundingRule, weightLb, valueUSD float64) float64 {
	switch f.Kind {
	case FeePerLb:
		return rule.Billed(weightLb) * f.Rate
	case FeePerLbOrFraction:
		return math.Ceil(weightLb) * f.Rate
	case FeeCoverageTier:
		return lookup(f.Tiers, valueUSD).Rate
	case FeeFlat:
		return f.Rate
	}
	return 0
}
