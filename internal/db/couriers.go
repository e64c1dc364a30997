package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"importcalc/internal/courier"
)

// Schema of the operator-maintained courier table. Rows are read once at
// startup; the service never writes to it.
const Schema = `
CREATE TABLE IF NOT EXISTS courier_profiles (
    id            text PRIMARY KEY,
    name          text NOT NULL,
    rounding_rule text NOT NULL,
    rate_tiers    jsonb NOT NULL DEFAULT '[]'::jsonb,
    extra_fees    jsonb NOT NULL DEFAULT '[]'::jsonb,
    notes         text[] NOT NULL DEFAULT '{}',
    source_url    text,
    position      integer NOT NULL DEFAULT 0,
    active        boolean NOT NULL DEFAULT true
)`

const selectProfiles = `
SELECT id, name, rounding_rule, rate_tiers, extra_fees, notes, COALESCE(source_url, '')
FROM courier_profiles
WHERE active
ORDER BY position, id`

// Querier is the subset of pgxpool.Pool used to read profiles.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// LoadCourierProfiles reads active courier rate cards and validates them into a catalog.
func LoadCourierProfiles(ctx context.Context, q Querier) (*courier.Catalog, error) {
	rows, err := q.Query(ctx, selectProfiles)
	if err != nil {
		return nil, fmt.Errorf("query courier profiles: %w", err)
	}
	profiles, err := pgx.CollectRows(rows, scanProfile)
	if err != nil {
		return nil, fmt.Errorf("scan courier profiles: %w", err)
	}
	return courier.NewCatalog(profiles...)
}

func scanProfile(row pgx.CollectableRow) (courier.Profile, error) {
	var (
		p          courier.Profile
		rule       string
		tiers, fee []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &rule, &tiers, &fee, &p.Notes, &p.SourceURL); err != nil {
		return courier.Profile{}, err
	}
	p.RoundingRule = courier.RoundingRule(rule)
	if err := json.Unmarshal(tiers, &p.RateTiers); err != nil {
		return courier.Profile{}, fmt.Errorf("%s: rate_tiers: %w", p.ID, err)
	}
	if err := json.Unmarshal(fee, &p.ExtraFees); err != nil {
		return courier.Profile{}, fmt.Errorf("%s: extra_fees: %w", p.ID, err)
	}
	return p, nil
}
