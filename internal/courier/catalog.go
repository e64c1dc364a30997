package courier

import (
	"errors"
	"fmt"
)

// ErrCourierNotFound is returned by Catalog.Quote for unknown courier ids.
var ErrCourierNotFound = errors.New("courier not found")

// Catalog is a validated, ordered set of profiles. It owns its own copies of
// the profiles, is not modified after NewCatalog returns and may be shared
// between goroutines.
type Catalog struct {
	order []Profile
	byID  map[string]int
}

// NewCatalog validates every profile and rejects duplicate ids.
func NewCatalog(profiles ...Profile) (*Catalog, error) {
	c := &Catalog{
		order: make([]Profile, 0, len(profiles)),
		byID:  make(map[string]int, len(profiles)),
	}
	for _, p := range profiles {
		if err := Validate(p); err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidProfile, p.ID)
		}
		c.byID[p.ID] = len(c.order)
		c.order = append(c.order, p.clone())
	}
	return c, nil
}

// Get returns a copy of the profile for id.
func (c *Catalog) Get(id string) (Profile, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Profile{}, false
	}
	return c.order[i].clone(), true
}

// Profiles returns copies of the profiles in declaration order.
func (c *Catalog) Profiles() []Profile {
	out := make([]Profile, len(c.order))
	for i, p := range c.order {
		out[i] = p.clone()
	}
	return out
}

// IDs returns the profile ids in declaration order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.order))
	for i, p := range c.order {
		ids[i] = p.ID
	}
	return ids
}

// Len returns the number of profiles.
func (c *Catalog) Len() int { return len(c.order) }

// Quote computes the fees of courier req.CourierID. An unknown id yields a
// zeroed Result and an error wrapping ErrCourierNotFound, so batch callers can
// skip it and carry on.
func (c *Catalog) Quote(req Request) (Result, error) {
	i, ok := c.byID[req.CourierID]
	if !ok {
		return emptyResult(req.CourierID), fmt.Errorf("%w: %q", ErrCourierNotFound, req.CourierID)
	}
	return c.order[i].Fees(req), nil
}
