package plan

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed plans.yaml
var defaultCatalog []byte

type catalogFile struct {
	Plans []Plan `yaml:"plans" validate:"required,min=1,dive"`
}

// Catalog is the read-only plan registry. It is safe for concurrent use
// because it is never mutated after Load.
type Catalog struct {
	plans   []Plan
	byID    map[string]Plan
	byPrice map[int64]Plan
	free    Plan
}

// Default loads the embedded catalog.
func Default() (*Catalog, error) {
	return Load(defaultCatalog)
}

// MustDefault is Default for process startup; it panics on a broken catalog.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load parses and validates a YAML catalog. Plan ids and prices must be
// unique and exactly one plan must be free.
func Load(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse plan catalog: %w", err)
	}

	if err := validator.New().Struct(&file); err != nil {
		return nil, fmt.Errorf("invalid plan catalog: %w", err)
	}

	return New(file.Plans)
}

// New builds a catalog from plans, enforcing the same invariants as Load.
func New(plans []Plan) (*Catalog, error) {
	c := &Catalog{
		byID:    make(map[string]Plan, len(plans)),
		byPrice: make(map[int64]Plan, len(plans)),
	}

	freeCount := 0
	for _, p := range plans {
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("invalid plan catalog: duplicate plan id %q", p.ID)
		}
		if other, dup := c.byPrice[p.PriceIDR]; dup {
			return nil, fmt.Errorf("invalid plan catalog: plans %q and %q share price %d", other.ID, p.ID, p.PriceIDR)
		}
		if p.IsFree() {
			freeCount++
			c.free = p
		}
		c.byID[p.ID] = p
		c.byPrice[p.PriceIDR] = p
		c.plans = append(c.plans, p)
	}

	if freeCount != 1 {
		return nil, fmt.Errorf("invalid plan catalog: expected exactly one free plan, got %d", freeCount)
	}

	sort.SliceStable(c.plans, func(i, j int) bool {
		return c.plans[i].PriceIDR < c.plans[j].PriceIDR
	})

	return c, nil
}

// Get returns the plan with id.
func (c *Catalog) Get(id string) (Plan, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// List returns plans ordered by price. The free plan is only included when
// includeFree is set.
func (c *Catalog) List(includeFree bool) []Plan {
	out := make([]Plan, 0, len(c.plans))
	for _, p := range c.plans {
		if p.IsFree() && !includeFree {
			continue
		}
		out = append(out, p)
	}
	return out
}

// PriceOf returns the price of id, or 0 when the plan does not exist.
func (c *Catalog) PriceOf(id string) int64 {
	return c.byID[id].PriceIDR
}

// ByPrice finds the plan whose price equals amount exactly.
func (c *Catalog) ByPrice(amount int64) (Plan, bool) {
	p, ok := c.byPrice[amount]
	return p, ok
}

// Free returns the free plan.
func (c *Catalog) Free() Plan {
	return c.free
}
