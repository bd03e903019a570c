package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"atlas/internal/domain"
	"atlas/internal/repository"
)

// ErrInvalidCatalog is returned when a catalog file holds an unusable rate card.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is an in-memory, read-only ActivityRepository.
type Catalog struct {
	order []string
	byID  map[string]*domain.Activity
}

// New validates activities and builds a catalog preserving their order.
func New(activities []domain.Activity) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*domain.Activity, len(activities))}
	for i := range activities {
		a := activities[i]
		if err := validate(&a); err != nil {
			return nil, err
		}
		if _, dup := c.byID[a.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate activity id %q", ErrInvalidCatalog, a.ID)
		}
		c.byID[a.ID] = &a
		c.order = append(c.order, a.ID)
	}
	return c, nil
}

// Load reads the catalog from a YAML or JSON file under the "activities" key.
// An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return New(Default())
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var activities []domain.Activity
	if err := v.UnmarshalKey("activities", &activities); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	if len(activities) == 0 {
		return nil, fmt.Errorf("%w: %s lists no activities", ErrInvalidCatalog, path)
	}
	return New(activities)
}

func validate(a *domain.Activity) error {
	switch {
	case a.ID == "":
		return fmt.Errorf("%w: activity %q has no id", ErrInvalidCatalog, a.Title)
	case a.GroupPrice < 0 || a.PrivatePrice < 0:
		return fmt.Errorf("%w: activity %q has a negative price", ErrInvalidCatalog, a.ID)
	}
	switch a.ChildPolicy {
	case "", domain.ChildPolicyHalf, domain.ChildPolicySixtyPercent:
	default:
		return fmt.Errorf("%w: activity %q has unknown child policy %q", ErrInvalidCatalog, a.ID, a.ChildPolicy)
	}
	return nil
}

// GetAll returns copies of every activity in catalog order.
func (c *Catalog) GetAll(ctx context.Context) ([]*domain.Activity, error) {
	out := make([]*domain.Activity, 0, len(c.order))
	for _, id := range c.order {
		cp := *c.byID[id]
		out = append(out, &cp)
	}
	return out, nil
}

// GetByID returns a copy of the activity with the given ID.
func (c *Catalog) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	a, ok := c.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

var _ repository.ActivityRepository = (*Catalog)(nil)
