package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"atlas/internal/domain"
	"atlas/internal/repository"
)

func TestLoad_DefaultCatalog(t *testing.T) {
	t.Parallel()

	c, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, _ := c.GetAll(context.Background())
	if len(all) != len(Default()) {
		t.Fatalf("expected %d activities, got %d", len(Default()), len(all))
	}
	if all[0].ID != "agafay-desert-dinner" {
		t.Errorf("expected catalog order preserved, got %s first", all[0].ID)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `
activities:
  - id: imlil-trek
    title: Imlil Trek
    type: Day Trip
    duration: 7 hours
    location: Imlil
    group_price: 55
    private_price: 120
    child_policy: sixtyPercent
  - id: cooking-class
    title: Moroccan Cooking Class
    type: Experience
    group_price: 30
    private_price: 60
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, err := c.GetByID(context.Background(), "imlil-trek")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.GroupPrice != 55 || a.PrivatePrice != 120 || a.ChildPolicy != domain.ChildPolicySixtyPercent {
		t.Errorf("unexpected activity %+v", a)
	}

	b, _ := c.GetByID(context.Background(), "cooking-class")
	if b.ChildPolicy != "" {
		t.Errorf("expected no policy override, got %q", b.ChildPolicy)
	}
}

func TestNew_RejectsBadRateCards(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		activities []domain.Activity
	}{
		{name: "missing id", activities: []domain.Activity{{Title: "x"}}},
		{name: "negative price", activities: []domain.Activity{{ID: "a", GroupPrice: -1}}},
		{name: "unknown policy", activities: []domain.Activity{{ID: "a", ChildPolicy: "quarter"}}},
		{name: "duplicate id", activities: []domain.Activity{{ID: "a"}, {ID: "a"}}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New(tc.activities); !errors.Is(err, ErrInvalidCatalog) {
				t.Errorf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

func TestGetByID_ReturnsCopy(t *testing.T) {
	t.Parallel()

	c, _ := New([]domain.Activity{{ID: "a", GroupPrice: 10}})

	a, _ := c.GetByID(context.Background(), "a")
	a.GroupPrice = 999

	again, _ := c.GetByID(context.Background(), "a")
	if again.GroupPrice != 10 {
		t.Error("catalog entries must not be mutable through returned values")
	}

	if _, err := c.GetByID(context.Background(), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
