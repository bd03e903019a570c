package booking_test

import (
	"testing"

	"atlas/internal/booking"
	"atlas/internal/domain"
)

var desertTour = &domain.Activity{
	ID:           "agafay-desert",
	Title:        "Agafay Desert Dinner",
	Type:         "Day Trip",
	GroupPrice:   100,
	PrivatePrice: 150,
}

var policies = []domain.ChildDiscountPolicy{domain.ChildPolicyHalf, domain.ChildPolicySixtyPercent}

func TestComputeTotal_RateSelection(t *testing.T) {
	t.Parallel()

	for _, policy := range policies {
		if got := booking.ComputeTotal(desertTour, true, 1, 0, 0, policy); got != desertTour.PrivatePrice {
			t.Errorf("%s: private single adult = %v, want %v", policy, got, desertTour.PrivatePrice)
		}
		if got := booking.ComputeTotal(desertTour, false, 1, 0, 0, policy); got != desertTour.GroupPrice {
			t.Errorf("%s: group single adult = %v, want %v", policy, got, desertTour.GroupPrice)
		}
	}
}

func TestComputeTotal_ChildDiscountByPolicy(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		policy domain.ChildDiscountPolicy
		want   float64
	}{
		{name: "half price", policy: domain.ChildPolicyHalf, want: desertTour.GroupPrice * 0.5},
		{name: "forty percent off", policy: domain.ChildPolicySixtyPercent, want: desertTour.GroupPrice * 0.6},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := booking.ComputeTotal(desertTour, false, 0, 1, 0, tc.policy); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestComputeTotal_InfantsAreFree(t *testing.T) {
	t.Parallel()

	for _, policy := range policies {
		for _, private := range []bool{false, true} {
			for n := 0; n <= 30; n++ {
				if got := booking.ComputeTotal(desertTour, private, 0, 0, n, policy); got != 0 {
					t.Fatalf("policy=%s private=%v infants=%d: expected 0, got %v", policy, private, n, got)
				}
			}
		}
	}
}

func TestComputeTotal_Monotonic(t *testing.T) {
	t.Parallel()

	for _, policy := range policies {
		for _, private := range []bool{false, true} {
			for a := 0; a < 5; a++ {
				for c := 0; c < 5; c++ {
					for y := 0; y < 5; y++ {
						base := booking.ComputeTotal(desertTour, private, a, c, y, policy)

						if next := booking.ComputeTotal(desertTour, private, a+1, c, y, policy); next < base {
							t.Fatalf("adding an adult decreased total: %v -> %v", base, next)
						}
						if next := booking.ComputeTotal(desertTour, private, a, c+1, y, policy); next < base {
							t.Fatalf("adding a child decreased total: %v -> %v", base, next)
						}
						if next := booking.ComputeTotal(desertTour, private, a, c, y+1, policy); next != base {
							t.Fatalf("adding an infant changed total: %v -> %v", base, next)
						}
					}
				}
			}
		}
	}
}

func TestComputeTotal_EndToEndExample(t *testing.T) {
	t.Parallel()

	got := booking.ComputeTotal(desertTour, false, 2, 1, 1, domain.ChildPolicyHalf)
	if got != 250 {
		t.Errorf("expected 250, got %v", got)
	}
}

func TestComputeTotal_KeepsFullPrecision(t *testing.T) {
	t.Parallel()

	activity := &domain.Activity{ID: "a", GroupPrice: 33.33, PrivatePrice: 50}
	got := booking.ComputeTotal(activity, false, 0, 1, 0, domain.ChildPolicySixtyPercent)
	want := activity.GroupPrice * 0.6
	if got != want {
		t.Errorf("expected unrounded %v, got %v", want, got)
	}
	if booking.DisplayPrice(got) != 20 {
		t.Errorf("expected display price 20, got %d", booking.DisplayPrice(got))
	}
}

func TestQuoteParty(t *testing.T) {
	t.Parallel()

	q := booking.QuoteParty(desertTour, true, domain.PartyComposition{Adults: 2, Children: 2, YoungChildren: 1}, domain.ChildPolicySixtyPercent)

	if q.AdultRate != 150 {
		t.Errorf("expected adult rate 150, got %v", q.AdultRate)
	}
	if q.ChildRate != 90 {
		t.Errorf("expected child rate 90, got %v", q.ChildRate)
	}
	if q.YoungChildRate != 0 {
		t.Errorf("expected free young children, got %v", q.YoungChildRate)
	}
	if q.Total != 480 {
		t.Errorf("expected total 480, got %v", q.Total)
	}
	if q.ChildAgeBand != "under 16" {
		t.Errorf("unexpected age band %q", q.ChildAgeBand)
	}
}

func TestParseChildDiscountPolicy(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in      string
		want    domain.ChildDiscountPolicy
		wantErr bool
	}{
		{in: "", want: domain.ChildPolicyHalf},
		{in: "half", want: domain.ChildPolicyHalf},
		{in: "sixtyPercent", want: domain.ChildPolicySixtyPercent},
		{in: "quarter", wantErr: true},
	}

	for _, tc := range testCases {
		got, err := booking.ParseChildDiscountPolicy(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("%q: got (%v, %v), want %v", tc.in, got, err, tc.want)
		}
	}
}

func TestResolvePolicy_ActivityOverridesDefault(t *testing.T) {
	t.Parallel()

	activity := &domain.Activity{ID: "a", ChildPolicy: domain.ChildPolicySixtyPercent}
	if got := booking.ResolvePolicy(activity, domain.ChildPolicyHalf); got != domain.ChildPolicySixtyPercent {
		t.Errorf("expected activity policy, got %s", got)
	}
	if got := booking.ResolvePolicy(desertTour, domain.ChildPolicyHalf); got != domain.ChildPolicyHalf {
		t.Errorf("expected default policy, got %s", got)
	}
}
