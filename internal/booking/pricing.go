package booking

import (
	"math"

	"atlas/internal/domain"
)

// YoungChildRate is the per-head rate for young children; they travel free in every flow.
const YoungChildRate = 0.0

// ParseChildDiscountPolicy maps a configuration value to a policy.
// The empty string selects ChildPolicyHalf.
func ParseChildDiscountPolicy(s string) (domain.ChildDiscountPolicy, error) {
	switch domain.ChildDiscountPolicy(s) {
	case "", domain.ChildPolicyHalf:
		return domain.ChildPolicyHalf, nil
	case domain.ChildPolicySixtyPercent:
		return domain.ChildPolicySixtyPercent, nil
	default:
		return "", ErrUnknownChildPolicy
	}
}

// ChildFactor returns the fraction of the adult rate charged per child.
func ChildFactor(policy domain.ChildDiscountPolicy) float64 {
	if policy == domain.ChildPolicySixtyPercent {
		return 0.6
	}
	return 0.5
}

// ChildAgeBand describes the age band the policy discounts.
func ChildAgeBand(policy domain.ChildDiscountPolicy) string {
	if policy == domain.ChildPolicySixtyPercent {
		return "under 16"
	}
	return "ages 3-5"
}

// ResolvePolicy returns the activity's own policy when set, otherwise fallback.
func ResolvePolicy(activity *domain.Activity, fallback domain.ChildDiscountPolicy) domain.ChildDiscountPolicy {
	if activity != nil && activity.ChildPolicy != "" {
		return activity.ChildPolicy
	}
	return fallback
}

// AdultRate selects the private or group rate.
func AdultRate(activity *domain.Activity, isPrivate bool) float64 {
	if isPrivate {
		return activity.PrivatePrice
	}
	return activity.GroupPrice
}

// ChildRate derives the child rate from the adult rate.
func ChildRate(adultRate float64, policy domain.ChildDiscountPolicy) float64 {
	return adultRate * ChildFactor(policy)
}

// ComputeTotal prices a party. It neither clamps counts nor rounds the result;
// callers reject parties without adults before pricing a booking.
func ComputeTotal(activity *domain.Activity, isPrivate bool, adults, children, youngChildren int, policy domain.ChildDiscountPolicy) float64 {
	adultRate := AdultRate(activity, isPrivate)
	childRate := ChildRate(adultRate, policy)
	return float64(adults)*adultRate + float64(children)*childRate + float64(youngChildren)*YoungChildRate
}

// Quote is a priced party with its per-category rates.
type Quote struct {
	AdultRate      float64                    `json:"adultRate"`
	ChildRate      float64                    `json:"childRate"`
	YoungChildRate float64                    `json:"youngChildRate"`
	ChildPolicy    domain.ChildDiscountPolicy `json:"childPolicy"`
	ChildAgeBand   string                     `json:"childAgeBand"`
	Total          float64                    `json:"total"`
	DisplayTotal   int64                      `json:"displayTotal"`
}

// QuoteParty prices party for activity under policy.
func QuoteParty(activity *domain.Activity, isPrivate bool, party domain.PartyComposition, policy domain.ChildDiscountPolicy) Quote {
	adultRate := AdultRate(activity, isPrivate)
	total := ComputeTotal(activity, isPrivate, party.Adults, party.Children, party.YoungChildren, policy)
	return Quote{
		AdultRate:      adultRate,
		ChildRate:      ChildRate(adultRate, policy),
		YoungChildRate: YoungChildRate,
		ChildPolicy:    policy,
		ChildAgeBand:   ChildAgeBand(policy),
		Total:          total,
		DisplayTotal:   DisplayPrice(total),
	}
}

// DisplayPrice rounds a total for presentation only.
func DisplayPrice(total float64) int64 {
	return int64(math.Round(total))
}
