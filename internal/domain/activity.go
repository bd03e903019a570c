package domain

// ChildDiscountPolicy selects how the child rate is derived from the adult rate.
type ChildDiscountPolicy string

const (
	// ChildPolicyHalf charges children (ages 3-5) half the adult rate.
	ChildPolicyHalf ChildDiscountPolicy = "half"
	// ChildPolicySixtyPercent charges children (under 16) 60% of the adult rate, i.e. 40% off.
	ChildPolicySixtyPercent ChildDiscountPolicy = "sixtyPercent"
)

// Activity is an excursion rate card. It is reference data and never mutated by the booking flow.
type Activity struct {
	ID           string              `json:"id" mapstructure:"id"`
	Title        string              `json:"title" mapstructure:"title"`
	Type         string              `json:"type" mapstructure:"type"`
	Duration     string              `json:"duration" mapstructure:"duration"`
	Location     string              `json:"location" mapstructure:"location"`
	Description  string              `json:"description,omitempty" mapstructure:"description"`
	Images       []string            `json:"images,omitempty" mapstructure:"images"`
	GroupPrice   float64             `json:"groupPrice" mapstructure:"group_price"`
	PrivatePrice float64             `json:"privatePrice" mapstructure:"private_price"`
	ChildPolicy  ChildDiscountPolicy `json:"childPolicy,omitempty" mapstructure:"child_policy"` // Optional: empty means the configured default
}
