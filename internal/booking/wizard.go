package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"atlas/internal/domain"
)

// Step is a wizard state.
type Step string

const (
	StepDetails      Step = "details"
	StepGuests       Step = "guests"
	StepSubmitting   Step = "submitting"
	StepConfirmation Step = "confirmation"
)

// Initial party size shown when a wizard opens or resets.
const (
	DefaultAdults        = 2
	DefaultChildren      = 0
	DefaultYoungChildren = 0
)

// Submitter hands a draft to the persistence collaborator.
type Submitter interface {
	Submit(ctx context.Context, draft domain.BookingDraft) (*domain.BookingRecord, error)
}

// WizardState is the serializable state of one booking attempt.
type WizardState struct {
	Step         Step                    `json:"step"`
	ActivityID   string                  `json:"activityId"`
	SinglePage   bool                    `json:"singlePage"`
	Contact      domain.Contact          `json:"contact"`
	Party        domain.PartyComposition `json:"party"`
	Selection    domain.TourSelection    `json:"selection"`
	Confirmation *domain.BookingRecord   `json:"confirmation,omitempty"`
	LastError    string                  `json:"lastError,omitempty"`
}

// InitialState returns the state of a freshly opened wizard.
func InitialState(activityID string, singlePage bool) WizardState {
	return WizardState{
		Step:       StepDetails,
		ActivityID: activityID,
		SinglePage: singlePage,
		Party: domain.PartyComposition{
			Adults:        DefaultAdults,
			Children:      DefaultChildren,
			YoungChildren: DefaultYoungChildren,
		},
	}
}

// WizardOptions tunes pricing and input clamping.
type WizardOptions struct {
	// DefaultPolicy applies when the activity has no policy of its own.
	DefaultPolicy domain.ChildDiscountPolicy
	// MaxPerCategory caps each guest count; zero means unbounded.
	MaxPerCategory int
}

// Wizard sequences a booking: Details -> Guests -> Submitting -> Confirmation.
// A Wizard is owned by a single booking attempt and is not safe for concurrent use.
type Wizard struct {
	state     WizardState
	activity  *domain.Activity
	calendar  *Calendar
	refs      *ReferenceGenerator
	submitter Submitter
	opts      WizardOptions
}

// NewWizard binds state to its activity and collaborators.
func NewWizard(
	activity *domain.Activity,
	state WizardState,
	calendar *Calendar,
	refs *ReferenceGenerator,
	submitter Submitter,
	opts WizardOptions,
) *Wizard {
	return &Wizard{
		state:     state,
		activity:  activity,
		calendar:  calendar,
		refs:      refs,
		submitter: submitter,
		opts:      opts,
	}
}

// State returns a copy of the current state.
func (w *Wizard) State() WizardState {
	s := w.state
	if s.Selection.Date != nil {
		d := *s.Selection.Date
		s.Selection.Date = &d
	}
	if s.Confirmation != nil {
		c := *s.Confirmation
		s.Confirmation = &c
	}
	return s
}

// Step returns the current step.
func (w *Wizard) Step() Step { return w.state.Step }

// Activity returns the bound rate card.
func (w *Wizard) Activity() *domain.Activity { return w.activity }

// Policy returns the child discount policy in effect.
func (w *Wizard) Policy() domain.ChildDiscountPolicy {
	return ResolvePolicy(w.activity, w.opts.DefaultPolicy)
}

// Quote prices the current party.
func (w *Wizard) Quote() Quote {
	return QuoteParty(w.activity, w.state.Selection.IsPrivate, w.state.Party, w.Policy())
}

func (w *Wizard) editable() error {
	switch w.state.Step {
	case StepSubmitting:
		return ErrSubmissionInProgress
	case StepConfirmation:
		return ErrInvalidTransition
	}
	return nil
}

// SetContact replaces the contact fields.
func (w *Wizard) SetContact(c domain.Contact) error {
	if err := w.editable(); err != nil {
		return err
	}
	w.state.Contact = c
	return nil
}

// SetParty clamps and stores guest counts, returning the stored values.
func (w *Wizard) SetParty(p domain.PartyComposition) (domain.PartyComposition, error) {
	if err := w.editable(); err != nil {
		return w.state.Party, err
	}
	w.state.Party = ClampParty(p, w.opts.MaxPerCategory)
	return w.state.Party, nil
}

// SetDate validates and stores the travel date.
func (w *Wizard) SetDate(d time.Time) error {
	if err := w.editable(); err != nil {
		return err
	}
	date, err := w.calendar.ValidateDate(d)
	if err != nil {
		return err
	}
	w.state.Selection.Date = &date
	return nil
}

// ClearDate removes the selected date.
func (w *Wizard) ClearDate() error {
	if err := w.editable(); err != nil {
		return err
	}
	w.state.Selection.Date = nil
	return nil
}

// SetPrivate toggles between the group and private rate.
func (w *Wizard) SetPrivate(isPrivate bool) error {
	if err := w.editable(); err != nil {
		return err
	}
	w.state.Selection.IsPrivate = isPrivate
	return nil
}

// Next moves Details -> Guests once all contact fields are filled.
func (w *Wizard) Next() error {
	if w.state.Step != StepDetails {
		return ErrInvalidTransition
	}
	if err := ValidateContact(w.state.Contact); err != nil {
		w.state.LastError = err.Error()
		return err
	}
	w.state.LastError = ""
	w.state.Step = StepGuests
	return nil
}

// Back moves Guests -> Details.
func (w *Wizard) Back() error {
	if w.state.Step != StepGuests {
		return ErrInvalidTransition
	}
	w.state.LastError = ""
	w.state.Step = StepDetails
	return nil
}

// Submit validates, prices and submits the booking.
// On failure the wizard returns to its pre-submission step with every field intact.
func (w *Wizard) Submit(ctx context.Context) (*domain.BookingRecord, error) {
	from := w.state.Step
	switch from {
	case StepSubmitting:
		return nil, ErrSubmissionInProgress
	case StepConfirmation:
		return nil, ErrInvalidTransition
	case StepDetails:
		if !w.state.SinglePage {
			return nil, ErrInvalidTransition
		}
		if err := ValidateContact(w.state.Contact); err != nil {
			w.state.LastError = err.Error()
			return nil, err
		}
	}

	if err := w.validateGuests(); err != nil {
		w.state.LastError = err.Error()
		return nil, err
	}

	w.state.Step = StepSubmitting
	draft := w.buildDraft()

	record, err := w.submitter.Submit(ctx, draft)
	if err != nil {
		w.state.Step = from
		w.state.LastError = MsgSubmitFailed
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	w.state.Step = StepConfirmation
	w.state.LastError = ""
	w.state.Confirmation = record
	return record, nil
}

// Close dismisses the confirmation and resets every field.
func (w *Wizard) Close() error {
	if w.state.Step != StepConfirmation {
		return ErrInvalidTransition
	}
	w.state = InitialState(w.state.ActivityID, w.state.SinglePage)
	return nil
}

func (w *Wizard) validateGuests() error {
	if w.state.Selection.Date == nil {
		return &ValidationError{Step: w.state.Step, Message: MsgSelectDate, Fields: []string{"date"}}
	}
	// The session may outlive the day the date was picked on.
	if w.calendar.IsPast(*w.state.Selection.Date) {
		return &ValidationError{Step: w.state.Step, Message: MsgDatePassed, Fields: []string{"date"}}
	}
	if w.state.Party.Adults < 1 {
		return &ValidationError{Step: w.state.Step, Message: MsgAdultsRequired, Fields: []string{"adults"}}
	}
	return nil
}

func (w *Wizard) buildDraft() domain.BookingDraft {
	policy := w.Policy()
	party := w.state.Party
	isPrivate := w.state.Selection.IsPrivate
	adultRate := AdultRate(w.activity, isPrivate)

	return domain.BookingDraft{
		Contact:          trimContact(w.state.Contact),
		PartyComposition: party,
		IsPrivate:        isPrivate,
		Date:             *w.state.Selection.Date,
		TotalPrice:       ComputeTotal(w.activity, isPrivate, party.Adults, party.Children, party.YoungChildren, policy),
		BookingReference: w.refs.Generate(),
		ExcursionID:      w.activity.ID,
		ExcursionTitle:   w.activity.Title,
		ExcursionType:    w.activity.Type,
		AdultPrice:       adultRate,
		ChildPrice:       ChildRate(adultRate, policy),
		YoungChildPrice:  YoungChildRate,
		ChildPolicy:      policy,
	}
}

// ValidateContact requires every contact field to be non-blank.
func ValidateContact(c domain.Contact) error {
	var missing []string
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(c.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(c.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(c.PickupLocation) == "" {
		missing = append(missing, "pickupLocation")
	}
	if len(missing) > 0 {
		return &ValidationError{Step: StepDetails, Message: MsgFillContact, Fields: missing}
	}
	return nil
}

// ClampParty enforces the counter floors (one adult, zero children) and an optional per-category cap.
func ClampParty(p domain.PartyComposition, max int) domain.PartyComposition {
	return domain.PartyComposition{
		Adults:        clamp(p.Adults, 1, max),
		Children:      clamp(p.Children, 0, max),
		YoungChildren: clamp(p.YoungChildren, 0, max),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		v = lo
	}
	if hi > 0 && v > hi {
		v = hi
	}
	return v
}

func trimContact(c domain.Contact) domain.Contact {
	return domain.Contact{
		Name:           strings.TrimSpace(c.Name),
		Email:          strings.TrimSpace(c.Email),
		Phone:          strings.TrimSpace(c.Phone),
		PickupLocation: strings.TrimSpace(c.PickupLocation),
	}
}
