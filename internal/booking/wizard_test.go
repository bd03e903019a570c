package booking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"atlas/internal/booking"
	"atlas/internal/domain"
)

// recordingSubmitter counts calls and optionally fails.
type recordingSubmitter struct {
	calls  int
	fail   error
	drafts []domain.BookingDraft
}

func (s *recordingSubmitter) Submit(ctx context.Context, draft domain.BookingDraft) (*domain.BookingRecord, error) {
	s.calls++
	s.drafts = append(s.drafts, draft)
	if s.fail != nil {
		return nil, s.fail
	}
	return &domain.BookingRecord{BookingDraft: draft, ID: "doc-1", CreatedAt: time.Now()}, nil
}

var validContact = domain.Contact{
	Name:           "Amina",
	Email:          "amina@example.com",
	Phone:          "+212600000000",
	PickupLocation: "Riad Yasmine, Medina",
}

func newTestWizard(sub booking.Submitter, singlePage bool) *booking.Wizard {
	return booking.NewWizard(
		desertTour,
		booking.InitialState(desertTour.ID, singlePage),
		fixedCalendar(),
		booking.NewReferenceGenerator("ATL-", 6, booking.NewSeededSource(9, 9)),
		sub,
		booking.WizardOptions{DefaultPolicy: domain.ChildPolicyHalf},
	)
}

func travelDate() time.Time {
	return time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
}

func TestWizard_InitialState(t *testing.T) {
	t.Parallel()

	w := newTestWizard(&recordingSubmitter{}, false)
	s := w.State()

	if s.Step != booking.StepDetails {
		t.Errorf("expected details step, got %s", s.Step)
	}
	if s.Party.Adults != 2 || s.Party.Children != 0 || s.Party.YoungChildren != 0 {
		t.Errorf("unexpected initial party %+v", s.Party)
	}
	if s.Selection.Date != nil || s.Selection.IsPrivate {
		t.Errorf("unexpected initial selection %+v", s.Selection)
	}
}

func TestWizard_ContactGuard(t *testing.T) {
	t.Parallel()

	sub := &recordingSubmitter{}
	w := newTestWizard(sub, false)

	contact := validContact
	contact.Email = ""
	if err := w.SetContact(contact); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := w.Next()
	var ve *booking.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields) != 1 || ve.Fields[0] != "email" {
		t.Errorf("expected missing email, got %v", ve.Fields)
	}
	if w.Step() != booking.StepDetails {
		t.Errorf("expected to remain on details, got %s", w.Step())
	}
	if _, err := w.Submit(context.Background()); !errors.Is(err, booking.ErrInvalidTransition) {
		t.Errorf("submit from details should be rejected, got %v", err)
	}
	if sub.calls != 0 {
		t.Errorf("submission gateway must not be called, got %d calls", sub.calls)
	}
}

func TestWizard_BlankContactFieldsRejected(t *testing.T) {
	t.Parallel()

	w := newTestWizard(&recordingSubmitter{}, false)
	_ = w.SetContact(domain.Contact{Name: "   ", Email: "a@b.c", Phone: "1", PickupLocation: "\t"})

	var ve *booking.ValidationError
	if err := w.Next(); !errors.As(err, &ve) || len(ve.Fields) != 2 {
		t.Fatalf("expected two missing fields, got %v", err)
	}
}

func TestWizard_DateGuard(t *testing.T) {
	t.Parallel()

	sub := &recordingSubmitter{}
	w := newTestWizard(sub, false)
	_ = w.SetContact(validContact)
	if err := w.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := w.Submit(context.Background())
	var ve *booking.ValidationError
	if !errors.As(err, &ve) || ve.Message != booking.MsgSelectDate {
		t.Fatalf("expected %q, got %v", booking.MsgSelectDate, err)
	}
	if w.Step() != booking.StepGuests {
		t.Errorf("expected to remain on guests, got %s", w.Step())
	}
	if sub.calls != 0 {
		t.Errorf("submission gateway must not be called, got %d calls", sub.calls)
	}
}

func TestWizard_DateThatPassedBeforeSubmitIsRejected(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.June, 15, 23, 50, 0, 0, time.UTC)
	cal := &booking.Calendar{Now: func() time.Time { return now }, Location: time.UTC}

	sub := &recordingSubmitter{}
	w := booking.NewWizard(
		desertTour,
		booking.InitialState(desertTour.ID, false),
		cal,
		booking.NewReferenceGenerator("ATL-", 6, booking.NewSeededSource(9, 9)),
		sub,
		booking.WizardOptions{DefaultPolicy: domain.ChildPolicyHalf},
	)
	_ = w.SetContact(validContact)
	_ = w.Next()
	if err := w.SetDate(now); err != nil {
		t.Fatalf("today should be selectable: %v", err)
	}

	now = now.Add(20 * time.Minute)

	_, err := w.Submit(context.Background())
	var ve *booking.ValidationError
	if !errors.As(err, &ve) || ve.Message != booking.MsgDatePassed {
		t.Fatalf("expected %q, got %v", booking.MsgDatePassed, err)
	}
	if len(ve.Fields) != 1 || ve.Fields[0] != "date" {
		t.Errorf("expected date field, got %v", ve.Fields)
	}
	if w.Step() != booking.StepGuests {
		t.Errorf("expected to remain on guests, got %s", w.Step())
	}
	if sub.calls != 0 {
		t.Errorf("submission gateway must not be called, got %d calls", sub.calls)
	}
}

func TestWizard_BackPreservesFields(t *testing.T) {
	t.Parallel()

	w := newTestWizard(&recordingSubmitter{}, false)
	_ = w.SetContact(validContact)
	_ = w.Next()
	_, _ = w.SetParty(domain.PartyComposition{Adults: 3, Children: 1})

	if err := w.Back(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Step() != booking.StepDetails {
		t.Errorf("expected details, got %s", w.Step())
	}
	if err := w.Back(); !errors.Is(err, booking.ErrInvalidTransition) {
		t.Errorf("back from details should fail, got %v", err)
	}
	s := w.State()
	if s.Contact != validContact || s.Party.Adults != 3 {
		t.Errorf("fields lost after back: %+v", s)
	}
}

func TestWizard_PastDateRejected(t *testing.T) {
	t.Parallel()

	w := newTestWizard(&recordingSubmitter{}, false)
	if err := w.SetDate(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)); !errors.Is(err, booking.ErrPastDate) {
		t.Errorf("expected ErrPastDate, got %v", err)
	}
	if w.State().Selection.Date != nil {
		t.Error("past date must not be stored")
	}
}

func TestWizard_SetPartyClamps(t *testing.T) {
	t.Parallel()

	w := booking.NewWizard(desertTour, booking.InitialState(desertTour.ID, false), fixedCalendar(),
		booking.NewReferenceGenerator("ATL-", 6, nil), &recordingSubmitter{},
		booking.WizardOptions{DefaultPolicy: domain.ChildPolicyHalf, MaxPerCategory: 30})

	got, err := w.SetParty(domain.PartyComposition{Adults: 0, Children: -2, YoungChildren: 99})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.PartyComposition{Adults: 1, Children: 0, YoungChildren: 30}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestWizard_SuccessfulSubmission(t *testing.T) {
	t.Parallel()

	sub := &recordingSubmitter{}
	w := newTestWizard(sub, false)
	_ = w.SetContact(validContact)
	_ = w.Next()
	_, _ = w.SetParty(domain.PartyComposition{Adults: 2, Children: 1, YoungChildren: 1})
	_ = w.SetDate(travelDate())

	record, err := w.Submit(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Step() != booking.StepConfirmation {
		t.Errorf("expected confirmation, got %s", w.Step())
	}
	if record.ID != "doc-1" {
		t.Errorf("expected store id, got %q", record.ID)
	}

	draft := sub.drafts[0]
	if draft.TotalPrice != 250 {
		t.Errorf("expected total 250, got %v", draft.TotalPrice)
	}
	if draft.AdultPrice != 100 || draft.ChildPrice != 50 || draft.YoungChildPrice != 0 {
		t.Errorf("unexpected denormalized prices %+v", draft)
	}
	if draft.ExcursionTitle != desertTour.Title || draft.ExcursionType != desertTour.Type {
		t.Errorf("activity fields not denormalized: %+v", draft)
	}
	if !booking.ReferencePattern("ATL-", 6).MatchString(draft.BookingReference) {
		t.Errorf("unexpected reference %q", draft.BookingReference)
	}
	if !draft.Date.Equal(travelDate()) {
		t.Errorf("unexpected date %v", draft.Date)
	}

	if err := w.SetContact(validContact); !errors.Is(err, booking.ErrInvalidTransition) {
		t.Errorf("confirmation must be read-only, got %v", err)
	}
}

func TestWizard_SubmissionFailureIsRecoverable(t *testing.T) {
	t.Parallel()

	sub := &recordingSubmitter{fail: errors.New("store unavailable")}
	w := newTestWizard(sub, false)
	_ = w.SetContact(validContact)
	_ = w.Next()
	_, _ = w.SetParty(domain.PartyComposition{Adults: 1, Children: 2})
	_ = w.SetDate(travelDate())
	before := w.State()

	_, err := w.Submit(context.Background())
	if !errors.Is(err, booking.ErrSubmissionFailed) {
		t.Fatalf("expected ErrSubmissionFailed, got %v", err)
	}

	after := w.State()
	if after.Step != booking.StepGuests {
		t.Errorf("expected to stay on guests, got %s", after.Step)
	}
	if after.LastError != booking.MsgSubmitFailed {
		t.Errorf("unexpected error message %q", after.LastError)
	}
	if after.Contact != before.Contact || after.Party != before.Party || !after.Selection.Date.Equal(*before.Selection.Date) {
		t.Errorf("fields changed after failure: before=%+v after=%+v", before, after)
	}

	sub.fail = nil
	if _, err := w.Submit(context.Background()); err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
	if sub.calls != 2 {
		t.Errorf("expected 2 gateway calls, got %d", sub.calls)
	}
	if sub.drafts[0].TotalPrice != sub.drafts[1].TotalPrice {
		t.Error("retry should price identically")
	}
}

func TestWizard_CloseResets(t *testing.T) {
	t.Parallel()

	w := newTestWizard(&recordingSubmitter{}, false)
	if err := w.Close(); !errors.Is(err, booking.ErrInvalidTransition) {
		t.Errorf("close outside confirmation should fail, got %v", err)
	}

	_ = w.SetContact(validContact)
	_ = w.Next()
	_ = w.SetPrivate(true)
	_, _ = w.SetParty(domain.PartyComposition{Adults: 4, Children: 3, YoungChildren: 2})
	_ = w.SetDate(travelDate())
	if _, err := w.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := booking.InitialState(desertTour.ID, false)
	got := w.State()
	if got.Step != want.Step || got.Contact != want.Contact || got.Party != want.Party ||
		got.Selection.Date != nil || got.Selection.IsPrivate || got.Confirmation != nil {
		t.Errorf("expected reset state, got %+v", got)
	}
}

func TestWizard_SinglePageValidatesInOrder(t *testing.T) {
	t.Parallel()

	sub := &recordingSubmitter{}
	w := newTestWizard(sub, true)

	_, err := w.Submit(context.Background())
	var ve *booking.ValidationError
	if !errors.As(err, &ve) || ve.Message != booking.MsgFillContact {
		t.Fatalf("contact must be validated first, got %v", err)
	}

	_ = w.SetContact(validContact)
	_, err = w.Submit(context.Background())
	if !errors.As(err, &ve) || ve.Message != booking.MsgSelectDate {
		t.Fatalf("date must be validated second, got %v", err)
	}

	_ = w.SetDate(travelDate())
	if _, err := w.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.calls != 1 {
		t.Errorf("expected one gateway call, got %d", sub.calls)
	}
}

func TestWizard_PrivateRateUsesPolicyOfActivity(t *testing.T) {
	t.Parallel()

	activity := *desertTour
	activity.ChildPolicy = domain.ChildPolicySixtyPercent
	sub := &recordingSubmitter{}
	w := booking.NewWizard(&activity, booking.InitialState(activity.ID, true), fixedCalendar(),
		booking.NewReferenceGenerator("ATL-", 6, nil), sub, booking.WizardOptions{DefaultPolicy: domain.ChildPolicyHalf})

	_ = w.SetContact(validContact)
	_ = w.SetPrivate(true)
	_, _ = w.SetParty(domain.PartyComposition{Adults: 1, Children: 1})
	_ = w.SetDate(travelDate())

	if _, err := w.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sub.drafts[0].TotalPrice; got != 240 {
		t.Errorf("expected 150 + 90 = 240, got %v", got)
	}
	if sub.drafts[0].ChildPolicy != domain.ChildPolicySixtyPercent {
		t.Errorf("expected activity policy on draft, got %s", sub.drafts[0].ChildPolicy)
	}
}
