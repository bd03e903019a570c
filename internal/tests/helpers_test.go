package tests

import (
	"testing"
	"time"

	"atlas/internal/booking"
	"atlas/internal/domain"
	"atlas/internal/redis"
	"atlas/internal/repository"
	"atlas/internal/repository/catalog"
	"atlas/internal/service"
)

var (
	_ repository.BookingRepository = (*MockBookingRepository)(nil)
	_ redis.WizardStoreInterface   = (*MockWizardStore)(nil)
	_ redis.LockStoreInterface     = (*MockLockStore)(nil)
	_ service.Notifier             = (*MockNotifier)(nil)
	_ service.Channel              = (*MockChannel)(nil)
	_ service.MailSender           = (*MockMailSender)(nil)
)

// testNow is the fixed "now" every test calendar sees.
var testNow = time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)

// travelDate is a valid future date relative to testNow.
func travelDate() time.Time {
	return time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
}

func validContact() domain.Contact {
	return domain.Contact{
		Name:           "Amina Benali",
		Email:          "amina@example.com",
		Phone:          "+212 600 000 000",
		PickupLocation: "Riad Dar Anika, Medina",
	}
}

// testEnv wires the booking services to in-memory collaborators.
type testEnv struct {
	bookings *MockBookingRepository
	sessions *MockWizardStore
	locks    *MockLockStore
	notifier *MockNotifier

	catalog    *catalog.Catalog
	calendar   *booking.Calendar
	gateway    *service.SubmissionGateway
	wizards    *service.WizardService
	activities *service.ActivityService
	voucher    *service.VoucherService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cat, err := catalog.New(catalog.Default())
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}

	cal := booking.NewCalendar(time.UTC)
	cal.Now = func() time.Time { return testNow }

	env := &testEnv{
		bookings: NewMockBookingRepository(),
		sessions: NewMockWizardStore(),
		locks:    NewMockLockStore(),
		notifier: &MockNotifier{},
		catalog:  cat,
		calendar: cal,
		voucher:  service.NewVoucherService("Atlas Excursions"),
	}

	env.gateway = service.NewSubmissionGateway(env.bookings, env.notifier, nil)
	env.activities = service.NewActivityService(cat, domain.ChildPolicyHalf)
	env.wizards = service.NewWizardService(service.WizardServiceDeps{
		ActivityRepo: cat,
		Sessions:     env.sessions,
		Locks:        env.locks,
		Submitter:    env.gateway,
		Calendar:     cal,
		References:   booking.NewReferenceGenerator("ATL-", 6, booking.NewSeededSource(7, 11)),
		Options: booking.WizardOptions{
			DefaultPolicy: domain.ChildPolicyHalf,
		},
	})
	return env
}
