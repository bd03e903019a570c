package domain

import "time"

// TravelDateLayout is the calendar-date form travel dates are persisted in.
const TravelDateLayout = "2006-01-02"

// ParseTravelDate reads a persisted travel date back as midnight UTC.
func ParseTravelDate(s string) (time.Time, error) {
	return time.Parse(TravelDateLayout, s)
}

// BookingStatus represents the lifecycle status of a persisted booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCanceled  BookingStatus = "canceled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCanceled, BookingStatusCompleted:
		return true
	}
	return false
}

// Contact holds the guest's contact details collected on the first wizard step.
type Contact struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	PickupLocation string `json:"pickupLocation"`
}

// PartyComposition holds the guest counts per age band.
type PartyComposition struct {
	Adults        int `json:"adults"`
	Children      int `json:"children"`
	YoungChildren int `json:"youngChildren"` // Infants, always free
}

// TourSelection holds the tour variant and travel date.
type TourSelection struct {
	IsPrivate bool       `json:"isPrivate"`
	Date      *time.Time `json:"date"` // nil until a date is picked
}

// BookingDraft is assembled when the wizard submits and handed once to the submission gateway.
type BookingDraft struct {
	Contact
	PartyComposition
	IsPrivate bool      `json:"isPrivate"`
	Date      time.Time `json:"date"`

	TotalPrice       float64 `json:"totalPrice"` // Full precision, never rounded
	BookingReference string  `json:"bookingReference"`

	ExcursionID     string              `json:"excursionId"`
	ExcursionTitle  string              `json:"excursionTitle"`
	ExcursionType   string              `json:"excursionType"`
	AdultPrice      float64             `json:"adultPrice"`
	ChildPrice      float64             `json:"childPrice"`
	YoungChildPrice float64             `json:"youngChildPrice"`
	ChildPolicy     ChildDiscountPolicy `json:"childPolicy"`

	Status BookingStatus `json:"status,omitempty"`
}

// BookingRecord is the persisted form of a draft.
type BookingRecord struct {
	BookingDraft
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
