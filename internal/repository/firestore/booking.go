package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"atlas/internal/domain"
	"atlas/internal/repository"
)

// bookingDoc is the document shape written to the bookings collection.
type bookingDoc struct {
	Name             string    `firestore:"name"`
	Email            string    `firestore:"email"`
	Phone            string    `firestore:"phone"`
	PickupLocation   string    `firestore:"pickupLocation"`
	Adults           int       `firestore:"adults"`
	Children         int       `firestore:"children"`
	YoungChildren    int       `firestore:"youngChildren"`
	IsPrivate        bool      `firestore:"isPrivate"`
	Date             string    `firestore:"date"` // YYYY-MM-DD
	TotalPrice       float64   `firestore:"totalPrice"`
	BookingReference string    `firestore:"bookingReference"`
	ExcursionID      string    `firestore:"excursionId"`
	ExcursionTitle   string    `firestore:"excursionTitle"`
	ExcursionType    string    `firestore:"excursionType"`
	AdultPrice       float64   `firestore:"adultPrice"`
	ChildPrice       float64   `firestore:"childPrice"`
	YoungChildPrice  float64   `firestore:"youngChildPrice"`
	ChildPolicy      string    `firestore:"childPolicy"`
	Status           string    `firestore:"status"`
	CreatedAt        time.Time `firestore:"createdAt,serverTimestamp"`
}

// BookingRepository stores bookings as documents in a Firestore collection.
type BookingRepository struct {
	client     *firestore.Client
	collection string
}

// NewBookingRepository creates a Firestore booking repository writing to collection.
func NewBookingRepository(client *firestore.Client, collection string) *BookingRepository {
	if collection == "" {
		collection = "bookings"
	}
	return &BookingRepository{client: client, collection: collection}
}

// Create adds a document with an auto-generated ID. createdAt is set by the server.
func (r *BookingRepository) Create(ctx context.Context, b *domain.BookingRecord) (string, error) {
	if b == nil {
		return "", repository.ErrInvalidBooking
	}

	ref, _, err := r.client.Collection(r.collection).Add(ctx, toDoc(b))
	if err != nil {
		return "", fmt.Errorf("add booking document: %w", err)
	}
	return ref.ID, nil
}

// GetByID retrieves a booking document by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.BookingRecord, error) {
	snap, err := r.client.Collection(r.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get booking document: %w", err)
	}
	return fromSnapshot(snap)
}

// GetByReference retrieves the newest booking document carrying the reference.
func (r *BookingRepository) GetByReference(ctx context.Context, reference string) (*domain.BookingRecord, error) {
	snaps, err := r.client.Collection(r.collection).
		Where("bookingReference", "==", reference).
		OrderBy("createdAt", firestore.Desc).
		Limit(1).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("query booking by reference: %w", err)
	}
	if len(snaps) == 0 {
		return nil, repository.ErrNotFound
	}
	return fromSnapshot(snaps[0])
}

func fromSnapshot(snap *firestore.DocumentSnapshot) (*domain.BookingRecord, error) {
	var doc bookingDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode booking document %s: %w", snap.Ref.ID, err)
	}
	record, err := fromDoc(&doc)
	if err != nil {
		return nil, fmt.Errorf("booking document %s: %w", snap.Ref.ID, err)
	}
	record.ID = snap.Ref.ID
	return record, nil
}

func toDoc(b *domain.BookingRecord) *bookingDoc {
	status := b.Status
	if status == "" {
		status = domain.BookingStatusPending
	}
	return &bookingDoc{
		Name:             b.Name,
		Email:            b.Email,
		Phone:            b.Phone,
		PickupLocation:   b.PickupLocation,
		Adults:           b.Adults,
		Children:         b.Children,
		YoungChildren:    b.YoungChildren,
		IsPrivate:        b.IsPrivate,
		Date:             b.Date.Format(domain.TravelDateLayout),
		TotalPrice:       b.TotalPrice,
		BookingReference: b.BookingReference,
		ExcursionID:      b.ExcursionID,
		ExcursionTitle:   b.ExcursionTitle,
		ExcursionType:    b.ExcursionType,
		AdultPrice:       b.AdultPrice,
		ChildPrice:       b.ChildPrice,
		YoungChildPrice:  b.YoungChildPrice,
		ChildPolicy:      string(b.ChildPolicy),
		Status:           string(status),
	}
}

func fromDoc(doc *bookingDoc) (*domain.BookingRecord, error) {
	date, err := domain.ParseTravelDate(doc.Date)
	if err != nil {
		return nil, fmt.Errorf("parse travel date %q: %w", doc.Date, err)
	}

	return &domain.BookingRecord{
		BookingDraft: domain.BookingDraft{
			Contact: domain.Contact{
				Name:           doc.Name,
				Email:          doc.Email,
				Phone:          doc.Phone,
				PickupLocation: doc.PickupLocation,
			},
			PartyComposition: domain.PartyComposition{
				Adults:        doc.Adults,
				Children:      doc.Children,
				YoungChildren: doc.YoungChildren,
			},
			IsPrivate:        doc.IsPrivate,
			Date:             date,
			TotalPrice:       doc.TotalPrice,
			BookingReference: doc.BookingReference,
			ExcursionID:      doc.ExcursionID,
			ExcursionTitle:   doc.ExcursionTitle,
			ExcursionType:    doc.ExcursionType,
			AdultPrice:       doc.AdultPrice,
			ChildPrice:       doc.ChildPrice,
			YoungChildPrice:  doc.YoungChildPrice,
			ChildPolicy:      domain.ChildDiscountPolicy(doc.ChildPolicy),
			Status:           domain.BookingStatus(doc.Status),
		},
		CreatedAt: doc.CreatedAt,
	}, nil
}
