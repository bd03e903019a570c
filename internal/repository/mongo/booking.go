package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"atlas/internal/domain"
	"atlas/internal/repository"
)

type bookingDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Name             string             `bson:"name"`
	Email            string             `bson:"email"`
	Phone            string             `bson:"phone"`
	PickupLocation   string             `bson:"pickupLocation"`
	Adults           int                `bson:"adults"`
	Children         int                `bson:"children"`
	YoungChildren    int                `bson:"youngChildren"`
	IsPrivate        bool               `bson:"isPrivate"`
	Date             string             `bson:"date"` // YYYY-MM-DD
	TotalPrice       float64            `bson:"totalPrice"`
	BookingReference string             `bson:"bookingReference"`
	ExcursionID      string             `bson:"excursionId"`
	ExcursionTitle   string             `bson:"excursionTitle"`
	ExcursionType    string             `bson:"excursionType"`
	AdultPrice       float64            `bson:"adultPrice"`
	ChildPrice       float64            `bson:"childPrice"`
	YoungChildPrice  float64            `bson:"youngChildPrice"`
	ChildPolicy      string             `bson:"childPolicy"`
	Status           string             `bson:"status"`
	CreatedAt        time.Time          `bson:"createdAt"`
}

// BookingRepository stores bookings in a MongoDB collection.
type BookingRepository struct {
	col *mongo.Collection
}

// NewBookingRepository creates a Mongo booking repository over the given database and collection.
func NewBookingRepository(client *mongo.Client, database, collection string) *BookingRepository {
	return &BookingRepository{col: client.Database(database).Collection(collection)}
}

// EnsureIndexes creates the reference lookup index.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "bookingReference", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create booking reference index: %w", err)
	}
	return nil
}

// Create inserts the booking and returns the hex ObjectID.
func (r *BookingRepository) Create(ctx context.Context, b *domain.BookingRecord) (string, error) {
	if b == nil {
		return "", repository.ErrInvalidBooking
	}

	doc := toDoc(b)
	doc.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert booking: %w", err)
	}
	return doc.ID.Hex(), nil
}

// GetByID retrieves a booking by its hex ObjectID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.BookingRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// GetByReference retrieves the newest booking carrying the reference.
func (r *BookingRepository) GetByReference(ctx context.Context, reference string) (*domain.BookingRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findOne(ctx, bson.M{"bookingReference": reference}, opts)
}

func (r *BookingRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.BookingRecord, error) {
	var doc bookingDoc
	if err := r.col.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return fromDoc(&doc)
}

func toDoc(b *domain.BookingRecord) *bookingDoc {
	status := b.Status
	if status == "" {
		status = domain.BookingStatusPending
	}
	createdAt := b.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
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
		CreatedAt:        createdAt.UTC(),
	}
}

func fromDoc(doc *bookingDoc) (*domain.BookingRecord, error) {
	date, err := domain.ParseTravelDate(doc.Date)
	if err != nil {
		return nil, fmt.Errorf("parse travel date %q: %w", doc.Date, err)
	}

	return &domain.BookingRecord{
		ID: doc.ID.Hex(),
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
