package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"atlas/internal/domain"
	"atlas/internal/repository"
)

const bookingColumns = `id, booking_reference, excursion_id, excursion_title, excursion_type,
		name, email, phone, pickup_location, adults, children, young_children, is_private, travel_date,
		adult_price, child_price, young_child_price, child_policy, total_price, status, created_at`

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

// Create inserts a booking row under a fresh UUID and returns that UUID.
func (r *BookingRepository) Create(ctx context.Context, b *domain.BookingRecord) (string, error) {
	if b == nil {
		return "", repository.ErrInvalidBooking
	}

	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	status := b.Status
	if status == "" {
		status = domain.BookingStatusPending
	}

	createdAt := b.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	id := uuid.New().String()
	_, err := r.q.ExecContext(ctx, query,
		id,
		b.BookingReference,
		b.ExcursionID,
		b.ExcursionTitle,
		b.ExcursionType,
		b.Name,
		b.Email,
		b.Phone,
		b.PickupLocation,
		b.Adults,
		b.Children,
		b.YoungChildren,
		b.IsPrivate,
		b.Date.Format(domain.TravelDateLayout),
		b.AdultPrice,
		b.ChildPrice,
		b.YoungChildPrice,
		string(b.ChildPolicy),
		b.TotalPrice,
		string(status),
		createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert booking: %w", err)
	}

	return id, nil
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.BookingRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(r.q.QueryRowContext(ctx, query, id))
}

// GetByReference retrieves the most recent booking with the given reference.
func (r *BookingRepository) GetByReference(ctx context.Context, reference string) (*domain.BookingRecord, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_reference = $1 ORDER BY created_at DESC LIMIT 1`
	return scanBooking(r.q.QueryRowContext(ctx, query, reference))
}

func scanBooking(row rowScanner) (*domain.BookingRecord, error) {
	var b domain.BookingRecord
	var policy, status string

	err := row.Scan(
		&b.ID,
		&b.BookingReference,
		&b.ExcursionID,
		&b.ExcursionTitle,
		&b.ExcursionType,
		&b.Name,
		&b.Email,
		&b.Phone,
		&b.PickupLocation,
		&b.Adults,
		&b.Children,
		&b.YoungChildren,
		&b.IsPrivate,
		&b.Date,
		&b.AdultPrice,
		&b.ChildPrice,
		&b.YoungChildPrice,
		&policy,
		&b.TotalPrice,
		&status,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}

	b.ChildPolicy = domain.ChildDiscountPolicy(policy)
	b.Status = domain.BookingStatus(status)
	return &b, nil
}
