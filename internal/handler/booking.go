package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"atlas/internal/booking"
	"atlas/internal/domain"
	"atlas/internal/repository"
	"atlas/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	wizardService *service.WizardService
	bookingRepo   repository.BookingRepository
	voucher       *service.VoucherService
	calendar      *booking.Calendar
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(
	wizardService *service.WizardService,
	bookingRepo repository.BookingRepository,
	voucher *service.VoucherService,
	calendar *booking.Calendar,
) *BookingHandler {
	return &BookingHandler{
		wizardService: wizardService,
		bookingRepo:   bookingRepo,
		voucher:       voucher,
		calendar:      calendar,
	}
}

// CreateBookingRequest is the HTTP request body for a single-page booking.
type CreateBookingRequest struct {
	ActivityID string `json:"activityId"`
	domain.Contact
	domain.PartyComposition
	IsPrivate bool   `json:"isPrivate"`
	Date      string `json:"date"` // YYYY-MM-DD
}

// Create handles POST /v1/bookings
// Every guard runs before anything is written: contact fields, then adults, then the date.
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errInvalidBody)
		return
	}

	input := service.SinglePageBooking{
		ActivityID: req.ActivityID,
		Contact:    req.Contact,
		Party:      req.PartyComposition,
		IsPrivate:  req.IsPrivate,
	}
	if req.Date != "" {
		d, err := parseDate(req.Date, h.calendar.Location)
		if err != nil {
			respondError(c, err)
			return
		}
		input.Date = &d
	}

	record, err := h.wizardService.BookNow(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, record)
}

// Get handles GET /v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := bookingParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	record, err := h.bookingRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, record)
}

// GetByReference handles GET /v1/bookings/reference/:ref
func (h *BookingHandler) GetByReference(c *gin.Context) {
	ref, err := bookingParam(c, "ref")
	if err != nil {
		respondError(c, err)
		return
	}

	record, err := h.bookingRepo.GetByReference(c.Request.Context(), ref)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, record)
}

// Voucher handles GET /v1/bookings/:id/voucher.pdf
func (h *BookingHandler) Voucher(c *gin.Context) {
	id, err := bookingParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	record, err := h.bookingRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.voucher.RenderPDF(record, &buf); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="voucher-`+record.BookingReference+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func bookingParam(c *gin.Context, name string) (string, error) {
	v := strings.TrimSpace(c.Param(name))
	if v == "" {
		return "", service.ErrInvalidBookingID
	}
	return v, nil
}
