package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"atlas/internal/booking"
	"atlas/internal/repository"
	"atlas/internal/service"
)

// dateLayout is the wire format of travel dates.
const dateLayout = "2006-01-02"

var (
	errInvalidDate  = errors.New("date must be formatted as YYYY-MM-DD")
	errInvalidQuery = errors.New("invalid query parameter")
	errInvalidBody  = errors.New("invalid request body")
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields []string            `json:"fields,omitempty"`
	Wizard *service.WizardView `json:"wizard,omitempty"` // Wizard state after a rejected step, when one exists
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	respondWizardError(c, err, nil)
}

// respondWizardError sends an error response that also carries the wizard's current state.
func respondWizardError(c *gin.Context, err error, view *service.WizardView) {
	_ = c.Error(err)
	code := mapErrorToHTTPStatus(err)
	resp := ErrorResponse{Error: err.Error(), Wizard: view}

	var ve *booking.ValidationError
	switch {
	case errors.As(err, &ve):
		resp.Error = ve.Message
		resp.Fields = ve.Fields
	case errors.Is(err, booking.ErrSubmissionFailed):
		resp.Error = booking.MsgSubmitFailed
	case code == http.StatusInternalServerError:
		resp.Error = "internal server error"
	}

	c.JSON(code, resp)
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps booking/service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrWizardNotFound):
		return http.StatusNotFound

	// Guest-correctable input
	case booking.IsValidationError(err),
		errors.Is(err, booking.ErrPastDate):
		return http.StatusUnprocessableEntity

	// Malformed requests
	case errors.Is(err, service.ErrInvalidActivityID),
		errors.Is(err, service.ErrInvalidWizardID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidGuestCount),
		errors.Is(err, booking.ErrUnknownChildPolicy),
		errors.Is(err, errInvalidDate),
		errors.Is(err, errInvalidQuery),
		errors.Is(err, errInvalidBody):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, booking.ErrSubmissionInProgress),
		errors.Is(err, service.ErrWizardBusy):
		return http.StatusConflict

	// The booking store rejected the write
	case errors.Is(err, booking.ErrSubmissionFailed):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// parseDate parses a YYYY-MM-DD date at midnight in loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	return t, nil
}

// queryInt reads an optional integer query parameter.
func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errInvalidQuery, name)
	}
	return v, nil
}
