package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"atlas/internal/booking"
)

// CalendarHandler serves month grids for the travel-date picker.
type CalendarHandler struct {
	calendar *booking.Calendar
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(calendar *booking.Calendar) *CalendarHandler {
	return &CalendarHandler{calendar: calendar}
}

// MonthResponse is the HTTP response for a month grid.
type MonthResponse struct {
	booking.Grid
	Today string               `json:"today"`
	Weeks [][]*booking.DayCell `json:"weeks"`
}

// Month handles GET /v1/calendar?year&month&selected
// Missing year or month default to the current month.
func (h *CalendarHandler) Month(c *gin.Context) {
	today := h.calendar.Today()

	year, err := queryInt(c, "year", today.Year())
	if err != nil {
		respondError(c, err)
		return
	}
	month, err := queryInt(c, "month", int(today.Month()))
	if err != nil {
		respondError(c, err)
		return
	}
	if month < 1 || month > 12 || year < 1 {
		respondError(c, errInvalidQuery)
		return
	}

	var selected *time.Time
	if raw := c.Query("selected"); raw != "" {
		d, err := parseDate(raw, h.calendar.Location)
		if err != nil {
			respondError(c, err)
			return
		}
		selected = &d
	}

	grid := h.calendar.MonthGrid(year, time.Month(month), selected)
	respondJSON(c, http.StatusOK, MonthResponse{
		Grid:  grid,
		Today: today.Format(dateLayout),
		Weeks: grid.Weeks(),
	})
}
