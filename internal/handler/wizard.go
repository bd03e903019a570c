package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atlas/internal/booking"
	"atlas/internal/domain"
	"atlas/internal/service"
)

// WizardHandler handles HTTP requests for multi-step booking wizards.
type WizardHandler struct {
	wizardService *service.WizardService
	calendar      *booking.Calendar
}

// NewWizardHandler creates a new WizardHandler.
func NewWizardHandler(wizardService *service.WizardService, calendar *booking.Calendar) *WizardHandler {
	return &WizardHandler{
		wizardService: wizardService,
		calendar:      calendar,
	}
}

// StartWizardRequest is the HTTP request body for opening a wizard.
type StartWizardRequest struct {
	ActivityID string `json:"activityId"`
	SinglePage bool   `json:"singlePage"`
}

// UpdateGuestsRequest is the HTTP request body for the guests step.
// Omitted fields are left unchanged.
type UpdateGuestsRequest struct {
	Party     *domain.PartyComposition `json:"party,omitempty"`
	IsPrivate *bool                    `json:"isPrivate,omitempty"`
	Date      *string                  `json:"date,omitempty"` // YYYY-MM-DD; empty string clears the date
}

// Start handles POST /v1/wizards
func (h *WizardHandler) Start(c *gin.Context) {
	var req StartWizardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errInvalidBody)
		return
	}

	view, err := h.wizardService.Start(c.Request.Context(), req.ActivityID, req.SinglePage)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, view)
}

// Get handles GET /v1/wizards/:id
func (h *WizardHandler) Get(c *gin.Context) {
	view, err := h.wizardService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, view)
}

// UpdateContact handles PUT /v1/wizards/:id/contact
func (h *WizardHandler) UpdateContact(c *gin.Context) {
	var req domain.Contact
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errInvalidBody)
		return
	}

	view, err := h.wizardService.UpdateContact(c.Request.Context(), c.Param("id"), req)
	h.respondView(c, view, err)
}

// Next handles POST /v1/wizards/:id/next
func (h *WizardHandler) Next(c *gin.Context) {
	view, err := h.wizardService.Next(c.Request.Context(), c.Param("id"))
	h.respondView(c, view, err)
}

// Back handles POST /v1/wizards/:id/back
func (h *WizardHandler) Back(c *gin.Context) {
	view, err := h.wizardService.Back(c.Request.Context(), c.Param("id"))
	h.respondView(c, view, err)
}

// UpdateGuests handles PUT /v1/wizards/:id/guests
func (h *WizardHandler) UpdateGuests(c *gin.Context) {
	var req UpdateGuestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errInvalidBody)
		return
	}

	update := service.GuestsUpdate{
		Party:     req.Party,
		IsPrivate: req.IsPrivate,
	}
	if req.Date != nil {
		if *req.Date == "" {
			update.ClearDate = true
		} else {
			d, err := parseDate(*req.Date, h.calendar.Location)
			if err != nil {
				respondError(c, err)
				return
			}
			update.Date = &d
		}
	}

	view, err := h.wizardService.UpdateGuests(c.Request.Context(), c.Param("id"), update)
	h.respondView(c, view, err)
}

// Submit handles POST /v1/wizards/:id/submit
func (h *WizardHandler) Submit(c *gin.Context) {
	view, err := h.wizardService.Submit(c.Request.Context(), c.Param("id"))
	h.respondView(c, view, err)
}

// Close handles POST /v1/wizards/:id/close
func (h *WizardHandler) Close(c *gin.Context) {
	view, err := h.wizardService.Close(c.Request.Context(), c.Param("id"))
	h.respondView(c, view, err)
}

// Discard handles DELETE /v1/wizards/:id
func (h *WizardHandler) Discard(c *gin.Context) {
	if err := h.wizardService.Discard(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WizardHandler) respondView(c *gin.Context, view *service.WizardView, err error) {
	if err != nil {
		respondWizardError(c, err, view)
		return
	}
	respondJSON(c, http.StatusOK, view)
}
