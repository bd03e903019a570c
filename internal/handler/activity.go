package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atlas/internal/booking"
	"atlas/internal/domain"
	"atlas/internal/service"
)

// ActivityHandler handles HTTP requests for the activity catalog.
type ActivityHandler struct {
	activityService *service.ActivityService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// ActivityResponse is an activity with its effective child pricing policy.
type ActivityResponse struct {
	*domain.Activity
	EffectiveChildPolicy domain.ChildDiscountPolicy `json:"effectiveChildPolicy"`
	ChildAgeBand         string                     `json:"childAgeBand"`
}

// QuoteResponse is the HTTP response for pricing a party.
type QuoteResponse struct {
	ActivityID    string                  `json:"activityId"`
	Party         domain.PartyComposition `json:"party"`
	IsPrivate     bool                    `json:"isPrivate"`
	booking.Quote
}

func (h *ActivityHandler) toResponse(a *domain.Activity) ActivityResponse {
	policy := booking.ResolvePolicy(a, h.activityService.DefaultPolicy())
	return ActivityResponse{
		Activity:             a,
		EffectiveChildPolicy: policy,
		ChildAgeBand:         booking.ChildAgeBand(policy),
	}
}

// List handles GET /v1/activities
func (h *ActivityHandler) List(c *gin.Context) {
	activities, err := h.activityService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]ActivityResponse, 0, len(activities))
	for _, a := range activities {
		resp = append(resp, h.toResponse(a))
	}
	respondJSON(c, http.StatusOK, resp)
}

// Get handles GET /v1/activities/:id
func (h *ActivityHandler) Get(c *gin.Context) {
	activity, err := h.activityService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, h.toResponse(activity))
}

// Quote handles GET /v1/activities/:id/quote
func (h *ActivityHandler) Quote(c *gin.Context) {
	var party domain.PartyComposition
	var err error
	if party.Adults, err = queryInt(c, "adults", booking.DefaultAdults); err != nil {
		respondError(c, err)
		return
	}
	if party.Children, err = queryInt(c, "children", 0); err != nil {
		respondError(c, err)
		return
	}
	if party.YoungChildren, err = queryInt(c, "youngChildren", 0); err != nil {
		respondError(c, err)
		return
	}

	req := service.QuoteRequest{
		Party:     party,
		IsPrivate: c.Query("private") == "true",
	}
	if raw := c.Query("policy"); raw != "" {
		if req.Policy, err = booking.ParseChildDiscountPolicy(raw); err != nil {
			respondError(c, err)
			return
		}
	}

	id := c.Param("id")
	quote, err := h.activityService.Quote(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, QuoteResponse{
		ActivityID: id,
		Party:      party,
		IsPrivate:  req.IsPrivate,
		Quote:      *quote,
	})
}
