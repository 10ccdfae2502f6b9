package request_models

import (
	"strings"

	"kairos/pkg/utils"
)

// ItineraryRequest is the public planning input.
type ItineraryRequest struct {
	Destination string  `json:"destination" binding:"required"`
	Days        int     `json:"days" binding:"required"`
	Budget      float64 `json:"budget,omitempty"`
	Refresh     bool    `json:"refresh,omitempty"`
}

// Validate normalizes and checks the request beyond what binding covers.
func (r *ItineraryRequest) Validate() error {
	r.Destination = strings.TrimSpace(r.Destination)
	if r.Destination == "" {
		return utils.ErrMissingDestination
	}
	if r.Days <= 0 {
		return utils.ErrInvalidDayCount
	}
	if r.Budget < 0 {
		return utils.ErrInvalidBudget
	}
	return nil
}
