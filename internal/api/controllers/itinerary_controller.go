package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kairos/internal/models/request_models"
	"kairos/internal/services"
	"kairos/pkg/utils"
)

type ItineraryController struct {
	itineraryService services.ItineraryServiceInterface
}

func NewItineraryController(itineraryService services.ItineraryServiceInterface) *ItineraryController {
	return &ItineraryController{
		itineraryService: itineraryService,
	}
}

// PlanItinerary handles POST /itineraries.
func (ic *ItineraryController) PlanItinerary(c *gin.Context) {
	var req request_models.ItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := ic.itineraryService.PlanItinerary(c.Request.Context(), &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Itinerary planned successfully")
}

// GetItinerary handles GET /itineraries/:destination?days=N.
func (ic *ItineraryController) GetItinerary(c *gin.Context) {
	destination := c.Param("destination")
	if destination == "" {
		utils.RespondError(c, http.StatusBadRequest, "Destination is required")
		return
	}

	daysStr := c.DefaultQuery("days", "3")
	days, err := strconv.Atoi(daysStr)
	if err != nil || days < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid day count")
		return
	}

	req := request_models.ItineraryRequest{Destination: destination, Days: days}
	resp, err := ic.itineraryService.PlanItinerary(c.Request.Context(), &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Itinerary planned successfully")
}
