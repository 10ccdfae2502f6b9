package controllers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"kairos/internal/services"
	"kairos/pkg/utils"
)

type AdminController struct {
	itineraryService services.ItineraryServiceInterface
}

func NewAdminController(itineraryService services.ItineraryServiceInterface) *AdminController {
	return &AdminController{
		itineraryService: itineraryService,
	}
}

// Login handles POST /admin/login and issues the admin token used for
// cache invalidation.
func (ac *AdminController) Login(c *gin.Context) {
	var req struct {
		Secret string `json:"secret" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Secret == "" || req.Secret != os.Getenv("ADMIN_SECRET") {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.CreateToken("admin", "admin")
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Could not issue token")
		return
	}

	utils.RespondSuccess(c, gin.H{"token": token}, "Login successful")
}

// InvalidateDestination handles DELETE /admin/destinations/:destination,
// evicting both cache tiers so the next request rebuilds from providers.
func (ac *AdminController) InvalidateDestination(c *gin.Context) {
	destination := c.Param("destination")
	if destination == "" {
		utils.RespondError(c, http.StatusBadRequest, "Destination is required")
		return
	}

	if err := ac.itineraryService.InvalidateDestination(c.Request.Context(), destination); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"destination": destination}, "Destination cache invalidated")
}
