package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"kairos/cmd/fx/aifx"
	"kairos/cmd/fx/controllersfx"
	"kairos/cmd/fx/dbfx"
	"kairos/cmd/fx/memcachefx"
	"kairos/cmd/fx/placesfx"
	"kairos/cmd/fx/planningfx"
	"kairos/cmd/fx/regionsfx"
	"kairos/internal/api/controllers"
	"kairos/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	app := fx.New(
		dbfx.Module,
		memcachefx.Module,
		aifx.Module,
		placesfx.Module,
		regionsfx.Module,
		planningfx.Module,
		controllersfx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	itineraryController *controllers.ItineraryController,
	adminController *controllers.AdminController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RateLimitMiddleware(requestsPerMinute()))

	RegisterRoutes(r, itineraryController, adminController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	itineraryController *controllers.ItineraryController,
	adminController *controllers.AdminController) {

	itineraries := r.Group("/itineraries")
	itineraries.POST("", itineraryController.PlanItinerary)
	itineraries.GET("/:destination", itineraryController.GetItinerary)

	admin := r.Group("/admin")
	admin.POST("/login", adminController.Login)

	protected := admin.Group("")
	protected.Use(middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("admin"))
	protected.DELETE("/destinations/:destination", adminController.InvalidateDestination)
}

func requestsPerMinute() int {
	if raw := os.Getenv("RATE_LIMIT_PER_MINUTE"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return 60
}
