package api

import (
	"log"
	stdhttp "net/http"

	intconfig "rideshare/internal/config"
	h "rideshare/internal/http/handlers"
	"rideshare/internal/http/middleware"
	"rideshare/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

func NewRouter(env intconfig.Env, db *sqlx.DB, hub *realtime.Hub) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.AllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	hs := h.Handlers{DB: db, Env: env, Hub: hub}
	auth := middleware.Auth([]byte(env.JWTSecret))

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		authGroup := api.Group("/auth")
		authGroup.POST("/register", hs.Register)
		authGroup.POST("/login", hs.Login)

		// Directory
		api.GET("/locations", hs.ListLocations)
		api.POST("/locations", auth, middleware.RequireRoles("admin"), hs.CreateLocation)

		// Vehicles
		vehicles := api.Group("/vehicles", auth)
		vehicles.GET("", hs.ListVehicles)
		vehicles.POST("", hs.CreateVehicle)
		vehicles.PUT("/:id", hs.UpdateVehicle)
		vehicles.DELETE("/:id", hs.DeleteVehicle)

		// Rides
		rides := api.Group("/rides")
		rides.GET("", hs.SearchRides)
		rides.GET("/:id", hs.GetRide)
		rides.POST("", auth, hs.OfferRide)
		rides.POST("/:id/bookings", auth, hs.ReserveSeats)
		rides.GET("/:id/bookings", auth, hs.ListRideBookings)
		rides.POST("/:id/ratings", auth, hs.RateRide)

		api.GET("/drivers/:id/rating", hs.DriverRating)

		// Bookings
		bookings := api.Group("/bookings", auth)
		bookings.GET("", hs.ListMyBookings)
		bookings.GET("/:id/ticket", hs.BookingTicket)

		// Conversations
		conversations := api.Group("/conversations", auth)
		conversations.POST("", hs.StartConversation)
		conversations.GET("", hs.ListConversations)
		conversations.GET("/:id/messages", hs.ListMessages)
		conversations.POST("/:id/messages", hs.SendMessage)
		conversations.GET("/:id/stream", hs.StreamConversation)
	}

	h.SetRouter(r)
	return r
}
