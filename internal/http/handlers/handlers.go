package handlers

import (
	intconfig "rideshare/internal/config"
	"rideshare/internal/http/middleware"
	"rideshare/internal/realtime"
	"rideshare/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// Handlers carries what the HTTP layer needs to build per-request services.
type Handlers struct {
	DB  *sqlx.DB
	Env intconfig.Env
	Hub *realtime.Hub
}

func (h Handlers) rides(c *gin.Context) services.RideService {
	return services.RideService{DB: h.DB, RequestID: middleware.GetRequestID(c)}
}

func (h Handlers) reservations(c *gin.Context) services.ReservationService {
	return services.ReservationService{DB: h.DB, RequestID: middleware.GetRequestID(c)}
}

func (h Handlers) ratings(c *gin.Context) services.RatingService {
	return services.RatingService{DB: h.DB, RequestID: middleware.GetRequestID(c)}
}

func (h Handlers) tickets(c *gin.Context) services.TicketService {
	return services.TicketService{DB: h.DB, RequestID: middleware.GetRequestID(c)}
}

func (h Handlers) conversations(c *gin.Context) services.ConversationService {
	svc := services.ConversationService{DB: h.DB, RequestID: middleware.GetRequestID(c)}
	if h.Hub != nil {
		svc.Broadcaster = *h.Hub
	}
	return svc
}

func (h Handlers) auth(c *gin.Context) services.AuthService {
	return services.AuthService{
		DB:        h.DB,
		Secret:    []byte(h.Env.JWTSecret),
		TTL:       h.Env.JWTTTL,
		RequestID: middleware.GetRequestID(c),
	}
}
