// Package api exposes the HTTP and WebSocket boundary.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"digierge/internal/hub"
	"digierge/internal/service"
)

// Server wires the REST routes and the realtime endpoint.
type Server struct {
	svc      *service.BookingService
	hub      *hub.Hub
	logger   *zerolog.Logger
	router   *gin.Engine
	upgrader websocket.Upgrader
}

// NewServer builds the router.
func NewServer(svc *service.BookingService, h *hub.Hub, logger *zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		svc:    svc,
		hub:    h,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin checks are the reverse proxy's concern.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.POST("/bookings/:service", s.createBooking)
		api.PUT("/bookings/:id/status", s.updateStatus)
		api.GET("/bookings", s.listBookings)
		api.GET("/staff", s.listStaff)
		api.GET("/analytics/revenue", s.revenue)
		api.GET("/reports/bookings.xlsx", s.exportBookings)
		api.GET("/health", s.health)
	}
	r.GET("/ws", s.handleWS)

	s.router = r
	return s
}

// Handler returns the root http handler.
func (s *Server) Handler() http.Handler {
	return s.router
}
