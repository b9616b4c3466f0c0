package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"digierge/internal/booking"
	"digierge/internal/database"
	"digierge/internal/models"
	"digierge/internal/report"
	"digierge/internal/service"
)

type createBookingRequest struct {
	TenantID       string         `json:"tenant_id" binding:"required"`
	GuestName      string         `json:"guest_name" binding:"required"`
	GuestEmail     string         `json:"guest_email"`
	RoomNumber     string         `json:"room_number" binding:"required"`
	ServiceDetails map[string]any `json:"service_details"`
	Priority       string         `json:"priority"`
	TotalAmount    *float64       `json:"total_amount"`
}

func (s *Server) createBooking(c *gin.Context) {
	serviceType, err := models.ParseServiceType(c.Param("service"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.svc.SubmitBooking(c.Request.Context(), service.SubmitRequest{
		TenantID:       req.TenantID,
		GuestName:      req.GuestName,
		GuestEmail:     req.GuestEmail,
		RoomNumber:     req.RoomNumber,
		ServiceType:    serviceType,
		ServiceDetails: req.ServiceDetails,
		Priority:       models.Priority(req.Priority),
		TotalAmount:    req.TotalAmount,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("service_type", string(serviceType)).Msg("failed to create booking")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create booking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"booking_id":   result.BookingID,
		"message":      result.Message,
		"service_type": result.ServiceType,
	})
}

type updateStatusRequest struct {
	TenantID   string `json:"tenant_id" binding:"required"`
	Status     string `json:"status"`
	AssignedTo string `json:"assigned_to"`
}

func (s *Server) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var status models.Status
	if req.Status != "" {
		var err error
		status, err = models.ParseStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	} else if req.AssignedTo == "" || req.AssignedTo == models.Unassigned {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status or assigned_to is required"})
		return
	}

	result, err := s.svc.ChangeStatus(c.Request.Context(), service.ChangeStatusRequest{
		TenantID:   req.TenantID,
		BookingID:  c.Param("id"),
		Status:     status,
		AssignedTo: req.AssignedTo,
	})
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		case errors.Is(err, booking.ErrInvalidTransition), errors.Is(err, booking.ErrAlreadyAssigned):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			s.logger.Error().Err(err).Str("booking_id", c.Param("id")).Msg("failed to update booking")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update booking"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"booking_id":  result.BookingID,
		"status":      result.Status,
		"assigned_to": result.AssignedTo,
	})
}

func (s *Server) listBookings(c *gin.Context) {
	tenantID := c.Query("tenant_id")
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id is required"})
		return
	}

	bookings, err := s.svc.ListBookings(c.Request.Context(), tenantID)
	if err != nil {
		s.logger.Error().Err(err).Str("tenant_id", tenantID).Msg("failed to list bookings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (s *Server) listStaff(c *gin.Context) {
	tenantID := c.Query("tenant_id")
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id is required"})
		return
	}

	staff, err := s.svc.ListStaff(c.Request.Context(), tenantID)
	if err != nil {
		s.logger.Error().Err(err).Str("tenant_id", tenantID).Msg("failed to list staff")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list staff"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"staff": staff})
}

func (s *Server) revenue(c *gin.Context) {
	tenantID := c.Query("tenant_id")
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id is required"})
		return
	}

	sum, err := s.svc.RevenueSummary(c.Request.Context(), tenantID, c.Query("period"))
	if err != nil {
		s.logger.Error().Err(err).Str("tenant_id", tenantID).Msg("failed to compute revenue")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute revenue"})
		return
	}

	c.JSON(http.StatusOK, sum)
}

func (s *Server) exportBookings(c *gin.Context) {
	tenantID := c.Query("tenant_id")
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id is required"})
		return
	}

	bookings, err := s.svc.ListBookings(c.Request.Context(), tenantID)
	if err != nil {
		s.logger.Error().Err(err).Str("tenant_id", tenantID).Msg("failed to export bookings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export bookings"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="bookings.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := report.WriteBookings(c.Writer, tenantID, bookings); err != nil {
		s.logger.Error().Err(err).Msg("failed to write bookings report")
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "ok",
		"connected_clients": s.hub.Connections(),
	})
}
