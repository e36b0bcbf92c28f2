package httpapi

import (
	"net/http"

	"studiovault/internal/booking"

	"github.com/gin-gonic/gin"
)

// CreateBooking reserves slots and opens the payment window.
func (h Handlers) CreateBooking(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	var req booking.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	b, err := h.Bookings.Create(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// ListBookings returns bookings the caller participates in.
func (h Handlers) ListBookings(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	bs, err := h.Bookings.ListForProfile(c.Request.Context(), userID, 0)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bs})
}

// GetBooking returns one booking to a participant or an admin.
func (h Handlers) GetBooking(c *gin.Context) {
	userID, role, ok := identity(c)
	if !ok {
		return
	}
	b, err := h.Bookings.Get(c.Request.Context(), c.Param("booking_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if role != "admin" && b.ClientID != userID && b.StudioID != userID && b.InstructorID != userID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, b)
}

type paymentProofRequest struct {
	ProofURL string `json:"proof_url"`
}

func (h Handlers) AttachPaymentProof(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	var req paymentProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	b, err := h.Bookings.AttachPaymentProof(c.Request.Context(), c.Param("booking_id"), userID, req.ProofURL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h Handlers) ApproveBooking(c *gin.Context) {
	userID, role, ok := identity(c)
	if !ok {
		return
	}
	b, err := h.Bookings.Approve(c.Request.Context(), c.Param("booking_id"), actor(userID, role))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type rejectBookingRequest struct {
	Reason string `json:"reason"`
}

func (h Handlers) RejectBooking(c *gin.Context) {
	userID, role, ok := identity(c)
	if !ok {
		return
	}
	var req rejectBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	b, err := h.Bookings.Reject(c.Request.Context(), c.Param("booking_id"), actor(userID, role), req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h Handlers) CancelBooking(c *gin.Context) {
	userID, role, ok := identity(c)
	if !ok {
		return
	}
	b, err := h.Bookings.Cancel(c.Request.Context(), c.Param("booking_id"), actor(userID, role))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
