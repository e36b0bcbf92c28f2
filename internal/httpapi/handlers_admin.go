package httpapi

import (
	"net/http"
	"time"

	"studiovault/internal/reporting"

	"github.com/gin-gonic/gin"
)

// Admin handlers. Routing restricts this group to the admin role; handlers
// still read the identity for audit attribution.

func (h Handlers) ListPendingTopUps(c *gin.Context) {
	ts, err := h.Wallet.ListPendingTopUps(c.Request.Context(), 0)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"top_ups": ts})
}

func (h Handlers) ApproveTopUp(c *gin.Context) {
	adminID, adminRole, ok := identity(c)
	if !ok {
		return
	}
	t, err := h.Wallet.ApproveTopUp(c.Request.Context(), c.Param("top_up_id"), adminID, adminRole)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

type rejectTopUpRequest struct {
	Reason string `json:"reason"`
}

func (h Handlers) RejectTopUp(c *gin.Context) {
	adminID, adminRole, ok := identity(c)
	if !ok {
		return
	}
	var req rejectTopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	t, err := h.Wallet.RejectTopUp(c.Request.Context(), c.Param("top_up_id"), adminID, adminRole, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// parseRange reads from/to query params as RFC 3339 timestamps.
func parseRange(c *gin.Context) (reporting.TimeRange, bool) {
	from, errF := time.Parse(time.RFC3339, c.Query("from"))
	to, errT := time.Parse(time.RFC3339, c.Query("to"))
	if errF != nil || errT != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "from and to must be RFC 3339 timestamps"})
		return reporting.TimeRange{}, false
	}
	return reporting.TimeRange{From: from, To: to}, true
}

// BookingsReport aggregates booking counts and revenue over a window.
func (h Handlers) BookingsReport(c *gin.Context) {
	tr, ok := parseRange(c)
	if !ok {
		return
	}
	out, err := h.Reports.BookingsSummary(c.Request.Context(), reporting.BookingsSummaryRequest{
		Range:    tr,
		StudioID: c.Query("studio_id"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// EarningsReport aggregates one profile's ledger flow over a window.
func (h Handlers) EarningsReport(c *gin.Context) {
	tr, ok := parseRange(c)
	if !ok {
		return
	}
	out, err := h.Reports.EarningsSummary(c.Request.Context(), reporting.EarningsSummaryRequest{
		ProfileID: c.Query("profile_id"),
		Range:     tr,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// SuspendProfile is the manual counterpart of the document sweep.
func (h Handlers) SuspendProfile(c *gin.Context) {
	if _, _, ok := identity(c); !ok {
		return
	}
	if err := h.Profiles.Suspend(c.Request.Context(), c.Param("profile_id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "suspended"})
}
