package httpapi

import (
	"errors"
	"net/http"
	"time"

	"studiovault/internal/auth"
	"studiovault/internal/booking"
	"studiovault/internal/profile"
	"studiovault/internal/reporting"
	"studiovault/internal/slots"
	"studiovault/internal/support"
	"studiovault/internal/sweep"
	"studiovault/internal/wallet"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth     *auth.Manager
	Profiles *profile.Service
	Slots    *slots.Service
	Bookings *booking.Service
	Wallet   *wallet.Service
	Support  *support.Service
	Sweeper  *sweep.Service
	Reports  *reporting.Service

	// CronSecret authenticates the external scheduler trigger.
	CronSecret string
}

// writeError maps service sentinels to HTTP statuses. Unknown errors become
// opaque 500s; never echo internal error text for those.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrInvalidArgument),
		errors.Is(err, wallet.ErrInvalidArgument),
		errors.Is(err, slots.ErrInvalidArgument),
		errors.Is(err, profile.ErrInvalidArgument),
		errors.Is(err, support.ErrInvalidArgument),
		errors.Is(err, reporting.ErrInvalidRequest):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrNotFound),
		errors.Is(err, wallet.ErrNotFound),
		errors.Is(err, slots.ErrNotFound),
		errors.Is(err, profile.ErrNotFound),
		errors.Is(err, support.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrForbidden),
		errors.Is(err, support.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, wallet.ErrInsufficientFunds):
		c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": "insufficient funds"})
	case errors.Is(err, booking.ErrSlotTaken),
		errors.Is(err, booking.ErrNotEligible),
		errors.Is(err, booking.ErrIllegalTransition),
		errors.Is(err, wallet.ErrAlreadyDecided),
		errors.Is(err, support.ErrTicketClosed):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func identity(c *gin.Context) (userID, role string, ok bool) {
	userID, err := auth.UserID(c.Request.Context())
	if err != nil || userID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return "", "", false
	}
	role, _ = auth.Role(c.Request.Context())
	return userID, role, true
}

func actor(userID, role string) booking.Actor {
	return booking.Actor{ID: userID, Role: role, Admin: role == "admin"}
}

// --- Auth ---

type loginRequest struct {
	Email string `json:"email"`
}

// Login issues a JWT token pair for a known, active profile.
//
// NOTE: Credential verification happens upstream (the identity provider owns
// passwords); this endpoint exchanges a verified email for platform tokens.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Email == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "email required"})
		return
	}

	p, err := h.Profiles.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown profile"})
			return
		}
		writeError(c, err)
		return
	}
	if p.IsSuspended {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account suspended"})
		return
	}

	pair, err := h.Auth.IssuePair(time.Now(), p.ID, string(p.Role))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh exchanges a valid refresh token for a new pair. The role is
// re-read from the profile so a role change invalidates stale claims.
func (h Handlers) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "refresh_token required"})
		return
	}

	claims, err := h.Auth.Verify(req.RefreshToken, auth.TokenTypeRefresh, time.Now())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	p, err := h.Profiles.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown profile"})
		return
	}
	if p.IsSuspended {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account suspended"})
		return
	}

	pair, err := h.Auth.IssuePair(time.Now(), p.ID, string(p.Role))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// Me returns the caller's profile.
func (h Handlers) Me(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	p, err := h.Profiles.Get(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// --- Wallet ---

func (h Handlers) GetWalletBalance(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	bal, err := h.Wallet.GetBalance(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bal)
}

func (h Handlers) RequestTopUp(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	var req wallet.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	t, err := h.Wallet.RequestTopUp(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// --- Search ---

// SearchStudios finds studios with available slots in a time window.
// Query: date=2006-01-02, start, end (12h or 24h clock), location (optional).
func (h Handlers) SearchStudios(c *gin.Context) {
	matches, err := h.Slots.FindMatchingStudios(c.Request.Context(),
		c.Query("date"), c.Query("start"), c.Query("end"), c.Query("location"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"studios": matches})
}

// CreateSlot publishes a new bookable slot for the calling studio.
func (h Handlers) CreateSlot(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	var req slots.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	slot, err := h.Slots.CreateSlot(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}
