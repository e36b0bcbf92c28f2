package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type openTicketRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (h Handlers) OpenTicket(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	var req openTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	t, err := h.Support.OpenTicket(c.Request.Context(), userID, req.Subject, req.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h Handlers) ListTickets(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}
	ts, err := h.Support.ListTickets(c.Request.Context(), userID, 0)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": ts})
}

// TicketMessages returns the thread and marks it read for the viewer.
func (h Handlers) TicketMessages(c *gin.Context) {
	userID, role, ok := identity(c)
	if !ok {
		return
	}
	msgs, err := h.Support.Messages(c.Request.Context(), c.Param("ticket_id"), userID, role == "admin")
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

type postMessageRequest struct {
	Body string `json:"body"`
}

func (h Handlers) PostTicketMessage(c *gin.Context) {
	userID, role, ok := identity(c)
	if !ok {
		return
	}
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	m, err := h.Support.PostMessage(c.Request.Context(), c.Param("ticket_id"), userID, req.Body, role == "admin")
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h Handlers) CloseTicket(c *gin.Context) {
	userID, role, ok := identity(c)
	if !ok {
		return
	}
	t, err := h.Support.CloseTicket(c.Request.Context(), c.Param("ticket_id"), userID, role == "admin")
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// ListOpenTickets is the admin support queue.
func (h Handlers) ListOpenTickets(c *gin.Context) {
	ts, err := h.Support.ListOpenTickets(c.Request.Context(), 0)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": ts})
}
