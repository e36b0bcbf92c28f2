package main

import (
	"studiovault/internal/httpapi"
	"studiovault/internal/monitoring"
	"studiovault/internal/profile"
	"studiovault/internal/rbac"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, authMW gin.HandlerFunc, profiles *profile.Service) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(monitoring.Handler()))

	// External scheduler trigger. Authenticated by a static secret, not JWT.
	r.POST("/cron/sweep", httpapi.RequireCronSecret(h.CronSecret), h.TriggerSweep)

	v1 := r.Group("/v1")

	// AUTH routes (token issuance) sit outside the access-token middleware.
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
	}

	// Everything else requires a valid access token and an active profile.
	api := v1.Group("")
	api.Use(authMW)
	api.Use(rbac.RequireUser())
	api.Use(profile.RequireActive(profiles))
	{
		api.GET("/me", h.Me)

		// Search is open to every authenticated role.
		api.GET("/studios/search", h.SearchStudios)

		// WALLET routes
		walletGroup := api.Group("/wallet")
		{
			walletGroup.GET("/balance", h.GetWalletBalance)
			walletGroup.POST("/top-ups", h.RequestTopUp)
		}

		// SLOT routes (studio publishing)
		slotGroup := api.Group("/slots")
		slotGroup.Use(rbac.RequireAnyRole(rbac.RoleStudio))
		{
			slotGroup.POST("", h.CreateSlot)
		}

		// BOOKING routes
		bookings := api.Group("/bookings")
		{
			bookings.GET("", h.ListBookings)
			bookings.GET("/:booking_id", h.GetBooking)

			client := bookings.Group("")
			client.Use(rbac.RequireAnyRole(rbac.RoleCustomer))
			{
				client.POST("", h.CreateBooking)
				client.POST("/:booking_id/payment-proof", h.AttachPaymentProof)
				client.POST("/:booking_id/cancel", h.CancelBooking)
			}

			studio := bookings.Group("")
			studio.Use(rbac.RequireBookingManager())
			{
				studio.POST("/:booking_id/approve", h.ApproveBooking)
				studio.POST("/:booking_id/reject", h.RejectBooking)
			}
		}

		// SUPPORT routes
		supportGroup := api.Group("/support/tickets")
		{
			supportGroup.POST("", h.OpenTicket)
			supportGroup.GET("", h.ListTickets)
			supportGroup.GET("/:ticket_id/messages", h.TicketMessages)
			supportGroup.POST("/:ticket_id/messages", h.PostTicketMessage)
			supportGroup.POST("/:ticket_id/close", h.CloseTicket)
		}

		// ADMIN routes
		admin := api.Group("/admin")
		admin.Use(rbac.RequireAnyRole(rbac.RoleAdmin))
		{
			admin.GET("/top-ups", h.ListPendingTopUps)
			admin.POST("/top-ups/:top_up_id/approve", h.ApproveTopUp)
			admin.POST("/top-ups/:top_up_id/reject", h.RejectTopUp)
			admin.GET("/support/tickets", h.ListOpenTickets)
			admin.POST("/profiles/:profile_id/suspend", h.SuspendProfile)
			admin.GET("/reports/bookings", h.BookingsReport)
			admin.GET("/reports/earnings", h.EarningsReport)
		}
	}
}
