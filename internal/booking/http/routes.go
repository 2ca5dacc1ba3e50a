package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/bookings")
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.POST("/quote", h.Quote)
		group.POST("/availability", h.Availability)
		group.GET("/:id", h.Get)
		group.DELETE("/:id", h.Cancel)
	}
}
