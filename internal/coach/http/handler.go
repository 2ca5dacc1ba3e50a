package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/sports-booking/internal/coach"
	"github.com/nekogravitycat/sports-booking/internal/pkg/request"
	"github.com/nekogravitycat/sports-booking/internal/pkg/response"
)

type Handler struct {
	service coach.Service
}

func NewHandler(service coach.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListCoachesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	coaches, total, err := h.service.List(c.Request.Context(), coach.Filter{
		ActiveOnly: req.ActiveOnly,
		Specialty:  req.Specialty,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]CoachResponse, len(coaches))
	for i, co := range coaches {
		items[i] = NewCoachResponse(co)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateCoachBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	co, err := h.service.Create(c.Request.Context(), coach.CreateRequest{
		Name:        body.Name,
		Email:       body.Email,
		Phone:       body.Phone,
		HourlyRate:  body.HourlyRate,
		Specialties: body.Specialties,
		Bio:         body.Bio,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewCoachResponse(co))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	co, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewCoachResponse(co))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateCoachBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	co, err := h.service.Update(c.Request.Context(), uri.ID, coach.UpdateRequest{
		Name:        body.Name,
		Email:       body.Email,
		Phone:       body.Phone,
		HourlyRate:  body.HourlyRate,
		Specialties: body.Specialties,
		Bio:         body.Bio,
		IsActive:    body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewCoachResponse(co))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "coach deactivated"})
}
