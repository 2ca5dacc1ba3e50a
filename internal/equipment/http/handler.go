package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/sports-booking/internal/equipment"
	"github.com/nekogravitycat/sports-booking/internal/pkg/request"
	"github.com/nekogravitycat/sports-booking/internal/pkg/response"
)

type Handler struct {
	service equipment.Service
}

func NewHandler(service equipment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListEquipmentRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	items, total, err := h.service.List(c.Request.Context(), equipment.Filter{
		Type:       equipment.Type(req.Type),
		ActiveOnly: req.ActiveOnly,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := make([]EquipmentResponse, len(items))
	for i, e := range items {
		resp[i] = NewEquipmentResponse(e)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(resp, req.Page, req.PageSize, total))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateEquipmentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	e, err := h.service.Create(c.Request.Context(), equipment.CreateRequest{
		Name:        body.Name,
		Type:        equipment.Type(body.Type),
		TotalStock:  body.TotalStock,
		RentalPrice: body.RentalPrice,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewEquipmentResponse(e))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	e, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewEquipmentResponse(e))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateEquipmentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	req := equipment.UpdateRequest{
		Name:           body.Name,
		TotalStock:     body.TotalStock,
		AvailableStock: body.AvailableStock,
		RentalPrice:    body.RentalPrice,
		Description:    body.Description,
		IsActive:       body.IsActive,
	}
	if body.Type != nil {
		t := equipment.Type(*body.Type)
		req.Type = &t
	}

	e, err := h.service.Update(c.Request.Context(), uri.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewEquipmentResponse(e))
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
	c.JSON(http.StatusOK, gin.H{"message": "equipment deactivated"})
}
