package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/sports-booking/internal/pkg/request"
	"github.com/nekogravitycat/sports-booking/internal/pkg/response"
	"github.com/nekogravitycat/sports-booking/internal/pricing"
)

type Handler struct {
	service pricing.Service
}

func NewHandler(service pricing.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListRulesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	rules, total, err := h.service.List(c.Request.Context(), pricing.Filter{
		Type:       pricing.RuleType(req.Type),
		ActiveOnly: req.ActiveOnly,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]RuleResponse, len(rules))
	for i, r := range rules {
		items[i] = NewRuleResponse(r)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRuleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	rule, err := h.service.Create(c.Request.Context(), pricing.CreateRequest{
		Name:         body.Name,
		Type:         pricing.RuleType(body.Type),
		ModifierType: pricing.ModifierType(body.ModifierType),
		Modifier:     body.Modifier,
		StartHour:    body.StartHour,
		EndHour:      body.EndHour,
		Description:  body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewRuleResponse(rule))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	rule, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRuleResponse(rule))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateRuleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	req := pricing.UpdateRequest{
		Name:        body.Name,
		Modifier:    body.Modifier,
		StartHour:   body.StartHour,
		EndHour:     body.EndHour,
		Description: body.Description,
		IsActive:    body.IsActive,
	}
	if body.ModifierType != nil {
		mt := pricing.ModifierType(*body.ModifierType)
		req.ModifierType = &mt
	}

	rule, err := h.service.Update(c.Request.Context(), uri.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRuleResponse(rule))
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

	c.JSON(http.StatusOK, gin.H{"message": "pricing rule deactivated"})
}
