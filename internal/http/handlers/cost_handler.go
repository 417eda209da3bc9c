// README: Cost calculation handlers: run for a route, fetch by calculation id.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loadapp/internal/modules/costcalc"
	"loadapp/internal/types"
)

type CostHandler struct {
	costs *costcalc.Service
}

func NewCostHandler(svc *costcalc.Service) *CostHandler {
	return &CostHandler{costs: svc}
}

type calculateReq struct {
	RouteID string `json:"route_id"`
}

func (h *CostHandler) Calculate(c *gin.Context) {
	var req calculateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}
	if req.RouteID == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "missing route_id")
		return
	}

	resp, err := h.costs.CalculateForRoute(c.Request.Context(), types.ID(req.RouteID))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CostHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "missing calculation id")
		return
	}
	resp, err := h.costs.GetCalculation(c.Request.Context(), types.ID(id))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
