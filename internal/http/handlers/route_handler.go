// README: Route handlers for plan/get.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"loadapp/internal/modules/route"
	"loadapp/internal/types"
)

type RouteHandler struct {
	routes *route.Service
}

func NewRouteHandler(svc *route.Service) *RouteHandler {
	return &RouteHandler{routes: svc}
}

type locationReq struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

type planRouteReq struct {
	Origin        locationReq          `json:"origin"`
	Destination   locationReq          `json:"destination"`
	PickupTime    time.Time            `json:"pickup_time"`
	DeliveryTime  time.Time            `json:"delivery_time"`
	TransportType *route.TransportType `json:"transport_type,omitempty"`
	Cargo         *route.Cargo         `json:"cargo,omitempty"`
}

func (h *RouteHandler) Plan(c *gin.Context) {
	var req planRouteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}

	r, err := h.routes.Plan(c.Request.Context(), route.PlanCommand{
		Origin:        route.Location(req.Origin),
		Destination:   route.Location(req.Destination),
		PickupTime:    req.PickupTime,
		DeliveryTime:  req.DeliveryTime,
		TransportType: req.TransportType,
		Cargo:         req.Cargo,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *RouteHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "missing route id")
		return
	}
	r, err := h.routes.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}
