// README: Offer handlers: generate, get, list, status and margin updates.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"loadapp/internal/modules/costcalc"
	"loadapp/internal/modules/offer"
	"loadapp/internal/types"
)

type OfferHandler struct {
	offers *offer.Service
	costs  *costcalc.Service
}

func NewOfferHandler(offers *offer.Service, costs *costcalc.Service) *OfferHandler {
	return &OfferHandler{offers: offers, costs: costs}
}

type generateOfferReq struct {
	RouteID       string  `json:"route_id"`
	CalculationID string  `json:"calculation_id"`
	Margin        float64 `json:"margin"`
}

// Generate prices an offer from a previously computed breakdown. When no
// calculation id is supplied a fresh calculation is run for the route.
func (h *OfferHandler) Generate(c *gin.Context) {
	var req generateOfferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}
	if req.RouteID == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "missing route_id")
		return
	}

	var breakdown *costcalc.Response
	var err error
	if req.CalculationID != "" {
		breakdown, err = h.costs.GetCalculation(c.Request.Context(), types.ID(req.CalculationID))
	} else {
		breakdown, err = h.costs.CalculateForRoute(c.Request.Context(), types.ID(req.RouteID))
	}
	if err != nil {
		writeDomainError(c, err)
		return
	}

	o, err := h.offers.Generate(c.Request.Context(), offer.GenerateCommand{
		RouteID:   types.ID(req.RouteID),
		Margin:    req.Margin,
		Breakdown: breakdown,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *OfferHandler) Get(c *gin.Context) {
	o, err := h.offers.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OfferHandler) List(c *gin.Context) {
	var f offer.Filter
	if v, ok := c.GetQuery("status"); ok {
		status := offer.Status(v)
		f.Status = &status
	}
	if v, ok := c.GetQuery("route_id"); ok {
		routeID := types.ID(v)
		f.RouteID = &routeID
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "10"))

	offers, total, err := h.offers.List(c.Request.Context(), f)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers, "total": total})
}

type statusReq struct {
	Status  string `json:"status"`
	Version int    `json:"version"`
	Reason  string `json:"reason"`
}

func (h *OfferHandler) UpdateStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}

	o, err := h.offers.UpdateStatus(c.Request.Context(), offer.StatusCommand{
		OfferID: types.ID(c.Param("id")),
		To:      offer.Status(req.Status),
		Version: req.Version,
		Reason:  req.Reason,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type marginReq struct {
	Margin  float64 `json:"margin"`
	Version int     `json:"version"`
}

func (h *OfferHandler) UpdateMargin(c *gin.Context) {
	var req marginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}

	o, err := h.offers.UpdateMargin(c.Request.Context(), offer.MarginCommand{
		OfferID: types.ID(c.Param("id")),
		Margin:  req.Margin,
		Version: req.Version,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OfferHandler) History(c *gin.Context) {
	records, err := h.offers.History(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": records})
}
