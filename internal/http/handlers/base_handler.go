// README: Base handler utilities (JSON helpers, domain error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"loadapp/internal/modules/costcalc"
	"loadapp/internal/modules/costsetting"
	"loadapp/internal/modules/offer"
	"loadapp/internal/modules/route"
)

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, errorResponse{Code: code, Error: msg})
}

// writeDomainError maps the domain error taxonomy onto stable HTTP codes.
// Unknown errors never leak internals to the caller.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, costsetting.ErrValidation):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, route.ErrBadRequest):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, costcalc.ErrInvalidRoute):
		writeError(c, http.StatusBadRequest, "INVALID_ROUTE", err.Error())
	case errors.Is(err, offer.ErrInvalidMargin):
		writeError(c, http.StatusBadRequest, "INVALID_MARGIN", err.Error())
	case errors.Is(err, offer.ErrBadRequest):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, offer.ErrInvalidState):
		writeError(c, http.StatusConflict, "INVALID_STATE_TRANSITION", err.Error())
	case errors.Is(err, offer.ErrConflict):
		writeError(c, http.StatusConflict, "CONCURRENCY_CONFLICT", err.Error())
	case errors.Is(err, costsetting.ErrNotFound),
		errors.Is(err, route.ErrNotFound),
		errors.Is(err, offer.ErrNotFound),
		errors.Is(err, costcalc.ErrCalculationNotFound):
		writeError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
