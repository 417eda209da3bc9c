// README: Cost setting handlers: list, batch patch, reset to defaults.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loadapp/internal/modules/costsetting"
)

type SettingsHandler struct {
	settings *costsetting.Service
}

func NewSettingsHandler(svc *costsetting.Service) *SettingsHandler {
	return &SettingsHandler{settings: svc}
}

func (h *SettingsHandler) List(c *gin.Context) {
	var f costsetting.Filter
	if v, ok := c.GetQuery("category"); ok {
		f.Category = &v
	}
	if v, ok := c.GetQuery("enabled"); ok {
		enabled := v == "true"
		f.Enabled = &enabled
	}

	settings, err := h.settings.ListSettings(c.Request.Context(), f)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings, "count": len(settings)})
}

type updateSettingsReq struct {
	Updates []costsetting.Patch `json:"updates"`
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var req updateSettingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}

	updated, err := h.settings.UpdateSettings(c.Request.Context(), req.Updates)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": updated, "count": len(updated)})
}

func (h *SettingsHandler) Reset(c *gin.Context) {
	settings, err := h.settings.ResetToDefaults(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings, "count": len(settings)})
}
