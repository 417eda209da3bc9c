// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"loadapp/internal/http/handlers"
	"loadapp/internal/http/middleware"
	"loadapp/internal/modules/costcalc"
	"loadapp/internal/modules/costsetting"
	"loadapp/internal/modules/offer"
	"loadapp/internal/modules/route"
)

type Deps struct {
	Settings *costsetting.Service
	Routes   *route.Service
	Costs    *costcalc.Service
	Offers   *offer.Service
	Logger   *zap.Logger
}

func NewRouter(deps Deps) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.Logging(deps.Logger))
	engine.Use(middleware.Recovery(deps.Logger))

	settingsHandler := handlers.NewSettingsHandler(deps.Settings)
	engine.GET("/api/settings", settingsHandler.List)
	engine.POST("/api/settings", settingsHandler.Update)
	engine.POST("/api/settings/reset", settingsHandler.Reset)

	routeHandler := handlers.NewRouteHandler(deps.Routes)
	engine.POST("/api/routes", routeHandler.Plan)
	engine.GET("/api/routes/:id", routeHandler.Get)

	costHandler := handlers.NewCostHandler(deps.Costs)
	engine.POST("/api/costs/calculate", costHandler.Calculate)
	engine.GET("/api/costs/:id", costHandler.Get)

	offerHandler := handlers.NewOfferHandler(deps.Offers, deps.Costs)
	engine.POST("/api/offers", offerHandler.Generate)
	engine.GET("/api/offers", offerHandler.List)
	engine.GET("/api/offers/:id", offerHandler.Get)
	engine.GET("/api/offers/:id/history", offerHandler.History)
	engine.POST("/api/offers/:id/status", offerHandler.UpdateStatus)
	engine.POST("/api/offers/:id/margin", offerHandler.UpdateMargin)

	engine.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return engine
}
