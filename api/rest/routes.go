package rest

import (
	"github.com/amerihn/conference-event-planner/catalog"
	"github.com/amerihn/conference-event-planner/config"
	mw "github.com/amerihn/conference-event-planner/middleware"
	"github.com/amerihn/conference-event-planner/planner"
	"github.com/amerihn/conference-event-planner/scheduler"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Register mounts every /api route on api.
func Register(api *gin.RouterGroup, m *planner.Manager, sched *scheduler.Scheduler, server config.ServerConfig, sec config.SecurityConfig, logger *zap.Logger) {
	sessH := NewSessionHandler(m, sec, logger)
	catH := NewCatalogHandler(m.Seed())
	adminH := NewAdminHandler(m, sched, logger)

	api.GET("/catalogs", catH.List)
	api.POST("/sessions", sessH.Create)

	authed := api.Group("")
	authed.Use(mw.Auth(sec, m))
	{
		authed.GET("/session", sessH.Get)
		authed.DELETE("/session", sessH.End)
		authed.POST("/session/reset", sessH.Reset)

		authed.POST("/venue/:index/increment", sessH.Adjust(catalog.CategoryVenue, +1))
		authed.POST("/venue/:index/decrement", sessH.Adjust(catalog.CategoryVenue, -1))
		authed.POST("/addons/:index/increment", sessH.Adjust(catalog.CategoryAV, +1))
		authed.POST("/addons/:index/decrement", sessH.Adjust(catalog.CategoryAV, -1))
		authed.POST("/meals/:index/toggle", sessH.ToggleMeal)
		authed.PUT("/people", sessH.SetPeople)

		authed.GET("/totals", sessH.Totals)
		authed.GET("/line-items", sessH.LineItems)

		authed.POST("/view/toggle", sessH.ToggleView)
		authed.POST("/view/navigate", sessH.Navigate)
	}

	adminG := api.Group("/admin")
	adminG.Use(mw.AdminAuth(server.AdminKey, server.AdminIPs))
	{
		adminG.GET("/metrics", adminH.Metrics)
		adminG.GET("/sessions", adminH.ListSessions)
		adminG.DELETE("/sessions/:id", adminH.EndSession)
	}
}
