package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-floor/internal/handler"
	"github.com/iliyamo/restaurant-floor/internal/middleware"
)

// RegisterFloor registers the area and table management endpoints under /v1.
// Reads are open to every authenticated role and pass through the response
// cache; layout mutations are restricted to ADMIN and MANAGER, with the
// manual reserved switch also open to WAITER.  The services enforce the same
// role checks again, so a misconfigured route cannot widen access.
func RegisterFloor(e *echo.Echo, a *handler.AreaHandler, f *handler.FloorHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	read := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "MANAGER", "WAITER", "CUSTOMER"),
	)
	if cache != nil {
		read.Use(cache)
	}
	read.GET("/areas", a.ListAreas)
	read.GET("/areas/:id", a.GetArea)
	read.GET("/areas/:id/tables", f.ListTables)
	read.GET("/tables/:id", f.GetTable)
	read.GET("/tables/:id/usage", f.GetUsage)

	edit := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "MANAGER"),
	)
	edit.POST("/areas", a.CreateArea)
	edit.PUT("/areas/:id", a.UpdateArea)
	edit.DELETE("/areas/:id", a.DeleteArea)
	edit.PUT("/areas/:id/grid", a.SetGrid)
	edit.DELETE("/areas/:id/grid", a.ClearGrid)

	edit.POST("/areas/:id/tables", f.CreateTable)
	edit.PUT("/tables/:id/position", f.MoveTable)
	edit.PUT("/areas/:id/tables", f.UpdateTables)

	staff := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "MANAGER", "WAITER"),
	)
	staff.PUT("/tables/:id/reserved", f.SetReserved)
}
