package handlers

import (
	"github.com/gin-gonic/gin"
	"portfolio-backend/internal/middleware"
)

type Routes struct {
	Projects    *ProjectsHandler
	Auth        *AuthHandler
	Diagnostics Diagnostics
}

// Register mounts every route on router. Authenticate must already be in
// the router's middleware chain.
func Register(router *gin.Engine, r Routes) {
	// Load balancers check the root path.
	router.GET("/health", HealthHandler)

	// Browser forms post here and follow the redirects.
	router.POST("/login", r.Auth.Login)
	router.POST("/logout", r.Auth.Logout)
	router.POST("/signup", r.Auth.Signup)

	api := router.Group("/api/v1")
	api.GET("/health", HealthHandler)

	authGroup := api.Group("/auth")
	authGroup.POST("/login", r.Auth.Login)
	authGroup.POST("/logout", r.Auth.Logout)
	authGroup.POST("/signup", r.Auth.Signup)
	authGroup.GET("/user", r.Auth.CurrentUser)

	api.GET("/projects", r.Projects.ListPublicProjects)
	api.GET("/projects/:slug", r.Projects.GetPublicProject)

	admin := api.Group("/admin", middleware.RequireUser())
	admin.GET("/projects", r.Projects.ListProjects)
	admin.POST("/projects", r.Projects.CreateProject)
	admin.GET("/projects/:id", r.Projects.GetProject)
	admin.PUT("/projects/:id", r.Projects.UpdateProject)
	admin.DELETE("/projects/:id", r.Projects.DeleteProject)
	admin.POST("/projects/:id/visibility", r.Projects.ToggleVisibility)
	admin.GET("/diagnostics", DiagnosticsHandler(r.Diagnostics))
}
