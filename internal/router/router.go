package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/planner/api/handler"
)

type Handlers struct {
	Project *apiHandler.ProjectHandler
	Task    *apiHandler.TaskHandler
	Team    *apiHandler.TeamHandler
	Health  *apiHandler.HealthHandler
	// Metrics is optional; /metrics is only routed when it is set.
	Metrics fasthttp.RequestHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()
	r.SaveMatchedRoutePath = true

	r.GET("/health", handlers.Health.Check)
	if handlers.Metrics != nil {
		r.GET("/metrics", handlers.Metrics)
	}

	api := r.Group("/api/v1")

	api.POST("/projects", authMiddleware(handlers.Project.CreateProject))
	api.GET("/projects/team/{teamId}", authMiddleware(handlers.Project.ListByTeam))
	api.GET("/projects/{id}", authMiddleware(handlers.Project.GetProject))
	api.PUT("/projects/{id}", authMiddleware(handlers.Project.UpdateProject))
	api.DELETE("/projects/{id}", authMiddleware(handlers.Project.DeleteProject))

	api.POST("/tasks", authMiddleware(handlers.Task.CreateTask))
	api.GET("/tasks/project/{projectId}", authMiddleware(handlers.Task.ListByProject))
	api.GET("/tasks/assigned", authMiddleware(handlers.Task.ListAssigned))
	api.GET("/tasks/created", authMiddleware(handlers.Task.ListCreated))
	api.GET("/tasks/{id}", authMiddleware(handlers.Task.GetTask))
	api.PUT("/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	api.PATCH("/tasks/{id}/status", authMiddleware(handlers.Task.UpdateStatus))
	api.DELETE("/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))

	api.GET("/teams/{teamId}/members", authMiddleware(handlers.Team.ListMembers))

	return r
}
