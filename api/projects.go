package api

import (
	"net/http"

	"screen-ai/services"

	"github.com/gin-gonic/gin"
)

func setupProjectRoutes(rg *gin.RouterGroup, s *Server) {
	projects := s.Services.Projects
	g := rg.Group("/projects")

	g.GET("", func(c *gin.Context) {
		page, ok := pageFromQuery(c, s.Config.PageLimitMax)
		if !ok {
			return
		}
		list, err := projects.List(c.Request.Context(), currentUser(c).ID, page)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.POST("", func(c *gin.Context) {
		var in services.ProjectInput
		if !bindJSON(c, &in) {
			return
		}
		p, err := projects.Create(c.Request.Context(), currentUser(c).ID, in)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	})

	g.GET("/:project_id", func(c *gin.Context) {
		p, err := projects.Get(c.Request.Context(), currentUser(c).ID, c.Param("project_id"))
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	g.PATCH("/:project_id", func(c *gin.Context) {
		var in services.ProjectInput
		if !bindJSON(c, &in) {
			return
		}
		p, err := projects.Update(c.Request.Context(), currentUser(c).ID, c.Param("project_id"), in)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	g.DELETE("/:project_id", func(c *gin.Context) {
		if err := projects.Delete(c.Request.Context(), currentUser(c).ID, c.Param("project_id")); err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}
