package api

import (
	"net/http"

	"screen-ai/services"

	"github.com/gin-gonic/gin"
)

func setupExperimentRoutes(rg *gin.RouterGroup, s *Server) {
	experiments := s.Services.Experiments
	g := rg.Group("/projects/:project_id/experiments")

	g.GET("", func(c *gin.Context) {
		page, ok := pageFromQuery(c, s.Config.PageLimitMax)
		if !ok {
			return
		}
		list, err := experiments.List(c.Request.Context(), currentUser(c).ID, c.Param("project_id"), page)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.POST("", func(c *gin.Context) {
		var in services.ExperimentInput
		if !bindJSON(c, &in) {
			return
		}
		e, err := experiments.Create(c.Request.Context(), currentUser(c).ID, c.Param("project_id"), in)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusCreated, e)
	})

	g.GET("/:experiment_id", func(c *gin.Context) {
		e, err := experiments.Get(c.Request.Context(), currentUser(c).ID, c.Param("project_id"), c.Param("experiment_id"))
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, e)
	})

	g.PATCH("/:experiment_id", func(c *gin.Context) {
		var in services.ExperimentInput
		if !bindJSON(c, &in) {
			return
		}
		e, err := experiments.Update(c.Request.Context(), currentUser(c).ID, c.Param("project_id"), c.Param("experiment_id"), in)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, e)
	})

	g.DELETE("/:experiment_id", func(c *gin.Context) {
		err := experiments.Delete(c.Request.Context(), currentUser(c).ID, c.Param("project_id"), c.Param("experiment_id"))
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}
