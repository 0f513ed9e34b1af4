package api

import (
	"net/http"

	"screen-ai/services"

	"github.com/gin-gonic/gin"
)

func setupAnalysisRoutes(rg *gin.RouterGroup, s *Server) {
	analyses := s.Services.Analyses

	wg := rg.Group("/wells/:well_id/analyses")
	wg.GET("", func(c *gin.Context) {
		page, ok := pageFromQuery(c, s.Config.PageLimitMax)
		if !ok {
			return
		}
		list, err := analyses.List(c.Request.Context(), currentUser(c).ID, c.Param("well_id"), page)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	wg.POST("", func(c *gin.Context) {
		var in services.AnalysisInput
		if !bindJSON(c, &in) {
			return
		}
		a, err := analyses.Create(c.Request.Context(), currentUser(c).ID, c.Param("well_id"), in)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusCreated, a)
	})

	g := rg.Group("/analyses/:analysis_id")
	g.GET("", func(c *gin.Context) {
		a, err := analyses.Get(c.Request.Context(), currentUser(c).ID, c.Param("analysis_id"))
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, a)
	})

	g.PATCH("", func(c *gin.Context) {
		var in services.AnalysisInput
		if !bindJSON(c, &in) {
			return
		}
		a, err := analyses.Update(c.Request.Context(), currentUser(c).ID, c.Param("analysis_id"), in)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, a)
	})

	g.DELETE("", func(c *gin.Context) {
		if err := analyses.Delete(c.Request.Context(), currentUser(c).ID, c.Param("analysis_id")); err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}
