package api

import (
	"net/http"

	"screen-ai/services"

	"github.com/gin-gonic/gin"
)

func setupPlateRoutes(rg *gin.RouterGroup, s *Server) {
	plates := s.Services.Plates
	aggregation := s.Services.Aggregation
	g := rg.Group("/experiments/:experiment_id/plates")

	g.GET("", func(c *gin.Context) {
		page, ok := pageFromQuery(c, s.Config.PageLimitMax)
		if !ok {
			return
		}
		list, err := plates.List(c.Request.Context(), currentUser(c).ID, c.Param("experiment_id"), page)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.POST("", func(c *gin.Context) {
		var in services.PlateInput
		if !bindJSON(c, &in) {
			return
		}
		p, err := plates.Create(c.Request.Context(), currentUser(c).ID, c.Param("experiment_id"), in)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	})

	g.GET("/:plate_id", func(c *gin.Context) {
		p, err := plates.Get(c.Request.Context(), currentUser(c).ID, c.Param("experiment_id"), c.Param("plate_id"))
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	g.PATCH("/:plate_id", func(c *gin.Context) {
		var in services.PlateInput
		if !bindJSON(c, &in) {
			return
		}
		p, err := plates.Update(c.Request.Context(), currentUser(c).ID, c.Param("experiment_id"), c.Param("plate_id"), in)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	g.DELETE("/:plate_id", func(c *gin.Context) {
		err := plates.Delete(c.Request.Context(), currentUser(c).ID, c.Param("experiment_id"), c.Param("plate_id"))
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	// Heatmap: ein Eintrag pro Well mit den Werten der jüngsten Analyse.
	g.GET("/:plate_id/grid", func(c *gin.Context) {
		grid, err := aggregation.PlateGrid(c.Request.Context(), currentUser(c).ID, c.Param("experiment_id"), c.Param("plate_id"))
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, grid)
	})
}
