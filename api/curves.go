package api

import (
	"net/http"

	"screen-ai/services"

	"github.com/gin-gonic/gin"
)

func setupCurveRoutes(rg *gin.RouterGroup, s *Server) {
	curves := s.Services.Curves
	g := rg.Group("/experiments/:experiment_id/curves")

	g.GET("", func(c *gin.Context) {
		page, ok := pageFromQuery(c, s.Config.PageLimitMax)
		if !ok {
			return
		}
		list, err := curves.List(c.Request.Context(), currentUser(c).ID, c.Param("experiment_id"), page)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.POST("", func(c *gin.Context) {
		var in services.CurveInput
		if !bindJSON(c, &in) {
			return
		}
		curve, err := curves.Create(c.Request.Context(), currentUser(c).ID, c.Param("experiment_id"), in)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusCreated, curve)
	})

	g.GET("/:curve_id", func(c *gin.Context) {
		curve, err := curves.Get(c.Request.Context(), currentUser(c).ID, c.Param("experiment_id"), c.Param("curve_id"))
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, curve)
	})

	g.PATCH("/:curve_id", func(c *gin.Context) {
		var in services.CurveInput
		if !bindJSON(c, &in) {
			return
		}
		curve, err := curves.Update(c.Request.Context(), currentUser(c).ID, c.Param("experiment_id"), c.Param("curve_id"), in)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, curve)
	})

	g.DELETE("/:curve_id", func(c *gin.Context) {
		if err := curves.Delete(c.Request.Context(), currentUser(c).ID, c.Param("experiment_id"), c.Param("curve_id")); err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}
